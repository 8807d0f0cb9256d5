package webservices

import (
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/styling"
)

// AdminService serves a status page, and lets the styles directory be re-read and datasets be added while the server is running
type AdminService struct {
	logger            *logpkg.Logger
	fs                gofs.Fs
	pathsConfig       *featuredal.PathsConfig
	connSet           *featuredal.ConnSet
	registry          *styling.Registry
	loader            *styling.Loader
	defaultStyleID    string
	routerURLBasePath string
	chi.Router
}

func NewAdminService(
	logger *logpkg.Logger,
	fs gofs.Fs,
	pathsConfig *featuredal.PathsConfig,
	connSet *featuredal.ConnSet,
	registry *styling.Registry,
	loader *styling.Loader,
	defaultStyleID string,
	routerURLBasePath string,
) *AdminService {
	as := &AdminService{logger, fs, pathsConfig, connSet, registry, loader, defaultStyleID, routerURLBasePath, chi.NewRouter()}

	as.Router.Get("/", as.handleGet)
	as.Router.Post("/styles/reload", as.handlePostReloadStyles)
	as.Router.Post("/datasetFile", as.handlePostDatasetFile)

	return as
}

func (as *AdminService) handlePostReloadStyles(w http.ResponseWriter, r *http.Request) {
	if as.pathsConfig == nil || as.pathsConfig.StylesDir == "" {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Errorf("no styles directory configured"), http.StatusBadRequest)
		return
	}

	styleSet, err := as.loader.LoadStyleSet(as.pathsConfig.StylesDir, as.defaultStyleID)
	if err != nil {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	as.registry.ReplaceStyleSet(styleSet)

	render.JSON(w, r, stylesType{
		styleSet.GetDefaultStyleID(),
		styleSet.GetAllStyleIDs(),
	})
}

func (as *AdminService) handlePostDatasetFile(w http.ResponseWriter, r *http.Request) {
	if as.pathsConfig == nil || as.pathsConfig.DataDir == "" {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Errorf("no data directory configured"), http.StatusBadRequest)
		return
	}

	multipartFile, formData, err := r.FormFile("datasetFile")
	if err != nil {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}
	defer multipartFile.Close()

	fileName := filepath.Base(formData.Filename)
	name, ok := featuredal.DatasetNameFromFileName(fileName)
	if !ok {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Errorf("expected a %s or %s file, but got %q", featuredal.GeoJSONFileExtension, featuredal.OSMPBFFileExtension, fileName), http.StatusBadRequest)
		return
	}

	for _, conn := range as.connSet.GetConns() {
		if conn.Name() == name {
			errorsx.HTTPJSONError(w, as.logger, errorsx.Errorf("a dataset called %q is already loaded", name), http.StatusConflict)
			return
		}
	}

	filePath := filepath.Join(as.pathsConfig.DataDir, fileName)
	err = as.writeFile(filePath, multipartFile)
	if err != nil {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	conn, err := featuredal.OpenDataSourceConn(r.Context(), as.logger, as.fs, name, filePath, "")
	if err != nil {
		removeErr := as.fs.Remove(filePath)
		if removeErr != nil {
			as.logger.Warn("failed to remove %q after it could not be loaded: %q", filePath, removeErr)
		}
		errorsx.HTTPJSONError(w, as.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	as.connSet.AddConn(conn)
	as.logger.Info("added dataset %q from %q", name, filePath)

	info, err := conn.DatasetInfo()
	if err != nil {
		errorsx.HTTPJSONError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, info)
}

func (as *AdminService) writeFile(filePath string, reader io.Reader) errorsx.Error {
	file, err := as.fs.Create(filePath)
	if err != nil {
		return errorsx.Wrap(err, "filePath", filePath)
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	if err != nil {
		return errorsx.Wrap(err, "filePath", filePath)
	}

	return nil
}

type adminStyleType struct {
	ID         string
	LayerCount int
	IsDefault  bool
}

func (as *AdminService) handleGet(w http.ResponseWriter, r *http.Request) {
	styleSet := as.registry.StyleSet()

	var styles []adminStyleType
	for _, styleID := range styleSet.GetAllStyleIDs() {
		style, _ := styleSet.GetStyleByID(styleID)
		styles = append(styles, adminStyleType{
			ID:         styleID,
			LayerCount: len(style.Layers()),
			IsDefault:  styleID == styleSet.GetDefaultStyleID(),
		})
	}

	var datasetNames []string
	for _, conn := range as.connSet.GetConns() {
		datasetNames = append(datasetNames, conn.Name())
	}

	data := map[string]interface{}{
		"Styles":            styles,
		"DatasetNames":      datasetNames,
		"RouterURLBasePath": as.routerURLBasePath,
	}

	if as.pathsConfig != nil {
		data["StylesDir"] = as.pathsConfig.StylesDir
		data["DataDir"] = as.pathsConfig.DataDir
	}

	err := adminTmpl.Execute(w, data)
	if err != nil {
		errorsx.HTTPError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}
}

var adminTmpl *template.Template

func init() {
	var err error
	adminTmpl, err = template.New("admin/index.html").Parse(adminTemplate)
	if err != nil {
		panic(err)
	}
}

const adminTemplate = `
<html>
	<head>
		<title>admin</title>
		<style type="text/css">
		div {
			margin: 10px;
			border: 1px solid grey;
			padding: 10px;
		}
		</style>
		<script>
		function reloadStyles() {
			fetch('/{{.RouterURLBasePath}}/styles/reload', {method: 'POST'})
				.then(() => window.location.reload())
				.catch(e => {
					console.error(e);
					alert('failed to reload styles: ' + e);
				});
		}

		function submitDatasetFile(formEl) {
			const formData = new FormData(formEl);

			fetch('/{{.RouterURLBasePath}}/datasetFile', {method: 'POST', body: formData})
				.then(() => window.location.reload())
				.catch(e => {
					console.error(e);
					alert('failed to upload dataset file: ' + e);
				});
		}
		</script>
	</head>
	<body>
		<h1>Admin settings</h1>
		<div>
			<h2>Styles</h2>
			<p>Styles are Mapbox GL style.json files, one per folder in <pre>{{.StylesDir}}</pre></p>
			{{range .Styles}}
				<p>
					<a href="/api/styles/{{.ID}}">{{.ID}}</a> ({{.LayerCount}} layers){{if .IsDefault}} (default){{end}}
				</p>
			{{end}}
			<button onclick="reloadStyles()">Reload styles</button>
		</div>

		<div>
			<h2>Datasets</h2>
			{{range .DatasetNames}}
				<p>{{.}}</p>
			{{end}}
			<form action="javascript:;" method="POST" enctype="multipart/form-data" onsubmit="submitDatasetFile(this)" name="datasetUploadForm">
				<p>This will be copied into <pre>{{.DataDir}}</pre></p>
				<p>
					<label>
						GeoJSON feature collection (.geojson file) or OpenStreetMap extract (.osm.pbf file)
						<input type="file" name="datasetFile" />
					</label>
				</p>
				<input type="submit" value="Go!" />
			</form>
		</div>
	</body>
</html>
`
