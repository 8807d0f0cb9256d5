package webservices

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bergenGeoJSON = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5.32, 60.39]}, "properties": {"place": "city", "name": "Bergen"}}
]}`

func newTestAdminService(t *testing.T, fs mockfs.MockFs, connSet *featuredal.ConnSet, registry *styling.Registry) *AdminService {
	loader, err := styling.NewLoader(newTestLogger(), fs, 1<<20)
	require.NoError(t, err)
	t.Cleanup(loader.Close)

	pathsConfig := &featuredal.PathsConfig{StylesDir: "/styles", DataDir: "/data"}

	return NewAdminService(newTestLogger(), fs, pathsConfig, connSet, registry, loader, styling.BUILTIN_STYLEID, "admin")
}

func newMultipartBody(t *testing.T, fieldName, fileName, contents string) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestAdminService_handleGet(t *testing.T) {
	as := newTestAdminService(t, newTestFs(t), newTestConnSet(t), newTestRegistry(t))

	w := httptest.NewRecorder()
	as.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), `<a href="/api/styles/test">test</a> (3 layers) (default)`)
	assert.Contains(t, w.Body.String(), "<p>oslo</p>")
}

func TestAdminService_reloadStyles(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, fs.MkdirAll("/styles/dark", 0700))
	require.NoError(t, fs.WriteFile("/styles/dark/style.json", []byte(`{"version": 8, "name": "dark", "layers": []}`), 0600))

	registry := newTestRegistry(t)
	as := newTestAdminService(t, fs, newTestConnSet(t), registry)

	w := httptest.NewRecorder()
	as.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/styles/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{styling.BUILTIN_STYLEID, "dark"}, registry.StyleSet().GetAllStyleIDs())
	assert.Equal(t, styling.BUILTIN_STYLEID, registry.StyleSet().GetDefaultStyleID())
}

func TestAdminService_postDatasetFile(t *testing.T) {
	fs := newTestFs(t)
	connSet := newTestConnSet(t)
	as := newTestAdminService(t, fs, connSet, newTestRegistry(t))

	tests := []struct {
		name      string
		fileName  string
		contents  string
		wantCode  int
		wantConns int
	}{
		{"new dataset", "bergen.geojson", bergenGeoJSON, http.StatusOK, 2},
		{"same name again", "bergen.geojson", bergenGeoJSON, http.StatusConflict, 2},
		{"wrong extension", "bergen.json", bergenGeoJSON, http.StatusBadRequest, 2},
		{"not geojson", "broken.geojson", `{"type": "FeatureCollection"`, http.StatusBadRequest, 2},
		{"not a pbf file", "broken.osm.pbf", `not protobuf`, http.StatusBadRequest, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := newMultipartBody(t, "datasetFile", tt.fileName, tt.contents)

			r := httptest.NewRequest(http.MethodPost, "/datasetFile", body)
			r.Header.Set("Content-Type", contentType)

			w := httptest.NewRecorder()
			as.ServeHTTP(w, r)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Len(t, connSet.GetConns(), tt.wantConns)
		})
	}

	_, err := fs.Stat("/data/bergen.geojson")
	assert.NoError(t, err)

	_, err = fs.Stat("/data/broken.geojson")
	assert.Error(t, err)

	_, err = fs.Stat("/data/broken.osm.pbf")
	assert.Error(t, err)
}
