package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/open"
	"github.com/jamesrr39/ownmap-style/appconfig"
	"github.com/jamesrr39/ownmap-style/feature"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/fonts"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/stylerenderer"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/jamesrr39/ownmap-style/webservices"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	MAX_SERVER_RUNNING_ATTEMPTS = 50
)

var logger *logpkg.Logger

func main() {
	if len(os.Args) == 1 {
		logger = logpkg.NewLogger(os.Stderr, logpkg.LogLevelInfo)
		// start in desktop "double-click" visual mode
		err := setupDesktopMode()
		if err != nil {
			log.Fatalf("failed to start server: %q\n%s\n", err.Error(), err.Stack())
		}
		return
	}

	verbose := kingpin.Flag("verbose", "verbose logging").Short('v').Bool()

	setupServe()
	setupValidate()
	setupResolve()

	kingpin.CommandLine.PreAction(func(ctx *kingpin.ParseContext) error {
		logLevel := logpkg.LogLevelInfo
		if *verbose {
			logLevel = logpkg.LogLevelDebug
		}
		logger = logpkg.NewLogger(os.Stderr, logLevel)
		return nil
	})

	kingpin.Parse()
}

// runAction runs an action, printing the stack trace of any error it returns
func runAction(action func() errorsx.Error) error {
	err := action()
	if err != nil {
		return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
	}
	return nil
}

type serverDeps struct {
	fs          gofs.Fs
	config      *appconfig.Config
	pathsConfig *featuredal.PathsConfig
	registry    *styling.Registry
	loader      *styling.Loader
	connSet     *featuredal.ConnSet
}

func setupServerDeps(config *appconfig.Config) (*serverDeps, errorsx.Error) {
	fs := gofs.NewOsFs()

	err := config.Finalise()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	pathsConfig := config.PathsConfig()
	err = pathsConfig.EnsurePaths(fs)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	loader, err := styling.NewLoader(logger, fs, config.StyleCacheSize)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	styleSet, err := loader.LoadStyleSet(pathsConfig.StylesDir, config.DefaultStyleID)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	logger.Info("loaded styles %q from %q", styleSet.GetAllStyleIDs(), pathsConfig.StylesDir)

	conns, err := config.OpenDatasets(context.Background(), logger, fs)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &serverDeps{
		fs:          fs,
		config:      config,
		pathsConfig: pathsConfig,
		registry:    styling.NewRegistry(logger, styleSet),
		loader:      loader,
		connSet:     featuredal.NewConnSet(logger, conns),
	}, nil
}

func setupDesktopMode() errorsx.Error {
	config := appconfig.DefaultConfig()

	deps, err := setupServerDeps(config)
	if err != nil {
		return errorsx.Wrap(err)
	}
	defer deps.loader.Close()

	shouldProfile := false
	router, err := createServer(deps, shouldProfile)
	if err != nil {
		return errorsx.Wrap(err)
	}

	server := httpextra.NewServerWithTimeouts()
	server.Addr = config.Addr
	server.Handler = router

	errChan := make(chan errorsx.Error, 2)

	go func() {
		err := server.ListenAndServe()
		if err != nil {
			errChan <- errorsx.Wrap(err)
			return
		}
	}()

	go func() {
		// test server is running
		for i := 0; i < MAX_SERVER_RUNNING_ATTEMPTS; i++ {
			client := http.Client{
				Timeout: time.Second * 10,
			}
			resp, err := client.Get(fmt.Sprintf("http://%s/api/info", server.Addr))
			if err != nil {
				// retry after wait
				time.Sleep(time.Millisecond * 500)
				continue
			}
			resp.Body.Close()

			err = httpextra.CheckResponseCode(http.StatusOK, resp.StatusCode)
			if err != nil {
				errChan <- errorsx.Wrap(err)
				return
			}

			errChan <- nil
			return
		}

		errChan <- errorsx.Errorf("server did not start after %d attempts", MAX_SERVER_RUNNING_ATTEMPTS)
	}()

	err = <-errChan
	if err != nil {
		return errorsx.Wrap(err)
	}

	openErr := open.OpenURL(fmt.Sprintf("http://%s/admin/", server.Addr))
	if openErr != nil {
		return errorsx.Wrap(openErr)
	}

	// serve until the server fails
	err = <-errChan
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	appconfig.DefaultPort, appconfig.DefaultPort, appconfig.DefaultPort, appconfig.DefaultPort,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve webserver")
	configPath := cmd.Flag("config", "path to a YAML config file").String()
	addr := cmd.Flag("addr", addrHelp).String()
	stylesDir := cmd.Flag("styles-dir", "directory of styles, one style.json per sub-directory").String()
	dataDir := cmd.Flag("data-dir", "directory of GeoJSON and OSM PBF datasets").String()
	defaultStyleID := cmd.Flag("default-style-id", "default style to render with").String()
	maxConcurrentRenders := cmd.Flag("max-concurrent-renders", "maximum amount of tiles rendered at the same time").Uint()
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			config := appconfig.DefaultConfig()
			if *configPath != "" {
				var err errorsx.Error
				config, err = appconfig.Load(gofs.NewOsFs(), *configPath)
				if err != nil {
					return errorsx.Wrap(err)
				}
			}

			// flags override the config file
			if *addr != "" {
				config.Addr = *addr
			}
			if *stylesDir != "" {
				config.StylesDir = *stylesDir
			}
			if *dataDir != "" {
				config.DataDir = *dataDir
			}
			if *defaultStyleID != "" {
				config.DefaultStyleID = *defaultStyleID
			}
			if *maxConcurrentRenders != 0 {
				config.MaxConcurrentRenders = *maxConcurrentRenders
			}

			deps, err := setupServerDeps(config)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer deps.loader.Close()

			router, err := createServer(deps, *shouldProfile)
			if err != nil {
				return errorsx.Wrap(err)
			}

			server := httpextra.NewServerWithTimeouts()
			server.Addr = config.Addr
			server.Handler = router

			logger.Info("about to start serving on %q", config.Addr)

			serveErr := server.ListenAndServe()
			if serveErr != nil {
				return errorsx.Wrap(serveErr)
			}
			return nil
		})
	})
}

func setupValidate() {
	cmd := kingpin.Command("validate", "check style documents parse, reporting the path of the first problem in each")
	paths := cmd.Arg("style-file", "style.json file(s)").Required().ExistingFiles()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			return validateStyles(gofs.NewOsFs(), os.Stdout, *paths)
		})
	})
}

func validateStyles(fs gofs.Fs, w io.Writer, paths []string) errorsx.Error {
	failed := 0
	for _, path := range paths {
		data, err := fs.ReadFile(path)
		if err != nil {
			return errorsx.Wrap(err, "path", path)
		}

		style, parseErr := mapboxglstyle.ParseBytes(data)
		if parseErr != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %s\n", path, parseErr.Error())
			continue
		}

		fmt.Fprintf(w, "ok   %s: %q, %d sources, %d layers\n", path, style.GetStyleID(), len(style.Sources()), len(style.Layers()))
	}

	if failed != 0 {
		return errorsx.Errorf("%d of %d style(s) failed to parse", failed, len(paths))
	}

	return nil
}

func setupResolve() {
	cmd := kingpin.Command("resolve", "print the layers of a style that would draw a feature, with their evaluated properties")
	stylePath := cmd.Arg("style-file", "style.json file").Required().ExistingFile()
	zoom := cmd.Flag("zoom", "zoom level").Required().Float64()
	sourceLayer := cmd.Flag("source-layer", "source layer the feature is in").Required().String()
	featurePath := cmd.Flag("feature", "GeoJSON feature file, or '-' for stdin").Default("-").String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			var featureReader io.Reader = os.Stdin
			if *featurePath != "-" {
				file, err := os.Open(*featurePath)
				if err != nil {
					return errorsx.Wrap(err)
				}
				defer file.Close()
				featureReader = file
			}

			return resolveFeature(gofs.NewOsFs(), os.Stdout, *stylePath, featureReader, *zoom, *sourceLayer)
		})
	})
}

type resolveOutputType struct {
	StyleID     string                         `json:"styleId"`
	Zoom        float64                        `json:"zoom"`
	SourceLayer string                         `json:"sourceLayer"`
	Layers      []*mapboxglstyle.ResolvedLayer `json:"layers"`
}

func resolveFeature(fs gofs.Fs, w io.Writer, stylePath string, featureReader io.Reader, zoom float64, sourceLayer string) errorsx.Error {
	styleData, err := fs.ReadFile(stylePath)
	if err != nil {
		return errorsx.Wrap(err, "path", stylePath)
	}

	style, parseErr := mapboxglstyle.ParseBytes(styleData)
	if parseErr != nil {
		return errorsx.Wrap(parseErr, "path", stylePath)
	}

	featureData, err := ioutil.ReadAll(featureReader)
	if err != nil {
		return errorsx.Wrap(err)
	}

	f, parseErr := feature.Parse(featureData)
	if parseErr != nil {
		return errorsx.Wrap(parseErr)
	}

	zoom = float64(ownmap.ZoomLevel(zoom).Clamp())

	resolved := style.ResolveFeature(zoom, sourceLayer, f)
	if resolved == nil {
		resolved = []*mapboxglstyle.ResolvedLayer{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	err = encoder.Encode(resolveOutputType{style.GetStyleID(), zoom, sourceLayer, resolved})
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func isLocalhost(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func createLocalhostMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !isLocalhost(r.RemoteAddr) {
				http.Error(w, "connections only allowed from the same computer the server is running on", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

const (
	adminPath = "admin"
)

func createTraceFile(traceDirPath string) (*os.File, errorsx.Error) {
	var err error
	if traceDirPath == "" {
		traceDirPath, err = ioutil.TempDir("", "")
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
	}

	traceFilePath := filepath.Join(traceDirPath, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__15_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := os.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return traceFile, nil
}

func createServer(deps *serverDeps, shouldProfile bool) (chi.Router, errorsx.Error) {
	renderer := stylerenderer.NewRasterRenderer(logger, fonts.DefaultFont())

	adminService := webservices.NewAdminService(
		logger,
		deps.fs,
		deps.pathsConfig,
		deps.connSet,
		deps.registry,
		deps.loader,
		deps.config.DefaultStyleID,
		adminPath,
	)

	traceFile, err := createTraceFile(deps.pathsConfig.TraceDir)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracing.NewTracer(traceFile)))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", webservices.NewInfoService(logger, deps.connSet, deps.registry))
		r.Mount("/styles", webservices.NewStyleService(logger, deps.registry))
		r.Mount("/tiles/", webservices.NewTileService(logger, deps.connSet, renderer, deps.registry, deps.config.MaxConcurrentRenders, shouldProfile))
		r.Mount("/features/", webservices.NewFeaturesService(logger, deps.connSet, deps.registry))
	})
	router.Route(fmt.Sprintf("/%s/", adminPath), func(r chi.Router) {
		r.Use(createLocalhostMiddleware())
		r.Mount("/", adminService)
	})

	return router, nil
}
