package webservices

import (
	"image"
	"image/png"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/stylerenderer"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
)

const (
	DefaultMaxConcurrentRenders = 4
	tileSizePixels              = 256
)

type TileService struct {
	logger        *logpkg.Logger
	connSet       *featuredal.ConnSet
	sema          *semaphore.Semaphore
	rasterer      stylerenderer.MapRenderer
	registry      *styling.Registry
	shouldProfile bool
	chi.Router
}

func NewTileService(logger *logpkg.Logger, connSet *featuredal.ConnSet, rasterer stylerenderer.MapRenderer, registry *styling.Registry, maxConcurrentRenders uint, shouldProfile bool) *TileService {
	if maxConcurrentRenders == 0 {
		maxConcurrentRenders = DefaultMaxConcurrentRenders
	}

	ts := &TileService{logger, connSet, semaphore.NewSemaphore(maxConcurrentRenders), rasterer, registry, shouldProfile, chi.NewRouter()}

	ts.Get("/raster/{z}/{x}/{y}", ts.handleGetTile)

	return ts
}

func getStyle(styleSet *styling.StyleSet, styleID string) (*mapboxglstyle.Style, errorsx.Error) {
	if styleID == "" {
		return styleSet.GetDefaultStyle(), nil
	}

	style, ok := styleSet.GetStyleByID(styleID)
	if !ok {
		return nil, errorsx.Errorf("couldn't get requested style %q (style not loaded)", styleID)
	}

	return style, nil
}

func (ts *TileService) handleGetTile(w http.ResponseWriter, r *http.Request) {
	if ts.shouldProfile {
		defer profile.Start().Stop()
	}
	x := chi.URLParam(r, "x")
	y := chi.URLParam(r, "y")
	zStr := chi.URLParam(r, "z")
	styleID := r.URL.Query().Get("styleId")

	ints, err := stringsToInts(x, y, zStr)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	z := ints[2]
	if z < int(ownmap.MinZoomLevel) || z > int(ownmap.MaxZoomLevel) {
		errorsx.HTTPError(w, ts.logger, errorsx.Errorf("zoom level %d out of range", z), http.StatusBadRequest)
		return
	}
	maxTileIndex := 1 << uint(z)
	if ints[0] < 0 || ints[1] < 0 || ints[0] >= maxTileIndex || ints[1] >= maxTileIndex {
		errorsx.HTTPError(w, ts.logger, errorsx.Errorf("tile %d/%d out of range for zoom level %d", ints[0], ints[1], z), http.StatusBadRequest)
		return
	}

	style, err := getStyle(ts.registry.StyleSet(), styleID)
	if err != nil {
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusNotFound)
		return
	}

	size := image.Rect(0, 0, tileSizePixels, tileSizePixels)

	bounds := XYZToBounds(ints[0], ints[1], z)
	ts.logger.Debug("serving x, y, z: %s %s %s with style %q. Bounds (NW, SE): [%f %f, %f %f]", x, y, zStr, style.GetStyleID(), bounds.MaxLat, bounds.MinLon, bounds.MinLat, bounds.MaxLon)

	ts.sema.Add()
	defer ts.sema.Done()

	img, err := ts.rasterer.RenderRaster(r.Context(), ts.connSet, size, bounds, ownmap.ZoomLevel(z), style)
	if err != nil {
		if r.Context().Err() != nil {
			// request cancelled
			return
		}
		errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	err = png.Encode(w, img)
	if err != nil {
		switch err.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, ts.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		}
		return
	}
}

func stringsToInts(s ...string) ([]int, error) {
	var ints []int
	for _, str := range s {
		i, err := strconv.Atoi(str)
		if err != nil {
			return nil, err
		}
		ints = append(ints, i)
	}

	return ints, nil
}
