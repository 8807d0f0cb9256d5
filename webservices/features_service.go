package webservices

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
)

// FeaturesService lists the features inside some bounds that a layer of a style would draw
type FeaturesService struct {
	logger   *logpkg.Logger
	connSet  *featuredal.ConnSet
	registry *styling.Registry
	chi.Router
}

func NewFeaturesService(logger *logpkg.Logger, connSet *featuredal.ConnSet, registry *styling.Registry) *FeaturesService {
	ws := &FeaturesService{logger, connSet, registry, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

// handleGet expects query parameters:
// bounds: (S,W,N,E), required
// layerId: required
// zoom: defaults to the minimum zoom level
// styleId: defaults to the default style
func (ws *FeaturesService) handleGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	bounds, err := parseBoundsString(query.Get("bounds"))
	if err != nil {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	zoom := ownmap.MinZoomLevel
	zoomStr := query.Get("zoom")
	if zoomStr != "" {
		zoomFloat, err := strconv.ParseFloat(zoomStr, 64)
		if err != nil {
			errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err, "zoom", zoomStr), http.StatusBadRequest)
			return
		}
		zoom = ownmap.ZoomLevel(zoomFloat).Clamp()
	}

	style, err := getStyle(ws.registry.StyleSet(), query.Get("styleId"))
	if err != nil {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusNotFound)
		return
	}

	layerID := query.Get("layerId")
	layer, ok := style.LayerByID(layerID)
	if !ok {
		errorsx.HTTPError(w, ws.logger, errorsx.Errorf("layer %q not found in style %q", layerID, style.GetStyleID()), http.StatusNotFound)
		return
	}

	featureCollection := geojson.NewFeatureCollection()

	sourceLayer := layer.Common().SourceLayer
	if sourceLayer == "" {
		// background and raster layers don't draw features
		render.JSON(w, r, featureCollection)
		return
	}

	featureMap, err := ws.connSet.GetInBounds(r.Context(), *bounds, &featuredal.GetInBoundsFilter{
		SourceLayers: []string{sourceLayer},
	})
	if err != nil {
		if errorsx.Cause(err) == featuredal.ErrNoDataAvailable {
			render.JSON(w, r, featureCollection)
			return
		}
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	for _, f := range featureMap[sourceLayer] {
		_, ok := mapboxglstyle.Resolve(layer, float64(zoom), f)
		if !ok {
			continue
		}

		featureCollection.Append(f.Feature)
	}

	render.JSON(w, r, featureCollection)
}

// (S,W,N,E)
// (52.533251,-1.394072,52.800548,-0.898208)
func parseBoundsString(boundsString string) (*osm.Bounds, errorsx.Error) {
	bounds := &osm.Bounds{}

	withoutBrackets := strings.TrimPrefix(strings.TrimSuffix(boundsString, ")"), "(")
	fragments := strings.Split(withoutBrackets, ",")
	if len(fragments) != 4 {
		return nil, errorsx.Errorf("expected 4 bounds, but got %d. A bounds URL parameter should be in the format 'bounds=(S,W,N,E)'", len(fragments))
	}

	for index, fragment := range fragments {
		trimmedFragment := strings.TrimSpace(fragment)
		coordinate, err := strconv.ParseFloat(trimmedFragment, 64)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		switch index {
		case 0:
			bounds.MinLat = coordinate
		case 1:
			bounds.MinLon = coordinate
		case 2:
			bounds.MaxLat = coordinate
		case 3:
			bounds.MaxLon = coordinate
		}
	}

	if bounds.MinLat > bounds.MaxLat || bounds.MinLon > bounds.MaxLon {
		return nil, errorsx.Errorf("bounds %q has its south-west corner north or east of its north-east corner", boundsString)
	}

	return bounds, nil
}
