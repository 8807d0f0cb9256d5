package webservices

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sort"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/feature"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
)

const maxStyleDocumentBytes = 8 * 1024 * 1024

type StyleService struct {
	logger   *logpkg.Logger
	registry *styling.Registry
	chi.Router
}

func NewStyleService(logger *logpkg.Logger, registry *styling.Registry) *StyleService {
	ss := &StyleService{logger, registry, chi.NewRouter()}

	ss.Get("/{id}", ss.handleGet)
	ss.Put("/{id}", ss.handlePut)
	ss.Post("/{id}/resolve", ss.handleResolve)

	return ss
}

type layerSummaryType struct {
	ID          string                  `json:"id"`
	Type        mapboxglstyle.LayerType `json:"type"`
	Source      string                  `json:"source,omitempty"`
	SourceLayer string                  `json:"sourceLayer,omitempty"`
	MinZoom     *float64                `json:"minzoom,omitempty"`
	MaxZoom     *float64                `json:"maxzoom,omitempty"`
	Visible     bool                    `json:"visible"`
	HasFilter   bool                    `json:"hasFilter"`
}

type styleSummaryType struct {
	ID           string             `json:"id"`
	Name         string             `json:"name,omitempty"`
	Version      int                `json:"version"`
	IsDefault    bool               `json:"isDefault"`
	Sources      []string           `json:"sources"`
	SourceLayers []string           `json:"sourceLayers"`
	Layers       []layerSummaryType `json:"layers"`
}

func summariseStyle(style *mapboxglstyle.Style, defaultStyleID string) styleSummaryType {
	summary := styleSummaryType{
		ID:           style.GetStyleID(),
		Name:         style.Name(),
		Version:      style.Version(),
		IsDefault:    style.GetStyleID() == defaultStyleID,
		Sources:      []string{},
		SourceLayers: style.SourceLayers(),
		Layers:       []layerSummaryType{},
	}

	for sourceID := range style.Sources() {
		summary.Sources = append(summary.Sources, sourceID)
	}
	sort.Strings(summary.Sources)

	if summary.SourceLayers == nil {
		summary.SourceLayers = []string{}
	}

	for _, layer := range style.Layers() {
		common := layer.Common()
		summary.Layers = append(summary.Layers, layerSummaryType{
			ID:          common.ID,
			Type:        layer.Type(),
			Source:      common.Source,
			SourceLayer: common.SourceLayer,
			MinZoom:     common.MinZoom,
			MaxZoom:     common.MaxZoom,
			Visible:     layer.IsVisible(),
			HasFilter:   common.Filter != nil,
		})
	}

	return summary
}

func (ss *StyleService) handleGet(w http.ResponseWriter, r *http.Request) {
	styleID := chi.URLParam(r, "id")
	styleSet := ss.registry.StyleSet()

	style, ok := styleSet.GetStyleByID(styleID)
	if !ok {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Errorf("style %q not found", styleID), http.StatusNotFound)
		return
	}

	render.JSON(w, r, summariseStyle(style, styleSet.GetDefaultStyleID()))
}

func (ss *StyleService) handlePut(w http.ResponseWriter, r *http.Request) {
	styleID := chi.URLParam(r, "id")
	if styleID == styling.BUILTIN_STYLEID {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Errorf("the builtin style cannot be replaced"), http.StatusForbidden)
		return
	}

	styleDocument, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxStyleDocumentBytes))
	if err != nil {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	style, err := ss.registry.ReplaceStyle(styleID, styleDocument)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if mapboxglstyle.IsParseError(err) {
			statusCode = http.StatusBadRequest
		}
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Wrap(err), statusCode)
		return
	}

	render.JSON(w, r, summariseStyle(style, ss.registry.StyleSet().GetDefaultStyleID()))
}

type resolveRequestType struct {
	Zoom        *float64        `json:"zoom"`
	SourceLayer string          `json:"sourceLayer"`
	Feature     json.RawMessage `json:"feature"`
}

type resolveResponseType struct {
	StyleID    string                         `json:"styleId"`
	Zoom       float64                        `json:"zoom"`
	Background mapboxglstyle.Color            `json:"background"`
	Layers     []*mapboxglstyle.ResolvedLayer `json:"layers"`
}

func (ss *StyleService) handleResolve(w http.ResponseWriter, r *http.Request) {
	styleID := chi.URLParam(r, "id")

	style, ok := ss.registry.StyleSet().GetStyleByID(styleID)
	if !ok {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Errorf("style %q not found", styleID), http.StatusNotFound)
		return
	}

	var req resolveRequestType
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	if req.Zoom == nil {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Errorf("no zoom given"), http.StatusBadRequest)
		return
	}
	if len(req.Feature) == 0 {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Errorf("no feature given"), http.StatusBadRequest)
		return
	}

	f, err := feature.Parse(req.Feature)
	if err != nil {
		errorsx.HTTPJSONError(w, ss.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	zoom := float64(ownmap.ZoomLevel(*req.Zoom).Clamp())

	resolved := style.ResolveFeature(zoom, req.SourceLayer, f)
	if resolved == nil {
		resolved = []*mapboxglstyle.ResolvedLayer{}
	}

	render.JSON(w, r, resolveResponseType{
		StyleID:    style.GetStyleID(),
		Zoom:       zoom,
		Background: style.GetBackground(zoom),
		Layers:     resolved,
	})
}
