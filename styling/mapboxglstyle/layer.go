package mapboxglstyle

import (
	"encoding/json"
	"math"
)

type LayerType string

const (
	LayerTypeBackground    LayerType = "background"
	LayerTypeFill          LayerType = "fill"
	LayerTypeLine          LayerType = "line"
	LayerTypeSymbol        LayerType = "symbol"
	LayerTypeRaster        LayerType = "raster"
	LayerTypeCircle        LayerType = "circle"
	LayerTypeFillExtrusion LayerType = "fill-extrusion"
	LayerTypeHeatmap       LayerType = "heatmap"
	LayerTypeHillshade     LayerType = "hillshade"
)

const (
	minZoomBound = 0
	maxZoomBound = 24
)

// LayerCommon is the metadata every layer type has
type LayerCommon struct {
	ID          string
	Source      string
	SourceLayer string
	MinZoom     *float64
	MaxZoom     *float64
	Filter      Filter
	Metadata    json.RawMessage
}

// IsVisibleAtZoom implements the half-open [minzoom, maxzoom) range
func (c *LayerCommon) IsVisibleAtZoom(zoom float64) bool {
	if math.IsNaN(zoom) {
		return c.MinZoom == nil && c.MaxZoom == nil
	}
	if c.MinZoom != nil && zoom < *c.MinZoom {
		return false
	}
	if c.MaxZoom != nil && zoom >= *c.MaxZoom {
		return false
	}
	return true
}

// Matches reports whether the layer's filter accepts the feature. A layer without a filter accepts everything.
func (c *LayerCommon) Matches(feature FeatureContext) bool {
	return EvaluateFilter(c.Filter, feature)
}

func (c *LayerCommon) validate(path string) *ParseError {
	for _, bound := range []struct {
		name  string
		value *float64
	}{{"minzoom", c.MinZoom}, {"maxzoom", c.MaxZoom}} {
		if bound.value == nil {
			continue
		}
		z := *bound.value
		if math.IsNaN(z) || z < minZoomBound || z > maxZoomBound {
			return newParseError(joinPath(path, bound.name), "must be between %d and %d (inclusive) but was %v", minZoomBound, maxZoomBound, z)
		}
	}

	if c.MinZoom != nil && c.MaxZoom != nil && *c.MaxZoom < *c.MinZoom {
		return newParseError(joinPath(path, "maxzoom"), "max zoom (%v) is smaller than min zoom (%v)", *c.MaxZoom, *c.MinZoom)
	}

	return nil
}

type BackgroundLayer struct {
	LayerCommon
	Layout BackgroundLayout
	Paint  BackgroundPaint
}

type FillLayer struct {
	LayerCommon
	Layout FillLayout
	Paint  FillPaint
}

type LineLayer struct {
	LayerCommon
	Layout LineLayout
	Paint  LinePaint
}

type SymbolLayer struct {
	LayerCommon
	Layout SymbolLayout
	Paint  SymbolPaint
}

type RasterLayer struct {
	LayerCommon
	Layout RasterLayout
	Paint  RasterPaint
}

// decodeLayer decodes the layer object into a map once, splits off the common keys,
// then decodes layout and paint against the schema of the layer's "type"
func decodeLayer(raw json.RawMessage, path string) (LayerHolder, *ParseError) {
	fields := make(map[string]json.RawMessage)
	err := json.Unmarshal(raw, &fields)
	if err != nil {
		return nil, newParseError(path, "a layer must be an object: %s", err.Error())
	}

	common, layerType, parseErr := decodeLayerCommon(fields, path)
	if parseErr != nil {
		return nil, parseErr
	}

	layoutReader, parseErr := newPropertyReader(fields["layout"], joinPath(path, "layout"))
	if parseErr != nil {
		return nil, parseErr
	}

	paintReader, parseErr := newPropertyReader(fields["paint"], joinPath(path, "paint"))
	if parseErr != nil {
		return nil, parseErr
	}

	var layer LayerHolder
	switch layerType {
	case LayerTypeBackground:
		layer = &BackgroundLayer{
			LayerCommon: common,
			Layout:      BackgroundLayout{decodeLayout(layoutReader)},
			Paint:       decodeBackgroundPaint(paintReader),
		}
	case LayerTypeFill:
		layer = &FillLayer{
			LayerCommon: common,
			Layout:      FillLayout{decodeLayout(layoutReader)},
			Paint:       decodeFillPaint(paintReader),
		}
	case LayerTypeLine:
		layer = &LineLayer{
			LayerCommon: common,
			Layout:      decodeLineLayout(layoutReader),
			Paint:       decodeLinePaint(paintReader),
		}
	case LayerTypeSymbol:
		layer = &SymbolLayer{
			LayerCommon: common,
			Layout:      decodeSymbolLayout(layoutReader),
			Paint:       decodeSymbolPaint(paintReader),
		}
	case LayerTypeRaster:
		layer = &RasterLayer{
			LayerCommon: common,
			Layout:      RasterLayout{decodeLayout(layoutReader)},
			Paint:       decodeRasterPaint(paintReader),
		}
	case LayerTypeCircle, LayerTypeFillExtrusion, LayerTypeHeatmap, LayerTypeHillshade:
		return nil, newParseError(joinPath(path, "type"), "layer type %q is not supported", layerType)
	default:
		return nil, newParseError(joinPath(path, "type"), "unknown layer type: %q", layerType)
	}

	if layoutReader.err != nil {
		return nil, layoutReader.err
	}
	if paintReader.err != nil {
		return nil, paintReader.err
	}

	return layer, nil
}

func decodeLayerCommon(fields map[string]json.RawMessage, path string) (LayerCommon, LayerType, *ParseError) {
	var common LayerCommon

	rawID, ok := fields["id"]
	if !ok || isJSONNull(rawID) {
		return common, "", newParseError(joinPath(path, "id"), "missing required field")
	}
	err := json.Unmarshal(rawID, &common.ID)
	if err != nil {
		return common, "", newParseError(joinPath(path, "id"), "expected a string but got %s", string(rawID))
	}

	rawType, ok := fields["type"]
	if !ok || isJSONNull(rawType) {
		return common, "", newParseError(joinPath(path, "type"), "missing required field")
	}
	var layerType LayerType
	err = json.Unmarshal(rawType, &layerType)
	if err != nil {
		return common, "", newParseError(joinPath(path, "type"), "expected a string but got %s", string(rawType))
	}

	for _, stringField := range []struct {
		name string
		dest *string
	}{{"source", &common.Source}, {"source-layer", &common.SourceLayer}} {
		raw, ok := fields[stringField.name]
		if !ok || isJSONNull(raw) {
			continue
		}
		err = json.Unmarshal(raw, stringField.dest)
		if err != nil {
			return common, "", newParseError(joinPath(path, stringField.name), "expected a string but got %s", string(raw))
		}
	}

	for _, zoomField := range []struct {
		name string
		dest **float64
	}{{"minzoom", &common.MinZoom}, {"maxzoom", &common.MaxZoom}} {
		raw, ok := fields[zoomField.name]
		if !ok || isJSONNull(raw) {
			continue
		}
		var z float64
		err = json.Unmarshal(raw, &z)
		if err != nil {
			return common, "", newParseError(joinPath(path, zoomField.name), "expected a number but got %s", string(raw))
		}
		*zoomField.dest = &z
	}

	if rawFilter, ok := fields["filter"]; ok && !isJSONNull(rawFilter) {
		filter, parseErr := parseFilter(rawFilter, joinPath(path, "filter"))
		if parseErr != nil {
			return common, "", parseErr
		}
		common.Filter = filter
	}

	if rawMetadata, ok := fields["metadata"]; ok && !isJSONNull(rawMetadata) {
		common.Metadata = rawMetadata
	}

	parseErr := common.validate(path)
	if parseErr != nil {
		return common, "", parseErr
	}

	return common, layerType, nil
}
