package mapboxglstyle

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyleJSON = `{
	"version": 8,
	"name": "test style",
	"center": [10.75, 59.91],
	"zoom": 11,
	"sprite": "https://example.com/sprite",
	"glyphs": "https://example.com/fonts/{fontstack}/{range}.pbf",
	"sources": {
		"osm": {"type": "vector", "url": "https://example.com/tiles.json"},
		"satellite": {"type": "raster", "tiles": ["https://example.com/{z}/{x}/{y}.png"], "tileSize": 256, "maxzoom": 18}
	},
	"layers": [
		{"id": "background", "type": "background", "paint": {"background-color": "#f8f4f0"}},
		{"id": "imagery", "type": "raster", "source": "satellite", "maxzoom": 10, "paint": {"raster-opacity": 0.5}},
		{
			"id": "landuse-residential",
			"type": "fill",
			"source": "osm",
			"source-layer": "landuse",
			"filter": ["all", ["==", "$type", "Polygon"], ["in", "class", "residential", "suburb"]],
			"paint": {"fill-color": "hsl(47, 13%, 86%)", "fill-opacity": {"base": 1, "stops": [[12, 0.5], [16, 1]]}}
		},
		{
			"id": "highway",
			"type": "line",
			"source": "osm",
			"source-layer": "transportation",
			"minzoom": 5,
			"layout": {"line-cap": "round", "line-round_limit": 1.2},
			"paint": {
				"line-color": {"type": "categorical", "property": "class", "stops": [["motorway", "#e892a2"], ["primary", "#fcd6a4"]], "default": "#ffffff"},
				"line-width": {"base": 1.2, "stops": [[5, 0.5], [18, 12]]},
				"line-dasharray": [2, 1]
			}
		},
		{
			"id": "place-label",
			"type": "symbol",
			"source": "osm",
			"source-layer": "place",
			"layout": {"text-field": "{name}", "text-size": 14, "visibility": "visible"},
			"paint": {"text-halo-width": 1}
		},
		{"id": "hidden", "type": "fill", "source": "osm", "source-layer": "landuse", "layout": {"visibility": "none"}}
	]
}`

func mustParseStyle(t *testing.T, s string) *Style {
	style, err := ParseBytes([]byte(s))
	require.NoError(t, err)
	return style
}

func TestParse_minimalDocument(t *testing.T) {
	style := mustParseStyle(t, `{"version":8,"sources":{},"layers":[{"id":"bg","type":"background"}]}`)

	assert.Equal(t, 8, style.Version())
	require.Len(t, style.Layers(), 1)

	layer, ok := style.Layers()[0].(*BackgroundLayer)
	require.True(t, ok)
	assert.Equal(t, "bg", layer.ID)
	assert.Equal(t, VisibilityVisible, layer.Layout.Visibility)
	assert.True(t, layer.IsVisible())

	ctx := ZoomContext(0)
	assert.Equal(t, ColorBlack, layer.Paint.BackgroundColor(ctx))
	assert.Equal(t, 1.0, layer.Paint.BackgroundOpacity(ctx))
	assert.Equal(t, "", layer.Paint.BackgroundPattern(ctx))
}

func TestParse_noSources(t *testing.T) {
	style := mustParseStyle(t, `{"version":8,"layers":[]}`)
	assert.Empty(t, style.Sources())
	assert.Empty(t, style.Layers())
	assert.Equal(t, ColorTransparent, style.GetBackground(10))
}

func TestParse_fullDocument(t *testing.T) {
	style, err := Parse(strings.NewReader(testStyleJSON))
	require.NoError(t, err)

	assert.Equal(t, "test style", style.Name())
	assert.Equal(t, "test style", style.GetStyleID())
	assert.Equal(t, []float64{10.75, 59.91}, style.Center())
	zoom, ok := style.Zoom()
	assert.True(t, ok)
	assert.Equal(t, 11.0, zoom)
	_, ok = style.Pitch()
	assert.False(t, ok)
	assert.Equal(t, "https://example.com/sprite", style.Sprite())

	var ids []string
	for _, layer := range style.Layers() {
		ids = append(ids, layer.Common().ID)
	}
	assert.Equal(t, []string{"background", "imagery", "landuse-residential", "highway", "place-label", "hidden"}, ids)
	assert.Equal(t, []string{"landuse", "transportation", "place"}, style.SourceLayers())

	highway, ok := style.LayerByID("highway")
	require.True(t, ok)
	lineLayer := highway.(*LineLayer)
	assert.Equal(t, LineCapRound, lineLayer.Layout.LineCap(ZoomContext(10)))
	assert.Equal(t, LineJoinMiter, lineLayer.Layout.LineJoin(ZoomContext(10)))
	assert.Equal(t, 1.2, lineLayer.Layout.LineRoundLimit(ZoomContext(10)))
	assert.Equal(t, 2.0, lineLayer.Layout.LineMiterLimit(ZoomContext(10)))

	_, ok = style.LayerByID("nope")
	assert.False(t, ok)

	satellite, ok := style.SourceByID("satellite")
	require.True(t, ok)
	assert.Equal(t, SourceTypeRaster, satellite.Type)
	assert.Equal(t, 256, satellite.Data.TileSize)
	assert.Equal(t, 18.0, satellite.Data.MaxZoom)

	background := style.GetBackground(10)
	assert.InDelta(t, 248, background.R, 1e-9)
	assert.Equal(t, 1.0, background.A)
}

func TestStyle_GetBackground(t *testing.T) {
	style := mustParseStyle(t, `{
		"version": 8,
		"layers": [
			{"id": "base", "type": "background", "paint": {"background-color": "#ff0000"}},
			{"id": "water", "type": "fill", "source-layer": "water", "paint": {"fill-color": "#0000ff"}},
			{"id": "tint", "type": "background", "minzoom": 12, "paint": {"background-color": "#00ff00", "background-opacity": 0.5}},
			{"id": "off", "type": "background", "layout": {"visibility": "none"}, "paint": {"background-color": "#ffffff"}}
		]
	}`)

	assert.Equal(t, MustParseColor("#ff0000"), style.GetBackground(10))

	tinted := style.GetBackground(14)
	assert.InDelta(t, 255, tinted.G, 1e-9)
	assert.InDelta(t, 0, tinted.R, 1e-9)
	assert.InDelta(t, 0.5, tinted.A, 1e-9)
}

func TestStyle_WithID(t *testing.T) {
	style := mustParseStyle(t, testStyleJSON)
	renamed := style.WithID("basic")

	assert.Equal(t, "basic", renamed.GetStyleID())
	assert.Equal(t, "test style", style.GetStyleID())
	assert.Equal(t, style.Layers(), renamed.Layers())
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantPath string
	}{
		{"not json", `{`, ""},
		{"missing version", `{"layers": []}`, "version"},
		{"wrong version", `{"version": 7, "layers": []}`, "version"},
		{"bad center", `{"version": 8, "center": [1, 2, 3]}`, "center"},
		{
			"duplicate layer id",
			`{"version": 8, "layers": [{"id": "a", "type": "background"}, {"id": "a", "type": "background"}]}`,
			"layers[1].id",
		},
		{
			"layer without id",
			`{"version": 8, "layers": [{"type": "background"}]}`,
			"layers[0].id",
		},
		{
			"layer without type",
			`{"version": 8, "layers": [{"id": "a"}]}`,
			"layers[0].type",
		},
		{
			"unknown layer type",
			`{"version": 8, "layers": [{"id": "a", "type": "sky"}]}`,
			"layers[0].type",
		},
		{
			"unsupported layer type",
			`{"version": 8, "layers": [{"id": "a", "type": "circle"}]}`,
			"layers[0].type",
		},
		{
			"undefined source",
			`{"version": 8, "sources": {}, "layers": [{"id": "a", "type": "fill", "source": "osm"}]}`,
			"layers[0].source",
		},
		{
			"source without type",
			`{"version": 8, "sources": {"osm": {"url": "x"}}, "layers": []}`,
			"sources.osm.type",
		},
		{
			"unknown source type",
			`{"version": 8, "sources": {"osm": {"type": "video"}}, "layers": []}`,
			"sources.osm.type",
		},
		{
			"bad filter",
			`{"version": 8, "layers": [{"id": "a", "type": "background"}, {"id": "b", "type": "fill", "filter": ["==", "a"]}]}`,
			"layers[1].filter",
		},
		{
			"bad paint value",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "paint": {"fill-color": "blurple"}}]}`,
			"layers[0].paint.fill-color",
		},
		{
			"bad enum value",
			`{"version": 8, "layers": [{"id": "a", "type": "line", "layout": {"line-cap": "pointy"}}]}`,
			"layers[0].layout.line-cap",
		},
		{
			"bad visibility",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "layout": {"visibility": "hidden"}}]}`,
			"layers[0].layout.visibility",
		},
		{
			"paint is not an object",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "paint": []}]}`,
			"layers[0].paint",
		},
		{
			"zoom out of range",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "minzoom": 25}]}`,
			"layers[0].minzoom",
		},
		{
			"maxzoom below minzoom",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "minzoom": 10, "maxzoom": 5}]}`,
			"layers[0].maxzoom",
		},
		{
			"bad function in a layer",
			`{"version": 8, "layers": [{"id": "a", "type": "line", "paint": {"line-width": {"stops": [[10, 1], [5, 2]]}}}]}`,
			"layers[0].paint.line-width.stops[1]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, err := ParseBytes([]byte(tt.json))
			require.Error(t, err)
			assert.Nil(t, style)
			require.True(t, IsParseError(err))
			assert.Equal(t, tt.wantPath, err.(*ParseError).Path)
		})
	}
}

func TestParse_ignoresUnknownFields(t *testing.T) {
	style := mustParseStyle(t, `{
		"version": 8,
		"owner": "someone",
		"layers": [{"id": "a", "type": "fill", "interactive": true, "paint": {"fill-something-new": 1}}]
	}`)
	require.Len(t, style.Layers(), 1)
}

func TestLayerCommon_IsVisibleAtZoom(t *testing.T) {
	common := LayerCommon{MinZoom: numberPtr(5), MaxZoom: numberPtr(10)}

	assert.False(t, common.IsVisibleAtZoom(4.99))
	assert.True(t, common.IsVisibleAtZoom(5))
	assert.True(t, common.IsVisibleAtZoom(9.99))
	assert.False(t, common.IsVisibleAtZoom(10))
	assert.False(t, common.IsVisibleAtZoom(math.NaN()))

	unbounded := LayerCommon{}
	assert.True(t, unbounded.IsVisibleAtZoom(-1))
	assert.True(t, unbounded.IsVisibleAtZoom(math.NaN()))
}
