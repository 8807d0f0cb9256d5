package mapboxglstyle

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSource(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		source, err := decodeSource(json.RawMessage(`{"type": "vector", "url": "https://example.com/tiles.json"}`), "sources.osm")
		require.Nil(t, err)

		assert.Equal(t, SourceTypeVector, source.Type)
		assert.Equal(t, SourceData{
			URL:          "https://example.com/tiles.json",
			Scheme:       TileSchemeXYZ,
			MinZoom:      0,
			MaxZoom:      22,
			BoundsLngLat: [4]float64{-180, -85.051129, 180, 85.051129},
			TileSize:     512,
		}, source.Data)
		assert.True(t, source.Usable())
	})

	t.Run("image source", func(t *testing.T) {
		source, err := decodeSource(json.RawMessage(`{
			"type": "image",
			"url": "https://example.com/radar.gif",
			"coordinates": [[-80.4, 46.4], [-71.9, 46.4], [-71.9, 37.9], [-80.4, 37.9]]
		}`), "sources.radar")
		require.Nil(t, err)
		assert.Len(t, source.Data.Coordinates, 4)
	})

	tests := []struct {
		name     string
		json     string
		wantPath string
	}{
		{"not an object", `[]`, "sources.osm"},
		{"missing type", `{"url": "x"}`, "sources.osm.type"},
		{"unknown type", `{"type": "geojson"}`, "sources.osm.type"},
		{"bad scheme", `{"type": "vector", "scheme": "wmts"}`, "sources.osm.scheme"},
		{"max below min", `{"type": "vector", "minzoom": 10, "maxzoom": 2}`, "sources.osm.maxzoom"},
		{"short bounds", `{"type": "vector", "bounds": [1, 2, 3]}`, "sources.osm.bounds"},
		{"zero tile size", `{"type": "raster", "tileSize": 0}`, "sources.osm.tileSize"},
		{"image with 3 corners", `{"type": "image", "coordinates": [[0, 0], [1, 0], [1, 1]]}`, "sources.osm.coordinates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSource(json.RawMessage(tt.json), "sources.osm")
			require.NotNil(t, err)
			assert.Equal(t, tt.wantPath, err.Path)
		})
	}
}

func TestSource_Usable(t *testing.T) {
	assert.True(t, (&Source{Data: SourceData{URL: "a"}}).Usable())
	assert.True(t, (&Source{Data: SourceData{Tiles: []string{"a"}}}).Usable())
	assert.False(t, (&Source{Data: SourceData{URL: "a", Tiles: []string{"a"}}}).Usable())
	assert.False(t, (&Source{}).Usable())
}

func TestSource_Overlaps(t *testing.T) {
	source, err := decodeSource(json.RawMessage(`{"type": "vector", "url": "x", "bounds": [4, 57, 32, 72], "minzoom": 2, "maxzoom": 14}`), "sources.norway")
	require.Nil(t, err)

	assert.Equal(t, osm.Bounds{MinLon: 4, MinLat: 57, MaxLon: 32, MaxLat: 72}, source.Bounds())
	assert.True(t, source.Overlaps(osm.Bounds{MinLon: 10, MinLat: 59, MaxLon: 11, MaxLat: 60}))
	assert.False(t, source.Overlaps(osm.Bounds{MinLon: -10, MinLat: 40, MaxLon: -5, MaxLat: 45}))

	assert.False(t, source.IsVisibleAtZoom(1))
	assert.True(t, source.IsVisibleAtZoom(14))
	assert.False(t, source.IsVisibleAtZoom(15))
}
