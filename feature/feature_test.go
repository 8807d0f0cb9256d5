package feature

import (
	"testing"

	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		geometry orb.Geometry
		want     mapboxglstyle.GeometryType
	}{
		{"point", orb.Point{1, 2}, mapboxglstyle.GeometryTypePoint},
		{"multi point", orb.MultiPoint{{1, 2}}, mapboxglstyle.GeometryTypePoint},
		{"line string", orb.LineString{{1, 2}, {3, 4}}, mapboxglstyle.GeometryTypeLineString},
		{"multi line string", orb.MultiLineString{{{1, 2}, {3, 4}}}, mapboxglstyle.GeometryTypeLineString},
		{"polygon", orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, mapboxglstyle.GeometryTypePolygon},
		{"multi polygon", orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, mapboxglstyle.GeometryTypePolygon},
		{"collection", orb.Collection{orb.Point{1, 2}}, mapboxglstyle.GeometryTypeUnknown},
		{"nil", nil, mapboxglstyle.GeometryTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GeometryTypeOf(tt.geometry))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(`{
		"type": "Feature",
		"id": 42,
		"geometry": {"type": "MultiPolygon", "coordinates": [[[[0, 0], [1, 0], [1, 1], [0, 0]]]]},
		"properties": {"class": "residential", "population": 1200, "oneway": false, "tags": {"a": 1}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, mapboxglstyle.GeometryTypePolygon, f.GeometryType())

	id, ok := f.ID()
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.NumberValue(42), id)

	value, ok := f.Property("class")
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.StringValue("residential"), value)

	value, ok = f.Property("population")
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.NumberValue(1200), value)

	value, ok = f.Property("oneway")
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.BoolValue(false), value)

	_, ok = f.Property("tags")
	assert.False(t, ok)

	_, ok = f.Property("missing")
	assert.False(t, ok)

	filter, err := mapboxglstyle.ParseFilter([]byte(`["all", ["==", "$type", "Polygon"], [">", "population", 1000], ["==", "$id", 42]]`))
	require.NoError(t, err)
	assert.True(t, mapboxglstyle.EvaluateFilter(filter, f))

	_, err = Parse([]byte(`{"type": "Feature"`))
	assert.Error(t, err)
}

func TestFeature_noID(t *testing.T) {
	f := New(geojson.NewFeature(orb.Point{1, 2}))
	_, ok := f.ID()
	assert.False(t, ok)
}

func TestParseCollection(t *testing.T) {
	features, err := ParseCollection([]byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10.7, 59.9]}, "properties": {"name": "Oslo"}},
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}, "properties": {}}
	]}`))
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, mapboxglstyle.GeometryTypePoint, features[0].GeometryType())
	assert.Equal(t, mapboxglstyle.GeometryTypeLineString, features[1].GeometryType())
}

func TestFromOSMNode(t *testing.T) {
	f := FromOSMNode(&osm.Node{
		ID:   123,
		Lat:  59.9,
		Lon:  10.7,
		Tags: osm.Tags{{Key: "place", Value: "city"}, {Key: "name", Value: "Oslo"}},
	})

	assert.Equal(t, orb.Point{10.7, 59.9}, f.Geometry)
	assert.Equal(t, mapboxglstyle.GeometryTypePoint, f.GeometryType())

	id, ok := f.ID()
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.NumberValue(123), id)

	value, ok := f.Property("name")
	require.True(t, ok)
	assert.Equal(t, mapboxglstyle.StringValue("Oslo"), value)
}

func TestFromOSMWay(t *testing.T) {
	square := osm.WayNodes{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 1},
		{ID: 3, Lat: 1, Lon: 1},
		{ID: 1, Lat: 0, Lon: 0},
	}
	open := osm.WayNodes{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 1},
	}

	tests := []struct {
		name  string
		nodes osm.WayNodes
		tags  osm.Tags
		want  mapboxglstyle.GeometryType
	}{
		{"closed landuse", square, osm.Tags{{Key: "landuse", Value: "forest"}}, mapboxglstyle.GeometryTypePolygon},
		{"closed highway", square, osm.Tags{{Key: "highway", Value: "residential"}}, mapboxglstyle.GeometryTypeLineString},
		{"closed highway marked as area", square, osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}}, mapboxglstyle.GeometryTypePolygon},
		{"closed, area=no", square, osm.Tags{{Key: "leisure", Value: "track"}, {Key: "area", Value: "no"}}, mapboxglstyle.GeometryTypeLineString},
		{"open way", open, osm.Tags{{Key: "landuse", Value: "forest"}}, mapboxglstyle.GeometryTypeLineString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromOSMWay(&osm.Way{ID: 7, Nodes: tt.nodes, Tags: tt.tags})
			assert.Equal(t, tt.want, f.GeometryType())
		})
	}
}
