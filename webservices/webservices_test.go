package webservices

import (
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/stretchr/testify/require"
)

const osloGeoJSON = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "id": 1, "geometry": {"type": "Point", "coordinates": [10.75, 59.91]}, "properties": {"place": "city", "name": "Oslo"}},
	{"type": "Feature", "id": 2, "geometry": {"type": "LineString", "coordinates": [[10.70, 59.90], [10.80, 59.95]]}, "properties": {"highway": "primary"}},
	{"type": "Feature", "id": 3, "geometry": {"type": "LineString", "coordinates": [[10.72, 59.92], [10.78, 59.93]]}, "properties": {"highway": "residential"}}
]}`

const testStyleDocument = `{
	"version": 8,
	"name": "test",
	"sources": {"ownmap": {"type": "vector", "url": "ownmap://features"}},
	"layers": [
		{"id": "bg", "type": "background", "paint": {"background-color": "#eeeeee"}},
		{
			"id": "primary",
			"type": "line",
			"source": "ownmap",
			"source-layer": "osm",
			"minzoom": 8,
			"filter": ["==", "highway", "primary"],
			"paint": {"line-color": "#ff0000", "line-width": {"stops": [[8, 1], [16, 5]]}}
		},
		{
			"id": "places",
			"type": "symbol",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["has", "place"],
			"layout": {"text-field": "{name}"}
		}
	]
}`

func newTestLogger() *logpkg.Logger {
	return logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelDebug)
}

func newTestRegistry(t *testing.T) *styling.Registry {
	builtinStyle, err := styling.BuiltinStyle()
	require.NoError(t, err)

	testStyle, err := mapboxglstyle.ParseBytes([]byte(testStyleDocument))
	require.NoError(t, err)

	styleSet, err := styling.NewStyleSet([]*mapboxglstyle.Style{builtinStyle, testStyle}, "test")
	require.NoError(t, err)

	return styling.NewRegistry(newTestLogger(), styleSet)
}

func newTestFs(t *testing.T) mockfs.MockFs {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/data", 0700))
	require.NoError(t, fs.WriteFile("/data/oslo.geojson", []byte(osloGeoJSON), 0600))
	return fs
}

func newTestConnSet(t *testing.T) *featuredal.ConnSet {
	conn, err := featuredal.NewGeoJSONDataSourceConn(newTestFs(t), "oslo", "/data/oslo.geojson", styling.BuiltinSourceLayer)
	require.NoError(t, err)

	return featuredal.NewConnSet(newTestLogger(), []featuredal.DataSourceConn{conn})
}
