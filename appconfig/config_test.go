package appconfig

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osloGeoJSON = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10.75, 59.91]}, "properties": {"name": "Oslo"}}
]}`

func newTestLogger() *logpkg.Logger {
	return logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelDebug)
}

func TestLoad(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/config.yaml", []byte(`
addr: ":8080"
stylesDir: /srv/styles
defaultStyleId: dark
featureDatasets:
  - name: oslo
    path: geojson:///srv/oslo.geojson
    sourceLayer: osm
maxConcurrentRenders: 8
`), 0600))

	config, err := Load(fs, "/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Addr)
	assert.Equal(t, "/srv/styles", config.StylesDir)
	assert.Equal(t, "dark", config.DefaultStyleID)
	assert.Equal(t, uint(8), config.MaxConcurrentRenders)
	assert.Equal(t, []FeatureDataset{{Name: "oslo", Path: "geojson:///srv/oslo.geojson", SourceLayer: "osm"}}, config.FeatureDatasets)

	// defaults are kept for what the file leaves out
	assert.Equal(t, DefaultConfig().DataDir, config.DataDir)
	assert.Equal(t, int64(DefaultStyleCacheSize), config.StyleCacheSize)
}

func TestLoad_errors(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/unknown-key.yaml", []byte("adr: ':8080'\n"), 0600))
	require.NoError(t, fs.WriteFile("/bad-type.yaml", []byte("maxConcurrentRenders: lots\n"), 0600))

	for _, path := range []string{"/unknown-key.yaml", "/bad-type.yaml", "/missing.yaml"} {
		t.Run(path, func(t *testing.T) {
			_, err := Load(fs, path)
			require.Error(t, err)
		})
	}
}

func TestLoad_emptyFile(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.WriteFile("/empty.yaml", nil, 0600))

	config, err := Load(fs, "/empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no addr", func(c *Config) { c.Addr = "" }, true},
		{"no default style", func(c *Config) { c.DefaultStyleID = "" }, true},
		{"no renders", func(c *Config) { c.MaxConcurrentRenders = 0 }, true},
		{"no cache", func(c *Config) { c.StyleCacheSize = 0 }, true},
		{"dataset without name", func(c *Config) { c.FeatureDatasets = []FeatureDataset{{Path: "a.geojson"}} }, true},
		{"dataset without path", func(c *Config) { c.FeatureDatasets = []FeatureDataset{{Name: "a"}} }, true},
		{"duplicate dataset", func(c *Config) {
			c.FeatureDatasets = []FeatureDataset{{Name: "a", Path: "a.geojson"}, {Name: "a", Path: "b.geojson"}}
		}, true},
		{"unsupported data source", func(c *Config) { c.FeatureDatasets = []FeatureDataset{{Name: "a", Path: "postgresql://db"}} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Finalise(t *testing.T) {
	config := DefaultConfig()
	config.StylesDir = "/srv/styles"

	require.NoError(t, config.Finalise())
	assert.Equal(t, "/srv/styles", config.StylesDir)
	assert.NotContains(t, config.DataDir, "~")
	assert.NotContains(t, config.TraceDir, "~")
	assert.Equal(t, config.StylesDir, config.PathsConfig().StylesDir)
	assert.Equal(t, config.DataDir, config.PathsConfig().DataDir)
}

func TestConfig_OpenDatasets(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/data", 0700))
	require.NoError(t, fs.WriteFile("/data/oslo.geojson", []byte(osloGeoJSON), 0600))
	require.NoError(t, fs.WriteFile("/data/bergen.geojson", []byte(osloGeoJSON), 0600))
	require.NoError(t, fs.MkdirAll("/elsewhere", 0700))
	require.NoError(t, fs.WriteFile("/elsewhere/oslo.geojson", []byte(osloGeoJSON), 0600))

	config := DefaultConfig()
	config.DataDir = "/data"
	config.FeatureDatasets = []FeatureDataset{
		{Name: "oslo", Path: "geojson:///elsewhere/oslo.geojson", SourceLayer: styling.BuiltinSourceLayer},
	}

	conns, err := config.OpenDatasets(context.Background(), newTestLogger(), fs)
	require.NoError(t, err)

	var names []string
	for _, conn := range conns {
		names = append(names, conn.Name())
	}
	assert.Equal(t, []string{"oslo", "bergen"}, names)

	info, err := conns[0].DatasetInfo()
	require.NoError(t, err)
	assert.Equal(t, []string{styling.BuiltinSourceLayer}, info.SourceLayers)

	config.FeatureDatasets = []FeatureDataset{{Name: "missing", Path: "/nowhere.geojson"}}
	_, err = config.OpenDatasets(context.Background(), newTestLogger(), fs)
	require.Error(t, err)
}
