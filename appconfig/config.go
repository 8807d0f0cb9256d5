package appconfig

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/styling"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort                 = 9000
	DefaultRootDir              = "~/.local/share/github.com/jamesrr39/ownmap-style/"
	DefaultMaxConcurrentRenders = 4
	DefaultStyleCacheSize       = 64 * 1024 * 1024
)

type FeatureDataset struct {
	Name string `yaml:"name"`
	// Path is a file path, or a data source URL such as "geojson://path/to/file.geojson" or "osmpbf://path/to/file.osm.pbf"
	Path        string `yaml:"path"`
	SourceLayer string `yaml:"sourceLayer,omitempty"`
}

// Config is the server configuration. It is read from a YAML file; anything the file leaves out keeps its default.
type Config struct {
	Addr                 string           `yaml:"addr"`
	StylesDir            string           `yaml:"stylesDir"`
	DataDir              string           `yaml:"dataDir"`
	TraceDir             string           `yaml:"traceDir"`
	DefaultStyleID       string           `yaml:"defaultStyleId"`
	FeatureDatasets      []FeatureDataset `yaml:"featureDatasets"`
	MaxConcurrentRenders uint             `yaml:"maxConcurrentRenders"`
	StyleCacheSize       int64            `yaml:"styleCacheSize"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:                 fmt.Sprintf("localhost:%d", DefaultPort),
		StylesDir:            filepath.Join(DefaultRootDir, "styles"),
		DataDir:              filepath.Join(DefaultRootDir, "data_files"),
		TraceDir:             filepath.Join(DefaultRootDir, "trace"),
		DefaultStyleID:       styling.BUILTIN_STYLEID,
		MaxConcurrentRenders: DefaultMaxConcurrentRenders,
		StyleCacheSize:       DefaultStyleCacheSize,
	}
}

// Load reads the config file at path on top of the defaults. Unknown keys are an error; an empty file gives the defaults.
func Load(fs gofs.Fs, path string) (*Config, errorsx.Error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	config := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(config)
	if err != nil && err != io.EOF {
		return nil, errorsx.Wrap(err, "path", path)
	}

	return config, nil
}

// Finalise expands "~" in the paths and checks the config is usable
func (c *Config) Finalise() errorsx.Error {
	for _, dirPath := range []*string{&c.StylesDir, &c.DataDir, &c.TraceDir} {
		expanded, err := userextra.ExpandUser(*dirPath)
		if err != nil {
			return errorsx.Wrap(err, "path", *dirPath)
		}
		*dirPath = expanded
	}

	return c.Validate()
}

func (c *Config) Validate() errorsx.Error {
	if c.Addr == "" {
		return errorsx.Errorf("no address to serve on")
	}

	if c.DefaultStyleID == "" {
		return errorsx.Errorf("no default style ID")
	}

	if c.MaxConcurrentRenders == 0 {
		return errorsx.Errorf("maxConcurrentRenders must be at least 1")
	}

	if c.StyleCacheSize <= 0 {
		return errorsx.Errorf("styleCacheSize must be positive, but was %d", c.StyleCacheSize)
	}

	names := make(map[string]bool)
	for i, dataset := range c.FeatureDatasets {
		if dataset.Name == "" {
			return errorsx.Errorf("featureDatasets[%d] has no name", i)
		}
		if dataset.Path == "" {
			return errorsx.Errorf("featureDatasets[%d] (%q) has no path", i, dataset.Name)
		}
		if names[dataset.Name] {
			return errorsx.Errorf("featureDatasets[%d]: the name %q is used more than once", i, dataset.Name)
		}
		names[dataset.Name] = true

		_, err := featuredal.ParseDataSourceURL(dataset.Path)
		if err != nil {
			return errorsx.Wrap(err, "dataset", dataset.Name)
		}
	}

	return nil
}

func (c *Config) PathsConfig() *featuredal.PathsConfig {
	return &featuredal.PathsConfig{
		StylesDir: c.StylesDir,
		DataDir:   c.DataDir,
		TraceDir:  c.TraceDir,
	}
}

// OpenDatasets opens the datasets listed in the config, then every GeoJSON and OSM PBF file in the data directory.
// A file in the data directory with the same name as a listed dataset is skipped.
func (c *Config) OpenDatasets(ctx context.Context, logger *logpkg.Logger, fs gofs.Fs) ([]featuredal.DataSourceConn, errorsx.Error) {
	var conns []featuredal.DataSourceConn
	names := make(map[string]bool)

	for _, dataset := range c.FeatureDatasets {
		conn, err := featuredal.OpenDataSourceConn(ctx, logger, fs, dataset.Name, dataset.Path, dataset.SourceLayer)
		if err != nil {
			return nil, errorsx.Wrap(err, "dataset", dataset.Name)
		}

		conns = append(conns, conn)
		names[dataset.Name] = true
	}

	if c.DataDir == "" {
		return conns, nil
	}

	dirConns, err := featuredal.LoadConnsFromDir(ctx, logger, fs, c.DataDir)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	for _, conn := range dirConns {
		if names[conn.Name()] {
			logger.Warn("skipping %q in the data directory, a dataset with that name is already configured", conn.Name())
			continue
		}
		conns = append(conns, conn)
	}

	logger.Info("opened %d datasets", len(conns))

	return conns, nil
}
