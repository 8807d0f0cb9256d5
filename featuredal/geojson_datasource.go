package featuredal

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/ownmap-style/feature"
)

const GeoJSONFileExtension = ".geojson"

// NewGeoJSONDataSourceConn reads a GeoJSON feature collection. sourceLayer defaults to name.
func NewGeoJSONDataSourceConn(fs gofs.Fs, name, path, sourceLayer string) (*MemoryDataSourceConn, errorsx.Error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	features, err := feature.ParseCollection(data)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	return NewMemoryDataSourceConn(name, path, sourceLayer, features), nil
}

// OpenDataSourceConn opens the dataset at a data source URL (see ParseDataSourceURL)
func OpenDataSourceConn(ctx context.Context, logger *logpkg.Logger, fs gofs.Fs, name, dataSourceURL, sourceLayer string) (*MemoryDataSourceConn, errorsx.Error) {
	parsedURL, err := ParseDataSourceURL(dataSourceURL)
	if err != nil {
		return nil, err
	}

	connectionPath, expandErr := userextra.ExpandUser(parsedURL.ConnectionPath)
	if expandErr != nil {
		return nil, errorsx.Wrap(expandErr, "path", parsedURL.ConnectionPath)
	}

	switch parsedURL.Type {
	case DataSourceTypeGeoJSON:
		return NewGeoJSONDataSourceConn(fs, name, connectionPath, sourceLayer)
	case DataSourceTypeOSMPBF:
		return NewOSMPBFDataSourceConn(ctx, logger, fs, name, connectionPath, sourceLayer)
	default:
		return nil, errorsx.Errorf("unsupported data source type: %q", parsedURL.Type)
	}
}

// DatasetNameFromFileName returns the dataset name for a file in the data dir, or false if the file isn't a dataset
func DatasetNameFromFileName(fileName string) (string, bool) {
	for _, extension := range []string{GeoJSONFileExtension, OSMPBFFileExtension} {
		if strings.HasSuffix(fileName, extension) && len(fileName) > len(extension) {
			return strings.TrimSuffix(fileName, extension), true
		}
	}
	return "", false
}

// LoadConnsFromDir opens every GeoJSON and OSM PBF file in dir. Each one becomes a dataset and source layer named after the file.
// Files that fail to load are logged and skipped.
func LoadConnsFromDir(ctx context.Context, logger *logpkg.Logger, fs gofs.Fs, dir string) ([]DataSourceConn, errorsx.Error) {
	dirItems, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errorsx.Wrap(err, "dir", dir)
	}

	var conns []DataSourceConn
	for _, dirItem := range dirItems {
		if dirItem.IsDir() {
			continue
		}
		name, ok := DatasetNameFromFileName(dirItem.Name())
		if !ok {
			continue
		}

		filePath := filepath.Join(dir, dirItem.Name())
		conn, err := OpenDataSourceConn(ctx, logger, fs, name, filePath, "")
		if err != nil {
			logger.Error("failed to load %q. Error: %q\nStack: %s", filePath, err.Error(), err.Stack())
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}
