package featuredal

import (
	"errors"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-style/feature"
)

var (
	ErrNoDataAvailable = errors.New("no data available")
)

// SourceLayerFeatureMap groups features by the style source layer they belong to
type SourceLayerFeatureMap map[string][]*feature.Feature

type GetInBoundsFilter struct {
	SourceLayers []string
}

// returns true if features in the source layer should be fetched. A nil filter fetches everything.
func (f *GetInBoundsFilter) Filter(sourceLayer string) bool {
	if f == nil {
		return true
	}

	for _, sourceLayerInFilter := range f.SourceLayers {
		if sourceLayerInFilter == sourceLayer {
			return true
		}
	}
	return false
}

type DataSourceType string

const (
	DataSourceTypeGeoJSON DataSourceType = "geojson"
	DataSourceTypeOSMPBF  DataSourceType = "osmpbf"
)

type DataSourceURL struct {
	Type           DataSourceType
	ConnectionPath string
}

const ConnectionPathSeparator = "://"

// ParseDataSourceURL parses "<type>://<path>". For a plain path the type comes from the file extension, defaulting to GeoJSON.
func ParseDataSourceURL(str string) (DataSourceURL, errorsx.Error) {
	idx := strings.Index(str, ConnectionPathSeparator)
	if idx < 0 {
		return DataSourceURL{
			Type:           dataSourceTypeFromPath(str),
			ConnectionPath: str,
		}, nil
	}

	dataSourceType := DataSourceType(str[:idx])
	switch dataSourceType {
	case DataSourceTypeGeoJSON, DataSourceTypeOSMPBF:
	default:
		return DataSourceURL{}, errorsx.Errorf("unsupported data source type: %q", dataSourceType)
	}

	return DataSourceURL{
		Type:           dataSourceType,
		ConnectionPath: str[idx+len(ConnectionPathSeparator):],
	}, nil
}

func dataSourceTypeFromPath(path string) DataSourceType {
	if strings.HasSuffix(path, OSMPBFFileExtension) {
		return DataSourceTypeOSMPBF
	}
	return DataSourceTypeGeoJSON
}
