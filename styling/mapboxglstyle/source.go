package mapboxglstyle

import (
	"encoding/json"

	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/paulmach/osm"
)

type SourceType string

const (
	SourceTypeVector SourceType = "vector"
	SourceTypeRaster SourceType = "raster"
	SourceTypeImage  SourceType = "image"
)

type TileScheme string

const (
	TileSchemeXYZ TileScheme = "xyz"
	TileSchemeTMS TileScheme = "tms"
)

const (
	defaultSourceMinZoom  = 0
	defaultSourceMaxZoom  = 22
	defaultSourceTileSize = 512
)

// default source bounds: the whole Web Mercator world, as [west, south, east, north]
var defaultSourceBounds = [4]float64{-180, -85.051129, 180, 85.051129}

// SourceData is where a source's data comes from. A usable source has either a URL
// (pointing at a TileJSON document) or a list of tile URL templates, but not both.
type SourceData struct {
	URL          string       `json:"url,omitempty"`
	Scheme       TileScheme   `json:"scheme"`
	Tiles        []string     `json:"tiles,omitempty"`
	MinZoom      float64      `json:"minzoom"`
	MaxZoom      float64      `json:"maxzoom"`
	BoundsLngLat [4]float64   `json:"bounds"`
	TileSize     int          `json:"tileSize"`
	Attribution  string       `json:"attribution,omitempty"`
	Coordinates  [][2]float64 `json:"coordinates,omitempty"`
}

type Source struct {
	Type SourceType `json:"type"`
	Data SourceData `json:"data"`
}

// Usable is true when exactly one of url or tiles is set
func (s *Source) Usable() bool {
	hasURL := s.Data.URL != ""
	hasTiles := len(s.Data.Tiles) != 0
	return hasURL != hasTiles
}

func (s *Source) Bounds() osm.Bounds {
	b := s.Data.BoundsLngLat
	return osm.Bounds{
		MinLon: b[0],
		MinLat: b[1],
		MaxLon: b[2],
		MaxLat: b[3],
	}
}

// Overlaps reports whether any of bounds is covered by the source
func (s *Source) Overlaps(bounds osm.Bounds) bool {
	return ownmap.Overlaps(s.Bounds(), bounds)
}

// IsVisibleAtZoom is true when the source has tiles for the zoom level
func (s *Source) IsVisibleAtZoom(zoom float64) bool {
	return zoom >= s.Data.MinZoom && zoom <= s.Data.MaxZoom
}

type sourceJSON struct {
	Type        *string      `json:"type"`
	URL         string       `json:"url"`
	Scheme      *string      `json:"scheme"`
	Tiles       []string     `json:"tiles"`
	MinZoom     *float64     `json:"minzoom"`
	MaxZoom     *float64     `json:"maxzoom"`
	Bounds      []float64    `json:"bounds"`
	TileSize    *int         `json:"tileSize"`
	Attribution string       `json:"attribution"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func decodeSource(raw json.RawMessage, path string) (*Source, *ParseError) {
	var obj sourceJSON
	err := json.Unmarshal(raw, &obj)
	if err != nil {
		return nil, newParseError(path, "invalid source: %s", err.Error())
	}

	if obj.Type == nil {
		return nil, newParseError(joinPath(path, "type"), "missing required field")
	}

	sourceType := SourceType(*obj.Type)
	switch sourceType {
	case SourceTypeVector, SourceTypeRaster, SourceTypeImage:
	default:
		return nil, newParseError(joinPath(path, "type"), "unknown source type: %q", *obj.Type)
	}

	data := SourceData{
		URL:          obj.URL,
		Scheme:       TileSchemeXYZ,
		Tiles:        obj.Tiles,
		MinZoom:      defaultSourceMinZoom,
		MaxZoom:      defaultSourceMaxZoom,
		BoundsLngLat: defaultSourceBounds,
		TileSize:     defaultSourceTileSize,
		Attribution:  obj.Attribution,
		Coordinates:  obj.Coordinates,
	}

	if obj.Scheme != nil {
		switch TileScheme(*obj.Scheme) {
		case TileSchemeXYZ, TileSchemeTMS:
			data.Scheme = TileScheme(*obj.Scheme)
		default:
			return nil, newParseError(joinPath(path, "scheme"), "unknown tile scheme: %q", *obj.Scheme)
		}
	}

	if obj.MinZoom != nil {
		data.MinZoom = *obj.MinZoom
	}
	if obj.MaxZoom != nil {
		data.MaxZoom = *obj.MaxZoom
	}
	if data.MaxZoom < data.MinZoom {
		return nil, newParseError(joinPath(path, "maxzoom"), "max zoom (%v) is smaller than min zoom (%v)", data.MaxZoom, data.MinZoom)
	}

	if obj.Bounds != nil {
		if len(obj.Bounds) != 4 {
			return nil, newParseError(joinPath(path, "bounds"), "expected 4 numbers [west, south, east, north] but got %d", len(obj.Bounds))
		}
		copy(data.BoundsLngLat[:], obj.Bounds)
	}

	if obj.TileSize != nil {
		if *obj.TileSize <= 0 {
			return nil, newParseError(joinPath(path, "tileSize"), "must be positive but was %d", *obj.TileSize)
		}
		data.TileSize = *obj.TileSize
	}

	if sourceType == SourceTypeImage && obj.Coordinates != nil && len(obj.Coordinates) != 4 {
		return nil, newParseError(joinPath(path, "coordinates"), "expected 4 corner coordinates but got %d", len(obj.Coordinates))
	}

	return &Source{Type: sourceType, Data: data}, nil
}
