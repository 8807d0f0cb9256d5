package feature

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature adapts a GeoJSON feature so style filters and functions can be evaluated against it
type Feature struct {
	*geojson.Feature
}

var _ mapboxglstyle.FeatureContext = &Feature{}

func New(geoJSONFeature *geojson.Feature) *Feature {
	return &Feature{geoJSONFeature}
}

// GeometryType maps the feature's geometry onto the style "$type" values.
// Multi-geometries are reported as their single counterpart.
func (f *Feature) GeometryType() mapboxglstyle.GeometryType {
	return GeometryTypeOf(f.Geometry)
}

func GeometryTypeOf(geometry orb.Geometry) mapboxglstyle.GeometryType {
	switch geometry.(type) {
	case orb.Point, orb.MultiPoint:
		return mapboxglstyle.GeometryTypePoint
	case orb.LineString, orb.MultiLineString:
		return mapboxglstyle.GeometryTypeLineString
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		return mapboxglstyle.GeometryTypePolygon
	default:
		return mapboxglstyle.GeometryTypeUnknown
	}
}

func (f *Feature) ID() (mapboxglstyle.Value, bool) {
	return mapboxglstyle.ValueFromInterface(f.Feature.ID)
}

// Property looks up a property. Properties that aren't strings, numbers or booleans are treated as missing.
func (f *Feature) Property(key string) (mapboxglstyle.Value, bool) {
	value, ok := f.Properties[key]
	if !ok {
		return mapboxglstyle.Value{}, false
	}
	return mapboxglstyle.ValueFromInterface(value)
}

func Parse(data []byte) (*Feature, errorsx.Error) {
	geoJSONFeature, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return New(geoJSONFeature), nil
}

func ParseCollection(data []byte) ([]*Feature, errorsx.Error) {
	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	features := make([]*Feature, len(featureCollection.Features))
	for i, geoJSONFeature := range featureCollection.Features {
		features[i] = New(geoJSONFeature)
	}

	return features, nil
}
