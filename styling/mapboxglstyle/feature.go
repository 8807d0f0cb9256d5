package mapboxglstyle

type GeometryType string

const (
	GeometryTypeUnknown    GeometryType = "Unknown"
	GeometryTypePoint      GeometryType = "Point"
	GeometryTypeLineString GeometryType = "LineString"
	GeometryTypePolygon    GeometryType = "Polygon"
)

// FeatureContext is what filters and property functions see of a feature.
// Implementations come from whatever decodes the tiles (see the feature package).
type FeatureContext interface {
	GeometryType() GeometryType
	ID() (Value, bool)
	Property(key string) (Value, bool)
}

// Properties is a simple map-backed FeatureContext
type Properties struct {
	Type      GeometryType
	FeatureID *Value
	Values    map[string]Value
}

var _ FeatureContext = &Properties{}

func (p *Properties) GeometryType() GeometryType {
	if p.Type == "" {
		return GeometryTypeUnknown
	}
	return p.Type
}

func (p *Properties) ID() (Value, bool) {
	if p.FeatureID == nil {
		return Value{}, false
	}
	return *p.FeatureID, true
}

func (p *Properties) Property(key string) (Value, bool) {
	v, ok := p.Values[key]
	return v, ok
}
