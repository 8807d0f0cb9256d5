package mapboxglstyle

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
)

type FunctionType string

const (
	FunctionTypeIdentity    FunctionType = "identity"
	FunctionTypeExponential FunctionType = "exponential"
	FunctionTypeInterval    FunctionType = "interval"
	FunctionTypeCategorical FunctionType = "categorical"
)

// FunctionStop is one point on a function's ramp.
// Zoom is only set on the stops of a composite (zoom and property) function.
type FunctionStop[T any] struct {
	Input  Value
	Zoom   *float64
	Output T
}

// Interpolated is the definition of a non-constant property function, as it appears in the document.
// An empty Property means the function is keyed on zoom.
type Interpolated[T any] struct {
	Property   string
	Base       *float64
	Type       FunctionType
	Default    *T
	ColorSpace ColorSpace
	Stops      []FunctionStop[T]
}

// Function is a style property value: either a constant or a function of zoom and/or a feature property.
// e.g. 3, or {"base": 1.4, "stops": [[10, 8], [20, 14]]}
type Function[T any] struct {
	isRaw        bool
	raw          T
	interpolated *Interpolated[T]
	codec        *Codec[T]
	fallback     T

	functionType FunctionType
	zoomGroups   []zoomGroup[T]
}

// zoomGroup is the set of property stops of a composite function that share a zoom level
type zoomGroup[T any] struct {
	zoom  float64
	stops []FunctionStop[T]
}

func RawFunction[T any](value T) *Function[T] {
	return &Function[T]{isRaw: true, raw: value}
}

// NewInterpolatedFunction validates the definition and prepares it for evaluation.
// fallback is returned when evaluation can't produce a value and the definition has no default.
func NewInterpolatedFunction[T any](definition Interpolated[T], codec *Codec[T], fallback T) (*Function[T], errorsx.Error) {
	f, err := newInterpolatedFunction(definition, codec, fallback, "")
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Function[T]) IsRaw() bool {
	return f.isRaw
}

func (f *Function[T]) Raw() (T, bool) {
	return f.raw, f.isRaw
}

func (f *Function[T]) Interpolated() *Interpolated[T] {
	return f.interpolated
}

// Type is the function type used at evaluation time, after defaulting
func (f *Function[T]) Type() FunctionType {
	return f.functionType
}

// IsZoomDependent is true for camera and composite functions
func (f *Function[T]) IsZoomDependent() bool {
	if f.isRaw {
		return false
	}
	return f.interpolated.Property == "" || len(f.zoomGroups) > 0
}

// IsFeatureDependent is true for source and composite functions
func (f *Function[T]) IsFeatureDependent() bool {
	if f.isRaw {
		return false
	}
	return f.interpolated.Property != ""
}

func newInterpolatedFunction[T any](definition Interpolated[T], codec *Codec[T], fallback T, path string) (*Function[T], *ParseError) {
	f := &Function[T]{
		interpolated: &definition,
		codec:        codec,
		fallback:     fallback,
	}

	switch definition.Type {
	case "":
		if codec.Interpolate != nil {
			f.functionType = FunctionTypeExponential
		} else {
			f.functionType = FunctionTypeInterval
		}
	case FunctionTypeIdentity, FunctionTypeExponential, FunctionTypeInterval, FunctionTypeCategorical:
		f.functionType = definition.Type
	default:
		return nil, newParseError(joinPath(path, "type"), "unknown function type: %q", definition.Type)
	}

	if !isKnownColorSpace(definition.ColorSpace) {
		return nil, newParseError(joinPath(path, "colorSpace"), "unknown color space: %q", definition.ColorSpace)
	}

	if definition.Base != nil {
		base := *definition.Base
		if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
			return nil, newParseError(joinPath(path, "base"), "base must be a positive number, but was %v", base)
		}
	}

	stopsPath := joinPath(path, "stops")

	if f.functionType == FunctionTypeIdentity {
		return f, nil
	}

	if len(definition.Stops) == 0 {
		return nil, newParseError(stopsPath, "a %s function needs at least one stop", f.functionType)
	}

	isComposite := definition.Stops[0].Zoom != nil
	for i, stop := range definition.Stops {
		if (stop.Zoom != nil) != isComposite {
			return nil, newParseError(indexPath(stopsPath, i), "stops must either all have a zoom level, or none of them")
		}
		if f.functionType != FunctionTypeCategorical {
			if _, ok := stop.Input.AsNumber(); !ok {
				return nil, newParseError(indexPath(stopsPath, i), "%s function stops must have numeric inputs", f.functionType)
			}
		}
	}

	if isComposite && definition.Property == "" {
		return nil, newParseError(stopsPath, "zoom-and-property stops need a \"property\"")
	}

	if !isComposite {
		if f.functionType != FunctionTypeCategorical {
			for i := 1; i < len(definition.Stops); i++ {
				if stopKey(definition.Stops[i]) < stopKey(definition.Stops[i-1]) {
					return nil, newParseError(indexPath(stopsPath, i), "stops must be in ascending order")
				}
			}
		}
		return f, nil
	}

	for i := 1; i < len(definition.Stops); i++ {
		prev, current := definition.Stops[i-1], definition.Stops[i]
		if *current.Zoom < *prev.Zoom {
			return nil, newParseError(indexPath(stopsPath, i), "stops must be in ascending zoom order")
		}
		if f.functionType != FunctionTypeCategorical && *current.Zoom == *prev.Zoom && stopKey(current) < stopKey(prev) {
			return nil, newParseError(indexPath(stopsPath, i), "stops at the same zoom level must be in ascending order")
		}
	}

	f.zoomGroups = groupStopsByZoom(definition.Stops)

	return f, nil
}

func groupStopsByZoom[T any](stops []FunctionStop[T]) []zoomGroup[T] {
	var groups []zoomGroup[T]
	for _, stop := range stops {
		if len(groups) == 0 || groups[len(groups)-1].zoom != *stop.Zoom {
			groups = append(groups, zoomGroup[T]{zoom: *stop.Zoom})
		}
		last := &groups[len(groups)-1]
		last.stops = append(last.stops, FunctionStop[T]{Input: stop.Input, Output: stop.Output})
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].zoom < groups[b].zoom
	})

	return groups
}

func stopKey[T any](stop FunctionStop[T]) float64 {
	n, _ := stop.Input.AsNumber()
	return n
}

type functionJSON struct {
	Property   *string           `json:"property"`
	Base       *float64          `json:"base"`
	Type       *string           `json:"type"`
	Default    json.RawMessage   `json:"default"`
	ColorSpace *string           `json:"colorSpace"`
	Stops      []json.RawMessage `json:"stops"`
}

type zoomAndValueJSON struct {
	Zoom  *float64        `json:"zoom"`
	Value json.RawMessage `json:"value"`
}

// ParseFunction decodes a property value: a literal of the codec's type, or a function object
func ParseFunction[T any](raw json.RawMessage, codec *Codec[T], fallback T) (*Function[T], errorsx.Error) {
	f, err := parseFunction(raw, codec, fallback, "")
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseFunction[T any](raw json.RawMessage, codec *Codec[T], fallback T, path string) (*Function[T], *ParseError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		value, err := codec.Decode(trimmed, path)
		if err != nil {
			return nil, err
		}
		return RawFunction(value), nil
	}

	var obj functionJSON
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, newParseError(path, "invalid function object: %s", err.Error())
	}

	var definition Interpolated[T]
	definition.Base = obj.Base
	if obj.Property != nil {
		definition.Property = *obj.Property
	}
	if obj.Type != nil {
		definition.Type = FunctionType(*obj.Type)
	}
	if obj.ColorSpace != nil {
		definition.ColorSpace = ColorSpace(*obj.ColorSpace)
	}
	if len(obj.Default) != 0 && string(bytes.TrimSpace(obj.Default)) != "null" {
		defaultValue, err := codec.Decode(obj.Default, joinPath(path, "default"))
		if err != nil {
			return nil, err
		}
		definition.Default = &defaultValue
	}

	stopsPath := joinPath(path, "stops")
	for i, rawStop := range obj.Stops {
		stop, err := parseFunctionStop(rawStop, codec, indexPath(stopsPath, i))
		if err != nil {
			return nil, err
		}
		definition.Stops = append(definition.Stops, stop)
	}

	return newInterpolatedFunction(definition, codec, fallback, path)
}

func parseFunctionStop[T any](raw json.RawMessage, codec *Codec[T], path string) (FunctionStop[T], *ParseError) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return FunctionStop[T]{}, newParseError(path, "a stop must be an array of [input, output], but got %s", string(raw))
	}

	output, err := codec.Decode(pair[1], indexPath(path, 1))
	if err != nil {
		return FunctionStop[T]{}, err
	}

	inputRaw := bytes.TrimSpace(pair[0])
	if len(inputRaw) > 0 && inputRaw[0] == '{' {
		var zv zoomAndValueJSON
		if err := json.Unmarshal(inputRaw, &zv); err != nil {
			return FunctionStop[T]{}, newParseError(indexPath(path, 0), "invalid zoom-and-value stop input: %s", err.Error())
		}
		if zv.Zoom == nil {
			return FunctionStop[T]{}, newParseError(joinPath(indexPath(path, 0), "zoom"), "missing required field")
		}
		if len(zv.Value) == 0 {
			return FunctionStop[T]{}, newParseError(joinPath(indexPath(path, 0), "value"), "missing required field")
		}
		input, err := decodeValue(zv.Value, joinPath(indexPath(path, 0), "value"))
		if err != nil {
			return FunctionStop[T]{}, err
		}
		return FunctionStop[T]{Input: input, Zoom: zv.Zoom, Output: output}, nil
	}

	input, err := decodeValue(inputRaw, indexPath(path, 0))
	if err != nil {
		return FunctionStop[T]{}, err
	}

	return FunctionStop[T]{Input: input, Output: output}, nil
}
