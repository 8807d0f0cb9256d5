package mapboxglstyle

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNullValue = errors.New("unexpected null")

// unmarshalNonNull is json.Unmarshal, except that null is an error rather than leaving v untouched
func unmarshalNonNull(raw json.RawMessage, v interface{}) error {
	if isJSONNull(raw) {
		return errNullValue
	}
	return json.Unmarshal(raw, v)
}

// Codec holds the per-type operations a Function needs: how to decode an output value,
// how to blend two of them, and how to turn a feature value into one (for identity functions).
// A nil Interpolate means values of this type step between stops and are never blended.
type Codec[T any] struct {
	Name        string
	Decode      func(raw json.RawMessage, path string) (T, *ParseError)
	Interpolate func(from, to T, t float64, space ColorSpace) T
	FromValue   func(v Value) (T, bool)
}

var NumberCodec = &Codec[float64]{
	Name: "number",
	Decode: func(raw json.RawMessage, path string) (float64, *ParseError) {
		var f float64
		if err := unmarshalNonNull(raw, &f); err != nil {
			return 0, newParseError(path, "expected a number but got %s", string(raw))
		}
		return f, nil
	},
	Interpolate: func(from, to float64, t float64, _ ColorSpace) float64 {
		return lerp(from, to, t)
	},
	FromValue: func(v Value) (float64, bool) {
		return v.AsNumber()
	},
}

var ColorCodec = &Codec[Color]{
	Name: "color",
	Decode: func(raw json.RawMessage, path string) (Color, *ParseError) {
		var s string
		if err := unmarshalNonNull(raw, &s); err != nil {
			return Color{}, newParseError(path, "expected a color string but got %s", string(raw))
		}
		c, err := ParseColor(s)
		if err != nil {
			return Color{}, newParseError(path, "invalid color %q: %s", s, err.Error())
		}
		return c, nil
	},
	Interpolate: interpolateColor,
	FromValue: func(v Value) (Color, bool) {
		s, ok := v.AsString()
		if !ok {
			return Color{}, false
		}
		c, err := ParseColor(s)
		if err != nil {
			return Color{}, false
		}
		return c, true
	},
}

var StringCodec = &Codec[string]{
	Name: "string",
	Decode: func(raw json.RawMessage, path string) (string, *ParseError) {
		var s string
		if err := unmarshalNonNull(raw, &s); err != nil {
			return "", newParseError(path, "expected a string but got %s", string(raw))
		}
		return s, nil
	},
	FromValue: func(v Value) (string, bool) {
		return v.String(), v.Kind() != 0
	},
}

var BoolCodec = &Codec[bool]{
	Name: "boolean",
	Decode: func(raw json.RawMessage, path string) (bool, *ParseError) {
		var b bool
		if err := unmarshalNonNull(raw, &b); err != nil {
			return false, newParseError(path, "expected a boolean but got %s", string(raw))
		}
		return b, nil
	},
	FromValue: func(v Value) (bool, bool) {
		return v.AsBool()
	},
}

// NumberArrayCodec blends element-wise when both arrays are the same length, and steps otherwise
var NumberArrayCodec = &Codec[[]float64]{
	Name: "number array",
	Decode: func(raw json.RawMessage, path string) ([]float64, *ParseError) {
		var fs []float64
		if err := unmarshalNonNull(raw, &fs); err != nil {
			return nil, newParseError(path, "expected an array of numbers but got %s", string(raw))
		}
		return fs, nil
	},
	Interpolate: func(from, to []float64, t float64, _ ColorSpace) []float64 {
		if len(from) != len(to) {
			return from
		}
		out := make([]float64, len(from))
		for i := range from {
			out[i] = lerp(from[i], to[i], t)
		}
		return out
	},
	FromValue: func(v Value) ([]float64, bool) {
		return nil, false
	},
}

var StringArrayCodec = &Codec[[]string]{
	Name: "string array",
	Decode: func(raw json.RawMessage, path string) ([]string, *ParseError) {
		var ss []string
		if err := unmarshalNonNull(raw, &ss); err != nil {
			return nil, newParseError(path, "expected an array of strings but got %s", string(raw))
		}
		return ss, nil
	},
	FromValue: func(v Value) ([]string, bool) {
		s, ok := v.AsString()
		if !ok {
			return nil, false
		}
		return strings.Split(s, ","), true
	},
}

// EnumCodec accepts only the listed string values
func EnumCodec[T ~string](name string, allowed ...T) *Codec[T] {
	var zero T

	isAllowed := func(s string) (T, bool) {
		for _, a := range allowed {
			if string(a) == s {
				return a, true
			}
		}
		return zero, false
	}

	return &Codec[T]{
		Name: name,
		Decode: func(raw json.RawMessage, path string) (T, *ParseError) {
			var s string
			if err := unmarshalNonNull(raw, &s); err != nil {
				return zero, newParseError(path, "expected a string but got %s", string(raw))
			}
			val, ok := isAllowed(s)
			if !ok {
				return zero, newParseError(path, "%q is not a valid %s (allowed: %v)", s, name, allowed)
			}
			return val, nil
		},
		FromValue: func(v Value) (T, bool) {
			s, ok := v.AsString()
			if !ok {
				return zero, false
			}
			return isAllowed(s)
		},
	}
}
