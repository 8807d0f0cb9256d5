package mapboxglstyle

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type ValueKind int

const (
	ValueKindString ValueKind = iota + 1
	ValueKindNumber
	ValueKindBool
)

var valueKindStrings = []string{
	"unknown",
	"string",
	"number",
	"bool",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindStrings) {
		return valueKindStrings[0]
	}
	return valueKindStrings[k]
}

// Value is a literal from a style document or a feature's property bag: a string, a number or a bool.
// The zero Value has no kind and is never equal to anything.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value {
	return Value{kind: ValueKindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{kind: ValueKindNumber, num: n}
}

func BoolValue(b bool) Value {
	return Value{kind: ValueKindBool, b: b}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueKindString
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == ValueKindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueKindBool
}

// Equal is strict: values of different kinds are never equal
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueKindString:
		return v.str == other.str
	case ValueKindNumber:
		return v.num == other.num
	case ValueKindBool:
		return v.b == other.b
	default:
		return false
	}
}

// String renders the value the way text-field substitution wants it
func (v Value) String() string {
	switch v.kind {
	case ValueKindString:
		return v.str
	case ValueKindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueKindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueKindString:
		return json.Marshal(v.str)
	case ValueKindNumber:
		return json.Marshal(v.num)
	case ValueKindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// decodeValue tries string, then number, then bool. The JSON literal kinds don't overlap, so the first success is the only one.
func decodeValue(raw json.RawMessage, path string) (Value, *ParseError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Value{}, newParseError(path, "expected a string, number or boolean but got null")
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return StringValue(s), nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return NumberValue(n), nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		return BoolValue(b), nil
	}

	return Value{}, newParseError(path, "expected a string, number or boolean but got %s", string(trimmed))
}

// ValueFromInterface converts a decoded JSON value (as found in GeoJSON properties) into a Value
func ValueFromInterface(i interface{}) (Value, bool) {
	switch val := i.(type) {
	case string:
		return StringValue(val), true
	case float64:
		return NumberValue(val), true
	case float32:
		return NumberValue(float64(val)), true
	case int:
		return NumberValue(float64(val)), true
	case int64:
		return NumberValue(float64(val)), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return StringValue(val.String()), true
		}
		return NumberValue(f), true
	case bool:
		return BoolValue(val), true
	default:
		return Value{}, false
	}
}

type PropKeyKind int

const (
	PropKeyKindType PropKeyKind = iota + 1
	PropKeyKindID
	PropKeyKindName
)

const (
	propKeyTypeWireName = "$type"
	propKeyIDWireName   = "$id"
)

// PropKey is the left-hand side of a filter: the geometry type, the feature id, or a named property
type PropKey struct {
	Kind PropKeyKind
	Name string
}

func PropKeyType() PropKey {
	return PropKey{Kind: PropKeyKindType}
}

func PropKeyID() PropKey {
	return PropKey{Kind: PropKeyKindID}
}

func PropKeyName(name string) PropKey {
	return PropKey{Kind: PropKeyKindName, Name: name}
}

func ParsePropKey(s string) PropKey {
	switch s {
	case propKeyTypeWireName:
		return PropKeyType()
	case propKeyIDWireName:
		return PropKeyID()
	default:
		return PropKeyName(s)
	}
}

func (k PropKey) String() string {
	switch k.Kind {
	case PropKeyKindType:
		return propKeyTypeWireName
	case PropKeyKindID:
		return propKeyIDWireName
	default:
		return k.Name
	}
}

// resolve looks the key up against the feature. $type and $id come from the feature itself, not its property bag.
func (k PropKey) resolve(feature FeatureContext) (Value, bool) {
	if feature == nil {
		return Value{}, false
	}
	switch k.Kind {
	case PropKeyKindType:
		return StringValue(string(feature.GeometryType())), true
	case PropKeyKindID:
		return feature.ID()
	default:
		return feature.Property(k.Name)
	}
}
