package mapboxglstyle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

const (
	FilterOperatorEquals             = "=="
	FilterOperatorNotEqual           = "!="
	FilterOperatorGreaterThan        = ">"
	FilterOperatorGreaterThanOrEqual = ">="
	FilterOperatorLessThan           = "<"
	FilterOperatorLessThanOrEqual    = "<="
	FilterOperatorIn                 = "in"
	FilterOperatorNotIn              = "!in"
	FilterOperatorHas                = "has"
	FilterOperatorNotHas             = "!has"
	FilterOperatorAll                = "all"
	FilterOperatorAny                = "any"
	FilterOperatorNone               = "none"
)

/*
	"filter": ["==", "$type", "Point"],

	"filter": ["all",["==","$type","Polygon"],["in","class","residential","suburb","neighbourhood"]]
*/

// Filter is a predicate over a feature. Evaluation never fails: type mismatches and missing keys evaluate to false.
type Filter interface {
	Evaluate(feature FeatureContext) bool
	String() string
}

// EvaluateFilter evaluates filter against feature. A layer without a filter accepts everything.
func EvaluateFilter(filter Filter, feature FeatureContext) bool {
	if filter == nil {
		return true
	}
	return filter.Evaluate(feature)
}

type RawFilter bool

func (f RawFilter) Evaluate(feature FeatureContext) bool {
	return bool(f)
}

func (f RawFilter) String() string {
	return fmt.Sprintf("%t", bool(f))
}

// HasFilter tests for key presence only; the type of the value is not looked at
type HasFilter struct {
	Key     PropKey
	Negated bool
}

func (f *HasFilter) Evaluate(feature FeatureContext) bool {
	_, ok := f.Key.resolve(feature)
	return ok != f.Negated
}

func (f *HasFilter) String() string {
	op := FilterOperatorHas
	if f.Negated {
		op = FilterOperatorNotHas
	}
	return fmt.Sprintf("[%q, %q]", op, f.Key)
}

type ComparisonOperator string

const (
	ComparisonOperatorEquals             ComparisonOperator = FilterOperatorEquals
	ComparisonOperatorNotEqual           ComparisonOperator = FilterOperatorNotEqual
	ComparisonOperatorGreaterThan        ComparisonOperator = FilterOperatorGreaterThan
	ComparisonOperatorGreaterThanOrEqual ComparisonOperator = FilterOperatorGreaterThanOrEqual
	ComparisonOperatorLessThan           ComparisonOperator = FilterOperatorLessThan
	ComparisonOperatorLessThanOrEqual    ComparisonOperator = FilterOperatorLessThanOrEqual
)

type ComparisonFilter struct {
	Operator ComparisonOperator
	Key      PropKey
	Value    Value
}

func (f *ComparisonFilter) Evaluate(feature FeatureContext) bool {
	actual, ok := f.Key.resolve(feature)

	var cmp int
	comparable := false
	if ok {
		cmp, comparable = compareValues(actual, f.Value)
	}

	switch f.Operator {
	case ComparisonOperatorEquals:
		return ok && equalValues(actual, f.Value, cmp, comparable)
	case ComparisonOperatorNotEqual:
		return !(ok && equalValues(actual, f.Value, cmp, comparable))
	}

	if !comparable {
		return false
	}

	switch f.Operator {
	case ComparisonOperatorGreaterThan:
		return cmp > 0
	case ComparisonOperatorGreaterThanOrEqual:
		return cmp >= 0
	case ComparisonOperatorLessThan:
		return cmp < 0
	case ComparisonOperatorLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func (f *ComparisonFilter) String() string {
	return fmt.Sprintf("[%q, %q, %s]", f.Operator, f.Key, valueJSONString(f.Value))
}

// compareValues orders two numbers numerically. Any other pairing of numbers and strings
// is ordered lexicographically, with numbers rendered as text ("9" > "10").
// Booleans and NaN are not ordered against anything.
func compareValues(a, b Value) (int, bool) {
	an, aIsNumber := a.AsNumber()
	bn, bIsNumber := b.AsNumber()
	if aIsNumber && bIsNumber {
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		case an == bn:
			return 0, true
		default:
			return 0, false
		}
	}

	if !isScalarText(a) || !isScalarText(b) {
		return 0, false
	}

	return strings.Compare(a.String(), b.String()), true
}

// equalValues lets booleans equal only booleans; everything else goes through compareValues
func equalValues(a, b Value, cmp int, comparable bool) bool {
	if a.Kind() == ValueKindBool || b.Kind() == ValueKindBool {
		return a.Equal(b)
	}
	return comparable && cmp == 0
}

func isScalarText(v Value) bool {
	switch v.Kind() {
	case ValueKindString, ValueKindNumber:
		return true
	default:
		return false
	}
}

type MembershipFilter struct {
	Key     PropKey
	Values  []Value
	Negated bool
}

func (f *MembershipFilter) Evaluate(feature FeatureContext) bool {
	actual, ok := f.Key.resolve(feature)
	if !ok {
		return f.Negated
	}

	for _, v := range f.Values {
		if actual.Equal(v) {
			return !f.Negated
		}
	}
	return f.Negated
}

func (f *MembershipFilter) String() string {
	op := FilterOperatorIn
	if f.Negated {
		op = FilterOperatorNotIn
	}
	parts := []string{fmt.Sprintf("%q", op), fmt.Sprintf("%q", f.Key)}
	for _, v := range f.Values {
		parts = append(parts, valueJSONString(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type CombiningOperator string

const (
	CombiningOperatorAll  CombiningOperator = FilterOperatorAll
	CombiningOperatorAny  CombiningOperator = FilterOperatorAny
	CombiningOperatorNone CombiningOperator = FilterOperatorNone
)

type CombiningFilter struct {
	Operator CombiningOperator
	Filters  []Filter
}

func (f *CombiningFilter) Evaluate(feature FeatureContext) bool {
	switch f.Operator {
	case CombiningOperatorAll:
		for _, child := range f.Filters {
			if !child.Evaluate(feature) {
				return false
			}
		}
		return true
	case CombiningOperatorAny:
		for _, child := range f.Filters {
			if child.Evaluate(feature) {
				return true
			}
		}
		return false
	case CombiningOperatorNone:
		for _, child := range f.Filters {
			if child.Evaluate(feature) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (f *CombiningFilter) String() string {
	parts := []string{fmt.Sprintf("%q", f.Operator)}
	for _, child := range f.Filters {
		parts = append(parts, child.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func valueJSONString(v Value) string {
	b, err := v.MarshalJSON()
	if err != nil {
		return v.String()
	}
	return string(b)
}

// ParseFilter decodes a filter expression. A bare boolean is a constant filter,
// anything else must be an array starting with an operator string.
func ParseFilter(raw json.RawMessage) (Filter, errorsx.Error) {
	filter, err := parseFilter(raw, "filter")
	if err != nil {
		return nil, err
	}
	return filter, nil
}

func parseFilter(raw json.RawMessage, path string) (Filter, *ParseError) {
	trimmed := bytes.TrimSpace(raw)

	var b bool
	if err := unmarshalNonNull(trimmed, &b); err == nil {
		return RawFilter(b), nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(trimmed, &parts); err != nil {
		return nil, newParseError(path, "filter must be a boolean or an array, but got %s", string(trimmed))
	}

	if len(parts) == 0 {
		return nil, newParseError(path, "filter array is empty")
	}

	var operator string
	if err := unmarshalNonNull(parts[0], &operator); err != nil {
		return nil, newParseError(indexPath(path, 0), "filter operator must be a string, but got %s", string(parts[0]))
	}

	switch operator {
	case FilterOperatorHas, FilterOperatorNotHas:
		if len(parts) != 2 {
			return nil, newParseError(path, "operator %q expects 1 argument, but got %d", operator, len(parts)-1)
		}
		key, err := parseFilterKey(parts[1], indexPath(path, 1))
		if err != nil {
			return nil, err
		}
		return &HasFilter{Key: key, Negated: operator == FilterOperatorNotHas}, nil

	case FilterOperatorEquals,
		FilterOperatorNotEqual,
		FilterOperatorGreaterThan,
		FilterOperatorGreaterThanOrEqual,
		FilterOperatorLessThan,
		FilterOperatorLessThanOrEqual:
		if len(parts) != 3 {
			return nil, newParseError(path, "operator %q expects 2 arguments, but got %d", operator, len(parts)-1)
		}
		key, err := parseFilterKey(parts[1], indexPath(path, 1))
		if err != nil {
			return nil, err
		}
		value, err := decodeValue(parts[2], indexPath(path, 2))
		if err != nil {
			return nil, err
		}
		return &ComparisonFilter{Operator: ComparisonOperator(operator), Key: key, Value: value}, nil

	case FilterOperatorIn, FilterOperatorNotIn:
		if len(parts) < 2 {
			return nil, newParseError(path, "operator %q expects at least 1 argument", operator)
		}
		key, err := parseFilterKey(parts[1], indexPath(path, 1))
		if err != nil {
			return nil, err
		}
		var values []Value
		for i, rawValue := range parts[2:] {
			value, err := decodeValue(rawValue, indexPath(path, i+2))
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return &MembershipFilter{Key: key, Values: values, Negated: operator == FilterOperatorNotIn}, nil

	case FilterOperatorAll, FilterOperatorAny, FilterOperatorNone:
		filters := []Filter{}
		for i, rawChild := range parts[1:] {
			child, err := parseFilter(rawChild, indexPath(path, i+1))
			if err != nil {
				return nil, err
			}
			filters = append(filters, child)
		}
		return &CombiningFilter{Operator: CombiningOperator(operator), Filters: filters}, nil

	default:
		return nil, newParseError(indexPath(path, 0), "unknown filter operator: %q", operator)
	}
}

func parseFilterKey(raw json.RawMessage, path string) (PropKey, *ParseError) {
	var key string
	if err := unmarshalNonNull(raw, &key); err != nil {
		return PropKey{}, newParseError(path, "filter key must be a string, but got %s", string(raw))
	}
	return ParsePropKey(key), nil
}
