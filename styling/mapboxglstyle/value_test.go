package mapboxglstyle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    Value
		wantErr bool
	}{
		{"string", `"residential"`, StringValue("residential"), false},
		{"numeric string stays a string", `"12"`, StringValue("12"), false},
		{"number", `12.5`, NumberValue(12.5), false},
		{"bool", `false`, BoolValue(false), false},
		{"null", `null`, Value{}, true},
		{"array", `[1]`, Value{}, true},
		{"object", `{}`, Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeValue(json.RawMessage(tt.json), "x")
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, "x", err.Path)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, NumberValue(1).Equal(NumberValue(1)))
	assert.False(t, NumberValue(1).Equal(StringValue("1")))
	assert.False(t, BoolValue(true).Equal(NumberValue(1)))
	assert.False(t, Value{}.Equal(Value{}))
}

func TestValueFromInterface(t *testing.T) {
	v, ok := ValueFromInterface(float64(3))
	require.True(t, ok)
	assert.Equal(t, NumberValue(3), v)

	v, ok = ValueFromInterface(json.Number("4.5"))
	require.True(t, ok)
	assert.Equal(t, NumberValue(4.5), v)

	_, ok = ValueFromInterface(map[string]interface{}{})
	assert.False(t, ok)

	_, ok = ValueFromInterface(nil)
	assert.False(t, ok)
}

func TestParsePropKey(t *testing.T) {
	assert.Equal(t, PropKeyType(), ParsePropKey("$type"))
	assert.Equal(t, PropKeyID(), ParsePropKey("$id"))
	assert.Equal(t, PropKeyName("name:en"), ParsePropKey("name:en"))
	assert.Equal(t, "$id", PropKeyID().String())
}

func TestFormatTokens(t *testing.T) {
	feature := &Properties{Values: map[string]Value{
		"name":  StringValue("Oslo"),
		"ele":   NumberValue(23.5),
		"ref":   NumberValue(7),
		"empty": StringValue(""),
	}}

	tests := []struct {
		name    string
		s       string
		feature FeatureContext
		want    string
	}{
		{"no tokens", "Main Street", feature, "Main Street"},
		{"whole field", "{name}", feature, "Oslo"},
		{"mixed", "{name} ({ele} m)", feature, "Oslo (23.5 m)"},
		{"integer number", "E{ref}", feature, "E7"},
		{"missing property", "{name:en}", feature, ""},
		{"no feature", "{name}!", nil, "!"},
		{"unclosed brace", "{name} {ele", feature, "Oslo {ele"},
		{"empty token", "a{}b", feature, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTokens(tt.s, tt.feature))
		})
	}
}
