package styling

import (
	"testing"

	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseStyle(t *testing.T, id, document string) *mapboxglstyle.Style {
	style, err := mapboxglstyle.ParseBytes([]byte(document))
	require.NoError(t, err)
	return style.WithID(id)
}

const minimalStyleDocument = `{"version": 8, "layers": [{"id": "bg", "type": "background", "paint": {"background-color": "#123456"}}]}`

func TestNewStyleSet(t *testing.T) {
	a := mustParseStyle(t, "a", minimalStyleDocument)
	b := mustParseStyle(t, "b", minimalStyleDocument)

	tests := []struct {
		name           string
		styles         []*mapboxglstyle.Style
		defaultStyleID string
		wantErr        bool
	}{
		{"ok", []*mapboxglstyle.Style{a, b}, "b", false},
		{"duplicate id", []*mapboxglstyle.Style{a, a}, "a", true},
		{"default not found", []*mapboxglstyle.Style{a, b}, "c", true},
		{"style without id", []*mapboxglstyle.Style{a, mustParseStyle(t, "", minimalStyleDocument)}, "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styleSet, err := NewStyleSet(tt.styles, tt.defaultStyleID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, styleSet.GetAllStyleIDs())
			assert.Same(t, b, styleSet.GetDefaultStyle())

			style, ok := styleSet.GetStyleByID("a")
			require.True(t, ok)
			assert.Same(t, a, style)

			_, ok = styleSet.GetStyleByID("nope")
			assert.False(t, ok)
		})
	}
}

func TestStyleSet_withStyle(t *testing.T) {
	a := mustParseStyle(t, "a", minimalStyleDocument)
	styleSet, err := NewStyleSet([]*mapboxglstyle.Style{a}, "a")
	require.NoError(t, err)

	a2 := mustParseStyle(t, "a", minimalStyleDocument)
	b := mustParseStyle(t, "b", minimalStyleDocument)

	updated := styleSet.withStyle(a2).withStyle(b)

	assert.Equal(t, []string{"a"}, styleSet.GetAllStyleIDs())
	assert.Same(t, a, styleSet.GetDefaultStyle())

	assert.Equal(t, []string{"a", "b"}, updated.GetAllStyleIDs())
	assert.Same(t, a2, updated.GetDefaultStyle())
}

func TestBuiltinStyle(t *testing.T) {
	style, err := BuiltinStyle()
	require.NoError(t, err)

	assert.Equal(t, BUILTIN_STYLEID, style.GetStyleID())
	assert.Equal(t, []string{BuiltinSourceLayer}, style.SourceLayers())
	assert.Equal(t, mapboxglstyle.ColorWhite, style.GetBackground(10))

	tests := []struct {
		name       string
		feature    *mapboxglstyle.Properties
		wantLayers []string
	}{
		{
			"forest",
			&mapboxglstyle.Properties{Type: mapboxglstyle.GeometryTypePolygon, Values: map[string]mapboxglstyle.Value{"natural": mapboxglstyle.StringValue("wood")}},
			[]string{"forest"},
		},
		{
			"motorway",
			&mapboxglstyle.Properties{Type: mapboxglstyle.GeometryTypeLineString, Values: map[string]mapboxglstyle.Value{"highway": mapboxglstyle.StringValue("motorway")}},
			[]string{"highway"},
		},
		{
			"footpath",
			&mapboxglstyle.Properties{Type: mapboxglstyle.GeometryTypeLineString, Values: map[string]mapboxglstyle.Value{"highway": mapboxglstyle.StringValue("path")}},
			[]string{"highway-path"},
		},
		{
			"village",
			&mapboxglstyle.Properties{Type: mapboxglstyle.GeometryTypePoint, Values: map[string]mapboxglstyle.Value{
				"place": mapboxglstyle.StringValue("village"),
				"name":  mapboxglstyle.StringValue("Hemsedal"),
			}},
			[]string{"place-name"},
		},
		{
			"unnamed place",
			&mapboxglstyle.Properties{Type: mapboxglstyle.GeometryTypePoint, Values: map[string]mapboxglstyle.Value{"place": mapboxglstyle.StringValue("village")}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, resolved := range style.ResolveFeature(12, BuiltinSourceLayer, tt.feature) {
				ids = append(ids, resolved.ID)
			}
			assert.Equal(t, tt.wantLayers, ids)
		})
	}
}
