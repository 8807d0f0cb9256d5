package webservices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jamesrr39/ownmap-style/styling"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleService_get(t *testing.T) {
	ss := NewStyleService(newTestLogger(), newTestRegistry(t))

	w := httptest.NewRecorder()
	ss.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var summary styleSummaryType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, "test", summary.ID)
	assert.True(t, summary.IsDefault)
	assert.Equal(t, 8, summary.Version)
	assert.Equal(t, []string{"ownmap"}, summary.Sources)
	assert.Equal(t, []string{"osm"}, summary.SourceLayers)
	require.Len(t, summary.Layers, 3)
	assert.Equal(t, "primary", summary.Layers[1].ID)
	assert.Equal(t, mapboxglstyle.LayerTypeLine, summary.Layers[1].Type)
	assert.True(t, summary.Layers[1].HasFilter)
	require.NotNil(t, summary.Layers[1].MinZoom)
	assert.Equal(t, 8.0, *summary.Layers[1].MinZoom)

	w = httptest.NewRecorder()
	ss.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStyleService_put(t *testing.T) {
	registry := newTestRegistry(t)
	ss := NewStyleService(newTestLogger(), registry)

	tests := []struct {
		name         string
		styleID      string
		body         string
		wantCode     int
		wantInBody   string
		wantReplaced bool
	}{
		{
			"new style",
			"dark",
			`{"version": 8, "layers": [{"id": "bg", "type": "background", "paint": {"background-color": "#000000"}}]}`,
			http.StatusOK,
			`"id":"dark"`,
			true,
		},
		{
			"bad filter",
			"dark2",
			`{"version": 8, "layers": [{"id": "a", "type": "fill", "filter": ["==", "a"]}]}`,
			http.StatusBadRequest,
			"layers[0].filter",
			false,
		},
		{
			"not json",
			"dark3",
			`{`,
			http.StatusBadRequest,
			"message",
			false,
		},
		{
			"builtin",
			styling.BUILTIN_STYLEID,
			`{"version": 8, "layers": []}`,
			http.StatusForbidden,
			"builtin",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ss.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/"+tt.styleID, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantInBody)

			_, ok := registry.StyleSet().GetStyleByID(tt.styleID)
			if tt.wantReplaced {
				assert.True(t, ok)
			} else if tt.styleID != styling.BUILTIN_STYLEID {
				assert.False(t, ok)
			}
		})
	}

	t.Run("replacing keeps the other styles", func(t *testing.T) {
		w := httptest.NewRecorder()
		ss.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(`{"version": 8, "layers": []}`)))
		require.Equal(t, http.StatusOK, w.Code)

		styleSet := registry.StyleSet()
		style, ok := styleSet.GetStyleByID("test")
		require.True(t, ok)
		assert.Empty(t, style.Layers())
		assert.Equal(t, []string{styling.BUILTIN_STYLEID, "dark", "test"}, styleSet.GetAllStyleIDs())
		assert.Equal(t, "test", styleSet.GetDefaultStyleID())
	})
}

func TestStyleService_resolve(t *testing.T) {
	ss := NewStyleService(newTestLogger(), newTestRegistry(t))

	primaryRoad := `{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}, "properties": {"highway": "primary"}}`

	t.Run("resolves matching layers", func(t *testing.T) {
		body := `{"zoom": 12, "sourceLayer": "osm", "feature": ` + primaryRoad + `}`

		w := httptest.NewRecorder()
		ss.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test/resolve", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code)

		var resp resolveResponseType
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "test", resp.StyleID)
		assert.Equal(t, 12.0, resp.Zoom)
		require.Len(t, resp.Layers, 1)
		assert.Equal(t, "primary", resp.Layers[0].ID)
		require.NotNil(t, resp.Layers[0].Line)
		assert.Equal(t, 3.0, resp.Layers[0].Line.Width)
		assert.Contains(t, w.Body.String(), `"background":"rgba(238,238,238,1)"`)
	})

	tests := []struct {
		name       string
		styleID    string
		body       string
		wantCode   int
		wantLayers int
	}{
		{"below minzoom", "test", `{"zoom": 4, "sourceLayer": "osm", "feature": ` + primaryRoad + `}`, http.StatusOK, 0},
		{"other source layer", "test", `{"zoom": 12, "sourceLayer": "water", "feature": ` + primaryRoad + `}`, http.StatusOK, 0},
		{"unknown style", "nope", `{"zoom": 12, "feature": ` + primaryRoad + `}`, http.StatusNotFound, 0},
		{"no zoom", "test", `{"sourceLayer": "osm", "feature": ` + primaryRoad + `}`, http.StatusBadRequest, 0},
		{"no feature", "test", `{"zoom": 12, "sourceLayer": "osm"}`, http.StatusBadRequest, 0},
		{"bad feature", "test", `{"zoom": 12, "sourceLayer": "osm", "feature": {"type": "Feature", "geometry": 4}}`, http.StatusBadRequest, 0},
		{"not json", "test", `{`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ss.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/"+tt.styleID+"/resolve", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode != http.StatusOK {
				return
			}

			var resp resolveResponseType
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.Layers, tt.wantLayers)
			assert.NotNil(t, resp.Layers)
		})
	}
}
