package webservices

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesService(t *testing.T) {
	ws := NewFeaturesService(newTestLogger(), newTestConnSet(t), newTestRegistry(t))

	const centralOslo = "(59.85,10.6,60,10.9)"

	tests := []struct {
		name     string
		query    url.Values
		wantCode int
		wantIDs  []float64
	}{
		{"filtered line layer", url.Values{"bounds": {centralOslo}, "layerId": {"primary"}, "zoom": {"12"}}, http.StatusOK, []float64{2}},
		{"below the layer's minzoom", url.Values{"bounds": {centralOslo}, "layerId": {"primary"}, "zoom": {"5"}}, http.StatusOK, nil},
		{"symbol layer", url.Values{"bounds": {centralOslo}, "layerId": {"places"}}, http.StatusOK, []float64{1}},
		{"background layer", url.Values{"bounds": {centralOslo}, "layerId": {"bg"}}, http.StatusOK, nil},
		{"builtin style", url.Values{"bounds": {centralOslo}, "layerId": {"highway"}, "zoom": {"14"}, "styleId": {"__ownmap_builtin"}}, http.StatusOK, []float64{2, 3}},
		{"no data there", url.Values{"bounds": {"(0,0,1,1)"}, "layerId": {"primary"}, "zoom": {"12"}}, http.StatusOK, nil},
		{"unknown layer", url.Values{"bounds": {centralOslo}, "layerId": {"nope"}}, http.StatusNotFound, nil},
		{"unknown style", url.Values{"bounds": {centralOslo}, "layerId": {"primary"}, "styleId": {"nope"}}, http.StatusNotFound, nil},
		{"bad zoom", url.Values{"bounds": {centralOslo}, "layerId": {"primary"}, "zoom": {"high"}}, http.StatusBadRequest, nil},
		{"no bounds", url.Values{"layerId": {"primary"}}, http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?"+tt.query.Encode(), nil))
			require.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode != http.StatusOK {
				return
			}

			featureCollection, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
			require.NoError(t, err)

			var ids []float64
			for _, f := range featureCollection.Features {
				ids = append(ids, f.ID.(float64))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFeaturesService_noDatasets(t *testing.T) {
	ws := NewFeaturesService(newTestLogger(), featuredal.NewConnSet(newTestLogger(), nil), newTestRegistry(t))

	w := httptest.NewRecorder()
	ws.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?bounds=(59,10,60,11)&layerId=primary&zoom=12", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"features":[]`)
}

func TestParseBoundsString(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    *osm.Bounds
		wantErr bool
	}{
		{"ok", "(52.533251,-1.394072,52.800548,-0.898208)", &osm.Bounds{MinLat: 52.533251, MinLon: -1.394072, MaxLat: 52.800548, MaxLon: -0.898208}, false},
		{"spaces", "( 1, 2, 3, 4 )", &osm.Bounds{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4}, false},
		{"three values", "(1,2,3)", nil, true},
		{"not a number", "(1,2,3,x)", nil, true},
		{"south above north", "(3,2,1,4)", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBoundsString(tt.s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
