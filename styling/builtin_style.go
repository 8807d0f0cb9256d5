package styling

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
)

// BuiltinSourceLayer is the source layer the built-in style draws from. Features in it carry raw OSM tags as properties.
const BuiltinSourceLayer = "osm"

// builtinStyleDocument draws forests, residential areas, railways, highways and place names from OSM-tagged features
const builtinStyleDocument = `{
	"version": 8,
	"name": "ownmap basic",
	"sources": {
		"ownmap": {"type": "vector", "url": "ownmap://features"}
	},
	"layers": [
		{"id": "background", "type": "background", "paint": {"background-color": "#ffffff"}},
		{
			"id": "forest",
			"type": "fill",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["any", ["==", "natural", "wood"], ["==", "landuse", "forest"]],
			"paint": {"fill-color": "rgb(172, 200, 160)"}
		},
		{
			"id": "residential",
			"type": "fill",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["==", "landuse", "residential"],
			"paint": {"fill-color": "rgb(223, 223, 223)"}
		},
		{
			"id": "railway",
			"type": "line",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["has", "railway"],
			"paint": {"line-color": "rgb(190, 190, 190)", "line-width": 3}
		},
		{
			"id": "highway-path",
			"type": "line",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["in", "highway", "footway", "path", "steps"],
			"paint": {"line-color": "#00ff00", "line-dasharray": [1, 2, 3]}
		},
		{
			"id": "highway-cycleway",
			"type": "line",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["in", "highway", "bridleway", "cycleway"],
			"paint": {"line-color": "#00ff00", "line-dasharray": [20, 5]}
		},
		{
			"id": "highway",
			"type": "line",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["all", ["has", "highway"], ["!in", "highway", "footway", "path", "steps", "bridleway", "cycleway"]],
			"layout": {"line-cap": "round", "line-join": "round"},
			"paint": {
				"line-color": {
					"type": "categorical",
					"property": "highway",
					"stops": [
						["motorway", "#f38d9e"],
						["trunk", "#ffae9b"],
						["primary", "#ffd4a5"],
						["primary_link", "#ffd4a5"],
						["secondary", "#f6f9bf"],
						["tertiary", "#f38d9e"]
					],
					"default": "#bcaca5"
				},
				"line-width": {"base": 1.4, "stops": [[8, 1], [18, 8]]}
			}
		},
		{
			"id": "place-name",
			"type": "symbol",
			"source": "ownmap",
			"source-layer": "osm",
			"filter": ["all", ["==", "$type", "Point"], ["has", "place"], ["has", "name"]],
			"layout": {"text-field": "{name}", "text-size": 16},
			"paint": {"text-color": "#000000"}
		}
	]
}`

// BuiltinStyle is the style that is always available, under BUILTIN_STYLEID
func BuiltinStyle() (*mapboxglstyle.Style, errorsx.Error) {
	style, err := mapboxglstyle.ParseBytes([]byte(builtinStyleDocument))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return style.WithID(BUILTIN_STYLEID), nil
}
