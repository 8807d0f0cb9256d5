package feature

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
)

func tagsToProperties(tags osm.Tags) geojson.Properties {
	properties := make(geojson.Properties, len(tags))
	for _, tag := range tags {
		properties[tag.Key] = tag.Value
	}
	return properties
}

func FromOSMNode(node *osm.Node) *Feature {
	geoJSONFeature := geojson.NewFeature(orb.Point{node.Lon, node.Lat})
	geoJSONFeature.ID = int64(node.ID)
	geoJSONFeature.Properties = tagsToProperties(node.Tags)

	return New(geoJSONFeature)
}

// FromOSMWay converts a way with annotated node positions. Closed ways that describe an area become polygons, others line strings.
func FromOSMWay(way *osm.Way) *Feature {
	lineString := make(orb.LineString, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		lineString = append(lineString, orb.Point{wayNode.Lon, wayNode.Lat})
	}

	var geometry orb.Geometry = lineString
	if isArea(way) {
		geometry = orb.Polygon{orb.Ring(lineString)}
	}

	geoJSONFeature := geojson.NewFeature(geometry)
	geoJSONFeature.ID = int64(way.ID)
	geoJSONFeature.Properties = tagsToProperties(way.Tags)

	return New(geoJSONFeature)
}

// tags that make a closed way an outline rather than an area, unless area=yes says otherwise
var linearTagKeys = map[string]bool{
	"highway":  true,
	"barrier":  true,
	"railway":  true,
	"waterway": true,
}

func isArea(way *osm.Way) bool {
	nodes := way.Nodes
	if len(nodes) < 4 || nodes[0].ID != nodes[len(nodes)-1].ID {
		return false
	}

	for _, tag := range way.Tags {
		if tag.Key == "area" {
			return tag.Value != "no"
		}
	}

	for _, tag := range way.Tags {
		if linearTagKeys[tag.Key] {
			return false
		}
	}

	return true
}
