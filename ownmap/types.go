package ownmap

import (
	"math"

	"github.com/paulmach/osm"
)

type ZoomLevel float64

const (
	MinZoomLevel ZoomLevel = 0
	MaxZoomLevel ZoomLevel = 24
)

// Clamp keeps the zoom level within the range a style can address. NaN is left as-is.
func (z ZoomLevel) Clamp() ZoomLevel {
	if math.IsNaN(float64(z)) {
		return z
	}
	if z < MinZoomLevel {
		return MinZoomLevel
	}
	if z > MaxZoomLevel {
		return MaxZoomLevel
	}
	return z
}

// DatasetInfo describes a loaded feature dataset
type DatasetInfo struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Bounds       osm.Bounds `json:"bounds"`
	FeatureCount int        `json:"featureCount"`
	SourceLayers []string   `json:"sourceLayers"`
}
