package ownmap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Overlaps checks whether an item is at least partially inside a container
func Overlaps(container osm.Bounds, item osm.Bounds) bool {
	if container.MinLat > item.MaxLat {
		// container is wholly above item
		return false
	}

	if container.MaxLat < item.MinLat {
		// container is wholly below item
		return false
	}

	if container.MinLon > item.MaxLon {
		// container is wholly to the right of item
		return false
	}

	if container.MaxLon < item.MinLon {
		// container is wholly to the left of item
		return false
	}

	return true
}

func IsTotallyInside(container osm.Bounds, item osm.Bounds) bool {
	return item.MaxLat <= container.MaxLat && item.MaxLon <= container.MaxLon && item.MinLat >= container.MinLat && item.MinLon >= container.MinLon
}

// BoundsFromOrb converts an orb bound (lon/lat points) into osm bounds
func BoundsFromOrb(bound orb.Bound) osm.Bounds {
	return osm.Bounds{
		MinLat: bound.Min.Lat(),
		MaxLat: bound.Max.Lat(),
		MinLon: bound.Min.Lon(),
		MaxLon: bound.Max.Lon(),
	}
}

func ToOrbBound(bounds osm.Bounds) orb.Bound {
	return orb.Bound{
		Min: orb.Point{bounds.MinLon, bounds.MinLat},
		Max: orb.Point{bounds.MaxLon, bounds.MaxLat},
	}
}

// GeometryOverlaps checks whether the bounding box of a geometry is at least partially inside a container
func GeometryOverlaps(container osm.Bounds, geometry orb.Geometry) bool {
	if geometry == nil {
		return false
	}
	return Overlaps(container, BoundsFromOrb(geometry.Bound()))
}
