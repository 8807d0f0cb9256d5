package webservices

import (
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/osm"
)

// Deg2num gives the x/y of the tile containing the point at the given zoom level
func Deg2num(lat, lon float64, zoomLevel int) (x, y int) {
	tile := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoomLevel))
	return int(tile.X), int(tile.Y)
}

// Num2deg gives the north-west corner of the tile
func Num2deg(x, y, zoomLevel int) (lat, long float64) {
	bound := tileAt(x, y, zoomLevel).Bound()
	return bound.Max.Lat(), bound.Min.Lon()
}

func XYZToBounds(x, y, zoomLevel int) osm.Bounds {
	return ownmap.BoundsFromOrb(tileAt(x, y, zoomLevel).Bound())
}

func tileAt(x, y, zoomLevel int) maptile.Tile {
	return maptile.New(uint32(x), uint32(y), maptile.Zoom(zoomLevel))
}
