package stylerenderer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

func NewImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

// projection maps lon/lat onto the pixels of an image covering bounds
type projection struct {
	bounds osm.Bounds
	width  float64
	height float64
}

func newProjection(bounds osm.Bounds, size image.Rectangle) projection {
	return projection{bounds, float64(size.Dx()), float64(size.Dy())}
}

func (p projection) toPixel(point orb.Point) (x, y float64) {
	xThroughBounds := (point.Lon() - p.bounds.MinLon) / (p.bounds.MaxLon - p.bounds.MinLon)
	yThroughBounds := 1 - ((point.Lat() - p.bounds.MinLat) / (p.bounds.MaxLat - p.bounds.MinLat))

	return xThroughBounds * p.width, yThroughBounds * p.height
}

func withOpacity(c mapboxglstyle.Color, opacity float64) mapboxglstyle.Color {
	c.A *= opacity
	return c
}

// labelPoints are where a symbol is placed for a geometry: every point of a point geometry, the middle vertex of a line and the middle of a polygon's bounding box
func labelPoints(geometry orb.Geometry) []orb.Point {
	switch g := geometry.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.MultiPoint:
		return []orb.Point(g)
	case orb.LineString:
		if len(g) == 0 {
			return nil
		}
		return []orb.Point{g[len(g)/2]}
	case orb.MultiLineString:
		var points []orb.Point
		for _, lineString := range g {
			points = append(points, labelPoints(lineString)...)
		}
		return points
	case orb.Polygon, orb.MultiPolygon:
		return []orb.Point{g.Bound().Center()}
	default:
		return nil
	}
}

// lines are the paths a line layer strokes for a geometry. Polygons are stroked along their rings.
func lines(geometry orb.Geometry) []orb.LineString {
	switch g := geometry.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return []orb.LineString(g)
	case orb.Polygon:
		var lineStrings []orb.LineString
		for _, ring := range g {
			lineStrings = append(lineStrings, orb.LineString(ring))
		}
		return lineStrings
	case orb.MultiPolygon:
		var lineStrings []orb.LineString
		for _, polygon := range g {
			lineStrings = append(lineStrings, lines(polygon)...)
		}
		return lineStrings
	default:
		return nil
	}
}

func polygons(geometry orb.Geometry) []orb.Polygon {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	default:
		return nil
	}
}
