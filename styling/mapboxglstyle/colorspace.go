package mapboxglstyle

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

type ColorSpace string

const (
	ColorSpaceRGB ColorSpace = "rgb"
	ColorSpaceLab ColorSpace = "lab"
	ColorSpaceHCL ColorSpace = "hcl"
)

// ColorSpaceConverter moves colors in and out of a color space so they can be interpolated there.
// Alpha is always interpolated linearly and never passes through the converter.
type ColorSpaceConverter interface {
	ToSpace(c Color) [3]float64
	FromSpace(components [3]float64, alpha float64) Color
	Mix(from, to [3]float64, t float64) [3]float64
}

var (
	colorSpacesMu sync.RWMutex
	colorSpaces   = map[ColorSpace]ColorSpaceConverter{
		ColorSpaceLab: labConverter{},
		ColorSpaceHCL: hclConverter{},
	}
)

// RegisterColorSpace adds (or replaces) the converter used for a named color space.
// The rgb space is built in and can't be replaced.
func RegisterColorSpace(name ColorSpace, converter ColorSpaceConverter) {
	colorSpacesMu.Lock()
	defer colorSpacesMu.Unlock()
	colorSpaces[name] = converter
}

func lookupColorSpace(name ColorSpace) (ColorSpaceConverter, bool) {
	colorSpacesMu.RLock()
	defer colorSpacesMu.RUnlock()
	converter, ok := colorSpaces[name]
	return converter, ok
}

func isKnownColorSpace(name ColorSpace) bool {
	if name == "" || name == ColorSpaceRGB {
		return true
	}
	_, ok := lookupColorSpace(name)
	return ok
}

func interpolateColor(from, to Color, t float64, space ColorSpace) Color {
	alpha := lerp(from.A, to.A, t)

	if space == "" || space == ColorSpaceRGB {
		return Color{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: alpha,
		}
	}

	converter, ok := lookupColorSpace(space)
	if !ok {
		return interpolateColor(from, to, t, ColorSpaceRGB)
	}

	mixed := converter.Mix(converter.ToSpace(from), converter.ToSpace(to), t)
	return converter.FromSpace(mixed, alpha)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

func fromColorful(c colorful.Color, alpha float64) Color {
	c = c.Clamped()
	return Color{R: c.R * 255, G: c.G * 255, B: c.B * 255, A: alpha}
}

type labConverter struct{}

func (labConverter) ToSpace(c Color) [3]float64 {
	l, a, b := toColorful(c).Lab()
	return [3]float64{l, a, b}
}

func (labConverter) FromSpace(components [3]float64, alpha float64) Color {
	return fromColorful(colorful.Lab(components[0], components[1], components[2]), alpha)
}

func (labConverter) Mix(from, to [3]float64, t float64) [3]float64 {
	return [3]float64{
		lerp(from[0], to[0], t),
		lerp(from[1], to[1], t),
		lerp(from[2], to[2], t),
	}
}

type hclConverter struct{}

func (hclConverter) ToSpace(c Color) [3]float64 {
	h, chroma, l := toColorful(c).Hcl()
	return [3]float64{h, chroma, l}
}

func (hclConverter) FromSpace(components [3]float64, alpha float64) Color {
	return fromColorful(colorful.Hcl(components[0], components[1], components[2]), alpha)
}

// Mix takes the shorter way around the hue circle
func (hclConverter) Mix(from, to [3]float64, t float64) [3]float64 {
	deltaHue := to[0] - from[0]
	if deltaHue > 180 {
		deltaHue -= 360
	} else if deltaHue < -180 {
		deltaHue += 360
	}

	hue := math.Mod(from[0]+t*deltaHue, 360)
	if hue < 0 {
		hue += 360
	}

	return [3]float64{
		hue,
		lerp(from[1], to[1], t),
		lerp(from[2], to[2], t),
	}
}
