package mapboxglstyle

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/mazznoer/csscolorparser"
)

// Color is a parsed CSS color. R, G and B are in the range 0-255, A is in the range 0-1.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

var (
	ColorBlack       = Color{0, 0, 0, 1}
	ColorWhite       = Color{255, 255, 255, 1}
	ColorTransparent = Color{0, 0, 0, 0}
)

// ParseColor parses any CSS color string: hex (#rgb, #rrggbb, #rrggbbaa), rgb(), rgba(), hsl(), hsla() and color names
func ParseColor(s string) (Color, errorsx.Error) {
	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, errorsx.Wrap(err, "color", s)
	}

	return Color{
		R: clamp(parsed.R, 0, 1) * 255,
		G: clamp(parsed.G, 0, 1) * 255,
		B: clamp(parsed.B, 0, 1) * 255,
		A: clamp(parsed.A, 0, 1),
	}, nil
}

// MustParseColor is for color literals known to be valid at compile time
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// ToRGBA normalizes all four channels to 0-1
func (c Color) ToRGBA() [4]float64 {
	return [4]float64{c.R / 255, c.G / 255, c.B / 255, c.A}
}

// RGBA implements image/color.Color (alpha-premultiplied, 16 bits per channel)
func (c Color) RGBA() (r, g, b, a uint32) {
	alpha := clamp(c.A, 0, 1)
	r = uint32(math.Round(clamp(c.R, 0, 255) / 255 * alpha * 0xffff))
	g = uint32(math.Round(clamp(c.G, 0, 255) / 255 * alpha * 0xffff))
	b = uint32(math.Round(clamp(c.B, 0, 255) / 255 * alpha * 0xffff))
	a = uint32(math.Round(alpha * 0xffff))
	return
}

func (c Color) String() string {
	return fmt.Sprintf(
		"rgba(%s,%s,%s,%s)",
		formatChannel(c.R),
		formatChannel(c.G),
		formatChannel(c.B),
		strconv.FormatFloat(c.A, 'f', -1, 64),
	)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}

	parsed, parseErr := ParseColor(s)
	if parseErr != nil {
		return parseErr
	}

	*c = parsed
	return nil
}

func formatChannel(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

func clamp(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
