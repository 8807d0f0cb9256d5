package fonts

import (
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"golang.org/x/image/font/gofont/goregular"
)

var goRegularFont *truetype.Font

func init() {
	font, err := loadGoRegular()
	if err != nil {
		panic(err)
	}

	goRegularFont = font
}

func loadGoRegular() (*truetype.Font, errorsx.Error) {
	font, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return font, nil
}

// DefaultFont is used for every text-font, since glyphs aren't fetched from the style's "glyphs" URL
func DefaultFont() *truetype.Font {
	return goRegularFont
}
