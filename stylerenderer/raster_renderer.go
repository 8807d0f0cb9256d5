package stylerenderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/feature"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"golang.org/x/image/font"
)

type MapRenderer interface {
	RenderRaster(ctx context.Context, connSet *featuredal.ConnSet, size image.Rectangle, bounds osm.Bounds, zoomLevel ownmap.ZoomLevel, style *mapboxglstyle.Style) (image.Image, errorsx.Error)
	RenderTextTile(size image.Rectangle, text string) (image.Image, errorsx.Error)
}

type RasterRenderer struct {
	logger *logpkg.Logger
	font   *truetype.Font
}

var _ MapRenderer = &RasterRenderer{}

func NewRasterRenderer(logger *logpkg.Logger, font *truetype.Font) *RasterRenderer {
	return &RasterRenderer{
		logger,
		font,
	}
}

func (rr *RasterRenderer) RenderTextTile(size image.Rectangle, text string) (image.Image, errorsx.Error) {
	img := image.NewRGBA(size)
	x := size.Max.X / 2
	y := size.Max.Y / 2

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(rr.font)
	ctx.SetFontSize(16.0)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(x, y))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return img, nil
}

const (
	extraLatDegs = 0.01
	extraLonDegs = 0.01
)

// expandBounds grows the bounds a little, so that labels of places just outside the tile are still drawn onto its edge
func expandBounds(bounds osm.Bounds) osm.Bounds {
	return osm.Bounds{
		MinLat: bounds.MinLat - extraLatDegs,
		MaxLat: bounds.MaxLat + extraLatDegs,
		MinLon: bounds.MinLon - extraLonDegs,
		MaxLon: bounds.MaxLon + extraLonDegs,
	}
}

func (rr *RasterRenderer) RenderRaster(ctx context.Context, connSet *featuredal.ConnSet, size image.Rectangle, bounds osm.Bounds, zoomLevel ownmap.ZoomLevel, style *mapboxglstyle.Style) (image.Image, errorsx.Error) {
	filter := &featuredal.GetInBoundsFilter{
		SourceLayers: style.SourceLayers(),
	}

	endGetDataSpan := ownmap.StartSpan(ctx, "get data")
	featureMap, err := connSet.GetInBounds(ctx, expandBounds(bounds), filter)
	endGetDataSpan()
	if err != nil {
		if errorsx.Cause(err) == featuredal.ErrNoDataAvailable {
			return rr.RenderTextTile(size, "(no data found)")
		}
		return nil, errorsx.Wrap(err)
	}

	rr.logger.Debug("found features in %d source layers", len(featureMap))

	endDrawMapSpan := ownmap.StartSpan(ctx, "drawMap")
	defer endDrawMapSpan()

	return rr.drawMap(featureMap, size, bounds, zoomLevel, style, nil)
}

// drawRecorder is told about every paint operation, in the order they're made
type drawRecorder interface {
	record(format string, args ...interface{})
}

func (rr *RasterRenderer) drawMap(featureMap featuredal.SourceLayerFeatureMap, size image.Rectangle, bounds osm.Bounds, zoomLevel ownmap.ZoomLevel, style *mapboxglstyle.Style, recorder drawRecorder) (*image.RGBA, errorsx.Error) {
	img := NewImageWithBackground(size, color.Transparent)

	painter := &tilePainter{
		rr:         rr,
		img:        img,
		projection: newProjection(bounds, size),
		zoom:       float64(zoomLevel),
		featureMap: featureMap,
		recorder:   recorder,
	}

	// layers are in render order, so each one is painted over the ones before it
	for _, layer := range style.Layers() {
		err := layer.Accept(painter)
		if err != nil {
			return nil, errorsx.Wrap(err, "layer", layer.Common().ID)
		}
	}

	return img, nil
}

// tilePainter paints one tile, one layer at a time
type tilePainter struct {
	rr         *RasterRenderer
	img        *image.RGBA
	projection projection
	zoom       float64
	featureMap featuredal.SourceLayerFeatureMap
	recorder   drawRecorder
}

var _ mapboxglstyle.LayerVisitor = &tilePainter{}

func (p *tilePainter) record(format string, args ...interface{}) {
	if p.recorder == nil {
		return
	}
	p.recorder.record(format, args...)
}

// resolvedFeature is a feature along with the paint and layout a layer has for it
type resolvedFeature struct {
	feature  *feature.Feature
	resolved *mapboxglstyle.ResolvedLayer
}

func (p *tilePainter) resolveFeatures(layer mapboxglstyle.LayerHolder) []resolvedFeature {
	var resolvedFeatures []resolvedFeature
	for _, f := range p.featureMap[layer.Common().SourceLayer] {
		resolved, ok := mapboxglstyle.Resolve(layer, p.zoom, f)
		if !ok {
			continue
		}
		resolvedFeatures = append(resolvedFeatures, resolvedFeature{f, resolved})
	}
	return resolvedFeatures
}

func (p *tilePainter) VisitBackground(layer *mapboxglstyle.BackgroundLayer) errorsx.Error {
	resolved, ok := mapboxglstyle.Resolve(layer, p.zoom, nil)
	if !ok {
		return nil
	}

	c := withOpacity(resolved.Background.Color, resolved.Background.Opacity)
	p.record("%s background %s", layer.ID, c)

	gc := draw2dimg.NewGraphicContext(p.img)
	gc.SetFillColor(c)
	bounds := p.img.Bounds()
	gc.BeginPath()
	gc.MoveTo(float64(bounds.Min.X), float64(bounds.Min.Y))
	gc.LineTo(float64(bounds.Max.X), float64(bounds.Min.Y))
	gc.LineTo(float64(bounds.Max.X), float64(bounds.Max.Y))
	gc.LineTo(float64(bounds.Min.X), float64(bounds.Max.Y))
	gc.Close()
	gc.Fill()

	return nil
}

func (p *tilePainter) VisitFill(layer *mapboxglstyle.FillLayer) errorsx.Error {
	for _, rf := range p.resolveFeatures(layer) {
		fill := rf.resolved.Fill
		fillColor := withOpacity(fill.Color, fill.Opacity)
		outlineColor := withOpacity(fill.OutlineColor, fill.Opacity)

		for _, polygon := range polygons(rf.feature.Geometry) {
			gc := draw2dimg.NewGraphicContext(p.img)
			gc.SetFillColor(fillColor)
			gc.SetStrokeColor(outlineColor)
			gc.SetLineWidth(1)

			path := p.tracePath(gc, polygonToLineStrings(polygon), fill.Translate, true)
			p.record("%s fill %s outline %s %s", layer.ID, fillColor, outlineColor, path)

			if fill.Antialias {
				gc.FillStroke()
			} else {
				gc.Fill()
			}
		}
	}

	return nil
}

var lineCaps = map[mapboxglstyle.LineCap]draw2d.LineCap{
	mapboxglstyle.LineCapButt:   draw2d.ButtCap,
	mapboxglstyle.LineCapRound:  draw2d.RoundCap,
	mapboxglstyle.LineCapSquare: draw2d.SquareCap,
}

var lineJoins = map[mapboxglstyle.LineJoin]draw2d.LineJoin{
	mapboxglstyle.LineJoinBevel: draw2d.BevelJoin,
	mapboxglstyle.LineJoinRound: draw2d.RoundJoin,
	mapboxglstyle.LineJoinMiter: draw2d.MiterJoin,
}

func (p *tilePainter) VisitLine(layer *mapboxglstyle.LineLayer) errorsx.Error {
	for _, rf := range p.resolveFeatures(layer) {
		line := rf.resolved.Line
		if line.Width <= 0 {
			continue
		}

		lineColor := withOpacity(line.Color, line.Opacity)

		gc := draw2dimg.NewGraphicContext(p.img)
		gc.SetStrokeColor(lineColor)
		gc.SetLineWidth(line.Width)
		gc.SetLineCap(lineCaps[line.Cap])
		gc.SetLineJoin(lineJoins[line.Join])

		var dashes []float64
		for _, dash := range line.Dasharray {
			// dash lengths are in line widths
			dashes = append(dashes, dash*line.Width)
		}
		if len(dashes) != 0 {
			gc.SetLineDash(dashes, 0)
		}

		path := p.tracePath(gc, lines(rf.feature.Geometry), line.Translate, false)
		p.record("%s line %s width=%v dashes=%v %s", layer.ID, lineColor, line.Width, dashes, path)

		gc.Stroke()
	}

	return nil
}

func (p *tilePainter) VisitSymbol(layer *mapboxglstyle.SymbolLayer) errorsx.Error {
	for _, rf := range p.resolveFeatures(layer) {
		symbol := rf.resolved.Symbol
		text := applyTextTransform(symbol.Text, symbol.TextTransform)
		if text == "" || symbol.TextSize <= 0 {
			continue
		}

		for _, point := range labelPoints(rf.feature.Geometry) {
			x, y := p.projection.toPixel(point)
			err := p.drawText(layer.ID, text, x, y, symbol)
			if err != nil {
				return errorsx.Wrap(err)
			}
		}
	}

	return nil
}

// raster layers draw imagery from tile servers, which this renderer doesn't fetch
func (p *tilePainter) VisitRaster(layer *mapboxglstyle.RasterLayer) errorsx.Error {
	p.rr.logger.Debug("skipping raster layer %q", layer.ID)
	return nil
}

func polygonToLineStrings(polygon orb.Polygon) []orb.LineString {
	lineStrings := make([]orb.LineString, len(polygon))
	for i, ring := range polygon {
		lineStrings[i] = orb.LineString(ring)
	}
	return lineStrings
}

// tracePath adds the line strings to the graphic context's path, and returns a description of the pixel path for recording
func (p *tilePainter) tracePath(gc *draw2dimg.GraphicContext, lineStrings []orb.LineString, translate []float64, closePath bool) string {
	translateX, translateY := translateOffset(translate)

	var descriptions []string
	gc.BeginPath()
	for _, lineString := range lineStrings {
		var pixels []string
		for i, point := range lineString {
			x, y := p.projection.toPixel(point)
			x += translateX
			y += translateY

			if i == 0 {
				gc.MoveTo(x, y)
			} else {
				gc.LineTo(x, y)
			}
			pixels = append(pixels, fmt.Sprintf("(%.1f,%.1f)", x, y))
		}
		if closePath && len(lineString) != 0 {
			gc.Close()
		}
		descriptions = append(descriptions, strings.Join(pixels, " "))
	}

	return "[" + strings.Join(descriptions, " | ") + "]"
}

func translateOffset(translate []float64) (x, y float64) {
	if len(translate) != 2 {
		return 0, 0
	}
	return translate[0], translate[1]
}

func applyTextTransform(text string, transform mapboxglstyle.TextTransform) string {
	switch transform {
	case mapboxglstyle.TextTransformUppercase:
		return strings.ToUpper(text)
	case mapboxglstyle.TextTransformLowercase:
		return strings.ToLower(text)
	default:
		return text
	}
}

var haloOffsets = [][2]float64{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// drawText draws the text centered on (x, y), over a halo when the symbol has one
func (p *tilePainter) drawText(layerID, text string, x, y float64, symbol *mapboxglstyle.ResolvedSymbol) errorsx.Error {
	face := truetype.NewFace(p.rr.font, &truetype.Options{Size: symbol.TextSize, DPI: 72})
	defer face.Close()

	translateX, translateY := translateOffset(symbol.TextTranslate)
	textWidth := float64(font.MeasureString(face, text)) / 64
	originX := x - textWidth/2 + translateX
	originY := y + symbol.TextSize/2 + translateY

	textColor := withOpacity(symbol.TextColor, symbol.TextOpacity)
	haloColor := withOpacity(symbol.TextHaloColor, symbol.TextOpacity)

	p.record("%s text %q size=%v at (%.1f,%.1f) %s halo %s width=%v", layerID, text, symbol.TextSize, originX, originY, textColor, haloColor, symbol.TextHaloWidth)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(p.rr.font)
	ctx.SetFontSize(symbol.TextSize)
	ctx.SetClip(p.img.Bounds())
	ctx.SetDst(p.img)

	if symbol.TextHaloWidth > 0 && haloColor.A > 0 {
		ctx.SetSrc(image.NewUniform(haloColor))
		for _, offset := range haloOffsets {
			pt := freetype.Pt(int(originX+offset[0]*symbol.TextHaloWidth), int(originY+offset[1]*symbol.TextHaloWidth))
			_, err := ctx.DrawString(text, pt)
			if err != nil {
				return errorsx.Wrap(err)
			}
		}
	}

	ctx.SetSrc(image.NewUniform(textColor))
	_, err := ctx.DrawString(text, freetype.Pt(int(originX), int(originY)))
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
