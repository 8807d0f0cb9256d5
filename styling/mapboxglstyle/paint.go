package mapboxglstyle

type BackgroundPaint struct {
	color   *Function[Color]
	opacity *Function[float64]
	pattern *Function[string]
}

func decodeBackgroundPaint(reader *propertyReader) BackgroundPaint {
	return BackgroundPaint{
		color:   readProperty(reader, "background-color", ColorCodec, ColorBlack),
		opacity: readProperty(reader, "background-opacity", NumberCodec, 1),
		pattern: readProperty(reader, "background-pattern", StringCodec, ""),
	}
}

func (p *BackgroundPaint) BackgroundColor(ctx EvalContext) Color {
	return evaluateOr(p.color, ctx, ColorBlack)
}

func (p *BackgroundPaint) BackgroundOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.opacity, ctx, 1)
}

func (p *BackgroundPaint) BackgroundPattern(ctx EvalContext) string {
	return evaluateOr(p.pattern, ctx, "")
}

type FillPaint struct {
	antialias       *Function[bool]
	opacity         *Function[float64]
	color           *Function[Color]
	outlineColor    *Function[Color]
	translate       *Function[[]float64]
	translateAnchor *Function[TranslateAnchor]
	pattern         *Function[string]
}

func decodeFillPaint(reader *propertyReader) FillPaint {
	return FillPaint{
		antialias:       readProperty(reader, "fill-antialias", BoolCodec, true),
		opacity:         readProperty(reader, "fill-opacity", NumberCodec, 1),
		color:           readProperty(reader, "fill-color", ColorCodec, ColorBlack),
		outlineColor:    readProperty(reader, "fill-outline-color", ColorCodec, ColorBlack),
		translate:       readProperty(reader, "fill-translate", NumberArrayCodec, defaultTranslate()),
		translateAnchor: readProperty(reader, "fill-translate-anchor", translateAnchorCodec, TranslateAnchorMap),
		pattern:         readProperty(reader, "fill-pattern", StringCodec, ""),
	}
}

func (p *FillPaint) FillAntialias(ctx EvalContext) bool {
	return evaluateOr(p.antialias, ctx, true)
}

func (p *FillPaint) FillOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.opacity, ctx, 1)
}

func (p *FillPaint) FillColor(ctx EvalContext) Color {
	return evaluateOr(p.color, ctx, ColorBlack)
}

// FillOutlineColor is the fill color unless an outline color is set
func (p *FillPaint) FillOutlineColor(ctx EvalContext) Color {
	if p.outlineColor == nil {
		return p.FillColor(ctx)
	}
	return p.outlineColor.Evaluate(ctx)
}

func (p *FillPaint) FillTranslate(ctx EvalContext) []float64 {
	return evaluateSliceOr(p.translate, ctx, defaultTranslate())
}

func (p *FillPaint) FillTranslateAnchor(ctx EvalContext) TranslateAnchor {
	return evaluateOr(p.translateAnchor, ctx, TranslateAnchorMap)
}

func (p *FillPaint) FillPattern(ctx EvalContext) string {
	return evaluateOr(p.pattern, ctx, "")
}

type LinePaint struct {
	opacity         *Function[float64]
	color           *Function[Color]
	translate       *Function[[]float64]
	translateAnchor *Function[TranslateAnchor]
	width           *Function[float64]
	gapWidth        *Function[float64]
	offset          *Function[float64]
	blur            *Function[float64]
	dasharray       *Function[[]float64]
	pattern         *Function[string]
}

func decodeLinePaint(reader *propertyReader) LinePaint {
	return LinePaint{
		opacity:         readProperty(reader, "line-opacity", NumberCodec, 1),
		color:           readProperty(reader, "line-color", ColorCodec, ColorBlack),
		translate:       readProperty(reader, "line-translate", NumberArrayCodec, defaultTranslate()),
		translateAnchor: readProperty(reader, "line-translate-anchor", translateAnchorCodec, TranslateAnchorMap),
		width:           readProperty(reader, "line-width", NumberCodec, 1),
		gapWidth:        readProperty(reader, "line-gap-width", NumberCodec, 0),
		offset:          readProperty(reader, "line-offset", NumberCodec, 0),
		blur:            readProperty(reader, "line-blur", NumberCodec, 0),
		dasharray:       readProperty(reader, "line-dasharray", NumberArrayCodec, nil),
		pattern:         readProperty(reader, "line-pattern", StringCodec, ""),
	}
}

func (p *LinePaint) LineOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.opacity, ctx, 1)
}

func (p *LinePaint) LineColor(ctx EvalContext) Color {
	return evaluateOr(p.color, ctx, ColorBlack)
}

func (p *LinePaint) LineTranslate(ctx EvalContext) []float64 {
	return evaluateSliceOr(p.translate, ctx, defaultTranslate())
}

func (p *LinePaint) LineTranslateAnchor(ctx EvalContext) TranslateAnchor {
	return evaluateOr(p.translateAnchor, ctx, TranslateAnchorMap)
}

func (p *LinePaint) LineWidth(ctx EvalContext) float64 {
	return evaluateOr(p.width, ctx, 1)
}

func (p *LinePaint) LineGapWidth(ctx EvalContext) float64 {
	return evaluateOr(p.gapWidth, ctx, 0)
}

func (p *LinePaint) LineOffset(ctx EvalContext) float64 {
	return evaluateOr(p.offset, ctx, 0)
}

func (p *LinePaint) LineBlur(ctx EvalContext) float64 {
	return evaluateOr(p.blur, ctx, 0)
}

// LineDasharray is nil for a solid line
func (p *LinePaint) LineDasharray(ctx EvalContext) []float64 {
	return evaluateSliceOr(p.dasharray, ctx, nil)
}

func (p *LinePaint) LinePattern(ctx EvalContext) string {
	return evaluateOr(p.pattern, ctx, "")
}

type SymbolPaint struct {
	iconOpacity         *Function[float64]
	iconColor           *Function[Color]
	iconHaloColor       *Function[Color]
	iconHaloWidth       *Function[float64]
	iconHaloBlur        *Function[float64]
	iconTranslate       *Function[[]float64]
	iconTranslateAnchor *Function[TranslateAnchor]

	textOpacity         *Function[float64]
	textColor           *Function[Color]
	textHaloColor       *Function[Color]
	textHaloWidth       *Function[float64]
	textHaloBlur        *Function[float64]
	textTranslate       *Function[[]float64]
	textTranslateAnchor *Function[TranslateAnchor]
}

func decodeSymbolPaint(reader *propertyReader) SymbolPaint {
	return SymbolPaint{
		iconOpacity:         readProperty(reader, "icon-opacity", NumberCodec, 1),
		iconColor:           readProperty(reader, "icon-color", ColorCodec, ColorBlack),
		iconHaloColor:       readProperty(reader, "icon-halo-color", ColorCodec, ColorTransparent),
		iconHaloWidth:       readProperty(reader, "icon-halo-width", NumberCodec, 0),
		iconHaloBlur:        readProperty(reader, "icon-halo-blur", NumberCodec, 0),
		iconTranslate:       readProperty(reader, "icon-translate", NumberArrayCodec, defaultTranslate()),
		iconTranslateAnchor: readProperty(reader, "icon-translate-anchor", translateAnchorCodec, TranslateAnchorMap),

		textOpacity:         readProperty(reader, "text-opacity", NumberCodec, 1),
		textColor:           readProperty(reader, "text-color", ColorCodec, ColorBlack),
		textHaloColor:       readProperty(reader, "text-halo-color", ColorCodec, ColorTransparent),
		textHaloWidth:       readProperty(reader, "text-halo-width", NumberCodec, 0),
		textHaloBlur:        readProperty(reader, "text-halo-blur", NumberCodec, 0),
		textTranslate:       readProperty(reader, "text-translate", NumberArrayCodec, defaultTranslate()),
		textTranslateAnchor: readProperty(reader, "text-translate-anchor", translateAnchorCodec, TranslateAnchorMap),
	}
}

func (p *SymbolPaint) IconOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.iconOpacity, ctx, 1)
}

func (p *SymbolPaint) IconColor(ctx EvalContext) Color {
	return evaluateOr(p.iconColor, ctx, ColorBlack)
}

func (p *SymbolPaint) IconHaloColor(ctx EvalContext) Color {
	return evaluateOr(p.iconHaloColor, ctx, ColorTransparent)
}

func (p *SymbolPaint) IconHaloWidth(ctx EvalContext) float64 {
	return evaluateOr(p.iconHaloWidth, ctx, 0)
}

func (p *SymbolPaint) IconHaloBlur(ctx EvalContext) float64 {
	return evaluateOr(p.iconHaloBlur, ctx, 0)
}

func (p *SymbolPaint) IconTranslate(ctx EvalContext) []float64 {
	return evaluateSliceOr(p.iconTranslate, ctx, defaultTranslate())
}

func (p *SymbolPaint) IconTranslateAnchor(ctx EvalContext) TranslateAnchor {
	return evaluateOr(p.iconTranslateAnchor, ctx, TranslateAnchorMap)
}

func (p *SymbolPaint) TextOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.textOpacity, ctx, 1)
}

func (p *SymbolPaint) TextColor(ctx EvalContext) Color {
	return evaluateOr(p.textColor, ctx, ColorBlack)
}

func (p *SymbolPaint) TextHaloColor(ctx EvalContext) Color {
	return evaluateOr(p.textHaloColor, ctx, ColorTransparent)
}

func (p *SymbolPaint) TextHaloWidth(ctx EvalContext) float64 {
	return evaluateOr(p.textHaloWidth, ctx, 0)
}

func (p *SymbolPaint) TextHaloBlur(ctx EvalContext) float64 {
	return evaluateOr(p.textHaloBlur, ctx, 0)
}

func (p *SymbolPaint) TextTranslate(ctx EvalContext) []float64 {
	return evaluateSliceOr(p.textTranslate, ctx, defaultTranslate())
}

func (p *SymbolPaint) TextTranslateAnchor(ctx EvalContext) TranslateAnchor {
	return evaluateOr(p.textTranslateAnchor, ctx, TranslateAnchorMap)
}

type RasterPaint struct {
	opacity       *Function[float64]
	hueRotate     *Function[float64]
	brightnessMin *Function[float64]
	brightnessMax *Function[float64]
	saturation    *Function[float64]
	contrast      *Function[float64]
	fadeDuration  *Function[float64]
}

func decodeRasterPaint(reader *propertyReader) RasterPaint {
	return RasterPaint{
		opacity:       readProperty(reader, "raster-opacity", NumberCodec, 1),
		hueRotate:     readProperty(reader, "raster-hue-rotate", NumberCodec, 0),
		brightnessMin: readProperty(reader, "raster-brightness-min", NumberCodec, 0),
		brightnessMax: readProperty(reader, "raster-brightness-max", NumberCodec, 1),
		saturation:    readProperty(reader, "raster-saturation", NumberCodec, 0),
		contrast:      readProperty(reader, "raster-contrast", NumberCodec, 0),
		fadeDuration:  readProperty(reader, "raster-fade-duration", NumberCodec, 300),
	}
}

func (p *RasterPaint) RasterOpacity(ctx EvalContext) float64 {
	return evaluateOr(p.opacity, ctx, 1)
}

func (p *RasterPaint) RasterHueRotate(ctx EvalContext) float64 {
	return evaluateOr(p.hueRotate, ctx, 0)
}

func (p *RasterPaint) RasterBrightnessMin(ctx EvalContext) float64 {
	return evaluateOr(p.brightnessMin, ctx, 0)
}

func (p *RasterPaint) RasterBrightnessMax(ctx EvalContext) float64 {
	return evaluateOr(p.brightnessMax, ctx, 1)
}

func (p *RasterPaint) RasterSaturation(ctx EvalContext) float64 {
	return evaluateOr(p.saturation, ctx, 0)
}

func (p *RasterPaint) RasterContrast(ctx EvalContext) float64 {
	return evaluateOr(p.contrast, ctx, 0)
}

// RasterFadeDuration is in milliseconds
func (p *RasterPaint) RasterFadeDuration(ctx EvalContext) float64 {
	return evaluateOr(p.fadeDuration, ctx, 300)
}
