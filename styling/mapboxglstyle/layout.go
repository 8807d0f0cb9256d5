package mapboxglstyle

// Layout holds the layout properties every layer type has
type Layout struct {
	Visibility Visibility
}

func (l Layout) IsVisible() bool {
	return l.Visibility != VisibilityNone
}

func decodeLayout(reader *propertyReader) Layout {
	return Layout{
		Visibility: readConstant(reader, "visibility", visibilityCodec, VisibilityVisible),
	}
}

type BackgroundLayout struct {
	Layout
}

type FillLayout struct {
	Layout
}

type RasterLayout struct {
	Layout
}

type LineLayout struct {
	Layout
	cap        *Function[LineCap]
	join       *Function[LineJoin]
	miterLimit *Function[float64]
	roundLimit *Function[float64]
}

// lineRoundLimitWireName keeps the mixed kebab/snake case name used by existing documents
const lineRoundLimitWireName = "line-round_limit"

func decodeLineLayout(reader *propertyReader) LineLayout {
	return LineLayout{
		Layout:     decodeLayout(reader),
		cap:        readProperty(reader, "line-cap", lineCapCodec, LineCapButt),
		join:       readProperty(reader, "line-join", lineJoinCodec, LineJoinMiter),
		miterLimit: readProperty(reader, "line-miter-limit", NumberCodec, 2),
		roundLimit: readProperty(reader, lineRoundLimitWireName, NumberCodec, 1.05),
	}
}

func (l *LineLayout) LineCap(ctx EvalContext) LineCap {
	return evaluateOr(l.cap, ctx, LineCapButt)
}

func (l *LineLayout) LineJoin(ctx EvalContext) LineJoin {
	return evaluateOr(l.join, ctx, LineJoinMiter)
}

func (l *LineLayout) LineMiterLimit(ctx EvalContext) float64 {
	return evaluateOr(l.miterLimit, ctx, 2)
}

func (l *LineLayout) LineRoundLimit(ctx EvalContext) float64 {
	return evaluateOr(l.roundLimit, ctx, 1.05)
}

type SymbolLayout struct {
	Layout

	placement  *Function[SymbolPlacement]
	spacing    *Function[float64]
	avoidEdges *Function[bool]

	iconAllowOverlap      *Function[bool]
	iconIgnorePlacement   *Function[bool]
	iconOptional          *Function[bool]
	iconRotationAlignment *Function[Alignment]
	iconSize              *Function[float64]
	iconImage             *Function[string]
	iconRotate            *Function[float64]
	iconPadding           *Function[float64]
	iconKeepUpright       *Function[bool]
	iconOffset            *Function[[]float64]
	iconAnchor            *Function[Anchor]

	textField             *Function[string]
	textFont              *Function[[]string]
	textSize              *Function[float64]
	textMaxWidth          *Function[float64]
	textLineHeight        *Function[float64]
	textLetterSpacing     *Function[float64]
	textJustify           *Function[TextJustify]
	textAnchor            *Function[Anchor]
	textMaxAngle          *Function[float64]
	textRotate            *Function[float64]
	textPadding           *Function[float64]
	textKeepUpright       *Function[bool]
	textTransform         *Function[TextTransform]
	textOffset            *Function[[]float64]
	textAllowOverlap      *Function[bool]
	textIgnorePlacement   *Function[bool]
	textOptional          *Function[bool]
	textRotationAlignment *Function[Alignment]
}

func decodeSymbolLayout(reader *propertyReader) SymbolLayout {
	return SymbolLayout{
		Layout:     decodeLayout(reader),
		placement:  readProperty(reader, "symbol-placement", symbolPlacementCodec, SymbolPlacementPoint),
		spacing:    readProperty(reader, "symbol-spacing", NumberCodec, 250),
		avoidEdges: readProperty(reader, "symbol-avoid-edges", BoolCodec, false),

		iconAllowOverlap:      readProperty(reader, "icon-allow-overlap", BoolCodec, false),
		iconIgnorePlacement:   readProperty(reader, "icon-ignore-placement", BoolCodec, false),
		iconOptional:          readProperty(reader, "icon-optional", BoolCodec, false),
		iconRotationAlignment: readProperty(reader, "icon-rotation-alignment", alignmentCodec, AlignmentAuto),
		iconSize:              readProperty(reader, "icon-size", NumberCodec, 1),
		iconImage:             readProperty(reader, "icon-image", StringCodec, ""),
		iconRotate:            readProperty(reader, "icon-rotate", NumberCodec, 0),
		iconPadding:           readProperty(reader, "icon-padding", NumberCodec, 2),
		iconKeepUpright:       readProperty(reader, "icon-keep-upright", BoolCodec, false),
		iconOffset:            readProperty(reader, "icon-offset", NumberArrayCodec, defaultTranslate()),
		iconAnchor:            readProperty(reader, "icon-anchor", anchorCodec, AnchorCenter),

		textField:             readProperty(reader, "text-field", StringCodec, ""),
		textFont:              readProperty(reader, "text-font", StringArrayCodec, defaultTextFont()),
		textSize:              readProperty(reader, "text-size", NumberCodec, 16),
		textMaxWidth:          readProperty(reader, "text-max-width", NumberCodec, 10),
		textLineHeight:        readProperty(reader, "text-line-height", NumberCodec, 1.2),
		textLetterSpacing:     readProperty(reader, "text-letter-spacing", NumberCodec, 0),
		textJustify:           readProperty(reader, "text-justify", textJustifyCodec, TextJustifyCenter),
		textAnchor:            readProperty(reader, "text-anchor", anchorCodec, AnchorCenter),
		textMaxAngle:          readProperty(reader, "text-max-angle", NumberCodec, 45),
		textRotate:            readProperty(reader, "text-rotate", NumberCodec, 0),
		textPadding:           readProperty(reader, "text-padding", NumberCodec, 2),
		textKeepUpright:       readProperty(reader, "text-keep-upright", BoolCodec, true),
		textTransform:         readProperty(reader, "text-transform", textTransformCodec, TextTransformNone),
		textOffset:            readProperty(reader, "text-offset", NumberArrayCodec, defaultTranslate()),
		textAllowOverlap:      readProperty(reader, "text-allow-overlap", BoolCodec, false),
		textIgnorePlacement:   readProperty(reader, "text-ignore-placement", BoolCodec, false),
		textOptional:          readProperty(reader, "text-optional", BoolCodec, false),
		textRotationAlignment: readProperty(reader, "text-rotation-alignment", alignmentCodec, AlignmentAuto),
	}
}

func (l *SymbolLayout) SymbolPlacement(ctx EvalContext) SymbolPlacement {
	return evaluateOr(l.placement, ctx, SymbolPlacementPoint)
}

func (l *SymbolLayout) SymbolSpacing(ctx EvalContext) float64 {
	return evaluateOr(l.spacing, ctx, 250)
}

func (l *SymbolLayout) SymbolAvoidEdges(ctx EvalContext) bool {
	return evaluateOr(l.avoidEdges, ctx, false)
}

func (l *SymbolLayout) IconAllowOverlap(ctx EvalContext) bool {
	return evaluateOr(l.iconAllowOverlap, ctx, false)
}

func (l *SymbolLayout) IconIgnorePlacement(ctx EvalContext) bool {
	return evaluateOr(l.iconIgnorePlacement, ctx, false)
}

func (l *SymbolLayout) IconOptional(ctx EvalContext) bool {
	return evaluateOr(l.iconOptional, ctx, false)
}

func (l *SymbolLayout) IconRotationAlignment(ctx EvalContext) Alignment {
	return evaluateOr(l.iconRotationAlignment, ctx, AlignmentAuto)
}

func (l *SymbolLayout) IconSize(ctx EvalContext) float64 {
	return evaluateOr(l.iconSize, ctx, 1)
}

// IconImage substitutes {token}s from the feature's properties
func (l *SymbolLayout) IconImage(ctx EvalContext) string {
	return FormatTokens(evaluateOr(l.iconImage, ctx, ""), ctx.Feature)
}

func (l *SymbolLayout) IconRotate(ctx EvalContext) float64 {
	return evaluateOr(l.iconRotate, ctx, 0)
}

func (l *SymbolLayout) IconPadding(ctx EvalContext) float64 {
	return evaluateOr(l.iconPadding, ctx, 2)
}

func (l *SymbolLayout) IconKeepUpright(ctx EvalContext) bool {
	return evaluateOr(l.iconKeepUpright, ctx, false)
}

func (l *SymbolLayout) IconOffset(ctx EvalContext) []float64 {
	return evaluateSliceOr(l.iconOffset, ctx, defaultTranslate())
}

func (l *SymbolLayout) IconAnchor(ctx EvalContext) Anchor {
	return evaluateOr(l.iconAnchor, ctx, AnchorCenter)
}

// TextField substitutes {token}s from the feature's properties, e.g. "{name}" becomes the feature's name
func (l *SymbolLayout) TextField(ctx EvalContext) string {
	return FormatTokens(evaluateOr(l.textField, ctx, ""), ctx.Feature)
}

func (l *SymbolLayout) TextFont(ctx EvalContext) []string {
	return evaluateSliceOr(l.textFont, ctx, defaultTextFont())
}

func (l *SymbolLayout) TextSize(ctx EvalContext) float64 {
	return evaluateOr(l.textSize, ctx, 16)
}

func (l *SymbolLayout) TextMaxWidth(ctx EvalContext) float64 {
	return evaluateOr(l.textMaxWidth, ctx, 10)
}

func (l *SymbolLayout) TextLineHeight(ctx EvalContext) float64 {
	return evaluateOr(l.textLineHeight, ctx, 1.2)
}

func (l *SymbolLayout) TextLetterSpacing(ctx EvalContext) float64 {
	return evaluateOr(l.textLetterSpacing, ctx, 0)
}

func (l *SymbolLayout) TextJustify(ctx EvalContext) TextJustify {
	return evaluateOr(l.textJustify, ctx, TextJustifyCenter)
}

func (l *SymbolLayout) TextAnchor(ctx EvalContext) Anchor {
	return evaluateOr(l.textAnchor, ctx, AnchorCenter)
}

func (l *SymbolLayout) TextMaxAngle(ctx EvalContext) float64 {
	return evaluateOr(l.textMaxAngle, ctx, 45)
}

func (l *SymbolLayout) TextRotate(ctx EvalContext) float64 {
	return evaluateOr(l.textRotate, ctx, 0)
}

func (l *SymbolLayout) TextPadding(ctx EvalContext) float64 {
	return evaluateOr(l.textPadding, ctx, 2)
}

func (l *SymbolLayout) TextKeepUpright(ctx EvalContext) bool {
	return evaluateOr(l.textKeepUpright, ctx, true)
}

func (l *SymbolLayout) TextTransform(ctx EvalContext) TextTransform {
	return evaluateOr(l.textTransform, ctx, TextTransformNone)
}

func (l *SymbolLayout) TextOffset(ctx EvalContext) []float64 {
	return evaluateSliceOr(l.textOffset, ctx, defaultTranslate())
}

func (l *SymbolLayout) TextAllowOverlap(ctx EvalContext) bool {
	return evaluateOr(l.textAllowOverlap, ctx, false)
}

func (l *SymbolLayout) TextIgnorePlacement(ctx EvalContext) bool {
	return evaluateOr(l.textIgnorePlacement, ctx, false)
}

func (l *SymbolLayout) TextOptional(ctx EvalContext) bool {
	return evaluateOr(l.textOptional, ctx, false)
}

func (l *SymbolLayout) TextRotationAlignment(ctx EvalContext) Alignment {
	return evaluateOr(l.textRotationAlignment, ctx, AlignmentAuto)
}
