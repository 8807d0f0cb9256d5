package mapboxglstyle

import (
	"bytes"
	"encoding/json"
)

type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityNone    Visibility = "none"
)

type TranslateAnchor string

const (
	TranslateAnchorMap      TranslateAnchor = "map"
	TranslateAnchorViewport TranslateAnchor = "viewport"
)

type LineCap string

const (
	LineCapButt   LineCap = "butt"
	LineCapRound  LineCap = "round"
	LineCapSquare LineCap = "square"
)

type LineJoin string

const (
	LineJoinBevel LineJoin = "bevel"
	LineJoinRound LineJoin = "round"
	LineJoinMiter LineJoin = "miter"
)

type SymbolPlacement string

const (
	SymbolPlacementPoint      SymbolPlacement = "point"
	SymbolPlacementLine       SymbolPlacement = "line"
	SymbolPlacementLineCenter SymbolPlacement = "line-center"
)

type Alignment string

const (
	AlignmentMap      Alignment = "map"
	AlignmentViewport Alignment = "viewport"
	AlignmentAuto     Alignment = "auto"
)

type TextJustify string

const (
	TextJustifyAuto   TextJustify = "auto"
	TextJustifyLeft   TextJustify = "left"
	TextJustifyCenter TextJustify = "center"
	TextJustifyRight  TextJustify = "right"
)

type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

type TextTransform string

const (
	TextTransformNone      TextTransform = "none"
	TextTransformUppercase TextTransform = "uppercase"
	TextTransformLowercase TextTransform = "lowercase"
)

var (
	translateAnchorCodec = EnumCodec("translate anchor", TranslateAnchorMap, TranslateAnchorViewport)
	lineCapCodec         = EnumCodec("line cap", LineCapButt, LineCapRound, LineCapSquare)
	lineJoinCodec        = EnumCodec("line join", LineJoinBevel, LineJoinRound, LineJoinMiter)
	symbolPlacementCodec = EnumCodec("symbol placement", SymbolPlacementPoint, SymbolPlacementLine, SymbolPlacementLineCenter)
	alignmentCodec       = EnumCodec("alignment", AlignmentMap, AlignmentViewport, AlignmentAuto)
	textJustifyCodec     = EnumCodec("text justification", TextJustifyAuto, TextJustifyLeft, TextJustifyCenter, TextJustifyRight)
	anchorCodec          = EnumCodec(
		"anchor",
		AnchorCenter, AnchorLeft, AnchorRight, AnchorTop, AnchorBottom,
		AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight,
	)
	textTransformCodec = EnumCodec("text transform", TextTransformNone, TextTransformUppercase, TextTransformLowercase)
	visibilityCodec    = EnumCodec("visibility", VisibilityVisible, VisibilityNone)
)

func defaultTranslate() []float64 {
	return []float64{0, 0}
}

func defaultTextFont() []string {
	return []string{"Open Sans Regular", "Arial Unicode MS Regular"}
}

// propertyReader decodes the properties of one "layout" or "paint" object.
// It keeps the first error it hits, so a run of reads can be checked once at the end.
type propertyReader struct {
	path   string
	fields map[string]json.RawMessage
	err    *ParseError
}

func newPropertyReader(raw json.RawMessage, path string) (*propertyReader, *ParseError) {
	reader := &propertyReader{
		path:   path,
		fields: make(map[string]json.RawMessage),
	}

	if isJSONNull(raw) {
		return reader, nil
	}

	err := json.Unmarshal(raw, &reader.fields)
	if err != nil {
		return nil, newParseError(path, "expected an object but got %s", string(bytes.TrimSpace(raw)))
	}

	return reader, nil
}

// readProperty returns nil when the property isn't in the document; accessors then use the documented default
func readProperty[T any](reader *propertyReader, name string, codec *Codec[T], fallback T) *Function[T] {
	if reader.err != nil {
		return nil
	}

	raw, ok := reader.fields[name]
	if !ok || isJSONNull(raw) {
		return nil
	}

	f, err := parseFunction(raw, codec, fallback, joinPath(reader.path, name))
	if err != nil {
		reader.err = err
		return nil
	}

	return f
}

// readConstant is for properties that can't be functions, like "visibility"
func readConstant[T any](reader *propertyReader, name string, codec *Codec[T], fallback T) T {
	if reader.err != nil {
		return fallback
	}

	raw, ok := reader.fields[name]
	if !ok || isJSONNull(raw) {
		return fallback
	}

	value, err := codec.Decode(raw, joinPath(reader.path, name))
	if err != nil {
		reader.err = err
		return fallback
	}

	return value
}

func evaluateOr[T any](f *Function[T], ctx EvalContext, fallback T) T {
	if f == nil {
		return fallback
	}
	return f.Evaluate(ctx)
}

// evaluateSliceOr hands out a copy, so callers can't write through to the parsed document
func evaluateSliceOr[E any](f *Function[[]E], ctx EvalContext, fallback []E) []E {
	value := evaluateOr(f, ctx, fallback)
	if value == nil {
		return nil
	}
	return append(make([]E, 0, len(value)), value...)
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
