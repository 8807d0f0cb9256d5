package mapboxglstyle

import (
	"github.com/jamesrr39/goutil/errorsx"
)

// LayerHolder is one of BackgroundLayer, FillLayer, LineLayer, SymbolLayer or RasterLayer.
// The set is closed: code that needs to handle every kind implements LayerVisitor,
// and a new kind adds a method there, so it won't compile until every visitor handles it.
type LayerHolder interface {
	Common() *LayerCommon
	Type() LayerType
	IsVisible() bool
	Accept(visitor LayerVisitor) errorsx.Error
	isLayerHolder()
}

type LayerVisitor interface {
	VisitBackground(layer *BackgroundLayer) errorsx.Error
	VisitFill(layer *FillLayer) errorsx.Error
	VisitLine(layer *LineLayer) errorsx.Error
	VisitSymbol(layer *SymbolLayer) errorsx.Error
	VisitRaster(layer *RasterLayer) errorsx.Error
}

var (
	_ LayerHolder = &BackgroundLayer{}
	_ LayerHolder = &FillLayer{}
	_ LayerHolder = &LineLayer{}
	_ LayerHolder = &SymbolLayer{}
	_ LayerHolder = &RasterLayer{}
)

func (l *BackgroundLayer) Common() *LayerCommon { return &l.LayerCommon }
func (l *FillLayer) Common() *LayerCommon       { return &l.LayerCommon }
func (l *LineLayer) Common() *LayerCommon       { return &l.LayerCommon }
func (l *SymbolLayer) Common() *LayerCommon     { return &l.LayerCommon }
func (l *RasterLayer) Common() *LayerCommon     { return &l.LayerCommon }

func (l *BackgroundLayer) Type() LayerType { return LayerTypeBackground }
func (l *FillLayer) Type() LayerType       { return LayerTypeFill }
func (l *LineLayer) Type() LayerType       { return LayerTypeLine }
func (l *SymbolLayer) Type() LayerType     { return LayerTypeSymbol }
func (l *RasterLayer) Type() LayerType     { return LayerTypeRaster }

func (l *BackgroundLayer) IsVisible() bool { return l.Layout.IsVisible() }
func (l *FillLayer) IsVisible() bool       { return l.Layout.IsVisible() }
func (l *LineLayer) IsVisible() bool       { return l.Layout.IsVisible() }
func (l *SymbolLayer) IsVisible() bool     { return l.Layout.IsVisible() }
func (l *RasterLayer) IsVisible() bool     { return l.Layout.IsVisible() }

func (l *BackgroundLayer) Accept(v LayerVisitor) errorsx.Error { return v.VisitBackground(l) }
func (l *FillLayer) Accept(v LayerVisitor) errorsx.Error       { return v.VisitFill(l) }
func (l *LineLayer) Accept(v LayerVisitor) errorsx.Error       { return v.VisitLine(l) }
func (l *SymbolLayer) Accept(v LayerVisitor) errorsx.Error     { return v.VisitSymbol(l) }
func (l *RasterLayer) Accept(v LayerVisitor) errorsx.Error     { return v.VisitRaster(l) }

func (l *BackgroundLayer) isLayerHolder() {}
func (l *FillLayer) isLayerHolder()       {}
func (l *LineLayer) isLayerHolder()       {}
func (l *SymbolLayer) isLayerHolder()     {}
func (l *RasterLayer) isLayerHolder()     {}

// ResolvedLayer is a layer's paint and layout for one zoom level and feature, with every default applied.
// Exactly one of the kind-specific fields is set, matching Type.
type ResolvedLayer struct {
	ID          string              `json:"id"`
	Type        LayerType           `json:"type"`
	Source      string              `json:"source,omitempty"`
	SourceLayer string              `json:"sourceLayer,omitempty"`
	Background  *ResolvedBackground `json:"background,omitempty"`
	Fill        *ResolvedFill       `json:"fill,omitempty"`
	Line        *ResolvedLine       `json:"line,omitempty"`
	Symbol      *ResolvedSymbol     `json:"symbol,omitempty"`
	Raster      *ResolvedRaster     `json:"raster,omitempty"`
}

type ResolvedBackground struct {
	Color   Color   `json:"color"`
	Opacity float64 `json:"opacity"`
	Pattern string  `json:"pattern,omitempty"`
}

type ResolvedFill struct {
	Antialias       bool            `json:"antialias"`
	Opacity         float64         `json:"opacity"`
	Color           Color           `json:"color"`
	OutlineColor    Color           `json:"outlineColor"`
	Translate       []float64       `json:"translate"`
	TranslateAnchor TranslateAnchor `json:"translateAnchor"`
	Pattern         string          `json:"pattern,omitempty"`
}

type ResolvedLine struct {
	Cap             LineCap         `json:"cap"`
	Join            LineJoin        `json:"join"`
	MiterLimit      float64         `json:"miterLimit"`
	RoundLimit      float64         `json:"roundLimit"`
	Opacity         float64         `json:"opacity"`
	Color           Color           `json:"color"`
	Translate       []float64       `json:"translate"`
	TranslateAnchor TranslateAnchor `json:"translateAnchor"`
	Width           float64         `json:"width"`
	GapWidth        float64         `json:"gapWidth"`
	Offset          float64         `json:"offset"`
	Blur            float64         `json:"blur"`
	Dasharray       []float64       `json:"dasharray,omitempty"`
	Pattern         string          `json:"pattern,omitempty"`
}

type ResolvedSymbol struct {
	Placement  SymbolPlacement `json:"placement"`
	Spacing    float64         `json:"spacing"`
	AvoidEdges bool            `json:"avoidEdges"`

	IconImage             string          `json:"iconImage,omitempty"`
	IconSize              float64         `json:"iconSize"`
	IconRotate            float64         `json:"iconRotate"`
	IconPadding           float64         `json:"iconPadding"`
	IconOffset            []float64       `json:"iconOffset"`
	IconAnchor            Anchor          `json:"iconAnchor"`
	IconKeepUpright       bool            `json:"iconKeepUpright"`
	IconAllowOverlap      bool            `json:"iconAllowOverlap"`
	IconIgnorePlacement   bool            `json:"iconIgnorePlacement"`
	IconOptional          bool            `json:"iconOptional"`
	IconRotationAlignment Alignment       `json:"iconRotationAlignment"`
	IconOpacity           float64         `json:"iconOpacity"`
	IconColor             Color           `json:"iconColor"`
	IconHaloColor         Color           `json:"iconHaloColor"`
	IconHaloWidth         float64         `json:"iconHaloWidth"`
	IconHaloBlur          float64         `json:"iconHaloBlur"`
	IconTranslate         []float64       `json:"iconTranslate"`
	IconTranslateAnchor   TranslateAnchor `json:"iconTranslateAnchor"`

	Text                  string          `json:"text,omitempty"`
	TextFont              []string        `json:"textFont"`
	TextSize              float64         `json:"textSize"`
	TextMaxWidth          float64         `json:"textMaxWidth"`
	TextLineHeight        float64         `json:"textLineHeight"`
	TextLetterSpacing     float64         `json:"textLetterSpacing"`
	TextJustify           TextJustify     `json:"textJustify"`
	TextAnchor            Anchor          `json:"textAnchor"`
	TextMaxAngle          float64         `json:"textMaxAngle"`
	TextRotate            float64         `json:"textRotate"`
	TextPadding           float64         `json:"textPadding"`
	TextKeepUpright       bool            `json:"textKeepUpright"`
	TextTransform         TextTransform   `json:"textTransform"`
	TextOffset            []float64       `json:"textOffset"`
	TextAllowOverlap      bool            `json:"textAllowOverlap"`
	TextIgnorePlacement   bool            `json:"textIgnorePlacement"`
	TextOptional          bool            `json:"textOptional"`
	TextRotationAlignment Alignment       `json:"textRotationAlignment"`
	TextOpacity           float64         `json:"textOpacity"`
	TextColor             Color           `json:"textColor"`
	TextHaloColor         Color           `json:"textHaloColor"`
	TextHaloWidth         float64         `json:"textHaloWidth"`
	TextHaloBlur          float64         `json:"textHaloBlur"`
	TextTranslate         []float64       `json:"textTranslate"`
	TextTranslateAnchor   TranslateAnchor `json:"textTranslateAnchor"`
}

type ResolvedRaster struct {
	Opacity       float64 `json:"opacity"`
	HueRotate     float64 `json:"hueRotate"`
	BrightnessMin float64 `json:"brightnessMin"`
	BrightnessMax float64 `json:"brightnessMax"`
	Saturation    float64 `json:"saturation"`
	Contrast      float64 `json:"contrast"`
	FadeDuration  float64 `json:"fadeDuration"`
}

// Resolve produces the layer's fully defaulted paint and layout for a zoom level and feature.
// It returns false when the layer isn't drawn: outside its zoom range, hidden by "visibility", or the filter rejects the feature.
// feature may be nil, e.g. for background layers.
func Resolve(layer LayerHolder, zoom float64, feature FeatureContext) (*ResolvedLayer, bool) {
	common := layer.Common()
	if !common.IsVisibleAtZoom(zoom) || !layer.IsVisible() || !common.Matches(feature) {
		return nil, false
	}

	resolver := &layerResolver{
		ctx: EvalContext{Zoom: zoom, Feature: feature},
		resolved: &ResolvedLayer{
			ID:          common.ID,
			Type:        layer.Type(),
			Source:      common.Source,
			SourceLayer: common.SourceLayer,
		},
	}

	err := layer.Accept(resolver)
	if err != nil {
		return nil, false
	}

	return resolver.resolved, true
}

type layerResolver struct {
	ctx      EvalContext
	resolved *ResolvedLayer
}

func (r *layerResolver) VisitBackground(layer *BackgroundLayer) errorsx.Error {
	r.resolved.Background = &ResolvedBackground{
		Color:   layer.Paint.BackgroundColor(r.ctx),
		Opacity: layer.Paint.BackgroundOpacity(r.ctx),
		Pattern: layer.Paint.BackgroundPattern(r.ctx),
	}
	return nil
}

func (r *layerResolver) VisitFill(layer *FillLayer) errorsx.Error {
	r.resolved.Fill = &ResolvedFill{
		Antialias:       layer.Paint.FillAntialias(r.ctx),
		Opacity:         layer.Paint.FillOpacity(r.ctx),
		Color:           layer.Paint.FillColor(r.ctx),
		OutlineColor:    layer.Paint.FillOutlineColor(r.ctx),
		Translate:       layer.Paint.FillTranslate(r.ctx),
		TranslateAnchor: layer.Paint.FillTranslateAnchor(r.ctx),
		Pattern:         layer.Paint.FillPattern(r.ctx),
	}
	return nil
}

func (r *layerResolver) VisitLine(layer *LineLayer) errorsx.Error {
	r.resolved.Line = &ResolvedLine{
		Cap:             layer.Layout.LineCap(r.ctx),
		Join:            layer.Layout.LineJoin(r.ctx),
		MiterLimit:      layer.Layout.LineMiterLimit(r.ctx),
		RoundLimit:      layer.Layout.LineRoundLimit(r.ctx),
		Opacity:         layer.Paint.LineOpacity(r.ctx),
		Color:           layer.Paint.LineColor(r.ctx),
		Translate:       layer.Paint.LineTranslate(r.ctx),
		TranslateAnchor: layer.Paint.LineTranslateAnchor(r.ctx),
		Width:           layer.Paint.LineWidth(r.ctx),
		GapWidth:        layer.Paint.LineGapWidth(r.ctx),
		Offset:          layer.Paint.LineOffset(r.ctx),
		Blur:            layer.Paint.LineBlur(r.ctx),
		Dasharray:       layer.Paint.LineDasharray(r.ctx),
		Pattern:         layer.Paint.LinePattern(r.ctx),
	}
	return nil
}

func (r *layerResolver) VisitSymbol(layer *SymbolLayer) errorsx.Error {
	layout, paint := &layer.Layout, &layer.Paint
	r.resolved.Symbol = &ResolvedSymbol{
		Placement:  layout.SymbolPlacement(r.ctx),
		Spacing:    layout.SymbolSpacing(r.ctx),
		AvoidEdges: layout.SymbolAvoidEdges(r.ctx),

		IconImage:             layout.IconImage(r.ctx),
		IconSize:              layout.IconSize(r.ctx),
		IconRotate:            layout.IconRotate(r.ctx),
		IconPadding:           layout.IconPadding(r.ctx),
		IconOffset:            layout.IconOffset(r.ctx),
		IconAnchor:            layout.IconAnchor(r.ctx),
		IconKeepUpright:       layout.IconKeepUpright(r.ctx),
		IconAllowOverlap:      layout.IconAllowOverlap(r.ctx),
		IconIgnorePlacement:   layout.IconIgnorePlacement(r.ctx),
		IconOptional:          layout.IconOptional(r.ctx),
		IconRotationAlignment: layout.IconRotationAlignment(r.ctx),
		IconOpacity:           paint.IconOpacity(r.ctx),
		IconColor:             paint.IconColor(r.ctx),
		IconHaloColor:         paint.IconHaloColor(r.ctx),
		IconHaloWidth:         paint.IconHaloWidth(r.ctx),
		IconHaloBlur:          paint.IconHaloBlur(r.ctx),
		IconTranslate:         paint.IconTranslate(r.ctx),
		IconTranslateAnchor:   paint.IconTranslateAnchor(r.ctx),

		Text:                  layout.TextField(r.ctx),
		TextFont:              layout.TextFont(r.ctx),
		TextSize:              layout.TextSize(r.ctx),
		TextMaxWidth:          layout.TextMaxWidth(r.ctx),
		TextLineHeight:        layout.TextLineHeight(r.ctx),
		TextLetterSpacing:     layout.TextLetterSpacing(r.ctx),
		TextJustify:           layout.TextJustify(r.ctx),
		TextAnchor:            layout.TextAnchor(r.ctx),
		TextMaxAngle:          layout.TextMaxAngle(r.ctx),
		TextRotate:            layout.TextRotate(r.ctx),
		TextPadding:           layout.TextPadding(r.ctx),
		TextKeepUpright:       layout.TextKeepUpright(r.ctx),
		TextTransform:         layout.TextTransform(r.ctx),
		TextOffset:            layout.TextOffset(r.ctx),
		TextAllowOverlap:      layout.TextAllowOverlap(r.ctx),
		TextIgnorePlacement:   layout.TextIgnorePlacement(r.ctx),
		TextOptional:          layout.TextOptional(r.ctx),
		TextRotationAlignment: layout.TextRotationAlignment(r.ctx),
		TextOpacity:           paint.TextOpacity(r.ctx),
		TextColor:             paint.TextColor(r.ctx),
		TextHaloColor:         paint.TextHaloColor(r.ctx),
		TextHaloWidth:         paint.TextHaloWidth(r.ctx),
		TextHaloBlur:          paint.TextHaloBlur(r.ctx),
		TextTranslate:         paint.TextTranslate(r.ctx),
		TextTranslateAnchor:   paint.TextTranslateAnchor(r.ctx),
	}
	return nil
}

func (r *layerResolver) VisitRaster(layer *RasterLayer) errorsx.Error {
	r.resolved.Raster = &ResolvedRaster{
		Opacity:       layer.Paint.RasterOpacity(r.ctx),
		HueRotate:     layer.Paint.RasterHueRotate(r.ctx),
		BrightnessMin: layer.Paint.RasterBrightnessMin(r.ctx),
		BrightnessMax: layer.Paint.RasterBrightnessMax(r.ctx),
		Saturation:    layer.Paint.RasterSaturation(r.ctx),
		Contrast:      layer.Paint.RasterContrast(r.ctx),
		FadeDuration:  layer.Paint.RasterFadeDuration(r.ctx),
	}
	return nil
}
