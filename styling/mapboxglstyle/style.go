package mapboxglstyle

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
)

// SupportedVersion is the only Mapbox GL style version this package understands
const SupportedVersion = 8

// Style is a parsed style document. It is never modified after parsing,
// so any number of goroutines can read and evaluate it without locking.
type Style struct {
	id         string
	version    int
	name       string
	center     []float64
	zoom       *float64
	bearing    *float64
	pitch      *float64
	sprite     string
	glyphs     string
	metadata   json.RawMessage
	sources    map[string]*Source
	layers     []LayerHolder
	layersByID map[string]LayerHolder
}

type styleJSON struct {
	Version  *int                       `json:"version"`
	Name     string                     `json:"name"`
	Center   []float64                  `json:"center"`
	Zoom     *float64                   `json:"zoom"`
	Bearing  *float64                   `json:"bearing"`
	Pitch    *float64                   `json:"pitch"`
	Sprite   string                     `json:"sprite"`
	Glyphs   string                     `json:"glyphs"`
	Metadata json.RawMessage            `json:"metadata"`
	Sources  map[string]json.RawMessage `json:"sources"`
	Layers   []json.RawMessage          `json:"layers"`
}

// Parse reads and parses a whole style document
func Parse(reader io.Reader) (*Style, errorsx.Error) {
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return ParseBytes(data)
}

// ParseBytes parses a style document. A document with any invalid part fails as a whole,
// with a *ParseError naming the offending field.
func ParseBytes(data []byte) (*Style, errorsx.Error) {
	style, parseErr := parseStyle(data)
	if parseErr != nil {
		return nil, parseErr
	}

	return style, nil
}

func parseStyle(data []byte) (*Style, *ParseError) {
	var doc styleJSON
	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, newParseError("", "invalid style document: %s", err.Error())
	}

	if doc.Version == nil {
		return nil, newParseError("version", "missing required field")
	}
	if *doc.Version != SupportedVersion {
		return nil, newParseError("version", "unsupported version %d (only version %d is supported)", *doc.Version, SupportedVersion)
	}

	if doc.Center != nil && len(doc.Center) != 2 {
		return nil, newParseError("center", "expected [longitude, latitude] but got %d numbers", len(doc.Center))
	}

	style := &Style{
		id:         doc.Name,
		version:    *doc.Version,
		name:       doc.Name,
		center:     doc.Center,
		zoom:       doc.Zoom,
		bearing:    doc.Bearing,
		pitch:      doc.Pitch,
		sprite:     doc.Sprite,
		glyphs:     doc.Glyphs,
		metadata:   doc.Metadata,
		sources:    make(map[string]*Source),
		layersByID: make(map[string]LayerHolder),
	}

	// decode sources in a deterministic order, so the same document always gives the same error
	var sourceIDs []string
	for sourceID := range doc.Sources {
		sourceIDs = append(sourceIDs, sourceID)
	}
	sort.Strings(sourceIDs)

	for _, sourceID := range sourceIDs {
		source, parseErr := decodeSource(doc.Sources[sourceID], joinPath("sources", sourceID))
		if parseErr != nil {
			return nil, parseErr
		}
		style.sources[sourceID] = source
	}

	for i, rawLayer := range doc.Layers {
		path := indexPath("layers", i)

		layer, parseErr := decodeLayer(rawLayer, path)
		if parseErr != nil {
			return nil, parseErr
		}

		common := layer.Common()
		if _, ok := style.layersByID[common.ID]; ok {
			return nil, newParseError(joinPath(path, "id"), "duplicate layer id: %q", common.ID)
		}

		if common.Source != "" {
			if _, ok := style.sources[common.Source]; !ok {
				return nil, newParseError(joinPath(path, "source"), "source %q is not defined in \"sources\"", common.Source)
			}
		}

		style.layers = append(style.layers, layer)
		style.layersByID[common.ID] = layer
	}

	return style, nil
}

// WithID returns a copy of the style identified by id instead of its name
func (s *Style) WithID(id string) *Style {
	styleCopy := *s
	styleCopy.id = id
	return &styleCopy
}

func (s *Style) GetStyleID() string {
	return s.id
}

func (s *Style) Version() int {
	return s.version
}

func (s *Style) Name() string {
	return s.name
}

// Center is [longitude, latitude], or nil if the document doesn't set one
func (s *Style) Center() []float64 {
	return s.center
}

func (s *Style) Zoom() (float64, bool) {
	return derefFloat(s.zoom)
}

func (s *Style) Bearing() (float64, bool) {
	return derefFloat(s.bearing)
}

func (s *Style) Pitch() (float64, bool) {
	return derefFloat(s.pitch)
}

func (s *Style) Sprite() string {
	return s.sprite
}

func (s *Style) Glyphs() string {
	return s.glyphs
}

func (s *Style) Metadata() json.RawMessage {
	return s.metadata
}

// Sources returns the style's sources, keyed by source id. The map must not be modified.
func (s *Style) Sources() map[string]*Source {
	return s.sources
}

func (s *Style) SourceByID(id string) (*Source, bool) {
	source, ok := s.sources[id]
	return source, ok
}

// Layers returns the layers in render order, bottom first. The slice must not be modified.
func (s *Style) Layers() []LayerHolder {
	return s.layers
}

func (s *Style) LayerByID(id string) (LayerHolder, bool) {
	layer, ok := s.layersByID[id]
	return layer, ok
}

// SourceLayers lists the distinct source layers the style draws from, in the order they're first used
func (s *Style) SourceLayers() []string {
	var sourceLayers []string
	seen := make(map[string]bool)
	for _, layer := range s.layers {
		sourceLayer := layer.Common().SourceLayer
		if sourceLayer == "" || seen[sourceLayer] {
			continue
		}
		seen[sourceLayer] = true
		sourceLayers = append(sourceLayers, sourceLayer)
	}
	return sourceLayers
}

// GetBackground is the color of the topmost visible background layer at zoom, or transparent if there isn't one
func (s *Style) GetBackground(zoom float64) Color {
	background := ColorTransparent
	for _, layer := range s.layers {
		if layer.Type() != LayerTypeBackground {
			continue
		}

		resolved, ok := Resolve(layer, zoom, nil)
		if !ok || resolved.Background == nil {
			continue
		}
		background = resolved.Background.Color
		background.A *= resolved.Background.Opacity
	}
	return background
}

// ResolveFeature resolves every layer that draws the feature from sourceLayer, in render order
func (s *Style) ResolveFeature(zoom float64, sourceLayer string, feature FeatureContext) []*ResolvedLayer {
	var resolvedLayers []*ResolvedLayer
	for _, layer := range s.layers {
		if layer.Common().SourceLayer != sourceLayer {
			continue
		}

		resolved, ok := Resolve(layer, zoom, feature)
		if !ok {
			continue
		}

		resolvedLayers = append(resolvedLayers, resolved)
	}
	return resolvedLayers
}

func derefFloat(f *float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	return *f, true
}
