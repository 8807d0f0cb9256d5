package styling

import (
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
)

const BUILTIN_STYLEID = "__ownmap_builtin"

// StyleSet is an immutable collection of parsed styles, keyed by style ID
type StyleSet struct {
	stylesMap      map[string]*mapboxglstyle.Style // map[Style ID]Style
	defaultStyleID string
}

func NewStyleSet(styles []*mapboxglstyle.Style, defaultStyleID string) (*StyleSet, errorsx.Error) {
	styleSet := &StyleSet{
		stylesMap:      make(map[string]*mapboxglstyle.Style),
		defaultStyleID: defaultStyleID,
	}

	defaultIDFound := false

	for _, style := range styles {
		styleID := style.GetStyleID()
		if styleID == "" {
			return nil, errorsx.Errorf("style without an ID found. Styles need a 'name' or an ID given when loading")
		}

		_, ok := styleSet.stylesMap[styleID]
		if ok {
			return nil, errorsx.Errorf("duplicate style ID found: %q", styleID)
		}

		styleSet.stylesMap[styleID] = style

		if defaultStyleID == styleID {
			defaultIDFound = true
		}
	}

	if !defaultIDFound {
		return nil, errorsx.Errorf("default ID %q not found in any supplied styles", defaultStyleID)
	}

	return styleSet, nil
}

func (s *StyleSet) GetStyleByID(id string) (*mapboxglstyle.Style, bool) {
	style, ok := s.stylesMap[id]
	return style, ok
}

func (s *StyleSet) GetDefaultStyle() *mapboxglstyle.Style {
	return s.stylesMap[s.defaultStyleID]
}

func (s *StyleSet) GetDefaultStyleID() string {
	return s.defaultStyleID
}

// GetAllStyleIDs returns the IDs of all the styles in the set, sorted alphabetically
func (s *StyleSet) GetAllStyleIDs() []string {
	var styleIDs []string

	for id := range s.stylesMap {
		styleIDs = append(styleIDs, id)
	}

	sort.Strings(styleIDs)

	return styleIDs
}

// withStyle returns a copy of the set with style added, or replacing the style with the same ID.
// The receiver is left untouched.
func (s *StyleSet) withStyle(style *mapboxglstyle.Style) *StyleSet {
	stylesMap := make(map[string]*mapboxglstyle.Style, len(s.stylesMap)+1)
	for id, existing := range s.stylesMap {
		stylesMap[id] = existing
	}
	stylesMap[style.GetStyleID()] = style

	return &StyleSet{
		stylesMap:      stylesMap,
		defaultStyleID: s.defaultStyleID,
	}
}
