package styling

import (
	"sync"
	"sync/atomic"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
)

// Registry holds the style set currently being served.
// Readers get a consistent snapshot of the set without locking; a replacement is built on the side and published with a single store.
type Registry struct {
	logger  *logpkg.Logger
	current atomic.Value // *StyleSet

	writeMu sync.Mutex
}

func NewRegistry(logger *logpkg.Logger, styleSet *StyleSet) *Registry {
	registry := &Registry{logger: logger}
	registry.current.Store(styleSet)
	return registry
}

// StyleSet returns the current set. Callers should hold on to the returned set for the duration of a request,
// so that every lookup in that request sees the same styles.
func (r *Registry) StyleSet() *StyleSet {
	return r.current.Load().(*StyleSet)
}

// ReplaceStyle parses a style document and publishes it under styleID, adding it if no style has that ID yet.
// On a parse error the current set is left as it was.
func (r *Registry) ReplaceStyle(styleID string, styleDocument []byte) (*mapboxglstyle.Style, errorsx.Error) {
	if styleID == "" {
		return nil, errorsx.Errorf("no style ID given")
	}

	style, err := mapboxglstyle.ParseBytes(styleDocument)
	if err != nil {
		return nil, errorsx.Wrap(err, "styleID", styleID)
	}

	style = style.WithID(styleID)

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.current.Store(r.StyleSet().withStyle(style))
	r.logger.Info("replaced style %q (%d layers)", styleID, len(style.Layers()))

	return style, nil
}

// ReplaceStyleSet publishes a whole new set, for example after re-reading the styles directory
func (r *Registry) ReplaceStyleSet(styleSet *StyleSet) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.current.Store(styleSet)
	r.logger.Info("replaced style set (%d styles)", len(styleSet.stylesMap))
}
