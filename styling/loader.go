package styling

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/ristretto"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/styling/mapboxglstyle"
)

// StyleFileName is the name of the style document inside each style directory
const StyleFileName = "style.json"

// Loader reads style documents from a filesystem.
// Parsed styles are cached by path, size and modification time, so re-reading an unchanged styles directory doesn't re-parse anything.
type Loader struct {
	logger *logpkg.Logger
	fs     gofs.Fs
	cache  *ristretto.Cache
}

// NewLoader creates a loader. maxCacheBytes bounds the total size of the style documents whose parsed form is kept.
func NewLoader(logger *logpkg.Logger, fs gofs.Fs, maxCacheBytes int64) (*Loader, errorsx.Error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     maxCacheBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &Loader{logger, fs, cache}, nil
}

func cacheKey(path string, fileInfo os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, fileInfo.Size(), fileInfo.ModTime().UnixNano())
}

// LoadFile parses the style document at path.
// The style's ID is its name. If it has no name, the name of the directory it lives in is used instead.
func (l *Loader) LoadFile(path string) (*mapboxglstyle.Style, errorsx.Error) {
	fileInfo, err := l.fs.Stat(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	key := cacheKey(path, fileInfo)
	cached, ok := l.cache.Get(key)
	if ok {
		l.logger.Debug("style cache hit for %q", path)
		return cached.(*mapboxglstyle.Style), nil
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	style, err := mapboxglstyle.ParseBytes(data)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	if style.GetStyleID() == "" {
		style = style.WithID(filepath.Base(filepath.Dir(path)))
	}

	l.cache.Set(key, style, fileInfo.Size())

	return style, nil
}

// LoadDir loads every "<dir>/<style dir>/style.json".
// Styles that fail to load are logged and skipped, so one broken document doesn't take the others down.
func (l *Loader) LoadDir(dir string) ([]*mapboxglstyle.Style, errorsx.Error) {
	fileInfos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, errorsx.Wrap(err, "dir", dir)
	}

	var styles []*mapboxglstyle.Style
	for _, fileInfo := range fileInfos {
		if !fileInfo.IsDir() {
			continue
		}

		stylePath := filepath.Join(dir, fileInfo.Name(), StyleFileName)
		style, err := l.LoadFile(stylePath)
		if err != nil {
			l.logger.Error("error loading style from %q. Error: %q\nStack: %s", stylePath, err.Error(), err.Stack())
			continue
		}

		styles = append(styles, style)
	}

	sort.Slice(styles, func(a, b int) bool {
		return styles[a].GetStyleID() < styles[b].GetStyleID()
	})

	return styles, nil
}

// LoadStyleSet loads the styles in dir alongside the built-in style
func (l *Loader) LoadStyleSet(dir, defaultStyleID string) (*StyleSet, errorsx.Error) {
	builtinStyle, err := BuiltinStyle()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	styles, err := l.LoadDir(dir)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	styleSet, err := NewStyleSet(append([]*mapboxglstyle.Style{builtinStyle}, styles...), defaultStyleID)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return styleSet, nil
}

// WaitForCache blocks until cache writes have been applied
func (l *Loader) WaitForCache() {
	l.cache.Wait()
}

func (l *Loader) Close() {
	l.cache.Close()
}
