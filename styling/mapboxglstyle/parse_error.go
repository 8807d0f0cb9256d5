package mapboxglstyle

import (
	"fmt"
	"runtime/debug"

	"github.com/jamesrr39/goutil/errorsx"
)

// ParseError is returned when a style document (or a fragment of it) doesn't satisfy the schema.
// Path is the JSON path of the offending field, e.g. "layers[2].paint.fill-color".
type ParseError struct {
	Path    string
	Message string
	stack   []byte
}

var _ errorsx.Error = &ParseError{}

func newParseError(path, message string, args ...interface{}) *ParseError {
	return &ParseError{
		Path:    path,
		Message: fmt.Sprintf(message, args...),
		stack:   debug.Stack(),
	}
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Stack() []byte {
	return e.stack
}

// IsParseError reports whether err is (or wraps) a *ParseError
func IsParseError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := errorsx.Cause(err).(*ParseError)
	return ok
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func indexPath(base string, index int) string {
	return fmt.Sprintf("%s[%d]", base, index)
}
