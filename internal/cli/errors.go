package cli

import (
	"fmt"
	"strings"
)

// UsageError reports a problem with how imgctool was invoked: no images, or a
// viewer that cannot be found.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

func usageErr(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// PathError is one unreadable path.
type PathError struct {
	Path string
	Err  error
}

// FileAccessError lists every image path that could not be read.
type FileAccessError struct {
	Paths []PathError
}

func (e *FileAccessError) Error() string {
	lines := make([]string, 0, len(e.Paths))
	for _, p := range e.Paths {
		lines = append(lines, fmt.Sprintf("%s: cannot read file: %v", p.Path, p.Err))
	}
	return strings.Join(lines, "\n")
}

func (e *FileAccessError) Unwrap() []error {
	out := make([]error, 0, len(e.Paths))
	for _, p := range e.Paths {
		out = append(out, p.Err)
	}
	return out
}
