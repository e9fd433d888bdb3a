package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName     = errors.New("invalid name")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicatePath   = errors.New("duplicate path")
)

// InvalidNameError reports why a category, checkbox or file name was rejected.
type InvalidNameError struct {
	Kind   string // category|checkbox|path
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	if e == nil {
		return ""
	}
	if e.Name == "" {
		return fmt.Sprintf("invalid %s name: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s name %q: %s", e.Kind, e.Name, e.Reason)
}

func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

func outOfRange(what string, i, n int) error {
	return fmt.Errorf("%w: %s %d (have %d)", ErrIndexOutOfRange, what, i, n)
}
