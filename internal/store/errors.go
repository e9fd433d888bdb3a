package store

import (
	"errors"
	"fmt"
)

// Persistence failure kinds. Use errors.Is against these.
var (
	ErrWriteFailure          = errors.New("write failure")
	ErrReadFailure           = errors.New("read failure")
	ErrHeaderInvalid         = errors.New("invalid header")
	ErrUnexpectedTermination = errors.New("terminated prematurely")
	ErrTrailingData          = errors.New("trailing data")
	ErrZeroLengthName        = errors.New("zero length name")
)

// Decode/encode phases, reported so the operator can tell where a file broke.
const (
	PhaseHeader     = "header"
	PhaseCategories = "categories"
	PhaseFilenames  = "filenames"
	PhaseFileData   = "file-data"
	PhaseWrite      = "write"
)

// PersistenceError wraps a save/restore failure with its kind and phase.
type PersistenceError struct {
	Kind  error
	Phase string
	Path  string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Phase != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Phase)
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func persistErr(kind error, phase string, err error) error {
	return &PersistenceError{Kind: kind, Phase: phase, Err: err}
}

// withPath annotates a PersistenceError with the file it concerns.
func withPath(err error, path string) error {
	var pe *PersistenceError
	if errors.As(err, &pe) && pe.Path == "" {
		cp := *pe
		cp.Path = path
		return &cp
	}
	return err
}
