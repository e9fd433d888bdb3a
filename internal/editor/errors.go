package editor

import "errors"

var (
	ErrNoCheckbox = errors.New("no checkbox selected")
	ErrNoCategory = errors.New("no category selected")
	ErrNoFile     = errors.New("no image loaded")
)
