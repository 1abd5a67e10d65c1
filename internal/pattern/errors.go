package pattern

import "errors"

var (
	// ErrUnknownMode indicates a mode name or value outside the five modes.
	ErrUnknownMode = errors.New("pattern: unknown mode")

	// ErrEmptyCanvas indicates a canvas with a non-positive dimension.
	ErrEmptyCanvas = errors.New("pattern: canvas size must be positive")
)
