package engine

import "errors"

var (
	ErrInactive = errors.New("engine: mode is not active")
	ErrClosed   = errors.New("engine: closed")
)
