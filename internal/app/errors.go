package app

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrDragActive = errors.New("drag session already active")
)
