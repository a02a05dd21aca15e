// Package apperr defines sentinel errors shared across the notebook layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	ErrInvalidNote     = errors.New("invalid note")
)
