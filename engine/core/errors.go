package core

import (
	"errors"
)

var (
	ErrNotInitialized = errors.New("not initialized")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrUnknown        = errors.New("unknown")
)
