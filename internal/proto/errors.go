package proto

import (
	"errors"
)

var (
	ErrReadTimeout       = errors.New("read timeout")
	ErrInvalidEndMarker  = errors.New("invalid end marker")
	ErrInvalidFrameCount = errors.New("invalid frame count")
	ErrUnknownMarker     = errors.New("unknown start marker")
)
