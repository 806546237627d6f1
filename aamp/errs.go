package aamp

import "errors"

var (
	ErrUnexpectedEOF = errors.New("aamp: unexpected end of data")
	ErrBadMagic      = errors.New("aamp: bad magic")
	ErrTypeMismatch  = errors.New("aamp: type mismatch")
	ErrMissingKey    = errors.New("aamp: missing key")
)
