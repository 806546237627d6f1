package byml

import "errors"

var (
	ErrUnexpectedEOF = errors.New("byml: unexpected end of data")
	ErrBadMagic      = errors.New("byml: bad magic")
	ErrTypeMismatch  = errors.New("byml: type mismatch")
	ErrMissingKey    = errors.New("byml: missing key")
)
