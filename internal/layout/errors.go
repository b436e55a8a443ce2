package layout

import "errors"

// Common errors.
var (
	ErrMalformedDescriptor = errors.New("malformed layout descriptor")
	ErrInvalidDescriptor   = errors.New("invalid layout descriptor")
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrDTypeMismatch       = errors.New("data type mismatch")
	ErrConversion          = errors.New("layout conversion failed")
	ErrUnsupportedFormat   = errors.New("unsupported layout format")
)
