package quant

import "errors"

// Common errors.
var (
	ErrUnsupportedMode = errors.New("unsupported quantization mode")
	ErrLengthMismatch  = errors.New("buffer length mismatch")
	ErrInvalidBitWidth = errors.New("invalid bit width")
)
