package operators

import (
	"errors"
	"fmt"
)

// Common errors. Layout failures surface as the layout package's sentinels
// (ErrShapeMismatch, ErrConversion, ErrMalformedDescriptor).
var (
	ErrConfiguration = errors.New("invalid operator configuration")
	ErrInvalidInput  = errors.New("invalid operator input")
	ErrUnsupportedOp = errors.New("unsupported operator")
)

// OpError reports a failed operator invocation.
type OpError struct {
	OpType string // Operator type
	Node   string // Node name, may be empty
	Err    error  // Underlying failure
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s %q: %v", e.OpType, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.OpType, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}
