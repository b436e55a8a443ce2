package operators

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/tensor"
)

// OpHandler processes a node and returns output tensors.
type OpHandler func(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// Context provides the collaborators an operator invocation may use.
// The zero value is ready to use.
type Context struct {
	// Transformer performs accelerated to standard re-layout.
	// Nil selects layout.Reference.
	Transformer layout.Transformer
	// Logger receives debug records about dispatch decisions. Nil disables logging.
	Logger *zap.Logger
	// NativeFormat is set when the runtime keeps every tensor in standard
	// layout and no companion buffers exist.
	NativeFormat bool
}

// DequantizeOpType returns the dequantize operator type to instantiate for
// this runtime configuration.
func (c *Context) DequantizeOpType() string {
	if c != nil && c.NativeFormat {
		return OpDequantize
	}
	return OpAccelDequantize
}

func (c *Context) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Context) converter() *layout.Converter {
	if c == nil {
		return layout.NewConverter(nil)
	}
	return layout.NewConverter(c.Transformer)
}

// Registry maps operator types to handler functions.
// It is read-only after construction and safe for concurrent Execute calls.
type Registry struct {
	handlers map[string]OpHandler
}

// NewRegistry creates a new operator registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]OpHandler),
	}

	r.registerQuantOps()
	r.registerLayoutOps()

	return r
}

// Register adds a custom operator handler.
func (r *Registry) Register(opType string, handler OpHandler) {
	r.handlers[opType] = handler
}

// Get returns the handler for an operator type.
func (r *Registry) Get(opType string) (OpHandler, bool) {
	h, ok := r.handlers[opType]
	return h, ok
}

// Execute runs an operator with the given inputs.
// Failures are returned as *OpError wrapping the cause.
func (r *Registry) Execute(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	handler, ok := r.handlers[node.OpType]
	if !ok {
		return nil, &OpError{OpType: node.OpType, Node: node.Name, Err: ErrUnsupportedOp}
	}
	outputs, err := handler(ctx, node, inputs)
	if err != nil {
		return nil, &OpError{OpType: node.OpType, Node: node.Name, Err: err}
	}
	return outputs, nil
}

// SupportedOps returns the registered operator types in sorted order.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func expectInputs(inputs []*tensor.RawTensor, n int) error {
	if len(inputs) != n {
		return fmt.Errorf("%w: want %d inputs, got %d", ErrInvalidInput, n, len(inputs))
	}
	for i, in := range inputs {
		if in == nil {
			return fmt.Errorf("%w: input %d is nil", ErrInvalidInput, i)
		}
	}
	return nil
}
