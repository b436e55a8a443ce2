package operators

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/quant"
	"github.com/born-ml/born/internal/tensor"
)

// Operator types handled by this file.
const (
	OpDequantize      = "Dequantize"
	OpAccelDequantize = "_AccelDequantize"
)

// Attribute names and defaults.
const (
	AttrT      = "T"
	AttrMode   = "mode"
	AttrKernel = "_kernel"

	DefaultT    = "quint8"
	DefaultMode = "SCALED"
)

// Input counts of the two entry points. The interop entry point carries one
// layout companion per data input, in the same order as the data inputs.
const (
	nativeInputs  = 3
	interopInputs = 6
)

func (r *Registry) registerQuantOps() {
	r.Register(OpDequantize, handleDequantize)
	r.Register(OpAccelDequantize, handleDequantize)
}

// DequantizeOp is a configured dequantize operator. Attributes are parsed
// once by NewDequantizeOp; Run may then be called any number of times.
type DequantizeOp struct {
	name    string
	interop bool
	dtype   tensor.DataType
	mode    quant.Mode
	kernel  string
}

// NewDequantizeOp parses the node attributes. Unsupported modes and element
// types fail with ErrConfiguration.
func NewDequantizeOp(node *Node) (*DequantizeOp, error) {
	op := &DequantizeOp{name: node.Name}

	switch node.OpType {
	case OpDequantize:
	case OpAccelDequantize:
		op.interop = true
	default:
		return nil, fmt.Errorf("%w: %s is not a dequantize operator", ErrConfiguration, node.OpType)
	}

	mode, err := quant.ParseMode(GetAttrString(node, AttrMode, DefaultMode))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	op.mode = mode

	t := GetAttrString(node, AttrT, DefaultT)
	dtype, err := tensor.ParseDataType(t)
	if err != nil {
		return nil, fmt.Errorf("%w: attribute T: %w", ErrConfiguration, err)
	}
	if dtype != tensor.Uint8 {
		return nil, fmt.Errorf("%w: attribute T is %s, only quint8 is supported", ErrConfiguration, t)
	}
	op.dtype = dtype
	op.kernel = GetAttrString(node, AttrKernel, "")

	return op, nil
}

// Interop reports whether the operator uses the companion-carrying signature.
func (op *DequantizeOp) Interop() bool {
	return op.interop
}

// Apply dequantizes x using scale max_range / 255.
//
// Standard input yields a standard float32 tensor of the same shape.
// Accelerated input is dequantized in place of its physical order, since the
// transform is element-wise, and the result keeps the input's descriptor with
// the element type switched to float32.
func (op *DequantizeOp) Apply(ctx *Context, x layout.Tensor, minRange, maxRange float32) (layout.Tensor, error) {
	if err := x.Validate(); err != nil {
		return layout.Tensor{}, err
	}
	if x.Data.DType() != op.dtype {
		return layout.Tensor{}, fmt.Errorf("%w: input is %s, attribute T is %s",
			ErrConfiguration, x.Data.DType(), op.dtype)
	}

	scale := quant.ComputeScale(maxRange, quant.Uint8Bits)

	log := ctx.logger()
	if ce := log.Check(zap.DebugLevel, "dequantize"); ce != nil {
		path := "standard"
		if x.IsAccelerated() {
			path = "accelerated"
		}
		ce.Write(
			zap.String("node", op.name),
			zap.String("path", path),
			zap.String("mode", op.mode.String()),
			zap.String("kernel", op.kernel),
			zap.Float32("min_range", minRange),
			zap.Float32("max_range", maxRange),
			zap.Float32("scale", scale),
			zap.Int("elements", x.Data.NumElements()),
		)
	}

	out, err := quant.DequantizeTensor(x.Data, scale)
	if err != nil {
		return layout.Tensor{}, err
	}
	if !x.IsAccelerated() {
		return layout.Standard(out), nil
	}
	return layout.Accelerated(out, x.Desc.WithDType(tensor.Float32))
}

// Run executes the operator on positional inputs and returns positional
// outputs: [data] for Dequantize, [data, companion] for _AccelDequantize.
func (op *DequantizeOp) Run(ctx *Context, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	want := nativeInputs
	if op.interop {
		want = interopInputs
	}
	if err := expectInputs(inputs, want); err != nil {
		return nil, err
	}

	minRange, err := rangeScalar(inputs[1], "min_range")
	if err != nil {
		return nil, err
	}
	maxRange, err := rangeScalar(inputs[2], "max_range")
	if err != nil {
		return nil, err
	}

	x := layout.Standard(inputs[0])
	if op.interop {
		// Only the data companion matters; the range scalars are never accelerated.
		x, err = layout.FromCompanion(inputs[0], inputs[3])
		if err != nil {
			return nil, err
		}
	}

	y, err := op.Apply(ctx, x, minRange, maxRange)
	if err != nil {
		return nil, err
	}
	if !op.interop {
		return []*tensor.RawTensor{y.Data}, nil
	}

	companion, err := y.Companion()
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{y.Data, companion}, nil
}

func handleDequantize(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	op, err := NewDequantizeOp(node)
	if err != nil {
		return nil, err
	}
	return op.Run(ctx, inputs)
}

// rangeScalar reads a single-element float32 tensor.
func rangeScalar(t *tensor.RawTensor, name string) (float32, error) {
	if t.DType() != tensor.Float32 {
		return 0, fmt.Errorf("%w: %s must be float32, got %s", ErrInvalidInput, name, t.DType())
	}
	if t.NumElements() != 1 {
		return 0, fmt.Errorf("%w: %s must hold one element, got shape %v", ErrInvalidInput, name, t.Shape())
	}
	return t.AsFloat32()[0], nil
}
