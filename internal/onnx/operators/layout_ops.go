package operators

import (
	"fmt"

	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/tensor"
)

// OpAccelToStandard converts a (data, companion) pair into a row-major tensor.
const OpAccelToStandard = "_AccelToStandard"

func (r *Registry) registerLayoutOps() {
	r.Register(OpAccelToStandard, handleAccelToStandard)
}

func handleAccelToStandard(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := expectInputs(inputs, 2); err != nil {
		return nil, err
	}
	if HasAttr(node, AttrT) {
		dtype, err := tensor.ParseDataType(GetAttrString(node, AttrT, ""))
		if err != nil {
			return nil, fmt.Errorf("%w: attribute T: %w", ErrConfiguration, err)
		}
		if dtype != inputs[0].DType() {
			return nil, fmt.Errorf("%w: input is %s, attribute T is %s", ErrConfiguration, inputs[0].DType(), dtype)
		}
	}

	x, err := layout.FromCompanion(inputs[0], inputs[1])
	if err != nil {
		return nil, err
	}
	out, err := ctx.converter().ToStandard(x)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{out}, nil
}
