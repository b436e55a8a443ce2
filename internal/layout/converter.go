package layout

import (
	"fmt"

	"github.com/born-ml/born/internal/tensor"
)

// Converter turns layout Tensors into standard tensors through a Transformer.
type Converter struct {
	transformer Transformer
}

// NewConverter creates a Converter. A nil transformer selects Reference.
func NewConverter(tr Transformer) *Converter {
	if tr == nil {
		tr = Reference{}
	}
	return &Converter{transformer: tr}
}

// ToStandard returns a row-major tensor with the logical shape of t.
//
// Standard input is returned as is. Accelerated input is validated against its
// descriptor, handed to the Transformer and copied into a fresh tensor.
// Transformer failures are wrapped with ErrConversion and keep their cause.
func (c *Converter) ToStandard(t Tensor) (*tensor.RawTensor, error) {
	if !t.IsAccelerated() {
		if t.Data == nil {
			return nil, fmt.Errorf("%w: nil data", ErrShapeMismatch)
		}
		return t.Data, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	desc := t.Desc
	out, err := c.transformer.ToStandard(t.Data.Data()[:t.Data.ByteSize()], desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	if len(out) != desc.ByteSize() {
		return nil, fmt.Errorf("%w: transformer returned %d bytes, want %d for %v",
			ErrShapeMismatch, len(out), desc.ByteSize(), desc.Shape)
	}

	result, err := tensor.FromBytes(out, desc.Shape, desc.DType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return result, nil
}

// FromStandard lays out a row-major tensor according to desc, which must be
// accelerated and match data's element type and shape. The Converter's
// Transformer must implement ReverseTransformer.
func (c *Converter) FromStandard(data *tensor.RawTensor, desc *Descriptor) (Tensor, error) {
	rev, ok := c.transformer.(ReverseTransformer)
	if !ok {
		return Tensor{}, fmt.Errorf("%w: %T cannot produce accelerated layouts", ErrUnsupportedFormat, c.transformer)
	}
	if !desc.IsAccelerated() {
		return Tensor{}, fmt.Errorf("%w: target descriptor is not accelerated", ErrInvalidDescriptor)
	}
	if err := desc.Validate(); err != nil {
		return Tensor{}, err
	}
	if data.DType() != desc.DType {
		return Tensor{}, fmt.Errorf("%w: data is %s, descriptor says %s", ErrDTypeMismatch, data.DType(), desc.DType)
	}
	if !data.Shape().Equal(desc.Shape) {
		return Tensor{}, fmt.Errorf("%w: data shape %v, descriptor shape %v", ErrShapeMismatch, data.Shape(), desc.Shape)
	}

	out, err := rev.FromStandard(data.Data()[:data.ByteSize()], desc)
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	physShape, err := desc.PhysicalShape()
	if err != nil {
		return Tensor{}, err
	}
	phys, err := tensor.FromBytes(out, physShape, desc.DType)
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return Accelerated(phys, desc.Clone())
}
