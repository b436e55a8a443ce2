package layout

import (
	"fmt"

	"github.com/born-ml/born/internal/tensor"
)

// Tensor pairs a data buffer with the descriptor that explains its layout.
// A nil Desc means the data is standard row-major in its own shape.
type Tensor struct {
	Data *tensor.RawTensor
	Desc *Descriptor
}

// Standard wraps a row-major tensor.
func Standard(data *tensor.RawTensor) Tensor {
	return Tensor{Data: data}
}

// Accelerated pairs an accelerated buffer with its descriptor after checking
// that the two agree on element type and element count.
func Accelerated(data *tensor.RawTensor, desc *Descriptor) (Tensor, error) {
	t := Tensor{Data: data, Desc: desc}
	if err := t.Validate(); err != nil {
		return Tensor{}, err
	}
	return t, nil
}

// IsAccelerated reports whether the data is stored in accelerated layout.
func (t Tensor) IsAccelerated() bool {
	return t.Desc.IsAccelerated()
}

// Shape returns the logical shape of the tensor.
func (t Tensor) Shape() tensor.Shape {
	if t.Desc != nil {
		return t.Desc.Shape
	}
	return t.Data.Shape()
}

// Descriptor returns the descriptor, synthesizing a standard one when none
// is attached.
func (t Tensor) Descriptor() *Descriptor {
	if t.Desc != nil {
		return t.Desc
	}
	return NewStandard(t.Data.DType(), t.Data.Shape())
}

// Validate checks that the descriptor matches the data buffer.
func (t Tensor) Validate() error {
	if t.Data == nil {
		return fmt.Errorf("%w: nil data", ErrShapeMismatch)
	}
	if t.Desc == nil {
		return nil
	}
	if err := t.Desc.Validate(); err != nil {
		return err
	}
	if t.Data.DType() != t.Desc.DType {
		return fmt.Errorf("%w: data is %s, descriptor says %s", ErrDTypeMismatch, t.Data.DType(), t.Desc.DType)
	}
	if t.Data.NumElements() != t.Desc.NumElements() {
		return fmt.Errorf("%w: data has %d elements %v, descriptor shape %v has %d",
			ErrShapeMismatch, t.Data.NumElements(), t.Data.Shape(), t.Desc.Shape, t.Desc.NumElements())
	}
	return nil
}

// Companion serializes the descriptor into a uint8 tensor suitable for the
// companion input/output slot next to Data.
func (t Tensor) Companion() (*tensor.RawTensor, error) {
	buf, err := t.Descriptor().MarshalBinary()
	if err != nil {
		return nil, err
	}
	return tensor.FromBytes(buf, tensor.Shape{len(buf)}, tensor.Uint8)
}

// FromCompanion rebuilds a Tensor from a data tensor and its companion buffer.
// A nil or placeholder companion yields a standard tensor.
func FromCompanion(data, companion *tensor.RawTensor) (Tensor, error) {
	if companion == nil {
		return Standard(data), nil
	}
	if companion.DType() != tensor.Uint8 {
		return Tensor{}, fmt.Errorf("%w: companion dtype is %s, want uint8", ErrMalformedDescriptor, companion.DType())
	}
	desc, err := Decode(companion.AsUint8()[:companion.NumElements()])
	if err != nil {
		return Tensor{}, err
	}
	if desc == nil {
		return Standard(data), nil
	}
	if desc.Kind == KindStandard {
		if err := (Tensor{Data: data, Desc: desc}).Validate(); err != nil {
			return Tensor{}, err
		}
		return Standard(data), nil
	}
	return Accelerated(data, desc)
}
