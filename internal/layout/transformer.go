package layout

import (
	"fmt"
)

// Transformer converts accelerated buffers into standard row-major buffers.
// Implementations wrap an acceleration library's reorder primitive.
//
// ToStandard receives the accelerated bytes and their descriptor and must
// return desc.ByteSize() bytes holding the same elements in row-major order
// of desc.Shape. The source slice must not be modified.
type Transformer interface {
	ToStandard(src []byte, desc *Descriptor) ([]byte, error)
}

// ReverseTransformer can also produce accelerated buffers from standard ones.
type ReverseTransformer interface {
	Transformer
	FromStandard(src []byte, desc *Descriptor) ([]byte, error)
}

// Reference is a software Transformer for accelerated layouts that are pure
// dimension reorderings (for example NCHW storage of an NHWC tensor).
type Reference struct{}

var _ ReverseTransformer = Reference{}

// ToStandard reorders src from desc.Physical order into desc.Format order.
func (Reference) ToStandard(src []byte, desc *Descriptor) ([]byte, error) {
	physShape, err := desc.PhysicalShape()
	if err != nil {
		return nil, err
	}
	axes, err := axesBetween(desc.Physical, desc.Format, len(desc.Shape))
	if err != nil {
		return nil, err
	}
	return permuteBytes(src, physShape, axes, desc.DType.Size())
}

// FromStandard reorders src from desc.Format order into desc.Physical order.
func (Reference) FromStandard(src []byte, desc *Descriptor) ([]byte, error) {
	axes, err := axesBetween(desc.Format, desc.Physical, len(desc.Shape))
	if err != nil {
		return nil, err
	}
	return permuteBytes(src, desc.Shape, axes, desc.DType.Size())
}

// permuteBytes transposes a row-major tensor of the given shape so that result
// dim i is source dim axes[i]. Elements are copied as opaque elemSize-byte units.
func permuteBytes(src []byte, shape []int, axes []int, elemSize int) ([]byte, error) {
	ndim := len(shape)
	n := 1
	for _, d := range shape {
		n *= d
	}
	if len(src) != n*elemSize {
		return nil, fmt.Errorf("%w: buffer has %d bytes, shape %v needs %d",
			ErrShapeMismatch, len(src), shape, n*elemSize)
	}

	dst := make([]byte, len(src))
	if n == 0 {
		return dst, nil
	}

	// Source stride of each destination dim, so walking the destination in
	// row-major order gathers from the source.
	srcStrides := make([]int, ndim)
	if ndim > 0 {
		srcStrides[ndim-1] = 1
		for i := ndim - 2; i >= 0; i-- {
			srcStrides[i] = srcStrides[i+1] * shape[i+1]
		}
	}
	dstShape := make([]int, ndim)
	gather := make([]int, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
		gather[i] = srcStrides[ax]
	}

	coords := make([]int, ndim)
	srcIdx := 0
	for dstIdx := 0; dstIdx < n; dstIdx++ {
		copy(dst[dstIdx*elemSize:(dstIdx+1)*elemSize], src[srcIdx*elemSize:(srcIdx+1)*elemSize])

		// Advance the destination coordinate like an odometer.
		for dim := ndim - 1; dim >= 0; dim-- {
			coords[dim]++
			srcIdx += gather[dim]
			if coords[dim] < dstShape[dim] {
				break
			}
			srcIdx -= gather[dim] * coords[dim]
			coords[dim] = 0
		}
	}
	return dst, nil
}
