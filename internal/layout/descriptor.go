package layout

import (
	"fmt"
	"math"

	"github.com/born-ml/born/internal/tensor"
)

// Kind tags a buffer as standard or accelerated layout.
type Kind uint8

// Layout kinds. The numeric values are part of the descriptor wire format.
const (
	KindStandard Kind = iota
	KindAccelerated
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindAccelerated:
		return "accelerated"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MaxRank is the largest number of dimensions a descriptor may record.
const MaxRank = 8

// Descriptor records how a buffer holding one logical tensor is laid out.
type Descriptor struct {
	Kind     Kind            // Standard or accelerated
	DType    tensor.DataType // Element type of the described buffer
	Shape    tensor.Shape    // Logical shape, in Format order
	Format   Format          // Logical dimension order
	Physical Format          // Dimension order of the accelerated buffer
}

// NewStandard returns a descriptor for a row-major buffer.
func NewStandard(dtype tensor.DataType, shape tensor.Shape) *Descriptor {
	return &Descriptor{
		Kind:  KindStandard,
		DType: dtype,
		Shape: shape.Clone(),
	}
}

// NewAccelerated returns a descriptor for an accelerated buffer whose logical
// shape is given in format order and whose elements are stored in physical order.
func NewAccelerated(dtype tensor.DataType, shape tensor.Shape, format, physical Format) (*Descriptor, error) {
	d := &Descriptor{
		Kind:     KindAccelerated,
		DType:    dtype,
		Shape:    shape.Clone(),
		Format:   format,
		Physical: physical,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// IsAccelerated reports whether d describes an accelerated buffer.
// A nil descriptor is standard.
func (d *Descriptor) IsAccelerated() bool {
	return d != nil && d.Kind == KindAccelerated
}

// NumElements returns the element count of the logical shape.
func (d *Descriptor) NumElements() int {
	return d.Shape.NumElements()
}

// ByteSize returns the size in bytes of a buffer holding the described tensor.
func (d *Descriptor) ByteSize() int {
	return d.NumElements() * d.DType.Size()
}

// PhysicalShape returns the logical shape reordered into physical order.
func (d *Descriptor) PhysicalShape() (tensor.Shape, error) {
	if !d.IsAccelerated() {
		return d.Shape.Clone(), nil
	}
	axes, err := axesBetween(d.Format, d.Physical, len(d.Shape))
	if err != nil {
		return nil, err
	}
	return d.Shape.Permute(axes)
}

// WithDType returns a copy of d describing elements of type dtype.
// It is used when an element-wise kernel changes the element type but keeps
// the physical arrangement.
func (d *Descriptor) WithDType(dtype tensor.DataType) *Descriptor {
	c := d.Clone()
	c.DType = dtype
	return c
}

// Clone returns a deep copy of d.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Shape = d.Shape.Clone()
	return &c
}

// Equal reports whether two descriptors describe the same layout.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Kind == other.Kind &&
		d.DType == other.DType &&
		d.Format == other.Format &&
		d.Physical == other.Physical &&
		d.Shape.Equal(other.Shape)
}

// Validate checks the descriptor for internal consistency.
func (d *Descriptor) Validate() error {
	switch d.Kind {
	case KindStandard, KindAccelerated:
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidDescriptor, d.Kind)
	}
	if !d.DType.Valid() {
		return fmt.Errorf("%w: unknown dtype %d", ErrInvalidDescriptor, d.DType)
	}
	if !d.Format.Valid() || !d.Physical.Valid() {
		return fmt.Errorf("%w: unknown format %d/%d", ErrInvalidDescriptor, d.Format, d.Physical)
	}
	if len(d.Shape) > MaxRank {
		return fmt.Errorf("%w: rank %d exceeds %d", ErrInvalidDescriptor, len(d.Shape), MaxRank)
	}
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if !sizeFits(d.Shape, d.DType.Size()) {
		return fmt.Errorf("%w: shape %v of %s overflows the addressable size", ErrInvalidDescriptor, d.Shape, d.DType)
	}
	if r := d.Format.Rank(); r != 0 && r != len(d.Shape) {
		return fmt.Errorf("%w: format %s needs rank %d, shape %v has rank %d",
			ErrInvalidDescriptor, d.Format, r, d.Shape, len(d.Shape))
	}

	if d.Kind == KindStandard {
		if d.Physical != FormatDefault {
			return fmt.Errorf("%w: standard layout with physical order %s", ErrInvalidDescriptor, d.Physical)
		}
		return nil
	}

	if d.Physical == FormatDefault {
		return fmt.Errorf("%w: accelerated layout needs a physical order", ErrInvalidDescriptor)
	}
	if _, err := axesBetween(d.Format, d.Physical, len(d.Shape)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return nil
}

// String returns a compact human-readable form, e.g.
// "accelerated uint8 [1 2 2 2] NHWC<-NCHW".
func (d *Descriptor) String() string {
	if d == nil {
		return "<none>"
	}
	if d.Kind == KindStandard {
		return fmt.Sprintf("%s %s %v %s", d.Kind, d.DType, []int(d.Shape), d.Format)
	}
	return fmt.Sprintf("%s %s %v %s<-%s", d.Kind, d.DType, []int(d.Shape), d.Format, d.Physical)
}

// sizeFits reports whether a buffer of shape with elemSize-byte elements has a
// byte size representable as int.
func sizeFits(shape tensor.Shape, elemSize int) bool {
	for _, dim := range shape {
		if dim == 0 {
			return true
		}
	}
	limit := math.MaxInt / elemSize
	n := 1
	for _, dim := range shape {
		if n > limit/dim {
			return false
		}
		n *= dim
	}
	return true
}
