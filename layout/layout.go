// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layout exposes layout descriptors and the standard/accelerated
// conversion boundary.
//
// Example:
//
//	desc, _ := layout.NewAccelerated(tensor.Uint8, tensor.Shape{1, 2, 2, 2}, layout.FormatNHWC, layout.FormatNCHW)
//	acc, _ := layout.NewConverter(nil).FromStandard(raw, desc)
//	back, _ := layout.NewConverter(nil).ToStandard(acc)
package layout

import (
	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/tensor"
)

// Type aliases for public API.
type (
	Kind               = layout.Kind
	Format             = layout.Format
	Descriptor         = layout.Descriptor
	Tensor             = layout.Tensor
	Transformer        = layout.Transformer
	ReverseTransformer = layout.ReverseTransformer
	Reference          = layout.Reference
	Converter          = layout.Converter
)

// Layout kinds.
const (
	KindStandard    Kind = layout.KindStandard
	KindAccelerated Kind = layout.KindAccelerated
)

// Dimension orderings.
const (
	FormatDefault Format = layout.FormatDefault
	FormatNHWC    Format = layout.FormatNHWC
	FormatNCHW    Format = layout.FormatNCHW
	FormatNDHWC   Format = layout.FormatNDHWC
	FormatNCDHW   Format = layout.FormatNCDHW
)

// Errors.
var (
	ErrMalformedDescriptor = layout.ErrMalformedDescriptor
	ErrInvalidDescriptor   = layout.ErrInvalidDescriptor
	ErrShapeMismatch       = layout.ErrShapeMismatch
	ErrDTypeMismatch       = layout.ErrDTypeMismatch
	ErrConversion          = layout.ErrConversion
	ErrUnsupportedFormat   = layout.ErrUnsupportedFormat
)

// NewStandard returns a descriptor for a row-major buffer.
func NewStandard(dtype tensor.DataType, shape tensor.Shape) *Descriptor {
	return layout.NewStandard(dtype, shape)
}

// NewAccelerated returns a validated accelerated descriptor.
func NewAccelerated(dtype tensor.DataType, shape tensor.Shape, format, physical Format) (*Descriptor, error) {
	return layout.NewAccelerated(dtype, shape, format, physical)
}

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) { return layout.ParseFormat(s) }

// Decode decodes a companion buffer; placeholders decode to nil.
func Decode(data []byte) (*Descriptor, error) { return layout.Decode(data) }

// IsPlaceholder reports whether a companion buffer carries no descriptor.
func IsPlaceholder(data []byte) bool { return layout.IsPlaceholder(data) }

// Standard wraps a row-major tensor.
func Standard(data *tensor.RawTensor) Tensor { return layout.Standard(data) }

// Accelerated pairs an accelerated buffer with its descriptor.
func Accelerated(data *tensor.RawTensor, desc *Descriptor) (Tensor, error) {
	return layout.Accelerated(data, desc)
}

// FromCompanion rebuilds a Tensor from data and its companion buffer.
func FromCompanion(data, companion *tensor.RawTensor) (Tensor, error) {
	return layout.FromCompanion(data, companion)
}

// NewConverter creates a Converter; nil selects the software Reference transformer.
func NewConverter(tr Transformer) *Converter { return layout.NewConverter(tr) }
