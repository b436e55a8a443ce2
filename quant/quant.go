// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package quant exposes the scaled uint8 dequantization kernel.
//
// Example:
//
//	scale := quant.ComputeScale(200, quant.Uint8Bits) // 200/255
//	out := quant.Dequantize([]uint8{0, 255}, scale)   // [0 200]
package quant

import (
	"github.com/born-ml/born/internal/quant"
	"github.com/born-ml/born/internal/tensor"
)

// Mode selects how quantized integers map back to real values.
type Mode = quant.Mode

// ModeScaled is the only supported mode.
const ModeScaled Mode = quant.ModeScaled

// Uint8Bits is the bit width of quint8 data.
const Uint8Bits = quant.Uint8Bits

// Errors.
var (
	ErrUnsupportedMode = quant.ErrUnsupportedMode
	ErrLengthMismatch  = quant.ErrLengthMismatch
	ErrInvalidBitWidth = quant.ErrInvalidBitWidth
)

// ParseMode converts a mode attribute into a Mode.
func ParseMode(s string) (Mode, error) { return quant.ParseMode(s) }

// ComputeScale returns maxRange / (2^bits - 1).
func ComputeScale(maxRange float32, bits int) float32 { return quant.ComputeScale(maxRange, bits) }

// Dequantize returns float32(src[i]) * scale for every element.
func Dequantize(src []uint8, scale float32) []float32 { return quant.Dequantize(src, scale) }

// DequantizeInto writes float32(src[i]) * scale into dst.
func DequantizeInto(dst []float32, src []uint8, scale float32) error {
	return quant.DequantizeInto(dst, src, scale)
}

// DequantizeTensor dequantizes a uint8 tensor into a new float32 tensor.
func DequantizeTensor(in *tensor.RawTensor, scale float32) (*tensor.RawTensor, error) {
	return quant.DequantizeTensor(in, scale)
}
