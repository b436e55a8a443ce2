package quant

import (
	"fmt"

	"github.com/born-ml/born/internal/tensor"
)

// Dequantize converts src into a freshly allocated float32 slice:
//
//	out[i] = float32(src[i]) * scale
func Dequantize(src []uint8, scale float32) []float32 {
	dst := make([]float32, len(src))
	dequantizeUint8(dst, src, scale)
	return dst
}

// DequantizeInto writes the dequantized values of src into dst.
// Both slices must have the same length.
func DequantizeInto(dst []float32, src []uint8, scale float32) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst has %d elements, src has %d", ErrLengthMismatch, len(dst), len(src))
	}
	dequantizeUint8(dst, src, scale)
	return nil
}

// DequantizeTensor returns a new Float32 tensor with the same shape as in.
// The input is never modified.
func DequantizeTensor(in *tensor.RawTensor, scale float32) (*tensor.RawTensor, error) {
	if in.DType() != tensor.Uint8 {
		return nil, fmt.Errorf("dequantize: input dtype is %s, want uint8", in.DType())
	}
	out, err := tensor.NewRaw(in.Shape(), tensor.Float32, in.Device())
	if err != nil {
		return nil, fmt.Errorf("dequantize: %w", err)
	}
	src := in.AsUint8()[:in.NumElements()]
	if err := DequantizeInto(out.AsFloat32(), src, scale); err != nil {
		return nil, fmt.Errorf("dequantize: %w", err)
	}
	return out, nil
}

func dequantizeUint8(dst []float32, src []uint8, scale float32) {
	// Unrolled by 4; the tail is handled below.
	n := len(src)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = float32(src[i]) * scale
		dst[i+1] = float32(src[i+1]) * scale
		dst[i+2] = float32(src[i+2]) * scale
		dst[i+3] = float32(src[i+3]) * scale
	}
	for ; i < n; i++ {
		dst[i] = float32(src[i]) * scale
	}
}
