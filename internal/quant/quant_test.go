package quant

import (
	"testing"

	"github.com/born-ml/born/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScale(t *testing.T) {
	tests := []struct {
		name     string
		maxRange float32
		bits     int
		want     float32
	}{
		{"uint8 range 200", 200, Uint8Bits, 200.0 / 255.0},
		{"uint8 unit range", 1, Uint8Bits, 1.0 / 255.0},
		{"zero range", 0, Uint8Bits, 0},
		{"4 bit", 15, 4, 1},
		{"16 bit", 65535, 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeScale(tt.maxRange, tt.bits), 1e-7)
		})
	}
}

func TestScaleFor_InvalidBits(t *testing.T) {
	for _, bits := range []int{0, -1, MaxBits + 1} {
		_, err := ScaleFor(1, bits)
		assert.ErrorIs(t, err, ErrInvalidBitWidth, "bits=%d", bits)
	}

	for _, bits := range []int{0, MaxBits + 1, 32, 64} {
		assert.Panics(t, func() { ComputeScale(1, bits) }, "bits=%d", bits)
	}

	scale, err := ScaleFor(200, Uint8Bits)
	require.NoError(t, err)
	assert.Equal(t, ComputeScale(200, Uint8Bits), scale)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("SCALED")
	require.NoError(t, err)
	assert.Equal(t, ModeScaled, m)
	assert.Equal(t, "SCALED", m.String())

	for _, s := range []string{"MIN_COMBINED", "MIN_FIRST", "scaled", ""} {
		_, err := ParseMode(s)
		assert.ErrorIs(t, err, ErrUnsupportedMode, "mode %q", s)
	}
}

func TestDequantize_ReferenceValues(t *testing.T) {
	input := []uint8{0, 10, 50, 40, 25, 115, 190, 255}
	want := []float32{0.0, 7.84, 39.21, 31.37, 19.6, 90.2, 149.0, 200.0}

	got := Dequantize(input, ComputeScale(200, Uint8Bits))

	require.Len(t, got, len(want))
	assert.InDeltaSlice(t, want, got, 0.1)
	assert.Equal(t, float32(200), got[7], "255 maps exactly onto max_range")
}

func TestDequantize_ZeroScale(t *testing.T) {
	input := []uint8{0, 1, 127, 128, 254, 255, 3}
	got := Dequantize(input, ComputeScale(0, Uint8Bits))

	for i, v := range got {
		assert.Zero(t, v, "index %d", i)
	}
}

func TestDequantize_MatchesScalarFormula(t *testing.T) {
	// Odd length exercises the unrolled body and the tail.
	input := make([]uint8, 259)
	for i := range input {
		input[i] = uint8(i * 7)
	}
	scale := ComputeScale(3.5, Uint8Bits)

	got := Dequantize(input, scale)
	for i, q := range input {
		assert.Equal(t, float32(q)*scale, got[i], "index %d", i)
	}
}

func TestDequantize_Empty(t *testing.T) {
	assert.Empty(t, Dequantize(nil, 1))
}

func TestDequantizeInto_LengthMismatch(t *testing.T) {
	err := DequantizeInto(make([]float32, 3), []uint8{1, 2}, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDequantizeTensor(t *testing.T) {
	in, err := tensor.FromSlice([]uint8{0, 10, 50, 40, 25, 115, 190, 255}, tensor.Shape{1, 2, 2, 2})
	require.NoError(t, err)
	before := append([]uint8(nil), in.AsUint8()...)

	out, err := DequantizeTensor(in, ComputeScale(200, Uint8Bits))
	require.NoError(t, err)

	assert.Equal(t, tensor.Float32, out.DType())
	assert.True(t, out.Shape().Equal(in.Shape()))
	assert.Equal(t, in.NumElements(), out.NumElements())
	assert.InDeltaSlice(t, []float32{0.0, 7.84, 39.21, 31.37, 19.6, 90.2, 149.0, 200.0}, out.AsFloat32(), 0.1)
	assert.Equal(t, before, in.AsUint8(), "input must not be mutated")
}

func TestDequantizeTensor_WrongDType(t *testing.T) {
	in, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)

	_, err = DequantizeTensor(in, 1)
	assert.Error(t, err)
}

func BenchmarkDequantize(b *testing.B) {
	input := make([]uint8, 1<<16)
	for i := range input {
		input[i] = uint8(i)
	}
	dst := make([]float32, len(input))
	scale := ComputeScale(200, Uint8Bits)

	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DequantizeInto(dst, input, scale)
	}
}
