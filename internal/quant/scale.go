package quant

import "fmt"

// Uint8Bits is the bit width of the quint8 storage type.
const Uint8Bits = 8

// MaxBits bounds the bit widths accepted by ScaleFor.
const MaxBits = 16

// ComputeScale returns maxRange / (2^bits - 1).
//
// The range is assumed to start at zero. A zero maxRange yields a zero scale,
// which dequantizes every element to exactly 0. bits must be in [1, MaxBits];
// ComputeScale panics otherwise. Use ScaleFor for unchecked input.
func ComputeScale(maxRange float32, bits int) float32 {
	if err := checkBits(bits); err != nil {
		panic(err)
	}
	return maxRange / levels(bits)
}

// ScaleFor is ComputeScale with bit width validation.
func ScaleFor(maxRange float32, bits int) (float32, error) {
	if err := checkBits(bits); err != nil {
		return 0, err
	}
	return maxRange / levels(bits), nil
}

func checkBits(bits int) error {
	if bits < 1 || bits > MaxBits {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidBitWidth, bits, MaxBits)
	}
	return nil
}

func levels(bits int) float32 {
	return float32(uint32(1)<<uint(bits) - 1)
}
