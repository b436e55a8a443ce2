package quant

import "fmt"

// Mode selects how quantized integers map back to real values.
type Mode int

// Supported modes. Only ModeScaled is implemented; the others are recognized
// so that configuration errors can name them.
const (
	ModeScaled Mode = iota
	ModeMinCombined
	ModeMinFirst
)

// String returns the attribute spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeScaled:
		return "SCALED"
	case ModeMinCombined:
		return "MIN_COMBINED"
	case ModeMinFirst:
		return "MIN_FIRST"
	default:
		return "UNKNOWN"
	}
}

// ParseMode converts a mode attribute into a Mode.
// Any value other than "SCALED" fails with ErrUnsupportedMode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "SCALED":
		return ModeScaled, nil
	case "MIN_COMBINED", "MIN_FIRST":
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedMode, s)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}
