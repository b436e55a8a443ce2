package layout

import (
	"fmt"
	"strings"
)

// Format names a dimension ordering. The numeric values are part of the
// descriptor wire format.
type Format uint8

// Known dimension orderings.
const (
	// FormatDefault is plain row-major order with no named dimensions.
	FormatDefault Format = iota
	// FormatNHWC is channel-last 4D order.
	FormatNHWC
	// FormatNCHW is channel-first 4D order.
	FormatNCHW
	// FormatNDHWC is channel-last 5D order.
	FormatNDHWC
	// FormatNCDHW is channel-first 5D order.
	FormatNCDHW

	numFormats
)

var formatNames = [numFormats]string{
	FormatDefault: "DEFAULT",
	FormatNHWC:    "NHWC",
	FormatNCHW:    "NCHW",
	FormatNDHWC:   "NDHWC",
	FormatNCDHW:   "NCDHW",
}

// String returns the dimension letters of the format, or "DEFAULT".
func (f Format) String() string {
	if f < numFormats {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f < numFormats
}

// Rank returns the number of dimensions the format names,
// or 0 for FormatDefault which accepts any rank.
func (f Format) Rank() int {
	if f == FormatDefault || !f.Valid() {
		return 0
	}
	return len(formatNames[f])
}

// ParseFormat converts a format name (case-insensitive) into a Format.
func ParseFormat(s string) (Format, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if u == "" {
		return FormatDefault, nil
	}
	for f := FormatDefault; f < numFormats; f++ {
		if formatNames[f] == u {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// axesBetween returns the permutation that reorders dimensions laid out in
// from order into to order: result dim i is source dim axes[i].
func axesBetween(from, to Format, rank int) ([]int, error) {
	if from == to {
		return identityAxes(rank), nil
	}
	if from == FormatDefault || to == FormatDefault {
		return nil, fmt.Errorf("%w: cannot reorder %s into %s", ErrUnsupportedFormat, from, to)
	}
	src, dst := from.String(), to.String()
	if len(src) != len(dst) || len(src) != rank {
		return nil, fmt.Errorf("%w: %s and %s for rank %d", ErrUnsupportedFormat, from, to, rank)
	}
	axes := make([]int, rank)
	for i := range dst {
		j := strings.IndexByte(src, dst[i])
		if j < 0 {
			return nil, fmt.Errorf("%w: %s has no %c dimension", ErrUnsupportedFormat, from, dst[i])
		}
		axes[i] = j
	}
	return axes, nil
}

func identityAxes(rank int) []int {
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = i
	}
	return axes
}
