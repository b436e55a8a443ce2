package layout

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/born-ml/born/internal/tensor"
)

// Wire format constants.
const (
	Magic         = "BLDS"
	WireVersion   = 1
	headerSize    = 10 // magic(4) version kind dtype format physical rank
	bytesPerDim   = 8
	maxDimEncoded = math.MaxInt32
)

// EncodedSize returns the number of bytes MarshalBinary produces for d.
func (d *Descriptor) EncodedSize() int {
	return headerSize + bytesPerDim*len(d.Shape)
}

// MarshalBinary serializes the descriptor into its companion buffer form:
//
//	[0:4]   magic "BLDS"
//	[4]     wire version
//	[5]     kind
//	[6]     element type
//	[7]     logical format
//	[8]     physical format
//	[9]     rank r
//	[10:]   r little-endian uint64 dimensions
func (d *Descriptor) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, d.EncodedSize())
	copy(buf, Magic)
	buf[4] = WireVersion
	buf[5] = byte(d.Kind)
	buf[6] = byte(d.DType)
	buf[7] = byte(d.Format)
	buf[8] = byte(d.Physical)
	buf[9] = byte(len(d.Shape))
	off := headerSize
	for _, dim := range d.Shape {
		binary.LittleEndian.PutUint64(buf[off:], uint64(dim))
		off += bytesPerDim
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer written by MarshalBinary.
// Every structural problem is reported as ErrMalformedDescriptor.
func (d *Descriptor) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedDescriptor, len(data), headerSize)
	}
	if string(data[:4]) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrMalformedDescriptor, data[:4])
	}
	if data[4] != WireVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedDescriptor, data[4])
	}

	rank := int(data[9])
	if rank > MaxRank {
		return fmt.Errorf("%w: rank %d exceeds %d", ErrMalformedDescriptor, rank, MaxRank)
	}
	if want := headerSize + bytesPerDim*rank; len(data) != want {
		return fmt.Errorf("%w: %d bytes for rank %d, want %d", ErrMalformedDescriptor, len(data), rank, want)
	}

	shape := make(tensor.Shape, rank)
	off := headerSize
	for i := range shape {
		v := binary.LittleEndian.Uint64(data[off:])
		if v > maxDimEncoded {
			return fmt.Errorf("%w: dimension %d too large: %d", ErrMalformedDescriptor, i, v)
		}
		shape[i] = int(v)
		off += bytesPerDim
	}

	decoded := Descriptor{
		Kind:     Kind(data[5]),
		DType:    tensor.DataType(data[6]),
		Shape:    shape,
		Format:   Format(data[7]),
		Physical: Format(data[8]),
	}
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDescriptor, err)
	}
	*d = decoded
	return nil
}

// IsPlaceholder reports whether a companion buffer carries no descriptor.
// Runtimes fill unused companion slots with empty or all-zero buffers.
func IsPlaceholder(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Decode decodes a companion buffer. Placeholder buffers decode to nil.
func Decode(data []byte) (*Descriptor, error) {
	if IsPlaceholder(data) {
		return nil, nil
	}
	d := new(Descriptor)
	if err := d.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return d, nil
}
