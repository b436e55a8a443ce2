// Package layout describes and converts between the two physical layouts a
// logical tensor can have.
//
// A STANDARD tensor stores its elements row-major in logical dimension order.
// An ACCELERATED tensor stores them in an opaque order chosen by an
// acceleration library; a Descriptor records the logical shape, the logical
// dimension order (Format) and the physical order (Physical) needed to read it.
//
// Descriptors travel next to their data tensor as a serialized uint8 companion
// buffer (see Descriptor.MarshalBinary). Inside this module the pair is held as
// a Tensor value so that data and metadata cannot drift apart.
//
// Physical re-layout is delegated to a Transformer. Reference is a portable
// software implementation that handles pure dimension reorderings.
package layout
