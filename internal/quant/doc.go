// Package quant implements the scaled uint8 dequantization kernel.
//
// A quantized tensor in SCALED mode stores a real value range [0, max_range]
// as unsigned integers [0, 2^bits-1]. The real value is recovered as
//
//	value = float32(q) * max_range / (2^bits - 1)
//
// The kernel never looks at memory layout: it maps a flat uint8 buffer to a
// flat float32 buffer of the same length and order, so it works unchanged on
// standard and accelerated buffers.
package quant
