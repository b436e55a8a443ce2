// Package operators implements the dequantization operators and the layout
// conversion operator on top of a small handler registry.
//
// Three operator types are registered:
//   - Dequantize: inputs (data uint8, min_range, max_range), one float32 output.
//   - _AccelDequantize: the same three inputs followed by one layout companion
//     per input; outputs the float32 data and its companion.
//   - _AccelToStandard: inputs (data, companion); outputs a row-major tensor.
//
// Each handler validates attributes before touching any buffer, then delegates
// to the quant and layout packages.
package operators
