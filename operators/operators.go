// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package operators exposes the dequantize operator registry.
//
// Example:
//
//	reg := operators.NewRegistry()
//	ctx := &operators.Context{NativeFormat: true}
//	node := &operators.Node{OpType: ctx.DequantizeOpType(), Attributes: []operators.Attribute{
//	    operators.StringAttr("mode", "SCALED"),
//	}}
//	out, err := reg.Execute(ctx, node, []*tensor.RawTensor{q, minRange, maxRange})
package operators

import (
	"github.com/born-ml/born/internal/onnx/operators"
)

// Type aliases for public API.
type (
	Registry     = operators.Registry
	Context      = operators.Context
	Node         = operators.Node
	Attribute    = operators.Attribute
	OpHandler    = operators.OpHandler
	OpError      = operators.OpError
	DequantizeOp = operators.DequantizeOp
)

// Operator types.
const (
	OpDequantize      = operators.OpDequantize
	OpAccelDequantize = operators.OpAccelDequantize
	OpAccelToStandard = operators.OpAccelToStandard
)

// Errors.
var (
	ErrConfiguration = operators.ErrConfiguration
	ErrInvalidInput  = operators.ErrInvalidInput
	ErrUnsupportedOp = operators.ErrUnsupportedOp
)

// NewRegistry creates a registry with the dequantize and layout operators.
func NewRegistry() *Registry { return operators.NewRegistry() }

// NewDequantizeOp parses a dequantize node's attributes.
func NewDequantizeOp(node *Node) (*DequantizeOp, error) { return operators.NewDequantizeOp(node) }

// StringAttr builds a STRING attribute.
func StringAttr(name, value string) Attribute { return operators.StringAttr(name, value) }
