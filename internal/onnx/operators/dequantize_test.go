package operators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/tensor"
)

var (
	referenceInput = []uint8{0, 10, 50, 40, 25, 115, 190, 255}
	referenceOut   = []float32{0.0, 7.84, 39.21, 31.37, 19.6, 90.2, 149.0, 200}
	referenceShape = tensor.Shape{1, 2, 2, 2}
)

func dequantizeNode(opType string, attrs ...Attribute) *Node {
	if attrs == nil {
		attrs = []Attribute{
			StringAttr(AttrT, "quint8"),
			StringAttr(AttrMode, "SCALED"),
			StringAttr(AttrKernel, "QuantizedOp"),
		}
	}
	return &Node{Name: "dequantize_op", OpType: opType, Attributes: attrs}
}

func uint8Tensor(t *testing.T, data []uint8, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

func scalar(t *testing.T, v float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice([]float32{v}, tensor.Shape{1})
	require.NoError(t, err)
	return raw
}

// dummy mirrors the all-zero filler runtimes put in unused companion slots.
func dummy(t *testing.T) *tensor.RawTensor {
	t.Helper()
	return uint8Tensor(t, make([]uint8, 8), tensor.Shape{8})
}

func acceleratedCompanion(t *testing.T, format, physical layout.Format) *tensor.RawTensor {
	t.Helper()
	desc, err := layout.NewAccelerated(tensor.Uint8, referenceShape, format, physical)
	require.NoError(t, err)
	buf, err := desc.MarshalBinary()
	require.NoError(t, err)
	return uint8Tensor(t, buf, tensor.Shape{len(buf)})
}

func TestDequantize_Native(t *testing.T) {
	r := NewRegistry()
	ctx := &Context{NativeFormat: true}
	input := uint8Tensor(t, referenceInput, referenceShape)

	outputs, err := r.Execute(ctx, dequantizeNode(ctx.DequantizeOpType()), []*tensor.RawTensor{
		input, scalar(t, 0), scalar(t, 200),
	})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	out := outputs[0]
	assert.Equal(t, tensor.Float32, out.DType())
	assert.Equal(t, referenceShape, out.Shape())
	assert.InDeltaSlice(t, referenceOut, out.AsFloat32(), 0.1)
	assert.Equal(t, referenceInput, input.AsUint8(), "input must not be mutated")
}

func TestDequantize_InteropWithPlaceholders(t *testing.T) {
	r := NewRegistry()
	ctx := &Context{}

	outputs, err := r.Execute(ctx, dequantizeNode(ctx.DequantizeOpType()), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
		dummy(t), dummy(t), dummy(t),
	})
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	assert.InDeltaSlice(t, referenceOut, outputs[0].AsFloat32(), 0.1)

	desc, err := layout.Decode(outputs[1].AsUint8())
	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, layout.KindStandard, desc.Kind)
	assert.Equal(t, tensor.Float32, desc.DType)
	assert.Equal(t, referenceShape, desc.Shape)
}

func TestDequantize_AcceleratedInput(t *testing.T) {
	r := NewRegistry()
	ctx := &Context{}

	outputs, err := r.Execute(ctx, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
		acceleratedCompanion(t, layout.FormatNHWC, layout.FormatNHWC), dummy(t), dummy(t),
	})
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	desc, err := layout.Decode(outputs[1].AsUint8())
	require.NoError(t, err)
	require.True(t, desc.IsAccelerated())
	assert.Equal(t, tensor.Float32, desc.DType)
	assert.Equal(t, referenceShape, desc.Shape)
	assert.Equal(t, layout.FormatNHWC, desc.Format)
	assert.Equal(t, layout.FormatNHWC, desc.Physical)

	standard, err := r.Execute(ctx, &Node{OpType: OpAccelToStandard, Attributes: []Attribute{StringAttr(AttrT, "float32")}}, outputs)
	require.NoError(t, err)
	require.Len(t, standard, 1)
	assert.Equal(t, referenceShape, standard[0].Shape())
	assert.InDeltaSlice(t, referenceOut, standard[0].AsFloat32(), 0.1)
}

func TestDequantize_LayoutInvariance(t *testing.T) {
	r := NewRegistry()
	native, err := r.Execute(&Context{NativeFormat: true}, dequantizeNode(OpDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
	})
	require.NoError(t, err)

	for _, physical := range []layout.Format{layout.FormatNHWC, layout.FormatNCHW} {
		t.Run(physical.String(), func(t *testing.T) {
			desc, err := layout.NewAccelerated(tensor.Uint8, referenceShape, layout.FormatNHWC, physical)
			require.NoError(t, err)
			acc, err := layout.NewConverter(nil).FromStandard(uint8Tensor(t, referenceInput, referenceShape), desc)
			require.NoError(t, err)
			companion, err := acc.Companion()
			require.NoError(t, err)

			ctx := &Context{Transformer: layout.Reference{}}
			outputs, err := r.Execute(ctx, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
				acc.Data, scalar(t, 0), scalar(t, 200), companion, dummy(t), dummy(t),
			})
			require.NoError(t, err)

			standard, err := r.Execute(ctx, &Node{OpType: OpAccelToStandard}, outputs)
			require.NoError(t, err)
			assert.Equal(t, native[0].Shape(), standard[0].Shape())
			assert.Equal(t, native[0].AsFloat32(), standard[0].AsFloat32())
		})
	}
}

func TestDequantize_ZeroRange(t *testing.T) {
	r := NewRegistry()
	outputs, err := r.Execute(&Context{}, dequantizeNode(OpDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 0),
	})
	require.NoError(t, err)

	for i, v := range outputs[0].AsFloat32() {
		assert.Zero(t, v, "index %d", i)
	}
}

func TestDequantize_ShapePreserved(t *testing.T) {
	shapes := []tensor.Shape{{8}, {2, 4}, {1, 2, 2, 2}, {2, 1, 1, 2, 2}, {0, 3}}
	r := NewRegistry()

	for _, shape := range shapes {
		data := make([]uint8, shape.NumElements())
		for i := range data {
			data[i] = uint8(i)
		}
		outputs, err := r.Execute(&Context{}, dequantizeNode(OpDequantize), []*tensor.RawTensor{
			uint8Tensor(t, data, shape), scalar(t, 0), scalar(t, 1),
		})
		require.NoError(t, err, "shape %v", shape)
		assert.Equal(t, shape, outputs[0].Shape())
		assert.Equal(t, shape.NumElements(), outputs[0].NumElements())
	}
}

func TestDequantize_DefaultAttributes(t *testing.T) {
	op, err := NewDequantizeOp(&Node{OpType: OpDequantize})
	require.NoError(t, err)
	assert.False(t, op.Interop())

	outputs, err := op.Run(nil, []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
	})
	require.NoError(t, err)
	assert.InDeltaSlice(t, referenceOut, outputs[0].AsFloat32(), 0.1)
}

func TestDequantize_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		node *Node
	}{
		{"min combined", dequantizeNode(OpDequantize, StringAttr(AttrMode, "MIN_COMBINED"))},
		{"min first", dequantizeNode(OpDequantize, StringAttr(AttrMode, "MIN_FIRST"))},
		{"garbage mode", dequantizeNode(OpDequantize, StringAttr(AttrMode, "LINEAR"))},
		{"qint8", dequantizeNode(OpDequantize, StringAttr(AttrT, "qint8"))},
		{"float32", dequantizeNode(OpDequantize, StringAttr(AttrT, "float32"))},
		{"wrong op type", dequantizeNode("Relu")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDequantizeOp(tt.node)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestDequantize_ConfigurationCheckedBeforeInputs(t *testing.T) {
	// Invalid mode must win over invalid inputs: nothing is inspected.
	_, err := NewRegistry().Execute(&Context{}, dequantizeNode(OpDequantize, StringAttr(AttrMode, "MIN_FIRST")), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDequantize_InputDTypeMismatch(t *testing.T) {
	floats, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)

	_, err = NewRegistry().Execute(&Context{}, dequantizeNode(OpDequantize), []*tensor.RawTensor{
		floats, scalar(t, 0), scalar(t, 1),
	})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDequantize_InvalidInputs(t *testing.T) {
	data := uint8Tensor(t, referenceInput, referenceShape)
	twoElems, err := tensor.FromSlice([]float32{0, 1}, tensor.Shape{2})
	require.NoError(t, err)

	tests := []struct {
		name   string
		opType string
		inputs []*tensor.RawTensor
	}{
		{"too few", OpDequantize, []*tensor.RawTensor{data, scalar(t, 0)}},
		{"native given companions", OpDequantize, []*tensor.RawTensor{data, scalar(t, 0), scalar(t, 1), dummy(t), dummy(t), dummy(t)}},
		{"interop without companions", OpAccelDequantize, []*tensor.RawTensor{data, scalar(t, 0), scalar(t, 1)}},
		{"nil input", OpDequantize, []*tensor.RawTensor{data, nil, scalar(t, 1)}},
		{"uint8 range", OpDequantize, []*tensor.RawTensor{data, data, scalar(t, 1)}},
		{"vector range", OpDequantize, []*tensor.RawTensor{data, scalar(t, 0), twoElems}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().Execute(&Context{}, dequantizeNode(tt.opType), tt.inputs)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDequantize_AcceleratedShapeMismatch(t *testing.T) {
	short := uint8Tensor(t, referenceInput[:4], tensor.Shape{4})

	_, err := NewRegistry().Execute(&Context{}, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
		short, scalar(t, 0), scalar(t, 200),
		acceleratedCompanion(t, layout.FormatNHWC, layout.FormatNHWC), dummy(t), dummy(t),
	})
	assert.ErrorIs(t, err, layout.ErrShapeMismatch)
}

func TestDequantize_MalformedCompanion(t *testing.T) {
	junk := uint8Tensor(t, []uint8{9, 9, 9, 9, 9, 9, 9, 9}, tensor.Shape{8})

	_, err := NewRegistry().Execute(&Context{}, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
		junk, dummy(t), dummy(t),
	})
	assert.ErrorIs(t, err, layout.ErrMalformedDescriptor)
}

type brokenTransformer struct{}

var errPrimitive = errors.New("reorder primitive failed")

func (brokenTransformer) ToStandard([]byte, *layout.Descriptor) ([]byte, error) {
	return nil, errPrimitive
}

func TestAccelToStandard_ConversionError(t *testing.T) {
	r := NewRegistry()
	outputs, err := r.Execute(&Context{}, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
		acceleratedCompanion(t, layout.FormatNHWC, layout.FormatNCHW), dummy(t), dummy(t),
	})
	require.NoError(t, err)

	_, err = r.Execute(&Context{Transformer: brokenTransformer{}}, &Node{OpType: OpAccelToStandard}, outputs)
	assert.ErrorIs(t, err, layout.ErrConversion)
	assert.ErrorIs(t, err, errPrimitive)
}

func TestAccelToStandard_Errors(t *testing.T) {
	r := NewRegistry()
	data := uint8Tensor(t, referenceInput, referenceShape)

	_, err := r.Execute(&Context{}, &Node{OpType: OpAccelToStandard}, []*tensor.RawTensor{data})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Execute(&Context{}, &Node{OpType: OpAccelToStandard, Attributes: []Attribute{StringAttr(AttrT, "float32")}},
		[]*tensor.RawTensor{data, dummy(t)})
	assert.ErrorIs(t, err, ErrConfiguration)

	out, err := r.Execute(&Context{}, &Node{OpType: OpAccelToStandard}, []*tensor.RawTensor{data, dummy(t)})
	require.NoError(t, err)
	assert.Same(t, data, out[0], "standard input passes through")
}

func TestDequantize_LogsDispatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := &Context{Logger: zap.New(core)}

	_, err := NewRegistry().Execute(ctx, dequantizeNode(OpAccelDequantize), []*tensor.RawTensor{
		uint8Tensor(t, referenceInput, referenceShape), scalar(t, 0), scalar(t, 200),
		acceleratedCompanion(t, layout.FormatNHWC, layout.FormatNHWC), dummy(t), dummy(t),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("dequantize").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "accelerated", fields["path"])
	assert.Equal(t, "QuantizedOp", fields["kernel"])
	assert.Equal(t, "SCALED", fields["mode"])
	assert.InDelta(t, 200.0/255.0, fields["scale"], 1e-6)
}
