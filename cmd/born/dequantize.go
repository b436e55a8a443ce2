package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/born/internal/layout"
	"github.com/born-ml/born/internal/onnx/operators"
	"github.com/born-ml/born/internal/tensor"
)

type dequantizeOptions struct {
	shape       []int
	values      []int
	minRange    float32
	maxRange    float32
	mode        string
	accelerated bool
	format      string
	physical    string
	verbose     bool
}

func newDequantizeCmd() *cobra.Command {
	opts := &dequantizeOptions{}
	cmd := &cobra.Command{
		Use:   "dequantize",
		Short: "Dequantize a quint8 tensor given on the command line",
		Long: `Dequantize runs the dequantize operator on a quint8 tensor.

With --accelerated the input is first laid out in the --physical order, run
through the accelerated entry point, and converted back to standard layout.

Example:
  born dequantize --shape 1,2,2,2 --values 0,10,50,40,25,115,190,255 --max 200
  born dequantize --shape 1,2,2,2 --values 0,10,50,40,25,115,190,255 --max 200 \
      --accelerated --format NHWC --physical NCHW`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDequantize(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&opts.shape, "shape", nil, "logical shape, e.g. 1,2,2,2")
	f.IntSliceVar(&opts.values, "values", nil, "quantized values in row-major order (0-255)")
	f.Float32Var(&opts.minRange, "min", 0, "min_range")
	f.Float32Var(&opts.maxRange, "max", 0, "max_range")
	f.StringVar(&opts.mode, "mode", operators.DefaultMode, "quantization mode")
	f.BoolVar(&opts.accelerated, "accelerated", false, "use the accelerated entry point")
	f.StringVar(&opts.format, "format", "NHWC", "logical dimension order of an accelerated input")
	f.StringVar(&opts.physical, "physical", "NHWC", "physical dimension order of an accelerated input")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log dispatch decisions")
	_ = cmd.MarkFlagRequired("shape")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

func runDequantize(cmd *cobra.Command, opts *dequantizeOptions) error {
	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	data := make([]uint8, len(opts.values))
	for i, v := range opts.values {
		if v < 0 || v > 255 {
			return fmt.Errorf("value %d at index %d is outside [0, 255]", v, i)
		}
		data[i] = uint8(v)
	}
	q, err := tensor.FromSlice(data, tensor.Shape(opts.shape))
	if err != nil {
		return err
	}
	minRange, err := tensor.FromSlice([]float32{opts.minRange}, tensor.Shape{1})
	if err != nil {
		return err
	}
	maxRange, err := tensor.FromSlice([]float32{opts.maxRange}, tensor.Shape{1})
	if err != nil {
		return err
	}

	ctx := &operators.Context{Logger: logger, NativeFormat: !opts.accelerated}
	reg := operators.NewRegistry()
	node := &operators.Node{
		Name:   "cli",
		OpType: ctx.DequantizeOpType(),
		Attributes: []operators.Attribute{
			operators.StringAttr(operators.AttrT, operators.DefaultT),
			operators.StringAttr(operators.AttrMode, opts.mode),
			operators.StringAttr(operators.AttrKernel, "cli"),
		},
	}

	out := cmd.OutOrStdout()
	if !opts.accelerated {
		outputs, err := reg.Execute(ctx, node, []*tensor.RawTensor{q, minRange, maxRange})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "shape: %v\n", []int(outputs[0].Shape()))
		fmt.Fprintf(out, "values: %s\n", formatFloats(outputs[0].AsFloat32()))
		return nil
	}

	x, err := toAccelerated(q, opts)
	if err != nil {
		return err
	}
	companion, err := x.Companion()
	if err != nil {
		return err
	}
	placeholder, err := tensor.NewRaw(tensor.Shape{8}, tensor.Uint8, tensor.CPU)
	if err != nil {
		return err
	}

	outputs, err := reg.Execute(ctx, node, []*tensor.RawTensor{
		x.Data, minRange, maxRange, companion, placeholder, placeholder,
	})
	if err != nil {
		return err
	}
	standard, err := reg.Execute(ctx, &operators.Node{Name: "cli", OpType: operators.OpAccelToStandard}, outputs)
	if err != nil {
		return err
	}

	desc, err := layout.Decode(outputs[1].AsUint8())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "descriptor: %s\n", desc)
	fmt.Fprintf(out, "companion: %s\n", hex.EncodeToString(outputs[1].AsUint8()))
	fmt.Fprintf(out, "shape: %v\n", []int(standard[0].Shape()))
	fmt.Fprintf(out, "values: %s\n", formatFloats(standard[0].AsFloat32()))
	return nil
}

func toAccelerated(q *tensor.RawTensor, opts *dequantizeOptions) (layout.Tensor, error) {
	format, err := layout.ParseFormat(opts.format)
	if err != nil {
		return layout.Tensor{}, err
	}
	physical, err := layout.ParseFormat(opts.physical)
	if err != nil {
		return layout.Tensor{}, err
	}
	desc, err := layout.NewAccelerated(tensor.Uint8, q.Shape(), format, physical)
	if err != nil {
		return layout.Tensor{}, err
	}
	return layout.NewConverter(nil).FromStandard(q, desc)
}

func formatFloats(vals []float32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(float64(v), 'f', 4, 32)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
