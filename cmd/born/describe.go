package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/born/internal/layout"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <hex>",
		Short: "Decode a hex-encoded layout companion buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return fmt.Errorf("invalid hex: %w", err)
			}
			desc, err := layout.Decode(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if desc == nil {
				fmt.Fprintln(out, "placeholder (no descriptor)")
				return nil
			}
			fmt.Fprintf(out, "kind: %s\n", desc.Kind)
			fmt.Fprintf(out, "dtype: %s\n", desc.DType)
			fmt.Fprintf(out, "shape: %v\n", []int(desc.Shape))
			fmt.Fprintf(out, "format: %s\n", desc.Format)
			if desc.IsAccelerated() {
				fmt.Fprintf(out, "physical: %s\n", desc.Physical)
			}
			return nil
		},
	}
}
