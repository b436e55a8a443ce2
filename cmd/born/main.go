// Package main provides the born command line tool for running the
// dequantize operators outside a runtime.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.0.1-dev"

var rootCmd = &cobra.Command{
	Use:           "born",
	Short:         "Dequantize quint8 tensors and inspect layout descriptors",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Born %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, newDequantizeCmd(), newDescribeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
