package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/velalang/vela/internal/transpile"
	"github.com/spf13/cobra"
)

var transpileOut string

var transpileCmd = &cobra.Command{
	Use:   "transpile [file]",
	Short: "Lower a Vela script to Go source",
	Long: `Transpile a Vela program to idiomatic Go source (internal/transpile):
structs/enums/traits/impls lower to Go types, methods, and interfaces,
and the result is run through go/format before being written out.

Examples:
  velac transpile script.vela
  velac transpile script.vela -o script.go`,
	Args: cobra.ExactArgs(1),
	RunE: runTranspileCmd,
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().StringVarP(&transpileOut, "output", "o", "", "output file (default: <input>.go)")
}

func runTranspileCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(data)

	block, err := parseOrReport(input, filename)
	if err != nil {
		return err
	}

	goSrc, err := transpile.Transpile(block.Exprs)
	if err != nil {
		if ue, ok := err.(*transpile.UnsupportedError); ok {
			return fmt.Errorf("transpile: %s", ue)
		}
		return fmt.Errorf("transpile failed: %w", err)
	}

	out := transpileOut
	if out == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			out = strings.TrimSuffix(filename, ext) + ".go"
		} else {
			out = filename + ".go"
		}
	}

	if err := os.WriteFile(out, []byte(goSrc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", out, len(goSrc))
	} else {
		fmt.Printf("%s -> %s\n", filename, out)
	}
	return nil
}
