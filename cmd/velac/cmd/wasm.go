package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/velalang/vela/internal/wasm"
	"github.com/spf13/cobra"
)

var wasmOut string

var wasmCmd = &cobra.Command{
	Use:   "wasm [file]",
	Short: "Emit a WebAssembly module for a Vela script's top-level functions",
	Long: `Compile every top-level function in a Vela program straight to
WASM bytecode (internal/wasm), validate the emitted module's section
order and arities, and write it to a .wasm file.

Examples:
  velac wasm script.vela
  velac wasm script.vela -o out.wasm`,
	Args: cobra.ExactArgs(1),
	RunE: runWasmCmd,
}

func init() {
	rootCmd.AddCommand(wasmCmd)
	wasmCmd.Flags().StringVarP(&wasmOut, "output", "o", "", "output file (default: <input>.wasm)")
}

func runWasmCmd(_ *cobra.Command, args []string) error {
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

	fns := topFunctions(block)
	if len(fns) == 0 {
		return fmt.Errorf("%s declares no top-level functions to emit", filename)
	}

	mod, err := wasm.CompileProgram(fns)
	if err != nil {
		return fmt.Errorf("wasm compilation failed: %w", err)
	}

	if err := wasm.Validate(mod); err != nil {
		return fmt.Errorf("generated module failed validation: %w", err)
	}

	out := wasmOut
	if out == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			out = strings.TrimSuffix(filename, ext) + ".wasm"
		} else {
			out = filename + ".wasm"
		}
	}

	payload := mod.Emit()
	if err := os.WriteFile(out, payload, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes, %d function(s))\n", out, len(payload), len(fns))
	} else {
		fmt.Printf("%s -> %s\n", filename, out)
	}
	return nil
}
