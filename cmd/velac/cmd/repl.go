package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/velalang/vela/pkg/vela"
	"github.com/spf13/cobra"
)

var replTypeCheck bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Vela session",
	Long: `Read one top-level expression at a time from stdin, evaluate it
against a persistent pkg/vela.Engine (so let-bindings and function
definitions survive across lines), and print its result.

The prompt ("vela> ") is only printed when stdin is a real terminal
(github.com/mattn/go-isatty), so piping a script into 'velac repl' never
pollutes the output with prompt text.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replTypeCheck, "type-check", false, "type-check each line before evaluating it")
}

func runRepl(_ *cobra.Command, _ []string) error {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	engine, err := vela.New(vela.WithTypeCheck(replTypeCheck), vela.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("vela> ")
		}
		if !scanner.Scan() {
			if interactive {
				fmt.Println()
			}
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := engine.Eval(line)
		if err != nil {
			fmt.Fprint(os.Stderr, errorsFormat(result, colorEnabled()))
			continue
		}
		if result.Value != nil {
			fmt.Println(result.Value.String())
		}
	}
}

// errorsFormat renders an Eval failure's diagnostics, falling back to a
// plain message if the Result carries no structured CompilerErrors (a
// panic-recovered internal error, say).
func errorsFormat(result *vela.Result, color bool) string {
	if result == nil || len(result.Errors) == 0 {
		return "error\n"
	}
	var out string
	for _, ce := range result.Errors {
		out += ce.Format(color) + "\n"
	}
	return out
}
