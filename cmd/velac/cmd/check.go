package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a Vela script without running it",
	Long: `Parse and run Hindley-Milner type inference over a Vela program,
reporting diagnostics without executing anything.

Examples:
  velac check script.vela
  velac check -e "let x: Int = \"oops\""`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "type-check inline code instead of reading from file")
}

func runCheck(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(checkEval, args, true)
	if err != nil {
		return err
	}

	block, err := parseOrReport(input, filename)
	if err != nil {
		return err
	}

	if err := inferOrReport(block, input, filename); err != nil {
		return err
	}

	fmt.Println("OK")
	return nil
}
