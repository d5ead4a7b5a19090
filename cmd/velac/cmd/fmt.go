package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	fmtWrite     bool
	fmtList      bool
	fmtDiff      bool
	fmtRecursive bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files or directories...]",
	Short: "Reformat Vela source files",
	Long: `Reformat Vela source by parsing it into an AST and printing each
top-level expression's canonical String() form back out — an AST-driven
formatter in the same spirit as the teacher's pkg/printer-based 'fmt'
command, rebuilt here directly over internal/ast's Expr.String().

Usage:
  velac fmt file.vela          # format to stdout
  velac fmt -w file.vela       # overwrite the file
  velac fmt -l -r src/         # list files that would change
  velac fmt -d file.vela       # show a line diff

If no path is given, fmt reads from stdin and writes to stdout.`,
	RunE: runFmtCmd,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "overwrite the file with its formatted form")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "show a line diff instead of rewriting")
	fmtCmd.Flags().BoolVarP(&fmtRecursive, "recursive", "r", false, "process directories recursively")
}

func runFmtCmd(_ *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}
	if fmtWrite && fmtDiff {
		return fmt.Errorf("cannot use -w and -d together")
	}

	if len(args) == 0 {
		return formatStdin()
	}

	hasErrors := false
	for _, path := range args {
		if err := processFmtPath(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func processFmtPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if !fmtRecursive {
			return fmt.Errorf("%s is a directory (use -r to process recursively)", path)
		}
		return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() || !strings.HasSuffix(p, ".vela") {
				return nil
			}
			if err := formatFile(p); err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", p, err)
			}
			return nil
		})
	}
	return formatFile(path)
}

func formatSource(src string) (string, error) {
	block, err := parseOrReport(src, "")
	if err != nil {
		return "", err
	}
	parts := make([]string, len(block.Exprs))
	for i, e := range block.Exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func formatStdin() error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}
	formatted, err := formatSource(string(src))
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	original := string(src)

	formatted, err := formatSource(original)
	if err != nil {
		return err
	}
	changed := original != formatted

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtDiff:
		if changed {
			fmt.Printf("--- %s (original)\n", filename)
			fmt.Printf("+++ %s (formatted)\n", filename)
			showFmtDiff(original, formatted)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
			if verbose {
				fmt.Printf("Formatted %s\n", filename)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func showFmtDiff(original, formatted string) {
	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	maxLines := len(origLines)
	if len(fmtLines) > maxLines {
		maxLines = len(fmtLines)
	}
	for i := 0; i < maxLines; i++ {
		var o, f string
		if i < len(origLines) {
			o = origLines[i]
		}
		if i < len(fmtLines) {
			f = fmtLines[i]
		}
		if o != f {
			if o != "" {
				fmt.Printf("- %s\n", o)
			}
			if f != "" {
				fmt.Printf("+ %s\n", f)
			}
		}
	}
}
