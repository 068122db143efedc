package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdinges/classlang/pkg/classlang"
)

var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Parse a program and pretty-print its AST",
	Long: `print loads a Class program and renders it back as indented
source text, without stepping it. Useful as a parse/format round-trip
check.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	session, err := classlang.Load(string(src))
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	fmt.Print(session.ProgramText())
	return nil
}
