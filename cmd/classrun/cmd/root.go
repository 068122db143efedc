package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "classrun",
	Short: "Step and inspect Class language programs",
	Long: `classrun loads a Class program, advances its small-step
interpreter, and reports the resulting store contents. It is a thin
non-interactive driver over the classlang package, not an interactive
shell.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
