package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdinges/classlang/internal/inspector"
	"github.com/pdinges/classlang/pkg/classlang"
)

var (
	runSteps   int
	runDepth   int
	runInspect []string
	runLabels  []string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Load a program and step it",
	Long: `run loads a Class program and advances the small-step
interpreter, either to completion or for a bounded number of
reductions, then reports the resulting store contents for the given
object paths.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runSteps, "steps", 0, "number of steps to run (0 = run to completion or fault)")
	runCmd.Flags().IntVar(&runDepth, "depth", 1, "how many state edges to follow when inspecting")
	runCmd.Flags().StringArrayVar(&runInspect, "inspect", nil, "object path to inspect after stepping (repeatable, default \".\")")
	runCmd.Flags().StringArrayVar(&runLabels, "label", nil, "name=path label to apply before stepping (repeatable)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	session, err := classlang.Load(string(src))
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	for _, spec := range runLabels {
		name, path, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("malformed --label %q: want name=path", spec)
		}
		if err := session.Label(path, name); err != nil {
			return fmt.Errorf("labeling %q: %w", spec, err)
		}
	}

	limit := runSteps
	if limit <= 0 {
		limit = -1
	}
	stepped := 0
	var stepErr error
	for limit < 0 || stepped < limit {
		result, err := session.Step(1)
		if err != nil {
			stepErr = err
			break
		}
		stepped = result.StepsRun
		if result.Done {
			break
		}
	}

	if stepErr != nil {
		fmt.Fprintf(os.Stderr, "run fault after %d step(s): %v\n", stepped, stepErr)
	} else if verbose {
		fmt.Fprintf(os.Stderr, "ran %d step(s), done=%v\n", stepped, session.Done())
	}

	paths := runInspect
	if len(paths) == 0 {
		paths = []string{"."}
	}
	result := session.Inspect(runDepth, paths...)
	for _, objErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", objErr)
	}
	printObjects(result.Objects)

	if stepErr != nil {
		return stepErr
	}
	return nil
}

func printObjects(objs []classlang.Object) {
	for _, obj := range objs {
		fmt.Print(inspector.FormatObject(obj))
	}
}
