// Package classlang is the host-facing API for loading, stepping, and
// inspecting Class programs: a thin wrapper over the internal parser,
// interpreter, inspector, and printer suitable for a CLI, test
// harness, or GUI to drive.
package classlang

import (
	"github.com/pdinges/classlang/internal/inspector"
	"github.com/pdinges/classlang/internal/interp"
	"github.com/pdinges/classlang/internal/parser"
	"github.com/pdinges/classlang/internal/printer"
)

// Session is one loaded program's entire runnable state.
type Session struct {
	ip  *interp.Interpreter
	ins *inspector.Inspector
}

// Load parses source into a program and returns a fresh Session ready
// to step. A malformed program yields a *classerrors.ParseError.
func Load(source string) (*Session, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	ip := interp.New(prog)
	return &Session{ip: ip, ins: inspector.New(ip)}, nil
}

// StepResult reports the outcome of advancing the interpreter.
type StepResult struct {
	Done     bool
	StepsRun int
}

// Step advances the interpreter by n reductions (n <= 0 defaults to 1),
// stopping early if the program finishes or a runtime fault occurs. On
// a fault, the returned StepResult reflects the last successful step
// and the configuration is left exactly as it was before the failing
// one.
func (s *Session) Step(n int) (StepResult, error) {
	if n <= 0 {
		n = 1
	}
	var result interp.StepResult
	for i := 0; i < n; i++ {
		var err error
		result, err = s.ip.Step()
		if err != nil {
			return StepResult{Done: result.Done, StepsRun: result.StepsRun}, err
		}
		if result.Done {
			break
		}
	}
	return StepResult{Done: result.Done, StepsRun: result.StepsRun}, nil
}

// Done reports whether the program has finished executing.
func (s *Session) Done() bool { return s.ip.Done() }

// StepsRun returns how many steps have executed so far.
func (s *Session) StepsRun() int { return s.ip.StepsRun() }

// Object mirrors inspector.Object so callers never need to import the
// internal package directly.
type Object = inspector.Object

// InspectResult bundles a multi-path inspection, one error per path
// that failed to resolve and one flattened object list for every path
// that succeeded.
type InspectResult struct {
	Objects []Object
	Errors  []error
}

// Inspect resolves each of paths (defaulting to the current frame
// object, ".", when none are given) and collects every object
// reachable within depth hops of each.
func (s *Session) Inspect(depth int, paths ...string) InspectResult {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var result InspectResult
	for _, path := range paths {
		objs, err := s.ins.Inspect(path, depth)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Objects = append(result.Objects, objs...)
	}
	return result
}

// Label assigns name to the object path resolves to.
func (s *Session) Label(path, name string) error {
	return s.ins.Label(path, name)
}

// Unlabel removes a label by name, or by the path it was assigned to.
// Invalid input is silently ignored.
func (s *Session) Unlabel(nameOrPath string) {
	s.ins.Unlabel(nameOrPath)
}

// Labels returns every currently assigned label name.
func (s *Session) Labels() []string {
	return s.ins.Labels()
}

// ProgramText pretty-prints the program's current, possibly partially
// reduced, AST.
func (s *Session) ProgramText() string {
	return printer.Print(s.ip.Root())
}
