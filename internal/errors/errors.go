// Package errors defines the tagged error values the core surfaces to a
// host. Parse errors are formatted with source context and a caret in
// the style of a compiler diagnostic; runtime and path errors render as
// a single line.
package errors

import (
	"fmt"
	"strings"

	"github.com/pdinges/classlang/internal/lexer"
)

// ParseError reports a failure to parse source text, with the offending
// line and column.
type ParseError struct {
	Pos     lexer.Position
	Message string
	Source  string
}

// NewParseError creates a ParseError anchored at pos, carrying source for
// the excerpt rendered by Error().
func NewParseError(pos lexer.Position, message, source string) *ParseError {
	return &ParseError{Pos: pos, Message: message, Source: source}
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		sb.WriteString("\n>>> ")
		sb.WriteString(line)
		sb.WriteString("\n    ")
		col := e.Pos.Column - 1
		if col < 0 {
			col = 0
		}
		sb.WriteString(strings.Repeat(" ", col))
		sb.WriteString("^")
	}

	return sb.String()
}

func sourceLine(source string, lineNr int) string {
	if source == "" || lineNr < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNr > len(lines) {
		return ""
	}
	return lines[lineNr-1]
}

// RuntimeErrorKind classifies a runtime fault.
type RuntimeErrorKind string

const (
	KindUndefinedName    RuntimeErrorKind = "undefined-name"
	KindUndefinedClass   RuntimeErrorKind = "undefined-class"
	KindNoSuchMethod     RuntimeErrorKind = "no-such-method"
	KindArityMismatch    RuntimeErrorKind = "arity-mismatch"
	KindMissingReference RuntimeErrorKind = "missing-reference"
)

// RuntimeError reports a fault raised while stepping the interpreter. The
// configuration (store, frame pointer, AST) is left exactly as it was
// before the faulting step; the error only carries enough information
// for a host to report and, if it chooses, retry or abandon.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Step    int
	Message string
}

func NewRuntimeError(kind RuntimeErrorKind, step int, message string) *RuntimeError {
	return &RuntimeError{Kind: kind, Step: step, Message: message}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at step %d (%s): %s", e.Step, e.Kind, e.Message)
}

// PathError reports a failure to resolve an object path.
type PathError struct {
	Segment string
	Message string
}

func NewPathError(segment, message string) *PathError {
	return &PathError{Segment: segment, Message: message}
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("bad object path: %s", e.Message)
	}
	return fmt.Sprintf("bad object path at segment %q: %s", e.Segment, e.Message)
}

// UnknownLabelError reports unlabel/label lookups against a name that is
// not present in the label table. Kept distinct from PathError because
// unlabel itself is best-effort and silently ignores this case; this
// type exists so callers that *do* want to know may check for it.
type UnknownLabelError struct {
	Name string
}

func NewUnknownLabelError(name string) *UnknownLabelError {
	return &UnknownLabelError{Name: name}
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label %q", e.Name)
}
