// Package ast defines the Class language's abstract syntax tree. Nodes
// are tagged variants dispatched on with a Go type switch rather than a
// visitor-over-inheritance hierarchy: the stepping interpreter and the
// pretty printer each switch on concrete node type directly.
package ast

import "github.com/pdinges/classlang/internal/lexer"

// Node is the base interface every AST entity implements.
type Node interface {
	Pos() lexer.Position
	// Copy returns a deep copy of the subtree rooted at this node.
	// Reference-lists (parameter names, argument lists) are copied
	// shallowly: the copy gets a fresh slice holding the same Var values,
	// which are immutable, so no deeper copy of the elements is needed.
	Copy() Node
}

// Expression is a node that the interpreter reduces to a value reference
// (by rewriting it away entirely, per the small-step rules).
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that reduces by effect rather than by value.
type Statement interface {
	Node
	statementNode()
}

// BoolExpr is one of the two boolean comparisons the language supports.
type BoolExpr interface {
	Node
	boolNode()
}

// Var wraps a variable name. It is a value type: copying a Var copies
// the name, nothing else, so argument and parameter lists get a shallow
// copy wherever a Var shows up inside one.
type Var struct {
	Name string
	P    lexer.Position
}

func (v Var) Pos() lexer.Position { return v.P }
func (v Var) Copy() Node          { return v }

// Ident wraps a class or method name. Distinct type from Var so the
// parser and interpreter cannot confuse "the name of a method" with "a
// variable holding a reference" even though both are plain strings.
type Ident struct {
	Name string
	P    lexer.Position
}

func (id Ident) Pos() lexer.Position { return id.P }
func (id Ident) Copy() Node          { return id }

// copyVars shallow-copies a []Var (see Node.Copy's doc comment).
func copyVars(vs []Var) []Var {
	if vs == nil {
		return nil
	}
	out := make([]Var, len(vs))
	copy(out, vs)
	return out
}
