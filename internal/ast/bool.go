package ast

import "github.com/pdinges/classlang/internal/lexer"

// Eq is the boolean "v1 = v2" predicate, compared by reference identity
// when evaluated.
type Eq struct {
	V1, V2 Var
	P      lexer.Position
}

func (e *Eq) Pos() lexer.Position { return e.P }
func (e *Eq) Copy() Node          { c := *e; return &c }
func (e *Eq) boolNode()           {}

// Neq is the negated counterpart of Eq.
type Neq struct {
	V1, V2 Var
	P      lexer.Position
}

func (n *Neq) Pos() lexer.Position { return n.P }
func (n *Neq) Copy() Node          { c := *n; return &c }
func (n *Neq) boolNode()           {}
