package ast

import "github.com/pdinges/classlang/internal/lexer"

// VarExpr evaluates a bare variable, producing its own value as the
// expression's result.
type VarExpr struct {
	V Var
	P lexer.Position
}

func (e *VarExpr) Pos() lexer.Position { return e.P }
func (e *VarExpr) Copy() Node          { c := *e; return &c }
func (e *VarExpr) expressionNode()     {}
func (e *VarExpr) statementNode()      {}

// New instantiates ClassName, evaluating Args eagerly and in positional
// order against the current frame.
type New struct {
	ClassName Ident
	Args      []Var
	P         lexer.Position
}

func (n *New) Pos() lexer.Position { return n.P }
func (n *New) Copy() Node          { c := *n; c.Args = copyVars(n.Args); return &c }
func (n *New) expressionNode()     {}
func (n *New) statementNode()      {}

// Call dispatches MethodName on Target, with Args evaluated eagerly and
// in positional order.
type Call struct {
	Target     Var
	MethodName Ident
	Args       []Var
	P          lexer.Position
}

func (c *Call) Pos() lexer.Position { return c.P }
func (c *Call) Copy() Node          { cc := *c; cc.Args = copyVars(c.Args); return &cc }
func (c *Call) expressionNode()     {}
func (c *Call) statementNode()      {}
