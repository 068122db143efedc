package ast

import "github.com/pdinges/classlang/internal/lexer"

// VarDecl is a member variable declaration inside a class body.
type VarDecl struct {
	Name Var
	P    lexer.Position
}

func (d *VarDecl) Pos() lexer.Position { return d.P }
func (d *VarDecl) Copy() Node          { c := *d; return &c }

// MethodDecl is a named method: parameters plus a body statement.
type MethodDecl struct {
	Name   Ident
	Params []Var
	Body   Statement
	P      lexer.Position
}

func (d *MethodDecl) Pos() lexer.Position { return d.P }
func (d *MethodDecl) Copy() Node {
	c := *d
	c.Params = copyVars(d.Params)
	if d.Body != nil {
		c.Body = d.Body.Copy().(Statement)
	}
	return &c
}

// CtorDecl is a class's single constructor.
type CtorDecl struct {
	Params []Var
	Body   Statement
	P      lexer.Position
}

func (d *CtorDecl) Pos() lexer.Position { return d.P }
func (d *CtorDecl) Copy() Node {
	c := *d
	c.Params = copyVars(d.Params)
	if d.Body != nil {
		c.Body = d.Body.Copy().(Statement)
	}
	return &c
}

// ClassDecl declares a class: member variables, one constructor, and
// zero or more methods.
type ClassDecl struct {
	Name    Ident
	Vars    []*VarDecl
	Ctor    *CtorDecl
	Methods []*MethodDecl
	P       lexer.Position
}

func (d *ClassDecl) Pos() lexer.Position { return d.P }
func (d *ClassDecl) Copy() Node {
	c := *d
	if d.Vars != nil {
		c.Vars = make([]*VarDecl, len(d.Vars))
		for i, v := range d.Vars {
			c.Vars[i] = v.Copy().(*VarDecl)
		}
	}
	if d.Ctor != nil {
		c.Ctor = d.Ctor.Copy().(*CtorDecl)
	}
	if d.Methods != nil {
		c.Methods = make([]*MethodDecl, len(d.Methods))
		for i, m := range d.Methods {
			c.Methods[i] = m.Copy().(*MethodDecl)
		}
	}
	return &c
}

// Program is the AST root: one or more class declarations followed by
// a single initial statement. Stepping the Program
// node consumes it entirely, replacing it with Initial.
type Program struct {
	Classes []*ClassDecl
	Initial Statement
	P       lexer.Position
}

func (p *Program) Pos() lexer.Position { return p.P }
func (p *Program) Copy() Node {
	c := *p
	if p.Classes != nil {
		c.Classes = make([]*ClassDecl, len(p.Classes))
		for i, cd := range p.Classes {
			c.Classes[i] = cd.Copy().(*ClassDecl)
		}
	}
	if p.Initial != nil {
		c.Initial = p.Initial.Copy().(Statement)
	}
	return &c
}
func (p *Program) statementNode() {}
