// Package printer renders an AST back into indented Class source text,
// ported rule-for-rule from the reference implementation's pretty
// printer.
package printer

import (
	"fmt"
	"strings"

	"github.com/pdinges/classlang/internal/ast"
)

// Print renders n as indented Class source text that would reparse to
// the same AST, modulo whitespace. It tolerates partially reduced
// trees: a ReturnValue residual prints as a placeholder rather than
// failing, and a nil node prints nothing.
func Print(n ast.Node) string {
	p := &printer{}
	p.visit(n)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent []string
}

func (p *printer) push()          { p.indent = append(p.indent, "  ") }
func (p *printer) pop()           { p.indent = p.indent[:len(p.indent)-1] }
func (p *printer) level() string  { return strings.Join(p.indent, "") }
func (p *printer) write(s string) { p.sb.WriteString(s) }

func (p *printer) writeArgs(vars []ast.Var) {
	p.write("(")
	for i, v := range vars {
		if i > 0 {
			p.write(", ")
		}
		p.write(v.Name)
	}
	p.write(")")
}

func (p *printer) visit(n ast.Node) {
	switch node := n.(type) {
	case nil:
		return

	case *ast.Program:
		p.visitProgram(node)
	case *ast.ClassDecl:
		p.visitClassDecl(node)
	case *ast.VarDecl:
		p.write("var ")
		p.write(node.Name.Name)
		p.write(";")
	case *ast.CtorDecl:
		p.write("constructor")
		p.writeArgs(node.Params)
		p.write(" is ")
		p.visit(node.Body)
		p.write(";")
	case *ast.MethodDecl:
		p.write("method ")
		p.write(node.Name.Name)
		p.writeArgs(node.Params)
		p.write(" is ")
		p.visit(node.Body)
		p.write(";")

	case *ast.Block:
		p.visitBlock(node)
	case *ast.IfThenElse:
		p.visitIfThenElse(node)
	case *ast.While:
		p.write("while ")
		p.visit(node.Bool)
		p.write(" do ")
		p.visit(node.Body)
	case *ast.Sequence:
		p.visitSequence(node)

	case *ast.Assign:
		p.write(node.Target.Name)
		p.write(" := ")
		p.visit(node.Rhs)
	case *ast.Skip:
		p.write("skip")
	case *ast.Return:
		p.write("return ")
		p.write(node.V.Name)

	case *ast.VarExpr:
		p.write(node.V.Name)
	case *ast.New:
		p.write("new ")
		p.write(node.ClassName.Name)
		p.writeArgs(node.Args)
	case *ast.Call:
		p.write(node.Target.Name)
		p.write(".")
		p.write(node.MethodName.Name)
		p.writeArgs(node.Args)

	case *ast.Eq:
		p.write(node.V1.Name)
		p.write(" = ")
		p.write(node.V2.Name)
	case *ast.Neq:
		p.write(node.V1.Name)
		p.write(" != ")
		p.write(node.V2.Name)

	case *ast.BlockScopedStatement:
		p.scopedBody("{", "}", node.Body)
	case *ast.MethodScopedStatement:
		p.scopedBody("[", "]", node.Body)

	case *ast.ReturnValue:
		p.write(fmt.Sprintf("<returned 0x%x>", uint64(node.Ref)))

	default:
		p.write(fmt.Sprintf("<unprintable %T>", n))
	}
}

func (p *printer) visitProgram(prog *ast.Program) {
	for _, cd := range prog.Classes {
		p.write(p.level())
		p.visit(cd)
		p.write("\n\n")
	}
	p.write(p.level())
	p.visit(prog.Initial)
	p.write("\n")
}

func (p *printer) visitClassDecl(cd *ast.ClassDecl) {
	p.write("class ")
	p.write(cd.Name.Name)
	p.write(" is begin\n")
	p.push()

	for _, v := range cd.Vars {
		p.write(p.level())
		p.write("var ")
		p.write(v.Name.Name)
		p.write(";\n")
	}
	if len(cd.Vars) > 0 {
		p.write("\n")
	}

	p.write(p.level())
	p.visit(cd.Ctor)
	p.write("\n")

	for _, m := range cd.Methods {
		p.write("\n")
		p.write(p.level())
		p.visit(m)
		p.write("\n")
	}

	p.pop()
	p.write(p.level())
	p.write("end;")
}

func (p *printer) visitBlock(b *ast.Block) {
	p.write("begin\n")
	p.push()

	for _, v := range b.DeclaredVars {
		p.write(p.level())
		p.write("var ")
		p.write(v.Name)
		p.write(";\n")
	}

	hasStmts := b.Seq != nil && len(b.Seq.Stmts) > 0
	if len(b.DeclaredVars) > 0 && hasStmts {
		p.write("\n")
	}

	p.visit(b.Seq)

	p.pop()
	p.write(p.level())
	p.write("end")
}

func (p *printer) visitSequence(seq *ast.Sequence) {
	for i, s := range seq.Stmts {
		p.write(p.level())
		p.visit(s)
		if i < len(seq.Stmts)-1 {
			p.write(";\n")
		} else {
			p.write("\n")
		}
	}
}

func (p *printer) visitIfThenElse(ite *ast.IfThenElse) {
	p.write("if ")
	p.visit(ite.Bool)
	p.write(" then\n")

	p.push()
	p.write(p.level())
	p.visit(ite.S1)
	p.pop()

	p.write("\n")
	p.write(p.level())
	p.write("else\n")

	p.push()
	p.write(p.level())
	p.visit(ite.S2)
	p.pop()
}

// scopedBody mirrors the reference printer's handling of `{...}` and
// `[...]` sugar: a Sequence body gets its own indented block, anything
// else prints inline between the delimiters.
func (p *printer) scopedBody(open, close string, body ast.Statement) {
	if seq, ok := body.(*ast.Sequence); ok {
		p.write(open + "\n")
		p.push()
		p.visit(seq)
		p.pop()
		p.write(p.level() + close)
		return
	}
	p.write(open + " ")
	p.visit(body)
	p.write(" " + close)
}
