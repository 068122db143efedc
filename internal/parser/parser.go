// Package parser implements a recursive-descent parser for the Class
// language.
package parser

import (
	"fmt"

	"github.com/pdinges/classlang/internal/ast"
	classerrors "github.com/pdinges/classlang/internal/errors"
	"github.com/pdinges/classlang/internal/lexer"
)

// Parser turns a token stream from a Lexer into a *ast.Program. It is
// total on success: Parse either returns a complete, well-formed tree
// or a *classerrors.ParseError, never a partial tree.
type Parser struct {
	l      *lexer.Lexer
	source string

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser that scans source with its own Lexer.
func New(source string) *Parser {
	p := &Parser{l: lexer.New(source), source: source}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return classerrors.NewParseError(p.cur.Pos, fmt.Sprintf(format, args...), p.source)
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, p.errorf("expected %s, found %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.cur.Type == t }

// Parse parses a complete program: one or more class declarations
// followed by a single `new` expression.
func Parse(source string) (*ast.Program, error) {
	p := New(source)
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{P: p.cur.Pos}

	for p.curIs(lexer.CLASS) {
		cd, err := p.parseClassDecl()
		if err != nil {
			return nil, err
		}
		prog.Classes = append(prog.Classes, cd)
	}

	if len(prog.Classes) == 0 {
		return nil, p.errorf("expected at least one class declaration")
	}

	initial, err := p.parseNewExpr()
	if err != nil {
		return nil, err
	}
	prog.Initial = initial

	if !p.curIs(lexer.EOF) {
		return nil, p.errorf("unexpected trailing input %q after initial statement", p.cur.Literal)
	}

	return prog, nil
}

// parseClassDecl parses `class name is begin vardecl* ctordecl mdecl*
// end ;`.
func (p *Parser) parseClassDecl() (*ast.ClassDecl, error) {
	startPos := p.cur.Pos
	if _, err := p.expect(lexer.CLASS); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IS); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.BEGIN); err != nil {
		return nil, err
	}

	cd := &ast.ClassDecl{Name: name, P: startPos}

	for p.curIs(lexer.VAR) {
		vd, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		cd.Vars = append(cd.Vars, vd)
	}

	ctor, err := p.parseCtorDecl()
	if err != nil {
		return nil, err
	}
	cd.Ctor = ctor

	for p.curIs(lexer.METHOD) {
		md, err := p.parseMethodDecl()
		if err != nil {
			return nil, err
		}
		cd.Methods = append(cd.Methods, md)
	}

	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}

	return cd, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	startPos := p.cur.Pos
	if _, err := p.expect(lexer.VAR); err != nil {
		return nil, err
	}
	name, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name, P: startPos}, nil
}

func (p *Parser) parseCtorDecl() (*ast.CtorDecl, error) {
	startPos := p.cur.Pos
	if _, err := p.expect(lexer.CONSTRUCTOR); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IS); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.CtorDecl{Params: params, Body: body, P: startPos}, nil
}

func (p *Parser) parseMethodDecl() (*ast.MethodDecl, error) {
	startPos := p.cur.Pos
	if _, err := p.expect(lexer.METHOD); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IS); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.MethodDecl{Name: name, Params: params, Body: body, P: startPos}, nil
}

// parseParamList parses `'(' names? ')'`.
func (p *Parser) parseParamList() ([]ast.Var, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Var
	for !p.curIs(lexer.RPAREN) {
		v, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		params = append(params, v)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseArgList parses `'(' vars? ')'`, the argument list of New/Call.
func (p *Parser) parseArgList() ([]ast.Var, error) {
	return p.parseParamList()
}

func (p *Parser) parseIdent() (ast.Ident, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Name: tok.Literal, P: tok.Pos}, nil
}

func (p *Parser) parseVar() (ast.Var, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return ast.Var{}, err
	}
	return ast.Var{Name: tok.Literal, P: tok.Pos}, nil
}

// parseStmt parses a single statement: `stmt := assign | skip | return
// var | block | if | while | expr`, plus the scoped-statement sugar
// `{ ... }` / `[ ... ]` accepted as statements for completeness.
func (p *Parser) parseStmt() (ast.Statement, error) {
	switch p.cur.Type {
	case lexer.SKIP:
		tok := p.cur
		p.next()
		return &ast.Skip{P: tok.Pos}, nil

	case lexer.RETURN:
		tok := p.cur
		p.next()
		v, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return &ast.Return{V: v, P: tok.Pos}, nil

	case lexer.BEGIN:
		return p.parseBlock()

	case lexer.IF:
		return p.parseIfThenElse()

	case lexer.WHILE:
		return p.parseWhile()

	case lexer.LBRACE:
		return p.parseBlockScoped()

	case lexer.LBRACK:
		return p.parseMethodScoped()

	case lexer.NEW:
		return p.parseNewExpr()

	case lexer.IDENT:
		return p.parseAssignOrExprStmt()

	default:
		return nil, p.errorf("unexpected token %q at start of statement", p.cur.Literal)
	}
}

// parseAssignOrExprStmt disambiguates `name := rhs` from a bare
// `var`/`call` expression statement; both start with IDENT.
func (p *Parser) parseAssignOrExprStmt() (ast.Statement, error) {
	startTok := p.cur
	name, err := p.parseVar()
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case lexer.ASSIGN:
		p.next()
		rhs, err := p.parseAssignRhs()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: name, Rhs: rhs, P: startTok.Pos}, nil

	case lexer.DOT:
		call, err := p.parseCallTail(name, startTok.Pos)
		if err != nil {
			return nil, err
		}
		return call, nil

	default:
		return &ast.VarExpr{V: name, P: startTok.Pos}, nil
	}
}

// parseAssignRhs parses `expr | mscope`.
func (p *Parser) parseAssignRhs() (ast.Node, error) {
	if p.curIs(lexer.LBRACK) {
		return p.parseMethodScoped()
	}
	return p.parseExpr()
}

// parseExpr parses `expr := 'new' name '(' vars? ')' | var '.' name
// '(' vars? ')' | var`.
func (p *Parser) parseExpr() (ast.Expression, error) {
	if p.curIs(lexer.NEW) {
		return p.parseNewExpr()
	}

	startTok := p.cur
	v, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.DOT) {
		return p.parseCallTail(v, startTok.Pos)
	}
	return &ast.VarExpr{V: v, P: startTok.Pos}, nil
}

func (p *Parser) parseNewExpr() (*ast.New, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.NEW); err != nil {
		return nil, err
	}
	className, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.New{ClassName: className, Args: args, P: startTok.Pos}, nil
}

func (p *Parser) parseCallTail(target ast.Var, startPos lexer.Position) (*ast.Call, error) {
	if _, err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	methodName, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Target: target, MethodName: methodName, Args: args, P: startPos}, nil
}

// parseBlock parses `'begin' vardecl* seq 'end'`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.BEGIN); err != nil {
		return nil, err
	}

	var declared []ast.Var
	for p.curIs(lexer.VAR) {
		vd, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		declared = append(declared, vd.Name)
	}

	seq, err := p.parseSequence(lexer.END)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}

	return &ast.Block{DeclaredVars: declared, Seq: seq, P: startTok.Pos}, nil
}

// parseSequence parses `stmt (';' stmt)*`, stopping once the stop
// token is seen.
func (p *Parser) parseSequence(stop lexer.TokenType) (*ast.Sequence, error) {
	seqPos := p.cur.Pos
	seq := &ast.Sequence{P: seqPos}

	if p.curIs(stop) {
		return seq, nil
	}

	for {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		seq.Stmts = append(seq.Stmts, stmt)

		if p.curIs(lexer.SEMI) {
			p.next()
			if p.curIs(stop) {
				break
			}
			continue
		}
		break
	}

	return seq, nil
}

func (p *Parser) parseIfThenElse() (*ast.IfThenElse, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.IF); err != nil {
		return nil, err
	}
	b, err := p.parseBool()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	s1, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	s2, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.IfThenElse{Bool: b, S1: s1, S2: s2, P: startTok.Pos}, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.WHILE); err != nil {
		return nil, err
	}
	b, err := p.parseBool()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DO); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.While{Bool: b, Body: body, P: startTok.Pos}, nil
}

// parseBool parses `var '=' var | var '!=' var`.
func (p *Parser) parseBool() (ast.BoolExpr, error) {
	startTok := p.cur
	v1, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case lexer.EQ:
		p.next()
		v2, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return &ast.Eq{V1: v1, V2: v2, P: startTok.Pos}, nil
	case lexer.NEQ:
		p.next()
		v2, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return &ast.Neq{V1: v1, V2: v2, P: startTok.Pos}, nil
	default:
		return nil, p.errorf("expected '=' or '!=', found %q", p.cur.Literal)
	}
}

// parseBlockScoped parses the `{ sstmt }` sugar.
func (p *Parser) parseBlockScoped() (*ast.BlockScopedStatement, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseSequence(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.BlockScopedStatement{Body: flattenSingleton(body), P: startTok.Pos}, nil
}

// parseMethodScoped parses the `[ sstmt ]` sugar.
func (p *Parser) parseMethodScoped() (*ast.MethodScopedStatement, error) {
	startTok := p.cur
	if _, err := p.expect(lexer.LBRACK); err != nil {
		return nil, err
	}
	body, err := p.parseSequence(lexer.RBRACK)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACK); err != nil {
		return nil, err
	}
	return &ast.MethodScopedStatement{Body: flattenSingleton(body), P: startTok.Pos}, nil
}

// flattenSingleton unwraps a one-statement Sequence so that `{ skip }`
// parses to the same tree as a bare `skip` would if it could appear
// there; the stepping interpreter's [seq] rule would flatten it on its
// own eventually, but doing it here keeps freshly parsed sugar as
// round-trippable as freshly reduced sugar.
func flattenSingleton(seq *ast.Sequence) ast.Statement {
	if len(seq.Stmts) == 1 {
		return seq.Stmts[0]
	}
	return seq
}
