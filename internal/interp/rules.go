package interp

import (
	"github.com/pdinges/classlang/internal/ast"
	classerrors "github.com/pdinges/classlang/internal/errors"
	"github.com/pdinges/classlang/internal/store"
)

// visitProgram implements [prog]: build the initial frame (a self-loop
// stack bottom), compile every class declaration into the store, wire
// the class registry into the frame, and hand control to the initial
// `new` expression.
func (ip *Interpreter) visitProgram(p *ast.Program) (ast.Node, error) {
	initFrame := store.NewObject()
	initRef := ip.Store.Put(initFrame)
	initFrame.State[store.PREV] = initRef // stack-bottom sentinel
	ip.Fop = initRef

	registry := store.NewObject()
	for _, cd := range p.Classes {
		proto := store.NewObject()
		for _, vd := range cd.Vars {
			proto.State[vd.Name.Name] = store.NilRef
		}
		for _, md := range cd.Methods {
			proto.Behaviour[md.Name.Name] = store.Method{
				Body:   md.Body,
				Params: varNames(md.Params),
			}
		}
		protoRef := ip.Store.Put(proto)

		classObj := store.NewObject()
		classObj.State["proto"] = protoRef
		classObj.Behaviour["ctor"] = store.Method{
			Body:   cd.Ctor.Body,
			Params: varNames(cd.Ctor.Params),
		}
		classRef := ip.Store.Put(classObj)

		registry.State[cd.Name.Name] = classRef
	}
	registryRef := ip.Store.Put(registry)
	initFrame.State[store.CLASS] = registryRef

	return p.Initial, nil
}

func varNames(vs []ast.Var) []string {
	if vs == nil {
		return nil
	}
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// visitVarExpr implements [var].
func (ip *Interpreter) visitVarExpr(v *ast.VarExpr) (ast.Node, error) {
	frame, err := ip.copyCurrentFrame()
	if err != nil {
		return nil, err
	}
	ip.push(frame)
	return &ast.MethodScopedStatement{
		Body: &ast.Return{V: v.V, P: v.P},
		P:    v.P,
	}, nil
}

// visitNew implements [new].
func (ip *Interpreter) visitNew(n *ast.New) (ast.Node, error) {
	curFrame, err := ip.Store.Get(ip.Fop)
	if err != nil {
		return nil, err
	}
	registry, err := ip.Store.Get(curFrame.State[store.CLASS])
	if err != nil {
		return nil, err
	}
	classRef, ok := registry.State[n.ClassName.Name]
	if !ok {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindUndefinedClass, 0,
			"undefined class '"+n.ClassName.Name+"'",
		)
	}
	classObj, err := ip.Store.Get(classRef)
	if err != nil {
		return nil, err
	}

	protoRef := classObj.State["proto"]
	proto, err := ip.Store.Get(protoRef)
	if err != nil {
		return nil, err
	}
	newObj := proto.Copy()
	newRef := ip.Store.Put(newObj)

	ctor := classObj.Behaviour["ctor"]
	if len(n.Args) != len(ctor.Params) {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindArityMismatch, 0,
			"constructor of '"+n.ClassName.Name+"' expects "+itoa(len(ctor.Params))+" argument(s), got "+itoa(len(n.Args)),
		)
	}

	bindings := make(map[string]store.Reference, len(ctor.Params)+1)
	for i, param := range ctor.Params {
		ref, err := ip.deref(n.Args[i].Name, ip.Fop)
		if err != nil {
			return nil, err
		}
		bindings[param] = ref
	}
	bindings["self"] = newRef

	frame, err := ip.framefrom(newRef)
	if err != nil {
		return nil, err
	}
	ip.push(frame)
	if err := ip.declare(bindings, ip.Fop); err != nil {
		return nil, err
	}

	body := ctor.Body.Copy().(ast.Statement)
	return &ast.MethodScopedStatement{
		Body: &ast.Sequence{
			Stmts: []ast.Statement{
				body,
				&ast.Return{V: ast.Var{Name: "self"}},
			},
		},
		P: n.P,
	}, nil
}

// visitCall implements [call].
func (ip *Interpreter) visitCall(c *ast.Call) (ast.Node, error) {
	targetRef, err := ip.deref(c.Target.Name, ip.Fop)
	if err != nil {
		return nil, err
	}
	obj, err := ip.Store.Get(targetRef)
	if err != nil {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindMissingReference, 0,
			"call target for '"+c.Target.Name+"' does not exist",
		)
	}

	method, ok := obj.Behaviour[c.MethodName.Name]
	if !ok {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindNoSuchMethod, 0,
			"no method '"+c.MethodName.Name+"' on '"+c.Target.Name+"'",
		)
	}
	if len(c.Args) != len(method.Params) {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindArityMismatch, 0,
			"method '"+c.MethodName.Name+"' expects "+itoa(len(method.Params))+" argument(s), got "+itoa(len(c.Args)),
		)
	}

	bindings := make(map[string]store.Reference, len(method.Params)+1)
	for i, param := range method.Params {
		ref, err := ip.deref(c.Args[i].Name, ip.Fop)
		if err != nil {
			return nil, err
		}
		bindings[param] = ref
	}
	bindings["self"] = targetRef

	frame, err := ip.framefrom(targetRef)
	if err != nil {
		return nil, err
	}
	ip.push(frame)
	if err := ip.declare(bindings, ip.Fop); err != nil {
		return nil, err
	}

	body := method.Body.Copy().(ast.Statement)
	return &ast.MethodScopedStatement{Body: body, P: c.P}, nil
}

// visitAssign implements [ass]. Rhs is either an Expression, descended
// into and left in place for further steps, or a ScopedStatement
// (the `x := [ ... ]` sugar), whose body is descended into directly —
// bypassing [subb]/[subc] — so that Assign itself controls the pop and
// the write-back into target's container.
func (ip *Interpreter) visitAssign(a *ast.Assign) (ast.Node, error) {
	switch rhs := a.Rhs.(type) {
	case *ast.VarExpr, *ast.New, *ast.Call:
		newRhs, err := ip.visit(a.Rhs)
		if err != nil {
			return nil, err
		}
		a.Rhs = newRhs
		return a, nil

	case *ast.BlockScopedStatement:
		return ip.visitAssignScoped(a, rhs.Body, func(b ast.Statement) { rhs.Body = b })

	case *ast.MethodScopedStatement:
		return ip.visitAssignScoped(a, rhs.Body, func(b ast.Statement) { rhs.Body = b })

	default:
		return nil, classerrors.NewRuntimeError(
			classerrors.KindMissingReference, 0,
			"assignment right-hand side has no transition rule",
		)
	}
}

func (ip *Interpreter) visitAssignScoped(a *ast.Assign, body ast.Statement, setBody func(ast.Statement)) (ast.Node, error) {
	if body == nil {
		// Already void; only a ReturnValue body triggers the
		// pop-and-write-back. A void scoped body leaves Assign as-is.
		return a, nil
	}

	result, err := ip.visit(body)
	if err != nil {
		return nil, err
	}

	if result == nil {
		setBody(nil)
		return a, nil
	}

	rv, isReturn := result.(*ast.ReturnValue)
	if !isReturn {
		setBody(result.(ast.Statement))
		return a, nil
	}

	if err := ip.pop(); err != nil {
		return nil, err
	}
	containerRef, ok := func() (store.Reference, bool) {
		fr, err := ip.Store.Get(ip.Fop)
		if err != nil {
			return store.NilRef, false
		}
		ref, ok := fr.State[a.Target.Name]
		return ref, ok
	}()
	if !ok {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindUndefinedName, 0,
			"undefined variable '"+a.Target.Name+"'",
		)
	}
	if err := ip.Store.Setv(map[string]store.Reference{a.Target.Name: rv.Ref}, containerRef); err != nil {
		return nil, err
	}
	setBody(rv)
	return nil, nil
}

// visitSkip implements [skip].
func (ip *Interpreter) visitSkip(*ast.Skip) (ast.Node, error) {
	return nil, nil
}

// visitReturn implements [return].
func (ip *Interpreter) visitReturn(r *ast.Return) (ast.Node, error) {
	ref, err := ip.deref(r.V.Name, ip.Fop)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnValue{Ref: ref, P: r.P}, nil
}

// visitBlock implements [block].
func (ip *Interpreter) visitBlock(b *ast.Block) (ast.Node, error) {
	frame, err := ip.copyCurrentFrame()
	if err != nil {
		return nil, err
	}
	ip.push(frame)

	bindings := make(map[string]store.Reference, len(b.DeclaredVars))
	for _, v := range b.DeclaredVars {
		bindings[v.Name] = store.NilRef
	}
	if err := ip.declare(bindings, ip.Fop); err != nil {
		return nil, err
	}

	return &ast.BlockScopedStatement{Body: b.Seq, P: b.P}, nil
}

// visitIfThenElse implements [if]: reference-identity comparison, not
// structural equality.
func (ip *Interpreter) visitIfThenElse(ite *ast.IfThenElse) (ast.Node, error) {
	holds, err := ip.evalBool(ite.Bool)
	if err != nil {
		return nil, err
	}
	if holds {
		return ite.S1, nil
	}
	return ite.S2, nil
}

func (ip *Interpreter) evalBool(b ast.BoolExpr) (bool, error) {
	switch be := b.(type) {
	case *ast.Eq:
		r1, err := ip.deref(be.V1.Name, ip.Fop)
		if err != nil {
			return false, err
		}
		r2, err := ip.deref(be.V2.Name, ip.Fop)
		if err != nil {
			return false, err
		}
		return r1 == r2, nil
	case *ast.Neq:
		r1, err := ip.deref(be.V1.Name, ip.Fop)
		if err != nil {
			return false, err
		}
		r2, err := ip.deref(be.V2.Name, ip.Fop)
		if err != nil {
			return false, err
		}
		return r1 != r2, nil
	default:
		return false, classerrors.NewRuntimeError(
			classerrors.KindMissingReference, 0, "unrecognised boolean expression",
		)
	}
}

// visitWhile implements [while]: the residual IfThenElse re-reaches
// the very same While node, not a copy, so repeated unrolling never
// grows the AST.
func (ip *Interpreter) visitWhile(w *ast.While) (ast.Node, error) {
	bodyCopy := w.Body.Copy().(ast.Statement)
	return &ast.IfThenElse{
		Bool: w.Bool,
		S1: &ast.Sequence{
			Stmts: []ast.Statement{bodyCopy, w},
			P:     w.P,
		},
		S2: &ast.Skip{P: w.P},
		P:  w.P,
	}, nil
}

// visitSequence implements [seq]: leftmost-outermost reduction with
// return-value short-circuiting and flattening of singleton sequences.
func (ip *Interpreter) visitSequence(seq *ast.Sequence) (ast.Node, error) {
	if len(seq.Stmts) == 0 {
		return nil, nil
	}

	result, err := ip.visit(seq.Stmts[0])
	if err != nil {
		return nil, err
	}

	if result == nil {
		seq.Stmts = seq.Stmts[1:]
	} else if rv, ok := result.(*ast.ReturnValue); ok {
		return rv, nil
	} else {
		seq.Stmts[0] = result.(ast.Statement)
	}

	switch len(seq.Stmts) {
	case 0:
		return nil, nil
	case 1:
		return seq.Stmts[0], nil
	default:
		return seq, nil
	}
}

// visitBlockScoped implements [subb].
func (ip *Interpreter) visitBlockScoped(b *ast.BlockScopedStatement) (ast.Node, error) {
	newBody, err := ip.visit(b.Body)
	if err != nil {
		return nil, err
	}

	if newBody == nil {
		if err := ip.pop(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if rv, ok := newBody.(*ast.ReturnValue); ok {
		if err := ip.pop(); err != nil {
			return nil, err
		}
		return rv, nil
	}

	b.Body = newBody.(ast.Statement)
	return b, nil
}

// visitMethodScoped implements [subc].
func (ip *Interpreter) visitMethodScoped(m *ast.MethodScopedStatement) (ast.Node, error) {
	newBody, err := ip.visit(m.Body)
	if err != nil {
		return nil, err
	}

	if newBody == nil {
		if err := ip.pop(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if rv, ok := newBody.(*ast.ReturnValue); ok {
		if err := ip.pop(); err != nil {
			return nil, err
		}
		return rv, nil
	}

	m.Body = newBody.(ast.Statement)
	return m, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
