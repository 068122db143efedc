package interp

import (
	classerrors "github.com/pdinges/classlang/internal/errors"
	"github.com/pdinges/classlang/internal/store"
)

// declare allocates a one-entry container object for each binding and
// points frame's slot of the same name at that container.
func (ip *Interpreter) declare(bindings map[string]store.Reference, frame store.Reference) error {
	fr, err := ip.Store.Get(frame)
	if err != nil {
		return err
	}
	for name, ref := range bindings {
		container := store.NewObject()
		container.State[name] = ref
		containerRef := ip.Store.Put(container)
		fr.State[name] = containerRef
	}
	return nil
}

// deref resolves variable x against frame (callers in this package pass
// the current fop), following the frame -> container -> value indirection.
func (ip *Interpreter) deref(x string, frame store.Reference) (store.Reference, error) {
	fr, err := ip.Store.Get(frame)
	if err != nil {
		return store.NilRef, classerrors.NewRuntimeError(
			classerrors.KindUndefinedName, 0, "undefined variable '"+x+"': enclosing frame is missing",
		)
	}

	containerRef, ok := fr.State[x]
	if !ok {
		return store.NilRef, classerrors.NewRuntimeError(
			classerrors.KindUndefinedName, 0, "undefined variable '"+x+"'",
		)
	}

	container, err := ip.Store.Get(containerRef)
	if err != nil {
		return store.NilRef, classerrors.NewRuntimeError(
			classerrors.KindUndefinedName, 0, "undefined variable '"+x+"': container is missing",
		)
	}

	val, ok := container.State[x]
	if !ok {
		return store.NilRef, classerrors.NewRuntimeError(
			classerrors.KindUndefinedName, 0, "undefined variable '"+x+"'",
		)
	}
	return val, nil
}

// framefrom builds a new frame whose every variable key of the object
// at ref resolves back to ref itself (so deref(x) lands on the
// object's own field), plus CLASS copied from the current frame. PREV
// is left unset; push sets it.
func (ip *Interpreter) framefrom(ref store.Reference) (*store.ClassObject, error) {
	obj, err := ip.Store.Get(ref)
	if err != nil {
		return nil, err
	}

	frame := store.NewObject()
	for key := range obj.State {
		if key == store.PREV || key == store.CLASS {
			continue
		}
		frame.State[key] = ref
	}

	cur, err := ip.Store.Get(ip.Fop)
	if err != nil {
		return nil, err
	}
	frame.State[store.CLASS] = cur.State[store.CLASS]

	return frame, nil
}

// push stores obj, chains its PREV to the current fop, and makes it
// the new fop.
func (ip *Interpreter) push(obj *store.ClassObject) store.Reference {
	ref := ip.Store.Put(obj)
	obj.State[store.PREV] = ip.Fop
	ip.Fop = ref
	return ref
}

// pop sets fop to its PREV.
func (ip *Interpreter) pop() error {
	cur, err := ip.Store.Get(ip.Fop)
	if err != nil {
		return err
	}
	ip.Fop = cur.State[store.PREV]
	return nil
}

// copyCurrentFrame duplicates the current frame object (used by [var] and
// [block], both of which "push a copy of the current frame" rather
// than a frame derived via framefrom).
func (ip *Interpreter) copyCurrentFrame() (*store.ClassObject, error) {
	cur, err := ip.Store.Get(ip.Fop)
	if err != nil {
		return nil, err
	}
	return cur.Copy(), nil
}
