// Package store implements the object store and reference allocator
// that the stepping interpreter mutates one step at a time.
package store

import (
	"fmt"

	"github.com/pdinges/classlang/internal/ast"
	classerrors "github.com/pdinges/classlang/internal/errors"
)

// Reference re-exports ast.Reference so callers outside the ast
// package never need to import it directly for this common type.
type Reference = ast.Reference

// NilRef is the "undefined reference" sentinel.
const NilRef = ast.NilRef

// Internalised state keys. Both start with a NUL byte so they can
// never collide with a parsed identifier.
const (
	PREV  = "\x00PREV"
	CLASS = "\x00CLASS"
)

// Method is a behaviour table entry: a method or constructor body
// together with its ordered parameter names.
type Method struct {
	Body   ast.Statement
	Params []string
}

// ClassObject is an object record in the store. State maps a
// variable key (plain name, or PREV/CLASS) to a Reference; Behaviour
// maps method name to its compiled body. Behaviour is immutable once
// an object exists — new bindings are never added to it after New or
// Put creates the object.
type ClassObject struct {
	State     map[string]Reference
	Behaviour map[string]Method
}

// NewObject returns an empty ClassObject ready to receive state.
func NewObject() *ClassObject {
	return &ClassObject{
		State:     make(map[string]Reference),
		Behaviour: make(map[string]Method),
	}
}

// Copy deep-copies State (each instance gets its own scope/field map)
// and shares Behaviour by reference: behaviour entries are immutable
// after creation, so sharing the map is safe and keeps method-body
// lookup stable across instances without a copy on every New.
func (o *ClassObject) Copy() *ClassObject {
	c := &ClassObject{
		State:     make(map[string]Reference, len(o.State)),
		Behaviour: o.Behaviour,
	}
	for k, v := range o.State {
		c.State[k] = v
	}
	return c
}

// Store is the mapping from Reference to ClassObject.
type Store struct {
	objects map[Reference]*ClassObject
	next    uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{objects: make(map[Reference]*ClassObject)}
}

// NewRef allocates a fresh reference, never equal to any existing one,
// without storing anything under it yet.
func (s *Store) NewRef() Reference {
	s.next++
	return Reference(s.next)
}

// Put allocates a reference and stores obj under it.
func (s *Store) Put(obj *ClassObject) Reference {
	ref := s.NewRef()
	s.objects[ref] = obj
	return ref
}

// Get fetches the object at ref, failing with missing-reference if
// absent.
func (s *Store) Get(ref Reference) (*ClassObject, error) {
	obj, ok := s.objects[ref]
	if !ok {
		return nil, classerrors.NewRuntimeError(
			classerrors.KindMissingReference, 0,
			fmt.Sprintf("reference %s is not present in the store", refString(ref)),
		)
	}
	return obj, nil
}

// Has reports whether ref currently names a live object.
func (s *Store) Has(ref Reference) bool {
	_, ok := s.objects[ref]
	return ok
}

// Setv merges partial into the state of the object at ref.
func (s *Store) Setv(partial map[string]Reference, ref Reference) error {
	obj, err := s.Get(ref)
	if err != nil {
		return err
	}
	for k, v := range partial {
		obj.State[k] = v
	}
	return nil
}

// Sweep deletes every entry not reachable from root by transitively
// following state references, including the internalised PREV and
// CLASS edges. It is never invoked automatically: the reference
// implementation's garbage-collection hook is defined but never
// called either, so this mirrors that and leaves invocation to the
// host, e.g. after a pop, to bound memory use.
func (s *Store) Sweep(root Reference) {
	reachable := s.collectReachable(root)
	for ref := range s.objects {
		if !reachable[ref] {
			delete(s.objects, ref)
		}
	}
}

func (s *Store) collectReachable(root Reference) map[Reference]bool {
	seen := map[Reference]bool{}
	var walk func(ref Reference)
	walk = func(ref Reference) {
		if ref == NilRef || seen[ref] {
			return
		}
		obj, ok := s.objects[ref]
		if !ok {
			return
		}
		seen[ref] = true
		for _, v := range obj.State {
			walk(v)
		}
	}
	walk(root)
	return seen
}

// Len reports the number of live objects, mainly for tests.
func (s *Store) Len() int { return len(s.objects) }

func refString(ref Reference) string {
	return fmt.Sprintf("0x%x", uint64(ref))
}

// RefString renders ref the way the inspector's "reference:" path
// segment and the label-free display name both expect.
func RefString(ref Reference) string {
	return refString(ref)
}
