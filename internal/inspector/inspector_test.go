package inspector

import (
	"testing"

	"github.com/pdinges/classlang/internal/interp"
	"github.com/pdinges/classlang/internal/parser"
	"github.com/pdinges/classlang/internal/store"
)

// newAtConstructorEntry parses src, steps the program-level rule plus
// the New rule, and returns an Interpreter positioned inside the fresh
// constructor frame (where "self" is bound).
func newAtConstructorEntry(t *testing.T, src string) *interp.Interpreter {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ip := interp.New(prog)
	for i := 0; i < 2; i++ {
		if _, err := ip.Step(); err != nil {
			t.Fatalf("unexpected error on setup step %d: %v", i, err)
		}
	}
	return ip
}

const taggedClassSrc = `class A is begin
  var tag;

  constructor() is skip;
end;

new A()`

func TestResolveCurrentFrameDefaultsToFop(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	ref, err := in.Resolve(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != ip.Fop {
		t.Fatalf("expected Resolve(\".\") to return the current frame pointer")
	}
}

func TestResolvePlainSegmentFollowsContainerIndirection(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	selfRef, err := in.Resolve("self")
	if err != nil {
		t.Fatalf("unexpected error resolving 'self': %v", err)
	}
	if !ip.Store.Has(selfRef) {
		t.Fatalf("expected 'self' to resolve to a live object")
	}

	tagRef, err := in.Resolve("tag")
	if err != nil {
		t.Fatalf("unexpected error resolving 'tag': %v", err)
	}
	if tagRef != store.NilRef {
		t.Fatalf("expected freshly constructed 'tag' to resolve to NilRef, got %v", tagRef)
	}
}

func TestResolveInternalSegmentReadsDirectly(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	ref, err := in.Resolve("internal:class")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame, err := ip.Store.Get(ip.Fop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != frame.State[store.CLASS] {
		t.Fatalf("expected internal:class to read frame.State[CLASS] directly")
	}
}

func TestResolveUnknownPlainVariableIsPathError(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	_, err := in.Resolve("nonexistent")
	if err == nil {
		t.Fatalf("expected an error resolving an undefined variable")
	}
}

func TestLabelAndResolveLabelSegment(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	if err := in.Label("self", "obj"); err != nil {
		t.Fatalf("unexpected error labeling: %v", err)
	}

	direct, err := in.Resolve("self")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viaLabel, err := in.Resolve("label:obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if direct != viaLabel {
		t.Fatalf("expected label:obj to resolve to the same reference as 'self'")
	}
}

func TestResolveUnknownLabelIsUnknownLabelError(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	_, err := in.Resolve("label:missing")
	if err == nil {
		t.Fatalf("expected an error for an unknown label")
	}
}

func TestUnlabelByNameAndByPath(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	if err := in.Label("self", "obj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Unlabel("obj")
	if _, err := in.Resolve("label:obj"); err == nil {
		t.Fatalf("expected label 'obj' to be gone after Unlabel by name")
	}

	if err := in.Label("self", "obj2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Unlabel("self")
	if _, err := in.Resolve("label:obj2"); err == nil {
		t.Fatalf("expected label 'obj2' to be gone after Unlabel by path")
	}
}

func TestUnlabelUnknownNameIsNoop(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)
	in.Unlabel("does-not-exist")
}

func TestLabelsReturnsSortedNames(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	if err := in.Label("self", "zeta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := in.Label(".", "alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := in.Labels()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("expected sorted [alpha zeta], got %v", names)
	}
}

func TestInspectReportsNilForDanglingState(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	objs, err := in.Inspect("self", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) == 0 {
		t.Fatalf("expected at least one object")
	}
	if objs[0].State["tag"] != "NIL" {
		t.Fatalf("expected freshly constructed 'tag' field to display as NIL, got %q", objs[0].State["tag"])
	}
}

func TestInspectDepthZeroReturnsOnlyStart(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	objs, err := in.Inspect(".", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected exactly 1 object at depth 0, got %d", len(objs))
	}
}

// TestResolveChainedPlainSegmentsUseDirectFieldLookup exercises the
// case where two sibling fields of the same object end up aliasing the
// same reference: "self.a" and "self.b" must resolve identically. The
// first segment ("self") goes through the frame -> container -> value
// indirection; the second ("a" or "b") must read the object's own
// state directly instead of treating the object as another container.
func TestResolveChainedPlainSegmentsUseDirectFieldLookup(t *testing.T) {
	src := `class C is begin
  var a; var b;
  constructor() is begin a := new D(); b := a end;
end;
class D is begin constructor() is skip; end;
new C()`
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ip := interp.New(prog)
	in := New(ip)

	found := false
	for i := 0; i < 200 && !ip.Done(); i++ {
		aRef, aErr := in.Resolve("self.a")
		bRef, bErr := in.Resolve("self.b")
		if aErr == nil && bErr == nil && aRef != store.NilRef && bRef != store.NilRef {
			if aRef != bRef {
				t.Fatalf("expected self.a and self.b to resolve to the same reference, got %v and %v", aRef, bRef)
			}
			found = true
			break
		}
		if _, err := ip.Step(); err != nil {
			t.Fatalf("unexpected step error: %v", err)
		}
	}
	if !found {
		t.Fatalf("self.a and self.b never both resolved to the same non-nil reference")
	}
}

// TestSelfChainAcrossRecursiveConstructionSurvivesSweep exercises
// scenario (e): a constructor that builds a fresh instance of its own
// class before returning. At any snapshot during that unbounded
// recursion, the frame stack holds one paused "self" per constructor
// invocation so far, chained via PREV back to the initial frame. Every
// one of those objects must be distinct, and a sweep rooted at fop
// must remove none of them.
func TestSelfChainAcrossRecursiveConstructionSurvivesSweep(t *testing.T) {
	src := `class C is begin
  var x;
  constructor() is x := new C();
  method id() is return self;
end;

new C()`
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ip := interp.New(prog)

	for i := 0; i < 150; i++ {
		if _, err := ip.Step(); err != nil {
			t.Fatalf("unexpected step error: %v", err)
		}
	}

	var selves []store.Reference
	seen := map[store.Reference]bool{}
	for frameRef := ip.Fop; ; {
		frame, err := ip.Store.Get(frameRef)
		if err != nil {
			t.Fatalf("unexpected error walking the frame stack: %v", err)
		}
		if containerRef, ok := frame.State["self"]; ok {
			if container, err := ip.Store.Get(containerRef); err == nil {
				if selfRef, ok := container.State["self"]; ok && !seen[selfRef] {
					seen[selfRef] = true
					selves = append(selves, selfRef)
				}
			}
		}
		prev := frame.State[store.PREV]
		if prev == frameRef {
			break
		}
		frameRef = prev
	}

	if len(selves) < 2 {
		t.Fatalf("expected at least 2 distinct recursively constructed instances on the frame stack, got %d", len(selves))
	}

	ip.Store.Sweep(ip.Fop)
	for i, ref := range selves {
		if !ip.Store.Has(ref) {
			t.Fatalf("expected recursively constructed instance #%d to survive sweep as reachable from fop", i)
		}
	}
}

func TestInspectNameForUsesFirstMatchingLabel(t *testing.T) {
	ip := newAtConstructorEntry(t, taggedClassSrc)
	in := New(ip)

	if err := in.Label("self", "obj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	objs, err := in.Inspect("self", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if objs[0].Name != "obj" {
		t.Fatalf("expected labeled object to display as 'obj', got %q", objs[0].Name)
	}
}
