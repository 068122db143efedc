package store

import "testing"

func TestPutGetRoundTrip(t *testing.T) {
	s := New()
	obj := NewObject()
	obj.State["x"] = Reference(42)

	ref := s.Put(obj)
	got, err := s.Get(ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.State["x"] != Reference(42) {
		t.Fatalf("expected state['x']=42, got %v", got.State["x"])
	}
}

func TestGetMissingReferenceErrors(t *testing.T) {
	s := New()
	_, err := s.Get(Reference(999))
	if err == nil {
		t.Fatalf("expected an error for a missing reference")
	}
}

func TestNewRefNeverCollides(t *testing.T) {
	s := New()
	seen := map[Reference]bool{}
	for i := 0; i < 100; i++ {
		r := s.NewRef()
		if seen[r] {
			t.Fatalf("NewRef produced a duplicate reference %v", r)
		}
		seen[r] = true
	}
}

func TestHasReflectsLiveness(t *testing.T) {
	s := New()
	ref := s.Put(NewObject())
	if !s.Has(ref) {
		t.Fatalf("expected Has to report true for a live reference")
	}
	if s.Has(Reference(9999)) {
		t.Fatalf("expected Has to report false for an unknown reference")
	}
}

func TestSetvMergesIntoExistingState(t *testing.T) {
	s := New()
	ref := s.Put(NewObject())

	if err := s.Setv(map[string]Reference{"a": 1, "b": 2}, ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ := s.Get(ref)
	if obj.State["a"] != 1 || obj.State["b"] != 2 {
		t.Fatalf("expected merged state, got %+v", obj.State)
	}

	if err := s.Setv(map[string]Reference{"a": 99}, ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ = s.Get(ref)
	if obj.State["a"] != 99 || obj.State["b"] != 2 {
		t.Fatalf("expected overwrite-in-place merge, got %+v", obj.State)
	}
}

func TestClassObjectCopySharesBehaviourDeepCopiesState(t *testing.T) {
	proto := NewObject()
	proto.State["n"] = Reference(7)
	proto.Behaviour["inc"] = Method{Params: []string{"x"}}

	c := proto.Copy()
	c.State["n"] = Reference(99)
	if proto.State["n"] != Reference(7) {
		t.Fatalf("Copy shared State: original mutated to %v", proto.State["n"])
	}

	c.Behaviour["dec"] = Method{}
	if _, ok := proto.Behaviour["dec"]; !ok {
		t.Fatalf("expected Behaviour to be shared by reference across Copy")
	}
}

func TestSweepDeletesUnreachableObjects(t *testing.T) {
	s := New()
	kept := s.Put(NewObject())
	orphan := s.Put(NewObject())

	root := NewObject()
	root.State["kept"] = kept
	rootRef := s.Put(root)

	s.Sweep(rootRef)

	if !s.Has(rootRef) {
		t.Fatalf("expected root to survive sweep")
	}
	if !s.Has(kept) {
		t.Fatalf("expected transitively reachable object to survive sweep")
	}
	if s.Has(orphan) {
		t.Fatalf("expected unreachable object to be collected")
	}
}

func TestSweepFollowsInternalisedKeys(t *testing.T) {
	s := New()
	classObj := s.Put(NewObject())

	frame := NewObject()
	frame.State[CLASS] = classObj
	frameRef := s.Put(frame)

	s.Sweep(frameRef)

	if !s.Has(classObj) {
		t.Fatalf("expected object reachable only via the internalised CLASS key to survive sweep")
	}
}

func TestLenReportsLiveObjectCount(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Fatalf("expected empty store to have length 0, got %d", s.Len())
	}
	s.Put(NewObject())
	s.Put(NewObject())
	if s.Len() != 2 {
		t.Fatalf("expected length 2, got %d", s.Len())
	}
}

func TestRefStringFormatsAsHex(t *testing.T) {
	if got := RefString(Reference(255)); got != "0xff" {
		t.Fatalf("expected '0xff', got %q", got)
	}
}
