package inspector

import "testing"

func TestParsePathEmptyAndCurrentFrame(t *testing.T) {
	for _, raw := range []string{"", "."} {
		segs, err := ParsePath(raw)
		if err != nil {
			t.Fatalf("ParsePath(%q): unexpected error: %v", raw, err)
		}
		if len(segs) != 0 {
			t.Fatalf("ParsePath(%q): expected no segments, got %+v", raw, segs)
		}
	}
}

func TestParsePathPlainSegments(t *testing.T) {
	segs, err := ParsePath("a.b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, name := range []string{"a", "b", "c"} {
		if segs[i].Kind != SegPlain || segs[i].Value != name {
			t.Fatalf("segment %d: expected plain %q, got %+v", i, name, segs[i])
		}
	}
}

func TestParsePathLeadingDotIsOptional(t *testing.T) {
	withDot, err := ParsePath(".a.b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutDot, err := ParsePath("a.b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(withDot) != len(withoutDot) {
		t.Fatalf("expected leading '.' to be a no-op, got %+v vs %+v", withDot, withoutDot)
	}
}

func TestParsePathTypedSegments(t *testing.T) {
	tests := []struct {
		raw  string
		kind SegmentKind
		val  string
	}{
		{"internal:class", SegInternal, "class"},
		{"i:prev", SegInternal, "prev"},
		{"label:foo", SegLabel, "foo"},
		{"l:foo", SegLabel, "foo"},
		{"reference:0x2a", SegReference, "0x2a"},
		{"ref:42", SegReference, "42"},
	}
	for _, tt := range tests {
		segs, err := ParsePath(tt.raw)
		if err != nil {
			t.Fatalf("ParsePath(%q): unexpected error: %v", tt.raw, err)
		}
		if len(segs) != 1 || segs[0].Kind != tt.kind || segs[0].Value != tt.val {
			t.Fatalf("ParsePath(%q): expected {%v %q}, got %+v", tt.raw, tt.kind, tt.val, segs)
		}
	}
}

func TestParsePathRejectsUnknownSegmentType(t *testing.T) {
	_, err := ParsePath("bogus:x")
	if err == nil {
		t.Fatalf("expected an error for an unrecognised segment type")
	}
}

func TestParsePathRejectsEmptySegment(t *testing.T) {
	_, err := ParsePath("a..b")
	if err == nil {
		t.Fatalf("expected an error for an empty path segment")
	}
}
