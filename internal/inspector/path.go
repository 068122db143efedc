package inspector

import (
	"strings"

	classerrors "github.com/pdinges/classlang/internal/errors"
)

// SegmentKind distinguishes the recognised object-path segment types.
type SegmentKind int

const (
	SegPlain SegmentKind = iota
	SegInternal
	SegLabel
	SegReference
)

// Segment is one dot-separated component of an object path.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// ParsePath splits a dot-joined object path into segments. A leading
// "." (meaning "the current frame") is optional and has no resolution
// effect of its own, since resolution always starts at the current
// frame object pointer regardless.
func ParsePath(raw string) ([]Segment, error) {
	trimmed := strings.TrimPrefix(raw, ".")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ".")
	segs := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, classerrors.NewPathError("", "empty path segment")
		}
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSegment(part string) (Segment, error) {
	typ, value, hasType := strings.Cut(part, ":")
	if !hasType {
		return Segment{Kind: SegPlain, Value: part}, nil
	}
	switch strings.ToLower(typ) {
	case "internal", "i", "int":
		return Segment{Kind: SegInternal, Value: value}, nil
	case "label", "l":
		return Segment{Kind: SegLabel, Value: value}, nil
	case "reference", "r", "ref":
		return Segment{Kind: SegReference, Value: value}, nil
	default:
		return Segment{}, classerrors.NewPathError(part, "unrecognised segment type '"+typ+"'")
	}
}
