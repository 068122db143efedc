// Package inspector resolves human-written object paths against a
// running interpreter's store, maintains a label table mapping names
// to references, and snapshots object subgraphs for display.
package inspector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	classerrors "github.com/pdinges/classlang/internal/errors"
	"github.com/pdinges/classlang/internal/interp"
	"github.com/pdinges/classlang/internal/store"
)

// MethodSignature names a method and its parameters for display.
type MethodSignature struct {
	Name   string
	Params []string
}

// Object is a snapshot of a single store object: its display name, its
// state rendered as displayKey -> displayValue pairs, and its sorted
// behaviour table.
type Object struct {
	Name      string
	State     map[string]string
	Behaviour []MethodSignature
}

// Inspector resolves object paths and owns the label table for one
// running interpreter.
type Inspector struct {
	ip     *interp.Interpreter
	order  []string
	labels map[string]store.Reference
}

// New creates an Inspector over ip. The label table starts empty.
func New(ip *interp.Interpreter) *Inspector {
	return &Inspector{ip: ip, labels: make(map[string]store.Reference)}
}

// Resolve walks path's segments starting from the interpreter's current
// frame object pointer, returning the reference the path denotes. Only
// the first plain segment is resolved against a genuine frame (the
// frame -> container -> value indirection declare sets up); every
// later plain segment is resolved against a plain ClassObject, whose
// state holds member values directly, so it takes a single direct
// lookup instead.
func (in *Inspector) Resolve(path string) (store.Reference, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return store.NilRef, err
	}

	ref := in.ip.Fop
	firstPlainSeen := false
	for _, seg := range segs {
		switch seg.Kind {
		case SegPlain:
			var next store.Reference
			var err error
			if !firstPlainSeen {
				next, err = in.derefAgainst(ref, seg.Value)
				firstPlainSeen = true
			} else {
				next, err = in.derefField(ref, seg.Value)
			}
			if err != nil {
				return store.NilRef, classerrors.NewPathError(seg.Value, err.Error())
			}
			ref = next

		case SegInternal:
			key, err := internalKey(seg.Value)
			if err != nil {
				return store.NilRef, classerrors.NewPathError(seg.Value, err.Error())
			}
			obj, err := in.ip.Store.Get(ref)
			if err != nil {
				return store.NilRef, classerrors.NewPathError(seg.Value, "enclosing object is missing")
			}
			v, ok := obj.State[key]
			if !ok {
				return store.NilRef, classerrors.NewPathError(seg.Value, "internal key is not set on this object")
			}
			ref = v

		case SegLabel:
			v, ok := in.labels[seg.Value]
			if !ok {
				return store.NilRef, classerrors.NewUnknownLabelError(seg.Value)
			}
			ref = v

		case SegReference:
			v, err := parseRefLiteral(seg.Value)
			if err != nil {
				return store.NilRef, classerrors.NewPathError(seg.Value, err.Error())
			}
			ref = v
		}
	}
	return ref, nil
}

// derefAgainst resolves name against frame via the frame -> container ->
// value indirection, the same lookup the interpreter's own deref
// performs when stepping.
func (in *Inspector) derefAgainst(frame store.Reference, name string) (store.Reference, error) {
	fr, err := in.ip.Store.Get(frame)
	if err != nil {
		return store.NilRef, fmt.Errorf("enclosing frame is missing")
	}
	containerRef, ok := fr.State[name]
	if !ok {
		return store.NilRef, fmt.Errorf("undefined variable '%s'", name)
	}
	container, err := in.ip.Store.Get(containerRef)
	if err != nil {
		return store.NilRef, fmt.Errorf("container for '%s' is missing", name)
	}
	val, ok := container.State[name]
	if !ok {
		return store.NilRef, fmt.Errorf("undefined variable '%s'", name)
	}
	return val, nil
}

// derefField resolves name as a direct field of the object at ref —
// the one-hop lookup that applies once the path has moved past the
// initial frame onto an ordinary object's own state.
func (in *Inspector) derefField(ref store.Reference, name string) (store.Reference, error) {
	obj, err := in.ip.Store.Get(ref)
	if err != nil {
		return store.NilRef, fmt.Errorf("enclosing object is missing")
	}
	val, ok := obj.State[name]
	if !ok {
		return store.NilRef, fmt.Errorf("undefined variable '%s'", name)
	}
	return val, nil
}

func internalKey(value string) (string, error) {
	switch strings.ToLower(value) {
	case "class", "cls", "c":
		return store.CLASS, nil
	case "prev", "previous", "p":
		return store.PREV, nil
	default:
		return "", fmt.Errorf("unknown internal key %q", value)
	}
}

func parseRefLiteral(s string) (store.Reference, error) {
	base := 10
	trimmed := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		trimmed = s[2:]
	}
	n, err := strconv.ParseUint(trimmed, base, 64)
	if err != nil {
		return store.NilRef, fmt.Errorf("%q is not a valid reference literal", s)
	}
	return store.Reference(n), nil
}

// Label resolves path and records name as pointing to the result,
// replacing any previous reference name already had.
func (in *Inspector) Label(path, name string) error {
	ref, err := in.Resolve(path)
	if err != nil {
		return err
	}
	if _, exists := in.labels[name]; !exists {
		in.order = append(in.order, name)
	}
	in.labels[name] = ref
	return nil
}

// Unlabel removes a label by name, or — if nameOrPath is not itself a
// known label — resolves it as an object path and removes every label
// pointing to that reference. Invalid input is silently ignored.
func (in *Inspector) Unlabel(nameOrPath string) {
	if _, ok := in.labels[nameOrPath]; ok {
		delete(in.labels, nameOrPath)
		in.removeFromOrder(nameOrPath)
		return
	}

	ref, err := in.Resolve(nameOrPath)
	if err != nil {
		return
	}
	for name, r := range in.labels {
		if r == ref {
			delete(in.labels, name)
			in.removeFromOrder(name)
		}
	}
}

func (in *Inspector) removeFromOrder(name string) {
	for i, n := range in.order {
		if n == name {
			in.order = append(in.order[:i], in.order[i+1:]...)
			return
		}
	}
}

// Labels returns a sorted snapshot of every currently assigned label
// name.
func (in *Inspector) Labels() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	sort.Strings(out)
	return out
}

// Inspect resolves path to a starting reference and collects every
// reference reachable via state edges up to depth hops (depth 0 means
// just the start), returning one Object record per collected
// reference.
func (in *Inspector) Inspect(path string, depth int) ([]Object, error) {
	if depth < 0 {
		depth = 0
	}

	start, err := in.Resolve(path)
	if err != nil {
		return nil, err
	}

	// best records the most hops left with which each reference has been
	// reached, so a reference first met via a longer path is walked again
	// when a shorter path reaches it.
	best := map[store.Reference]int{}
	var refs []store.Reference
	var walk func(ref store.Reference, remaining int)
	walk = func(ref store.Reference, remaining int) {
		prev, seen := best[ref]
		if seen && prev >= remaining {
			return
		}
		if !seen {
			refs = append(refs, ref)
		}
		best[ref] = remaining
		if remaining <= 0 {
			return
		}
		obj, err := in.ip.Store.Get(ref)
		if err != nil {
			return
		}
		for _, v := range obj.State {
			walk(v, remaining-1)
		}
	}
	walk(start, depth)

	objects := make([]Object, 0, len(refs))
	for _, ref := range refs {
		objects = append(objects, in.buildRecord(ref))
	}
	return objects, nil
}

func (in *Inspector) buildRecord(ref store.Reference) Object {
	obj, err := in.ip.Store.Get(ref)
	if err != nil {
		return Object{Name: in.nameFor(ref), State: map[string]string{}}
	}

	state := make(map[string]string, len(obj.State))
	for k, v := range obj.State {
		displayKey := translateKey(k)
		if v == store.NilRef || !in.ip.Store.Has(v) {
			state[displayKey] = "NIL"
		} else {
			state[displayKey] = in.nameFor(v)
		}
	}

	behaviour := make([]MethodSignature, 0, len(obj.Behaviour))
	for name, m := range obj.Behaviour {
		behaviour = append(behaviour, MethodSignature{
			Name:   name,
			Params: append([]string(nil), m.Params...),
		})
	}
	sort.Slice(behaviour, func(i, j int) bool { return behaviour[i].Name < behaviour[j].Name })

	return Object{Name: in.nameFor(ref), State: state, Behaviour: behaviour}
}

// nameFor renders ref the way a path resolution or inspection record
// would display it: the first label pointing to it, else a synthetic
// ref:0xID.
func (in *Inspector) nameFor(ref store.Reference) string {
	for _, name := range in.order {
		if in.labels[name] == ref {
			return name
		}
	}
	return "ref:" + store.RefString(ref)
}

// FormatObject renders obj as an indented text block: its display name,
// its state entries sorted by key as "key -> value" lines, then its
// behaviour in the order obj holds it (Inspect sorts it by method name).
// Columns are not padded to a common width. Hosts are free to render
// Object differently; this is a convenience default for non-interactive
// output.
func FormatObject(obj Object) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", obj.Name)

	keys := make([]string, 0, len(obj.State))
	for k := range obj.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s -> %s\n", k, obj.State[k])
	}
	for _, m := range obj.Behaviour {
		fmt.Fprintf(&b, "  method %s(%s)\n", m.Name, strings.Join(m.Params, ", "))
	}
	return b.String()
}

func translateKey(key string) string {
	switch key {
	case store.PREV:
		return "int:PREV"
	case store.CLASS:
		return "int:CLASS"
	default:
		return key
	}
}
