package ast

// Reference is the opaque identity of a store-resident object. It is
// defined in this package (rather than in internal/store) so that
// ReturnValue, a pseudo-AST node, can carry one without creating an
// import cycle between ast and store.
//
// Values are compared by identity only; Reference carries no arithmetic
// meaning. The zero value, NilRef, is the "undefined reference"
// sentinel used throughout ClassObject.State.
type Reference uint64

// NilRef is the sentinel meaning "no object".
const NilRef Reference = 0
