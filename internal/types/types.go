// Package types implements the hash-consed type system: every Type is
// constructed through a Registry, which keys on the structural shape of the
// type so that identity reduces to pointer equality.
package types

import (
	"fmt"
	"strings"

	"tinygo.org/x/go-llvm"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the variants a Type can take.
type Kind int

const (
	Void Kind = iota
	IntKind
	FloatKind
	DoubleKind
	StructKind
	ArrayKind
	TupleKind
	EnumKind
	PointerKind
	ReferenceKind
	FunctionKind
	TraitKind
	EmptyKind // Empty is a generic-parameter placeholder, e.g. `T` before substitution.
)

// Field describes one named, indexed member of a StructKind type.
type Field struct {
	Name  string
	Type  *Type
	Index int
}

// Type is a tagged value. Only a Registry may construct one; two Types are
// equal iff they are the same interned pointer.
type Type struct {
	kind Kind

	// IntKind
	bits   int
	signed bool

	// StructKind / EnumKind / TraitKind / EmptyKind
	name string

	// StructKind
	fields  []Field
	opaque  bool // true until the forward-declared struct is completed exactly once.
	packed  bool // true if declared with the packed attribute: no ABI field padding.

	// StructKind's `backing: Option<llvm struct>` (spec §3): the named LLVM
	// struct type ToLLVM constructs on first lowering, cached so every
	// later ToLLVM call for this same *Type returns the identical llvm.Type
	// rather than a second, distinct StructCreateNamed allocation. bodySet
	// additionally guards against calling StructSetBody more than once, for
	// a struct first seen opaque (e.g. through a self-referential pointer
	// field) and lowered again after CompleteStruct.
	backing    llvm.Type
	backingSet bool
	bodySet    bool

	// ArrayKind
	element *Type
	size    int

	// TupleKind
	elements []*Type

	// EnumKind
	inner *Type

	// PointerKind / ReferenceKind
	pointee  *Type
	mutable  bool

	// FunctionKind
	ret    *Type
	params []*Type
	varArg bool
}

// ---------------------
// ----- functions -----
// ---------------------

// Kind returns the variant tag of t.
func (t *Type) Kind() Kind { return t.kind }

// Bits returns the bit width of an IntKind type.
func (t *Type) Bits() int { return t.bits }

// Signed reports whether an IntKind type is signed.
func (t *Type) Signed() bool { return t.signed }

// Name returns the declared name of a StructKind/EnumKind/TraitKind/EmptyKind
// type.
func (t *Type) Name() string { return t.name }

// Fields returns the field list of a StructKind type. The slice is nil until
// the struct's single completion (see Registry.CompleteStruct).
func (t *Type) Fields() []Field { return t.fields }

// IsOpaque reports whether a forward-declared StructKind type has not yet
// been completed.
func (t *Type) IsOpaque() bool { return t.opaque }

// IsPacked reports whether a StructKind type was declared with the packed
// attribute (no inter-field ABI alignment padding).
func (t *Type) IsPacked() bool { return t.packed }

// Element returns the element type of an ArrayKind type.
func (t *Type) Element() *Type { return t.element }

// ArrayLen returns the length of an ArrayKind type.
func (t *Type) ArrayLen() int { return t.size }

// Elements returns the member types of a TupleKind type.
func (t *Type) Elements() []*Type { return t.elements }

// Inner returns the backing type of an EnumKind type.
func (t *Type) Inner() *Type { return t.inner }

// Pointee returns the referent of a PointerKind/ReferenceKind type.
func (t *Type) Pointee() *Type { return t.pointee }

// Mutable reports whether a PointerKind/ReferenceKind type points to mutable
// storage.
func (t *Type) Mutable() bool { return t.mutable }

// Return returns the return type of a FunctionKind type.
func (t *Type) Return() *Type { return t.ret }

// Params returns the parameter types of a FunctionKind type.
func (t *Type) Params() []*Type { return t.params }

// VarArg reports whether a FunctionKind type accepts a variadic tail.
func (t *Type) VarArg() bool { return t.varArg }

// String renders the canonical diagnostic text for t, e.g. "*mut [T; N]",
// "(A, B, C)", "func(T1, T2) -> R".
func (t *Type) String() string {
	switch t.kind {
	case Void:
		return "void"
	case IntKind:
		if t.signed {
			return fmt.Sprintf("i%d", t.bits)
		}
		return fmt.Sprintf("u%d", t.bits)
	case FloatKind:
		return "f32"
	case DoubleKind:
		return "f64"
	case StructKind:
		return t.name
	case EnumKind:
		return t.name
	case TraitKind:
		return t.name
	case EmptyKind:
		return t.name
	case ArrayKind:
		return fmt.Sprintf("[%s; %d]", t.element.String(), t.size)
	case TupleKind:
		parts := make([]string, len(t.elements))
		for i, e := range t.elements {
			parts[i] = e.String()
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case PointerKind:
		if t.mutable {
			return fmt.Sprintf("*mut %s", t.pointee.String())
		}
		return fmt.Sprintf("*const %s", t.pointee.String())
	case ReferenceKind:
		if t.mutable {
			return fmt.Sprintf("&mut %s", t.pointee.String())
		}
		return fmt.Sprintf("&%s", t.pointee.String())
	case FunctionKind:
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = p.String()
		}
		variadic := ""
		if t.varArg {
			variadic = ", ..."
		}
		return fmt.Sprintf("func(%s%s) -> %s", strings.Join(parts, ", "), variadic, t.ret.String())
	default:
		return "<unknown type>"
	}
}
