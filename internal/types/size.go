package types

// Target describes the compilation target: the word size pointer-sized
// integers and pointer/reference types derive their size from, and the OS
// component of the target triple, which `link(platform=...)` attributes
// filter declarations against.
type Target struct {
	WordSize int    // 32 or 64.
	OS       string // e.g. "linux", "darwin", "windows"; empty if unknown.
}

// Size returns the byte size of t for the given target. Pointers and
// references return the target word size, per §6.
func (t *Type) Size(target Target) int {
	switch t.kind {
	case Void:
		return 0
	case IntKind:
		return (t.bits + 7) / 8
	case FloatKind:
		return 4
	case DoubleKind:
		return 8
	case PointerKind, ReferenceKind:
		return target.WordSize / 8
	case ArrayKind:
		return t.element.Size(target) * t.size
	case TupleKind:
		total := 0
		for _, e := range t.elements {
			total += e.Size(target)
		}
		return total
	case StructKind:
		// Packed layout: fields are summed with no ABI alignment padding.
		// Matches ToLLVM's StructSetBody(members, t.packed) exactly for a
		// packed struct; an unpacked struct's real in-memory size may be
		// larger once LLVM's target data layout inserts padding, which this
		// registry has no target-data-layout access to compute.
		total := 0
		for _, f := range t.fields {
			total += f.Type.Size(target)
		}
		return total
	case EnumKind:
		return t.inner.Size(target)
	case FunctionKind:
		return target.WordSize / 8 // Function values are addresses.
	default:
		return 0
	}
}
