package types

// CanSafelyCast implements the ordered rule table from the type-registry
// cast-permissibility design. Rules are evaluated in order and the first
// that applies decides the answer; falling through every rule forbids the
// cast.
//
// Open question (preserved from the source): &T -> &U requires T == U
// exactly; a safely-castable-but-not-identical T -> U is NOT permitted for
// references, only for pointers.
func CanSafelyCast(from, to *Type) bool {
	// Rule 1: identical types are always permitted. Identity is pointer
	// equality because both sides come from the same Registry.
	if from == to {
		return true
	}

	// Rule 2: casting to an enum requires the source be the same enum.
	if to.kind == EnumKind {
		return from == to
	}

	switch {
	case from.kind == PointerKind && to.kind == PointerKind:
		// Rule 3+4: mutability compatibility, then void escape hatch or
		// recursive pointee castability.
		if !mutabilityCompatible(from.mutable, to.mutable) {
			return false
		}
		if from.pointee.kind == Void || to.pointee.kind == Void {
			return true
		}
		return CanSafelyCast(from.pointee, to.pointee)

	case from.kind == ReferenceKind && to.kind == PointerKind:
		if !mutabilityCompatible(from.mutable, to.mutable) {
			return false
		}
		if from.pointee.kind == Void || to.pointee.kind == Void {
			return true
		}
		return CanSafelyCast(from.pointee, to.pointee)

	case from.kind == ReferenceKind && to.kind == ReferenceKind:
		if !mutabilityCompatible(from.mutable, to.mutable) {
			return false
		}
		// Open question resolution: references require identical referents,
		// not merely safely-castable ones.
		return from.pointee == to.pointee

	case from.kind == ArrayKind && to.kind == ArrayKind:
		// Rule 5: element types are invariant.
		return from.size == to.size && from.element == to.element

	case from.kind == StructKind && to.kind == StructKind:
		// Rule 6: same interned struct (same name).
		return from == to

	case from.kind == IntKind && to.kind == IntKind:
		// Rule 7: i1 is always a valid target; otherwise signedness must
		// match and the target width must be >= the source width.
		if to.bits == 1 {
			return true
		}
		return from.signed == to.signed && to.bits >= from.bits

	case isFloaty(from) && isFloaty(to):
		// Rule 8: float->float or float|double->double.
		if to.kind == DoubleKind {
			return true
		}
		return from.kind == FloatKind && to.kind == FloatKind

	case from.kind == TupleKind && to.kind == TupleKind:
		// Rule 9: element-wise identical.
		if len(from.elements) != len(to.elements) {
			return false
		}
		for i := range from.elements {
			if from.elements[i] != to.elements[i] {
				return false
			}
		}
		return true

	default:
		// Rule 10: otherwise forbidden.
		return false
	}
}

// mutabilityCompatible implements rule 3: mut->mut, mut->const and
// const->const are allowed; const->mut is forbidden.
func mutabilityCompatible(fromMutable, toMutable bool) bool {
	if fromMutable {
		return true
	}
	return !toMutable
}

func isFloaty(t *Type) bool {
	return t.kind == FloatKind || t.kind == DoubleKind
}
