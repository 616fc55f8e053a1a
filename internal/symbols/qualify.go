package symbols

import "strings"

// QualifyName computes the `::`-joined qualified name for a symbol named
// name declared directly in scope s, per §4.3's policy:
//
//   - walk parents from s;
//   - when a module scope is crossed, append that module's own qualified
//     name once (not the module scope's bare name) and stop walking
//     further module boundaries, since the module's own qualified name
//     already encodes its ancestry;
//   - struct/enum/namespace/impl scopes contribute their own Name;
//   - function and anonymous scopes contribute nothing (locals are never
//     qualified beyond their owning function, which callers address by
//     slot index, not by name).
func QualifyName(s *Scope, name string) string {
	parts := make([]string, 0, 4)
	parts = append(parts, name)

	cur := s
	for cur != nil {
		switch cur.Kind {
		case Module:
			if cur.ModuleSym != nil {
				parts = append(parts, cur.ModuleSym.QName)
			} else {
				parts = append(parts, cur.Name)
			}
			cur = nil // A module's own qualified name already encodes its ancestry.
			continue
		case Struct, Enum, Namespace, Impl:
			if cur.Name != "" {
				parts = append(parts, cur.Name)
			}
		}
		cur = cur.Parent
	}

	reversed := make([]string, len(parts))
	for i, p := range parts {
		reversed[len(parts)-1-i] = p
	}
	return strings.Join(reversed, "::")
}

// LinkName returns the name that should be emitted to the linker for fn:
// a `link(name="...")` attribute override takes precedence, then C linkage
// uses the bare source name, and otherwise the fully qualified name.
func LinkName(fn *FunctionSymbol, attrLinkName string, bareName string) string {
	if attrLinkName != "" {
		return attrLinkName
	}
	if fn.Linkage == LinkageC {
		return bareName
	}
	return fn.QName
}
