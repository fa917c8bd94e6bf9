package types

// LUB computes the least upper bound of the given types, as needed for
// multi-catch parameters. The bound is approximated by the first
// common erased superclass (interfaces are not considered); anything
// without a common class bound falls back to Object, and an unresolved
// input poisons the result to the unresolved sentinel.
func (ts *TypeSystem) LUB(mirrors []TypeMirror) TypeMirror {
	if len(mirrors) == 0 {
		panic("types: lub of no types")
	}
	for _, m := range mirrors {
		if m == nil {
			panic("types: lub over nil type")
		}
		if ct, ok := m.(*ClassType); ok && ct.IsUnresolved() {
			return ts.unresolved
		}
	}
	if len(mirrors) == 1 {
		return mirrors[0]
	}
	first, ok := mirrors[0].(*ClassType)
	if !ok {
		return ts.object
	}
	for sym := first.Sym; sym != nil; sym = sym.superclassSym() {
		common := true
		for _, m := range mirrors[1:] {
			ct, ok := m.(*ClassType)
			if !ok || !ct.Sym.IsSubclassOf(sym) {
				common = false
				break
			}
		}
		if common {
			return ts.Declaration(sym)
		}
	}
	return ts.object
}
