package types

// Subst is an immutable mapping from type-parameter identity to a
// semantic type. The zero value is the identity substitution.
type Subst struct {
	m map[*TypeParamSym]TypeMirror
}

// EmptySubst is the identity substitution: every type variable maps to
// itself.
var EmptySubst = Subst{}

// NewSubst copies the mapping into an immutable substitution.
func NewSubst(m map[*TypeParamSym]TypeMirror) Subst {
	if len(m) == 0 {
		return EmptySubst
	}
	cp := make(map[*TypeParamSym]TypeMirror, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Subst{m: cp}
}

func (s Subst) IsEmpty() bool { return len(s.m) == 0 }

// Apply replaces a type-variable leaf. Any other mirror is returned
// unchanged; mapping through structured types is ApplyDeep's job.
func (s Subst) Apply(t TypeMirror) TypeMirror {
	v, ok := t.(*TypeVar)
	if !ok {
		return t
	}
	if mapped, ok := s.m[v.Param]; ok {
		return mapped
	}
	return t
}

// ApplyDeep maps the substitution through class arguments, enclosing
// instantiations, array elements, wildcard bounds and intersection
// components. Unmapped subtrees are returned as-is.
func (s Subst) ApplyDeep(t TypeMirror) TypeMirror {
	if t == nil || s.IsEmpty() {
		return t
	}
	switch tt := t.(type) {
	case *TypeVar:
		return s.Apply(tt)
	case *ClassType:
		var enc *ClassType
		if tt.Enclosing != nil {
			enc, _ = s.ApplyDeep(tt.Enclosing).(*ClassType)
		}
		args := tt.Args
		if len(args) > 0 {
			mapped := make([]TypeMirror, len(args))
			for i, a := range args {
				mapped[i] = s.ApplyDeep(a)
			}
			args = mapped
		}
		if enc == tt.Enclosing && sameMirrors(args, tt.Args) {
			return tt
		}
		return &ClassType{Sym: tt.Sym, Args: args, Enclosing: enc}
	case *ArrayType:
		elem := s.ApplyDeep(tt.Elem)
		if elem == tt.Elem {
			return tt
		}
		return &ArrayType{Elem: elem, Dims: tt.Dims}
	case *Wildcard:
		if tt.Bound == nil {
			return tt
		}
		bound := s.ApplyDeep(tt.Bound)
		if bound == tt.Bound {
			return tt
		}
		return &Wildcard{Upper: tt.Upper, Bound: bound}
	case *Intersection:
		comps := make([]TypeMirror, len(tt.Components))
		changed := false
		for i, c := range tt.Components {
			comps[i] = s.ApplyDeep(c)
			changed = changed || comps[i] != c
		}
		if !changed {
			return tt
		}
		return &Intersection{Components: comps}
	default:
		return t
	}
}

func sameMirrors(a, b []TypeMirror) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
