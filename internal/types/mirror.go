package types

import (
	"fmt"
	"strings"
)

// PrimitiveKind enumerates the primitive types of the analyzed language.
type PrimitiveKind uint8

const (
	KindBoolean PrimitiveKind = iota
	KindChar
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindVoid

	numPrimitiveKinds
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", k)
	}
}

// TypeMirror is a canonical semantic type. The variant set is closed:
// *Primitive, *ClassType, *ArrayType, *Wildcard, *Intersection and
// *TypeVar. The unresolved sentinel is a *ClassType over the type
// system's unresolved symbol.
type TypeMirror interface {
	fmt.Stringer
	isTypeMirror()
}

// Primitive is a canonical primitive type. One instance per kind is
// owned by the TypeSystem.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) isTypeMirror() {}

func (p *Primitive) String() string { return p.Kind.String() }

// ClassType is an instantiation of a class or interface declaration.
// Args is empty for raw references. Enclosing is non-nil only when the
// declaration is a non-static member type and a concrete enclosing
// instantiation is known.
type ClassType struct {
	Sym       *ClassSym
	Args      []TypeMirror
	Enclosing *ClassType
}

func (c *ClassType) isTypeMirror() {}

// IsRaw reports whether this is a generic declaration referenced
// without type arguments.
func (c *ClassType) IsRaw() bool {
	return len(c.Args) == 0 && len(c.Sym.TypeParams) > 0
}

// IsUnresolved reports whether this is the unresolved sentinel (or an
// instantiation over the unresolved symbol).
func (c *ClassType) IsUnresolved() bool {
	return c.Sym.Flags&FlagUnresolved != 0
}

func (c *ClassType) String() string {
	var sb strings.Builder
	if c.Enclosing != nil {
		sb.WriteString(c.Enclosing.String())
		sb.WriteByte('.')
		sb.WriteString(c.Sym.Name)
	} else {
		sb.WriteString(c.Sym.CanonicalName())
	}
	if len(c.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range c.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

// SelectInner selects the member type sym under this enclosing
// instantiation, parameterized with args (nil for the raw reference in
// context).
func (c *ClassType) SelectInner(sym *ClassSym, args []TypeMirror) *ClassType {
	return &ClassType{Sym: sym, Args: cloneMirrors(args), Enclosing: c}
}

// TypeParamSubst returns the substitution mapping this declaration's
// type parameters to the instantiation's arguments. Raw instantiations
// yield the identity substitution.
func (c *ClassType) TypeParamSubst() Subst {
	if len(c.Args) == 0 || len(c.Args) != len(c.Sym.TypeParams) {
		return EmptySubst
	}
	m := make(map[*TypeParamSym]TypeMirror, len(c.Args))
	for i, p := range c.Sym.TypeParams {
		m[p] = c.Args[i]
	}
	return NewSubst(m)
}

// Superclass returns the declared superclass with this instantiation's
// type arguments substituted through, or nil for root/interface types.
func (c *ClassType) Superclass() *ClassType {
	return c.substSuper(c.Sym.Superclass)
}

// Interfaces returns the declared superinterfaces under this
// instantiation's substitution.
func (c *ClassType) Interfaces() []*ClassType {
	if len(c.Sym.Interfaces) == 0 {
		return nil
	}
	out := make([]*ClassType, 0, len(c.Sym.Interfaces))
	for _, itf := range c.Sym.Interfaces {
		if sup := c.substSuper(itf); sup != nil {
			out = append(out, sup)
		}
	}
	return out
}

func (c *ClassType) substSuper(decl TypeMirror) *ClassType {
	if decl == nil {
		return nil
	}
	sup, ok := decl.(*ClassType)
	if !ok {
		return nil
	}
	mapped, ok := c.TypeParamSubst().ApplyDeep(sup).(*ClassType)
	if !ok {
		return nil
	}
	return mapped
}

// AsSuper projects this type onto the declaration target, walking the
// supertype closure and substituting type arguments along the path.
// Returns nil when target is not a supertype of this type.
func (c *ClassType) AsSuper(target *ClassSym) *ClassType {
	if target == nil {
		return nil
	}
	seen := make(map[*ClassSym]bool)
	queue := []*ClassType{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || seen[cur.Sym] {
			continue
		}
		seen[cur.Sym] = true
		if cur.Sym == target {
			return cur
		}
		if sup := cur.Superclass(); sup != nil {
			queue = append(queue, sup)
		}
		queue = append(queue, cur.Interfaces()...)
	}
	return nil
}

// ArrayType is elem with dims levels of array nesting, dims >= 1.
type ArrayType struct {
	Elem TypeMirror
	Dims int
}

func (a *ArrayType) isTypeMirror() {}

func (a *ArrayType) String() string {
	return a.Elem.String() + strings.Repeat("[]", a.Dims)
}

// Wildcard is a bounded wildcard type argument. The unbounded wildcard
// is a TypeSystem singleton with a nil bound.
type Wildcard struct {
	Upper bool
	Bound TypeMirror
}

func (w *Wildcard) isTypeMirror() {}

func (w *Wildcard) String() string {
	if w.Bound == nil {
		return "?"
	}
	if w.Upper {
		return "? extends " + w.Bound.String()
	}
	return "? super " + w.Bound.String()
}

// Intersection is an ordered intersection of component types. The
// first component determines the erasure.
type Intersection struct {
	Components []TypeMirror
}

func (i *Intersection) isTypeMirror() {}

func (i *Intersection) String() string {
	parts := make([]string, len(i.Components))
	for n, c := range i.Components {
		parts[n] = c.String()
	}
	return strings.Join(parts, " & ")
}

// TypeVar is the semantic form of a type-parameter reference. One
// canonical instance exists per TypeParamSym; it escapes the engine
// only under the identity substitution.
type TypeVar struct {
	Param *TypeParamSym
}

func (v *TypeVar) isTypeMirror() {}

func (v *TypeVar) String() string { return v.Param.Name }

func cloneMirrors(ms []TypeMirror) []TypeMirror {
	if len(ms) == 0 {
		return nil
	}
	out := make([]TypeMirror, len(ms))
	copy(out, ms)
	return out
}

// Equal reports structural equality of two mirrors. Symbols and type
// parameters compare by identity.
func Equal(a, b TypeMirror) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Kind == bt.Kind
	case *ClassType:
		bt, ok := b.(*ClassType)
		if !ok || at.Sym != bt.Sym || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		if (at.Enclosing == nil) != (bt.Enclosing == nil) {
			return false
		}
		return at.Enclosing == nil || Equal(at.Enclosing, bt.Enclosing)
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		return ok && at.Dims == bt.Dims && Equal(at.Elem, bt.Elem)
	case *Wildcard:
		bt, ok := b.(*Wildcard)
		if !ok || at.Upper != bt.Upper {
			return false
		}
		if at.Bound == nil || bt.Bound == nil {
			return at.Bound == bt.Bound
		}
		return Equal(at.Bound, bt.Bound)
	case *Intersection:
		bt, ok := b.(*Intersection)
		if !ok || len(at.Components) != len(bt.Components) {
			return false
		}
		for i := range at.Components {
			if !Equal(at.Components[i], bt.Components[i]) {
				return false
			}
		}
		return true
	case *TypeVar:
		bt, ok := b.(*TypeVar)
		return ok && at.Param == bt.Param
	default:
		return false
	}
}
