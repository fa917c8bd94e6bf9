package types

import (
	"fmt"

	"fortio.org/safecast"
)

// TypeSystem constructs and interns canonical semantic types. It owns
// the primitive singletons, the unbounded wildcard, the unresolved
// sentinel and the root object type. Construction requests for equal
// inputs return identical instances wherever the model promises
// canonicality (primitives, type variables, raw declaration types,
// interned arrays, the unbounded wildcard).
//
// A TypeSystem is not synchronized; confine it to one analysis thread
// or synchronize externally.
type TypeSystem struct {
	primitives [numPrimitiveKinds]*Primitive
	unbounded  *Wildcard
	unresolved *ClassType
	object     *ClassType

	raws     map[*ClassSym]*ClassType
	arrays   map[arrayKey]*ArrayType
	typeVars map[*TypeParamSym]*TypeVar
}

type arrayKey struct {
	elem TypeMirror
	dims uint32
}

// NewTypeSystem builds a type system seeded with the canonical
// primitives, the root object type and the sentinels.
func NewTypeSystem() *TypeSystem {
	ts := &TypeSystem{
		raws:     make(map[*ClassSym]*ClassType, 64),
		arrays:   make(map[arrayKey]*ArrayType, 16),
		typeVars: make(map[*TypeParamSym]*TypeVar, 16),
	}
	for k := PrimitiveKind(0); k < numPrimitiveKinds; k++ {
		ts.primitives[k] = &Primitive{Kind: k}
	}
	ts.unbounded = &Wildcard{Upper: true}
	objectSym := &ClassSym{Name: "Object", Pkg: "java.lang", Flags: FlagPublic}
	ts.object = ts.RawType(objectSym).(*ClassType)
	unresolvedSym := &ClassSym{Name: "/*unresolved*/", Flags: FlagPublic | FlagUnresolved}
	ts.unresolved = ts.RawType(unresolvedSym).(*ClassType)
	return ts
}

// Primitive returns the canonical primitive for the kind.
func (ts *TypeSystem) Primitive(k PrimitiveKind) *Primitive {
	if k >= numPrimitiveKinds {
		panic(fmt.Sprintf("types: invalid primitive kind %d", k))
	}
	return ts.primitives[k]
}

// UnboundedWild is the singleton unbounded wildcard.
func (ts *TypeSystem) UnboundedWild() *Wildcard { return ts.unbounded }

// Unresolved is the sentinel standing in for types that could not be
// determined. It propagates through analysis without failing.
func (ts *TypeSystem) Unresolved() *ClassType { return ts.unresolved }

// UnresolvedSym is the class symbol behind the unresolved sentinel.
func (ts *TypeSystem) UnresolvedSym() *ClassSym { return ts.unresolved.Sym }

// Object is the root reference type.
func (ts *TypeSystem) Object() *ClassType { return ts.object }

// ObjectSym is the root reference type's declaration.
func (ts *TypeSystem) ObjectSym() *ClassSym { return ts.object.Sym }

// ArrayOf builds the interned array of elem with the given number of
// dimensions. Wrapping an existing array type adds its dimensions, so
// nesting three depth-1 arrays equals one depth-3 array.
func (ts *TypeSystem) ArrayOf(elem TypeMirror, dims int) TypeMirror {
	if elem == nil {
		panic("types: array of nil element")
	}
	if dims < 1 {
		panic(fmt.Sprintf("types: array dims must be >= 1, got %d", dims))
	}
	if inner, ok := elem.(*ArrayType); ok {
		elem = inner.Elem
		dims += inner.Dims
	}
	d, err := safecast.Conv[uint32](dims)
	if err != nil {
		panic(fmt.Errorf("types: array dims overflow: %w", err))
	}
	key := arrayKey{elem: elem, dims: d}
	if arr, ok := ts.arrays[key]; ok {
		return arr
	}
	arr := &ArrayType{Elem: elem, Dims: dims}
	ts.arrays[key] = arr
	return arr
}

// Wildcard builds a bounded wildcard; a nil bound yields the unbounded
// singleton.
func (ts *TypeSystem) Wildcard(upper bool, bound TypeMirror) TypeMirror {
	if bound == nil {
		return ts.unbounded
	}
	return &Wildcard{Upper: upper, Bound: bound}
}

// Intersect builds an intersection preserving component order. A
// single component is returned as-is.
func (ts *TypeSystem) Intersect(components []TypeMirror) TypeMirror {
	if len(components) == 0 {
		panic("types: empty intersection")
	}
	if len(components) == 1 {
		return components[0]
	}
	return &Intersection{Components: cloneMirrors(components)}
}

// RawType returns the interned raw (unparameterized) type for the
// declaration. A type-parameter declaration yields its type variable;
// the unresolved symbol yields the sentinel.
func (ts *TypeSystem) RawType(sym TypeDeclSym) TypeMirror {
	switch s := sym.(type) {
	case *ClassSym:
		if s.IsUnresolved() && ts.unresolved != nil {
			return ts.unresolved
		}
		if raw, ok := ts.raws[s]; ok {
			return raw
		}
		raw := &ClassType{Sym: s}
		ts.raws[s] = raw
		return raw
	case *TypeParamSym:
		return ts.TypeVarOf(s)
	default:
		panic(fmt.Sprintf("types: unknown declaration symbol %T", sym))
	}
}

// Declaration returns the unparameterized declaration type for a class
// symbol. It is the placeholder for diamond references; a later
// inference pass may replace it, this engine never does.
func (ts *TypeSystem) Declaration(sym *ClassSym) *ClassType {
	return ts.RawType(sym).(*ClassType)
}

// SelfType is the declaration viewed from inside its own body: its own
// type parameters appear as type variables, and non-static members see
// their enclosing declaration's self type.
func (ts *TypeSystem) SelfType(sym *ClassSym) *ClassType {
	var args []TypeMirror
	if len(sym.TypeParams) > 0 {
		args = make([]TypeMirror, len(sym.TypeParams))
		for i, p := range sym.TypeParams {
			args[i] = ts.TypeVarOf(p)
		}
	}
	var enc *ClassType
	if sym.Enclosing != nil && !sym.IsStatic() {
		enc = ts.SelfType(sym.Enclosing)
	}
	if args == nil && enc == nil {
		return ts.Declaration(sym)
	}
	return &ClassType{Sym: sym, Args: args, Enclosing: enc}
}

// Parameterise instantiates a generic declaration with the given
// arguments, order preserved. Argument arity is assumed validated
// upstream.
func (ts *TypeSystem) Parameterise(sym *ClassSym, args []TypeMirror) *ClassType {
	if len(args) == 0 {
		return ts.Declaration(sym)
	}
	return &ClassType{Sym: sym, Args: cloneMirrors(args)}
}

// TypeVarOf returns the canonical type variable for a type parameter.
func (ts *TypeSystem) TypeVarOf(p *TypeParamSym) *TypeVar {
	if v, ok := ts.typeVars[p]; ok {
		return v
	}
	v := &TypeVar{Param: p}
	ts.typeVars[p] = v
	return v
}
