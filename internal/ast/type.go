package ast

import (
	"fmt"

	"javelin/internal/source"
	"javelin/internal/types"
)

// Type is a syntactic type reference, as written in source. The
// variant set is closed; the converter dispatches exhaustively over
// it. Nodes are immutable after disambiguation except for the
// documented write-once memo slots on ClassOrInterfaceType.
type Type interface {
	Span() source.Span
	isType()
}

type node struct {
	span source.Span
}

func (n node) Span() source.Span { return n.span }

// PrimKind enumerates the primitive keywords of the reference grammar.
// It maps 1:1 onto types.PrimitiveKind.
type PrimKind uint8

const (
	PrimBoolean PrimKind = iota
	PrimChar
	PrimByte
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimVoid
)

func (k PrimKind) String() string {
	switch k {
	case PrimBoolean:
		return "boolean"
	case PrimChar:
		return "char"
	case PrimByte:
		return "byte"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimVoid:
		return "void"
	default:
		return fmt.Sprintf("PrimKind(%d)", k)
	}
}

// TypeArguments is an explicit type-argument list. Diamond marks an
// explicit empty list ("<>") whose arguments are to be inferred by a
// later pass.
type TypeArguments struct {
	Args    []Type
	Diamond bool
}

// ClassOrInterfaceType references a class or interface, optionally
// qualified ("Outer.Inner") and optionally parameterized. The
// referenced symbol and the implicit enclosing instantiation are
// attached by the disambiguation pass; the only exception is the type
// node of a qualified constructor call, which stays unbound until the
// converter resolves it lazily.
type ClassOrInterfaceType struct {
	node
	Qualifier  *ClassOrInterfaceType
	SimpleName string
	TypeArgs   *TypeArguments

	// Lexical context of the reference, used for accessibility checks
	// during lazy member-class lookup.
	Pkg   string
	Scope *types.ClassSym

	// Set when this node is the type of a constructor call.
	CtorCall *ConstructorCall

	referencedSym     types.TypeDeclSym
	implicitEnclosing *types.ClassType
}

func (t *ClassOrInterfaceType) isType() {}

func NewClassOrInterfaceType(span source.Span, qualifier *ClassOrInterfaceType, name string, args *TypeArguments) *ClassOrInterfaceType {
	return &ClassOrInterfaceType{
		node:       node{span: span},
		Qualifier:  qualifier,
		SimpleName: name,
		TypeArgs:   args,
	}
}

// ReferencedSym returns the declaration this reference denotes, or nil
// when disambiguation deliberately left it unbound.
func (t *ClassOrInterfaceType) ReferencedSym() types.TypeDeclSym {
	return t.referencedSym
}

// SetSym fills the symbol memo slot. The slot is write-once: filling
// it twice with different symbols is a programming error.
func (t *ClassOrInterfaceType) SetSym(sym types.TypeDeclSym) {
	if sym == nil {
		panic("ast: SetSym(nil)")
	}
	if t.referencedSym != nil && t.referencedSym != sym {
		panic(fmt.Sprintf("ast: symbol already set for %s", t.SimpleName))
	}
	t.referencedSym = sym
}

// ImplicitEnclosing returns the enclosing instantiation computed for a
// shorthand inner-type reference, or nil.
func (t *ClassOrInterfaceType) ImplicitEnclosing() *types.ClassType {
	return t.implicitEnclosing
}

// SetImplicitEnclosing fills the implicit-enclosing memo slot
// (write-once, like SetSym).
func (t *ClassOrInterfaceType) SetImplicitEnclosing(enc *types.ClassType) {
	if enc == nil {
		panic("ast: SetImplicitEnclosing(nil)")
	}
	if t.implicitEnclosing != nil && t.implicitEnclosing != enc {
		panic(fmt.Sprintf("ast: implicit enclosing already set for %s", t.SimpleName))
	}
	t.implicitEnclosing = enc
}

// WildcardType is "?", "? extends T" or "? super T". Bound is nil for
// the unbounded form.
type WildcardType struct {
	node
	UpperBound bool
	Bound      Type
}

func (t *WildcardType) isType() {}

func NewWildcardType(span source.Span, upper bool, bound Type) *WildcardType {
	return &WildcardType{node: node{span: span}, UpperBound: upper, Bound: bound}
}

// IntersectionType is "A & B & C"; component order is significant.
type IntersectionType struct {
	node
	Components []Type
}

func (t *IntersectionType) isType() {}

func NewIntersectionType(span source.Span, components []Type) *IntersectionType {
	return &IntersectionType{node: node{span: span}, Components: components}
}

// ArrayType is the element type with its total bracket depth. Depth
// aggregates nested bracket groups; it is not recomputed recursively.
type ArrayType struct {
	node
	Elem Type
	Dims int
}

func (t *ArrayType) isType() {}

func NewArrayType(span source.Span, elem Type, dims int) *ArrayType {
	return &ArrayType{node: node{span: span}, Elem: elem, Dims: dims}
}

// PrimitiveType is a primitive keyword.
type PrimitiveType struct {
	node
	Kind PrimKind
}

func (t *PrimitiveType) isType() {}

func NewPrimitiveType(span source.Span, kind PrimKind) *PrimitiveType {
	return &PrimitiveType{node: node{span: span}, Kind: kind}
}

// AmbiguousName is a name the disambiguation pass could not classify
// as a type reference.
type AmbiguousName struct {
	node
	Name string
}

func (t *AmbiguousName) isType() {}

func NewAmbiguousName(span source.Span, name string) *AmbiguousName {
	return &AmbiguousName{node: node{span: span}, Name: name}
}

// UnionType is "A | B", used only in multi-catch positions. The
// alternatives' semantic types are elaborated by a prior pass and read
// back by the converter.
type UnionType struct {
	node
	Alternatives []Type

	elaborated []types.TypeMirror
}

func (t *UnionType) isType() {}

func NewUnionType(span source.Span, alternatives []Type) *UnionType {
	return &UnionType{node: node{span: span}, Alternatives: alternatives}
}

// SetAlternativeTypes records the elaborated semantic types of the
// alternatives (write-once).
func (t *UnionType) SetAlternativeTypes(mirrors []types.TypeMirror) {
	if len(mirrors) != len(t.Alternatives) {
		panic(fmt.Sprintf("ast: %d elaborated types for %d alternatives", len(mirrors), len(t.Alternatives)))
	}
	if t.elaborated != nil {
		panic("ast: union alternatives already elaborated")
	}
	t.elaborated = mirrors
}

// AlternativeTypes returns the elaborated types, or nil when the prior
// pass has not run.
func (t *UnionType) AlternativeTypes() []types.TypeMirror {
	return t.elaborated
}
