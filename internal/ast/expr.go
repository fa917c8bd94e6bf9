package ast

import (
	"javelin/internal/types"
)

// Expr is the minimal expression surface the type-resolution engine
// needs: qualified constructor calls consult the qualifier
// expression's already-computed type.
type Expr interface {
	TypeMirror() types.TypeMirror
}

// ConstructorCall models "qualifier.new Inner<...>()" far enough for
// lazy symbol resolution. Qualifier is nil for unqualified calls.
type ConstructorCall struct {
	Qualifier Expr
	TypeNode  *ClassOrInterfaceType
}

// NewConstructorCall links the type node back to its parent call so
// the converter can recognize the qualified-constructor shape.
func NewConstructorCall(qualifier Expr, typeNode *ClassOrInterfaceType) *ConstructorCall {
	c := &ConstructorCall{Qualifier: qualifier, TypeNode: typeNode}
	typeNode.CtorCall = c
	return c
}

// TypedExpr is a leaf expression carrying a precomputed type, standing
// in for the expression tree of the surrounding analysis framework.
type TypedExpr struct {
	Type types.TypeMirror
}

func (e *TypedExpr) TypeMirror() types.TypeMirror { return e.Type }
