// Package sema converts syntactic type references into canonical
// semantic types. The converter is pure and re-entrant: it holds no
// state between calls, and its only write is the idempotent
// memoization of lazily-resolved symbols onto qualified-constructor
// type nodes.
package sema

import (
	"fmt"

	"javelin/internal/ast"
	"javelin/internal/symbols"
	"javelin/internal/types"
)

// FromAST builds a semantic type from a syntax type node, applying
// subst to any type-variable leaf. A nil node yields nil (callers may
// query optional type positions); every other input yields a non-nil
// mirror, with user-source problems surfacing as the unresolved
// sentinel. A node outside the closed variant set is an upstream bug
// and panics.
func FromAST(ts *types.TypeSystem, subst types.Subst, node ast.Type) types.TypeMirror {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *ast.ClassOrInterfaceType:
		return fromClassType(ts, subst, n)

	case *ast.WildcardType:
		bound := FromAST(ts, subst, n.Bound)
		if bound == nil {
			return ts.UnboundedWild()
		}
		return ts.Wildcard(n.UpperBound, bound)

	case *ast.IntersectionType:
		components := make([]types.TypeMirror, 0, len(n.Components))
		for _, c := range n.Components {
			components = append(components, FromAST(ts, subst, c))
		}
		return ts.Intersect(components)

	case *ast.ArrayType:
		elem := FromAST(ts, subst, n.Elem)
		return ts.ArrayOf(elem, n.Dims)

	case *ast.PrimitiveType:
		return ts.Primitive(primitiveKind(n.Kind))

	case *ast.AmbiguousName:
		// A name that survived disambiguation unclassified is not a
		// valid type reference.
		return ts.Unresolved()

	case *ast.UnionType:
		alts := n.AlternativeTypes()
		if alts == nil {
			panic("sema: union alternatives not elaborated before conversion")
		}
		return ts.LUB(alts)
	}
	panic(fmt.Sprintf("sema: illegal type node %T at %s", node, node.Span()))
}

// ListFromAST converts nodes in order, preserving positions.
func ListFromAST(ts *types.TypeSystem, subst types.Subst, nodes []ast.Type) []types.TypeMirror {
	if nodes == nil {
		return nil
	}
	out := make([]types.TypeMirror, len(nodes))
	for i, n := range nodes {
		out[i] = FromAST(ts, subst, n)
	}
	return out
}

func primitiveKind(k ast.PrimKind) types.PrimitiveKind {
	switch k {
	case ast.PrimBoolean:
		return types.KindBoolean
	case ast.PrimChar:
		return types.KindChar
	case ast.PrimByte:
		return types.KindByte
	case ast.PrimShort:
		return types.KindShort
	case ast.PrimInt:
		return types.KindInt
	case ast.PrimLong:
		return types.KindLong
	case ast.PrimFloat:
		return types.KindFloat
	case ast.PrimDouble:
		return types.KindDouble
	case ast.PrimVoid:
		return types.KindVoid
	default:
		panic(fmt.Sprintf("sema: unknown primitive kind %d", k))
	}
}

func fromClassType(ts *types.TypeSystem, subst types.Subst, node *ast.ClassOrInterfaceType) types.TypeMirror {
	if node == nil {
		return nil
	}

	enclosing := fromClassType(ts, subst, node.Qualifier)

	reference := referenceEnsureResolved(ts, node)

	if param, ok := reference.(*types.TypeParamSym); ok {
		// Generics and enclosing-type logic never apply to
		// type-variable references.
		return subst.Apply(ts.TypeVarOf(param))
	}
	cls := reference.(*types.ClassSym)

	encClass, encIsClass := enclosing.(*types.ClassType)
	switch {
	case enclosing != nil && !(encIsClass && !cls.IsStatic()):
		// It's possible to write Map.Entry<A,B> but Entry is a static
		// type, so the qualifier Map contributes no instantiation
		// context.
		encClass = nil
	case enclosing == nil && needsEnclosing(cls):
		// class Foo<T> {
		//     class Inner {}
		//     void bar(Inner k) {}  // shorthand for Foo<T>.Inner
		// }
		encClass = node.ImplicitEnclosing()
		if encClass == nil {
			panic(fmt.Sprintf("sema: implicit enclosing type should have been set by disambiguation, for %s", node.SimpleName))
		}
	}

	if targs := node.TypeArgs; targs != nil {
		if targs.Diamond {
			// Left as the declaration placeholder; inference is a
			// later pass's job.
			return ts.Declaration(cls)
		}
		bound := ListFromAST(ts, subst, targs.Args)
		if encClass != nil {
			return encClass.SelectInner(cls, bound)
		}
		return ts.Parameterise(cls, bound)
	}

	if encClass != nil {
		return encClass.SelectInner(cls, nil)
	}
	return ts.RawType(cls)
}

// needsEnclosing reports whether an unqualified reference to the
// declaration requires an enclosing instantiation (non-static member
// type).
func needsEnclosing(cls *types.ClassSym) bool {
	return cls.Enclosing != nil && !cls.IsStatic()
}

// referenceEnsureResolved returns the declaration symbol for the node.
// Fast path: the disambiguation pass already attached it. Slow path:
// the type node of a qualified constructor call is resolved here, on
// demand, by member-class lookup in the qualifier expression's type;
// the result is memoized onto the node so the lookup runs at most
// once. Every other unbound node is an upstream bug.
func referenceEnsureResolved(ts *types.TypeSystem, node *ast.ClassOrInterfaceType) types.TypeDeclSym {
	if sym := node.ReferencedSym(); sym != nil {
		return sym
	}
	if call := node.CtorCall; call != nil && call.Qualifier != nil {
		if node.ImplicitEnclosing() != nil {
			panic("sema: qualified ctor calls should be handled lazily")
		}
		qualType := call.Qualifier.TypeMirror()
		if enclosing, ok := qualType.(*types.ClassType); ok {
			found := symbols.MemberClassLookup(enclosing, node.Pkg, node.Scope, node.SimpleName)
			var sym *types.ClassSym
			if found == nil {
				// Compile-time error in the analyzed source.
				sym = ts.UnresolvedSym()
			} else {
				sym = found
				actual := enclosing.AsSuper(found.Enclosing)
				if actual == nil {
					panic(fmt.Sprintf("sema: %s found by searching into %s, projection must succeed", found.Name, enclosing))
				}
				node.SetImplicitEnclosing(actual)
			}
			node.SetSym(sym)
			return sym
		}
		// Not a class type: the grammar should prevent this shape.
	}
	panic(fmt.Sprintf("sema: disambiguation pass should resolve everything except qualified ctor calls, got %s", node.SimpleName))
}
