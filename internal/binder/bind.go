// Package binder is the disambiguation pass for parsed type
// references: it classifies dotted names into package, class and
// member-class parts, attaches declaration symbols to the nodes,
// computes implicit enclosing instantiations for shorthand inner-type
// references, and elaborates union alternatives. Qualified-constructor
// type nodes are deliberately left unbound; the converter resolves
// those lazily.
package binder

import (
	"fmt"
	"strings"

	"javelin/internal/ast"
	"javelin/internal/diag"
	"javelin/internal/sema"
	"javelin/internal/symbols"
	"javelin/internal/types"
)

// ClassLookup resolves canonical or simple class names to declaration
// symbols. The classpath registry implements it.
type ClassLookup interface {
	LookupClass(name string) *types.ClassSym
}

// Scope is the lexical context a type reference appears in.
type Scope struct {
	TS      *types.TypeSystem
	Classes ClassLookup

	Pkg   string
	Class *types.ClassSym // innermost enclosing class body, may be nil

	// Extra type parameters in scope beyond the enclosing classes'
	// (e.g. method-level parameters).
	TypeParams []*types.TypeParamSym
}

// Bind resolves names in t against the scope, reporting user-level
// problems to bag. The returned node replaces t: references whose head
// cannot be classified come back as AmbiguousName.
func Bind(scope Scope, t ast.Type, bag *diag.Bag) ast.Type {
	switch n := t.(type) {
	case nil:
		return nil
	case *ast.PrimitiveType, *ast.AmbiguousName:
		return t
	case *ast.WildcardType:
		n.Bound = bindChild(scope, n.Bound, bag)
		return n
	case *ast.ArrayType:
		n.Elem = bindChild(scope, n.Elem, bag)
		return n
	case *ast.IntersectionType:
		for i, c := range n.Components {
			n.Components[i] = bindChild(scope, c, bag)
		}
		return n
	case *ast.UnionType:
		for i, a := range n.Alternatives {
			n.Alternatives[i] = bindChild(scope, a, bag)
		}
		n.SetAlternativeTypes(sema.ListFromAST(scope.TS, types.EmptySubst, n.Alternatives))
		return n
	case *ast.ClassOrInterfaceType:
		return bindClassRef(scope, n, bag)
	default:
		return t
	}
}

func bindChild(scope Scope, t ast.Type, bag *diag.Bag) ast.Type {
	if t == nil {
		return nil
	}
	return Bind(scope, t, bag)
}

func bindClassRef(scope Scope, node *ast.ClassOrInterfaceType, bag *diag.Bag) ast.Type {
	segs := chain(node)
	for _, seg := range segs {
		seg.Pkg = scope.Pkg
		seg.Scope = scope.Class
		bindTypeArgs(scope, seg, bag)
	}

	// The type node of a qualified constructor call depends on the
	// qualifier expression's type; it is resolved lazily by the
	// converter, not here.
	if node.CtorCall != nil && node.CtorCall.Qualifier != nil {
		return node
	}

	headIdx := bindHead(scope, segs, bag)
	if headIdx < 0 {
		name := dottedName(segs)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.BindUnresolvedName,
			Message:  "cannot resolve type name " + name,
			Primary:  node.Span(),
		})
		return ast.NewAmbiguousName(node.Span(), name)
	}

	// Remaining segments select member classes of the previous one.
	for i := headIdx + 1; i <= len(segs)-1; i++ {
		prev := segs[i-1].ReferencedSym()
		prevClass, ok := prev.(*types.ClassSym)
		if !ok {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.BindUnresolvedMember,
				Message:  "type parameter " + prev.DeclName() + " cannot qualify a type",
				Primary:  segs[i].Span(),
			})
			return ast.NewAmbiguousName(node.Span(), dottedName(segs))
		}
		member := symbols.MemberClassLookup(scope.TS.SelfType(prevClass), scope.Pkg, scope.Class, segs[i].SimpleName)
		if member == nil {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.BindUnresolvedMember,
				Message:  "no accessible member type " + segs[i].SimpleName + " in " + prevClass.CanonicalName(),
				Primary:  segs[i].Span(),
			})
			return ast.NewAmbiguousName(node.Span(), dottedName(segs))
		}
		segs[i].SetSym(member)
		checkArity(segs[i], member, bag)
	}
	return node
}

// bindHead resolves the leftmost classifiable segment and returns its
// index, absorbing any package prefix out of the qualifier chain.
// Returns -1 when nothing resolves.
func bindHead(scope Scope, segs []*ast.ClassOrInterfaceType, bag *diag.Bag) int {
	head := segs[0]

	// Type parameters shadow classes, but only a bare name can denote
	// one.
	if len(segs) == 1 && head.TypeArgs == nil {
		if p := lookupTypeParam(scope, head.SimpleName); p != nil {
			head.SetSym(p)
			return 0
		}
	}

	// Member classes of the enclosing lexical scope, innermost class
	// first. This is where shorthand inner-type references pick up
	// their implicit enclosing instantiation.
	for cls := scope.Class; cls != nil; cls = cls.Enclosing {
		found := cls.MemberClass(head.SimpleName)
		if found == nil {
			if cls.Name == head.SimpleName {
				found = cls
			} else {
				found = symbols.MemberClassLookup(scope.TS.SelfType(cls), scope.Pkg, scope.Class, head.SimpleName)
			}
		}
		if found == nil {
			continue
		}
		head.SetSym(found)
		checkArity(head, found, bag)
		if needsEnclosing(found) {
			attachImplicitEnclosing(scope.TS, head, cls, found)
		}
		return 0
	}

	// Classpath lookup: the shortest dotted prefix naming a class wins;
	// everything before it is a package. Segments carrying type
	// arguments cannot be part of a package name.
	name := ""
	for i, seg := range segs {
		if name != "" {
			name += "."
		}
		name += seg.SimpleName
		if cls := scope.Classes.LookupClass(name); cls != nil {
			seg.Qualifier = nil
			seg.SetSym(cls)
			checkArity(seg, cls, bag)
			return i
		}
		if seg.TypeArgs != nil {
			break
		}
	}
	return -1
}

func attachImplicitEnclosing(ts *types.TypeSystem, node *ast.ClassOrInterfaceType, provider, found *types.ClassSym) {
	var implicit *types.ClassType
	if found == provider {
		implicit = ts.SelfType(found.Enclosing)
	} else {
		implicit = ts.SelfType(provider).AsSuper(found.Enclosing)
	}
	if implicit != nil {
		node.SetImplicitEnclosing(implicit)
	}
}

func bindTypeArgs(scope Scope, seg *ast.ClassOrInterfaceType, bag *diag.Bag) {
	if seg.TypeArgs == nil || seg.TypeArgs.Diamond {
		return
	}
	for i, a := range seg.TypeArgs.Args {
		seg.TypeArgs.Args[i] = bindChild(scope, a, bag)
	}
}

func checkArity(seg *ast.ClassOrInterfaceType, cls *types.ClassSym, bag *diag.Bag) {
	if seg.TypeArgs == nil || seg.TypeArgs.Diamond {
		return
	}
	if got, want := len(seg.TypeArgs.Args), len(cls.TypeParams); got != want {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.BindArgCountMismatch,
			Message:  fmt.Sprintf("%s expects %d type argument(s), got %d", cls.CanonicalName(), want, got),
			Primary:  seg.Span(),
		})
	}
}

func lookupTypeParam(scope Scope, name string) *types.TypeParamSym {
	for _, p := range scope.TypeParams {
		if p.Name == name {
			return p
		}
	}
	for cls := scope.Class; cls != nil; cls = cls.Enclosing {
		for _, p := range cls.TypeParams {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

func needsEnclosing(cls *types.ClassSym) bool {
	return cls.Enclosing != nil && !cls.IsStatic()
}

// chain returns the qualifier chain leftmost-first.
func chain(node *ast.ClassOrInterfaceType) []*ast.ClassOrInterfaceType {
	var segs []*ast.ClassOrInterfaceType
	for cur := node; cur != nil; cur = cur.Qualifier {
		segs = append(segs, cur)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs
}

func dottedName(segs []*ast.ClassOrInterfaceType) string {
	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.SimpleName
	}
	return strings.Join(names, ".")
}
