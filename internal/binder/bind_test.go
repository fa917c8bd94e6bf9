package binder

import (
	"testing"

	"javelin/internal/ast"
	"javelin/internal/diag"
	"javelin/internal/parser"
	"javelin/internal/sema"
	"javelin/internal/types"
)

type fakeLookup map[string]*types.ClassSym

func (f fakeLookup) LookupClass(name string) *types.ClassSym { return f[name] }

func mustParse(t *testing.T, src string) ast.Type {
	t.Helper()
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return node
}

func testScope(ts *types.TypeSystem, classes fakeLookup) Scope {
	return Scope{TS: ts, Classes: classes, Pkg: "p"}
}

func TestBindAbsorbsPackagePrefix(t *testing.T) {
	ts := types.NewTypeSystem()
	list := &types.ClassSym{Name: "List", Pkg: "java.util", Flags: types.FlagPublic | types.FlagInterface}
	list.TypeParams = []*types.TypeParamSym{{Name: "E", Owner: list}}
	str := &types.ClassSym{Name: "String", Pkg: "java.lang", Flags: types.FlagPublic}
	classes := fakeLookup{"java.util.List": list, "java.lang.String": str}

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, classes), mustParse(t, "java.util.List<java.lang.String>"), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	node, ok := bound.(*ast.ClassOrInterfaceType)
	if !ok {
		t.Fatalf("expected a class reference, got %T", bound)
	}
	if node.Qualifier != nil {
		t.Fatalf("package segments should be folded out of the chain")
	}
	if node.ReferencedSym() != types.TypeDeclSym(list) {
		t.Fatalf("head bound to the wrong symbol: %v", node.ReferencedSym())
	}

	got := sema.FromAST(ts, types.EmptySubst, bound)
	want := ts.Parameterise(list, []types.TypeMirror{ts.RawType(str)})
	if !types.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestBareNameDenotesTypeParameter(t *testing.T) {
	ts := types.NewTypeSystem()
	tParam := &types.TypeParamSym{Name: "T"}
	shadowed := &types.ClassSym{Name: "T", Pkg: "p", Flags: types.FlagPublic}
	classes := fakeLookup{"T": shadowed, "p.T": shadowed}

	scope := testScope(ts, classes)
	scope.TypeParams = []*types.TypeParamSym{tParam}

	bag := diag.NewBag(10)
	bound := Bind(scope, mustParse(t, "T"), bag)
	node := bound.(*ast.ClassOrInterfaceType)
	if node.ReferencedSym() != types.TypeDeclSym(tParam) {
		t.Fatalf("bare name should prefer the type parameter, got %v", node.ReferencedSym())
	}

	// A parameterized T cannot be the type parameter; it falls through
	// to the classpath.
	bound = Bind(scope, mustParse(t, "T<T>"), bag)
	node = bound.(*ast.ClassOrInterfaceType)
	if node.ReferencedSym() != types.TypeDeclSym(shadowed) {
		t.Fatalf("parameterized name should resolve to the class, got %v", node.ReferencedSym())
	}
}

func TestMemberSelectionAfterHead(t *testing.T) {
	ts := types.NewTypeSystem()
	outer := &types.ClassSym{Name: "Outer", Pkg: "q", Flags: types.FlagPublic}
	inner := &types.ClassSym{Name: "Inner", Pkg: "q", Flags: types.FlagPublic | types.FlagStatic}
	outer.AddMember(inner)
	classes := fakeLookup{"q.Outer": outer}

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, classes), mustParse(t, "q.Outer.Inner"), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	node := bound.(*ast.ClassOrInterfaceType)
	if node.ReferencedSym() != types.TypeDeclSym(inner) {
		t.Fatalf("member segment bound to %v", node.ReferencedSym())
	}
	if node.Qualifier == nil || node.Qualifier.ReferencedSym() != types.TypeDeclSym(outer) {
		t.Fatalf("qualifier segment should stay bound to the head")
	}
}

func TestShorthandInnerReferenceGetsImplicitEnclosing(t *testing.T) {
	ts := types.NewTypeSystem()
	outer := &types.ClassSym{Name: "Outer", Pkg: "p", Flags: types.FlagPublic}
	outer.TypeParams = []*types.TypeParamSym{{Name: "T", Owner: outer}}
	inner := &types.ClassSym{Name: "Inner", Pkg: "p", Flags: types.FlagPublic}
	outer.AddMember(inner)

	scope := testScope(ts, fakeLookup{})
	scope.Class = outer

	bag := diag.NewBag(10)
	bound := Bind(scope, mustParse(t, "Inner"), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	node := bound.(*ast.ClassOrInterfaceType)
	if node.ReferencedSym() != types.TypeDeclSym(inner) {
		t.Fatalf("shorthand reference bound to %v", node.ReferencedSym())
	}
	enc := node.ImplicitEnclosing()
	if enc == nil || enc.Sym != outer {
		t.Fatalf("implicit enclosing missing: %v", enc)
	}
	if len(enc.Args) != 1 {
		t.Fatalf("implicit enclosing should be the self type with its variables: %v", enc)
	}

	got := sema.FromAST(ts, types.EmptySubst, bound)
	ct := got.(*types.ClassType)
	if ct.Sym != inner || ct.Enclosing != enc {
		t.Fatalf("converter should read the attached enclosing: %v", ct)
	}
}

func TestOwnClassNameResolvesToItself(t *testing.T) {
	ts := types.NewTypeSystem()
	outer := &types.ClassSym{Name: "Outer", Pkg: "p", Flags: types.FlagPublic}

	scope := testScope(ts, fakeLookup{})
	scope.Class = outer

	bag := diag.NewBag(10)
	bound := Bind(scope, mustParse(t, "Outer"), bag)
	node := bound.(*ast.ClassOrInterfaceType)
	if node.ReferencedSym() != types.TypeDeclSym(outer) {
		t.Fatalf("self reference bound to %v", node.ReferencedSym())
	}
}

func TestUnresolvedNameBecomesAmbiguous(t *testing.T) {
	ts := types.NewTypeSystem()
	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, fakeLookup{}), mustParse(t, "no.such.Type"), bag)
	amb, ok := bound.(*ast.AmbiguousName)
	if !ok {
		t.Fatalf("expected an ambiguous name, got %T", bound)
	}
	if amb.Name != "no.such.Type" {
		t.Fatalf("ambiguous name should keep the written form, got %q", amb.Name)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.BindUnresolvedName {
		t.Fatalf("expected an unresolved-name diagnostic, got %v", bag.Items())
	}

	if got := sema.FromAST(ts, types.EmptySubst, bound); got != types.TypeMirror(ts.Unresolved()) {
		t.Fatalf("ambiguous references should convert to the sentinel, got %v", got)
	}
}

func TestUnresolvedMemberBecomesAmbiguous(t *testing.T) {
	ts := types.NewTypeSystem()
	outer := &types.ClassSym{Name: "Outer", Pkg: "q", Flags: types.FlagPublic}
	outer.Superclass = ts.Object()
	classes := fakeLookup{"q.Outer": outer}

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, classes), mustParse(t, "q.Outer.Nope"), bag)
	if _, ok := bound.(*ast.AmbiguousName); !ok {
		t.Fatalf("expected an ambiguous name, got %T", bound)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.BindUnresolvedMember {
		t.Fatalf("expected an unresolved-member diagnostic, got %v", bag.Items())
	}
}

func TestArityMismatchIsReported(t *testing.T) {
	ts := types.NewTypeSystem()
	list := &types.ClassSym{Name: "List", Pkg: "java.util", Flags: types.FlagPublic | types.FlagInterface}
	list.TypeParams = []*types.TypeParamSym{{Name: "E", Owner: list}}
	str := &types.ClassSym{Name: "String", Pkg: "java.lang", Flags: types.FlagPublic}
	classes := fakeLookup{"java.util.List": list, "java.lang.String": str}

	bag := diag.NewBag(10)
	Bind(testScope(ts, classes), mustParse(t, "java.util.List<java.lang.String, java.lang.String>"), bag)
	if !bag.HasErrors() {
		t.Fatalf("expected an arity diagnostic")
	}
	if bag.Items()[0].Code != diag.BindArgCountMismatch {
		t.Fatalf("wrong code: %v", bag.Items()[0])
	}
}

func TestQualifiedCtorTypeNodeStaysUnbound(t *testing.T) {
	ts := types.NewTypeSystem()
	outer := &types.ClassSym{Name: "Outer", Pkg: "p", Flags: types.FlagPublic}

	node := mustParse(t, "Inner").(*ast.ClassOrInterfaceType)
	ast.NewConstructorCall(&ast.TypedExpr{Type: ts.Declaration(outer)}, node)

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, fakeLookup{}), node, bag)
	if bound != ast.Type(node) {
		t.Fatalf("the node should pass through unchanged")
	}
	if node.ReferencedSym() != nil {
		t.Fatalf("qualified ctor type nodes must stay unbound for lazy resolution")
	}
	if bag.Len() != 0 {
		t.Fatalf("no diagnostics expected, got %v", bag.Items())
	}
	if node.Pkg != "p" || node.Scope != nil {
		t.Fatalf("lexical context should still be recorded on the node")
	}
}

func TestUnionAlternativesAreElaborated(t *testing.T) {
	ts := types.NewTypeSystem()
	exc := &types.ClassSym{Name: "Exception", Pkg: "java.lang", Flags: types.FlagPublic}
	exc.Superclass = ts.Object()
	ioe := &types.ClassSym{Name: "IOException", Pkg: "java.io", Flags: types.FlagPublic}
	ioe.Superclass = ts.Declaration(exc)
	sqle := &types.ClassSym{Name: "SQLException", Pkg: "java.sql", Flags: types.FlagPublic}
	sqle.Superclass = ts.Declaration(exc)
	classes := fakeLookup{"java.io.IOException": ioe, "java.sql.SQLException": sqle}

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, classes), mustParse(t, "java.io.IOException | java.sql.SQLException"), bag)
	union, ok := bound.(*ast.UnionType)
	if !ok {
		t.Fatalf("expected a union, got %T", bound)
	}
	if union.AlternativeTypes() == nil {
		t.Fatalf("binding should elaborate the alternatives")
	}
	if got := sema.FromAST(ts, types.EmptySubst, union); got != types.TypeMirror(ts.Declaration(exc)) {
		t.Fatalf("expected Exception, got %v", got)
	}
}

func TestBoundsAndElementsAreBound(t *testing.T) {
	ts := types.NewTypeSystem()
	num := &types.ClassSym{Name: "Number", Pkg: "java.lang", Flags: types.FlagPublic}
	classes := fakeLookup{"java.lang.Number": num}

	bag := diag.NewBag(10)
	bound := Bind(testScope(ts, classes), mustParse(t, "java.lang.Number[]"), bag)
	arr := bound.(*ast.ArrayType)
	if arr.Elem.(*ast.ClassOrInterfaceType).ReferencedSym() != types.TypeDeclSym(num) {
		t.Fatalf("array element not bound")
	}

	bound = Bind(testScope(ts, classes), mustParse(t, "? extends java.lang.Number"), bag)
	wild := bound.(*ast.WildcardType)
	if wild.Bound.(*ast.ClassOrInterfaceType).ReferencedSym() != types.TypeDeclSym(num) {
		t.Fatalf("wildcard bound not bound")
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}
