package classpath

import (
	"fmt"

	"javelin/internal/binder"
	"javelin/internal/diag"
	"javelin/internal/parser"
	"javelin/internal/sema"
	"javelin/internal/types"
)

// linkSupertypes parses and binds a declaration's extends/implements
// clauses in the scope of its own body, so its type parameters are
// visible in the supertype references.
func (r *Registry) linkSupertypes(sym *types.ClassSym, decl *ClassDecl) error {
	scope := binder.Scope{
		TS:      r.ts,
		Classes: r,
		Pkg:     sym.Pkg,
		Class:   sym,
	}
	if decl.Extends != "" {
		sup, err := r.supertype(scope, decl.Extends)
		if err != nil {
			return fmt.Errorf("class %s: extends: %w", decl.Name, err)
		}
		sym.Superclass = sup
	} else if !sym.IsInterface() && sym != r.ts.ObjectSym() {
		sym.Superclass = r.ts.Object()
	}
	for _, itf := range decl.Implements {
		sup, err := r.supertype(scope, itf)
		if err != nil {
			return fmt.Errorf("class %s: implements: %w", decl.Name, err)
		}
		sym.Interfaces = append(sym.Interfaces, sup)
	}
	return nil
}

func (r *Registry) supertype(scope binder.Scope, ref string) (types.TypeMirror, error) {
	node, err := parser.Parse(ref)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(8)
	bound := binder.Bind(scope, node, bag)
	if bag.HasErrors() {
		return nil, fmt.Errorf("%s: %s", ref, bag.Items()[0].Message)
	}
	mirror := sema.FromAST(r.ts, types.EmptySubst, bound)
	ct, ok := mirror.(*types.ClassType)
	if !ok || ct.IsUnresolved() {
		return nil, fmt.Errorf("%s is not a class or interface type", ref)
	}
	return ct, nil
}

// ScopeFor builds the binding scope a resolve entry asks for. An
// unknown scope class is a manifest error.
func (r *Registry) ScopeFor(decl ResolveDecl) (binder.Scope, error) {
	scope := binder.Scope{
		TS:      r.ts,
		Classes: r,
		Pkg:     decl.Package,
	}
	if decl.Scope != "" {
		cls := r.LookupClass(decl.Scope)
		if cls == nil {
			return scope, fmt.Errorf("unknown scope class %s", decl.Scope)
		}
		scope.Class = cls
		if scope.Pkg == "" {
			scope.Pkg = cls.Pkg
		}
	}
	return scope, nil
}
