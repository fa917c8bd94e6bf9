// Package driver runs the resolution pipeline over classpath
// manifests: parse each declared reference, bind it, convert it, and
// collect results for rendering or export.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"javelin/internal/binder"
	"javelin/internal/classpath"
	"javelin/internal/diag"
	"javelin/internal/parser"
	"javelin/internal/sema"
	"javelin/internal/types"
)

type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int
}

// RefResult is the outcome of resolving a single declared reference.
type RefResult struct {
	Ref   string
	Scope string
	Type  string // rendering of the resolved mirror, "" on syntax error
	Kind  string
	Bag   *diag.Bag
}

// ManifestResult groups the outcomes of one manifest file.
type ManifestResult struct {
	Path string
	Refs []RefResult
	Err  error // manifest-level failure (I/O, TOML, bad supertype)
}

// ResolveManifests loads and resolves every manifest concurrently.
// Result order matches the input path order.
func ResolveManifests(ctx context.Context, paths []string, opts Options) ([]ManifestResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]ManifestResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// Each slot index is unique to its goroutine; no locking.
			results[i] = resolveManifest(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func resolveManifest(path string, opts Options) ManifestResult {
	res := ManifestResult{Path: path}
	ts := types.NewTypeSystem()
	reg, manifest, err := classpath.Load(path, ts)
	if err != nil {
		res.Err = err
		return res
	}
	for _, decl := range manifest.Resolves {
		res.Refs = append(res.Refs, resolveRef(ts, reg, decl, opts))
	}
	return res
}

func resolveRef(ts *types.TypeSystem, reg *classpath.Registry, decl classpath.ResolveDecl, opts Options) RefResult {
	out := RefResult{Ref: decl.Ref, Scope: decl.Scope, Bag: diag.NewBag(opts.MaxDiagnostics)}

	scope, err := reg.ScopeFor(decl)
	if err != nil {
		out.Kind = "error"
		out.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.ManifestBadClass, Message: err.Error()})
		return out
	}
	node, err := parser.Parse(decl.Ref)
	if err != nil {
		out.Kind = "error"
		if perr, ok := err.(*parser.ParseError); ok {
			out.Bag.Add(perr.Diagnostic())
		} else {
			out.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.UnknownCode, Message: err.Error()})
		}
		return out
	}
	bound := binder.Bind(scope, node, out.Bag)
	mirror := sema.FromAST(ts, types.EmptySubst, bound)
	out.Type = mirror.String()
	out.Kind = kindOf(mirror)
	return out
}

func kindOf(m types.TypeMirror) string {
	switch t := m.(type) {
	case *types.Primitive:
		return "primitive"
	case *types.ClassType:
		if t.IsUnresolved() {
			return "unresolved"
		}
		if t.Sym.IsInterface() {
			return "interface"
		}
		return "class"
	case *types.ArrayType:
		return "array"
	case *types.Wildcard:
		return "wildcard"
	case *types.Intersection:
		return "intersection"
	case *types.TypeVar:
		return "typevar"
	default:
		return "unknown"
	}
}
