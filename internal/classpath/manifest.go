// Package classpath loads TOML manifests describing the class
// declarations visible to the resolver, standing in for classpath
// scanning of the surrounding analysis framework.
package classpath

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"javelin/internal/types"
)

// Manifest is the decoded TOML document: declared classes plus the
// type references to resolve against them.
type Manifest struct {
	Classes  []ClassDecl   `toml:"class"`
	Resolves []ResolveDecl `toml:"resolve"`
}

// ClassDecl declares one class or interface. Name uses '$' to separate
// nested declarations ("Map$Entry"); the members implied by nesting
// are linked automatically.
type ClassDecl struct {
	Name       string   `toml:"name"`
	Package    string   `toml:"package"`
	Static     bool     `toml:"static"`
	Interface  bool     `toml:"interface"`
	Visibility string   `toml:"visibility"` // public|protected|package|private, default public
	TypeParams []string `toml:"type_params"`
	Extends    string   `toml:"extends"`
	Implements []string `toml:"implements"`
}

// ResolveDecl is one type reference to resolve: the reference text and
// the lexical position it should be read from.
type ResolveDecl struct {
	Ref     string `toml:"ref"`
	Package string `toml:"package"`
	Scope   string `toml:"scope"` // canonical name of the enclosing class body
}

// Registry indexes declared class symbols by canonical and by simple
// name. Simple names that collide across packages are served
// first-declared-wins, as a single compilation unit would see them
// through one import.
type Registry struct {
	ts          *types.TypeSystem
	byCanonical map[string]*types.ClassSym
	bySimple    map[string]*types.ClassSym
}

// NewRegistry builds a registry seeded with the type system's root
// object declaration.
func NewRegistry(ts *types.TypeSystem) *Registry {
	r := &Registry{
		ts:          ts,
		byCanonical: make(map[string]*types.ClassSym, 64),
		bySimple:    make(map[string]*types.ClassSym, 64),
	}
	r.index(ts.ObjectSym())
	return r
}

// LookupClass resolves a canonical ("java.util.Map.Entry") or simple
// ("Entry") name, canonical first.
func (r *Registry) LookupClass(name string) *types.ClassSym {
	if sym, ok := r.byCanonical[name]; ok {
		return sym
	}
	return r.bySimple[name]
}

func (r *Registry) index(sym *types.ClassSym) {
	r.byCanonical[sym.CanonicalName()] = sym
	if _, taken := r.bySimple[sym.Name]; !taken {
		r.bySimple[sym.Name] = sym
	}
}

// TypeSystem returns the type system the registry populates.
func (r *Registry) TypeSystem() *types.TypeSystem { return r.ts }

// Load decodes and links a manifest file.
func Load(path string, ts *types.TypeSystem) (*Registry, *Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	reg, err := link(&m, meta, ts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, &m, nil
}

// Decode is Load over in-memory TOML, used by tests.
func Decode(data string, ts *types.TypeSystem) (*Registry, *Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(data, &m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	reg, err := link(&m, meta, ts)
	if err != nil {
		return nil, nil, err
	}
	return reg, &m, nil
}

// link runs two passes: declare every symbol, then resolve supertype
// references (which may mention any declared class, in any order).
func link(m *Manifest, meta toml.MetaData, ts *types.TypeSystem) (*Registry, error) {
	reg := NewRegistry(ts)
	if !meta.IsDefined("class") {
		return reg, nil
	}

	type linked struct {
		sym  *types.ClassSym
		decl *ClassDecl
	}
	order := make([]linked, 0, len(m.Classes))
	for i := range m.Classes {
		decl := &m.Classes[i]
		if strings.TrimSpace(decl.Name) == "" {
			return nil, fmt.Errorf("class #%d: missing name", i+1)
		}
		sym, err := reg.declare(decl)
		if err != nil {
			return nil, err
		}
		order = append(order, linked{sym: sym, decl: decl})
	}

	// Supertypes link in declaration order, after every symbol exists.
	for _, l := range order {
		if err := reg.linkSupertypes(l.sym, l.decl); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// declare materializes the symbol for a declaration, creating any
// missing enclosing declarations implied by '$' nesting.
func (r *Registry) declare(decl *ClassDecl) (*types.ClassSym, error) {
	parts := strings.Split(decl.Name, "$")
	var owner *types.ClassSym
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("class %s: empty nesting segment", decl.Name)
		}
		last := i == len(parts)-1
		var sym *types.ClassSym
		if owner == nil {
			canonical := part
			if decl.Package != "" {
				canonical = decl.Package + "." + part
			}
			sym = r.byCanonical[canonical]
		} else {
			sym = owner.MemberClass(part)
		}
		if sym == nil {
			sym = &types.ClassSym{Name: part, Pkg: decl.Package, Flags: types.FlagPublic}
			if owner != nil {
				owner.AddMember(sym)
			}
			r.index(sym)
		} else if last {
			return nil, fmt.Errorf("class %s: duplicate declaration", decl.Name)
		}
		if last {
			if err := applyDecl(sym, decl); err != nil {
				return nil, err
			}
		}
		owner = sym
	}
	return owner, nil
}

func applyDecl(sym *types.ClassSym, decl *ClassDecl) error {
	flags, err := visibilityFlag(decl.Visibility)
	if err != nil {
		return fmt.Errorf("class %s: %w", decl.Name, err)
	}
	if decl.Static {
		flags |= types.FlagStatic
	}
	if decl.Interface {
		flags |= types.FlagInterface
	}
	sym.Flags = flags
	for _, p := range decl.TypeParams {
		sym.TypeParams = append(sym.TypeParams, &types.TypeParamSym{Name: p, Owner: sym})
	}
	return nil
}

func visibilityFlag(v string) (types.SymFlags, error) {
	switch v {
	case "", "public":
		return types.FlagPublic, nil
	case "protected":
		return types.FlagProtected, nil
	case "package":
		return 0, nil
	case "private":
		return types.FlagPrivate, nil
	default:
		return 0, fmt.Errorf("unknown visibility %q", v)
	}
}
