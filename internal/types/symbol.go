package types

import (
	"strings"
)

// SymFlags encode declaration modifiers for quick checks.
type SymFlags uint16

const (
	FlagStatic SymFlags = 1 << iota
	FlagPublic
	FlagProtected
	FlagPrivate
	FlagInterface
	FlagUnresolved
)

func (f SymFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&FlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&FlagProtected != 0 {
		labels = append(labels, "protected")
	}
	if f&FlagPrivate != 0 {
		labels = append(labels, "private")
	}
	if f&FlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&FlagInterface != 0 {
		labels = append(labels, "interface")
	}
	if f&FlagUnresolved != 0 {
		labels = append(labels, "unresolved")
	}
	return labels
}

// TypeDeclSym is a declaration a type reference can denote: a class or
// interface, or a type parameter. Symbols compare by identity; two
// declarations named Entry in different scopes are distinct symbols.
type TypeDeclSym interface {
	DeclName() string
	isTypeDeclSym()
}

// ClassSym is a class or interface declaration.
type ClassSym struct {
	Name       string // simple name
	Pkg        string
	Flags      SymFlags
	Enclosing  *ClassSym
	TypeParams []*TypeParamSym

	// Superclass and Interfaces are declared supertypes expressed over
	// this declaration's own type variables; nil Superclass for the
	// root type and for interfaces.
	Superclass TypeMirror
	Interfaces []TypeMirror

	Members []*ClassSym
}

func (c *ClassSym) isTypeDeclSym() {}

func (c *ClassSym) DeclName() string { return c.Name }

func (c *ClassSym) IsStatic() bool { return c.Flags&FlagStatic != 0 }

func (c *ClassSym) IsInterface() bool { return c.Flags&FlagInterface != 0 }

func (c *ClassSym) IsUnresolved() bool { return c.Flags&FlagUnresolved != 0 }

// CanonicalName is the dotted source name, e.g. java.util.Map.Entry.
func (c *ClassSym) CanonicalName() string {
	var parts []string
	for cur := c; cur != nil; cur = cur.Enclosing {
		parts = append(parts, cur.Name)
	}
	var sb strings.Builder
	if c.Pkg != "" {
		sb.WriteString(c.Pkg)
		sb.WriteByte('.')
	}
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
		if i > 0 {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// BinaryName separates nested names with '$', e.g. java.util.Map$Entry.
func (c *ClassSym) BinaryName() string {
	var parts []string
	for cur := c; cur != nil; cur = cur.Enclosing {
		parts = append(parts, cur.Name)
	}
	var sb strings.Builder
	if c.Pkg != "" {
		sb.WriteString(c.Pkg)
		sb.WriteByte('.')
	}
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
		if i > 0 {
			sb.WriteByte('$')
		}
	}
	return sb.String()
}

// TopLevel returns the outermost enclosing declaration.
func (c *ClassSym) TopLevel() *ClassSym {
	cur := c
	for cur.Enclosing != nil {
		cur = cur.Enclosing
	}
	return cur
}

// IsSubclassOf walks the erased superclass chain, ignoring interfaces.
func (c *ClassSym) IsSubclassOf(other *ClassSym) bool {
	for cur := c; cur != nil; cur = cur.superclassSym() {
		if cur == other {
			return true
		}
	}
	return false
}

func (c *ClassSym) superclassSym() *ClassSym {
	sup, ok := c.Superclass.(*ClassType)
	if !ok {
		return nil
	}
	return sup.Sym
}

// MemberClass returns the directly declared member class with the
// given simple name, or nil.
func (c *ClassSym) MemberClass(name string) *ClassSym {
	for _, m := range c.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddMember appends a member class declaration and links its enclosing
// reference back to c.
func (c *ClassSym) AddMember(m *ClassSym) {
	m.Enclosing = c
	c.Members = append(c.Members, m)
}

// TypeParamSym is a type-parameter declaration, owned by the class (or
// method) that declares it.
type TypeParamSym struct {
	Name  string
	Owner *ClassSym // nil for method-level parameters
}

func (p *TypeParamSym) isTypeDeclSym() {}

func (p *TypeParamSym) DeclName() string { return p.Name }
