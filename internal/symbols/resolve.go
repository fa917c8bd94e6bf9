// Package symbols bridges syntax references to declaration symbols.
// The disambiguation pass resolves almost everything ahead of time;
// what lives here is the on-demand lookup machinery for the cases that
// cannot be resolved until a type is known, and the accessibility
// rules it depends on.
package symbols

import (
	"javelin/internal/types"
)

// MemberClassLookup searches qual's declaration and its supertype
// closure for a member class named name that is accessible from
// package pkg and accessing class access. Shadowing follows lexical
// rules: the class itself is searched before its supertypes. Returns
// nil when no accessible member matches (a user-source error, not an
// engine fault).
func MemberClassLookup(qual *types.ClassType, pkg string, access *types.ClassSym, name string) *types.ClassSym {
	if qual == nil {
		return nil
	}
	seen := make(map[*types.ClassSym]bool)
	queue := []*types.ClassType{qual}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || seen[cur.Sym] {
			continue
		}
		seen[cur.Sym] = true
		if m := cur.Sym.MemberClass(name); m != nil && Accessible(m, pkg, access) {
			return m
		}
		if sup := cur.Superclass(); sup != nil {
			queue = append(queue, sup)
		}
		queue = append(queue, cur.Interfaces()...)
	}
	return nil
}

// Accessible reports whether member may be referenced from package pkg
// inside class access (nil when the reference sits outside any class
// body).
func Accessible(member *types.ClassSym, pkg string, access *types.ClassSym) bool {
	switch {
	case member.Flags&types.FlagPublic != 0:
		return true
	case member.Flags&types.FlagPrivate != 0:
		return access != nil && access.TopLevel() == member.TopLevel()
	case member.Flags&types.FlagProtected != 0:
		if member.Pkg == pkg {
			return true
		}
		return access != nil && member.Enclosing != nil && access.IsSubclassOf(member.Enclosing)
	default: // package-private
		return member.Pkg == pkg
	}
}
