// Package parser parses textual type references ("java.util.Map.Entry<K,
// V>", "int[][]", "? extends Foo & Bar") into unbound syntax nodes.
// Binding names to symbols is the binder's job.
package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"javelin/internal/ast"
	"javelin/internal/diag"
	"javelin/internal/source"
)

// ParseError is a syntax error in a type reference.
type ParseError struct {
	Span source.Span
	Code diag.Code
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Span, e.Msg)
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *ParseError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     e.Code,
		Message:  e.Msg,
		Primary:  e.Span,
	}
}

// Parse parses a single type reference. The whole input must be
// consumed; trailing input is an error.
func Parse(src string) (ast.Type, error) {
	p := &parser{src: src}
	p.skipSpaces()
	if p.eof() {
		return nil, p.errorf(p.pos, p.pos, diag.SynEmptyReference, "empty type reference")
	}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if !p.eof() {
		return nil, p.errorf(p.pos, len(p.src), diag.SynTrailingInput, "trailing input %q", p.src[p.pos:])
	}
	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) accept(c byte) bool {
	p.skipSpaces()
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("parser: span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("parser: span end overflow: %w", err))
	}
	return source.Span{Start: s, End: e}
}

func (p *parser) errorf(start, end int, code diag.Code, format string, args ...any) *ParseError {
	return &ParseError{Span: p.span(start, end), Code: code, Msg: fmt.Sprintf(format, args...)}
}

// union := intersection ("|" intersection)*
func (p *parser) parseUnion() (ast.Type, error) {
	start := p.pos
	first, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	alts := []ast.Type{first}
	for p.accept('|') {
		next, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return ast.NewUnionType(p.span(start, p.pos), alts), nil
}

// intersection := arrayed ("&" arrayed)*
func (p *parser) parseIntersection() (ast.Type, error) {
	start := p.pos
	first, err := p.parseArrayed()
	if err != nil {
		return nil, err
	}
	components := []ast.Type{first}
	for p.accept('&') {
		next, err := p.parseArrayed()
		if err != nil {
			return nil, err
		}
		components = append(components, next)
	}
	if len(components) == 1 {
		return first, nil
	}
	return ast.NewIntersectionType(p.span(start, p.pos), components), nil
}

// arrayed := base ("[" "]")*
// All bracket groups aggregate into one node carrying the total depth.
func (p *parser) parseArrayed() (ast.Type, error) {
	start := p.pos
	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	dims := 0
	for {
		p.skipSpaces()
		if p.peek() != '[' {
			break
		}
		open := p.pos
		p.pos++
		if !p.accept(']') {
			return nil, p.errorf(open, p.pos, diag.SynUnclosedBracket, "expected ']'")
		}
		dims++
	}
	if dims == 0 {
		return base, nil
	}
	return ast.NewArrayType(p.span(start, p.pos), base, dims), nil
}

// base := wildcard | primitive | classref
func (p *parser) parseBase() (ast.Type, error) {
	p.skipSpaces()
	if p.peek() == '?' {
		return p.parseWildcard()
	}
	start := p.pos
	name, ok := p.scanIdent()
	if !ok {
		return nil, p.errorf(p.pos, p.pos+1, diag.SynUnexpectedToken, "expected a type name")
	}
	if kind, isPrim := primKinds[name]; isPrim {
		return ast.NewPrimitiveType(p.span(start, p.pos), kind), nil
	}
	return p.parseClassRef(start, name)
}

// wildcard := "?" (("extends" | "super") intersection)?
func (p *parser) parseWildcard() (ast.Type, error) {
	start := p.pos
	p.pos++ // '?'
	p.skipSpaces()
	mark := p.pos
	if word, ok := p.scanIdent(); ok {
		upper := word == "extends"
		if !upper && word != "super" {
			return nil, p.errorf(mark, p.pos, diag.SynUnexpectedToken, "expected 'extends' or 'super', got %q", word)
		}
		bound, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		return ast.NewWildcardType(p.span(start, p.pos), upper, bound), nil
	}
	return ast.NewWildcardType(p.span(start, p.pos), true, nil), nil
}

// classref := ident targs? ("." ident targs?)*
// Each dotted segment becomes a qualifier link; the binder later folds
// package prefixes out of the chain.
func (p *parser) parseClassRef(start int, name string) (ast.Type, error) {
	node, err := p.classSegment(start, nil, name)
	if err != nil {
		return nil, err
	}
	for p.accept('.') {
		p.skipSpaces()
		segStart := p.pos
		segName, ok := p.scanIdent()
		if !ok {
			return nil, p.errorf(p.pos, p.pos+1, diag.SynUnexpectedToken, "expected a name after '.'")
		}
		node, err = p.classSegment(segStart, node, segName)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *parser) classSegment(start int, qualifier *ast.ClassOrInterfaceType, name string) (*ast.ClassOrInterfaceType, error) {
	args, err := p.parseTypeArgs()
	if err != nil {
		return nil, err
	}
	span := p.span(start, p.pos)
	if qualifier != nil {
		span = qualifier.Span().Cover(span)
	}
	return ast.NewClassOrInterfaceType(span, qualifier, name, args), nil
}

// targs := "<" ">" | "<" union ("," union)* ">"
func (p *parser) parseTypeArgs() (*ast.TypeArguments, error) {
	p.skipSpaces()
	if p.peek() != '<' {
		return nil, nil
	}
	open := p.pos
	p.pos++
	if p.accept('>') {
		return &ast.TypeArguments{Diamond: true}, nil
	}
	var args []ast.Type
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(',') {
			continue
		}
		if p.accept('>') {
			return &ast.TypeArguments{Args: args}, nil
		}
		return nil, p.errorf(open, p.pos, diag.SynUnclosedAngle, "expected ',' or '>' in type arguments")
	}
}

func (p *parser) scanIdent() (string, bool) {
	p.skipSpaces()
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if p.pos == start {
			if !identStart(r) {
				break
			}
		} else if !identPart(r) {
			break
		}
		p.pos += size
	}
	if p.pos == start {
		return "", false
	}
	return p.src[start:p.pos], true
}

func identStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func identPart(r rune) bool {
	return identStart(r) || unicode.IsDigit(r)
}

var primKinds = map[string]ast.PrimKind{
	"boolean": ast.PrimBoolean,
	"char":    ast.PrimChar,
	"byte":    ast.PrimByte,
	"short":   ast.PrimShort,
	"int":     ast.PrimInt,
	"long":    ast.PrimLong,
	"float":   ast.PrimFloat,
	"double":  ast.PrimDouble,
	"void":    ast.PrimVoid,
}

// Describe returns a compact debug rendering of a syntax node, used by
// tests and the CLI's verbose mode.
func Describe(t ast.Type) string {
	var sb strings.Builder
	describe(&sb, t)
	return sb.String()
}

func describe(sb *strings.Builder, t ast.Type) {
	switch n := t.(type) {
	case *ast.ClassOrInterfaceType:
		if n.Qualifier != nil {
			describe(sb, n.Qualifier)
			sb.WriteByte('.')
		}
		sb.WriteString(n.SimpleName)
		if n.TypeArgs != nil {
			sb.WriteByte('<')
			if n.TypeArgs.Diamond {
				sb.WriteByte('>')
				return
			}
			for i, a := range n.TypeArgs.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				describe(sb, a)
			}
			sb.WriteByte('>')
		}
	case *ast.WildcardType:
		sb.WriteByte('?')
		if n.Bound != nil {
			if n.UpperBound {
				sb.WriteString(" extends ")
			} else {
				sb.WriteString(" super ")
			}
			describe(sb, n.Bound)
		}
	case *ast.IntersectionType:
		for i, c := range n.Components {
			if i > 0 {
				sb.WriteString(" & ")
			}
			describe(sb, c)
		}
	case *ast.UnionType:
		for i, a := range n.Alternatives {
			if i > 0 {
				sb.WriteString(" | ")
			}
			describe(sb, a)
		}
	case *ast.ArrayType:
		describe(sb, n.Elem)
		sb.WriteString(strings.Repeat("[]", n.Dims))
	case *ast.PrimitiveType:
		sb.WriteString(n.Kind.String())
	case *ast.AmbiguousName:
		sb.WriteString(n.Name)
	}
}
