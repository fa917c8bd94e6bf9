package parser

import (
	"errors"
	"testing"

	"javelin/internal/ast"
	"javelin/internal/diag"
)

func TestParseShapes(t *testing.T) {
	tests := []struct {
		in   string
		want string // Describe rendering, normalized
	}{
		{"int", "int"},
		{"void", "void"},
		{"java.lang.String", "java.lang.String"},
		{"List<String>", "List<String>"},
		{"java.util.List<java.lang.String>", "java.util.List<java.lang.String>"},
		{"Map<K, V>", "Map<K, V>"},
		{"Map<K,V>", "Map<K, V>"},
		{"Map<String, List<Integer>>", "Map<String, List<Integer>>"},
		{"Outer<A>.Inner<B>", "Outer<A>.Inner<B>"},
		{"java.util.Map.Entry<K, V>", "java.util.Map.Entry<K, V>"},
		{"List<>", "List<>"},
		{"?", "?"},
		{"? extends Number", "? extends Number"},
		{"? super T", "? super T"},
		{"List<? extends Number>", "List<? extends Number>"},
		{"int[]", "int[]"},
		{"int [] []", "int[][]"},
		{"String[][][]", "String[][][]"},
		{"List<String>[]", "List<String>[]"},
		{"Serializable & Comparable<T>", "Serializable & Comparable<T>"},
		{"? extends A & B", "? extends A & B"},
		{"IOException | SQLException", "IOException | SQLException"},
		{"  Map < K ,  V > ", "Map<K, V>"},
		{"$Proxy1", "$Proxy1"},
		{"_internal.Name", "_internal.Name"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if s := Describe(got); s != tt.want {
				t.Fatalf("Parse(%q) = %s, want %s", tt.in, s, tt.want)
			}
		})
	}
}

func TestArrayBracketsAggregate(t *testing.T) {
	got, err := Parse("int[][][]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr, ok := got.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected array node, got %T", got)
	}
	if arr.Dims != 3 {
		t.Fatalf("bracket groups should aggregate into one node, got dims=%d", arr.Dims)
	}
	if _, ok := arr.Elem.(*ast.PrimitiveType); !ok {
		t.Fatalf("element should be the primitive, got %T", arr.Elem)
	}
}

func TestDiamondIsExplicitEmptyList(t *testing.T) {
	got, err := Parse("List<>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	node := got.(*ast.ClassOrInterfaceType)
	if node.TypeArgs == nil || !node.TypeArgs.Diamond {
		t.Fatalf("expected diamond arguments, got %+v", node.TypeArgs)
	}
	if len(node.TypeArgs.Args) != 0 {
		t.Fatalf("diamond must carry no arguments")
	}

	raw, err := Parse("List")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if raw.(*ast.ClassOrInterfaceType).TypeArgs != nil {
		t.Fatalf("raw reference must have nil arguments, not diamond")
	}
}

func TestDottedSegmentsChainQualifiers(t *testing.T) {
	got, err := Parse("a.b.C<X>.D")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d := got.(*ast.ClassOrInterfaceType)
	if d.SimpleName != "D" || d.TypeArgs != nil {
		t.Fatalf("outermost segment wrong: %+v", d)
	}
	c := d.Qualifier
	if c == nil || c.SimpleName != "C" || c.TypeArgs == nil || len(c.TypeArgs.Args) != 1 {
		t.Fatalf("middle segment lost its arguments: %+v", c)
	}
	b := c.Qualifier
	if b == nil || b.SimpleName != "b" || b.Qualifier == nil || b.Qualifier.SimpleName != "a" {
		t.Fatalf("leading segments wrong: %+v", b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{"", diag.SynEmptyReference},
		{"   ", diag.SynEmptyReference},
		{"List<String", diag.SynUnclosedAngle},
		{"List<String;>", diag.SynUnclosedAngle},
		{"int[", diag.SynUnclosedBracket},
		{"int[3]", diag.SynUnclosedBracket},
		{"List<String> trailing", diag.SynTrailingInput},
		{".Foo", diag.SynUnexpectedToken},
		{"Foo.", diag.SynUnexpectedToken},
		{"? around T", diag.SynUnexpectedToken},
		{"<K>", diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.in)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) returned a non-parse error: %v", tt.in, err)
			}
			if perr.Code != tt.code {
				t.Fatalf("Parse(%q) code = %s, want %s", tt.in, perr.Code, tt.code)
			}
			d := perr.Diagnostic()
			if d.Severity != diag.SevError || d.Code != tt.code {
				t.Fatalf("diagnostic mismatch: %+v", d)
			}
		})
	}
}

func TestSpansCoverTheReference(t *testing.T) {
	got, err := Parse("Outer.Inner")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sp := got.Span()
	if sp.Start != 0 || int(sp.End) != len("Outer.Inner") {
		t.Fatalf("outermost span should cover the whole reference, got %s", sp)
	}
}
