package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const collectionsManifest = `
[[class]]
name = "List"
package = "java.util"
interface = true
type_params = ["E"]

[[class]]
name = "String"
package = "java.lang"

[[class]]
name = "Map"
package = "java.util"
interface = true
type_params = ["K", "V"]

[[class]]
name = "Map$Entry"
package = "java.util"
static = true
interface = true
type_params = ["K", "V"]

[[resolve]]
ref = "java.util.List<java.lang.String>"

[[resolve]]
ref = "int[][]"

[[resolve]]
ref = "Map.Entry<String, String>"

[[resolve]]
ref = "no.such.Type"
`

func TestResolveManifestsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	first := writeManifest(t, dir, "collections.toml", collectionsManifest)
	second := writeManifest(t, dir, "tiny.toml", `
[[resolve]]
ref = "boolean"
`)

	results, err := ResolveManifests(context.Background(), []string{first, second}, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("ResolveManifests: %v", err)
	}
	if len(results) != 2 || results[0].Path != first || results[1].Path != second {
		t.Fatalf("result order must match input order: %+v", results)
	}

	refs := results[0].Refs
	if len(refs) != 4 {
		t.Fatalf("expected 4 resolutions, got %d", len(refs))
	}

	if refs[0].Kind != "interface" || refs[0].Type != "java.util.List<java.lang.String>" {
		t.Fatalf("list resolution wrong: %+v", refs[0])
	}
	if refs[1].Kind != "array" || refs[1].Type != "int[][]" {
		t.Fatalf("array resolution wrong: %+v", refs[1])
	}
	if refs[2].Kind != "interface" || refs[2].Type != "java.util.Map.Entry<java.lang.String, java.lang.String>" {
		t.Fatalf("nested resolution wrong: %+v", refs[2])
	}
	if refs[3].Kind != "unresolved" || !refs[3].Bag.HasErrors() {
		t.Fatalf("unknown name should resolve to the sentinel with a diagnostic: %+v", refs[3])
	}

	if results[1].Refs[0].Kind != "primitive" || results[1].Refs[0].Type != "boolean" {
		t.Fatalf("primitive resolution wrong: %+v", results[1].Refs[0])
	}
}

func TestResolveManifestsReportsFileErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeManifest(t, dir, "broken.toml", "not [valid toml")
	missing := filepath.Join(dir, "missing.toml")

	results, err := ResolveManifests(context.Background(), []string{broken, missing}, Options{})
	if err != nil {
		t.Fatalf("file-level failures are per-manifest, not run-level: %v", err)
	}
	if results[0].Err == nil || results[1].Err == nil {
		t.Fatalf("expected manifest-level errors: %+v", results)
	}
}

func TestResolveManifestsHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ResolveManifests(ctx, []string{"whatever.toml"}, Options{Jobs: 1})
	if err == nil {
		t.Fatalf("a cancelled context should abort the run")
	}
}

func TestSyntaxErrorBecomesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "syn.toml", `
[[resolve]]
ref = "List<"
`)
	results, err := ResolveManifests(context.Background(), []string{path}, Options{})
	if err != nil {
		t.Fatalf("ResolveManifests: %v", err)
	}
	ref := results[0].Refs[0]
	if ref.Kind != "error" || ref.Type != "" || !ref.Bag.HasErrors() {
		t.Fatalf("syntax failure should produce an error result: %+v", ref)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "collections.toml", collectionsManifest)
	results, err := ResolveManifests(context.Background(), []string{path}, Options{})
	if err != nil {
		t.Fatalf("ResolveManifests: %v", err)
	}

	p := BuildPayload(results)
	if p.Schema != payloadSchemaVersion {
		t.Fatalf("payload schema not stamped")
	}
	if p.RefCount() != 4 {
		t.Fatalf("RefCount = %d, want 4", p.RefCount())
	}

	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, p); err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	back, err := DecodeMsgpack(&buf)
	if err != nil {
		t.Fatalf("DecodeMsgpack: %v", err)
	}
	if len(back.Manifests) != 1 || len(back.Manifests[0].Refs) != 4 {
		t.Fatalf("round trip lost data: %+v", back)
	}
	if back.Manifests[0].Refs[0].Type != p.Manifests[0].Refs[0].Type {
		t.Fatalf("ref payload diverged after round trip")
	}

	// A payload with a future schema must be rejected on the way in.
	buf.Reset()
	future := &Payload{Schema: payloadSchemaVersion + 1}
	if err := EncodeMsgpack(&buf, future); err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	if _, err := DecodeMsgpack(&buf); err == nil {
		t.Fatalf("unknown schema should be rejected")
	}
}

func TestWriteTableRendersEveryRef(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "collections.toml", collectionsManifest)
	results, err := ResolveManifests(context.Background(), []string{path}, Options{})
	if err != nil {
		t.Fatalf("ResolveManifests: %v", err)
	}

	var buf bytes.Buffer
	WriteTable(&buf, results, false)
	out := buf.String()
	for _, want := range []string{
		"java.util.List<java.lang.String>",
		"int[][]",
		"unresolved",
		path,
	} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
	if bytes.Contains([]byte(out), []byte("\x1b[")) {
		t.Fatalf("color disabled, output should carry no escape codes")
	}
}
