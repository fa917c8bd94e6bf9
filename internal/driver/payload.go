package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Payload format changes.
const payloadSchemaVersion uint16 = 1

// Payload is the machine-readable export of a resolution run, stable
// across the msgpack and JSON encodings.
type Payload struct {
	Schema    uint16
	Manifests []ManifestPayload
}

type ManifestPayload struct {
	Path  string
	Error string `json:",omitempty"`
	Refs  []RefPayload
}

type RefPayload struct {
	Ref    string
	Scope  string   `json:",omitempty"`
	Type   string   `json:",omitempty"`
	Kind   string
	Errors []string `json:",omitempty"`
}

// BuildPayload converts driver results into the export form.
func BuildPayload(results []ManifestResult) *Payload {
	p := &Payload{Schema: payloadSchemaVersion}
	for _, mr := range results {
		mp := ManifestPayload{Path: mr.Path}
		if mr.Err != nil {
			mp.Error = mr.Err.Error()
		}
		for _, ref := range mr.Refs {
			rp := RefPayload{Ref: ref.Ref, Scope: ref.Scope, Type: ref.Type, Kind: ref.Kind}
			if ref.Bag != nil {
				for _, d := range ref.Bag.Items() {
					rp.Errors = append(rp.Errors, fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message))
				}
			}
			mp.Refs = append(mp.Refs, rp)
		}
		p.Manifests = append(p.Manifests, mp)
	}
	return p
}

// EncodeMsgpack writes the payload in msgpack form.
func EncodeMsgpack(w io.Writer, p *Payload) error {
	return msgpack.NewEncoder(w).Encode(p)
}

// DecodeMsgpack reads a payload back, rejecting unknown schemas.
func DecodeMsgpack(r io.Reader) (*Payload, error) {
	var p Payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	if p.Schema != payloadSchemaVersion {
		return nil, fmt.Errorf("unsupported payload schema %d (want %d)", p.Schema, payloadSchemaVersion)
	}
	return &p, nil
}

// EncodeJSON writes the payload as indented JSON.
func EncodeJSON(w io.Writer, p *Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// RefCount totals the resolved references across manifests.
func (p *Payload) RefCount() uint32 {
	var total int
	for _, m := range p.Manifests {
		total += len(m.Refs)
	}
	n, err := safecast.Conv[uint32](total)
	if err != nil {
		panic(fmt.Errorf("driver: ref count overflow: %w", err))
	}
	return n
}
