package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// hclDocument is the top-level structure of an HCL definition file.
type hclDocument struct {
	Name  string     `hcl:"name,optional"`
	Nodes []*hclNode `hcl:"node,block"`
	Edges []*hclEdge `hcl:"edge,block"`
}

type hclNode struct {
	Name        string    `hcl:"name,label"`
	Readiness   float64   `hcl:"readiness,optional"`
	Resilience  float64   `hcl:"resilience,optional"`
	Criticality float64   `hcl:"criticality,optional"`
	Tags        []string  `hcl:"tags,optional"`
	Metadata    cty.Value `hcl:"metadata,optional"`
}

type hclEdge struct {
	From           string   `hcl:"from,label"`
	To             string   `hcl:"to,label"`
	Weight         *float64 `hcl:"weight,optional"`
	Coupling       *float64 `hcl:"coupling,optional"`
	LatencyPenalty float64  `hcl:"latency_penalty,optional"`
}

// LoadHCL reads an HCL graph definition.
func LoadHCL(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErrorf(ErrCodeNotFound, path, err, "definition file not found")
		}
		return nil, loadErrorf(ErrCodeGeneric, path, err, "failed to read definition: %v", err)
	}

	doc, err := ParseHCL(path, src)
	if err != nil {
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// ParseHCL decodes HCL source held in memory. filename is used for error
// positions only.
func ParseHCL(filename string, src []byte) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, hclLoadError(ErrCodeParseFailed, filename, diags)
	}

	var parsed hclDocument
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, hclLoadError(ErrCodeDecodeFailed, filename, diags)
	}

	doc := &Document{
		Name:   parsed.Name,
		Nodes:  make([]NodeDef, 0, len(parsed.Nodes)),
		Edges:  make([]EdgeDef, 0, len(parsed.Edges)),
		Format: FormatHCL,
	}
	for _, n := range parsed.Nodes {
		def := NodeDef{
			Name:        n.Name,
			Readiness:   n.Readiness,
			Resilience:  n.Resilience,
			Criticality: n.Criticality,
			Tags:        n.Tags,
		}
		meta, err := metadataValues(n.Metadata)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeDecodeFailed,
				Message: fmt.Sprintf("node %q: %v", n.Name, err),
				File:    filename,
				Err:     err,
			}
		}
		def.Metadata = meta
		doc.Nodes = append(doc.Nodes, def)
	}
	for _, e := range parsed.Edges {
		doc.Edges = append(doc.Edges, EdgeDef{
			From:           e.From,
			To:             e.To,
			Weight:         e.Weight,
			Coupling:       e.Coupling,
			LatencyPenalty: e.LatencyPenalty,
		})
	}
	return doc, nil
}

// metadataValues flattens an HCL object or map into plain Go values.
// Null entries are dropped.
func metadataValues(val cty.Value) (map[string]any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("metadata must be an object, got %s", ty.FriendlyName())
	}
	if val.LengthInt() == 0 {
		return nil, nil
	}

	out := make(map[string]any, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() {
			continue
		}
		converted, err := ctyToGo(v)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k.AsString(), err)
		}
		out[k.AsString()] = converted
	}
	return out, nil
}

func ctyToGo(v cty.Value) (any, error) {
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	}

	raw, err := ctyjson.SimpleJSONValue{Value: v}.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// hclLoadError converts HCL diagnostics into a LoadError positioned at the
// first error's subject range.
func hclLoadError(code, filename string, diags hcl.Diagnostics) *LoadError {
	le := &LoadError{Code: code, Message: diags.Error(), File: filename, Err: diags}
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		le.Message = d.Summary
		if d.Detail != "" {
			le.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			le.Line = d.Subject.Start.Line
			le.Column = d.Subject.Start.Column
		}
		break
	}
	return le
}
