package definition

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Build registers every node in declaration order and then connects every
// edge. The first connection error is returned together with the partly
// built engine, mirroring ConnectMany.
func Build(doc *Document) (*graph.Engine, error) {
	e := graph.New()

	nodes := make([]graph.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodes = append(nodes, n.Node())
	}
	e.RegisterNodes(nodes)

	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, d := range doc.Edges {
		edges = append(edges, d.Edge())
	}
	if err := e.ConnectMany(edges); err != nil {
		return e, fmt.Errorf("build %s: %w", doc.label(), err)
	}
	return e, nil
}

// LoadAndBuild loads a definition and builds it.
func LoadAndBuild(path string) (*Document, *graph.Engine, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	e, err := Build(doc)
	if err != nil {
		return doc, nil, err
	}
	return doc, e, nil
}

// Fingerprint identifies the graph a document describes. It hashes a
// sorted rendering of the normalized nodes and edges, so declaration
// order, name casing and omitted defaults do not change it. Tags, metadata
// and the document name are not part of the fingerprint.
func Fingerprint(doc *Document) string {
	nodes := make(map[string]graph.Node, len(doc.Nodes))
	for _, d := range doc.Nodes {
		n := d.Node()
		if n.Key == "" {
			continue
		}
		nodes[n.Key] = n
	}
	edges := make(map[[2]string]graph.Edge, len(doc.Edges))
	for _, d := range doc.Edges {
		e := d.Edge()
		edges[[2]string{e.Upstream, e.Downstream}] = e
	}

	lines := make([]string, 0, len(nodes)+len(edges))
	for key, n := range nodes {
		lines = append(lines, "node "+key+" "+
			formatFloat(n.Readiness)+" "+formatFloat(n.Resilience)+" "+formatFloat(n.Criticality))
	}
	for pair, e := range edges {
		lines = append(lines, "edge "+pair[0]+" "+pair[1]+" "+
			formatFloat(e.Weight)+" "+formatFloat(e.Coupling)+" "+formatFloat(e.LatencyPenalty))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (d *Document) label() string {
	switch {
	case d.Name != "":
		return d.Name
	case d.Source != "":
		return d.Source
	default:
		return "graph"
	}
}
