package definition

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Validation error codes (E200-E299)
const (
	ErrNodeNameBlank     = "E201" // node name missing or whitespace only
	ErrDuplicateNodeKey  = "E202" // two nodes normalize to the same key
	ErrValueOutOfRange   = "E203" // score outside [0,1] (clamped when built)
	ErrUnknownEndpoint   = "E204" // edge endpoint is not a declared node
	ErrSelfLoop          = "E205" // edge from a node to itself
	ErrDuplicateEdgePair = "E206" // same upstream/downstream pair declared twice
	ErrEmptyGraph        = "E207" // no nodes declared
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a document and returns every problem found (does not
// fail-fast). A nil result means the document builds without surprises.
func Validate(doc *Document) []ValidationError {
	var errs []ValidationError

	// E207: at least one node
	if len(doc.Nodes) == 0 {
		errs = append(errs, ValidationError{
			Field:   "nodes",
			Message: "graph declares no nodes",
			Code:    ErrEmptyGraph,
		})
	}

	declared := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)

		// E201: name is required
		key := graph.NormalizeKey(n.Name)
		if key == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "node name is required and must be non-blank",
				Code:    ErrNodeNameBlank,
			})
			continue
		}

		// E202: keys must be unique
		if first, dup := declared[key]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("node %q duplicates nodes[%d] (key %q); the later declaration wins", n.Name, first, key),
				Code:    ErrDuplicateNodeKey,
			})
		} else {
			declared[key] = i
		}

		// E203: scores within [0,1]
		errs = appendRange(errs, field+".readiness", n.Readiness)
		errs = appendRange(errs, field+".resilience", n.Resilience)
		errs = appendRange(errs, field+".criticality", n.Criticality)
	}

	pairs := make(map[[2]string]int, len(doc.Edges))
	for i, e := range doc.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		from := graph.NormalizeKey(e.From)
		to := graph.NormalizeKey(e.To)

		// E205: checked before endpoints, matching Connect
		if from == to {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("edge connects %q to itself", e.From),
				Code:    ErrSelfLoop,
			})
			continue
		}

		// E204: endpoints must be declared
		for _, end := range []struct{ name, raw, key string }{
			{"from", e.From, from},
			{"to", e.To, to},
		} {
			if _, ok := declared[end.key]; !ok {
				errs = append(errs, ValidationError{
					Field:   field + "." + end.name,
					Message: fmt.Sprintf("unknown node %q", end.raw),
					Code:    ErrUnknownEndpoint,
				})
			}
		}

		// E206: one edge per ordered pair
		pair := [2]string{from, to}
		if first, dup := pairs[pair]; dup {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("edge %s → %s duplicates edges[%d]; the later declaration wins", from, to, first),
				Code:    ErrDuplicateEdgePair,
			})
		} else {
			pairs[pair] = i
		}

		if e.Weight != nil {
			errs = appendRange(errs, field+".weight", *e.Weight)
		}
		if e.Coupling != nil {
			errs = appendRange(errs, field+".coupling", *e.Coupling)
		}
		errs = appendRange(errs, field+".latency_penalty", e.LatencyPenalty)
	}

	return errs
}

func appendRange(errs []ValidationError, field string, v float64) []ValidationError {
	if v >= 0 && v <= 1 {
		return errs
	}
	msg := fmt.Sprintf("value %g is outside [0, 1] and will be clamped", v)
	if math.IsNaN(v) {
		msg = "value is NaN and will be treated as 0"
	}
	return append(errs, ValidationError{
		Field:   field,
		Message: msg,
		Code:    ErrValueOutOfRange,
	})
}

// HasBlocking reports whether errs contains anything other than range
// warnings. Range problems are clamped by the engine and do not stop a build.
func HasBlocking(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Code != ErrValueOutOfRange {
			return true
		}
	}
	return false
}

// Summary joins validation messages one per line.
func Summary(errs []ValidationError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
