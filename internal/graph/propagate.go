package graph

import "math"

// pulse is one queued propagation step.
type pulse struct {
	key       string
	intensity float64
	depth     int
}

// Propagate injects impulse at its origin and spreads it breadth-first along
// outgoing edges. Each hop carries
//
//	propagated = intensity * edge.Influence() * attenuation
//
// and contributions reaching a node over several paths are summed. Entries
// at depth >= maxDepth are not expanded. The returned map always includes
// the origin.
//
// Cycles are not rejected: a cycle revisits nodes with a smaller signal at a
// deeper level, and maxDepth bounds the walk.
//
// Returns INVALID_ARGUMENT unless 0 < attenuation <= 1 and maxDepth >= 1,
// and UNKNOWN_NODE if the origin is not registered.
func (e *Engine) Propagate(impulse Impulse, attenuation float64, maxDepth int) (map[string]float64, error) {
	if math.IsNaN(attenuation) || attenuation <= 0 || attenuation > 1 {
		return nil, invalidArgumentf("attenuation must be in (0,1], got %v", attenuation)
	}
	if maxDepth < 1 {
		return nil, invalidArgumentf("max depth must be at least 1, got %d", maxDepth)
	}

	imp := impulse.normalize()
	if _, ok := e.nodes[imp.Origin]; !ok {
		return nil, unknownNodeError(imp.Origin)
	}

	intensity := imp.Intensity()
	impact := map[string]float64{imp.Origin: intensity}
	queue := []pulse{{key: imp.Origin, intensity: intensity}}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		if p.depth >= maxDepth {
			continue
		}
		for _, edge := range e.dependents[p.key] {
			propagated := p.intensity * edge.Influence() * attenuation
			if propagated <= 0 {
				continue
			}
			impact[edge.Downstream] += propagated
			queue = append(queue, pulse{key: edge.Downstream, intensity: propagated, depth: p.depth + 1})
		}
	}

	return impact, nil
}
