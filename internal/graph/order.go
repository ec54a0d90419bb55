package graph

// TopologicalOrder returns every node such that for each edge (u, v), u comes
// before v.
//
// Kahn's algorithm with a FIFO queue. In-degree is counted from the
// dependents index. Sources are seeded in registration order and each
// node's dependents are released in edge-list order, so the result is
// deterministic for a given sequence of mutations.
//
// Returns CYCLE_DETECTED if the graph is not a DAG; the error's Path lists
// the nodes that could not be ordered, in registration order.
func (e *Engine) TopologicalOrder() ([]Node, error) {
	inDegree := make(map[string]int, len(e.nodes))
	for _, k := range e.order {
		for _, edge := range e.dependents[k] {
			inDegree[edge.Downstream]++
		}
	}

	queue := make([]string, 0, len(e.order))
	for _, k := range e.order {
		if inDegree[k] == 0 {
			queue = append(queue, k)
		}
	}

	ordered := make([]Node, 0, len(e.order))
	for head := 0; head < len(queue); head++ {
		k := queue[head]
		ordered = append(ordered, e.nodes[k].clone())

		for _, edge := range e.dependents[k] {
			inDegree[edge.Downstream]--
			if inDegree[edge.Downstream] == 0 {
				queue = append(queue, edge.Downstream)
			}
		}
	}

	if len(ordered) < len(e.nodes) {
		var stuck []string
		for _, k := range e.order {
			if inDegree[k] > 0 {
				stuck = append(stuck, k)
			}
		}
		return nil, cycleError("graph is not acyclic", stuck)
	}

	return ordered, nil
}
