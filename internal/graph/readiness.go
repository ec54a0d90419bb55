package graph

// dependencyPenaltyFactor scales how hard an unready dependency set hits a
// node with criticality 1.
const dependencyPenaltyFactor = 0.5

// Readiness returns the readiness score of key in [0,1].
//
// A node with no incoming edges scores exactly its own readiness. Otherwise:
//
//	dependency = Σ(upstream_i * influence_i) / Σ influence_i   (0 if Σ influence is 0)
//	intrinsic  = readiness * resilience
//	external   = dependency * (1 - resilience)
//	penalty    = (1 - dependency) * criticality * 0.5
//	score      = clamp01(intrinsic + external - penalty)
//
// Returns UNKNOWN_NODE if key is not registered and CYCLE_DETECTED if a
// cycle is reachable through key's dependencies.
func (e *Engine) Readiness(key string) (float64, error) {
	k := NormalizeKey(key)
	if _, ok := e.nodes[k]; !ok {
		return 0, unknownNodeError(k)
	}
	memo := make(map[string]float64)
	return e.resolve(k, memo)
}

// ReadinessProfile scores every registered node, sharing one memo table
// across the profile. Any reachable cycle fails the whole call.
func (e *Engine) ReadinessProfile() (map[string]float64, error) {
	memo := make(map[string]float64, len(e.nodes))
	for _, k := range e.order {
		if _, err := e.resolve(k, memo); err != nil {
			return nil, err
		}
	}

	profile := make(map[string]float64, len(memo))
	for k, v := range memo {
		profile[k] = v
	}
	return profile, nil
}

// frame is one in-progress node on the resolution stack. next indexes the
// incoming edge to visit next.
type frame struct {
	key  string
	next int
}

// resolve computes the score of key with an iterative post-order walk over
// incoming edges. memo holds finished scores; the stack itself is the
// in-progress trail.
func (e *Engine) resolve(key string, memo map[string]float64) (float64, error) {
	if score, ok := memo[key]; ok {
		return score, nil
	}

	stack := []frame{{key: key}}
	inProgress := map[string]int{key: 0} // key → stack index

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		incoming := e.dependencies[top.key]

		if top.next < len(incoming) {
			upstream := incoming[top.next].Upstream
			top.next++

			if _, done := memo[upstream]; done {
				continue
			}
			if idx, busy := inProgress[upstream]; busy {
				return 0, cycleError("readiness dependencies form a cycle", cyclePath(stack[idx:], upstream))
			}

			inProgress[upstream] = len(stack)
			stack = append(stack, frame{key: upstream})
			continue
		}

		memo[top.key] = e.score(top.key, memo)
		delete(inProgress, top.key)
		stack = stack[:len(stack)-1]
	}

	return memo[key], nil
}

// score combines a node's intrinsic readiness with the already-resolved
// scores of its upstream nodes.
func (e *Engine) score(key string, memo map[string]float64) float64 {
	node := e.nodes[key]
	incoming := e.dependencies[key]
	if len(incoming) == 0 {
		return node.Readiness
	}

	var weighted, totalInfluence float64
	for _, edge := range incoming {
		influence := edge.Influence()
		weighted += memo[edge.Upstream] * influence
		totalInfluence += influence
	}

	dependency := 0.0
	if totalInfluence > 0 {
		dependency = weighted / totalInfluence
	}

	intrinsic := node.Readiness * node.Resilience
	external := dependency * (1 - node.Resilience)
	penalty := (1 - dependency) * node.Criticality * dependencyPenaltyFactor

	return Clamp01(intrinsic + external - penalty)
}

// cyclePath renders the trail from the revisited key back to itself in edge
// direction (upstream first). The stack runs downstream → upstream.
func cyclePath(trail []frame, revisited string) []string {
	path := make([]string, 0, len(trail)+1)
	path = append(path, revisited)
	for i := len(trail) - 1; i >= 0; i-- {
		path = append(path, trail[i].key)
	}
	return path
}
