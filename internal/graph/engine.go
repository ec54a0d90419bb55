package graph

// Engine owns the node registry and both adjacency indexes.
//
// INVARIANTS (hold after every mutation):
//   - Every edge's endpoints exist in nodes.
//   - No two edges share the same (upstream, downstream) pair.
//   - dependents and dependencies hold the same edge set.
//
// Node and Edge values are copied on the way in and on the way out, so
// callers cannot reach stored state.
//
// Engine is not safe for concurrent use.
type Engine struct {
	nodes        map[string]Node
	order        []string          // registration order of keys
	dependents   map[string][]Edge // upstream → outgoing edges
	dependencies map[string][]Edge // downstream → incoming edges
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		nodes:        make(map[string]Node),
		dependents:   make(map[string][]Edge),
		dependencies: make(map[string][]Edge),
	}
}

// RegisterNode normalizes node and stores it under its key, replacing any
// node already registered under that key. A replaced node keeps its
// registration position and its edges.
//
// A node whose name is blank after trimming is not stored; the zero Node is
// returned.
func (e *Engine) RegisterNode(node Node) Node {
	n := node.normalize()
	if n.Key == "" {
		return Node{}
	}

	if _, exists := e.nodes[n.Key]; !exists {
		e.order = append(e.order, n.Key)
	}
	e.nodes[n.Key] = n

	// Both indexes carry an entry for every registered key.
	if e.dependents[n.Key] == nil {
		e.dependents[n.Key] = []Edge{}
	}
	if e.dependencies[n.Key] == nil {
		e.dependencies[n.Key] = []Edge{}
	}

	return n.clone()
}

// RegisterNodes registers each node in order.
func (e *Engine) RegisterNodes(nodes []Node) {
	for _, n := range nodes {
		e.RegisterNode(n)
	}
}

// Connect installs edge, replacing any existing edge for the same
// (upstream, downstream) pair in both indexes.
//
// Returns SELF_LOOP if the endpoints are equal and UNKNOWN_NODE if either
// endpoint is unregistered. The self-loop check runs first.
func (e *Engine) Connect(edge Edge) (Edge, error) {
	ed := edge.normalize()

	if ed.Upstream != "" && ed.Upstream == ed.Downstream {
		return Edge{}, selfLoopError(ed.Upstream)
	}
	if _, ok := e.nodes[ed.Upstream]; !ok {
		return Edge{}, unknownNodeError(ed.Upstream)
	}
	if _, ok := e.nodes[ed.Downstream]; !ok {
		return Edge{}, unknownNodeError(ed.Downstream)
	}

	e.removeEdge(ed.Upstream, ed.Downstream)
	e.dependents[ed.Upstream] = append(e.dependents[ed.Upstream], ed)
	e.dependencies[ed.Downstream] = append(e.dependencies[ed.Downstream], ed)

	return ed, nil
}

// ConnectMany connects edges in order and stops at the first failure.
// Edges connected before the failure stay installed.
func (e *Engine) ConnectMany(edges []Edge) error {
	for _, edge := range edges {
		if _, err := e.Connect(edge); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect removes the edge from upstream to downstream.
// It is a no-op if no such edge exists.
func (e *Engine) Disconnect(upstreamKey, downstreamKey string) {
	e.removeEdge(NormalizeKey(upstreamKey), NormalizeKey(downstreamKey))
}

// RemoveNode deletes a node and every edge incident to it, in both
// directions, from both indexes.
func (e *Engine) RemoveNode(key string) error {
	k := NormalizeKey(key)
	if _, ok := e.nodes[k]; !ok {
		return unknownNodeError(k)
	}

	for _, out := range e.dependents[k] {
		e.dependencies[out.Downstream] = withoutEdge(e.dependencies[out.Downstream], k, out.Downstream)
	}
	for _, in := range e.dependencies[k] {
		e.dependents[in.Upstream] = withoutEdge(e.dependents[in.Upstream], in.Upstream, k)
	}

	delete(e.dependents, k)
	delete(e.dependencies, k)
	delete(e.nodes, k)

	for i, ordered := range e.order {
		if ordered == k {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	return nil
}

// GetNode returns the node registered under key.
func (e *Engine) GetNode(key string) (Node, error) {
	k := NormalizeKey(key)
	n, ok := e.nodes[k]
	if !ok {
		return Node{}, unknownNodeError(k)
	}
	return n.clone(), nil
}

// HasNode reports whether key is registered.
func (e *Engine) HasNode(key string) bool {
	_, ok := e.nodes[NormalizeKey(key)]
	return ok
}

// Len returns the number of registered nodes.
func (e *Engine) Len() int {
	return len(e.nodes)
}

// EdgeCount returns the number of edges.
func (e *Engine) EdgeCount() int {
	count := 0
	for _, out := range e.dependents {
		count += len(out)
	}
	return count
}

// Nodes returns every node in registration order.
func (e *Engine) Nodes() []Node {
	out := make([]Node, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.nodes[k].clone())
	}
	return out
}

// Edges returns every edge, grouped by upstream node in registration order.
func (e *Engine) Edges() []Edge {
	var out []Edge
	for _, k := range e.order {
		out = append(out, e.dependents[k]...)
	}
	if out == nil {
		out = []Edge{}
	}
	return out
}

// DependenciesOf returns the incoming edges of key (edges whose downstream
// is key). Unknown keys yield an empty slice.
func (e *Engine) DependenciesOf(key string) []Edge {
	return append([]Edge{}, e.dependencies[NormalizeKey(key)]...)
}

// DependentsOf returns the outgoing edges of key (edges whose upstream is
// key). Unknown keys yield an empty slice.
func (e *Engine) DependentsOf(key string) []Edge {
	return append([]Edge{}, e.dependents[NormalizeKey(key)]...)
}

// removeEdge drops the (upstream, downstream) edge from both indexes.
func (e *Engine) removeEdge(upstream, downstream string) {
	if out, ok := e.dependents[upstream]; ok {
		e.dependents[upstream] = withoutEdge(out, upstream, downstream)
	}
	if in, ok := e.dependencies[downstream]; ok {
		e.dependencies[downstream] = withoutEdge(in, upstream, downstream)
	}
}

// withoutEdge returns edges minus the (upstream, downstream) edge.
// The result is a fresh slice; edges is not modified.
func withoutEdge(edges []Edge, upstream, downstream string) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, ed := range edges {
		if ed.Upstream == upstream && ed.Downstream == downstream {
			continue
		}
		out = append(out, ed)
	}
	return out
}
