// Package graph implements the dependency graph readiness and propagation engine.
//
// The engine owns a registry of nodes and two adjacency indexes over the
// directed edges between them:
//
//   - dependents: upstream key → outgoing edges
//   - dependencies: downstream key → incoming edges
//
// Both indexes hold exactly the same edge set, at most one edge per ordered
// (upstream, downstream) pair. Connecting a pair again replaces its edge.
//
// ANALYTICS:
//
// Readiness scoring walks incoming edges depth-first with an in-progress
// trail, so a cycle fails with a CYCLE_DETECTED error instead of recursing
// forever. The walk uses an explicit frame stack, not Go recursion, so very
// deep acyclic graphs are fine.
//
// Topological ordering is Kahn's algorithm seeded in registration order.
//
// Propagation is a breadth-first walk of outgoing edges. Each hop scales the
// signal by edge influence and the attenuation factor. Contributions from
// several paths add up. Depth, not cycle detection, bounds the walk.
//
// CONCURRENCY:
//
// Engine does no locking. Callers that share an engine between goroutines
// must serialize access themselves (see internal/monitor.Guard).
//
// The package never logs; every failure is returned to the caller.
package graph
