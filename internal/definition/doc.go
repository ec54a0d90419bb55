// Package definition loads dependency graph definitions from YAML, CUE and
// HCL files and turns them into a graph.Engine.
//
// # Document Format
//
// The YAML form:
//
//	name: settlement-readiness
//	nodes:
//	  - name: Identity
//	    readiness: 0.9
//	    resilience: 0.7
//	    criticality: 0.8
//	    tags: [core]
//	    metadata: {owner: platform}
//	edges:
//	  - from: identity
//	    to: risk
//	    weight: 0.9          # default 1.0
//	    coupling: 0.8        # default 1.0
//	    latency_penalty: 0   # default 0
//
// CUE files use the same field names and are unified with a schema before
// decoding, so misspelled fields and non-numeric scores fail with a source
// position. A directory is loaded as one CUE package instance.
//
// HCL files use labelled blocks:
//
//	name = "settlement-readiness"
//
//	node "Identity" {
//	  readiness   = 0.9
//	  resilience  = 0.7
//	  criticality = 0.8
//	}
//
//	edge "identity" "risk" {
//	  weight   = 0.9
//	  coupling = 0.8
//	}
//
// # Validation
//
// Validate reports every problem in a document with a stable code (E2xx).
// Out-of-range scores are reported but are not fatal for Build: the engine
// clamps them.
package definition
