// Package harness runs conformance scenarios against the dependency graph
// engine.
//
// A scenario loads a graph definition, optionally mutates the graph, and
// checks readiness scores, topological order and propagation impacts
// against expected values or expected error codes.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: settlement_cycle
//	description: "A back edge makes readiness and ordering fail"
//	graph: ../graphs/settlement.yaml
//	mutations:
//	  - connect: {from: settlement, to: identity, weight: 0.5}
//	  - connect: {from: ledger, to: ledger}
//	    expect_error: SELF_LOOP
//	  - disconnect: {from: risk, to: settlement}
//	  - remove: risk
//	checks:
//	  - readiness: {node: risk, expect: 0.72}
//	  - readiness: {node: identity, expect_error: CYCLE_DETECTED}
//	  - profile: {expect: {identity: 0.9}}
//	  - order: {before: [[identity, risk]]}
//	  - propagate:
//	      impulse: {origin: identity, amplitude: 0.9, urgency: 0.8, confidence: 0.75}
//	      attenuation: 0.9
//	      max_depth: 4
//	      expect: {identity: 0.54}
//	      descending: [risk, settlement]
//
// The graph path is resolved relative to the scenario file. Numeric checks
// use a tolerance of 1e-6 unless the check sets its own.
//
// # Deterministic Testing
//
// Every mutation and check is recorded in the result trace with a sequence
// number from testutil.Sequence, and values are rounded to six decimals, so
// traces compare byte-for-byte against golden files:
//
//	go test ./internal/harness -update
//
// regenerates testdata/golden.
package harness
