package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/definition"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/monitor"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

// Harness executes one scenario against a freshly built graph.
type Harness struct {
	guard  *monitor.Guard
	seq    *testutil.Sequence
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario builds its own engine from the graph definition, so
// scenarios are isolated from each other. Failed expectations are reported
// in the result; the returned error is reserved for scenarios that cannot
// run at all (for example a graph that fails to load or build).
//
// Execution flow:
// 1. Load and build the graph definition
// 2. Apply mutations in order
// 3. Run checks in order
// 4. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with debug logging of every step.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	_, engine, err := definition.LoadAndBuild(scenario.Graph)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph for %s: %w", scenario.Name, err)
	}

	h := &Harness{
		guard:  monitor.NewGuard(engine, monitor.WithLogger(logger)),
		seq:    testutil.NewSequence(),
		logger: logger,
	}

	result := NewResult()
	for i, m := range scenario.Mutations {
		h.applyMutation(i, m, result)
	}
	for i, c := range scenario.Checks {
		h.runCheck(i, c, result)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

// record appends event to the trace and adds its failures to the result.
func (h *Harness) record(result *Result, event TraceEvent, failures []error) {
	event.Seq = h.seq.Next()
	event.Pass = len(failures) == 0
	for _, f := range failures {
		result.AddError(f.Error())
	}
	result.AddTrace(event)

	h.logger.Debug("step evaluated",
		"seq", event.Seq,
		"kind", event.Kind,
		"op", event.Op,
		"target", event.Target,
		"pass", event.Pass,
	)
}

func (h *Harness) applyMutation(index int, m Mutation, result *Result) {
	event := TraceEvent{Kind: EventMutation}
	var err error

	switch {
	case m.Register != nil:
		node := h.guard.RegisterNode(m.Register.Node())
		event.Op, event.Target = "register", node.Key
	case m.Connect != nil:
		edge := m.Connect.Edge()
		_, err = h.guard.Connect(edge)
		event.Op, event.Target = "connect", edgeTarget(edge.Upstream, edge.Downstream)
	case m.Disconnect != nil:
		from, to := graph.NormalizeKey(m.Disconnect.From), graph.NormalizeKey(m.Disconnect.To)
		h.guard.Disconnect(from, to)
		event.Op, event.Target = "disconnect", edgeTarget(from, to)
	default:
		err = h.guard.RemoveNode(m.Remove)
		event.Op, event.Target = "remove", graph.NormalizeKey(m.Remove)
	}

	event.Error = string(graph.CodeOf(err))
	where := fmt.Sprintf("mutations[%d] %s(%s)", index, event.Op, event.Target)
	h.record(result, event, failuresOf(assertError(where, m.ExpectError, err)))
}

func (h *Harness) runCheck(index int, c Check, result *Result) {
	switch {
	case c.Readiness != nil:
		h.checkReadiness(index, c.Readiness, result)
	case c.Profile != nil:
		h.checkProfile(index, c.Profile, result)
	case c.Order != nil:
		h.checkOrder(index, c.Order, result)
	default:
		h.checkPropagate(index, c.Propagate, result)
	}
}

func (h *Harness) checkReadiness(index int, c *ReadinessCheck, result *Result) {
	key := graph.NormalizeKey(c.Node)
	event := TraceEvent{Kind: EventCheck, Op: "readiness", Target: key}
	where := fmt.Sprintf("checks[%d] readiness(%s)", index, key)

	score, err := h.guard.Readiness(key)
	event.Error = string(graph.CodeOf(err))
	if err != nil || c.ExpectError != "" {
		if err == nil {
			event.Values = map[string]float64{key: report.Round6(score)}
		}
		h.record(result, event, failuresOf(assertError(where, c.ExpectError, err)))
		return
	}

	event.Values = map[string]float64{key: report.Round6(score)}
	h.record(result, event, failuresOf(assertClose(where, *c.Expect, score, tolerance(c.Tolerance))))
}

func (h *Harness) checkProfile(index int, c *ProfileCheck, result *Result) {
	event := TraceEvent{Kind: EventCheck, Op: "profile"}
	where := fmt.Sprintf("checks[%d] profile", index)

	profile, err := h.guard.ReadinessProfile()
	event.Error = string(graph.CodeOf(err))
	if err != nil || c.ExpectError != "" {
		if err == nil {
			event.Values = rounded(profile)
		}
		h.record(result, event, failuresOf(assertError(where, c.ExpectError, err)))
		return
	}

	event.Values = rounded(profile)
	h.record(result, event, assertSubset(where, c.Expect, profile, tolerance(c.Tolerance)))
}

func (h *Harness) checkOrder(index int, c *OrderCheck, result *Result) {
	event := TraceEvent{Kind: EventCheck, Op: "order"}
	where := fmt.Sprintf("checks[%d] order", index)

	nodes, err := h.guard.TopologicalOrder()
	event.Error = string(graph.CodeOf(err))
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key
	}
	if err != nil || c.ExpectError != "" {
		if err == nil {
			event.Order = keys
		}
		h.record(result, event, failuresOf(assertError(where, c.ExpectError, err)))
		return
	}

	event.Order = keys
	var failures []error
	if len(c.Expect) > 0 {
		failures = append(failures, failuresOf(assertExactOrder(where, c.Expect, keys))...)
	}
	failures = append(failures, assertBefore(where, c.Before, keys)...)
	h.record(result, event, failures)
}

func (h *Harness) checkPropagate(index int, c *PropagateCheck, result *Result) {
	impulse := c.Impulse.Impulse()
	event := TraceEvent{Kind: EventCheck, Op: "propagate", Target: impulse.Origin}
	where := fmt.Sprintf("checks[%d] propagate(%s)", index, impulse.Origin)

	impacts, err := h.guard.Propagate(impulse, c.Attenuation, c.MaxDepth)
	event.Error = string(graph.CodeOf(err))
	if err != nil || c.ExpectError != "" {
		if err == nil {
			event.Values = rounded(impacts)
		}
		h.record(result, event, failuresOf(assertError(where, c.ExpectError, err)))
		return
	}

	event.Values = rounded(impacts)
	failures := assertSubset(where, c.Expect, impacts, tolerance(c.Tolerance))
	if len(c.Descending) > 0 {
		failures = append(failures, failuresOf(assertDescending(where, c.Descending, impacts))...)
	}
	h.record(result, event, failures)
}

func failuresOf(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}

func tolerance(t float64) float64 {
	if t <= 0 {
		return DefaultTolerance
	}
	return t
}

func rounded(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = report.Round6(v)
	}
	return out
}

func edgeTarget(from, to string) string {
	return from + "→" + to
}
