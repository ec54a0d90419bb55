package harness

// Trace event kinds.
const (
	EventMutation = "mutation"
	EventCheck    = "check"
)

// TraceEvent records one mutation or check and what the engine returned.
type TraceEvent struct {
	Seq    int64              `json:"seq"`
	Kind   string             `json:"kind"` // "mutation" or "check"
	Op     string             `json:"op"`
	Target string             `json:"target,omitempty"`
	Error  string             `json:"error,omitempty"` // graph error code returned, if any
	Values map[string]float64 `json:"values,omitempty"`
	Order  []string           `json:"order,omitempty"`
	Pass   bool               `json:"pass"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every mutation and check matched its expectation.
	Pass bool `json:"pass"`

	// Trace contains every mutation and check in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
