package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/stockroom/internal/inventory"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Op      string `json:"op"`
	Args    string `json:"args,omitempty"`
	Outcome string `json:"outcome"` // "ok" or an error code
	Detail  string `json:"detail,omitempty"`
}

// String renders the event as one trace line, e.g.
// "002 sell id=1 quantity=100 -> INSUFFICIENT_STOCK".
func (e TraceEvent) String() string {
	parts := []string{fmt.Sprintf("%03d", e.Seq), e.Op}
	if e.Args != "" {
		parts = append(parts, e.Args)
	}
	parts = append(parts, "->", e.Outcome)
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step and check matched.
	Pass bool `json:"pass"`

	// Trace holds one event per executed step, plus the final reload.
	Trace []TraceEvent `json:"trace"`

	// Records is the catalog at the end of the run.
	Records []inventory.Record `json:"records"`

	// Errors contains mismatch descriptions. Empty if Pass is true.
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

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(op, args, outcome, detail string) TraceEvent {
	e := TraceEvent{
		Seq:     len(r.Trace) + 1,
		Op:      op,
		Args:    args,
		Outcome: outcome,
		Detail:  detail,
	}
	r.Trace = append(r.Trace, e)
	return e
}

// Snapshot renders the run as text for golden comparison.
func (r *Result) Snapshot(s *Scenario) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", s.Name)
	fmt.Fprintf(&b, "strategy: %s\n", s.strategy())
	fmt.Fprintf(&b, "setup: %d record(s)\n", len(s.Setup))
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "final: %d record(s)\n", len(r.Records))
	for _, rec := range r.Records {
		b.WriteString(rec.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
