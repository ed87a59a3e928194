package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/manager"
	"github.com/roach88/stockroom/internal/persist"
	"github.com/roach88/stockroom/internal/testutil"
)

// Harness executes one scenario against a catalog file in its own directory.
type Harness struct {
	scenario *Scenario
	adapter  persist.Adapter
	opts     manager.Options
	logger   *slog.Logger
	mgr      *manager.Manager
}

// Run executes a scenario with its catalog file under dir and returns the
// result. The returned error is reserved for failures to set the run up;
// step and state mismatches are reported in Result.Errors.
//
// Execution flow:
// 1. Write the setup records with the scenario's strategy
// 2. Open a manager on that file
// 3. Execute steps, checking expected outcomes
// 4. Check the final records
// 5. Optionally save, reopen and compare again
func Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	return RunWithLogger(ctx, scenario, dir, nil)
}

// RunWithLogger is Run with the manager and adapter logging to logger.
func RunWithLogger(ctx context.Context, scenario *Scenario, dir string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	strategy := scenario.strategy()
	adapter, err := persist.New(persist.Options{
		Strategy: strategy,
		Path:     filepath.Join(dir, persist.DefaultPath(strategy)),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}

	policy, err := inventory.ParsePolicy(string(scenario.Policy.Duplicates), string(scenario.Policy.Missing))
	if err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		adapter:  adapter,
		logger:   logger,
		opts: manager.Options{
			Policy:   policy,
			Recovery: manager.RecoveryFail,
			Autosave: scenario.autosave(),
			Sessions: testutil.NewFixedSessionGenerator(scenario.Session),
		},
	}

	if err := h.seed(ctx); err != nil {
		return nil, err
	}
	if err := h.open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	result := NewResult()
	for i := range scenario.Steps {
		h.executeStep(ctx, i, &scenario.Steps[i], result)
	}

	checkFinal(scenario.Final, h.mgr.List(), "final", result)

	if scenario.Reload {
		h.reloadCheck(ctx, result)
	}

	result.Records = h.mgr.List()
	return result, nil
}

// seed writes the setup records directly through the adapter so the run
// starts from a real file.
func (h *Harness) seed(ctx context.Context) error {
	if len(h.scenario.Setup) == 0 {
		return nil
	}
	records := make([]inventory.Record, 0, len(h.scenario.Setup))
	for i, spec := range h.scenario.Setup {
		r, err := spec.Record()
		if err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		records = append(records, r)
	}
	if err := h.adapter.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to write setup records: %w", err)
	}
	return nil
}

func (h *Harness) open(ctx context.Context) error {
	mgr, err := manager.Open(ctx, h.adapter, h.opts, h.logger)
	if err != nil {
		return err
	}
	h.mgr = mgr
	return nil
}

// executeStep applies one step and records it in the trace.
func (h *Harness) executeStep(ctx context.Context, index int, st *Step, result *Result) {
	var (
		detail string
		rec    *inventory.Record
		count  = -1
		err    error
	)

	switch st.Op {
	case OpAdd:
		var r inventory.Record
		r, err = inventory.NewRecord(st.ID, *st.Name, *st.Quantity, *st.Price)
		if err == nil {
			err = h.mgr.Add(ctx, r)
		}
	case OpFind:
		var r inventory.Record
		if r, err = h.mgr.Find(st.ID); err == nil {
			rec = &r
		}
	case OpSell:
		var r inventory.Record
		if r, err = h.mgr.Sell(ctx, st.ID, *st.Quantity); err == nil {
			rec = &r
		}
	case OpUpdate:
		var p inventory.Patch
		if p, err = st.patch(); err == nil {
			count, err = h.mgr.Update(ctx, st.ID, p)
		}
	case OpRemove:
		count, err = h.mgr.Remove(ctx, st.ID)
	case OpClear:
		err = h.mgr.Clear(ctx)
	case OpSave:
		err = h.mgr.Save(ctx)
	case OpReload:
		if err = h.open(ctx); err == nil {
			detail = fmt.Sprintf("records=%d", h.mgr.Len())
		}
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = outcomeOf(err)
	} else {
		if rec != nil {
			detail = rec.String()
		}
		if count >= 0 {
			detail = fmt.Sprintf("count=%d", count)
		}
	}
	h.logger.Debug("scenario step", "index", index, "op", st.Op, "outcome", outcome)
	event := result.addEvent(st.Op, st.args(), outcome, detail)

	want := st.Expect
	if want == "" {
		want = OutcomeOK
	}
	if outcome != want {
		msg := fmt.Sprintf("steps[%d] (%s): expected %s, got %s", index, event.String(), want, outcome)
		if err != nil {
			msg += ": " + err.Error()
		}
		result.AddError(msg)
		return
	}

	if st.Count != nil && count >= 0 && count != *st.Count {
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected count %d, got %d", index, event.String(), *st.Count, count))
	}
	if st.Want != nil && rec != nil {
		wantRec, _ := st.Want.Record()
		if !rec.Equal(wantRec) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): expected record %s, got %s", index, event.String(), wantRec, rec))
		}
	}
}

// reloadCheck saves, reopens the file and compares the records.
func (h *Harness) reloadCheck(ctx context.Context, result *Result) {
	before := h.mgr.List()
	if err := h.mgr.Save(ctx); err != nil {
		result.addEvent(OpReload, "", outcomeOf(err), "")
		result.AddError(fmt.Sprintf("reload: save failed: %v", err))
		return
	}
	if err := h.open(ctx); err != nil {
		result.addEvent(OpReload, "", outcomeOf(err), "")
		result.AddError(fmt.Sprintf("reload: %v", err))
		return
	}
	after := h.mgr.List()
	result.addEvent(OpReload, "", OutcomeOK, fmt.Sprintf("records=%d", len(after)))

	if !inventory.EqualRecords(before, after) {
		result.AddError(fmt.Sprintf("reload: expected %s, got %s", rowsOf(before), rowsOf(after)))
	}
}

// patch builds the update patch. A bad price is an INVALID outcome.
func (st *Step) patch() (inventory.Patch, error) {
	var p inventory.Patch
	p.Name = st.Name
	p.Quantity = st.Quantity
	if st.Price != nil {
		price, err := decimal.NewFromString(*st.Price)
		if err != nil {
			return p, &inventory.Error{
				Code:    inventory.ErrCodeInvalid,
				Message: "invalid item",
				ID:      st.ID,
				Details: map[string]string{"price": "not a decimal number"},
			}
		}
		p.Price = &price
	}
	return p, nil
}

// args renders the step's inputs for the trace.
func (st *Step) args() string {
	var parts []string
	switch st.Op {
	case OpClear, OpSave, OpReload:
		return ""
	}
	parts = append(parts, "id="+strconv.Itoa(st.ID))
	if st.Name != nil {
		parts = append(parts, "name="+strconv.Quote(*st.Name))
	}
	if st.Price != nil {
		parts = append(parts, "price="+*st.Price)
	}
	if st.Quantity != nil {
		parts = append(parts, "quantity="+strconv.Itoa(*st.Quantity))
	}
	return strings.Join(parts, " ")
}

// outcomeOf maps an error to the code a step can expect.
func outcomeOf(err error) string {
	if code := inventory.CodeOf(err); code != "" {
		return string(code)
	}
	switch {
	case persist.IsFormatError(err):
		return OutcomeFormatError
	case persist.IsIOFailure(err):
		return OutcomeIOFailure
	}
	return "ERROR"
}
