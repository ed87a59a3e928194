package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/stockroom/internal/inventory"
)

// checkFinal compares the catalog against the expected records, in order.
// A nil expectation is not checked.
func checkFinal(expected []RecordSpec, actual []inventory.Record, label string, result *Result) {
	if expected == nil {
		return
	}

	want := make([]inventory.Record, 0, len(expected))
	for _, spec := range expected {
		r, err := spec.Record()
		if err != nil {
			result.AddError(fmt.Sprintf("%s: %v", label, err))
			return
		}
		want = append(want, r)
	}

	if inventory.EqualRecords(want, actual) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: catalog mismatch\n", label)
	fmt.Fprintf(&b, "  Expected: %s\n", rowsOf(want))
	fmt.Fprintf(&b, "  Actual: %s", rowsOf(actual))
	result.AddError(b.String())
}

// rowsOf renders records as [id,name,quantity,price ...].
func rowsOf(records []inventory.Record) string {
	rows := make([]string, len(records))
	for i, r := range records {
		rows[i] = r.String()
	}
	return "[" + strings.Join(rows, " ") + "]"
}
