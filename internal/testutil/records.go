package testutil

import (
	"testing"

	"github.com/roach88/stockroom/internal/inventory"
)

// Record builds a record from a textual price, failing the test on a bad price.
func Record(t testing.TB, id int, name string, quantity int, price string) inventory.Record {
	t.Helper()
	r, err := inventory.NewRecord(id, name, quantity, price)
	if err != nil {
		t.Fatalf("NewRecord(%d, %q, %d, %q) failed: %v", id, name, quantity, price, err)
	}
	return r
}

// Catalog returns the two-item catalog most tests start from.
func Catalog(t testing.TB) []inventory.Record {
	t.Helper()
	return []inventory.Record{
		Record(t, 1, "Sofa", 5, "499.99"),
		Record(t, 2, "Chair", 10, "89.50"),
	}
}

// Rows renders records as "id,name,quantity,price" strings. Prices are
// printed in their shortest form, so 89.50 and 89.5 render the same.
func Rows(records []inventory.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String()
	}
	return out
}
