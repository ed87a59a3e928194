package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/stockroom/internal/inventory"
)

// printer groups thousands in prices (1,299.00).
var printer = message.NewPrinter(language.English)

// formatPrice renders p rounded to cents. The integer part is grouped when it
// fits in an int64 and printed as-is beyond that.
func formatPrice(p decimal.Decimal) string {
	whole, cents, _ := strings.Cut(p.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%d", n)
	}
	if p.Round(2).IsNegative() {
		whole = "-" + whole
	}
	return whole + "." + cents
}

func formatRecord(r inventory.Record) string {
	return fmt.Sprintf("ID: %-5d | Name: %-20s | Qty: %-5d | Price: %s",
		r.ID, r.Name, r.Quantity, formatPrice(r.Price))
}

// renderRecords writes one line per record in catalog order.
func renderRecords(w io.Writer, records []inventory.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No items.")
		return
	}
	for _, r := range records {
		fmt.Fprintln(w, formatRecord(r))
	}
}

// countResult is the JSON payload of update and remove.
type countResult struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}
