package persist

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/stockroom/internal/inventory"
)

const textFields = 4

// TextAdapter stores one record per line as id,name,quantity,price.
type TextAdapter struct {
	path  string
	delim string
	log   *slog.Logger
}

// NewTextAdapter creates a text adapter. delim is not validated; use New for that.
func NewTextAdapter(path, delim string, log *slog.Logger) *TextAdapter {
	return &TextAdapter{path: path, delim: delim, log: log}
}

func (a *TextAdapter) Path() string       { return a.path }
func (a *TextAdapter) Strategy() Strategy { return StrategyText }

// Load reads the file. A missing file yields no records; the first malformed
// line fails the whole load with *FormatError.
func (a *TextAdapter) Load(ctx context.Context) ([]inventory.Record, error) {
	ok, err := exists(a.path)
	if err != nil || !ok {
		return nil, err
	}

	var records []inventory.Record
	err = withReadLock(ctx, a.path, func() error {
		f, err := os.Open(a.path)
		if err != nil {
			return &IOError{Op: "open", Path: a.path, Err: err}
		}
		defer f.Close()

		records, err = decodeText(f, a.path, a.delim)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("catalog loaded", "records", len(records))
	return records, nil
}

// Save overwrites the file with records.
func (a *TextAdapter) Save(ctx context.Context, records []inventory.Record) error {
	for _, r := range records {
		if strings.Contains(r.Name, a.delim) || strings.ContainsAny(r.Name, "\r\n") {
			a.log.Warn("name contains the delimiter or a line break; the row will not load back",
				"id", r.ID, "name", r.Name, "delimiter", a.delim)
		}
	}
	if err := ensureDir(a.path); err != nil {
		return err
	}
	data := encodeText(records, a.delim)
	err := withFileLock(ctx, a.path, func() error {
		return writeAtomic(a.path, data)
	})
	if err != nil {
		return err
	}
	a.log.Debug("catalog saved", "records", len(records), "bytes", len(data))
	return nil
}

func encodeText(records []inventory.Record, delim string) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		buf.WriteString(strconv.Itoa(r.ID))
		buf.WriteString(delim)
		buf.WriteString(r.Name)
		buf.WriteString(delim)
		buf.WriteString(strconv.Itoa(r.Quantity))
		buf.WriteString(delim)
		buf.WriteString(r.Price.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func decodeText(r io.Reader, path, delim string) ([]inventory.Record, error) {
	var records []inventory.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, reason, err := parseTextLine(line, delim)
		if reason != "" {
			return nil, &FormatError{Path: path, Line: lineNo, Text: line, Reason: reason, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return records, nil
}

// parseTextLine returns a non-empty reason when the line is malformed.
func parseTextLine(line, delim string) (inventory.Record, string, error) {
	fields := strings.Split(line, delim)
	if len(fields) != textFields {
		return inventory.Record{}, fmt.Sprintf("expected %d fields, got %d", textFields, len(fields)), nil
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return inventory.Record{}, "invalid id", err
	}
	name := fields[1]
	if strings.TrimSpace(name) == "" {
		return inventory.Record{}, "empty name", nil
	}
	qty, err := strconv.Atoi(fields[2])
	if err != nil {
		return inventory.Record{}, "invalid quantity", err
	}
	if qty < 0 {
		return inventory.Record{}, "negative quantity", nil
	}
	price, err := decimal.NewFromString(fields[3])
	if err != nil {
		return inventory.Record{}, "invalid price", err
	}
	if price.IsNegative() {
		return inventory.Record{}, "negative price", nil
	}
	return inventory.Record{ID: id, Name: name, Price: price, Quantity: qty}, "", nil
}
