package persist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/stockroom/internal/inventory"
)

// Adapter converts the catalog to and from a durable file.
type Adapter interface {
	// Load returns the persisted records in their saved order.
	Load(ctx context.Context) ([]inventory.Record, error)

	// Save atomically replaces the persisted content with records.
	Save(ctx context.Context, records []inventory.Record) error

	// Path returns the file this adapter reads and writes.
	Path() string

	// Strategy identifies the on-disk format.
	Strategy() Strategy
}

// Strategy names an on-disk format.
type Strategy string

const (
	StrategyText   Strategy = "text"
	StrategyBinary Strategy = "binary"
	StrategySQLite Strategy = "sqlite"
)

// Strategies lists the supported strategies.
var Strategies = []Strategy{StrategyText, StrategyBinary, StrategySQLite}

// DefaultDelimiter separates fields in the text format.
const DefaultDelimiter = ","

// Options configures New.
type Options struct {
	Strategy Strategy

	// Path defaults to DefaultPath(Strategy).
	Path string

	// Delimiter is used by the text strategy only. Defaults to ",".
	Delimiter string

	// Logger receives warnings such as unescapable names. Defaults to a discarding logger.
	Logger *slog.Logger
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown storage strategy %q: must be one of %v", s, Strategies)
}

// DefaultPath returns the conventional file name for a strategy.
func DefaultPath(s Strategy) string {
	switch s {
	case StrategyBinary:
		return "inventory.dat"
	case StrategySQLite:
		return "inventory.db"
	default:
		return "furniture_data.txt"
	}
}

// New builds the Adapter selected by opts.Strategy.
func New(opts Options) (Adapter, error) {
	st, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	path := opts.Path
	if path == "" {
		path = DefaultPath(st)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("strategy", string(st), "path", path)

	switch st {
	case StrategyBinary:
		return NewBinaryAdapter(path, log), nil
	case StrategySQLite:
		return NewSQLiteAdapter(path, log), nil
	default:
		delim := opts.Delimiter
		if delim == "" {
			delim = DefaultDelimiter
		}
		if err := checkDelimiter(delim); err != nil {
			return nil, err
		}
		return NewTextAdapter(path, delim, log), nil
	}
}

func checkDelimiter(delim string) error {
	if delim == "" {
		return fmt.Errorf("delimiter must not be empty")
	}
	if strings.ContainsAny(delim, "\r\n") {
		return fmt.Errorf("delimiter must not contain line breaks")
	}
	if strings.ContainsAny(delim, "0123456789.-+") {
		return fmt.Errorf("delimiter %q would be ambiguous with numeric fields", delim)
	}
	return nil
}
