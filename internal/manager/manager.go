// Package manager runs one session against the catalog: it loads the Store
// through a persistence Adapter, applies operations, and saves the result
// after every change (autosave) or when asked to.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/persist"
)

// Recovery decides what Open does when an existing file cannot be loaded.
type Recovery string

const (
	// RecoveryAuto starts empty for the binary strategy and fails otherwise.
	RecoveryAuto Recovery = "auto"

	// RecoveryEmpty logs the error and starts with an empty catalog.
	RecoveryEmpty Recovery = "empty"

	// RecoveryFail returns the load error from Open.
	RecoveryFail Recovery = "fail"
)

// ParseRecovery validates a recovery name. Empty selects RecoveryAuto.
func ParseRecovery(s string) (Recovery, error) {
	switch Recovery(s) {
	case "":
		return RecoveryAuto, nil
	case RecoveryAuto, RecoveryEmpty, RecoveryFail:
		return Recovery(s), nil
	default:
		return "", fmt.Errorf("unknown recovery %q: must be %q, %q or %q", s, RecoveryAuto, RecoveryEmpty, RecoveryFail)
	}
}

// Options configures Open.
type Options struct {
	Policy   inventory.Policy
	Recovery Recovery

	// Autosave saves after every successful mutation.
	Autosave bool

	// Sessions defaults to UUIDv7Generator.
	Sessions SessionIDGenerator
}

// Manager owns the Store for the lifetime of one process.
type Manager struct {
	adapter  persist.Adapter
	store    *inventory.Store
	log      *slog.Logger
	autosave bool
	dirty    bool
	session  string
	loadErr  error
}

// Open loads the catalog and returns a ready Manager. A missing file gives
// an empty catalog. Other load failures are handled per opts.Recovery.
func Open(ctx context.Context, adapter persist.Adapter, opts Options, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = UUIDv7Generator{}
	}
	session := sessions.Generate()
	log = log.With("session", session)

	m := &Manager{
		adapter:  adapter,
		log:      log,
		autosave: opts.Autosave,
		session:  session,
	}

	records, err := adapter.Load(ctx)
	if err != nil {
		if !m.recoverable(opts.Recovery, err) {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		log.Warn("could not load catalog, starting empty", "path", adapter.Path(), "error", err)
		m.loadErr = err
		records = nil
	}

	m.store = inventory.NewStore(opts.Policy, records)
	log.Info("catalog opened",
		"path", adapter.Path(),
		"strategy", string(adapter.Strategy()),
		"records", m.store.Len(),
		"autosave", m.autosave)
	return m, nil
}

func (m *Manager) recoverable(r Recovery, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch r {
	case RecoveryEmpty:
		return true
	case RecoveryFail:
		return false
	default:
		return m.adapter.Strategy() == persist.StrategyBinary
	}
}

// SessionID returns the id attached to this manager's log lines.
func (m *Manager) SessionID() string { return m.session }

// LoadErr returns the load error Open recovered from, or nil.
func (m *Manager) LoadErr() error { return m.loadErr }

// Dirty reports whether there are changes not yet saved.
func (m *Manager) Dirty() bool { return m.dirty }

// Autosave reports whether every change is saved immediately.
func (m *Manager) Autosave() bool { return m.autosave }

// Adapter returns the persistence adapter.
func (m *Manager) Adapter() persist.Adapter { return m.adapter }

// Policy returns the store policy in effect.
func (m *Manager) Policy() inventory.Policy { return m.store.Policy() }

// Len returns the number of records.
func (m *Manager) Len() int { return m.store.Len() }

// List returns all records in insertion order.
func (m *Manager) List() []inventory.Record { return m.store.List() }

// Find returns the first record with id.
func (m *Manager) Find(id int) (inventory.Record, error) { return m.store.Find(id) }

// Add appends a record.
//
// Like every mutation, a failed autosave is returned as an error wrapping
// *persist.IOError while the in-memory change stays applied.
func (m *Manager) Add(ctx context.Context, r inventory.Record) error {
	if err := m.store.Add(r); err != nil {
		m.log.Info("add rejected", "id", r.ID, "error", err)
		return err
	}
	m.log.Info("item added", "id", r.ID, "quantity", r.Quantity)
	return m.changed(ctx)
}

// Sell decrements stock and returns the updated record.
func (m *Manager) Sell(ctx context.Context, id, qty int) (inventory.Record, error) {
	rec, err := m.store.Sell(id, qty)
	if err != nil {
		m.log.Info("sale rejected", "id", id, "quantity", qty, "error", err)
		return inventory.Record{}, err
	}
	m.log.Info("item sold", "id", id, "quantity", qty, "remaining", rec.Quantity)
	return rec, m.changed(ctx)
}

// Update applies p to every record with id and returns how many changed.
func (m *Manager) Update(ctx context.Context, id int, p inventory.Patch) (int, error) {
	n, err := m.store.Update(id, p)
	if err != nil {
		m.log.Info("update rejected", "id", id, "error", err)
		return 0, err
	}
	if n == 0 {
		m.log.Debug("update matched nothing", "id", id)
		return 0, nil
	}
	m.log.Info("item updated", "id", id, "records", n)
	return n, m.changed(ctx)
}

// Remove deletes every record with id and returns how many were removed.
func (m *Manager) Remove(ctx context.Context, id int) (int, error) {
	n, err := m.store.Remove(id)
	if err != nil {
		m.log.Info("remove rejected", "id", id, "error", err)
		return 0, err
	}
	if n == 0 {
		m.log.Debug("remove matched nothing", "id", id)
		return 0, nil
	}
	m.log.Info("item removed", "id", id, "records", n)
	return n, m.changed(ctx)
}

// Clear empties the catalog.
func (m *Manager) Clear(ctx context.Context) error {
	n := m.store.Len()
	m.store.Clear()
	m.log.Info("catalog cleared", "records", n)
	return m.changed(ctx)
}

// Save writes the whole catalog. On failure the in-memory catalog is kept
// and stays dirty.
func (m *Manager) Save(ctx context.Context) error {
	records := m.store.List()
	if err := m.adapter.Save(ctx, records); err != nil {
		m.log.Error("save failed", "path", m.adapter.Path(), "error", err)
		return fmt.Errorf("save catalog: %w", err)
	}
	m.dirty = false
	m.log.Debug("catalog saved", "path", m.adapter.Path(), "records", len(records))
	return nil
}

// Close saves pending changes.
func (m *Manager) Close(ctx context.Context) error {
	if !m.dirty {
		return nil
	}
	return m.Save(ctx)
}

func (m *Manager) changed(ctx context.Context) error {
	m.dirty = true
	if !m.autosave {
		return nil
	}
	return m.Save(ctx)
}
