package persist

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/roach88/stockroom/internal/inventory"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added index on records.id
const currentSchemaVersion = 1

// SQLiteAdapter stores the catalog in a SQLite database, one row per record.
// The database is opened for each Load and Save and closed afterwards.
type SQLiteAdapter struct {
	path string
	log  *slog.Logger
}

// NewSQLiteAdapter creates a SQLite adapter.
func NewSQLiteAdapter(path string, log *slog.Logger) *SQLiteAdapter {
	return &SQLiteAdapter{path: path, log: log}
}

func (a *SQLiteAdapter) Path() string       { return a.path }
func (a *SQLiteAdapter) Strategy() Strategy { return StrategySQLite }

// Load returns the records ordered by seq. A missing database yields no
// records and is not created.
func (a *SQLiteAdapter) Load(ctx context.Context) ([]inventory.Record, error) {
	ok, err := exists(a.path)
	if err != nil || !ok {
		return nil, err
	}

	var records []inventory.Record
	err = withReadLock(ctx, a.path, func() error {
		db, err := openDB(a.path)
		if err != nil {
			return &IOError{Op: "open", Path: a.path, Err: err}
		}
		defer db.Close()

		records, err = a.readAll(ctx, db)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("catalog loaded", "records", len(records))
	return records, nil
}

func (a *SQLiteAdapter) readAll(ctx context.Context, db *sql.DB) ([]inventory.Record, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT seq, id, name, quantity, price
		FROM records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, &IOError{Op: "query", Path: a.path, Err: err}
	}
	defer rows.Close()

	records := make([]inventory.Record, 0, 16)
	for rows.Next() {
		var (
			seq   int
			r     inventory.Record
			price string
		)
		if err := rows.Scan(&seq, &r.ID, &r.Name, &r.Quantity, &price); err != nil {
			return nil, &IOError{Op: "scan", Path: a.path, Err: err}
		}
		r.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, &FormatError{Path: a.path, Line: seq, Text: price, Reason: "invalid price", Err: err}
		}
		if err := inventory.Validate(r); err != nil {
			return nil, &FormatError{Path: a.path, Line: seq, Reason: "invalid record", Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "query", Path: a.path, Err: err}
	}
	return records, nil
}

// Save replaces every row in one transaction.
func (a *SQLiteAdapter) Save(ctx context.Context, records []inventory.Record) error {
	if err := ensureDir(a.path); err != nil {
		return err
	}
	err := withFileLock(ctx, a.path, func() error {
		db, err := openDB(a.path)
		if err != nil {
			return &IOError{Op: "open", Path: a.path, Err: err}
		}
		defer db.Close()

		if err := writeAll(ctx, db, records); err != nil {
			return &IOError{Op: "write", Path: a.path, Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.log.Debug("catalog saved", "records", len(records))
	return nil
}

func writeAll(ctx context.Context, db *sql.DB, records []inventory.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (seq, id, name, quantity, price)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i+1, r.ID, r.Name, r.Quantity, r.Price.String()); err != nil {
			return fmt.Errorf("insert record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// openDB opens the database and applies pragmas and migrations.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

// applyPragmas sets required SQLite configuration. The rollback journal keeps
// the catalog a single file between runs.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes records by item id for lookups from external tools.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_records_id ON records(id)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// schemaVersion reads PRAGMA user_version. Used for testing.
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}
