// Package sqlite implements storage.Store over a single SQLite database.
//
// One file backs all back-office state so the lease and payment transitions
// can share transaction and visibility boundaries. Conditional updates are
// expressed as single UPDATE statements whose affected-row count resolves
// races; that property holds across independent processes sharing the file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/parkrow/backoffice/internal/storage"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS properties (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name            TEXT NOT NULL,
	address_line1   TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	postal_code     TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_properties_org ON properties(organization_id);

CREATE TABLE IF NOT EXISTS units (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	property_id     TEXT NOT NULL REFERENCES properties(id),
	unit_number     TEXT NOT NULL,
	status          TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	UNIQUE (property_id, unit_number)
);
CREATE INDEX IF NOT EXISTS idx_units_org ON units(organization_id);

CREATE TABLE IF NOT EXISTS renters (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	full_name       TEXT NOT NULL,
	email           TEXT NOT NULL,
	phone           TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	UNIQUE (organization_id, email),
	UNIQUE (organization_id, phone)
);

CREATE TABLE IF NOT EXISTS leases (
	id                   TEXT PRIMARY KEY,
	organization_id      TEXT NOT NULL REFERENCES organizations(id),
	property_id          TEXT NOT NULL REFERENCES properties(id),
	unit_id              TEXT NOT NULL REFERENCES units(id),
	renter_id            TEXT NOT NULL REFERENCES renters(id),
	status               TEXT NOT NULL,
	start_date           INTEGER NOT NULL,
	end_date             INTEGER,
	rent_amount_cents    INTEGER NOT NULL,
	rent_currency        TEXT NOT NULL DEFAULT 'USD',
	deposit_amount_cents INTEGER NOT NULL DEFAULT 0,
	deposit_currency     TEXT NOT NULL DEFAULT 'USD',
	bill_cycle           TEXT NOT NULL,
	created_at           INTEGER NOT NULL,
	updated_at           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leases_org ON leases(organization_id);
CREATE INDEX IF NOT EXISTS idx_leases_status_end ON leases(status, end_date);

CREATE TABLE IF NOT EXISTS payments (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	lease_id        TEXT NOT NULL REFERENCES leases(id),
	type            TEXT NOT NULL,
	status          TEXT NOT NULL,
	amount_cents    INTEGER NOT NULL,
	currency        TEXT NOT NULL DEFAULT 'USD',
	due_date        INTEGER NOT NULL,
	paid_at         INTEGER,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payments_org ON payments(organization_id);
CREATE INDEX IF NOT EXISTS idx_payments_status_due ON payments(status, due_date);

CREATE TABLE IF NOT EXISTS audit_logs (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	user_id         TEXT,
	entity_type     TEXT NOT NULL,
	entity_id       TEXT NOT NULL,
	action          TEXT NOT NULL,
	metadata        TEXT,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_logs(entity_type, entity_id, created_at DESC);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// dbtx is the subset of *sql.DB and *sql.Tx the store functions use, so the
// same code runs inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements storage.Store over SQLite.
type Store struct {
	sqlDB *sql.DB
	q     dbtx
	inTx  bool
}

var _ storage.Store = (*Store)(nil)

// Open opens the SQLite store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The modernc driver serializes writers; a single connection avoids
	// SQLITE_BUSY churn under concurrent transitions.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB, q: sqlDB}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// InTx runs fn against a Store bound to one transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		// Already inside a transaction; run on the same one.
		return fn(s)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{sqlDB: s.sqlDB, q: tx, inTx: true}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation detects SQLite unique-constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// statusPlaceholders renders one "?" per status for IN clauses.
func statusPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
