/*
Package sqlite provides a SQLite-backed PlanStore.

PURPOSE:
  Persists plan documents in a single SQLite table. The same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/plans.db")  // or ":memory:"
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/networth-engine/store"
)

// Store implements store.PlanStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		name TEXT PRIMARY KEY,
		document BLOB NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts the plan or replaces an existing document, keeping the
// original creation time.
func (s *Store) Save(ctx context.Context, plan store.Plan) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		plan.Name, plan.Document, now, now)
	if err != nil {
		return fmt.Errorf("saving plan %q: %w", plan.Name, err)
	}
	return nil
}

// Get returns the plan with the given name.
func (s *Store) Get(ctx context.Context, name string) (store.Plan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, document, created_at, updated_at
		FROM plans WHERE name = ?`, name)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return store.Plan{}, store.ErrPlanNotFound
	}
	if err != nil {
		return store.Plan{}, fmt.Errorf("loading plan %q: %w", name, err)
	}
	return plan, nil
}

// List returns every stored plan ordered by name.
func (s *Store) List(ctx context.Context) ([]store.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, document, created_at, updated_at
		FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []store.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("listing plans: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Delete removes the plan with the given name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting plan %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrPlanNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (store.Plan, error) {
	var plan store.Plan
	var created, updated string
	if err := row.Scan(&plan.Name, &plan.Document, &created, &updated); err != nil {
		return store.Plan{}, err
	}
	var err error
	if plan.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return store.Plan{}, err
	}
	if plan.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return store.Plan{}, err
	}
	return plan, nil
}
