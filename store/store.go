/*
store.go - Persistence interface for plan documents

PURPOSE:
  Defines the interface between the HTTP surface and the database. Only
  user-authored plan documents are stored; simulation results are always
  recomputed from the plan, never persisted.

KEY OPERATIONS:
  Save:   Upsert a named plan document
  Get:    Fetch one plan by name
  List:   All plans, ordered by name
  Delete: Remove a plan

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - store/memory: In-memory for testing and ephemeral servers

SEE ALSO:
  - api/handlers.go: The HTTP surface over this interface
  - factory/plan.go: How stored documents become runnable models
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrPlanNotFound is returned by Get and Delete when no plan has the
// given name.
var ErrPlanNotFound = errors.New("plan not found")

// Plan is one stored plan document. The document is opaque to the store;
// validation happens in the factory when the plan is run.
type Plan struct {
	Name      string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlanStore persists named plan documents.
type PlanStore interface {
	// Save inserts the plan or replaces the document of an existing one.
	Save(ctx context.Context, plan Plan) error

	// Get returns the plan with the given name.
	Get(ctx context.Context, name string) (Plan, error)

	// List returns every stored plan ordered by name.
	List(ctx context.Context) ([]Plan, error)

	// Delete removes the plan with the given name.
	Delete(ctx context.Context, name string) error
}
