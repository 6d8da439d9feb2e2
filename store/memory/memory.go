// Package memory provides an in-memory PlanStore for testing and
// ephemeral servers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/networth-engine/store"
)

// Store implements store.PlanStore with a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	plans map[string]store.Plan
}

func New() *Store {
	return &Store{plans: make(map[string]store.Plan)}
}

// Save inserts the plan or replaces an existing document, keeping the
// original creation time.
func (s *Store) Save(_ context.Context, plan store.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc := make([]byte, len(plan.Document))
	copy(doc, plan.Document)

	saved := store.Plan{
		Name:      plan.Name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := s.plans[plan.Name]; ok {
		saved.CreatedAt = existing.CreatedAt
	}
	s.plans[plan.Name] = saved
	return nil
}

// Get returns the plan with the given name.
func (s *Store) Get(_ context.Context, name string) (store.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[name]
	if !ok {
		return store.Plan{}, store.ErrPlanNotFound
	}
	return plan, nil
}

// List returns every stored plan ordered by name.
func (s *Store) List(_ context.Context) ([]store.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]store.Plan, 0, len(s.plans))
	for _, plan := range s.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Name < plans[j].Name })
	return plans, nil
}

// Delete removes the plan with the given name.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[name]; !ok {
		return store.ErrPlanNotFound
	}
	delete(s.plans, name)
	return nil
}
