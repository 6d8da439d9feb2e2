/*
table.go - Piecewise-constant lookup tables

PURPOSE:
  A Table maps every instant in one contiguous interval to a value: salary
  schedules, price histories, stepped rates. Construction validates the
  shape once so lookups can trust it.

VALIDATION (at construction):
  - at least one entry
  - no entry with an inverted or empty range
  - after sorting by start, each entry ends exactly where the next begins
    (no gaps, no overlaps)

Lookups outside the covered interval are errors. Tables never clamp to
the nearest entry or extrapolate past their ends; a model asking for a
time the author did not cover is a plan bug, not a default.
*/
package finance

import (
	"fmt"
	"sort"
)

// TableEntry pairs one interval with its constant value.
type TableEntry[T Steppable[T], V any] struct {
	Range Range[T]
	Value V
}

// Table is a validated contiguous sequence of entries, kept sorted by
// interval start.
type Table[T Steppable[T], V any] struct {
	entries []TableEntry[T, V]
}

// NewTable sorts the entries by interval start and validates contiguity.
func NewTable[T Steppable[T], V any](entries []TableEntry[T, V]) (*Table[T, V], error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	sorted := make([]TableEntry[T, V], len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Compare(sorted[j].Range.Start) < 0
	})
	for _, e := range sorted {
		if e.Range.IsEmpty() {
			return nil, fmt.Errorf("entry %v is empty or inverted: %w", e.Range, ErrMalformedTable)
		}
	}
	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1].Range, sorted[i].Range
		if prev.End.Compare(next.Start) != 0 {
			return nil, fmt.Errorf("entry %v does not meet %v: %w", prev, next, ErrMalformedTable)
		}
	}
	return &Table[T, V]{entries: sorted}, nil
}

// Range is the full covered interval, first start to last end.
func (t *Table[T, V]) Range() Range[T] {
	return Range[T]{
		Start: t.entries[0].Range.Start,
		End:   t.entries[len(t.entries)-1].Range.End,
	}
}

// ValueAt returns the value of the entry covering at.
func (t *Table[T, V]) ValueAt(at T) (V, error) {
	for _, e := range t.entries {
		if e.Range.Contains(at) {
			return e.Value, nil
		}
	}
	var zero V
	return zero, fmt.Errorf("%v outside table range %v: %w", at, t.Range(), ErrTimeNotInTable)
}
