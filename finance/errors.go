/*
errors.go - Centralized error types for the finance engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Callers wrap these with flow/category/month context via fmt.Errorf("%w").

ERROR CATEGORIES:
  1. Arithmetic errors  - Fixed-point overflow, division by zero
  2. Table errors       - Malformed or out-of-range lookup tables
  3. Model errors       - Invalid configuration detected before a run
  4. Evaluation errors  - Failures while simulating a month

USAGE:
  Match with errors.Is():

    if errors.Is(err, finance.ErrOverflow) {
        // the plan's numbers exceed int64 fixed-point range
    }

There is no retry policy: any error during Model.Run discards the run.
*/
package finance

import (
	"errors"
)

var (
	// ErrOverflow is returned when a fixed-point multiplication would
	// exceed the int64 range. The result would be garbage, so the whole
	// run is aborted rather than wrapped around.
	ErrOverflow = errors.New("fixed-point overflow")

	// ErrDivideByZero is returned when dividing Money by zero Money.
	ErrDivideByZero = errors.New("division by zero")

	// ErrEmptyTable is returned when a lookup table is built with no entries.
	ErrEmptyTable = errors.New("lookup table has no entries")

	// ErrMalformedTable is returned when lookup table entries are inverted,
	// empty, overlapping, or leave gaps.
	ErrMalformedTable = errors.New("lookup table entries are not contiguous")

	// ErrTimeNotInTable is returned when a table lookup falls outside the
	// covered interval. Tables never clamp or extrapolate.
	ErrTimeNotInTable = errors.New("time not covered by lookup table")

	// ErrUnknownCategory is returned at model construction when a flow or
	// the tax category references a category that was not configured.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateFlow is returned when two flows with the same name apply
	// to the same category in the same month. Transactions are keyed by
	// flow name, so this would silently drop one of them.
	ErrDuplicateFlow = errors.New("duplicate flow name in month")
)
