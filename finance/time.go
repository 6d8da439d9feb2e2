/*
time.go - Simulation calendar

PURPOSE:
  The engine's clock is month-granular. Everything here is a small value
  type: months, years, month-in-year instants, signed month distances,
  recurrence frequencies, and generic half-open ranges over any steppable
  instant.

KEY CONCEPTS:
  - Month:     calendar month, cycles December -> January
  - Year:      calendar year
  - Time:      a specific month of a specific year
  - Months:    signed distance between two Times
  - Frequency: monthly / quarterly / yearly recurrence
  - Range[T]:  half-open [Start, End) over Time or Year

There are no days, weeks, or timezones. time.Time is deliberately absent:
a simulation instant is a (year, month) pair and nothing more.
*/
package finance

import (
	"fmt"
	"strings"
)

// =============================================================================
// MONTH
// =============================================================================

// Month is a calendar month, January through December.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (m Month) String() string {
	if m < January || m > December {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// ParseMonth reads a full month name, case-insensitively.
func ParseMonth(s string) (Month, error) {
	for i, name := range monthNames {
		if strings.EqualFold(s, name) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// Next cycles within the year: December wraps to January.
func (m Month) Next() Month {
	if m == December {
		return January
	}
	return m + 1
}

func (m Month) Compare(o Month) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

// index is the zero-based offset within the year.
func (m Month) index() int { return int(m) - 1 }

// MonthsOfYear lists the twelve months in calendar order.
func MonthsOfYear() []Month {
	out := make([]Month, 0, 12)
	for m := January; m <= December; m++ {
		out = append(out, m)
	}
	return out
}

// =============================================================================
// YEAR
// =============================================================================

// Year is a calendar year.
type Year int

func (y Year) Next() Year { return y + 1 }

func (y Year) Compare(o Year) int {
	switch {
	case y < o:
		return -1
	case y > o:
		return 1
	default:
		return 0
	}
}

func (y Year) String() string { return fmt.Sprintf("%d", int(y)) }

// Times lists the twelve instants of this year in order.
func (y Year) Times() []Time {
	out := make([]Time, 0, 12)
	for m := January; m <= December; m++ {
		out = append(out, Time{Year: y, Month: m})
	}
	return out
}

// =============================================================================
// TIME - A month of a year
// =============================================================================

// Time is a simulation instant: one month of one year.
type Time struct {
	Year  Year
	Month Month
}

// Next advances one month, carrying into the next year after December.
func (t Time) Next() Time {
	if t.Month == December {
		return Time{Year: t.Year.Next(), Month: January}
	}
	return Time{Year: t.Year, Month: t.Month.Next()}
}

func (t Time) Compare(o Time) int {
	if c := t.Year.Compare(o.Year); c != 0 {
		return c
	}
	return t.Month.Compare(o.Month)
}

// Sub returns the signed number of months from o to t.
func (t Time) Sub(o Time) Months {
	return Months((int(t.Year)*12 + t.Month.index()) - (int(o.Year)*12 + o.Month.index()))
}

func (t Time) String() string { return fmt.Sprintf("%v %v", t.Month, t.Year) }

// =============================================================================
// MONTHS - A signed duration
// =============================================================================

// Months is a signed count of months between two instants.
type Months int64

// EvenFreq reports whether this offset lands on a recurrence boundary:
// every month for Monthly, every third for Quarterly, every twelfth for
// Yearly. Offset zero is a boundary for all frequencies.
func (m Months) EvenFreq(f Frequency) bool {
	switch f {
	case Monthly:
		return true
	case Quarterly:
		return m%3 == 0
	case Yearly:
		return m%12 == 0
	default:
		return false
	}
}

// =============================================================================
// FREQUENCY
// =============================================================================

// Frequency is how often a recurring flow fires within its window.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// ParseFrequency reads a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// =============================================================================
// RANGE - Half-open interval over steppable instants
// =============================================================================

// Steppable is any discrete ordered instant: Time and Year both qualify.
type Steppable[T any] interface {
	Next() T
	Compare(T) int
}

// Range is the half-open interval [Start, End). A range with Start >= End
// is empty.
type Range[T Steppable[T]] struct {
	Start T
	End   T
}

func NewRange[T Steppable[T]](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

func (r Range[T]) IsEmpty() bool { return r.Start.Compare(r.End) >= 0 }

// Contains reports whether at falls inside [Start, End).
func (r Range[T]) Contains(at T) bool {
	return r.Start.Compare(at) <= 0 && at.Compare(r.End) < 0
}

// Times enumerates every instant in the interval, in order. Empty ranges
// yield nothing.
func (r Range[T]) Times() []T {
	var out []T
	for t := r.Start; t.Compare(r.End) < 0; t = t.Next() {
		out = append(out, t)
	}
	return out
}

func (r Range[T]) String() string { return fmt.Sprintf("[%v, %v)", r.Start, r.End) }
