/*
money.go - Fixed-point money and rate types

PURPOSE:
  Money and Rate are the only numeric types the simulation touches. Both
  are int64 fixed-point values so every projection is deterministic and
  exact: no float drift compounds across a 30-year run.

KEY CONCEPTS:
  - Money: a signed number of cents
  - Rate:  a signed percentage with 6 fixed decimal places
           (internal value = percent * 10^6)

PRECISION RULES:
  1. Add/Sub/Sum/Negate are plain integer arithmetic, always exact.
  2. Rate x Money multiplies FIRST (checked for overflow) and divides
     LAST, truncating toward zero. Sub-cent precision survives until the
     final division.
  3. Money / Money scales the numerator to full Rate precision BEFORE
     dividing. Dividing first would round away sub-percent digits and
     compound into large model errors. $1 / $3 keeps the repeating
     33.333333%, not a naive 33%.
  4. Overflow is an error, never wraparound. More precision means more
     overflows; 6 decimal places is the tradeoff this engine picks.

FLOAT BOUNDARY:
  toFloat/rateFromFloat exist only for the annuity formula in events.go,
  which needs real exponentiation. Nothing else may touch floats.
*/
package finance

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ratePrecision is the number of decimal places a Rate supports. The
// tradeoff for more precision is more overflows during rate calculations.
const ratePrecision = 6

// rateScale is the internal conversion ratio of Rate: raw = percent * rateScale.
const rateScale int64 = 1_000_000

// =============================================================================
// MONEY - A signed amount in cents
// =============================================================================

// Money is an exact amount of money stored as cents.
type Money struct {
	cents int64
}

func FromDollars(amount int64) Money { return Money{cents: amount * 100} }
func FromCents(amount int64) Money   { return Money{cents: amount} }

// AsDollars truncates toward zero; $12.34 reports 12 dollars.
func (m Money) AsDollars() int64 { return m.cents / 100 }
func (m Money) AsCents() int64   { return m.cents }

func (m Money) Add(o Money) Money { return Money{cents: m.cents + o.cents} }
func (m Money) Sub(o Money) Money { return Money{cents: m.cents - o.cents} }
func (m Money) Negate() Money     { return Money{cents: -m.cents} }

func (m Money) IsZero() bool             { return m.cents == 0 }
func (m Money) IsNegative() bool         { return m.cents < 0 }
func (m Money) LessThan(o Money) bool    { return m.cents < o.cents }
func (m Money) GreaterThan(o Money) bool { return m.cents > o.cents }

// Sum adds amounts with plain integer arithmetic.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Max returns the larger of two amounts.
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// AtRate applies a rate to this amount. Fails on overflow.
func (m Money) AtRate(r Rate) (Money, error) { return r.AtRate(m) }

// Div expresses this amount as a rate of another, e.g. $10 / $100 = 10%.
//
// The numerator is scaled to full Rate precision before dividing by the
// denominator's cents so as little detail as possible is lost: the result
// carries sub-percent digits down to the Rate's 6 decimal places.
func (m Money) Div(by Money) (Rate, error) {
	if by.cents == 0 {
		return Rate{}, fmt.Errorf("dividing %v by zero: %w", m, ErrDivideByZero)
	}
	scaled, err := checkedMul(m.cents, 100*rateScale)
	if err != nil {
		return Rate{}, fmt.Errorf("dividing %v by %v: %w", m, by, err)
	}
	return Rate{raw: scaled / by.cents}, nil
}

// String renders comma-grouped dollars, showing cents only when nonzero:
// $1,000,000 and $1,234.56 and -$0.50.
func (m Money) String() string {
	cents := m.cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	out := sign + "$" + groupThousands(cents/100)
	if rem := cents % 100; rem != 0 {
		out += fmt.Sprintf(".%02d", rem)
	}
	return out
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// =============================================================================
// RATE - A percentage with 6 fixed decimal places
// =============================================================================

// Rate is a percentage stored as percent * 10^6.
type Rate struct {
	raw int64
}

func FromPercent(pct int64) Rate { return Rate{raw: pct * rateScale} }

// AsPercent truncates toward zero; 12.345678% reports 12.
func (r Rate) AsPercent() int64 { return r.raw / rateScale }

// Inverse returns 100% - r.
func (r Rate) Inverse() Rate { return FromPercent(100).Sub(r) }

func (r Rate) Negate() Rate      { return Rate{raw: -r.raw} }
func (r Rate) Sub(o Rate) Rate   { return Rate{raw: r.raw - o.raw} }
func (r Rate) Div(by int64) Rate { return Rate{raw: r.raw / by} }

// AtRate applies this rate to an amount: multiply first at full internal
// scale, then truncate toward zero with the final divisions. Fails on
// overflow rather than wrapping.
func (r Rate) AtRate(m Money) (Money, error) {
	product, err := checkedMul(m.cents, r.raw)
	if err != nil {
		return Money{}, fmt.Errorf("applying rate %v to %v: %w", r, m, err)
	}
	return Money{cents: product / rateScale / 100}, nil
}

// toFloat and rateFromFloat bridge to real-number math for the annuity
// formula only. rateFromFloat truncates to the Rate's fixed precision.
func (r Rate) toFloat() float64 { return float64(r.raw) / float64(rateScale) / 100.0 }

func rateFromFloat(f float64) Rate { return Rate{raw: int64(f * 100.0 * float64(rateScale))} }

// ParseRate reads a percentage such as "10", "6.5%", " -10 % " or
// "12.345678". At most 6 decimal places are allowed; a trailing "%" and
// surrounding whitespace are optional. Malformed input (non-numeric text,
// detached signs, too many decimal places) is rejected with a descriptive
// error.
func ParseRate(s string) (Rate, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Rate{}, fmt.Errorf("parsing rate %q: %w", s, err)
	}
	if d.Exponent() < -ratePrecision {
		return Rate{}, fmt.Errorf("parsing rate %q: more than %d decimal places", s, ratePrecision)
	}
	return Rate{raw: d.Shift(ratePrecision).IntPart()}, nil
}

// String renders the percentage, trimming trailing zeros from the
// fractional part: 10%, 6.5%, 12.345678%, -10%.
func (r Rate) String() string {
	raw := r.raw
	sign := ""
	if raw < 0 {
		sign = "-"
		raw = -raw
	}
	out := sign + strconv.FormatInt(raw/rateScale, 10)
	if rem := raw % rateScale; rem != 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%06d", rem), "0")
	}
	return out + "%"
}

// =============================================================================
// CHECKED ARITHMETIC
// =============================================================================

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, ErrOverflow
	}
	product := a * b
	if product/b != a {
		return 0, ErrOverflow
	}
	return product, nil
}
