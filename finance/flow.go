/*
flow.go - Recurring money movements and their valuation policies

PURPOSE:
  A Flow is one named movement of money into or out of a category: a
  salary, a mortgage payment, portfolio growth. Each flow has an active
  window, a recurrence frequency, a valuation policy deciding how much it
  is worth when it fires, and a withholding policy splitting that amount
  for tax purposes.

VALUATION POLICIES:
  - FixedValue:      same amount every occurrence
  - RateValue:       rate applied to the category's current balance
                     (compounds across occurrences; negative balances at
                     positive rates grow more negative, as debt interest
                     should)
  - TableValue:      amount looked up from a money table
  - RateTableValue:  rate looked up from a rate table, applied to balance
  - UnitsTableValue: unit count times a unit price from a money table

WINDOW SEMANTICS:
  [Start, End) half-open; the first occurrence is Start itself and later
  occurrences land where the month offset from Start is an even multiple
  of the frequency.
*/
package finance

import "fmt"

// Flow is one named recurring movement affecting a single category.
type Flow struct {
	Name        string
	Description string
	Start       Time
	End         Time
	Frequency   Frequency
	Value       FlowValue
	Withholding WithholdingPolicy
}

// AppliesAt reports whether the flow fires in the given month: inside the
// half-open window and on a recurrence boundary counted from Start.
func (f *Flow) AppliesAt(at Time) bool {
	if at.Compare(f.Start) < 0 || at.Compare(f.End) >= 0 {
		return false
	}
	return at.Sub(f.Start).EvenFreq(f.Frequency)
}

// Transaction evaluates the flow against a category balance: the
// valuation policy produces the gross, the withholding policy splits it,
// and the net plus tax detail come back as one Tx.
func (f *Flow) Transaction(balance Money, at Time) (Tx, error) {
	gross, err := f.Value.ValueAt(at, f, balance)
	if err != nil {
		return Tx{}, fmt.Errorf("flow %q at %v: %w", f.Name, at, err)
	}
	net, tax, err := CalculateTax(f.Withholding, gross)
	if err != nil {
		return Tx{}, fmt.Errorf("flow %q at %v: %w", f.Name, at, err)
	}
	return Tx{Time: at, Amount: net, Tax: tax}, nil
}

// FlowValue is a valuation policy: the gross worth of one occurrence.
type FlowValue interface {
	ValueAt(at Time, f *Flow, balance Money) (Money, error)
}

// FixedValue is worth the same amount at every occurrence.
type FixedValue struct {
	Amount Money
}

func (v FixedValue) ValueAt(Time, *Flow, Money) (Money, error) {
	return v.Amount, nil
}

// RateValue is worth a rate of the category's balance at evaluation time.
type RateValue struct {
	Rate Rate
}

func (v RateValue) ValueAt(_ Time, _ *Flow, balance Money) (Money, error) {
	return balance.AtRate(v.Rate)
}

// TableValue is worth whatever amount its table holds for the month.
type TableValue struct {
	Table *Table[Time, Money]
}

func (v TableValue) ValueAt(at Time, _ *Flow, _ Money) (Money, error) {
	return v.Table.ValueAt(at)
}

// RateTableValue looks its rate up per month, then applies it to the
// category's balance. Used for schedules like stepped interest rates.
type RateTableValue struct {
	Table *Table[Time, Rate]
}

func (v RateTableValue) ValueAt(at Time, _ *Flow, balance Money) (Money, error) {
	rate, err := v.Table.ValueAt(at)
	if err != nil {
		return Money{}, err
	}
	return balance.AtRate(rate)
}

// UnitsTableValue is worth a fixed unit count times the month's unit
// price: vested shares against a stock price table, for example.
type UnitsTableValue struct {
	Units  int64
	Prices *Table[Time, Money]
}

func (v UnitsTableValue) ValueAt(at Time, _ *Flow, _ Money) (Money, error) {
	price, err := v.Prices.ValueAt(at)
	if err != nil {
		return Money{}, err
	}
	total, err := checkedMul(v.Units, price.AsCents())
	if err != nil {
		return Money{}, fmt.Errorf("%d units at %v: %w", v.Units, price, err)
	}
	return FromCents(total), nil
}
