/*
tax.go - Withholding at the flow level, reconciliation at the year level

PURPOSE:
  Taxes act twice. Each month, a flow's withholding policy splits its
  gross amount into taxable income and withheld tax, and only the net
  lands in the category. Each year, an annual tax policy compares what
  was withheld against what was actually owed and injects a one-off
  "Tax adjustment" flow (refund or debt) into the following April.

KEY CONCEPTS:
  - WithholdingPolicy: per-flow monthly split (gross -> taxable/withheld)
  - TaxSummary:        a year's accumulated net/taxable/withheld totals
  - AnnualTaxPolicy:   year-end hooks (taxable income, amount owed)
  - TaxAdjustment:     the reconciliation result, including the flow that
                       feeds it back into the simulation

SIGN CONVENTION:
  delta = withheld - owed. Positive means a refund (money in), negative
  means tax debt (money out). The adjustment flow carries delta directly.
*/
package finance

import "fmt"

// =============================================================================
// MONTHLY WITHHOLDING
// =============================================================================

// TaxTx is the tax detail of one transaction: how much of the gross was
// taxable income and how much tax was withheld from it.
type TaxTx struct {
	TaxableIncome Money
	TaxWithheld   Money
}

// WithholdingPolicy decides, for one gross amount, what counts as taxable
// income and how much tax to withhold from it.
type WithholdingPolicy interface {
	Withheld(gross Money) (TaxTx, error)
}

// CalculateTax runs a policy on a gross amount and returns the net that
// reaches the category: net = gross - withheld.
func CalculateTax(p WithholdingPolicy, gross Money) (Money, TaxTx, error) {
	tax, err := p.Withheld(gross)
	if err != nil {
		return Money{}, TaxTx{}, err
	}
	return gross.Sub(tax.TaxWithheld), tax, nil
}

// NoWithholding reports the full gross as taxable but withholds nothing,
// e.g. freelance income settled at year end.
type NoWithholding struct{}

func (NoWithholding) Withheld(gross Money) (TaxTx, error) {
	return TaxTx{TaxableIncome: gross}, nil
}

// TaxExempt reports no taxable income and withholds nothing. Used by all
// synthetic flows (tax adjustments, transfers, house purchase legs).
type TaxExempt struct{}

func (TaxExempt) Withheld(Money) (TaxTx, error) { return TaxTx{}, nil }

// ConstantRate reports the full gross as taxable and withholds a fixed
// rate of it, e.g. salary under payroll withholding.
type ConstantRate struct {
	Rate Rate
}

func (p ConstantRate) Withheld(gross Money) (TaxTx, error) {
	withheld, err := gross.AtRate(p.Rate)
	if err != nil {
		return TaxTx{}, fmt.Errorf("withholding %v of %v: %w", p.Rate, gross, err)
	}
	return TaxTx{TaxableIncome: gross, TaxWithheld: withheld}, nil
}

// PartiallyTaxed treats only a proportion of the gross as taxable income
// and withholds a rate of that taxable part, e.g. qualified dividends or
// partially exempt benefits.
type PartiallyTaxed struct {
	TaxedProportion Rate
	WithholdingRate Rate
}

func (p PartiallyTaxed) Withheld(gross Money) (TaxTx, error) {
	taxable, err := gross.AtRate(p.TaxedProportion)
	if err != nil {
		return TaxTx{}, fmt.Errorf("taxable share %v of %v: %w", p.TaxedProportion, gross, err)
	}
	withheld, err := taxable.AtRate(p.WithholdingRate)
	if err != nil {
		return TaxTx{}, fmt.Errorf("withholding %v of %v: %w", p.WithholdingRate, taxable, err)
	}
	return TaxTx{TaxableIncome: taxable, TaxWithheld: withheld}, nil
}

// =============================================================================
// YEARLY AGGREGATION
// =============================================================================

// TaxSummary accumulates a year's transactions across every category.
type TaxSummary struct {
	NetAmount     Money
	TaxableIncome Money
	TaxWithheld   Money
}

// Apply folds one transaction into the summary.
func (s *TaxSummary) Apply(tx Tx) {
	s.NetAmount = s.NetAmount.Add(tx.Amount)
	s.TaxableIncome = s.TaxableIncome.Add(tx.Tax.TaxableIncome)
	s.TaxWithheld = s.TaxWithheld.Add(tx.Tax.TaxWithheld)
}

// AnnualTaxPolicy is the year-end side of the tax system: given the
// year's summary, what portion of income is assessed and how much tax is
// owed on it.
type AnnualTaxPolicy interface {
	TaxableIncome(summary TaxSummary) Money
	Owed(taxable Money, summary TaxSummary) (Money, error)
}

// TaxAdjustment is the outcome of reconciling one year.
type TaxAdjustment struct {
	Owed          Money
	Withheld      Money
	Delta         Money
	EffectiveRate Rate
}

// CalculateAdjustment reconciles a finished year and builds the feedback
// flow: a tax-exempt one-off worth delta, landing in April of the next
// year. The effective rate is owed over taxable income, or zero when
// nothing was taxable.
func CalculateAdjustment(p AnnualTaxPolicy, year Year, summary TaxSummary) (TaxAdjustment, Flow, error) {
	taxable := p.TaxableIncome(summary)
	owed, err := p.Owed(taxable, summary)
	if err != nil {
		return TaxAdjustment{}, Flow{}, fmt.Errorf("tax owed for %v: %w", year, err)
	}
	delta := summary.TaxWithheld.Sub(owed)

	effective := FromPercent(0)
	if !taxable.IsZero() {
		effective, err = owed.Div(taxable)
		if err != nil {
			return TaxAdjustment{}, Flow{}, fmt.Errorf("effective tax rate for %v: %w", year, err)
		}
	}

	adjustment := TaxAdjustment{
		Owed:          owed,
		Withheld:      summary.TaxWithheld,
		Delta:         delta,
		EffectiveRate: effective,
	}
	flow := Flow{
		Name:        "Tax adjustment",
		Description: fmt.Sprintf("Estimated tax refund or debt from %v", year),
		Start:       Time{Year: year.Next(), Month: April},
		End:         Time{Year: year.Next(), Month: May},
		Frequency:   Monthly,
		Value:       FixedValue{Amount: delta},
		Withholding: TaxExempt{},
	}
	return adjustment, flow, nil
}

// =============================================================================
// FIXED-RATE POLICY
// =============================================================================

// FixedRateTaxPolicy owes a single flat rate on taxable income above a
// standard deduction. Income at or below the deduction owes nothing.
type FixedRateTaxPolicy struct {
	rate      Rate
	deduction Money
}

func NewFixedRateTaxPolicy(rate Rate, deduction Money) FixedRateTaxPolicy {
	return FixedRateTaxPolicy{rate: rate, deduction: deduction}
}

func (p FixedRateTaxPolicy) TaxableIncome(summary TaxSummary) Money {
	return Max(summary.TaxableIncome.Sub(p.deduction), FromDollars(0))
}

func (p FixedRateTaxPolicy) Owed(taxable Money, _ TaxSummary) (Money, error) {
	owed, err := taxable.AtRate(p.rate)
	if err != nil {
		return Money{}, fmt.Errorf("assessing %v on %v: %w", p.rate, taxable, err)
	}
	return owed, nil
}
