/*
events.go - Event generators

PURPOSE:
  Events are macros over flows: a life event (buying a house, moving
  money between accounts) expands into the plain flows that represent it.
  The simulation driver never sees events, only the flows they produce.

HOUSE PURCHASE EXPANSION:
  At the purchase month, four one-off tax-exempt flows fire:
    mortgage     -(price - down payment)   the loan appears as debt
    house        +price                    the property appears as value
    down payment -down payment             cash leaves the account
    setup        -setup cost               closing costs leave the account
  From the following month until one month past the window's end, each
  month:
    payment      -monthly repayment        from the payment account
    repayment    +monthly repayment        onto the mortgage balance
    interest     rate/12 of the mortgage balance (the balance is
                 negative, so interest pushes it further down)
  The monthly repayment is the standard annuity amount; its formula needs
  real exponentiation, so this is the engine's single float bridge.
*/
package finance

import (
	"fmt"
	"math"
)

// CategoryFlow pairs a flow with the category it applies to.
type CategoryFlow struct {
	Category string
	Flow     Flow
}

// FlowBuilder expands a configured event into plain flows.
type FlowBuilder interface {
	BuildFlows() ([]CategoryFlow, error)
}

// =============================================================================
// HOUSE PURCHASE
// =============================================================================

// HousePurchase expands a financed property purchase: setup flows at the
// start month, then a fixed-rate mortgage amortized monthly across the
// term.
type HousePurchase struct {
	PropertyName string
	Term         Range[Time]
	MortgageRate Rate

	PurchasePrice Money
	SetupCost     Money
	DownPayment   Money

	HouseValueCategory     string
	MortgageCategory       string
	DownPaymentCategory    string
	RegularPaymentCategory string
}

func (h HousePurchase) BuildFlows() ([]CategoryFlow, error) {
	loan := h.PurchasePrice.Sub(h.DownPayment)
	repayment, err := calculateRepayment(loan, h.Term, h.MortgageRate)
	if err != nil {
		return nil, fmt.Errorf("house purchase %q: %w", h.PropertyName, err)
	}

	setup := Range[Time]{Start: h.Term.Start, End: h.Term.Start.Next()}
	monthly := Range[Time]{Start: h.Term.Start.Next(), End: h.Term.End.Next()}

	oneOff := func(name, desc string, amount Money, category string) CategoryFlow {
		return CategoryFlow{
			Category: category,
			Flow: Flow{
				Name:        name,
				Description: desc,
				Start:       setup.Start,
				End:         setup.End,
				Frequency:   Monthly,
				Value:       FixedValue{Amount: amount},
				Withholding: TaxExempt{},
			},
		}
	}
	recurring := func(name, desc string, value FlowValue, category string) CategoryFlow {
		return CategoryFlow{
			Category: category,
			Flow: Flow{
				Name:        name,
				Description: desc,
				Start:       monthly.Start,
				End:         monthly.End,
				Frequency:   Monthly,
				Value:       value,
				Withholding: TaxExempt{},
			},
		}
	}

	return []CategoryFlow{
		oneOff(
			fmt.Sprintf("%s mortgage", h.PropertyName),
			fmt.Sprintf("Mortgage principal for %s", h.PropertyName),
			loan.Negate(), h.MortgageCategory,
		),
		oneOff(
			fmt.Sprintf("%s purchase", h.PropertyName),
			fmt.Sprintf("Property value of %s", h.PropertyName),
			h.PurchasePrice, h.HouseValueCategory,
		),
		oneOff(
			fmt.Sprintf("%s down payment", h.PropertyName),
			fmt.Sprintf("Down payment for %s", h.PropertyName),
			h.DownPayment.Negate(), h.DownPaymentCategory,
		),
		oneOff(
			fmt.Sprintf("%s setup costs", h.PropertyName),
			fmt.Sprintf("Closing costs for %s", h.PropertyName),
			h.SetupCost.Negate(), h.DownPaymentCategory,
		),
		recurring(
			fmt.Sprintf("%s payment", h.PropertyName),
			fmt.Sprintf("Monthly mortgage payment for %s", h.PropertyName),
			FixedValue{Amount: repayment.Negate()}, h.RegularPaymentCategory,
		),
		recurring(
			fmt.Sprintf("%s repayment", h.PropertyName),
			fmt.Sprintf("Monthly principal repayment for %s", h.PropertyName),
			FixedValue{Amount: repayment}, h.MortgageCategory,
		),
		recurring(
			fmt.Sprintf("%s interest", h.PropertyName),
			fmt.Sprintf("Monthly mortgage interest for %s", h.PropertyName),
			RateValue{Rate: h.MortgageRate.Div(12)}, h.MortgageCategory,
		),
	}, nil
}

// calculateRepayment is the standard annuity payment
// p * r * (1+r)^n / ((1+r)^n - 1) for monthly rate r over n months. The
// exponentiation runs in float64 and converts back through the Rate
// fixed-point boundary. A zero rate degenerates to straight division.
func calculateRepayment(loan Money, term Range[Time], annualRate Rate) (Money, error) {
	months := int64(term.End.Sub(term.Start))
	if months <= 0 {
		return Money{}, fmt.Errorf("term %v has no months", term)
	}
	rate := annualRate.Div(12).toFloat()
	if rate == 0 {
		return FromCents(loan.AsCents() / months), nil
	}
	pow := math.Pow(1+rate, float64(months))
	effective := rate * pow / (pow - 1)
	payment, err := loan.AtRate(rateFromFloat(effective))
	if err != nil {
		return Money{}, fmt.Errorf("repayment on %v: %w", loan, err)
	}
	return payment, nil
}

// =============================================================================
// TRANSFER
// =============================================================================

// Transfer builds a one-off two-sided move: value leaves the source
// category and arrives in the target category in the given month. Both
// legs are tax exempt.
func Transfer(name, source, target string, at Time, value Money) []CategoryFlow {
	window := Range[Time]{Start: at, End: at.Next()}
	leg := func(suffix string, amount Money, category string) CategoryFlow {
		return CategoryFlow{
			Category: category,
			Flow: Flow{
				Name:        fmt.Sprintf("%s %s", name, suffix),
				Description: fmt.Sprintf("Transfer %q from %s to %s", name, source, target),
				Start:       window.Start,
				End:         window.End,
				Frequency:   Monthly,
				Value:       FixedValue{Amount: amount},
				Withholding: TaxExempt{},
			},
		}
	}
	return []CategoryFlow{
		leg("source", value.Negate(), source),
		leg("target", value, target),
	}
}
