package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/networth-engine/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func constFlow(name string, start finance.Time, years int, freq finance.Frequency, dollars int64, withholding finance.WithholdingPolicy) finance.Flow {
	return finance.Flow{
		Name:        name,
		Start:       start,
		End:         finance.Time{Year: start.Year + finance.Year(years), Month: start.Month},
		Frequency:   freq,
		Value:       finance.FixedValue{Amount: finance.FromDollars(dollars)},
		Withholding: withholding,
	}
}

func simpleModel(t *testing.T, flows map[string][]finance.Flow) *finance.Model {
	t.Helper()
	m, err := finance.NewModel(flows,
		[]finance.Category{
			{Name: "cash", Assets: []finance.Asset{{Name: "checking", Value: finance.FromDollars(1000)}}},
		},
		finance.NewFixedRateTaxPolicy(finance.FromPercent(0), finance.FromDollars(0)),
		"cash",
	)
	require.NoError(t, err)
	return m
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestNewModel_RejectsUnknownFlowCategory(t *testing.T) {
	_, err := finance.NewModel(
		map[string][]finance.Flow{"brokerage": nil},
		[]finance.Category{{Name: "cash"}},
		finance.NewFixedRateTaxPolicy(finance.FromPercent(0), finance.FromDollars(0)),
		"cash",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "brokerage")
}

func TestNewModel_RejectsUnknownTaxCategory(t *testing.T) {
	_, err := finance.NewModel(
		map[string][]finance.Flow{},
		[]finance.Category{{Name: "cash"}},
		finance.NewFixedRateTaxPolicy(finance.FromPercent(0), finance.FromDollars(0)),
		"taxes",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrUnknownCategory)
}

// =============================================================================
// MONTH EVALUATION
// =============================================================================

func TestModel_FlowsSeePreMonthBalance(t *testing.T) {
	// GIVEN: A $1,000 deposit and a 10% growth flow in the same month, on
	//        a category starting at $1,000
	// WHEN: Running that month
	// THEN: Growth is $100 (10% of the pre-month $1,000), not $200: flows
	//       in one month never see each other's effects

	m := simpleModel(t, map[string][]finance.Flow{
		"cash": {
			constFlow("deposit", at(2024, finance.January), 1, finance.Monthly, 1000, finance.TaxExempt{}),
			{
				Name:        "growth",
				Start:       at(2024, finance.January),
				End:         at(2025, finance.January),
				Frequency:   finance.Monthly,
				Value:       finance.RateValue{Rate: finance.FromPercent(10)},
				Withholding: finance.TaxExempt{},
			},
		},
	})

	report, err := m.Run(finance.NewRange(finance.Year(2024), finance.Year(2025)))
	require.NoError(t, err)

	jan := report.Years[2024].Categories["cash"][finance.January]
	assert.Equal(t, finance.FromDollars(1000), jan.StartValue)
	assert.Equal(t, finance.FromDollars(100), jan.Transactions["growth"].Amount)
	assert.Equal(t, finance.FromDollars(2100), jan.EndValue)

	// February compounds on January's end value
	feb := report.Years[2024].Categories["cash"][finance.February]
	assert.Equal(t, finance.FromDollars(2100), feb.StartValue)
	assert.Equal(t, finance.FromDollars(210), feb.Transactions["growth"].Amount)
}

func TestModel_DuplicateFlowNamesInSameMonth(t *testing.T) {
	m := simpleModel(t, map[string][]finance.Flow{
		"cash": {
			constFlow("deposit", at(2024, finance.January), 1, finance.Monthly, 100, finance.TaxExempt{}),
			constFlow("deposit", at(2024, finance.January), 1, finance.Monthly, 200, finance.TaxExempt{}),
		},
	})

	_, err := m.Run(finance.NewRange(finance.Year(2024), finance.Year(2025)))
	require.Error(t, err)
	assert.ErrorIs(t, err, finance.ErrDuplicateFlow)
	assert.Contains(t, err.Error(), "deposit")
}

func TestModel_DuplicateFlowNamesInDifferentMonths(t *testing.T) {
	// Same name in different months is fine; only same-month collisions
	// are ambiguous
	m := simpleModel(t, map[string][]finance.Flow{
		"cash": {
			constFlow("deposit", at(2024, finance.January), 0, finance.Monthly, 100, finance.TaxExempt{}),
			{
				Name:        "deposit",
				Start:       at(2024, finance.February),
				End:         at(2024, finance.March),
				Frequency:   finance.Monthly,
				Value:       finance.FixedValue{Amount: finance.FromDollars(200)},
				Withholding: finance.TaxExempt{},
			},
		},
	})
	// First flow has an empty window and never fires

	report, err := m.Run(finance.NewRange(finance.Year(2024), finance.Year(2025)))
	require.NoError(t, err)
	feb := report.Years[2024].Categories["cash"][finance.February]
	assert.Equal(t, finance.FromDollars(200), feb.Transactions["deposit"].Amount)
}

func TestModel_RunIsDeterministic(t *testing.T) {
	build := func() *finance.Model {
		return simpleModel(t, map[string][]finance.Flow{
			"cash": {
				constFlow("salary", at(2024, finance.January), 1, finance.Monthly, 5000, finance.ConstantRate{Rate: finance.FromPercent(20)}),
			},
		})
	}

	a, err := build().Run(finance.NewRange(finance.Year(2024), finance.Year(2026)))
	require.NoError(t, err)
	b, err := build().Run(finance.NewRange(finance.Year(2024), finance.Year(2026)))
	require.NoError(t, err)
	assert.Equal(t, a.EndValues, b.EndValues)
	assert.Equal(t, a.Years[2024].TaxAdjustment, b.Years[2024].TaxAdjustment)
}

// =============================================================================
// FULL SIMULATION WITH TAX FEEDBACK
// =============================================================================

// taxScenario is a two-category household: every flow withholds a flat
// 10% while the annual policy assesses 35% over a $3,000 deduction, so
// each year ends under-withheld and next April carries tax debt.
func taxScenario(t *testing.T) *finance.Model {
	t.Helper()
	withholding := finance.ConstantRate{Rate: finance.FromPercent(10)}
	m, err := finance.NewModel(
		map[string][]finance.Flow{
			"c1": {
				constFlow("0", at(2021, finance.January), 2, finance.Monthly, 1, withholding),
				constFlow("1", at(2021, finance.January), 2, finance.Monthly, 20, withholding),
				constFlow("2", at(2021, finance.March), 2, finance.Quarterly, 300, withholding),
				constFlow("3", at(2021, finance.July), 2, finance.Yearly, 4000, withholding),
			},
			"c2": {
				constFlow("4", at(2021, finance.February), 2, finance.Monthly, 5, withholding),
				constFlow("5", at(2021, finance.March), 2, finance.Monthly, 60, withholding),
				constFlow("6", at(2021, finance.May), 2, finance.Quarterly, 700, withholding),
				constFlow("7", at(2021, finance.July), 2, finance.Yearly, 8000, withholding),
			},
		},
		[]finance.Category{
			{Name: "c1", Assets: []finance.Asset{{Name: "a1", Value: finance.FromDollars(123)}}},
			{Name: "c2", Assets: []finance.Asset{{Name: "a2", Value: finance.FromDollars(456)}}},
		},
		finance.NewFixedRateTaxPolicy(finance.FromPercent(35), finance.FromDollars(3000)),
		"c1",
	)
	require.NoError(t, err)
	return m
}

func TestModel_TaxFeedback(t *testing.T) {
	// GIVEN: The two-category household above, simulated 2020 through 2023
	// WHEN: Running the model
	// THEN: Each year's reconciliation matches the hand-computed numbers
	//       and the 2021 tax debt lands in c1 in April 2022

	m := taxScenario(t)
	report, err := m.Run(finance.NewRange(finance.Year(2020), finance.Year(2024)))
	require.NoError(t, err)
	require.Len(t, report.Years, 4)

	// 2020: no flows active yet, nothing owed or withheld
	adj2020 := report.Years[2020].TaxAdjustment
	assert.True(t, adj2020.Owed.IsZero())
	assert.True(t, adj2020.Delta.IsZero())
	assert.Equal(t, finance.FromPercent(0), adj2020.EffectiveRate)

	// 2021: $16,207 gross income, $1,620.70 withheld, owed
	// ($16,207 - $3,000) x 35% = $4,622.45, leaving $3,001.75 of debt
	adj2021 := report.Years[2021].TaxAdjustment
	assert.Equal(t, finance.FromCents(462245), adj2021.Owed)
	assert.Equal(t, finance.FromCents(162070), adj2021.Withheld)
	assert.Equal(t, finance.FromCents(-300175), adj2021.Delta)
	assert.Equal(t, finance.FromPercent(35), adj2021.EffectiveRate)

	// The 2021 debt is paid as a transaction in April 2022
	april := report.Years[2022].Categories["c1"][finance.April]
	tx, ok := april.Transactions["Tax adjustment"]
	require.True(t, ok)
	assert.Equal(t, finance.FromCents(-300175), tx.Amount)
	assert.True(t, tx.Tax.TaxableIncome.IsZero())

	// 2022: full calendar year of every flow, $17,032 gross
	adj2022 := report.Years[2022].TaxAdjustment
	assert.Equal(t, finance.FromCents(170320), adj2022.Withheld)
	assert.Equal(t, finance.FromCents(-320800), adj2022.Delta)

	// 2023: only $825 of gross trickles in before windows close; below
	// the deduction nothing is owed and all withholding comes back
	adj2023 := report.Years[2023].TaxAdjustment
	assert.True(t, adj2023.Owed.IsZero())
	assert.Equal(t, finance.FromCents(8250), adj2023.Withheld)
	assert.Equal(t, finance.FromCents(8250), adj2023.Delta)
	assert.Equal(t, finance.FromPercent(0), adj2023.EffectiveRate)
}

func TestModel_Snapshots(t *testing.T) {
	m := taxScenario(t)
	report, err := m.Run(finance.NewRange(finance.Year(2020), finance.Year(2024)))
	require.NoError(t, err)

	assert.Equal(t, finance.FromDollars(123), report.StartValues["c1"])
	assert.Equal(t, finance.FromDollars(456), report.StartValues["c2"])

	// Nothing moved in 2020
	assert.Equal(t, report.Years[2020].StartValues, report.Years[2020].EndValues)

	// Year boundaries chain: one year's end is the next year's start
	assert.Equal(t, report.Years[2021].EndValues, report.Years[2022].StartValues)
	assert.Equal(t, report.Years[2023].EndValues, report.EndValues)

	// January 2021 in c1: $1 and $20 net of 10% withholding on $123
	jan := report.Years[2021].Categories["c1"][finance.January]
	assert.Equal(t, finance.FromDollars(123), jan.StartValue)
	assert.Equal(t, finance.FromCents(14190), jan.EndValue)
}
