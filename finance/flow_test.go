package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/networth-engine/finance"
)

// =============================================================================
// APPLICABILITY
// =============================================================================

func TestFlow_AppliesAt_Monthly(t *testing.T) {
	f := finance.Flow{
		Name:      "salary",
		Start:     at(2024, finance.March),
		End:       at(2024, finance.June),
		Frequency: finance.Monthly,
		Value:     finance.FixedValue{Amount: finance.FromDollars(100)},
	}

	assert.False(t, f.AppliesAt(at(2024, finance.February)))
	assert.True(t, f.AppliesAt(at(2024, finance.March)))
	assert.True(t, f.AppliesAt(at(2024, finance.April)))
	assert.True(t, f.AppliesAt(at(2024, finance.May)))
	assert.False(t, f.AppliesAt(at(2024, finance.June)))
	assert.False(t, f.AppliesAt(at(2025, finance.March)))
}

func TestFlow_AppliesAt_Quarterly(t *testing.T) {
	// GIVEN: A quarterly flow anchored at March 2024
	// WHEN: Checking months across two years
	// THEN: Only offsets divisible by three fire, including across the
	//       year boundary

	f := finance.Flow{
		Name:      "dividends",
		Start:     at(2024, finance.March),
		End:       at(2026, finance.March),
		Frequency: finance.Quarterly,
	}

	assert.True(t, f.AppliesAt(at(2024, finance.March)))
	assert.False(t, f.AppliesAt(at(2024, finance.April)))
	assert.True(t, f.AppliesAt(at(2024, finance.June)))
	assert.True(t, f.AppliesAt(at(2024, finance.December)))
	assert.True(t, f.AppliesAt(at(2025, finance.March)))
	assert.False(t, f.AppliesAt(at(2025, finance.April)))
	assert.False(t, f.AppliesAt(at(2026, finance.March)))
}

func TestFlow_AppliesAt_Yearly(t *testing.T) {
	f := finance.Flow{
		Name:      "bonus",
		Start:     at(2021, finance.July),
		End:       at(2024, finance.July),
		Frequency: finance.Yearly,
	}

	assert.True(t, f.AppliesAt(at(2021, finance.July)))
	assert.False(t, f.AppliesAt(at(2021, finance.August)))
	assert.False(t, f.AppliesAt(at(2022, finance.June)))
	assert.True(t, f.AppliesAt(at(2022, finance.July)))
	assert.True(t, f.AppliesAt(at(2023, finance.July)))
	assert.False(t, f.AppliesAt(at(2024, finance.July)))
}

// =============================================================================
// VALUATION POLICIES
// =============================================================================

func TestRateValue_AppliesToBalance(t *testing.T) {
	v := finance.RateValue{Rate: finance.FromPercent(10)}

	got, err := v.ValueAt(at(2024, finance.January), nil, finance.FromDollars(1000))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(100), got)

	// A negative balance at a positive rate moves further negative
	got, err = v.ValueAt(at(2024, finance.January), nil, finance.FromDollars(-1000))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(-100), got)
}

func TestTableValue_LooksUpByMonth(t *testing.T) {
	table, err := finance.NewTable([]finance.TableEntry[finance.Time, finance.Money]{
		moneyEntry(at(2024, finance.January), at(2024, finance.July), 5000),
		moneyEntry(at(2024, finance.July), at(2025, finance.January), 5500),
	})
	require.NoError(t, err)
	v := finance.TableValue{Table: table}

	got, err := v.ValueAt(at(2024, finance.March), nil, finance.Money{})
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(5000), got)

	got, err = v.ValueAt(at(2024, finance.September), nil, finance.Money{})
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(5500), got)

	_, err = v.ValueAt(at(2025, finance.March), nil, finance.Money{})
	assert.ErrorIs(t, err, finance.ErrTimeNotInTable)
}

func TestRateTableValue_AppliesLookedUpRate(t *testing.T) {
	table, err := finance.NewTable([]finance.TableEntry[finance.Time, finance.Rate]{
		{Range: finance.NewRange(at(2024, finance.January), at(2024, finance.July)), Value: finance.FromPercent(1)},
		{Range: finance.NewRange(at(2024, finance.July), at(2025, finance.January)), Value: finance.FromPercent(2)},
	})
	require.NoError(t, err)
	v := finance.RateTableValue{Table: table}

	got, err := v.ValueAt(at(2024, finance.August), nil, finance.FromDollars(10000))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(200), got)
}

func TestUnitsTableValue_MultipliesUnitsByPrice(t *testing.T) {
	prices, err := finance.NewTable([]finance.TableEntry[finance.Time, finance.Money]{
		moneyEntry(at(2024, finance.January), at(2025, finance.January), 150),
	})
	require.NoError(t, err)
	v := finance.UnitsTableValue{Units: 10, Prices: prices}

	got, err := v.ValueAt(at(2024, finance.May), nil, finance.Money{})
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(1500), got)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestFlow_Transaction_WithholdsConstantRate(t *testing.T) {
	// GIVEN: A $1,000 salary under 10% payroll withholding
	// WHEN: Evaluating one occurrence
	// THEN: $900 lands in the category; $1,000 taxable, $100 withheld

	f := finance.Flow{
		Name:        "salary",
		Start:       at(2024, finance.January),
		End:         at(2025, finance.January),
		Frequency:   finance.Monthly,
		Value:       finance.FixedValue{Amount: finance.FromDollars(1000)},
		Withholding: finance.ConstantRate{Rate: finance.FromPercent(10)},
	}

	tx, err := f.Transaction(finance.Money{}, at(2024, finance.March))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(900), tx.Amount)
	assert.Equal(t, finance.FromDollars(1000), tx.Tax.TaxableIncome)
	assert.Equal(t, finance.FromDollars(100), tx.Tax.TaxWithheld)
	assert.Equal(t, at(2024, finance.March), tx.Time)
}

func TestFlow_Transaction_PartiallyTaxed(t *testing.T) {
	// GIVEN: $1,000 of which half is taxable, withheld at 20%
	// THEN: Taxable $500, withheld $100, net $900

	f := finance.Flow{
		Name:      "distribution",
		Start:     at(2024, finance.January),
		End:       at(2025, finance.January),
		Frequency: finance.Monthly,
		Value:     finance.FixedValue{Amount: finance.FromDollars(1000)},
		Withholding: finance.PartiallyTaxed{
			TaxedProportion: finance.FromPercent(50),
			WithholdingRate: finance.FromPercent(20),
		},
	}

	tx, err := f.Transaction(finance.Money{}, at(2024, finance.January))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(900), tx.Amount)
	assert.Equal(t, finance.FromDollars(500), tx.Tax.TaxableIncome)
	assert.Equal(t, finance.FromDollars(100), tx.Tax.TaxWithheld)
}

func TestFlow_Transaction_TaxExempt(t *testing.T) {
	f := finance.Flow{
		Name:        "transfer",
		Start:       at(2024, finance.January),
		End:         at(2024, finance.February),
		Frequency:   finance.Monthly,
		Value:       finance.FixedValue{Amount: finance.FromDollars(250)},
		Withholding: finance.TaxExempt{},
	}

	tx, err := f.Transaction(finance.Money{}, at(2024, finance.January))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(250), tx.Amount)
	assert.True(t, tx.Tax.TaxableIncome.IsZero())
	assert.True(t, tx.Tax.TaxWithheld.IsZero())
}

func TestFlow_Transaction_NoWithholding(t *testing.T) {
	f := finance.Flow{
		Name:        "freelance",
		Start:       at(2024, finance.January),
		End:         at(2025, finance.January),
		Frequency:   finance.Monthly,
		Value:       finance.FixedValue{Amount: finance.FromDollars(2000)},
		Withholding: finance.NoWithholding{},
	}

	tx, err := f.Transaction(finance.Money{}, at(2024, finance.January))
	require.NoError(t, err)
	assert.Equal(t, finance.FromDollars(2000), tx.Amount)
	assert.Equal(t, finance.FromDollars(2000), tx.Tax.TaxableIncome)
	assert.True(t, tx.Tax.TaxWithheld.IsZero())
}
