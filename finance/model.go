/*
model.go - The simulation driver

PURPOSE:
  A Model binds categories, flows, and an annual tax policy, then runs
  them across a range of years. Running is deterministic: same model,
  same range, same report.

EVALUATION ORDER (per month, per category):
  1. Snapshot the category's balance before the month.
  2. Find every flow applicable this month; duplicate names are an error.
  3. Evaluate ALL of them against the snapshot. Flows in the same month
     never see each other's effects.
  4. Apply every transaction, once, and record the month report.

YEAR BOUNDARY:
  After December, the year's TaxSummary is reconciled through the annual
  policy and the resulting "Tax adjustment" flow is appended to the tax
  category's flows, so next April the refund or debt actually lands in
  the balance. The feedback is the point: withholding errors compound
  into real cash effects.
*/
package finance

import (
	"fmt"
	"sort"
	"strings"
)

// Model is a validated, runnable simulation configuration.
type Model struct {
	categories  []Category
	flows       map[string][]Flow
	taxPolicy   AnnualTaxPolicy
	taxCategory string
}

// NewModel validates that every flow key and the tax category name refer
// to configured categories.
func NewModel(flows map[string][]Flow, categories []Category, taxPolicy AnnualTaxPolicy, taxCategory string) (*Model, error) {
	m := &Model{
		categories:  categories,
		flows:       flows,
		taxPolicy:   taxPolicy,
		taxCategory: taxCategory,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	known := make(map[string]bool, len(m.categories))
	names := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		known[c.Name] = true
		names = append(names, c.Name)
	}
	sort.Strings(names)
	options := strings.Join(names, ", ")

	for name := range m.flows {
		if !known[name] {
			return fmt.Errorf("flows reference category %q (have: %s): %w", name, options, ErrUnknownCategory)
		}
	}
	if !known[m.taxCategory] {
		return fmt.Errorf("tax category %q (have: %s): %w", m.taxCategory, options, ErrUnknownCategory)
	}
	return nil
}

// =============================================================================
// REPORTS
// =============================================================================

// Snapshot captures every category's balance at one instant.
type Snapshot map[string]Money

// MonthReport is one category's activity in one month.
type MonthReport struct {
	StartValue   Money
	EndValue     Money
	Transactions map[string]Tx
}

// YearReport is everything that happened in one simulated year.
type YearReport struct {
	Categories    map[string]map[Month]MonthReport
	TaxSummary    TaxSummary
	TaxAdjustment TaxAdjustment
	StartValues   Snapshot
	EndValues     Snapshot
}

// Report is the outcome of a full run.
type Report struct {
	Years       map[Year]*YearReport
	StartValues Snapshot
	EndValues   Snapshot
}

// =============================================================================
// RUN
// =============================================================================

// Run simulates every year in the half-open range, in order, and returns
// the full report. Any evaluation error aborts the run.
func (m *Model) Run(years Range[Year]) (*Report, error) {
	values := make(map[string]*CategoryValue, len(m.categories))
	for _, c := range m.categories {
		values[c.Name] = c.Value()
	}

	report := &Report{
		Years:       make(map[Year]*YearReport),
		StartValues: snapshot(values),
	}
	for _, year := range years.Times() {
		yr, err := m.runYear(year, values)
		if err != nil {
			return nil, err
		}
		report.Years[year] = yr
	}
	report.EndValues = snapshot(values)
	return report, nil
}

func (m *Model) runYear(year Year, values map[string]*CategoryValue) (*YearReport, error) {
	yr := &YearReport{
		Categories:  make(map[string]map[Month]MonthReport),
		StartValues: snapshot(values),
	}

	for _, c := range m.categories {
		flows := m.flows[c.Name]
		if len(flows) == 0 {
			continue
		}
		months, err := m.runCategoryYear(year, flows, values[c.Name])
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
		yr.Categories[c.Name] = months
		for _, mr := range months {
			for _, tx := range mr.Transactions {
				yr.TaxSummary.Apply(tx)
			}
		}
	}

	adjustment, flow, err := CalculateAdjustment(m.taxPolicy, year, yr.TaxSummary)
	if err != nil {
		return nil, err
	}
	yr.TaxAdjustment = adjustment
	m.flows[m.taxCategory] = append(m.flows[m.taxCategory], flow)

	yr.EndValues = snapshot(values)
	return yr, nil
}

func (m *Model) runCategoryYear(year Year, flows []Flow, cv *CategoryValue) (map[Month]MonthReport, error) {
	months := make(map[Month]MonthReport)
	for _, at := range year.Times() {
		start := cv.Value()
		txs := make(map[string]Tx)
		for i := range flows {
			f := &flows[i]
			if !f.AppliesAt(at) {
				continue
			}
			if _, dup := txs[f.Name]; dup {
				return nil, fmt.Errorf("flow %q at %v: %w", f.Name, at, ErrDuplicateFlow)
			}
			tx, err := f.Transaction(start, at)
			if err != nil {
				return nil, err
			}
			txs[f.Name] = tx
		}
		for _, tx := range txs {
			cv.Apply(tx)
		}
		months[at.Month] = MonthReport{
			StartValue:   start,
			EndValue:     cv.Value(),
			Transactions: txs,
		}
	}
	return months, nil
}

func snapshot(values map[string]*CategoryValue) Snapshot {
	s := make(Snapshot, len(values))
	for name, cv := range values {
		s[name] = cv.Value()
	}
	return s
}
