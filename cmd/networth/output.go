/*
output.go - Report rendering for the CLI

PURPOSE:
  Turns a simulation report into the four CLI output shapes. Text modes
  print "category: start => end (delta)" lines at increasing detail;
  json mode reuses the HTTP API's report shape.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/warp/networth-engine/api"
	"github.com/warp/networth-engine/factory"
	"github.com/warp/networth-engine/finance"
)

type outputMode string

const (
	modeEnd     outputMode = "end"
	modeYearly  outputMode = "yearly"
	modeMonthly outputMode = "monthly"
	modeJSON    outputMode = "json"
)

func runPlan(in io.Reader) (*finance.Report, finance.Range[finance.Year], error) {
	model, years, err := factory.Parse(in)
	if err != nil {
		return nil, years, err
	}
	report, err := model.Run(years)
	return report, years, err
}

type renderer struct {
	out          io.Writer
	mode         outputMode
	includeTax   bool
	includeFlows bool
}

func (r renderer) render(report *finance.Report, years finance.Range[finance.Year]) error {
	switch r.mode {
	case modeJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.ToReportDTO(report))
	case modeEnd:
		r.renderDeltas("", report.StartValues, report.EndValues)
		return nil
	case modeYearly, modeMonthly:
		for _, year := range years.Times() {
			r.renderYear(year, report.Years[year])
		}
		return nil
	default:
		return fmt.Errorf("unknown output mode %q", r.mode)
	}
}

func (r renderer) renderYear(year finance.Year, yr *finance.YearReport) {
	fmt.Fprintf(r.out, "==== %v ====\n", year)
	r.renderDeltas("  ", yr.StartValues, yr.EndValues)

	if r.mode == modeMonthly {
		for _, category := range sortedKeys(yr.Categories) {
			fmt.Fprintf(r.out, "  %s:\n", category)
			months := yr.Categories[category]
			for _, month := range finance.MonthsOfYear() {
				mr, ok := months[month]
				if !ok {
					continue
				}
				fmt.Fprintf(r.out, "    %-9v %v => %v\n", month, mr.StartValue, mr.EndValue)
				if r.includeFlows {
					r.renderTransactions(mr.Transactions)
				}
			}
		}
	}

	if r.includeTax {
		fmt.Fprintf(r.out, "  tax: taxable %v, withheld %v, owed %v, adjustment %v (effective %v)\n",
			yr.TaxSummary.TaxableIncome,
			yr.TaxAdjustment.Withheld,
			yr.TaxAdjustment.Owed,
			signed(yr.TaxAdjustment.Delta),
			yr.TaxAdjustment.EffectiveRate)
	}
}

func (r renderer) renderTransactions(txs map[string]finance.Tx) {
	for _, name := range sortedKeys(txs) {
		fmt.Fprintf(r.out, "      %s: %s\n", name, signed(txs[name].Amount))
	}
}

// renderDeltas prints every category's movement plus the net worth total.
func (r renderer) renderDeltas(indent string, start, end finance.Snapshot) {
	var totalStart, totalEnd finance.Money
	for _, category := range sortedKeys(start) {
		from, to := start[category], end[category]
		totalStart = totalStart.Add(from)
		totalEnd = totalEnd.Add(to)
		fmt.Fprintf(r.out, "%s%s: %v => %v (%s)\n", indent, category, from, to, signed(to.Sub(from)))
	}
	fmt.Fprintf(r.out, "%snet worth: %v => %v (%s)\n", indent, totalStart, totalEnd, signed(totalEnd.Sub(totalStart)))
}

// signed renders an amount with an explicit sign for deltas.
func signed(m finance.Money) string {
	if m.IsNegative() {
		return m.String()
	}
	return "+" + m.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
