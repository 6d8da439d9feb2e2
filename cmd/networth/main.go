/*
main.go - Command-line entry point

PURPOSE:
  Runs a plan document from disk and renders the projection to stdout.

COMMAND-LINE FLAGS:
  -plan           Path to the JSON plan document (default: plan.json)
  -output         Output mode: end, yearly, monthly, json (default: end)
  -include-tax    Show per-year tax reconciliation lines
  -include-flows  Show individual flow transactions (monthly mode)

OUTPUT MODES:
  end      Final category balances and total net worth
  yearly   Per-year category summaries
  monthly  Adds per-month balances within each year
  json     The full report as JSON (same shape as the HTTP API)

EXAMPLES:
  ./networth -plan household.json
  ./networth -plan household.json -output yearly -include-tax
  ./networth -plan household.json -output json | jq .end_values

SEE ALSO:
  - output.go: Report rendering
  - factory/plan.go: Plan document format
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	planPath := flag.String("plan", "plan.json", "path to the JSON plan document")
	output := flag.String("output", "end", "output mode: end, yearly, monthly, json")
	includeTax := flag.Bool("include-tax", false, "show per-year tax reconciliation")
	includeFlows := flag.Bool("include-flows", false, "show individual flow transactions")
	flag.Parse()

	mode, err := parseMode(*output)
	if err != nil {
		log.Fatalf("Invalid output mode: %v", err)
	}

	file, err := os.Open(*planPath)
	if err != nil {
		log.Fatalf("Failed to open plan: %v", err)
	}
	defer file.Close()

	report, years, err := runPlan(file)
	if err != nil {
		log.Fatalf("Failed to run plan %s: %v", *planPath, err)
	}

	r := renderer{
		out:          os.Stdout,
		mode:         mode,
		includeTax:   *includeTax,
		includeFlows: *includeFlows,
	}
	if err := r.render(report, years); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
}

func parseMode(s string) (outputMode, error) {
	switch outputMode(s) {
	case modeEnd, modeYearly, modeMonthly, modeJSON:
		return outputMode(s), nil
	default:
		return "", fmt.Errorf("%q (want end, yearly, monthly, or json)", s)
	}
}
