/*
Package factory provides JSON to Go model conversion.

PURPOSE:
  Converts JSON plan documents into a runnable finance.Model plus the
  year range to simulate. This keeps plan authoring out of code: a
  household plan is one JSON document, and the factory builds the proper
  Go structs. The core engine never sees JSON.

JSON SCHEMA:
  {
    "years": {"start": 2024, "end": 2054},
    "tax": {"type": "fixed_rate", "rate": "35%", "deduction": 12000,
            "category": "cash"},
    "categories": [
      {"name": "cash", "assets": [{"name": "checking", "value": 25000}]},
      {"name": "brokerage"}
    ],
    "times": {
      "retirement": {"year": 2045, "month": "July"}
    },
    "tables": {
      "salary": {"type": "money", "entries": [
        {"start": {"year": 2024, "month": "January"},
         "end": "retirement", "value": 8500}
      ]}
    },
    "flows": [
      {"name": "salary", "category": "cash",
       "start": {"year": 2024, "month": "January"}, "end": "retirement",
       "frequency": "monthly",
       "value": {"type": "table", "table": "salary"},
       "withholding": {"type": "constant_rate", "rate": "24%"}}
    ],
    "events": {
      "house_purchases": [ ... ],
      "transfers": [ ... ]
    }
  }

KEY FEATURES:
  - Money is dollars, as number or string, exact to the cent
  - Rates are percent strings ("6.5%"); both are decimal-parsed
  - Any time may be a literal or a reference into the "times" map
  - Unknown fields, names, categories, and variant tags are errors

USAGE:
  model, years, err := factory.Parse(file)
  report, err := model.Run(years)

SEE ALSO:
  - finance/model.go: the model the factory builds
  - finance/events.go: event expansion behind the "events" section
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/networth-engine/finance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PlanJSON is the JSON representation of a full plan document.
type PlanJSON struct {
	Years      YearsJSON              `json:"years"`
	Tax        TaxJSON                `json:"tax"`
	Categories []CategoryJSON         `json:"categories"`
	Times      map[string]TimeLiteral `json:"times,omitempty"`
	Tables     map[string]TableJSON   `json:"tables,omitempty"`
	Flows      []FlowJSON             `json:"flows,omitempty"`
	Events     *EventsJSON            `json:"events,omitempty"`
}

// YearsJSON is the half-open simulation range [start, end).
type YearsJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TaxJSON configures the annual tax policy and the category that absorbs
// yearly adjustments.
type TaxJSON struct {
	Type      string    `json:"type"` // fixed_rate
	Rate      string    `json:"rate,omitempty"`
	Deduction MoneyJSON `json:"deduction,omitempty"`
	Category  string    `json:"category"`
}

// CategoryJSON declares one net-worth category and its starting assets.
type CategoryJSON struct {
	Name   string      `json:"name"`
	Assets []AssetJSON `json:"assets,omitempty"`
}

// AssetJSON is one named starting holding.
type AssetJSON struct {
	Name  string    `json:"name"`
	Value MoneyJSON `json:"value"`
}

// TimeLiteral is an explicit year/month pair as it appears in the named
// times map.
type TimeLiteral struct {
	Year  int    `json:"year"`
	Month string `json:"month"`
}

// TimeJSON is a time wherever one is expected: either a literal pair or
// a string reference into the plan's named times.
type TimeJSON struct {
	Ref     string
	Literal *TimeLiteral
}

// UnmarshalJSON accepts `"name"` or `{"year": ..., "month": ...}`.
func (t *TimeJSON) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(data, &t.Ref)
	}
	var lit TimeLiteral
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lit); err != nil {
		return err
	}
	t.Literal = &lit
	return nil
}

// TableJSON is one named lookup table, money- or rate-valued.
type TableJSON struct {
	Type    string           `json:"type"` // money, rate
	Entries []TableEntryJSON `json:"entries"`
}

// TableEntryJSON is one interval of a table. Value is decoded according
// to the table type.
type TableEntryJSON struct {
	Start TimeJSON        `json:"start"`
	End   TimeJSON        `json:"end"`
	Value json.RawMessage `json:"value"`
}

// FlowJSON declares one flow and the category it applies to.
type FlowJSON struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category"`
	Start       TimeJSON         `json:"start"`
	End         TimeJSON         `json:"end"`
	Frequency   string           `json:"frequency"`
	Value       ValueJSON        `json:"value"`
	Withholding *WithholdingJSON `json:"withholding"`
}

// ValueJSON is a tagged valuation policy.
type ValueJSON struct {
	Type   string    `json:"type"` // fixed, rate, table, rate_table, units_table
	Amount MoneyJSON `json:"amount,omitempty"`
	Rate   string    `json:"rate,omitempty"`
	Table  string    `json:"table,omitempty"`
	Units  int64     `json:"units,omitempty"`
}

// WithholdingJSON is a tagged withholding policy.
type WithholdingJSON struct {
	Type            string `json:"type"` // none, tax_exempt, constant_rate, partially_taxed
	Rate            string `json:"rate,omitempty"`
	TaxedProportion string `json:"taxed_proportion,omitempty"`
}

// EventsJSON groups the plan's event generators.
type EventsJSON struct {
	HousePurchases []HousePurchaseJSON `json:"house_purchases,omitempty"`
	Transfers      []TransferJSON      `json:"transfers,omitempty"`
}

// HousePurchaseJSON configures one financed property purchase.
type HousePurchaseJSON struct {
	Name          string    `json:"name"`
	Start         TimeJSON  `json:"start"`
	End           TimeJSON  `json:"end"`
	Rate          string    `json:"rate"`
	Price         MoneyJSON `json:"price"`
	SetupCost     MoneyJSON `json:"setup_cost"`
	DownPayment   MoneyJSON `json:"down_payment"`
	HouseCategory string    `json:"house_category"`
	Mortgage      string    `json:"mortgage_category"`
	FromCategory  string    `json:"from_category"`
	PayCategory   string    `json:"payment_category"`
}

// TransferJSON configures one two-sided move between categories.
type TransferJSON struct {
	Name   string    `json:"name"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	At     TimeJSON  `json:"at"`
	Value  MoneyJSON `json:"value"`
}

// MoneyJSON is an amount of dollars, given as a JSON number or string,
// exact to the cent.
type MoneyJSON struct {
	Amount finance.Money
}

// UnmarshalJSON accepts `1234.56` or `"1234.56"` and rejects sub-cent
// precision.
func (m *MoneyJSON) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parsing money %s: %w", data, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return fmt.Errorf("money %s has sub-cent precision", data)
	}
	m.Amount = finance.FromCents(cents.IntPart())
	return nil
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// Parse reads one JSON plan document and builds the model plus the year
// range to simulate. Unknown fields anywhere in the document are errors.
func Parse(r io.Reader) (*finance.Model, finance.Range[finance.Year], error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var pj PlanJSON
	if err := dec.Decode(&pj); err != nil {
		return nil, finance.Range[finance.Year]{}, fmt.Errorf("parsing plan: %w", err)
	}
	return Build(pj)
}

// ParseDocument is Parse over an in-memory document.
func ParseDocument(doc []byte) (*finance.Model, finance.Range[finance.Year], error) {
	return Parse(bytes.NewReader(doc))
}

// Build converts a decoded plan into a validated model.
func Build(pj PlanJSON) (*finance.Model, finance.Range[finance.Year], error) {
	var none finance.Range[finance.Year]

	years := finance.NewRange(finance.Year(pj.Years.Start), finance.Year(pj.Years.End))
	if years.IsEmpty() {
		return nil, none, fmt.Errorf("years [%d, %d) is empty", pj.Years.Start, pj.Years.End)
	}

	b := &builder{times: pj.Times}
	if err := b.buildTables(pj.Tables); err != nil {
		return nil, none, err
	}

	categories, err := buildCategories(pj.Categories)
	if err != nil {
		return nil, none, err
	}

	flows := make(map[string][]finance.Flow)
	for _, fj := range pj.Flows {
		flow, err := b.buildFlow(fj)
		if err != nil {
			return nil, none, fmt.Errorf("flow %q: %w", fj.Name, err)
		}
		flows[fj.Category] = append(flows[fj.Category], flow)
	}

	if pj.Events != nil {
		expanded, err := b.buildEvents(*pj.Events)
		if err != nil {
			return nil, none, err
		}
		for _, cf := range expanded {
			flows[cf.Category] = append(flows[cf.Category], cf.Flow)
		}
	}

	policy, err := buildTaxPolicy(pj.Tax)
	if err != nil {
		return nil, none, err
	}

	model, err := finance.NewModel(flows, categories, policy, pj.Tax.Category)
	if err != nil {
		return nil, none, err
	}
	return model, years, nil
}

// builder resolves named times and tables while flows are constructed.
type builder struct {
	times       map[string]TimeLiteral
	moneyTables map[string]*finance.Table[finance.Time, finance.Money]
	rateTables  map[string]*finance.Table[finance.Time, finance.Rate]
}

// =============================================================================
// BUILDING HELPERS
// =============================================================================

func buildCategories(cjs []CategoryJSON) ([]finance.Category, error) {
	seen := make(map[string]bool)
	categories := make([]finance.Category, 0, len(cjs))
	for _, cj := range cjs {
		if cj.Name == "" {
			return nil, fmt.Errorf("category with empty name")
		}
		if seen[cj.Name] {
			return nil, fmt.Errorf("category %q declared twice", cj.Name)
		}
		seen[cj.Name] = true
		c := finance.Category{Name: cj.Name}
		for _, aj := range cj.Assets {
			c.Assets = append(c.Assets, finance.Asset{Name: aj.Name, Value: aj.Value.Amount})
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func buildTaxPolicy(tj TaxJSON) (finance.AnnualTaxPolicy, error) {
	switch tj.Type {
	case "fixed_rate":
		rate, err := finance.ParseRate(tj.Rate)
		if err != nil {
			return nil, fmt.Errorf("tax rate: %w", err)
		}
		return finance.NewFixedRateTaxPolicy(rate, tj.Deduction.Amount), nil
	default:
		return nil, fmt.Errorf("unknown tax policy type %q", tj.Type)
	}
}

func (b *builder) resolveTime(tj TimeJSON) (finance.Time, error) {
	lit := tj.Literal
	if lit == nil {
		named, ok := b.times[tj.Ref]
		if !ok {
			return finance.Time{}, fmt.Errorf("unknown named time %q", tj.Ref)
		}
		lit = &named
	}
	month, err := finance.ParseMonth(lit.Month)
	if err != nil {
		return finance.Time{}, err
	}
	return finance.Time{Year: finance.Year(lit.Year), Month: month}, nil
}

func (b *builder) buildTables(tjs map[string]TableJSON) error {
	b.moneyTables = make(map[string]*finance.Table[finance.Time, finance.Money])
	b.rateTables = make(map[string]*finance.Table[finance.Time, finance.Rate])

	for name, tj := range tjs {
		switch tj.Type {
		case "money":
			entries, err := buildEntries(b, tj.Entries, func(raw json.RawMessage) (finance.Money, error) {
				var m MoneyJSON
				if err := json.Unmarshal(raw, &m); err != nil {
					return finance.Money{}, err
				}
				return m.Amount, nil
			})
			if err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
			table, err := finance.NewTable(entries)
			if err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
			b.moneyTables[name] = table
		case "rate":
			entries, err := buildEntries(b, tj.Entries, func(raw json.RawMessage) (finance.Rate, error) {
				var s string
				if err := json.Unmarshal(raw, &s); err != nil {
					return finance.Rate{}, err
				}
				return finance.ParseRate(s)
			})
			if err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
			table, err := finance.NewTable(entries)
			if err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
			b.rateTables[name] = table
		default:
			return fmt.Errorf("table %q: unknown type %q", name, tj.Type)
		}
	}
	return nil
}

func buildEntries[V any](b *builder, ejs []TableEntryJSON, value func(json.RawMessage) (V, error)) ([]finance.TableEntry[finance.Time, V], error) {
	entries := make([]finance.TableEntry[finance.Time, V], 0, len(ejs))
	for _, ej := range ejs {
		start, err := b.resolveTime(ej.Start)
		if err != nil {
			return nil, err
		}
		end, err := b.resolveTime(ej.End)
		if err != nil {
			return nil, err
		}
		v, err := value(ej.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, finance.TableEntry[finance.Time, V]{
			Range: finance.NewRange(start, end),
			Value: v,
		})
	}
	return entries, nil
}

func (b *builder) buildFlow(fj FlowJSON) (finance.Flow, error) {
	start, err := b.resolveTime(fj.Start)
	if err != nil {
		return finance.Flow{}, err
	}
	end, err := b.resolveTime(fj.End)
	if err != nil {
		return finance.Flow{}, err
	}
	freq, err := finance.ParseFrequency(fj.Frequency)
	if err != nil {
		return finance.Flow{}, err
	}
	value, err := b.buildValue(fj.Value)
	if err != nil {
		return finance.Flow{}, err
	}
	withholding, err := buildWithholding(fj.Withholding)
	if err != nil {
		return finance.Flow{}, err
	}
	return finance.Flow{
		Name:        fj.Name,
		Description: fj.Description,
		Start:       start,
		End:         end,
		Frequency:   freq,
		Value:       value,
		Withholding: withholding,
	}, nil
}

func (b *builder) buildValue(vj ValueJSON) (finance.FlowValue, error) {
	switch vj.Type {
	case "fixed":
		return finance.FixedValue{Amount: vj.Amount.Amount}, nil
	case "rate":
		rate, err := finance.ParseRate(vj.Rate)
		if err != nil {
			return nil, err
		}
		return finance.RateValue{Rate: rate}, nil
	case "table":
		table, ok := b.moneyTables[vj.Table]
		if !ok {
			return nil, fmt.Errorf("unknown money table %q", vj.Table)
		}
		return finance.TableValue{Table: table}, nil
	case "rate_table":
		table, ok := b.rateTables[vj.Table]
		if !ok {
			return nil, fmt.Errorf("unknown rate table %q", vj.Table)
		}
		return finance.RateTableValue{Table: table}, nil
	case "units_table":
		table, ok := b.moneyTables[vj.Table]
		if !ok {
			return nil, fmt.Errorf("unknown money table %q", vj.Table)
		}
		return finance.UnitsTableValue{Units: vj.Units, Prices: table}, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", vj.Type)
	}
}

func buildWithholding(wj *WithholdingJSON) (finance.WithholdingPolicy, error) {
	if wj == nil {
		return nil, fmt.Errorf("missing withholding")
	}
	switch wj.Type {
	case "none":
		return finance.NoWithholding{}, nil
	case "tax_exempt":
		return finance.TaxExempt{}, nil
	case "constant_rate":
		rate, err := finance.ParseRate(wj.Rate)
		if err != nil {
			return nil, err
		}
		return finance.ConstantRate{Rate: rate}, nil
	case "partially_taxed":
		proportion, err := finance.ParseRate(wj.TaxedProportion)
		if err != nil {
			return nil, err
		}
		rate, err := finance.ParseRate(wj.Rate)
		if err != nil {
			return nil, err
		}
		return finance.PartiallyTaxed{TaxedProportion: proportion, WithholdingRate: rate}, nil
	default:
		return nil, fmt.Errorf("unknown withholding type %q", wj.Type)
	}
}

func (b *builder) buildEvents(ej EventsJSON) ([]finance.CategoryFlow, error) {
	var out []finance.CategoryFlow
	for _, hj := range ej.HousePurchases {
		start, err := b.resolveTime(hj.Start)
		if err != nil {
			return nil, fmt.Errorf("house purchase %q: %w", hj.Name, err)
		}
		end, err := b.resolveTime(hj.End)
		if err != nil {
			return nil, fmt.Errorf("house purchase %q: %w", hj.Name, err)
		}
		rate, err := finance.ParseRate(hj.Rate)
		if err != nil {
			return nil, fmt.Errorf("house purchase %q: %w", hj.Name, err)
		}
		h := finance.HousePurchase{
			PropertyName:           hj.Name,
			Term:                   finance.NewRange(start, end),
			MortgageRate:           rate,
			PurchasePrice:          hj.Price.Amount,
			SetupCost:              hj.SetupCost.Amount,
			DownPayment:            hj.DownPayment.Amount,
			HouseValueCategory:     hj.HouseCategory,
			MortgageCategory:       hj.Mortgage,
			DownPaymentCategory:    hj.FromCategory,
			RegularPaymentCategory: hj.PayCategory,
		}
		flows, err := h.BuildFlows()
		if err != nil {
			return nil, err
		}
		out = append(out, flows...)
	}
	for _, tj := range ej.Transfers {
		when, err := b.resolveTime(tj.At)
		if err != nil {
			return nil, fmt.Errorf("transfer %q: %w", tj.Name, err)
		}
		out = append(out, finance.Transfer(tj.Name, tj.Source, tj.Target, when, tj.Value.Amount)...)
	}
	return out, nil
}
