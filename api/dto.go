/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the simulation's report model from the external API contract: money is
  presented as cents plus a display string, rates as display strings, and
  months/years as names. No arithmetic happens here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - finance/model.go: The report being presented
*/
package api

import (
	"encoding/json"
	"fmt"

	"github.com/warp/networth-engine/finance"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the JSON shape of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MoneyDTO carries an amount both machine-readable and formatted.
type MoneyDTO struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

// PlanDTO is one stored plan with its document.
type PlanDTO struct {
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ReportDTO is a full simulation result.
type ReportDTO struct {
	Years       map[string]YearReportDTO `json:"years"`
	StartValues map[string]MoneyDTO      `json:"start_values"`
	EndValues   map[string]MoneyDTO      `json:"end_values"`
}

// YearReportDTO is one simulated year.
type YearReportDTO struct {
	Categories    map[string]map[string]MonthReportDTO `json:"categories"`
	TaxSummary    TaxSummaryDTO                        `json:"tax_summary"`
	TaxAdjustment TaxAdjustmentDTO                     `json:"tax_adjustment"`
	StartValues   map[string]MoneyDTO                  `json:"start_values"`
	EndValues     map[string]MoneyDTO                  `json:"end_values"`
}

// MonthReportDTO is one category's month, keyed by flow name.
type MonthReportDTO struct {
	StartValue   MoneyDTO         `json:"start_value"`
	EndValue     MoneyDTO         `json:"end_value"`
	Transactions map[string]TxDTO `json:"transactions,omitempty"`
}

// TxDTO is one evaluated flow occurrence.
type TxDTO struct {
	Amount        MoneyDTO `json:"amount"`
	TaxableIncome MoneyDTO `json:"taxable_income"`
	TaxWithheld   MoneyDTO `json:"tax_withheld"`
}

// TaxSummaryDTO is a year's accumulated totals.
type TaxSummaryDTO struct {
	NetAmount     MoneyDTO `json:"net_amount"`
	TaxableIncome MoneyDTO `json:"taxable_income"`
	TaxWithheld   MoneyDTO `json:"tax_withheld"`
}

// TaxAdjustmentDTO is a year's reconciliation outcome.
type TaxAdjustmentDTO struct {
	Owed          MoneyDTO `json:"owed"`
	Withheld      MoneyDTO `json:"withheld"`
	Delta         MoneyDTO `json:"delta"`
	EffectiveRate string   `json:"effective_rate"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toMoneyDTO(m finance.Money) MoneyDTO {
	return MoneyDTO{Cents: m.AsCents(), Display: m.String()}
}

func toSnapshotDTO(s finance.Snapshot) map[string]MoneyDTO {
	out := make(map[string]MoneyDTO, len(s))
	for name, value := range s {
		out[name] = toMoneyDTO(value)
	}
	return out
}

// ToReportDTO converts a simulation report into its presentation shape.
// The CLI's json output mode shares this conversion.
func ToReportDTO(report *finance.Report) ReportDTO {
	dto := ReportDTO{
		Years:       make(map[string]YearReportDTO, len(report.Years)),
		StartValues: toSnapshotDTO(report.StartValues),
		EndValues:   toSnapshotDTO(report.EndValues),
	}
	for year, yr := range report.Years {
		dto.Years[fmt.Sprintf("%d", int(year))] = toYearReportDTO(yr)
	}
	return dto
}

func toYearReportDTO(yr *finance.YearReport) YearReportDTO {
	dto := YearReportDTO{
		Categories: make(map[string]map[string]MonthReportDTO, len(yr.Categories)),
		TaxSummary: TaxSummaryDTO{
			NetAmount:     toMoneyDTO(yr.TaxSummary.NetAmount),
			TaxableIncome: toMoneyDTO(yr.TaxSummary.TaxableIncome),
			TaxWithheld:   toMoneyDTO(yr.TaxSummary.TaxWithheld),
		},
		TaxAdjustment: TaxAdjustmentDTO{
			Owed:          toMoneyDTO(yr.TaxAdjustment.Owed),
			Withheld:      toMoneyDTO(yr.TaxAdjustment.Withheld),
			Delta:         toMoneyDTO(yr.TaxAdjustment.Delta),
			EffectiveRate: yr.TaxAdjustment.EffectiveRate.String(),
		},
		StartValues: toSnapshotDTO(yr.StartValues),
		EndValues:   toSnapshotDTO(yr.EndValues),
	}
	for category, months := range yr.Categories {
		monthDTOs := make(map[string]MonthReportDTO, len(months))
		for month, mr := range months {
			monthDTOs[month.String()] = toMonthReportDTO(mr)
		}
		dto.Categories[category] = monthDTOs
	}
	return dto
}

func toMonthReportDTO(mr finance.MonthReport) MonthReportDTO {
	dto := MonthReportDTO{
		StartValue: toMoneyDTO(mr.StartValue),
		EndValue:   toMoneyDTO(mr.EndValue),
	}
	if len(mr.Transactions) > 0 {
		dto.Transactions = make(map[string]TxDTO, len(mr.Transactions))
		for name, tx := range mr.Transactions {
			dto.Transactions[name] = TxDTO{
				Amount:        toMoneyDTO(tx.Amount),
				TaxableIncome: toMoneyDTO(tx.Tax.TaxableIncome),
				TaxWithheld:   toMoneyDTO(tx.Tax.TaxWithheld),
			}
		}
	}
	return dto
}
