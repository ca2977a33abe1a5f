package projection

import (
	"prediction-dashboard/internal/models"
)

// Report bundles every projection for a snapshot. Sections that need
// business settings are nil when the snapshot has none.
type Report struct {
	Configured bool               `json:"configured"`
	Overview   *Overview          `json:"overview"`
	Products   *ProductTable      `json:"products"`
	Costs      *CostBreakdown     `json:"costs"`
	Marketing  MarketingSummary   `json:"marketing"`
	Forecast   *Forecast          `json:"forecast"`
	Currency   *CurrencyReference `json:"currency"`
}

// Compute derives the full report from a snapshot. Non-finite inputs count
// as 0 and any figure that overflows is reported as 0.
func Compute(snap models.Snapshot) Report {
	snap = Sanitize(snap)
	report := Report{
		Marketing: Marketing(snap.Campaigns, snap.Products),
	}

	if snap.Settings == nil {
		report.sanitize()
		return report
	}

	s := *snap.Settings
	overview := Summarize(snap.Products, s.VATRate)
	table := Tabulate(snap.Products, s.VATRate)
	costs := Costs(snap.Products, s)
	forecast := RevenueForecast(snap.Products, snap.Campaigns, s.VATRate)
	currency := Currency(s.USDToLocalRate)

	report.Configured = true
	report.Overview = &overview
	report.Products = &table
	report.Costs = &costs
	report.Forecast = &forecast
	report.Currency = &currency
	report.sanitize()
	return report
}
