package api

import (
	"prediction-dashboard/internal/projection"

	"github.com/shopspring/decimal"
)

// Display holds the rounded, human-readable renderings of a report.
// Raw values stay in the report; nothing here feeds back into arithmetic.
type Display struct {
	Overview  *OverviewDisplay `json:"overview,omitempty"`
	Products  *ProductsDisplay `json:"products,omitempty"`
	Costs     *CostsDisplay    `json:"costs,omitempty"`
	Marketing MarketingDisplay `json:"marketing"`
	Forecast  *ForecastDisplay `json:"forecast,omitempty"`
	Currency  *CurrencyDisplay `json:"currency,omitempty"`
}

type OverviewDisplay struct {
	TotalProducts   string `json:"total_products"`
	TotalInventory  string `json:"total_inventory"`
	GrossRevenue    string `json:"gross_revenue"`
	TotalWithVAT    string `json:"total_with_vat"`
	AvgProductValue string `json:"avg_product_value"`
}

type ProductLineDisplay struct {
	ProductID string `json:"product_id"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type ProductsDisplay struct {
	Lines        []ProductLineDisplay `json:"lines"`
	Subtotal     string               `json:"subtotal"`
	VATAmount    string               `json:"vat_amount"`
	TotalWithVAT string               `json:"total_with_vat"`
}

type CostsDisplay struct {
	GrossRevenue         string `json:"gross_revenue"`
	VATAmount            string `json:"vat_amount"`
	TotalRevenue         string `json:"total_revenue"`
	DiscountAmount       string `json:"discount_amount"`
	RevenueAfterDiscount string `json:"revenue_after_discount"`
	TotalCosts           string `json:"total_costs"`
	NetProfit            string `json:"net_profit"`
	ProfitMargin         string `json:"profit_margin"`
}

type CampaignDisplay struct {
	CampaignID         string `json:"campaign_id"`
	Budget             string `json:"budget"`
	EstimatedCustomers string `json:"estimated_customers"`
	EstimatedRevenue   string `json:"estimated_revenue"`
	ROI                string `json:"roi"`
	NetGain            string `json:"net_gain"`
}

type MarketingDisplay struct {
	AvgOrderValue         string            `json:"avg_order_value"`
	Campaigns             []CampaignDisplay `json:"campaigns"`
	TotalBudget           string            `json:"total_budget"`
	TotalEstimatedRevenue string            `json:"total_estimated_revenue"`
	OverallROI            string            `json:"overall_roi"`
}

type ForecastDisplay struct {
	TotalMarketingBudget string `json:"total_marketing_budget"`
	EstimatedCustomers   string `json:"estimated_customers"`
	AvgOrderValue        string `json:"avg_order_value"`
	PotentialRevenue     string `json:"potential_revenue"`
	MonthlyProjection    string `json:"monthly_projection"`
	YearlyProjection     string `json:"yearly_projection"`
}

type ConversionDisplay struct {
	USD   string `json:"usd"`
	Local string `json:"local"`
}

type CurrencyDisplay struct {
	Rate           string              `json:"usd_to_local_rate"`
	QuickReference []ConversionDisplay `json:"quick_reference"`
}

// presenter formats numbers for one currency symbol.
// decimal rounds half away from zero.
type presenter struct {
	symbol string
}

// fixed renders v with the given places; non-finite values render as 0
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(projection.Finite(v)).StringFixed(places)
}

func (p presenter) money(v float64) string {
	return p.symbol + " " + fixed(v, 2)
}

func (p presenter) wholeMoney(v float64) string {
	return p.symbol + " " + fixed(v, 0)
}

func usd(v float64) string {
	return "$" + fixed(v, 2)
}

func percent(v float64, places int32) string {
	return fixed(v, places) + "%"
}

func (p presenter) render(r projection.Report) Display {
	d := Display{Marketing: p.marketing(r.Marketing)}

	if r.Overview != nil {
		d.Overview = &OverviewDisplay{
			TotalProducts:   fixed(float64(r.Overview.TotalProducts), 0),
			TotalInventory:  fixed(float64(r.Overview.TotalInventory), 0),
			GrossRevenue:    p.wholeMoney(r.Overview.GrossRevenue),
			TotalWithVAT:    p.wholeMoney(r.Overview.TotalWithVAT),
			AvgProductValue: p.wholeMoney(r.Overview.AvgProductValue),
		}
	}

	if r.Products != nil {
		lines := make([]ProductLineDisplay, 0, len(r.Products.Lines))
		for _, l := range r.Products.Lines {
			lines = append(lines, ProductLineDisplay{
				ProductID: l.ProductID,
				UnitPrice: p.money(l.UnitPrice),
				Subtotal:  p.money(l.Subtotal),
			})
		}
		d.Products = &ProductsDisplay{
			Lines:        lines,
			Subtotal:     p.money(r.Products.Subtotal),
			VATAmount:    p.money(r.Products.VATAmount),
			TotalWithVAT: p.money(r.Products.TotalWithVAT),
		}
	}

	if r.Costs != nil {
		d.Costs = &CostsDisplay{
			GrossRevenue:         p.money(r.Costs.GrossRevenue),
			VATAmount:            p.money(r.Costs.VATAmount),
			TotalRevenue:         p.money(r.Costs.TotalRevenue),
			DiscountAmount:       p.money(r.Costs.DiscountAmount),
			RevenueAfterDiscount: p.money(r.Costs.RevenueAfterDiscount),
			TotalCosts:           p.money(r.Costs.TotalCosts),
			NetProfit:            p.money(r.Costs.NetProfit),
			ProfitMargin:         percent(r.Costs.ProfitMargin, 2),
		}
	}

	if r.Forecast != nil {
		d.Forecast = &ForecastDisplay{
			TotalMarketingBudget: p.money(r.Forecast.TotalMarketingBudget),
			EstimatedCustomers:   fixed(r.Forecast.EstimatedCustomers, 0),
			AvgOrderValue:        p.money(r.Forecast.AvgOrderValue),
			PotentialRevenue:     p.money(r.Forecast.PotentialRevenue),
			MonthlyProjection:    p.money(r.Forecast.MonthlyProjection),
			YearlyProjection:     p.money(r.Forecast.YearlyProjection),
		}
	}

	if r.Currency != nil {
		d.Currency = p.currency(*r.Currency)
	}

	return d
}

func (p presenter) marketing(m projection.MarketingSummary) MarketingDisplay {
	campaigns := make([]CampaignDisplay, 0, len(m.Campaigns))
	for _, c := range m.Campaigns {
		campaigns = append(campaigns, CampaignDisplay{
			CampaignID:         c.CampaignID,
			Budget:             p.money(c.Budget),
			EstimatedCustomers: fixed(float64(c.EstimatedCustomers), 0),
			EstimatedRevenue:   p.money(c.EstimatedRevenue),
			ROI:                percent(c.ROI, 1),
			NetGain:            p.money(c.NetGain),
		})
	}

	return MarketingDisplay{
		AvgOrderValue:         p.money(m.AvgOrderValue),
		Campaigns:             campaigns,
		TotalBudget:           p.money(m.TotalBudget),
		TotalEstimatedRevenue: p.money(m.TotalEstimatedRevenue),
		OverallROI:            percent(m.OverallROI, 1),
	}
}

func (p presenter) currency(c projection.CurrencyReference) *CurrencyDisplay {
	refs := make([]ConversionDisplay, 0, len(c.QuickReference))
	for _, q := range c.QuickReference {
		refs = append(refs, ConversionDisplay{
			USD:   usd(q.USD),
			Local: p.money(q.Local),
		})
	}
	return &CurrencyDisplay{
		Rate:           fixed(c.Rate, 4),
		QuickReference: refs,
	}
}
