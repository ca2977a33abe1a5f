package projection

import (
	"math"

	"prediction-dashboard/internal/models"
)

// budgetPerReach is the spend needed to reach one prospect
const budgetPerReach = 10.0

// CampaignROI is the estimate for one campaign.
// EstimatedCustomers is rounded for display; EstimatedRevenue uses the
// unrounded Customers value.
type CampaignROI struct {
	CampaignID         string  `json:"campaign_id"`
	Name               string  `json:"name"`
	Budget             float64 `json:"budget"`
	ConversionRate     float64 `json:"conversion_rate"`
	Customers          float64 `json:"customers"`
	EstimatedCustomers int64   `json:"estimated_customers"`
	EstimatedRevenue   float64 `json:"estimated_revenue"`
	ROI                float64 `json:"roi"`
	NetGain            float64 `json:"net_gain"`
}

// MarketingSummary aggregates every campaign estimate
type MarketingSummary struct {
	AvgOrderValue         float64       `json:"avg_order_value"`
	Campaigns             []CampaignROI `json:"campaigns"`
	TotalBudget           float64       `json:"total_budget"`
	TotalEstimatedRevenue float64       `json:"total_estimated_revenue"`
	OverallROI            float64       `json:"overall_roi"`
}

// Forecast is the revenue projection driven by marketing spend
type Forecast struct {
	TotalMarketingBudget float64 `json:"total_marketing_budget"`
	EstimatedCustomers   float64 `json:"estimated_customers"`
	AvgOrderValue        float64 `json:"avg_order_value"`
	PotentialRevenue     float64 `json:"potential_revenue"`
	MonthlyProjection    float64 `json:"monthly_projection"`
	YearlyProjection     float64 `json:"yearly_projection"`
}

// ExpectedCustomers is (budget / 10) × (conversion_rate / 100), unrounded
func ExpectedCustomers(c models.MarketingCampaign) float64 {
	return (c.Budget / budgetPerReach) * (c.ConversionRate / 100)
}

// roi returns the percentage return of revenue over spend, 0 without spend
func roi(revenue, spend float64) float64 {
	if spend > 0 {
		return (revenue - spend) / spend * 100
	}
	return 0
}

// roundCount rounds half away from zero; counts outside int64 are 0
func roundCount(v float64) int64 {
	r := math.Round(Finite(v))
	if r >= math.MaxInt64 || r <= math.MinInt64 {
		return 0
	}
	return int64(r)
}

// Campaign estimates customers, revenue and ROI for one campaign
func Campaign(c models.MarketingCampaign, avgOrderValue float64) CampaignROI {
	customers := ExpectedCustomers(c)
	revenue := customers * avgOrderValue

	return CampaignROI{
		CampaignID:         c.ID,
		Name:               c.Name,
		Budget:             c.Budget,
		ConversionRate:     c.ConversionRate,
		Customers:          customers,
		EstimatedCustomers: roundCount(customers),
		EstimatedRevenue:   revenue,
		ROI:                roi(revenue, c.Budget),
		NetGain:            revenue - c.Budget,
	}
}

// Marketing estimates every campaign against the products' average order value
func Marketing(campaigns []models.MarketingCampaign, products []models.Product) MarketingSummary {
	aov := AvgOrderValue(products)

	summary := MarketingSummary{
		AvgOrderValue: aov,
		Campaigns:     make([]CampaignROI, 0, len(campaigns)),
	}
	for _, c := range campaigns {
		est := Campaign(c, aov)
		summary.Campaigns = append(summary.Campaigns, est)
		summary.TotalBudget += c.Budget
		summary.TotalEstimatedRevenue += est.EstimatedRevenue
	}
	summary.OverallROI = roi(summary.TotalEstimatedRevenue, summary.TotalBudget)

	return summary
}

// RevenueForecast projects monthly and yearly revenue including VAT
func RevenueForecast(products []models.Product, campaigns []models.MarketingCampaign, vatRate float64) Forecast {
	aov := AvgOrderValue(products)

	var budget, customers float64
	for _, c := range campaigns {
		budget += c.Budget
		customers += ExpectedCustomers(c)
	}

	potential := customers * aov
	monthly := potential * (1 + vatRate/100)

	return Forecast{
		TotalMarketingBudget: budget,
		EstimatedCustomers:   customers,
		AvgOrderValue:        aov,
		PotentialRevenue:     potential,
		MonthlyProjection:    monthly,
		YearlyProjection:     monthly * 12,
	}
}
