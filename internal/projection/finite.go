package projection

import (
	"math"

	"prediction-dashboard/internal/models"
)

// Finite maps NaN and ±Inf to 0. Stored values can be non-finite if a row
// was edited by hand, and products of very large values overflow.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finite(vs ...*float64) {
	for _, v := range vs {
		*v = Finite(*v)
	}
}

// Sanitize returns a copy of snap with every non-finite number set to 0
func Sanitize(snap models.Snapshot) models.Snapshot {
	out := snap.Clone()
	for i := range out.Products {
		finite(&out.Products[i].UnitPrice)
	}
	if out.Settings != nil {
		s := out.Settings
		finite(&s.VATRate, &s.ShippingCost, &s.DiscountRate, &s.OverheadCost, &s.USDToLocalRate)
	}
	for i := range out.Campaigns {
		c := &out.Campaigns[i]
		finite(&c.Budget, &c.ConversionRate, &c.ActualRevenue)
	}
	return out
}

// sanitize clears overflow out of every derived figure
func (r *Report) sanitize() {
	if o := r.Overview; o != nil {
		finite(&o.GrossRevenue, &o.TotalWithVAT, &o.AvgProductValue)
	}
	if t := r.Products; t != nil {
		for i := range t.Lines {
			finite(&t.Lines[i].UnitPrice, &t.Lines[i].Subtotal)
		}
		finite(&t.Subtotal, &t.VATRate, &t.VATAmount, &t.TotalWithVAT)
	}
	if c := r.Costs; c != nil {
		finite(&c.GrossRevenue, &c.VATAmount, &c.TotalRevenue, &c.DiscountAmount,
			&c.RevenueAfterDiscount, &c.TotalCosts, &c.NetProfit, &c.ProfitMargin)
	}

	m := &r.Marketing
	for i := range m.Campaigns {
		c := &m.Campaigns[i]
		finite(&c.Budget, &c.ConversionRate, &c.Customers, &c.EstimatedRevenue, &c.ROI, &c.NetGain)
	}
	finite(&m.AvgOrderValue, &m.TotalBudget, &m.TotalEstimatedRevenue, &m.OverallROI)

	if f := r.Forecast; f != nil {
		finite(&f.TotalMarketingBudget, &f.EstimatedCustomers, &f.AvgOrderValue,
			&f.PotentialRevenue, &f.MonthlyProjection, &f.YearlyProjection)
	}
	if c := r.Currency; c != nil {
		c.Rate = Finite(c.Rate)
		for i := range c.QuickReference {
			finite(&c.QuickReference[i].USD, &c.QuickReference[i].Local)
		}
	}
}
