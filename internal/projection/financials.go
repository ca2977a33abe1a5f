// Package projection derives financial estimates from a dashboard snapshot.
// Every function is pure; values are float64 and never rounded here.
package projection

import (
	"prediction-dashboard/internal/models"
)

// DefaultAvgOrderValue is used when there are no products to average over
const DefaultAvgOrderValue = 100.0

// CostBreakdown is the revenue-to-profit waterfall
type CostBreakdown struct {
	GrossRevenue         float64 `json:"gross_revenue"`
	VATAmount            float64 `json:"vat_amount"`
	TotalRevenue         float64 `json:"total_revenue"`
	DiscountAmount       float64 `json:"discount_amount"`
	RevenueAfterDiscount float64 `json:"revenue_after_discount"`
	TotalCosts           float64 `json:"total_costs"`
	NetProfit            float64 `json:"net_profit"`
	ProfitMargin         float64 `json:"profit_margin"`
}

// GrossRevenue sums unit price times quantity over the given products
func GrossRevenue(products []models.Product) float64 {
	var sum float64
	for _, p := range products {
		sum += p.Subtotal()
	}
	return sum
}

// TotalQuantity sums quantities over the given products
func TotalQuantity(products []models.Product) int64 {
	var sum int64
	for _, p := range products {
		sum += p.Quantity
	}
	return sum
}

// AvgOrderValue is gross revenue per unit of inventory.
// With no products it returns DefaultAvgOrderValue; with products but zero
// total quantity the denominator becomes 1.
func AvgOrderValue(products []models.Product) float64 {
	if len(products) == 0 {
		return DefaultAvgOrderValue
	}
	qty := TotalQuantity(products)
	if qty == 0 {
		qty = 1
	}
	return GrossRevenue(products) / float64(qty)
}

// Costs computes the cost estimator waterfall for the given settings
func Costs(products []models.Product, s models.BusinessSettings) CostBreakdown {
	gross := GrossRevenue(products)
	vat := gross * (s.VATRate / 100)
	total := gross + vat
	discount := total * (s.DiscountRate / 100)
	afterDiscount := total - discount
	costs := s.ShippingCost + s.OverheadCost
	net := afterDiscount - costs

	var margin float64
	if total > 0 {
		margin = net / total * 100
	}

	return CostBreakdown{
		GrossRevenue:         gross,
		VATAmount:            vat,
		TotalRevenue:         total,
		DiscountAmount:       discount,
		RevenueAfterDiscount: afterDiscount,
		TotalCosts:           costs,
		NetProfit:            net,
		ProfitMargin:         margin,
	}
}

// Overview is the headline stats row
type Overview struct {
	TotalProducts   int     `json:"total_products"`
	TotalInventory  int64   `json:"total_inventory"`
	GrossRevenue    float64 `json:"gross_revenue"`
	TotalWithVAT    float64 `json:"total_with_vat"`
	AvgProductValue float64 `json:"avg_product_value"`
}

// Summarize builds the overview stats
func Summarize(products []models.Product, vatRate float64) Overview {
	gross := GrossRevenue(products)
	inventory := TotalQuantity(products)

	var avg float64
	if len(products) > 0 && inventory > 0 {
		avg = gross / float64(inventory)
	}

	return Overview{
		TotalProducts:   len(products),
		TotalInventory:  inventory,
		GrossRevenue:    gross,
		TotalWithVAT:    gross * (1 + vatRate/100),
		AvgProductValue: avg,
	}
}

// ProductLine is one row of the product estimator table
type ProductLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// ProductTable is the product estimator with VAT totals
type ProductTable struct {
	Lines        []ProductLine `json:"lines"`
	Subtotal     float64       `json:"subtotal"`
	VATRate      float64       `json:"vat_rate"`
	VATAmount    float64       `json:"vat_amount"`
	TotalWithVAT float64       `json:"total_with_vat"`
}

// Tabulate builds the per-product table
func Tabulate(products []models.Product, vatRate float64) ProductTable {
	lines := make([]ProductLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, ProductLine{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			UnitPrice: p.UnitPrice,
			Quantity:  p.Quantity,
			Subtotal:  p.Subtotal(),
		})
	}

	subtotal := GrossRevenue(products)
	vat := subtotal * (vatRate / 100)

	return ProductTable{
		Lines:        lines,
		Subtotal:     subtotal,
		VATRate:      vatRate,
		VATAmount:    vat,
		TotalWithVAT: subtotal + vat,
	}
}
