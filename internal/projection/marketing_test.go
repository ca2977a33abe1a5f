package projection

import (
	"testing"

	"prediction-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCampaignKeepsUnroundedRevenue(t *testing.T) {
	c := models.MarketingCampaign{ID: "c1", Name: "Launch", Budget: 100, ConversionRate: 2.5}

	got := Campaign(c, 100)

	assert.Equal(t, 0.25, got.Customers)
	assert.Equal(t, int64(0), got.EstimatedCustomers)
	assert.Equal(t, 25.0, got.EstimatedRevenue)
	assert.Equal(t, -75.0, got.ROI)
	assert.Equal(t, -75.0, got.NetGain)
}

func TestCampaignZeroBudget(t *testing.T) {
	got := Campaign(models.MarketingCampaign{Budget: 0, ConversionRate: 5}, 100)

	assert.Equal(t, 0.0, got.ROI)
	assert.Equal(t, 0.0, got.EstimatedRevenue)
}

func TestCampaignRoundsCustomerCount(t *testing.T) {
	got := Campaign(models.MarketingCampaign{Budget: 1000, ConversionRate: 15}, 40)

	assert.Equal(t, 15.0, got.Customers)
	assert.Equal(t, int64(15), got.EstimatedCustomers)
	assert.Equal(t, 600.0, got.EstimatedRevenue)
	assert.Equal(t, -40.0, got.ROI)

	half := Campaign(models.MarketingCampaign{Budget: 200, ConversionRate: 2.5}, 100)
	assert.Equal(t, 0.5, half.Customers)
	assert.Equal(t, int64(1), half.EstimatedCustomers)
}

func TestMarketingAggregates(t *testing.T) {
	products := []models.Product{{UnitPrice: 100, Quantity: 1}}
	campaigns := []models.MarketingCampaign{
		{ID: "a", Budget: 100, ConversionRate: 2.5},
		{ID: "b", Budget: 1000, ConversionRate: 20},
	}

	got := Marketing(campaigns, products)

	assert.Equal(t, 100.0, got.AvgOrderValue)
	assert.Len(t, got.Campaigns, 2)
	assert.Equal(t, 1100.0, got.TotalBudget)
	assert.Equal(t, 25.0+2000.0, got.TotalEstimatedRevenue)
	assert.InDelta(t, (2025.0-1100.0)/1100.0*100, got.OverallROI, 1e-9)
}

func TestMarketingWithoutCampaigns(t *testing.T) {
	got := Marketing(nil, nil)

	assert.NotNil(t, got.Campaigns)
	assert.Empty(t, got.Campaigns)
	assert.Equal(t, 0.0, got.OverallROI)
	assert.Equal(t, DefaultAvgOrderValue, got.AvgOrderValue)
}

func TestRevenueForecast(t *testing.T) {
	campaigns := []models.MarketingCampaign{
		{Budget: 100, ConversionRate: 2.5},
		{Budget: 1000, ConversionRate: 10},
	}

	got := RevenueForecast(nil, campaigns, 5)

	assert.Equal(t, 1100.0, got.TotalMarketingBudget)
	assert.Equal(t, 10.25, got.EstimatedCustomers)
	assert.Equal(t, 100.0, got.AvgOrderValue)
	assert.Equal(t, 1025.0, got.PotentialRevenue)
	assert.InDelta(t, 1076.25, got.MonthlyProjection, 1e-9)
	assert.InDelta(t, 1076.25*12, got.YearlyProjection, 1e-9)
}
