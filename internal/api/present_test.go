package api

import (
	"math"
	"testing"

	"prediction-dashboard/internal/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyRoundsHalfAwayFromZero(t *testing.T) {
	p := presenter{symbol: "AED"}

	assert.Equal(t, "AED 66.19", p.money(66.1875))
	assert.Equal(t, "AED -2.01", p.money(-2.005))
	assert.Equal(t, "AED 735", p.wholeMoney(734.5))
	assert.Equal(t, "AED 0.00", p.money(0))
}

func TestNonFiniteValuesRenderAsZero(t *testing.T) {
	p := presenter{symbol: "AED"}

	assert.Equal(t, "AED 0.00", p.money(math.NaN()))
	assert.Equal(t, "AED 0", p.wholeMoney(math.Inf(1)))
	assert.Equal(t, "0.0%", percent(math.Inf(-1), 1))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "-65.0%", percent(-65.00000000000001, 1))
	assert.Equal(t, "12.35%", percent(12.345, 2))
}

func TestRenderWithoutSettings(t *testing.T) {
	p := presenter{symbol: "AED"}

	d := p.render(projection.Report{
		Marketing: projection.MarketingSummary{
			AvgOrderValue: 100,
			Campaigns: []projection.CampaignROI{
				{CampaignID: "c1", Budget: 100, EstimatedCustomers: 3, EstimatedRevenue: 250, ROI: 150, NetGain: 150},
			},
			TotalBudget:           100,
			TotalEstimatedRevenue: 250,
			OverallROI:            150,
		},
	})

	assert.Nil(t, d.Overview)
	assert.Nil(t, d.Costs)
	assert.Nil(t, d.Currency)
	require.Len(t, d.Marketing.Campaigns, 1)
	assert.Equal(t, "150.0%", d.Marketing.Campaigns[0].ROI)
	assert.Equal(t, "3", d.Marketing.Campaigns[0].EstimatedCustomers)
	assert.Equal(t, "AED 100.00", d.Marketing.AvgOrderValue)
}

func TestCurrencyDisplay(t *testing.T) {
	p := presenter{symbol: "AED"}

	d := p.currency(projection.Currency(3.6725))

	assert.Equal(t, "3.6725", d.Rate)
	require.Len(t, d.QuickReference, 4)
	assert.Equal(t, "$100.00", d.QuickReference[0].USD)
	assert.Equal(t, "AED 367.25", d.QuickReference[0].Local)
}
