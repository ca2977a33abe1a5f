package store

import (
	"context"
	"database/sql"
	"errors"

	"prediction-dashboard/internal/models"
)

const settingsColumns = `id, vat_rate, shipping_cost, discount_rate, overhead_cost, usd_to_local_rate, updated_at`

// GetSettings returns the settings row, or nil when the table is empty
func (s *Store) GetSettings(ctx context.Context) (*models.BusinessSettings, error) {
	var settings models.BusinessSettings
	err := s.db.GetContext(ctx, &settings,
		"SELECT "+settingsColumns+" FROM business_settings LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a partial update and refreshes updated_at
func (s *Store) UpdateSettings(ctx context.Context, id string, patch models.SettingsPatch) error {
	var a assignments
	if patch.VATRate != nil {
		a.set("vat_rate", *patch.VATRate)
	}
	if patch.ShippingCost != nil {
		a.set("shipping_cost", *patch.ShippingCost)
	}
	if patch.DiscountRate != nil {
		a.set("discount_rate", *patch.DiscountRate)
	}
	if patch.OverheadCost != nil {
		a.set("overhead_cost", *patch.OverheadCost)
	}
	if patch.USDToLocalRate != nil {
		a.set("usd_to_local_rate", *patch.USDToLocalRate)
	}
	return s.execUpdate(ctx, "business_settings", "settings", id, &a)
}
