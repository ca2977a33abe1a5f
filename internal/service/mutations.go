package service

import (
	"context"
	"time"

	"prediction-dashboard/internal/models"

	"github.com/google/uuid"
)

// Mutation operation names, used for metrics and error messages
const (
	OpAddProduct     = "add_product"
	OpUpdateProduct  = "update_product"
	OpDeleteProduct  = "delete_product"
	OpUpdateSettings = "update_settings"
	OpAddCampaign    = "add_campaign"
	OpUpdateCampaign = "update_campaign"
	OpDeleteCampaign = "delete_campaign"
)

// AddProduct inserts an active product and reloads
func (d *DashboardStore) AddProduct(ctx context.Context, in models.NewProduct) State {
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		UnitPrice:   in.UnitPrice,
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    true,
	}

	return d.mutate(ctx, OpAddProduct, change{models.EntityProduct, models.ActionCreated, p.ID},
		func(ctx context.Context) error {
			_, err := d.gateway.InsertProduct(ctx, p)
			return err
		})
}

// UpdateProduct applies a partial product update and reloads
func (d *DashboardStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) State {
	return d.mutate(ctx, OpUpdateProduct, change{models.EntityProduct, models.ActionUpdated, id},
		func(ctx context.Context) error {
			return d.gateway.UpdateProduct(ctx, id, patch)
		})
}

// DeleteProduct soft-deletes a product and reloads
func (d *DashboardStore) DeleteProduct(ctx context.Context, id string) State {
	return d.mutate(ctx, OpDeleteProduct, change{models.EntityProduct, models.ActionDeleted, id},
		func(ctx context.Context) error {
			return d.gateway.SoftDeleteProduct(ctx, id)
		})
}

// UpdateSettings applies a partial settings update and reloads.
// It does nothing when no settings row is loaded.
func (d *DashboardStore) UpdateSettings(ctx context.Context, patch models.SettingsPatch) State {
	current := d.State()
	if current.Snapshot.Settings == nil {
		d.logger.Warn("Ignoring settings update: no settings loaded")
		return current
	}

	id := current.Snapshot.Settings.ID
	return d.mutate(ctx, OpUpdateSettings, change{models.EntitySettings, models.ActionUpdated, id},
		func(ctx context.Context) error {
			return d.gateway.UpdateSettings(ctx, id, patch)
		})
}

// AddCampaign inserts an active campaign starting today and reloads
func (d *DashboardStore) AddCampaign(ctx context.Context, in models.NewCampaign) State {
	c := models.MarketingCampaign{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Budget:          in.Budget,
		ConversionRate:  in.ConversionRate,
		StartDate:       today(d.now()),
		EndDate:         nil,
		ActualCustomers: 0,
		ActualRevenue:   0,
		IsActive:        true,
	}

	return d.mutate(ctx, OpAddCampaign, change{models.EntityCampaign, models.ActionCreated, c.ID},
		func(ctx context.Context) error {
			_, err := d.gateway.InsertCampaign(ctx, c)
			return err
		})
}

// UpdateCampaign applies a partial campaign update and reloads
func (d *DashboardStore) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) State {
	return d.mutate(ctx, OpUpdateCampaign, change{models.EntityCampaign, models.ActionUpdated, id},
		func(ctx context.Context) error {
			return d.gateway.UpdateCampaign(ctx, id, patch)
		})
}

// DeleteCampaign soft-deletes a campaign and reloads
func (d *DashboardStore) DeleteCampaign(ctx context.Context, id string) State {
	return d.mutate(ctx, OpDeleteCampaign, change{models.EntityCampaign, models.ActionDeleted, id},
		func(ctx context.Context) error {
			return d.gateway.SoftDeleteCampaign(ctx, id)
		})
}

// today truncates t to midnight UTC of its calendar day
func today(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
