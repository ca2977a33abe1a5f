package service

import (
	"context"

	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Product reads one product from the gateway, including inactive ones.
// It bypasses the snapshot so callers see the row as stored.
func (d *DashboardStore) Product(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "DashboardStore.Product", attribute.String("entity_id", id))
	defer span.End()

	p, err := d.gateway.GetProduct(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return p, nil
}

// Campaign reads one campaign from the gateway, including inactive ones
func (d *DashboardStore) Campaign(ctx context.Context, id string) (*models.MarketingCampaign, error) {
	ctx, span := util.StartSpan(ctx, "DashboardStore.Campaign", attribute.String("entity_id", id))
	defer span.End()

	c, err := d.gateway.GetCampaign(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return c, nil
}
