package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prediction-dashboard/internal/models"

	"github.com/google/uuid"
)

const campaignColumns = `id, name, budget, conversion_rate, start_date, end_date, actual_customers, actual_revenue, is_active, created_at, updated_at`

// ListActiveCampaigns returns active campaigns, newest first
func (s *Store) ListActiveCampaigns(ctx context.Context) ([]models.MarketingCampaign, error) {
	campaigns := []models.MarketingCampaign{}
	err := s.db.SelectContext(ctx, &campaigns,
		"SELECT "+campaignColumns+" FROM marketing_campaigns WHERE is_active = true ORDER BY created_at DESC")
	return campaigns, err
}

// GetCampaign retrieves a campaign by ID, active or not
func (s *Store) GetCampaign(ctx context.Context, id string) (*models.MarketingCampaign, error) {
	var campaign models.MarketingCampaign
	err := s.db.GetContext(ctx, &campaign,
		"SELECT "+campaignColumns+" FROM marketing_campaigns WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// InsertCampaign inserts a campaign, assigning an ID when it has none
func (s *Store) InsertCampaign(ctx context.Context, c models.MarketingCampaign) (*models.MarketingCampaign, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO marketing_campaigns
			(id, name, budget, conversion_rate, start_date, end_date, actual_customers, actual_revenue, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + campaignColumns

	var created models.MarketingCampaign
	err := s.db.GetContext(ctx, &created, query,
		c.ID, c.Name, c.Budget, c.ConversionRate, c.StartDate, c.EndDate,
		c.ActualCustomers, c.ActualRevenue, c.IsActive)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCampaign applies a partial update and refreshes updated_at
func (s *Store) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) error {
	var a assignments
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Budget != nil {
		a.set("budget", *patch.Budget)
	}
	if patch.ConversionRate != nil {
		a.set("conversion_rate", *patch.ConversionRate)
	}
	if patch.StartDate != nil {
		a.set("start_date", *patch.StartDate)
	}
	switch {
	case patch.ClearEndDate:
		a.setNull("end_date")
	case patch.EndDate != nil:
		a.set("end_date", *patch.EndDate)
	}
	if patch.ActualCustomers != nil {
		a.set("actual_customers", *patch.ActualCustomers)
	}
	if patch.ActualRevenue != nil {
		a.set("actual_revenue", *patch.ActualRevenue)
	}
	if patch.IsActive != nil {
		a.set("is_active", *patch.IsActive)
	}
	return s.execUpdate(ctx, "marketing_campaigns", "campaign", id, &a)
}

// SoftDeleteCampaign marks a campaign inactive
func (s *Store) SoftDeleteCampaign(ctx context.Context, id string) error {
	inactive := false
	return s.UpdateCampaign(ctx, id, models.CampaignPatch{IsActive: &inactive})
}
