package service

import (
	"context"
	"sync"

	"prediction-dashboard/internal/models"

	"github.com/stretchr/testify/mock"
)

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Product)
	return items, args.Error(1)
}

func (m *GatewayMock) GetSettings(ctx context.Context) (*models.BusinessSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.BusinessSettings)
	return s, args.Error(1)
}

func (m *GatewayMock) ListActiveCampaigns(ctx context.Context) ([]models.MarketingCampaign, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MarketingCampaign)
	return items, args.Error(1)
}

func (m *GatewayMock) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *GatewayMock) GetCampaign(ctx context.Context, id string) (*models.MarketingCampaign, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.MarketingCampaign)
	return c, args.Error(1)
}

func (m *GatewayMock) InsertProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(*models.Product)
	return created, args.Error(1)
}

func (m *GatewayMock) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *GatewayMock) SoftDeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *GatewayMock) UpdateSettings(ctx context.Context, id string, patch models.SettingsPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *GatewayMock) InsertCampaign(ctx context.Context, c models.MarketingCampaign) (*models.MarketingCampaign, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(*models.MarketingCampaign)
	return created, args.Error(1)
}

func (m *GatewayMock) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *GatewayMock) SoftDeleteCampaign(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryCache is an in-process SnapshotCache
type memoryCache struct {
	mu      sync.Mutex
	snap    *models.Snapshot
	saves   int
	saveErr error
}

func (c *memoryCache) SaveSnapshot(_ context.Context, snap models.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	clone := snap.Clone()
	c.snap = &clone
	c.saves++
	return nil
}

func (c *memoryCache) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, nil
	}
	clone := c.snap.Clone()
	return &clone, nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.DashboardChangedEvent
	err    error
}

func (p *recordingPublisher) PublishDashboardChanged(_ context.Context, event *models.DashboardChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
