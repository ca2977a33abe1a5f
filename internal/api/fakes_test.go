package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/store"
)

var errUnavailable = errors.New("database unavailable")

// fakeGateway is an in-memory Gateway
type fakeGateway struct {
	mu        sync.Mutex
	products  map[string]models.Product
	settings  *models.BusinessSettings
	campaigns map[string]models.MarketingCampaign
	failReads bool
	failWrite bool
	inserts   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Apron", Category: "Apparel", UnitPrice: 200, Quantity: 3, IsActive: true},
			"p2": {ID: "p2", Name: "Mug", Category: "Kitchen", UnitPrice: 50, Quantity: 2, IsActive: true},
		},
		settings: &models.BusinessSettings{ID: "s1", VATRate: 5, ShippingCost: 100, DiscountRate: 10, OverheadCost: 50, USDToLocalRate: 3.6725},
		campaigns: map[string]models.MarketingCampaign{
			"c1": {ID: "c1", Name: "Launch", Budget: 100, ConversionRate: 2.5, IsActive: true},
		},
	}
}

func (g *fakeGateway) ListActiveProducts(context.Context) ([]models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReads {
		return nil, errUnavailable
	}
	out := []models.Product{}
	for _, p := range g.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (g *fakeGateway) GetSettings(context.Context) (*models.BusinessSettings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReads {
		return nil, errUnavailable
	}
	if g.settings == nil {
		return nil, nil
	}
	s := *g.settings
	return &s, nil
}

func (g *fakeGateway) ListActiveCampaigns(context.Context) ([]models.MarketingCampaign, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReads {
		return nil, errUnavailable
	}
	out := []models.MarketingCampaign{}
	for _, c := range g.campaigns {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *fakeGateway) GetProduct(_ context.Context, id string) (*models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReads {
		return nil, errUnavailable
	}
	p, ok := g.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (g *fakeGateway) GetCampaign(_ context.Context, id string) (*models.MarketingCampaign, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failReads {
		return nil, errUnavailable
	}
	c, ok := g.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %s: %w", id, store.ErrNotFound)
	}
	return &c, nil
}

func (g *fakeGateway) InsertProduct(_ context.Context, p models.Product) (*models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return nil, errUnavailable
	}
	g.inserts++
	g.products[p.ID] = p
	return &p, nil
}

func (g *fakeGateway) UpdateProduct(_ context.Context, id string, patch models.ProductPatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return errUnavailable
	}
	p := g.products[id]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.UnitPrice != nil {
		p.UnitPrice = *patch.UnitPrice
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	g.products[id] = p
	return nil
}

func (g *fakeGateway) SoftDeleteProduct(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return errUnavailable
	}
	p := g.products[id]
	p.IsActive = false
	g.products[id] = p
	return nil
}

func (g *fakeGateway) UpdateSettings(_ context.Context, _ string, patch models.SettingsPatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return errUnavailable
	}
	if patch.VATRate != nil {
		g.settings.VATRate = *patch.VATRate
	}
	if patch.USDToLocalRate != nil {
		g.settings.USDToLocalRate = *patch.USDToLocalRate
	}
	return nil
}

func (g *fakeGateway) InsertCampaign(_ context.Context, c models.MarketingCampaign) (*models.MarketingCampaign, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return nil, errUnavailable
	}
	g.inserts++
	g.campaigns[c.ID] = c
	return &c, nil
}

func (g *fakeGateway) UpdateCampaign(_ context.Context, id string, patch models.CampaignPatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return errUnavailable
	}
	c := g.campaigns[id]
	if patch.Budget != nil {
		c.Budget = *patch.Budget
	}
	if patch.ClearEndDate {
		c.EndDate = nil
	}
	if patch.EndDate != nil {
		c.EndDate = patch.EndDate
	}
	g.campaigns[id] = c
	return nil
}

func (g *fakeGateway) SoftDeleteCampaign(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrite {
		return errUnavailable
	}
	c := g.campaigns[id]
	c.IsActive = false
	g.campaigns[id] = c
	return nil
}

// memoryKeys is an in-memory IdempotencyStore
type memoryKeys struct {
	mu       sync.Mutex
	keys     map[string]bool
	claimErr error
}

func (m *memoryKeys) ClaimIdempotencyKey(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return false, m.claimErr
	}
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryKeys) ReleaseIdempotencyKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// memoryCache is an in-memory SnapshotCache
type memoryCache struct {
	mu   sync.Mutex
	snap *models.Snapshot
}

func (c *memoryCache) SaveSnapshot(_ context.Context, snap models.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := snap.Clone()
	c.snap = &clone
	return nil
}

func (c *memoryCache) LoadSnapshot(context.Context) (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, nil
	}
	clone := c.snap.Clone()
	return &clone, nil
}

// staticPinger answers Ping with a fixed error
type staticPinger struct{ err error }

func (p staticPinger) Ping(context.Context) error { return p.err }
