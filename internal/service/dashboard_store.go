package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Gateway is the persistence layer behind the dashboard
type Gateway interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	GetSettings(ctx context.Context) (*models.BusinessSettings, error)
	ListActiveCampaigns(ctx context.Context) ([]models.MarketingCampaign, error)

	GetProduct(ctx context.Context, id string) (*models.Product, error)
	InsertProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error
	SoftDeleteProduct(ctx context.Context, id string) error

	UpdateSettings(ctx context.Context, id string, patch models.SettingsPatch) error

	GetCampaign(ctx context.Context, id string) (*models.MarketingCampaign, error)
	InsertCampaign(ctx context.Context, c models.MarketingCampaign) (*models.MarketingCampaign, error)
	UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) error
	SoftDeleteCampaign(ctx context.Context, id string) error
}

// SnapshotCache keeps the last good snapshot outside the process.
// LoadSnapshot returns nil, nil on a miss.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// ChangePublisher announces successful mutations to other replicas
type ChangePublisher interface {
	PublishDashboardChanged(ctx context.Context, event *models.DashboardChangedEvent) error
}

// State is a copy of the dashboard state at one point in time
type State struct {
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Loaded   bool            `json:"loaded"`
	Snapshot models.Snapshot `json:"snapshot"`
	// WriteError is set only on the State returned by a mutation whose write
	// failed. A write that succeeded followed by a failed reload leaves it
	// empty and reports the reload failure in Error.
	WriteError string `json:"-"`
}

// Configured reports whether a settings row is loaded
func (s State) Configured() bool {
	return s.Snapshot.Settings != nil
}

// Option configures a DashboardStore
type Option func(*DashboardStore)

// WithCache enables the snapshot cache
func WithCache(cache SnapshotCache) Option {
	return func(d *DashboardStore) { d.cache = cache }
}

// WithPublisher enables change events
func WithPublisher(publisher ChangePublisher) Option {
	return func(d *DashboardStore) { d.publisher = publisher }
}

// WithInstanceID sets the origin stamped on published events
func WithInstanceID(id string) Option {
	return func(d *DashboardStore) { d.instanceID = id }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(d *DashboardStore) { d.now = now }
}

// DashboardStore owns the single in-memory snapshot. The snapshot is only
// replaced wholesale by applySnapshot; applyError only touches the message.
// Each load takes a generation number and results of a load older than the
// last applied one are dropped.
type DashboardStore struct {
	gateway    Gateway
	cache      SnapshotCache
	publisher  ChangePublisher
	instanceID string
	now        func() time.Time
	logger     *zap.Logger

	mu         sync.RWMutex
	snapshot   models.Snapshot
	loaded     bool
	loading    int
	errMsg     string
	generation uint64
	applied    uint64
}

// NewDashboardStore creates a new dashboard store
func NewDashboardStore(gateway Gateway, opts ...Option) *DashboardStore {
	d := &DashboardStore{
		gateway: gateway,
		now:     time.Now,
		logger:  util.GetLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns a copy of the current state
func (d *DashboardStore) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return State{
		Loading:  d.loading > 0,
		Error:    d.errMsg,
		Loaded:   d.loaded,
		Snapshot: d.snapshot.Clone(),
	}
}

// nextGeneration numbers a load before it starts fetching
func (d *DashboardStore) nextGeneration() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	return d.generation
}

// applySnapshot reports false when a newer load has already been applied.
// Generation 0 is the cache and only fills an empty store.
func (d *DashboardStore) applySnapshot(gen uint64, snap models.Snapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen < d.applied || (gen == 0 && d.loaded) {
		return false
	}
	d.applied = gen
	d.snapshot = snap
	d.loaded = true
	d.errMsg = ""

	util.SnapshotProducts.Set(float64(len(snap.Products)))
	util.SnapshotCampaigns.Set(float64(len(snap.Campaigns)))
	return true
}

// applyError records msg unless a newer load has already been applied.
// gen 0 always records.
func (d *DashboardStore) applyError(gen uint64, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != 0 && gen < d.applied {
		return
	}
	d.errMsg = msg
}

func (d *DashboardStore) setLoading(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loading += delta
}

// Load fetches all three collections concurrently and replaces the snapshot.
// On failure the previous snapshot is kept and only the error is recorded.
func (d *DashboardStore) Load(ctx context.Context) State {
	ctx, span := util.StartSpan(ctx, "DashboardStore.Load")
	defer span.End()

	gen := d.nextGeneration()
	d.setLoading(1)
	start := time.Now()

	snap, err := d.fetch(ctx)

	util.DashboardLoadLatency.Observe(time.Since(start).Seconds())
	d.setLoading(-1)

	if err != nil {
		util.DashboardLoadsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("Failed to load dashboard", zap.Error(err))
		d.applyError(gen, fmt.Sprintf("failed to load dashboard: %v", err))
		return d.State()
	}

	util.DashboardLoadsTotal.WithLabelValues("success").Inc()
	if !d.applySnapshot(gen, snap) {
		d.logger.Debug("Dropping result of an older load", zap.Uint64("generation", gen))
		return d.State()
	}
	d.saveToCache(ctx, snap)

	d.logger.Debug("Dashboard loaded",
		zap.Int("products", len(snap.Products)),
		zap.Int("campaigns", len(snap.Campaigns)),
		zap.Bool("configured", snap.Settings != nil))
	return d.State()
}

// Refresh reloads the snapshot on demand
func (d *DashboardStore) Refresh(ctx context.Context) State {
	return d.Load(ctx)
}

// fetch joins the three reads; the first failure cancels the others
func (d *DashboardStore) fetch(ctx context.Context) (models.Snapshot, error) {
	var (
		products  []models.Product
		settings  *models.BusinessSettings
		campaigns []models.MarketingCampaign
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = d.gateway.ListActiveProducts(gctx)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = d.gateway.GetSettings(gctx)
		if err != nil {
			return fmt.Errorf("business settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		campaigns, err = d.gateway.ListActiveCampaigns(gctx)
		if err != nil {
			return fmt.Errorf("marketing campaigns: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}

	if products == nil {
		products = []models.Product{}
	}
	if campaigns == nil {
		campaigns = []models.MarketingCampaign{}
	}

	return models.Snapshot{
		Products:  products,
		Settings:  settings,
		Campaigns: campaigns,
		LoadedAt:  d.now(),
		Source:    models.SourceDatabase,
	}, nil
}

// Warm applies a cached snapshot when nothing has been loaded yet
func (d *DashboardStore) Warm(ctx context.Context) bool {
	if d.cache == nil {
		return false
	}
	if d.State().Loaded {
		return false
	}

	snap, err := d.cache.LoadSnapshot(ctx)
	if err != nil {
		util.SnapshotCacheOpsTotal.WithLabelValues("load", "error").Inc()
		d.logger.Warn("Failed to read cached snapshot", zap.Error(err))
		return false
	}
	if snap == nil {
		util.SnapshotCacheOpsTotal.WithLabelValues("load", "miss").Inc()
		return false
	}

	util.SnapshotCacheOpsTotal.WithLabelValues("load", "hit").Inc()
	snap.Source = models.SourceCache
	if !d.applySnapshot(0, *snap) {
		return false
	}
	d.logger.Info("Dashboard warmed from cache", zap.Time("loaded_at", snap.LoadedAt))
	return true
}

func (d *DashboardStore) saveToCache(ctx context.Context, snap models.Snapshot) {
	if d.cache == nil {
		return
	}
	if err := d.cache.SaveSnapshot(ctx, snap); err != nil {
		util.SnapshotCacheOpsTotal.WithLabelValues("save", "error").Inc()
		d.logger.Warn("Failed to cache snapshot", zap.Error(err))
		return
	}
	util.SnapshotCacheOpsTotal.WithLabelValues("save", "success").Inc()
}

// change identifies what a mutation touched
type change struct {
	entity   string
	action   string
	entityID string
}

// mutate runs one gateway write. Failure records the error and keeps the
// snapshot; success is followed by a full reload and a change event.
func (d *DashboardStore) mutate(ctx context.Context, op string, c change, write func(context.Context) error) State {
	ctx, span := util.StartSpan(ctx, "DashboardStore."+op,
		attribute.String("op", op),
		attribute.String("entity", c.entity),
		attribute.String("entity_id", c.entityID))
	defer span.End()

	if err := write(ctx); err != nil {
		util.DashboardMutationsTotal.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("Dashboard mutation failed",
			zap.String("op", op),
			zap.String("entity_id", c.entityID),
			zap.Error(err))
		msg := fmt.Sprintf("failed to %s: %v", strings.ReplaceAll(op, "_", " "), err)
		d.applyError(0, msg)
		state := d.State()
		state.WriteError = msg
		return state
	}

	util.DashboardMutationsTotal.WithLabelValues(op, "success").Inc()
	d.logger.Info("Dashboard mutated", zap.String("op", op), zap.String("entity_id", c.entityID))

	state := d.Load(ctx)
	d.publish(ctx, c)
	return state
}

func (d *DashboardStore) publish(ctx context.Context, c change) {
	if d.publisher == nil {
		return
	}

	event := &models.DashboardChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDashboardChanged,
			Timestamp: d.now(),
		},
		Entity:   c.entity,
		Action:   c.action,
		EntityID: c.entityID,
		Origin:   d.instanceID,
	}

	if err := d.publisher.PublishDashboardChanged(ctx, event); err != nil {
		util.ChangeEventsTotal.WithLabelValues("published", "error").Inc()
		d.logger.Error("Failed to publish DashboardChanged event", zap.Error(err))
		return
	}
	util.ChangeEventsTotal.WithLabelValues("published", "success").Inc()
}

// HandleChange reloads after another replica changed the data
func (d *DashboardStore) HandleChange(ctx context.Context, event *models.DashboardChangedEvent) error {
	if event.Origin != "" && event.Origin == d.instanceID {
		util.ChangeEventsTotal.WithLabelValues("consumed", "skipped").Inc()
		return nil
	}

	d.logger.Info("Reloading after remote change",
		zap.String("entity", event.Entity),
		zap.String("action", event.Action),
		zap.String("entity_id", event.EntityID),
		zap.String("origin", event.Origin))

	state := d.Load(ctx)
	if state.Error != "" {
		util.ChangeEventsTotal.WithLabelValues("consumed", "error").Inc()
		return fmt.Errorf("reload after change: %s", state.Error)
	}
	util.ChangeEventsTotal.WithLabelValues("consumed", "success").Inc()
	return nil
}
