package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/projection"
	"prediction-dashboard/internal/service"
	"prediction-dashboard/internal/store"
	"prediction-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// IdempotencyStore remembers keys of POST requests already served
type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// Options tunes request handling
type Options struct {
	CurrencySymbol  string
	FallbackUSDRate float64
	IdempotencyTTL  time.Duration
	RequestTimeout  time.Duration
}

// Pinger is a backing service reported by /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Handler contains HTTP handlers
type Handler struct {
	dashboard   *service.DashboardStore
	idempotency IdempotencyStore
	opts        Options
	present     presenter
	deps        map[string]Pinger
}

// NewHandler creates a new HTTP handler. idempotency may be nil.
func NewHandler(dashboard *service.DashboardStore, idempotency IdempotencyStore, opts Options) *Handler {
	return &Handler{
		dashboard:   dashboard,
		idempotency: idempotency,
		opts:        opts,
		present:     presenter{symbol: opts.CurrencySymbol},
		deps:        map[string]Pinger{},
	}
}

// AddDependency reports name on /ready. A failing dependency degrades
// readiness but does not fail it while a snapshot is being served.
func (h *Handler) AddDependency(name string, p Pinger) {
	h.deps[name] = p
}

// DashboardResponse is the state plus everything derived from it
type DashboardResponse struct {
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Loaded     bool              `json:"loaded"`
	Configured bool              `json:"configured"`
	Snapshot   models.Snapshot   `json:"snapshot"`
	Report     projection.Report `json:"report"`
	Display    Display           `json:"display"`
}

// ProjectionsResponse is the report without the raw snapshot
type ProjectionsResponse struct {
	Configured bool              `json:"configured"`
	Report     projection.Report `json:"report"`
	Display    Display           `json:"display"`
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(timeoutMiddleware(h.opts.RequestTimeout))
	{
		v1.GET("/dashboard", h.getDashboard)
		v1.POST("/dashboard/refresh", h.refreshDashboard)
		v1.GET("/projections", h.getProjections)
		v1.GET("/currency/convert", h.convertCurrency)

		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products", h.addProduct)
		v1.PATCH("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.PATCH("/settings", h.updateSettings)

		v1.GET("/campaigns/:id", h.getCampaign)
		v1.POST("/campaigns", h.addCampaign)
		v1.PATCH("/campaigns/:id", h.updateCampaign)
		v1.DELETE("/campaigns/:id", h.deleteCampaign)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once any snapshot is available, cached or not
func (h *Handler) readinessCheck(c *gin.Context) {
	deps, healthy := h.pingDependencies(c.Request.Context())

	state := h.dashboard.State()
	if !state.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not ready",
			"error":        state.Error,
			"dependencies": deps,
			"time":         time.Now().Unix(),
		})
		return
	}

	status := "ready"
	if !healthy || state.Error != "" {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"source":       state.Snapshot.Source,
		"error":        state.Error,
		"dependencies": deps,
		"time":         time.Now().Unix(),
	})
}

func (h *Handler) pingDependencies(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy := true
	out := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			healthy = false
			out[name] = err.Error()
			continue
		}
		out[name] = "ok"
	}
	return out, healthy
}

func (h *Handler) respond(state service.State) DashboardResponse {
	snap := projection.Sanitize(state.Snapshot)
	report := projection.Compute(snap)
	return DashboardResponse{
		Loading:    state.Loading,
		Error:      state.Error,
		Loaded:     state.Loaded,
		Configured: state.Configured(),
		Snapshot:   snap,
		Report:     report,
		Display:    h.present.render(report),
	}
}

// notLoaded answers 503 when there is nothing to show yet
func notLoaded(c *gin.Context, state service.State) bool {
	if state.Loaded {
		return false
	}
	msg := state.Error
	if msg == "" {
		msg = "dashboard is loading"
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
	return true
}

// getDashboard returns stale data with the error once anything has loaded
func (h *Handler) getDashboard(c *gin.Context) {
	state := h.dashboard.State()
	if notLoaded(c, state) {
		return
	}
	c.JSON(http.StatusOK, h.respond(state))
}

func (h *Handler) refreshDashboard(c *gin.Context) {
	h.writeState(c, h.dashboard.Refresh(c.Request.Context()))
}

func (h *Handler) getProjections(c *gin.Context) {
	state := h.dashboard.State()
	if notLoaded(c, state) {
		return
	}

	report := projection.Compute(state.Snapshot)
	c.JSON(http.StatusOK, ProjectionsResponse{
		Configured: report.Configured,
		Report:     report,
		Display:    h.present.render(report),
	})
}

// convertCurrency converts a local amount at the loaded rate, or the
// fallback rate when no settings row exists
func (h *Handler) convertCurrency(c *gin.Context) {
	amount := toFloat(c.Query("amount"))

	state := h.dashboard.State()
	rate := h.opts.FallbackUSDRate
	if state.Configured() {
		rate = projection.Finite(state.Snapshot.Settings.USDToLocalRate)
	}

	value := projection.Finite(projection.USDValue(amount, rate))
	reference := projection.Currency(rate)
	c.JSON(http.StatusOK, gin.H{
		"amount":     amount,
		"usd":        value,
		"configured": state.Configured(),
		"reference":  reference,
		"display": gin.H{
			"amount":    h.present.money(amount),
			"usd":       usd(value),
			"reference": h.present.currency(reference),
		},
	})
}

// getProduct returns one stored product, including soft-deleted ones
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.dashboard.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		lookupFailed(c, "Product", err)
		return
	}
	snap := projection.Sanitize(models.Snapshot{Products: []models.Product{*product}})
	c.JSON(http.StatusOK, snap.Products[0])
}

// getCampaign returns one stored campaign, including soft-deleted ones
func (h *Handler) getCampaign(c *gin.Context) {
	campaign, err := h.dashboard.Campaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		lookupFailed(c, "Campaign", err)
		return
	}
	snap := projection.Sanitize(models.Snapshot{Campaigns: []models.MarketingCampaign{*campaign}})
	c.JSON(http.StatusOK, snap.Campaigns[0])
}

func lookupFailed(c *gin.Context, entity string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   entity + " not found",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   "Failed to load " + strings.ToLower(entity),
		"details": err.Error(),
	})
}

func (h *Handler) addProduct(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}

	h.idempotent(c, "products", func(ctx context.Context) service.State {
		return h.dashboard.AddProduct(ctx, newProduct(body))
	})
}

func (h *Handler) updateProduct(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}
	h.writeMutation(c, h.dashboard.UpdateProduct(c.Request.Context(), c.Param("id"), productPatch(body)))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	h.writeMutation(c, h.dashboard.DeleteProduct(c.Request.Context(), c.Param("id")))
}

func (h *Handler) updateSettings(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}

	if !h.dashboard.State().Configured() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Business settings are not configured",
		})
		return
	}

	h.writeMutation(c, h.dashboard.UpdateSettings(c.Request.Context(), settingsPatch(body, h.opts.FallbackUSDRate)))
}

func (h *Handler) addCampaign(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}

	h.idempotent(c, "campaigns", func(ctx context.Context) service.State {
		return h.dashboard.AddCampaign(ctx, newCampaign(body))
	})
}

func (h *Handler) updateCampaign(c *gin.Context) {
	body, ok := bindFields(c)
	if !ok {
		return
	}

	patch, err := campaignPatch(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	h.writeMutation(c, h.dashboard.UpdateCampaign(c.Request.Context(), c.Param("id"), patch))
}

func (h *Handler) deleteCampaign(c *gin.Context) {
	h.writeMutation(c, h.dashboard.DeleteCampaign(c.Request.Context(), c.Param("id")))
}

// writeState answers 502 when the reload left an error behind
func (h *Handler) writeState(c *gin.Context, state service.State) {
	status := http.StatusOK
	if state.Error != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, h.respond(state))
}

// writeMutation answers 502 only when the write itself failed. A write that
// landed but whose reload failed is a 200 carrying the reload error.
func (h *Handler) writeMutation(c *gin.Context, state service.State) {
	status := http.StatusOK
	if state.WriteError != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, h.respond(state))
}

// idempotent runs an insert at most once per Idempotency-Key. A repeated key
// returns the current dashboard; a failed write releases the key, a failed
// reload after a successful write does not.
func (h *Handler) idempotent(c *gin.Context, scope string, insert func(context.Context) service.State) {
	ctx := c.Request.Context()
	key := c.GetHeader("Idempotency-Key")
	if key == "" || h.idempotency == nil {
		h.writeMutation(c, insert(ctx))
		return
	}

	logger := util.GetLogger()
	scoped := scope + ":" + key

	claimed, err := h.idempotency.ClaimIdempotencyKey(ctx, scoped, h.opts.IdempotencyTTL)
	if err != nil {
		logger.Warn("Idempotency check failed, proceeding", zap.String("key", scoped), zap.Error(err))
		h.writeMutation(c, insert(ctx))
		return
	}
	if !claimed {
		logger.Info("Duplicate request ignored", zap.String("key", scoped))
		c.Header("Idempotent-Replayed", "true")
		c.JSON(http.StatusOK, h.respond(h.dashboard.State()))
		return
	}

	state := insert(ctx)
	if state.WriteError != "" {
		if err := h.idempotency.ReleaseIdempotencyKey(ctx, scoped); err != nil {
			logger.Warn("Failed to release idempotency key", zap.String("key", scoped), zap.Error(err))
		}
	}
	h.writeMutation(c, state)
}

func bindFields(c *gin.Context) (fields, bool) {
	var body fields
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return nil, false
	}
	if body == nil {
		body = fields{}
	}
	return body, true
}

// timeoutMiddleware bounds the request context
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestLogger writes one structured line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		util.GetLogger().Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
