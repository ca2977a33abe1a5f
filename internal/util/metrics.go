package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DashboardLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_loads_total",
		Help: "Total number of snapshot loads",
	}, []string{"result"})

	DashboardLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_load_latency_seconds",
		Help:    "Latency of a full three-table snapshot load",
		Buckets: prometheus.DefBuckets,
	})

	DashboardMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_mutations_total",
		Help: "Total number of dashboard mutations",
	}, []string{"op", "result"})

	SnapshotCacheOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_snapshot_cache_ops_total",
		Help: "Snapshot cache reads and writes",
	}, []string{"op", "result"})

	ChangeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_change_events_total",
		Help: "Change events published and consumed",
	}, []string{"direction", "result"})

	SnapshotProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_snapshot_products",
		Help: "Active products in the current snapshot",
	})

	SnapshotCampaigns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_snapshot_campaigns",
		Help: "Active campaigns in the current snapshot",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
