package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the paper trading desk.
type Metrics struct {
	PositionsOpened prometheus.Counter
	PositionsClosed prometheus.Counter
	CapitalTopUps   prometheus.Counter
	PortfolioResets prometheus.Counter
	QuoteRefreshes  prometheus.Counter

	CapitalBase      prometheus.Gauge
	CapitalAvailable prometheus.Gauge
	CapitalAllocated prometheus.Gauge
	OpenPositions    prometheus.Gauge
	WSClients        prometheus.Gauge

	SummaryComputeDur prometheus.Histogram
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		PositionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_positions_opened_total",
			Help: "Total positions added to the portfolio",
		}),
		PositionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_positions_closed_total",
			Help: "Total positions closed",
		}),
		CapitalTopUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_capital_topups_total",
			Help: "Total capital add operations",
		}),
		PortfolioResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_portfolio_resets_total",
			Help: "Total portfolio reset operations",
		}),
		QuoteRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_quote_refreshes_total",
			Help: "Total mock quote refresh ticks",
		}),
		CapitalBase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_capital_base",
			Help: "Base capital in rupees",
		}),
		CapitalAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_capital_available",
			Help: "Available capital in rupees (can go negative)",
		}),
		CapitalAllocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_capital_allocated",
			Help: "Capital allocated to active positions in rupees",
		}),
		OpenPositions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_open_positions",
			Help: "Number of active positions",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_ws_clients",
			Help: "Connected WebSocket clients",
		}),
		SummaryComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "papertrade_summary_compute_duration_seconds",
			Help:    "Capital ledger recompute latency",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}

	prometheus.MustRegister(
		m.PositionsOpened,
		m.PositionsClosed,
		m.CapitalTopUps,
		m.PortfolioResets,
		m.QuoteRefreshes,
		m.CapitalBase,
		m.CapitalAvailable,
		m.CapitalAllocated,
		m.OpenPositions,
		m.WSClients,
		m.SummaryComputeDur,
	)

	return m
}

// HealthStatus represents the desk's dependency health.
type HealthStatus struct {
	mu sync.RWMutex

	RedisConnected bool `json:"redis_connected"`
	SQLiteOK       bool `json:"sqlite_ok"`

	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	h.SQLiteOK = v
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite runs a trivial query and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK

	if !h.RedisConnected || !h.SQLiteOK {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}
	if !h.RedisConnected && !h.SQLiteOK {
		overallStatus = "unhealthy"
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
