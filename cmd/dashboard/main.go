// Command dashboard runs the paper trading desk server: REST + WebSocket
// gateway on the listen address, metrics and health on the metrics address.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"papertradev1/config"
	"papertradev1/internal/bus"
	"papertradev1/internal/catalog"
	"papertradev1/internal/desk"
	"papertradev1/internal/feed"
	"papertradev1/internal/gateway"
	"papertradev1/internal/logger"
	"papertradev1/internal/metrics"
	"papertradev1/internal/model"
	"papertradev1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()
	slogger := logger.Init("dashboard", logger.ParseLevel(cfg.LogLevel))
	slogger.Info("starting", "listen", cfg.ListenAddr, "metrics", cfg.MetricsAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("[dashboard] redis connection failed: %v", err)
	}
	log.Printf("[dashboard] redis connected at %s", cfg.RedisAddr)

	// SQLite document store
	store, err := sqlite.New(sqlite.StoreConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		log.Fatalf("[dashboard] store open failed: %v", err)
	}
	defer store.Close()

	m := metrics.NewMetrics()

	// Catalog, mock price feed, event bus, desk service
	cat := catalog.New()
	events := bus.NewRedis(rdb)

	priceFeed := feed.New(cat.Symbols(), cat.BasePrice)
	priceFeed.SetInterval(cfg.FeedInterval)
	priceFeed.OnQuote = func(q model.Quote) {
		m.QuoteRefreshes.Inc()
		if err := events.PublishQuote(ctx, q); err != nil {
			log.Printf("[dashboard] quote publish failed: %v", err)
		}
	}
	go priceFeed.Run(ctx)

	svc := desk.New(store, events, cat, priceFeed, cfg.BaseCapital, m)

	// WebSocket hub fans PubSub back out to dashboards
	hub := gateway.NewHub(rdb, m)
	go hub.Run(ctx)

	// Metrics and health server
	health := metrics.NewHealthStatus()
	health.SetRedisConnected(true)
	health.SetSQLiteOK(true)
	health.StartLivenessChecker(ctx, rdb, store.DB(), 10*time.Second)
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// API server
	mux := http.NewServeMux()
	gateway.RegisterRoutes(mux, hub, svc, health)
	apiSrv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		log.Printf("[dashboard] api listening on %s", cfg.ListenAddr)
		if err := apiSrv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[dashboard] api server error: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("[dashboard] shutting down...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	apiSrv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)

	slog.Info("stopped")
}
