package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/game-account-market/internal/config"
	"github.com/ariefcatur/game-account-market/internal/httpx"
	kafkax "github.com/ariefcatur/game-account-market/internal/kafka"
	"github.com/ariefcatur/game-account-market/internal/market"
	"github.com/ariefcatur/game-account-market/internal/postgres"
	"github.com/ariefcatur/game-account-market/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := cfg.NewLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per listing topic
	created := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicListingCreated, 1024, log)
	created.Start(ctx)
	statusChanged := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicListingStatusChanged, 1024, log)
	statusChanged.Start(ctx)

	// Service & handlers
	svc := market.NewService(store, cfg.MaxLimit)
	metrics := httpx.NewMetrics()
	limiter := httpx.NewRateLimiter(cfg.CreateRatePerSec, cfg.CreateRateBurst)
	router := httpx.NewRouter(log, metrics, svc.Ping)

	lh := &httpx.ListingsHandler{
		Service:       svc,
		Redis:         rdb,
		Created:       created,
		StatusChanged: statusChanged,
		CreateLimiter: limiter,
		Metrics:       metrics,
		Log:           log,
		ServiceName:   cfg.ServiceName,
		DefaultLimit:  cfg.DefaultLimit,
		SeedEnabled:   cfg.SeedEnabled,
	}
	lh.Register(router)
	gh := &httpx.GamesHandler{
		Games: httpx.NewFallbackGameProvider(svc, rdb, metrics, log),
		Redis: rdb,
		Log:   log,
	}
	gh.Register(router)

	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n := limiter.Prune(10 * time.Minute)
				log.WithField("clients", n).Debug("rate limiter pruned")
			}
		}
	}()

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "store": cfg.StoreDriver}).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	created.Close()
	statusChanged.Close()
	cancel()
	created.WaitClosed()
	statusChanged.WaitClosed()
}

func openStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (market.Store, func()) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return market.NewMemStore(market.ReferenceGames()...), func() {}
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.WithError(err).Fatal("db migrate")
		}
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.PoolOptions{
		MaxConns: cfg.PostgresMaxConns,
		MinConns: cfg.PostgresMinConns,
	})
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	return &market.Repo{DB: db}, db.Close
}
