package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ariefcatur/game-account-market/internal/activity"
	"github.com/ariefcatur/game-account-market/internal/config"
	kafkax "github.com/ariefcatur/game-account-market/internal/kafka"
	"github.com/ariefcatur/game-account-market/internal/market"
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

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &activity.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-activity",
		Log:         log,
	}

	// One consumer per listing topic, same group and handler.
	var wg sync.WaitGroup
	for _, topic := range []string{market.TopicListingCreated, market.TopicListingStatusChanged} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ActivityGroup, topic, cfg.ActivityWorkers, log)
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			log.WithFields(logrus.Fields{
				"group":   cfg.ActivityGroup,
				"topic":   topic,
				"workers": cfg.ActivityWorkers,
			}).Info("activity consumer started")
			if err := cons.Start(ctx, svc.HandleListingEvent); err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("topic", topic).Error("consumer exit")
				cancel()
			}
		}(topic)
	}

	// graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			log.Info("shutting down consumers...")
		case <-ctx.Done():
		}
		cancel()
	}()
	wg.Wait()
}
