package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/db"
	"github.com/skillswap/skillswap/internal/exchange"
	"github.com/skillswap/skillswap/internal/httpapi"
	"github.com/skillswap/skillswap/internal/live"
	"github.com/skillswap/skillswap/internal/store/rabbitmq"
	"github.com/skillswap/skillswap/internal/store/redisstore"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg)

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Fatalf("database connect: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatalf("database migrate: %v", err)
	}
	logger.Info("database ready")

	presence := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := presence.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unreachable, presence disabled")
			presence = nil
		}
		cancel()
	}

	var publisher exchange.EventPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		logger.WithError(err).Warn("rabbitmq unreachable, domain events disabled")
	} else {
		publisher = pub
		defer pub.Close()
	}

	hub := live.NewHub(logger)
	defer hub.Close()

	router := httpapi.NewRouter(gdb, cfg, logger, hub, presence, publisher)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	logger.Info("server exited")
}
