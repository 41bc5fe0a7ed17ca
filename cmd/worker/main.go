package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/db"
	"github.com/skillswap/skillswap/internal/events"
	"github.com/skillswap/skillswap/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

// The archiver drains the domain-event queue into the domain_events relation.
// Producers already committed the state the events describe; this is an audit
// trail, not a second source of truth.
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

	repo := events.NewRepo(gdb)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("archiver started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var ev events.DomainEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil || ev.ID == "" {
					logger.Warnf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				err := repo.Archive(ctx, &ev)
				switch {
				case err == nil:
					_ = d.Ack(false)
				case errors.Is(err, events.ErrDuplicate):
					// redelivery of an archived event
					_ = d.Ack(false)
				default:
					logger.Warnf("worker=%d archive %s failed: %v", workerID, ev.ID, err)
					_ = d.Nack(false, false)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("archiver shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
