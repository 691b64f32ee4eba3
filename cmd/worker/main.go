package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/email"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const dedupTTL = 72 * time.Hour

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Config{}).Fatalf("load config: %v", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "travelbooking-worker"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ListingsCacheTTL)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()

	dispatcher := notify.NewDispatcher(
		producer,
		cfg.Kafka.NotificationsTopic,
		log,
		notify.WithQueueSize(cfg.Notify.QueueSize),
		notify.WithMaxAttempts(cfg.Notify.MaxAttempts),
		notify.WithRetryDelay(cfg.Notify.RetryDelay()),
	)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		_ = dispatcher.Run(context.WithoutCancel(ctx))
	}()

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewListingRepository(pool),
		dispatcher,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	handler := notify.NewHandler(
		email.NewSender(log),
		log,
		notify.WithDeduper(redisCache, dedupTTL),
		notify.WithHandlerRetry(cfg.Notify.MaxAttempts, cfg.Notify.RetryDelay()),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := consumer.Consume(gctx, func(ctx context.Context, msg kafkaGo.Message) error {
			return handler.Handle(ctx, msg.Value)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sweep(gctx, bookingService, log)
			case <-gctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Errorf("worker stopped: %v", err)
	}

	dispatcher.Close()
	<-dispatcherDone
	log.Info("worker shut down")
}

// sweep completes stays that ended and reminds guests checking in tomorrow.
func sweep(ctx context.Context, bookings booking.BookingUseCase, log *logrus.Entry) {
	now := time.Now()

	completed, err := bookings.CompleteFinishedStays(ctx, now)
	if err != nil {
		log.Errorf("complete finished stays: %v", err)
	} else if len(completed) > 0 {
		log.WithField("count", len(completed)).Info("bookings completed")
	}

	reminded, err := bookings.SendCheckInReminders(ctx, now)
	if err != nil {
		log.Errorf("send check-in reminders: %v", err)
	} else if reminded > 0 {
		log.WithField("count", reminded).Info("check-in reminders enqueued")
	}
}
