package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/gateway"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/notify"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/listings"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/Domenick1991/travelbooking/internal/service/reviews"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Config{}).Fatalf("load config: %v", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "travelbooking-api"})

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

	listingRepo := repository.NewListingRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	chapa := gateway.NewChapaClient(cfg.Gateway.BaseURL, cfg.Gateway.SecretKey, cfg.Gateway.Timeout())

	services := bootstrap.Services{
		Listings: listings.NewListingService(listingRepo, redisCache, log),
		Bookings: booking.NewBookingService(bookingRepo, listingRepo, dispatcher, log),
		Payments: payment.NewPaymentService(
			paymentRepo,
			bookingRepo,
			listingRepo,
			chapa,
			dispatcher,
			log,
			payment.WithLocker(redisCache, time.Duration(cfg.Booking.PaymentLockSeconds)*time.Second),
			payment.WithCurrency(cfg.Gateway.Currency),
			payment.WithURLs(cfg.Gateway.CallbackURL, cfg.Gateway.ReturnURL),
		),
		Reviews: reviews.NewReviewService(reviewRepo, listingRepo, log),
	}

	checks := map[string]bootstrap.Check{
		"postgres": pool.Ping,
		"redis":    redisCache.Ping,
		"kafka": func(ctx context.Context) error {
			return producer.CheckConnection(ctx, cfg.Kafka.NotificationsTopic)
		},
	}

	handler := bootstrap.NewRouter(cfg, services, api.NewAuthenticator(cfg.Auth.JWTSecret), log, checks)
	if err := bootstrap.Run(ctx, cfg, handler, dispatcher, log); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
