package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	listingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listingsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listingsTTL: listingsTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetListing returns nil, nil on a cache miss.
func (c *RedisCache) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *RedisCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.ID), payload, c.listingsTTL).Err()
}

func (c *RedisCache) InvalidateListing(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}

func (c *RedisCache) AcquirePaymentLock(ctx context.Context, bookingID uuid.UUID, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, paymentLockKey(bookingID), "locked", ttl).Result()
}

func (c *RedisCache) ReleasePaymentLock(ctx context.Context, bookingID uuid.UUID) error {
	return c.client.Del(ctx, paymentLockKey(bookingID)).Err()
}

// MarkNotificationSent records eventID as handled. It returns false when the
// event was already marked, so redelivered messages can be skipped.
func (c *RedisCache) MarkNotificationSent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, notificationKey(eventID), "sent", ttl).Result()
}

// UnmarkNotification clears the marker after a failed delivery so a retry is
// not skipped.
func (c *RedisCache) UnmarkNotification(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, notificationKey(eventID)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func listingKey(id uuid.UUID) string {
	return fmt.Sprintf("cache:listing:%s", id)
}

func paymentLockKey(bookingID uuid.UUID) string {
	return fmt.Sprintf("lock:payment:booking:%s", bookingID)
}

func notificationKey(eventID string) string {
	return fmt.Sprintf("notify:sent:%s", eventID)
}
