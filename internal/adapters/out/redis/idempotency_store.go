// Package redis keeps the fast-path idempotency cache for order submission.
// The orders table stays authoritative; entries here only save a lookup.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// KeySubmitOrder maps a client idempotency key to the order it created.
	KeySubmitOrder = "idem:order:submit:%s"

	DefaultTTL = 24 * time.Hour
)

// IdempotencyStore implements ports.IdempotencyStore on a Redis client.
type IdempotencyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore uses DefaultTTL when ttl is not positive.
func NewIdempotencyStore(client goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (kernel.UUID, bool, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf(KeySubmitOrder, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, err
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("cached order id for %q: %w", key, err)
	}
	return id, true, nil
}

// Remember keeps the first order id written for key.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, orderID kernel.UUID) error {
	return s.client.SetNX(ctx, fmt.Sprintf(KeySubmitOrder, key), orderID.String(), s.ttl).Err()
}

// NewClient builds a client and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
