package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

// Options configures the Redis connection
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	addr := fmt.Sprintf("%s:%s", opts.Host, opts.Port)

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return client, nil
}

// quoteCache implements domain.QuoteCache
type quoteCache struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

// NewQuoteCache creates a new latest-quote cache for one coin/currency pair.
// A zero ttl keeps the entry until it is overwritten.
func NewQuoteCache(client *goredis.Client, coinID, vsCurrency string, ttl time.Duration) domain.QuoteCache {
	return &quoteCache{
		client: client,
		key:    fmt.Sprintf("quote:%s:%s:latest", coinID, strings.ToLower(vsCurrency)),
		ttl:    ttl,
	}
}

// SetLatest stores the quote as the latest one
func (c *quoteCache) SetLatest(ctx context.Context, quote *domain.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}

	return nil
}

// GetLatest returns the latest quote, or nil on a cache miss
func (c *quoteCache) GetLatest(ctx context.Context) (*domain.Quote, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached quote: %w", err)
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode cached quote: %w", err)
	}

	return &quote, nil
}
