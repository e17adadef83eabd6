package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI      string
	Database string

	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// DefaultMongoConfig returns sensible defaults for the MongoDB connection pool.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "vendorconex",
		MaxPoolSize:    100,
		MinPoolSize:    5,
		ConnectTimeout: 10 * time.Second,
	}
}

const (
	defaultRetryAttempts = 3
	defaultRetryBaseWait = 1 * time.Second
	retryJitterFraction  = 0.25
)

// retryBackoff returns the backoff duration for the given attempt (0-indexed)
// with ±25% jitter. Base delays: 1s, 2s, 4s.
func retryBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := defaultRetryBaseWait << attempt                                               // 1s, 2s, 4s
	jitter := time.Duration(float64(base) * retryJitterFraction * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
	return base + jitter
}

// NewMongoClient connects to MongoDB with startup retry logic (3 attempts,
// 1s/2s/4s exponential backoff with ±25% jitter) and verifies the connection
// with a primary ping.
func NewMongoClient(ctx context.Context, cfg MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	var lastErr error
	for attempt := 0; attempt < defaultRetryAttempts; attempt++ {
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			lastErr = err
			if !waitForRetry(ctx, attempt, "mongo connection failed, retrying", err, logger) {
				return nil, fmt.Errorf("connect to mongo: context canceled during retry: %w", ctx.Err())
			}
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err != nil {
			_ = client.Disconnect(ctx)
			lastErr = err
			if !waitForRetry(ctx, attempt, "mongo ping failed, retrying", err, logger) {
				return nil, fmt.Errorf("ping mongo: context canceled during retry: %w", ctx.Err())
			}
			continue
		}

		return client, nil
	}

	return nil, fmt.Errorf("connect to mongo after %d attempts: %w", defaultRetryAttempts, lastErr)
}

// waitForRetry sleeps for the attempt's backoff. It returns false when the
// context is canceled or the attempt budget is spent.
func waitForRetry(ctx context.Context, attempt int, msg string, cause error, logger *slog.Logger) bool {
	if attempt >= defaultRetryAttempts-1 {
		return true
	}
	wait := retryBackoff(attempt)
	if logger != nil {
		logger.Warn(msg,
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", defaultRetryAttempts),
			slog.Duration("backoff", wait),
			slog.String("error", cause.Error()),
		)
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(wait):
		return true
	}
}
