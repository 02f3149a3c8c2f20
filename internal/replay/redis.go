package replay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/peterkuimelis/cardclash/internal/errors"
	redisclient "github.com/peterkuimelis/cardclash/internal/redis"
)

const (
	// Key pattern: replay:{id}
	recordKeyPrefix = "replay:"
	// Sorted set of record IDs scored by finish time.
	indexKey   = "replay:index"
	defaultTTL = 7 * 24 * time.Hour
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	// TTL bounds how long a record is kept. Zero means seven days.
	TTL time.Duration
	// Logger receives errors that do not fail the call. Nil means slog.Default().
	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgumentf("ttl must not be negative, got %s", c.TTL)
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisRepository creates a Redis-backed replay repository.
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &redisRepository{client: cfg.Client, ttl: ttl, logger: logger}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save writes the record with the configured TTL and indexes it.
func (r *redisRepository) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if rec.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal replay %s", rec.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordKeyPrefix+rec.ID, data, r.ttl)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(rec.FinishedAt.UnixMilli()), Member: rec.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to store replay %s in Redis", rec.ID)
	}
	return nil
}

// Get retrieves a record by ID.
func (r *redisRepository) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}
	data, err := r.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("replay %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get replay %s from Redis", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal replay %s", id)
	}
	return &rec, nil
}

// List walks the index newest first. Index entries whose record has
// expired are pruned on the way.
func (r *redisRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read replay index")
	}

	var out []Summary
	var stale []any
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		rec, err := r.Get(ctx, id)
		if errors.HasCode(err, errors.CodeNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Summary())
	}
	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, indexKey, stale...).Err(); err != nil {
			r.logger.Warn("failed to prune replay index", "stale", len(stale), "error", err)
		}
	}
	return out, nil
}

// Open returns a Redis-backed repository when addr is set and an in-memory
// one otherwise.
func Open(addr string, ttl time.Duration) (Repository, error) {
	if addr == "" {
		return NewMemoryRepository(), nil
	}
	client, err := redisclient.NewClient(addr, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "redis client")
	}
	return NewRedisRepository(&RedisConfig{Client: client, TTL: ttl})
}
