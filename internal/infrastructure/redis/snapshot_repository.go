package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"beanbags/internal/config"
	"beanbags/internal/snapshot"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Client is the subset of *redis.Client the repository needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// SnapshotRepository stores each encoded snapshot as a single string value under
// keyPrefix + name. A zero ttl keeps snapshots until they are overwritten.
type SnapshotRepository struct {
	client    Client
	keyPrefix string
	ttl       time.Duration
}

func NewSnapshotRepository(client Client, keyPrefix string, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *SnapshotRepository) key(name string) string {
	return r.keyPrefix + name
}

func (r *SnapshotRepository) Save(ctx context.Context, name string, snap *snapshot.Snapshot) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	raw, err := snapshot.Encode(snap)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(name), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return snapshot.Decode(data)
}
