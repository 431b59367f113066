package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

const (
	defaultPrefix = "hivelab:state:"
	// maxSaveAttempts bounds optimistic retries when a concurrent writer
	// touches the same snapshot between WATCH and EXEC.
	maxSaveAttempts = 5
)

// Store implements state.Store using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration for snapshots.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for snapshots.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Snapshots live under prefix+"tool:"+id so no tool id can collide with
// the index key.
func (s *Store) key(toolID string) string {
	return s.prefix + "tool:" + toolID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save stamps snap past the stored version and persists it. The read of
// the previous version and the write happen in one WATCH transaction.
func (s *Store) Save(ctx context.Context, toolID string, snap *state.Snapshot) error {
	key := s.key(toolID)

	txf := func(tx *backend.Tx) error {
		prev, err := s.get(ctx, tx, key)
		if err != nil && !errors.Is(err, state.ErrSnapshotNotFound) {
			return err
		}

		data, err := json.Marshal(state.Stamp(prev, snap, s.now()))
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}

		score := float64(s.now().Add(s.ttl).Unix())
		if s.ttl == 0 {
			score = 4102444800 // 2100-01-01
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: toolID})
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return fmt.Errorf("failed to save to redis: %w", backend.TxFailedErr)
}

// Load retrieves the snapshot from Redis.
func (s *Store) Load(ctx context.Context, toolID string) (*state.Snapshot, error) {
	return s.get(ctx, s.client, s.key(toolID))
}

// getter is the read side shared by *backend.Client and *backend.Tx.
type getter interface {
	Get(ctx context.Context, key string) *backend.StringCmd
}

func (s *Store) get(ctx context.Context, cmd getter, key string) (*state.Snapshot, error) {
	val, err := cmd.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, state.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	snap, err := state.DecodeSnapshot(val, key)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, toolID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(toolID))
	pipe.ZRem(ctx, s.indexKey(), toolID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored tool ids, pruning index entries whose TTL elapsed.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(s.now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired snapshots: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ state.Store = (*Store)(nil)
