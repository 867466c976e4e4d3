// Package redisstore persists keygram polling cursors in Redis, so a
// restarted bot resumes after the last routed update.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maxigo-bot/keygram"
)

// DefaultPrefix namespaces cursor keys.
const DefaultPrefix = "keygram:cursor:"

// Option configures a Store.
type Option func(*Store)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires cursors that are not saved again within ttl. Zero keeps
// them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// Store is a keygram.CursorStore backed by Redis.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ keygram.CursorStore = (*Store)(nil)

// New wraps a connected client.
func New(client redis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the Redis server at url ("redis://host:port/db") and
// checks the connection.
func Dial(ctx context.Context, url string, opts ...Option) (*Store, *redis.Client, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("redisstore: parse url: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redisstore: ping: %w", err)
	}
	return New(client, opts...), client, nil
}

// Key returns the Redis key holding the cursor of botID.
func (s *Store) Key(botID int64) string {
	return s.prefix + strconv.FormatInt(botID, 10)
}

// Load returns the saved cursor, or zero when none exists.
func (s *Store) Load(ctx context.Context, botID int64) (int64, error) {
	cursor, err := s.client.Get(ctx, s.Key(botID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redisstore: load cursor: %w", err)
	}
	return cursor, nil
}

// Save records cursor for botID.
func (s *Store) Save(ctx context.Context, botID, cursor int64) error {
	if err := s.client.Set(ctx, s.Key(botID), cursor, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: save cursor: %w", err)
	}
	return nil
}
