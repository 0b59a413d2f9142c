// Package redis stores slots as plain string keys in a Redis database.
package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
)

const (
	// PasswordEnvVar supplies the password when the URL carries none
	PasswordEnvVar = "HABITUAL_REDIS_PASSWORD"

	opTimeout = 5 * time.Second
)

var (
	slotPrefix = constants.AppName + ":slot:"
	markerKey  = constants.AppName + ":meta:initialized"
)

type Store struct {
	url string
	rdb *redis.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

// slotKey maps a slot name to its Redis key.
func slotKey(key string) string {
	return slotPrefix + key
}

func (s *Store) options() (*redis.Options, error) {
	opts, err := redis.ParseURL(s.url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.Password == "" {
		opts.Password = os.Getenv(PasswordEnvVar)
	}
	return opts, nil
}

func (s *Store) connect() error {
	if s.rdb != nil {
		return nil
	}
	opts, err := s.options()
	if err != nil {
		return err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.rdb = rdb
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.rdb.Set(ctx, markerKey, time.Now().UTC().Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("failed to initialize redis storage: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	n, err := s.rdb.Exists(ctx, markerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to inspect redis storage: %w", err)
	}
	if n == 0 {
		return storage.ErrNotInitialized
	}
	return nil
}

func (s *Store) Close() error {
	if s.rdb != nil {
		err := s.rdb.Close()
		s.rdb = nil
		return err
	}
	return nil
}

func (s *Store) GetSlot(key string) ([]byte, error) {
	if s.rdb == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.rdb.Get(ctx, slotKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) PutSlot(key string, value []byte) error {
	if s.rdb == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, slotKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteSlot(key string) error {
	if s.rdb == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, slotKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) ListSlots() ([]string, error) {
	if s.rdb == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var keys []string
	iter := s.rdb.Scan(ctx, 0, slotPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), slotPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	opts, err := s.options()
	if err != nil {
		return "redis"
	}
	return fmt.Sprintf("redis://%s/%d", opts.Addr, opts.DB)
}
