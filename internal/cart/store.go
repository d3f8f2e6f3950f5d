package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
)

// Store persists cart snapshots under one key per cart.
type Store interface {
	// Load returns the stored snapshot, or nil when the cart does not exist.
	Load(ctx context.Context, cartID string) ([]byte, error)
	Save(ctx context.Context, cartID string, snapshot []byte) error
	Delete(ctx context.Context, cartID string) error
	// Update replaces the snapshot with fn's result as one atomic
	// read-modify-write. fn receives nil for a missing cart and may run more
	// than once.
	Update(ctx context.Context, cartID string, fn UpdateFunc) error
}

// UpdateFunc computes the next snapshot from the current one.
type UpdateFunc func(current []byte) ([]byte, error)

const maxUpdateAttempts = 5

const keyPrefix = "cart:"

func key(cartID string) string { return keyPrefix + cartID }

// RedisStore keeps snapshots in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, cartID string) ([]byte, error) {
	val, err := s.client.Get(ctx, key(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, cartID string, snapshot []byte) error {
	return s.client.Set(ctx, key(cartID), snapshot, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, key(cartID)).Err()
}

// Update watches the cart key and retries when another writer commits first.
func (s *RedisStore) Update(ctx context.Context, cartID string, fn UpdateFunc) error {
	k := key(cartID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("%w: cart %s is being modified concurrently", apperrors.ErrConflict, cartID)
}

// MemoryStore keeps snapshots in process. Used when Redis is not configured
// and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, cartID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.carts[key(cartID)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, cartID string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(snapshot))
	copy(data, snapshot)
	s.carts[key(cartID)] = data
	return nil
}

func (s *MemoryStore) Update(_ context.Context, cartID string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current []byte
	if data, ok := s.carts[key(cartID)]; ok {
		current = make([]byte, len(data))
		copy(current, data)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	s.carts[key(cartID)] = next
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key(cartID))
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
