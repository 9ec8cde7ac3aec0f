package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartTTL is how long an idle cart survives.
const CartTTL = 2 * time.Hour

// CartStore persists the per-session shopping cart. A cart belongs to one
// caller, there is no concurrent-writer contention on a single session.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (map[uint]int, error)
	Save(ctx context.Context, sessionID string, items map[uint]int) error
	Delete(ctx context.Context, sessionID string) error
}

type redisCartStore struct {
	rdb *redis.Client
}

// NewRedisCartStore returns the production cart store.
func NewRedisCartStore(rdb *redis.Client) CartStore {
	return &redisCartStore{rdb: rdb}
}

func (s *redisCartStore) Get(ctx context.Context, sessionID string) (map[uint]int, error) {
	val, err := s.rdb.Get(ctx, "cart:"+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return map[uint]int{}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var items map[uint]int
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return items, nil
}

func (s *redisCartStore) Save(ctx context.Context, sessionID string, items map[uint]int) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.rdb.Set(ctx, "cart:"+sessionID, data, CartTTL).Err()
}

func (s *redisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "cart:"+sessionID).Err()
}

type memoryCartStore struct {
	mu    sync.Mutex
	carts map[string]map[uint]int
}

// NewMemoryCartStore backs carts with process memory. Used in tests and in
// development setups without a Redis instance.
func NewMemoryCartStore() CartStore {
	return &memoryCartStore{carts: make(map[string]map[uint]int)}
}

func (s *memoryCartStore) Get(ctx context.Context, sessionID string) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[uint]int, len(s.carts[sessionID]))
	for id, qty := range s.carts[sessionID] {
		items[id] = qty
	}
	return items, nil
}

func (s *memoryCartStore) Save(ctx context.Context, sessionID string, items map[uint]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = items
	return nil
}

func (s *memoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// CartService mutates the session cart.
type CartService struct {
	Store CartStore
}

func NewCartService(store CartStore) *CartService {
	return &CartService{Store: store}
}

func (cs *CartService) Items(ctx context.Context, sessionID string) (map[uint]int, error) {
	return cs.Store.Get(ctx, sessionID)
}

// Add increments the quantity of a dish in the cart.
func (cs *CartService) Add(ctx context.Context, sessionID string, dishID uint, quantity int) (map[uint]int, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	items, err := cs.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items[dishID] += quantity
	return items, cs.Store.Save(ctx, sessionID, items)
}

// UpdateQuantity sets the quantity of a dish. Zero or negative removes it.
func (cs *CartService) UpdateQuantity(ctx context.Context, sessionID string, dishID uint, quantity int) (map[uint]int, error) {
	items, err := cs.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		delete(items, dishID)
	} else {
		items[dishID] = quantity
	}
	return items, cs.Store.Save(ctx, sessionID, items)
}

// Remove drops a dish from the cart.
func (cs *CartService) Remove(ctx context.Context, sessionID string, dishID uint) (map[uint]int, error) {
	items, err := cs.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	delete(items, dishID)
	return items, cs.Store.Save(ctx, sessionID, items)
}

// Clear empties the cart.
func (cs *CartService) Clear(ctx context.Context, sessionID string) error {
	return cs.Store.Delete(ctx, sessionID)
}
