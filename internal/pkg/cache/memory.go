package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MemoryClient é uma implementação em memória de Client para o modo de filial única
// (DB_DRIVER=sqlite sem REDIS_ADDR). Não é compartilhada entre processos.
type MemoryClient struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time // zero = sem expiração
}

// NewMemoryClient cria um cliente em memória vazio.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{items: make(map[string]memoryItem), now: time.Now}
}

// WithClock substitui o relógio (testes de expiração).
func (c *MemoryClient) WithClock(now func() time.Time) *MemoryClient {
	c.now = now
	return c
}

// lookup devolve o item se existir e não estiver expirado. Exige c.mu travado.
func (c *MemoryClient) lookup(key string) (memoryItem, bool) {
	it, ok := c.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt) {
		delete(c.items, key)
		return memoryItem{}, false
	}
	return it, true
}

func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return it.value, nil
}

func (c *MemoryClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	it := memoryItem{value: fmt.Sprint(value)}
	if expiration > 0 {
		it.expiresAt = c.now().Add(expiration)
	}
	c.items[key] = it
	return nil
}

func (c *MemoryClient) IncrWithTTL(_ context.Context, key string, window time.Duration) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.lookup(key)
	n := 0
	if ok {
		v, err := strconv.Atoi(it.value)
		if err != nil {
			return 0, fmt.Errorf("valor não numérico na chave %s: %w", key, err)
		}
		n = v
	} else if window > 0 {
		it.expiresAt = c.now().Add(window)
	}
	n++
	it.value = strconv.Itoa(n)
	c.items[key] = it
	return n, nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}
