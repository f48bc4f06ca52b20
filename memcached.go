package main

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

var ErrMemcachedClosed = errors.New("memcached closed")

type cached[V any] struct {
	value    V
	expireAt int64
}

// Memcached is an in-process TTL store. Reading an item does not extend
// its lifetime; Set does.
type Memcached[V any] struct {
	mu          sync.RWMutex
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	items       map[string]cached[V]
	ttlTimeout  time.Duration
	inShutdown  atomic.Bool
	isClosed    atomic.Bool
	onExpire    func(key string, value V)
}

// NewMemcached starts the cleaner goroutine. onExpire, if set, is called
// outside the lock for every item dropped by the cleaner.
func NewMemcached[V any](ttlTimeout, cleanupTimeout time.Duration, onExpire func(string, V)) *Memcached[V] {
	mc := &Memcached[V]{
		cleanerCh:  make(chan struct{}),
		items:      make(map[string]cached[V]),
		ttlTimeout: ttlTimeout,
		onExpire:   onExpire,
	}

	go func() {
		ticker := time.NewTicker(cleanupTimeout)
		defer ticker.Stop()

		for {
			select {
			case <-mc.cleanerCh:
				return
			case <-ticker.C:
				mc.cleanExpiredItems()
			}
		}
	}()
	return mc
}

func (mc *Memcached[V]) Set(key string, value V) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	_, isExists := mc.items[key]
	if mc.inShutdown.Load() && !isExists {
		return
	}

	expireAt := time.Now().Add(mc.ttlTimeout).UnixNano()
	mc.items[key] = cached[V]{
		value:    value,
		expireAt: expireAt,
	}
}

func (mc *Memcached[V]) Get(key string) (V, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var zero V
	item, exists := mc.items[key]
	if !exists {
		return zero, false
	}

	if time.Now().UnixNano() > item.expireAt {
		return zero, false
	}
	return item.value, true
}

func (mc *Memcached[V]) Delete(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.items, key)
}

func (mc *Memcached[V]) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items)
}

const shutdownIntervalMax = 500 * time.Millisecond

// Shutdown stops accepting new keys and waits for the existing ones to
// expire.
func (mc *Memcached[V]) Shutdown(ctx context.Context) error {
	mc.inShutdown.Store(true)
	mc.closeCleaner()

	intervalBase := time.Millisecond
	nextInterval := func() time.Duration {
		interval := intervalBase + time.Duration(rand.Intn(int(intervalBase/10)+1))

		intervalBase *= 2
		if intervalBase > shutdownIntervalMax {
			intervalBase = shutdownIntervalMax
		}
		return interval
	}

	timer := time.NewTimer(nextInterval())
	defer timer.Stop()
	for {
		mc.cleanExpiredItems()
		if mc.IsEmpty() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(nextInterval())
		}
	}
}

// Close drops every item, also after a Shutdown that ran out of time.
func (mc *Memcached[V]) Close() error {
	if mc.isClosed.Swap(true) {
		return ErrMemcachedClosed
	}
	mc.inShutdown.Store(true)
	mc.closeCleaner()

	mc.mu.Lock()
	defer mc.mu.Unlock()
	clear(mc.items)
	return nil
}

func (mc *Memcached[V]) cleanExpiredItems() {
	now := time.Now().UnixNano()
	expired := make(map[string]V)

	mc.mu.Lock()
	for k, v := range mc.items {
		if now > v.expireAt {
			expired[k] = v.value
			delete(mc.items, k)
		}
	}
	mc.mu.Unlock()

	if mc.onExpire == nil {
		return
	}
	for k, v := range expired {
		mc.onExpire(k, v)
	}
}

func (mc *Memcached[V]) IsEmpty() bool {
	return mc.Len() == 0
}

func (mc *Memcached[V]) closeCleaner() {
	mc.cleanerOnce.Do(func() {
		close(mc.cleanerCh)
	})
}
