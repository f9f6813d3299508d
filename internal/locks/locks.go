// Package locks provides the per-key locks that serialize leaf reservations
// and keep two batch runs off the same cheque book.
package locks

import (
	"context"
	"sync"
)

// Locker acquires an exclusive lock on key, blocking until it is held or ctx ends.
// The returned func releases the lock and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// KeyedMutex is an in-process blocking lock per key. Different keys never contend.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sem  chan struct{}
	refs int
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*refMutex)}
}

var _ Locker = (*KeyedMutex)(nil)

// Lock blocks until key is free. The per-key entry is dropped once nobody holds
// or waits on it.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{sem: make(chan struct{}, 1)}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, m)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-m.sem
			k.release(key, m)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, m *refMutex) {
	k.mu.Lock()
	defer k.mu.Unlock()
	m.refs--
	if m.refs == 0 {
		delete(k.locks, key)
	}
}

// TryLocks is a non-blocking key-only lock store.
type TryLocks struct {
	store sync.Map
}

// TryAcquire takes key if it is free. Wrap the release in a deferred call so it
// runs even if the holder panics.
func (t *TryLocks) TryAcquire(key string) (func(), bool) {
	if _, loaded := t.store.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}
	return func() { t.store.Delete(key) }, true
}

// Held reports whether key is currently taken.
func (t *TryLocks) Held(key string) bool {
	_, ok := t.store.Load(key)
	return ok
}

// Chain acquires every locker in order and releases them in reverse.
type Chain []Locker

// Lock implements Locker.
func (c Chain) Lock(ctx context.Context, key string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, l := range c {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return releaseAll, nil
}
