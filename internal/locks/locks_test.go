package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := km.Lock(context.Background(), "book-1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, km.locks, "entries are dropped once released")
}

func TestKeyedMutex_DifferentKeysDoNotContend(t *testing.T) {
	km := NewKeyedMutex()
	unlockA, err := km.Lock(context.Background(), "book-a")
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := km.Lock(context.Background(), "book-b")
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	km := NewKeyedMutex()
	unlock, err := km.Lock(context.Background(), "book-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Lock(ctx, "book-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op
	assert.Empty(t, km.locks)
}

func TestTryLocks(t *testing.T) {
	var tl TryLocks

	release, ok := tl.TryAcquire("book-1")
	require.True(t, ok)
	assert.True(t, tl.Held("book-1"))

	_, ok = tl.TryAcquire("book-1")
	assert.False(t, ok, "second acquire must fail while held")

	other, ok := tl.TryAcquire("book-2")
	require.True(t, ok)
	other()

	release()
	assert.False(t, tl.Held("book-1"))
	_, ok = tl.TryAcquire("book-1")
	assert.True(t, ok)
}

func TestChain_ReleasesInReverseOnFailure(t *testing.T) {
	km := NewKeyedMutex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failing := lockerFunc(func(ctx context.Context, key string) (func(), error) {
		return nil, ctx.Err()
	})
	_, err := Chain{km, failing}.Lock(ctx, "book-1")
	require.Error(t, err)

	// km was acquired then released
	unlock, err := km.Lock(context.Background(), "book-1")
	require.NoError(t, err)
	unlock()
}

type lockerFunc func(ctx context.Context, key string) (func(), error)

func (f lockerFunc) Lock(ctx context.Context, key string) (func(), error) { return f(ctx, key) }
