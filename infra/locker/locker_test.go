package locker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_TryAcquire(t *testing.T) {
	l := New()

	assert.True(t, l.TryAcquire(7))
	assert.False(t, l.TryAcquire(7), "held until unlocked")
	assert.True(t, l.TryAcquire(8))

	l.Unlock(7)
	assert.True(t, l.TryAcquire(7))
	assert.False(t, l.TryAcquire(8), "unlocking 7 leaves 8 held")
}

func TestLocker_SingleWinnerUnderContention(t *testing.T) {
	l := New()
	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire(1) {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)
}
