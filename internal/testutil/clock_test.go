package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicTime_FirstReadingIsStart(t *testing.T) {
	clock := NewDeterministicTime(Epoch, time.Second)
	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, int64(1), clock.Readings())
}

func TestDeterministicTime_AdvancesByStep(t *testing.T) {
	clock := NewDeterministicTime(Epoch, 30*time.Second)

	clock.Now()
	assert.Equal(t, Epoch.Add(30*time.Second), clock.Now())
	assert.Equal(t, Epoch.Add(60*time.Second), clock.Now())
}

func TestDeterministicTime_Reset(t *testing.T) {
	clock := NewDeterministicTime(Epoch, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Readings())
	assert.Equal(t, Epoch, clock.Now())
}

func TestDeterministicTime_ThreadSafe(t *testing.T) {
	clock := NewDeterministicTime(Epoch, time.Second)
	const goroutines = 50
	const calls = 20

	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				ts := clock.Now()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), clock.Readings())
}
