package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicTimeSourceAdvances(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewDeterministicTimeSource(base, time.Hour)

	first := src.Next()
	second := src.Next()

	assert.Equal(t, base.Add(time.Hour), first)
	assert.Equal(t, base.Add(2*time.Hour), second)
	assert.Equal(t, second, src.Current())
}

func TestDeterministicTimeSourceReset(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewDeterministicTimeSource(base, time.Minute)

	src.Next()
	src.Next()
	src.Reset()

	assert.Equal(t, base, src.Current())
	assert.Equal(t, base.Add(time.Minute), src.Next())
}

func TestDeterministicTimeSourceThreadSafe(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := NewDeterministicTimeSource(base, time.Second)

	var wg sync.WaitGroup
	seen := make(chan time.Time, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- src.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		require.False(t, unique[ts], "duplicate timestamp %v", ts)
		unique[ts] = true
	}
	assert.Len(t, unique, 100)
}

func TestDeterministicTimeSourceReproducible(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewDeterministicTimeSource(base, time.Hour)
	b := NewDeterministicTimeSource(base, time.Hour)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
