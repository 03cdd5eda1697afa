package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counterMetrics struct {
	hits        int
	misses      int
	rateLimited int
}

func (m *counterMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *counterMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *counterMetrics) IncCacheHits()                                    { m.hits++ }
func (m *counterMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *counterMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *counterMetrics) IncReadOutcome(_ string)                          {}
func (m *counterMetrics) IncWrites(_ string)                               {}
func (m *counterMetrics) IncRateLimited()                                  { m.rateLimited++ }

func TestCountingCache_HitsAndMisses(t *testing.T) {
	metrics := &counterMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1, 0), &quietLogger{}, metrics)
	assert.IsType(t, countingCache{}, c)

	c.Set("record:1:10", []byte(`{"a":1}`))

	body, ok := c.Get("record:1:10")
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(body))

	_, ok = c.Get("record:2:10")
	assert.False(t, ok)
	c.Get("record:1:10")

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestCountingCache_ClearCountsNextLookupAsMiss(t *testing.T) {
	metrics := &counterMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1, 0), &quietLogger{}, metrics)

	c.Set("record:1:10", []byte(`{}`))
	c.Clear()
	_, ok := c.Get("record:1:10")

	assert.False(t, ok)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestNewInstrumentedCacheProvider_OffIsNotCounted(t *testing.T) {
	metrics := &counterMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(false, 1, 0), &quietLogger{}, metrics)
	assert.IsType(t, disabledCache{}, c)

	c.Get("record:1:1")
	assert.Equal(t, 0, metrics.misses)
}
