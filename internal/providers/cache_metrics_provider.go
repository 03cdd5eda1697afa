package providers

import "plantao/internal/structures"

// countingCache reports every record cache lookup as a hit or a miss.
type countingCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c countingCache) Get(key string) ([]byte, bool) {
	data, hit := c.CacheProviderInterface.Get(key)
	if !hit {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return data, true
}

// NewInstrumentedCacheProvider wraps the record cache with hit/miss counters.
// A switched-off cache is returned as is so it does not report misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	c := NewCacheProvider(conf, logger)
	if _, off := c.(disabledCache); off {
		return c
	}
	return countingCache{CacheProviderInterface: c, metrics: metrics}
}
