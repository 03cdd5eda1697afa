package providers

import (
	"plantao/internal/structures"

	"github.com/coocood/freecache"
)

// CacheProviderInterface holds encoded GET /api/plantao bodies keyed by
// record file version.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
	Clear()
}

type recordCache struct {
	entries *freecache.Cache
	ttl     int
	logger  Logger
}

// NewCacheProvider returns a freecache-backed record cache, or a cache that
// never hits when caching is switched off or sized to zero.
func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Record cache off")
		return disabledCache{}
	}

	ttl := max(conf.Cache.TTL, 0)
	logger.Infof(TypeApp, "Record cache on: %dMB, ttl %ds", conf.Cache.Size, ttl)

	return &recordCache{
		entries: freecache.NewCache(conf.Cache.Size << 20),
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *recordCache) Get(key string) ([]byte, bool) {
	data, err := c.entries.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set drops entries freecache refuses (larger than 1/1024 of the cache).
func (c *recordCache) Set(key string, value []byte) {
	if err := c.entries.Set([]byte(key), value, c.ttl); err != nil {
		c.logger.Debugf(TypeStore, "record cache skipped %s (%d bytes): %v", key, len(value), err)
	}
}

func (c *recordCache) Del(key string) {
	c.entries.Del([]byte(key))
}

func (c *recordCache) Clear() {
	c.entries.Clear()
}

type disabledCache struct{}

func (disabledCache) Get(string) ([]byte, bool) { return nil, false }
func (disabledCache) Set(string, []byte)        {}
func (disabledCache) Del(string)                {}
func (disabledCache) Clear()                    {}
