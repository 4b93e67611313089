package rendercache

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxEntries bounds the cache. maxEntries <= 0 disables eviction.
func WithMaxEntries(maxEntries int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxEntries
	}
}
