package repository

// storeConfig carries construction-time settings for the session store.
type storeConfig struct {
	shardCount int
}

// StoreOption applies a configuration option to the SessionStore.
type StoreOption func(*storeConfig)

// WithShardCount sets the number of shards in the session map.
func WithShardCount(count int) StoreOption {
	return func(c *storeConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}
