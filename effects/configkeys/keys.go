package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigStorePrefix     = ConfigPrefix + delimiter + "store"
	ConfigStoreBufferSize = ConfigStorePrefix + delimiter + "buffer_size"

	ConfigPostsPrefix        = ConfigPrefix + delimiter + "posts"
	ConfigPostsURL           = ConfigPostsPrefix + delimiter + "url"
	ConfigPostsTimeout       = ConfigPostsPrefix + delimiter + "timeout"
	ConfigPostsRetryMax      = ConfigPostsPrefix + delimiter + "retry_max"
	ConfigPostsRetryInterval = ConfigPostsPrefix + delimiter + "retry_interval"
	ConfigPostsCacheTTL      = ConfigPostsPrefix + delimiter + "cache_ttl"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectLogPrefix     = ConfigEffectPrefix + delimiter + "log"
	ConfigEffectLogBufferSize = ConfigEffectLogPrefix + delimiter + "buffer_size"

	ConfigEffectConcurrencyPrefix     = ConfigEffectPrefix + delimiter + "concurrency"
	ConfigEffectConcurrencyBufferSize = ConfigEffectConcurrencyPrefix + delimiter + "buffer_size"
)
