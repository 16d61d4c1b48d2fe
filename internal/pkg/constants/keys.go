package constants

// viper configuration keys
const (
	ViperListenAddr  = "listen_addr"
	ViperDatabaseDSN = "database_dsn"
	ViperLogLevel    = "log_level"

	ViperCacheSize = "cache.size"
	ViperCacheTTL  = "cache.ttl"

	ViperStrictMode      = "engine.strict_mode"
	ViperGenerateTimeout = "engine.generate_timeout"
)

// context keys
const (
	CtxKeyRequestID = "request_id"
)
