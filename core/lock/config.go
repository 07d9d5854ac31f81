package lock

// Config holds configuration for the Redis cycle lock.
type Config struct {
	// Enabled guards cycles across replicas with a Redis lock.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the Redis host:port.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database number.
	DB int `mapstructure:"db" default:"0"`
	// Key is the lock key.
	Key string `mapstructure:"lock_key" default:"stock-sync:cycle"`
	// TTLSeconds expires a lock whose holder died.
	TTLSeconds int `mapstructure:"lock_ttl_seconds" default:"900"`
}
