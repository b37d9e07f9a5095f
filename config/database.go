package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"jobdeck"`
	Password string `env:"PASSWORD" envDefault:"jobdeck"`
	Name     string `env:"NAME"     envDefault:"jobdeck"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the unread-count cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// UnreadTTL is the TTL for cached per-user unread notification counts.
	UnreadTTL time.Duration `env:"UNREAD_TTL" envDefault:"10m"`

	// Enabled toggles the cache entirely; when false the service counts
	// unread rows in Postgres on every request.
	Enabled bool `env:"ENABLED" envDefault:"true"`
}
