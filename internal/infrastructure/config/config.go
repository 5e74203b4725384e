package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverREST   = "rest"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	DiagAddr string `env:"DIAG_ADDR"`

	// Timezone names the IANA zone used to derive "today" for attendance.
	Timezone string `env:"ATTENDANCE_TZ, default=UTC"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	Driver      string        `env:"STORE_DRIVER,       default=rest"`
	URL         string        `env:"STORE_URL"`
	AnonKey     string        `env:"STORE_ANON_KEY"`
	RecordsPath string        `env:"STORE_RECORDS_PATH, default=/api/database/records"`
	Timeout     time.Duration `env:"STORE_TIMEOUT,      default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hrms_lite"`
}

// RedisConfig enables the cross-process mark lock when Addr is set.
type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR"`
	DB      int           `env:"REDIS_DB,      default=0"`
	LockTTL time.Duration `env:"MARK_LOCK_TTL, default=30s"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=2s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the selected driver depends on.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverREST:
		if c.Store.URL == "" {
			return fmt.Errorf("STORE_URL is required for the %s driver", DriverREST)
		}
		if c.Store.AnonKey == "" {
			return fmt.Errorf("STORE_ANON_KEY is required for the %s driver", DriverREST)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the %s driver", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ATTENDANCE_TZ: %w", err)
	}
	return loc, nil
}

// LockEnabled reports whether a Redis mark lock is configured.
func (c *Config) LockEnabled() bool { return c.Redis.Addr != "" }
