package config

import (
	"time"

	"dario.cat/mergo"
)

// Backend values for StoreConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config represents the full hivelab configuration document.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Resolver ResolverConfig `yaml:"resolver"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,log_level"`
	// HumanReadable selects console output; nil means "when attached to a
	// terminal".
	HumanReadable *bool `yaml:"human_readable,omitempty"`
}

// ResolverConfig holds connection resolution settings.
type ResolverConfig struct {
	DuplicateTargets string `yaml:"duplicate_targets" validate:"omitempty,oneof=last-write-wins reject"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"omitempty,listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gte=0"`
}

// StoreConfig selects where tool state snapshots live.
type StoreConfig struct {
	Backend string      `yaml:"backend" validate:"omitempty,oneof=memory redis"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis snapshot store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db" validate:"gte=0,lte=15"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Resolver: ResolverConfig{
			DuplicateTargets: "last-write-wins",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "hivelab:state:",
			},
		},
	}
}

// ApplyDefaults fills every zero field of cfg from Default.
func ApplyDefaults(cfg *Config) error {
	return mergo.Merge(cfg, Default())
}
