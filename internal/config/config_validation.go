package config

import (
	"strings"

	"github.com/alexisbeaulieu97/hivelab/internal/validation"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on an entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return hiveerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v, err := validatorInstance()
	if err != nil {
		return hiveerrors.NewValidationError("config", "validator setup failed", err)
	}
	if err := v.Struct(cfg); err != nil {
		return validation.ConvertError(err, "config")
	}

	if cfg.Store.Backend == BackendRedis {
		if strings.TrimSpace(cfg.Store.Redis.Addr) == "" {
			return hiveerrors.NewValidationError("store.redis.addr", "redis backend requires an address", nil)
		}
		if !isListenAddr(cfg.Store.Redis.Addr) {
			return hiveerrors.NewValidationError("store.redis.addr", "redis address must be host:port", nil)
		}
	}

	return nil
}
