// config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessLifetime = 15 * time.Minute
	cfg.JWT.RefreshLifetime = 168 * time.Hour
	cfg.Sweeper.Interval = time.Minute
	cfg.Security.BcryptCost = 12
	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().validate())
	})

	t.Run("missing access secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.AccessSecret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("missing refresh secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.RefreshSecret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("secrets must differ", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
		assert.Error(t, cfg.validate())
	})

	t.Run("defaults fill unset durations", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.AccessLifetime = 0
		cfg.JWT.RefreshLifetime = 0
		cfg.Sweeper.Interval = 0
		cfg.Security.BcryptCost = 0

		assert.NoError(t, cfg.validate())
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessLifetime)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshLifetime)
		assert.Equal(t, time.Minute, cfg.Sweeper.Interval)
		assert.Equal(t, 12, cfg.Security.BcryptCost)
	})
}
