package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the service. It is loaded once at
// startup and handed by reference to the layers that need it; nothing
// reads configuration ambiently after Load returns.
type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port          string `mapstructure:"port"`
		AllowedOrigin string `mapstructure:"allowed_origin"`
	} `mapstructure:"server"`
	JWT struct {
		AccessSecret  string `mapstructure:"access_secret"`
		RefreshSecret string `mapstructure:"refresh_secret"`
		// AccessLifetime and RefreshLifetime are parsed exactly once,
		// here. The token codecs and the sweeper all receive the same
		// values, so the signed expiry and the store's notion of age
		// cannot drift apart.
		AccessLifetime  time.Duration `mapstructure:"access_lifetime"`
		RefreshLifetime time.Duration `mapstructure:"refresh_lifetime"`
	} `mapstructure:"jwt"`
	Security struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"security"`
	Sweeper struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"sweeper"`
}

// Load reads config.yml from path, overlays environment variables, and
// validates the result. A missing or reused secret is a fatal
// configuration error: the service must not start without one.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" {
		return errors.New("jwt.access_secret is not configured")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("jwt.refresh_secret is not configured")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("jwt.access_secret and jwt.refresh_secret must differ")
	}
	if c.JWT.AccessLifetime <= 0 {
		c.JWT.AccessLifetime = 15 * time.Minute
	}
	if c.JWT.RefreshLifetime <= 0 {
		c.JWT.RefreshLifetime = 7 * 24 * time.Hour
	}
	if c.Sweeper.Interval <= 0 {
		c.Sweeper.Interval = time.Minute
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 12
	}
	return nil
}
