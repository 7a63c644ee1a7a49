// Package config loads catalog settings from an optional YAML file and CATALOG_* env.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is the full runtime configuration.
type Config struct {
	DB    DB    `mapstructure:"db"`
	Redis Redis `mapstructure:"redis"`
	Cache Cache `mapstructure:"cache"`
	Auth  Auth  `mapstructure:"auth"`
	Log   Log   `mapstructure:"log"`
}

// DB configures the PostgreSQL store.
type DB struct {
	DSN            string `mapstructure:"dsn"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// Redis configures the match cache backend. An empty Addr disables caching.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Cache configures result caching.
type Cache struct {
	MatchTTL time.Duration `mapstructure:"match_ttl"`
}

// Auth configures password hashing and credential-check throttling.
type Auth struct {
	BcryptCost int     `mapstructure:"bcrypt_cost"`
	Limiter    Limiter `mapstructure:"limiter"`
}

// Limiter configures the failure window and lockout.
type Limiter struct {
	Window   time.Duration `mapstructure:"window"`
	MaxFails int           `mapstructure:"max_fails"`
	BlockFor time.Duration `mapstructure:"block_for"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "CATALOG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.migrate_on_start", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.match_ttl", 5*time.Minute)

	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.limiter.window", 15*time.Minute)
	v.SetDefault("auth.limiter.max_fails", 5)
	v.SetDefault("auth.limiter.block_for", 15*time.Minute)

	v.SetDefault("log.level", "info")
}

// Load reads path (if non-empty) and the environment on top of the defaults.
// Without a path, ./catalog.yaml is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the catalog cannot run without.
func (c *Config) Validate() error {
	var problems []error
	if c.DB.DSN == "" {
		problems = append(problems, errors.New("db.dsn is required"))
	}
	if c.Cache.MatchTTL <= 0 {
		problems = append(problems, errors.New("cache.match_ttl must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Errorf("auth.bcrypt_cost must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.Limiter.Window <= 0 {
		problems = append(problems, errors.New("auth.limiter.window must be positive"))
	}
	if c.Auth.Limiter.MaxFails <= 0 {
		problems = append(problems, errors.New("auth.limiter.max_fails must be positive"))
	}
	if c.Auth.Limiter.BlockFor <= 0 {
		problems = append(problems, errors.New("auth.limiter.block_for must be positive"))
	}
	return errors.Join(problems...)
}
