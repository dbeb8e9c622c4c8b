package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env      string
	Port     int
	Sections int
	// Seed fixes the random orderings of every solve when set; otherwise each solve draws a fresh seed
	Seed    uint64
	HasSeed bool

	Log   LogConfig
	Cache CacheConfig
	Redis RedisConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Load reads the configuration from the environment, an optional env file and the given flags, in increasing order
// of precedence. Flags are bound by name, so a "seed" flag overrides SEED
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot load env file: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults(v)

	if flags != nil {
		var errs []error
		flags.VisitAll(func(flag *pflag.Flag) {
			key := strings.ReplaceAll(flag.Name, "-", "_")
			errs = append(errs, v.BindPFlag(key, flag))
		})
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("cannot bind flags: %w", err)
		}
	}

	cfg := &Config{
		Env:      v.GetString("ENV"),
		Port:     v.GetInt("PORT"),
		Sections: v.GetInt("SECTIONS"),
		Seed:     v.GetUint64("SEED"),
		HasSeed:  v.IsSet("SEED") && v.GetString("SEED") != "",
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	if cfg.Sections < 0 {
		return nil, fmt.Errorf("section count must not be negative: %v", cfg.Sections)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("SECTIONS", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "1h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
