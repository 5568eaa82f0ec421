// Package config loads the service configuration from command-line flags,
// environment variables, an optional config file and a .env file.
//
// Precedence, highest first: flag, environment, config file, default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by viper. Environment variables are the upper-cased key.
const (
	KeyConfig          = "config"
	KeyServerAddress   = "server_address"
	KeyBaseURL         = "base_url"
	KeyFileStoragePath = "file_storage_path"
	KeyDatabaseDSN     = "database_dsn"
	KeyJWTSecret       = "jwt_secret"
	KeyTokenTTL        = "token_ttl"
	KeyLogLevel        = "log_level"
	KeyCodeLength      = "code_length"
	KeyCodeMaxAttempts = "code_max_attempts"
	KeyRedisAddr       = "redis_addr"
	KeyCacheTTL        = "cache_ttl"
	KeyEnablePprof     = "enable_pprof"
	KeyEnableHTTPS     = "enable_https"
	KeyCORSOrigins     = "cors_origins"
	KeyTrustedSubnet   = "trusted_subnet"
)

// ErrMissingJWTSecret is returned by RequireJWTSecret.
var ErrMissingJWTSecret = errors.New("jwt secret is required to serve requests")

// Config holds the resolved settings.
type Config struct {
	ServerAddress   string        `mapstructure:"server_address" validate:"required,hostname_port"`
	BaseURL         string        `mapstructure:"base_url" validate:"required,http_url"`
	FileStoragePath string        `mapstructure:"file_storage_path"`
	DatabaseDSN     string        `mapstructure:"database_dsn"`
	JWTSecret       string        `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenTTL        time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error dpanic panic fatal"`
	CodeLength      int           `mapstructure:"code_length" validate:"min=4,max=32"`
	// CodeMaxAttempts of zero lets the create loop run until its context ends.
	CodeMaxAttempts int           `mapstructure:"code_max_attempts" validate:"min=0"`
	RedisAddr       string        `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	EnablePprof     bool          `mapstructure:"enable_pprof"`
	EnableHTTPS     bool          `mapstructure:"enable_https"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	TrustedSubnet   string        `mapstructure:"trusted_subnet" validate:"omitempty,cidr"`
}

var defaults = map[string]any{
	KeyConfig:          "",
	KeyServerAddress:   "localhost:8080",
	KeyBaseURL:         "http://localhost:8080",
	KeyFileStoragePath: "",
	KeyDatabaseDSN:     "",
	KeyJWTSecret:       "",
	KeyTokenTTL:        7 * 24 * time.Hour,
	KeyLogLevel:        "info",
	KeyCodeLength:      6,
	KeyCodeMaxAttempts: 20,
	KeyRedisAddr:       "",
	KeyCacheTTL:        time.Minute,
	KeyEnablePprof:     false,
	KeyEnableHTTPS:     false,
	KeyCORSOrigins:     []string{"*"},
	KeyTrustedSubnet:   "",
}

// New returns a viper instance with defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
		_ = v.BindEnv(k, strings.ToUpper(k))
	}
	return v
}

// BindFlags registers the command-line flags on flags and binds them to v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.StringP(KeyConfig, "c", "", "path to a JSON or YAML config file")
	flags.StringP(KeyServerAddress, "a", "localhost:8080", "run on ip:port server")
	flags.StringP(KeyBaseURL, "b", "http://localhost:8080", "base url of short links")
	flags.StringP(KeyFileStoragePath, "f", "", "path to the SQLite storage file")
	flags.StringP(KeyDatabaseDSN, "d", "", "postgres connection string")
	flags.StringP(KeyJWTSecret, "j", "", "HS256 signing secret for bearer tokens")
	flags.StringP(KeyLogLevel, "l", "info", "log level")
	flags.BoolP(KeyEnablePprof, "p", false, "enable pprof on localhost:6060")
	flags.BoolP(KeyEnableHTTPS, "s", false, "serve https with autocert")
	flags.StringP(KeyTrustedSubnet, "t", "", "CIDR allowed to read /metrics")

	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := defaults[f.Name]; ok {
			errs = append(errs, v.BindPFlag(f.Name, f))
		}
	})
	return errors.Join(errs...)
}

// Load reads the optional .env and config files and returns the validated
// configuration.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// existing variables win over .env entries
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// RequireJWTSecret fails when no signing secret is configured.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
