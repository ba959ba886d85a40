package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all board server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	// Secret signs session tokens. Must be set outside of development.
	Secret string `mapstructure:"secret"`
	// TokenTTL bounds how long an issued session stays valid.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// CookieSecure marks the session cookie Secure; enable behind TLS.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// AdminConfig holds the bootstrap administrator account. The account is
// created on startup when no user with that name exists.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

// Load reads configuration from an optional file plus FORMGUARD_* environment
// overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.dsn", "./data/board.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", "30m")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "dev")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
			}
			// Missing file is fine, defaults plus env apply.
		}
	}

	v.SetEnvPrefix("FORMGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
