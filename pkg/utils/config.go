package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	LogPath string
	Store   string
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	AuthRateLimit   int // requests per minute per IP on /signup and /login
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxy bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type AuthConfig struct {
	JWTSecret   string
	AdminSecret string
	SignupTTL   time.Duration
	LoginTTL    time.Duration
	BcryptCost  int
}

func (c *Config) IsProduction() bool {
	return c != nil && c.App.Env == "production"
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"port":  "PORT",
	"store": "APP_STORE",
	"debug": "DEBUG",
}

// LoadConfig reads an optional env-format file at path, then the process environment.
// Environment variables win over the file; flags that were set win over both.
func LoadConfig(path string, flags ...*pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "tempest-reviews")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_STORE", StorePostgres)
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "15s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://tempest-reviews.vercel.app")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SIGNUP_TOKEN_TTL", "24h")
	v.SetDefault("LOGIN_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 10)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	for _, fs := range flags {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Env:     v.GetString("APP_ENV"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			Store:   strings.ToLower(v.GetString("APP_STORE")),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("HTTP_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AuthRateLimit:   v.GetInt("AUTH_RATE_LIMIT"),
			TrustProxy:      v.GetBool("TRUST_PROXY"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Auth: AuthConfig{
			JWTSecret:   v.GetString("JWT_SECRET"),
			AdminSecret: v.GetString("ADMIN_SECRET"),
			SignupTTL:   v.GetDuration("SIGNUP_TOKEN_TTL"),
			LoginTTL:    v.GetDuration("LOGIN_TOKEN_TTL"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.SignupTTL <= 0 || c.Auth.LoginTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	switch c.App.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown APP_STORE %q", c.App.Store)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
