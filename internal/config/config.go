package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yukikurage/note-api/internal/constants"
)

const (
	AuthProviderSupabase = "supabase"
	AuthProviderLocal    = "local"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Env     string `toml:"env"`
	Port    string `toml:"port"`
	GinMode string `toml:"gin-mode"`

	DBDriver    string `toml:"db-driver"`
	DatabaseURL string `toml:"database-url"`
	DBHost      string `toml:"db-host"`
	DBPort      string `toml:"db-port"`
	DBUser      string `toml:"db-user"`
	DBPassword  string `toml:"db-password"`
	DBName      string `toml:"db-name"`

	AuthProvider           string        `toml:"auth-provider"`
	SupabaseURL            string        `toml:"supabase-url"`
	SupabaseAnonKey        string        `toml:"supabase-anon-key"`
	SupabaseServiceRoleKey string        `toml:"supabase-service-role-key"`
	TokenTTL               time.Duration `toml:"-"`

	AllowedOrigins []string `toml:"allowed-origins"`

	RedisHost     string `toml:"redis-host"`
	RedisPort     string `toml:"redis-port"`
	SessionSecret string `toml:"session-secret"`

	LogLevel string `toml:"log-level"`
	LogFile  string `toml:"log-file"`
}

// Load reads the optional TOML file named by CONFIG_FILE, then applies
// environment variables on top of it.
func Load() (*Config, error) {
	file := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		file, err = loadFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Env:     getEnv("ENV", or(file.Env, "development")),
		Port:    getEnv("PORT", or(file.Port, "5000")),
		GinMode: getEnv("GIN_MODE", or(file.GinMode, "debug")),

		DBDriver:    getEnv("DB_DRIVER", or(file.DBDriver, DriverPostgres)),
		DatabaseURL: getEnv("DATABASE_URL", file.DatabaseURL),
		DBHost:      getEnv("DB_HOST", or(file.DBHost, "localhost")),
		DBPort:      getEnv("DB_PORT", or(file.DBPort, "5432")),
		DBUser:      getEnv("DB_USER", or(file.DBUser, "postgres")),
		DBPassword:  getEnv("DB_PASSWORD", or(file.DBPassword, "postgres")),
		DBName:      getEnv("DB_NAME", or(file.DBName, "notes")),

		SupabaseURL:            getEnv("SUPABASE_URL", file.SupabaseURL),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", file.SupabaseAnonKey),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", file.SupabaseServiceRoleKey),

		RedisHost:     getEnv("REDIS_HOST", file.RedisHost),
		RedisPort:     getEnv("REDIS_PORT", or(file.RedisPort, "6379")),
		SessionSecret: getEnv("SESSION_SECRET", or(file.SessionSecret, "default-secret-key-change-me")),

		LogLevel: getEnv("LOG_LEVEL", or(file.LogLevel, "info")),
		LogFile:  getEnv("LOG_FILE", file.LogFile),
	}

	cfg.AllowedOrigins = file.AllowedOrigins
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = ParseOrigins(raw)
	}

	defaultProvider := AuthProviderLocal
	if cfg.SupabaseURL != "" {
		defaultProvider = AuthProviderSupabase
	}
	cfg.AuthProvider = strings.ToLower(getEnv("AUTH_PROVIDER", or(file.AuthProvider, defaultProvider)))

	cfg.TokenTTL = constants.DefaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("supabase auth provider requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

// ParseOrigins accepts either a JSON array or a comma separated list.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var origins []string
		if err := json.Unmarshal([]byte(raw), &origins); err != nil {
			return nil
		}
		return origins
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
