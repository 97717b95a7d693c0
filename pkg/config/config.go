package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Token modes.
const (
	TokenModeJWT    = "jwt"
	TokenModeLegacy = "legacy"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Token      TokenConfig
	Admins     []AdminUser
	CORS       CORSConfig
	Log        LogConfig
	Features   FeatureConfig
	Annotation AnnotationConfig
}

// StoreConfig selects the submission/audit persistence backend.
type StoreConfig struct {
	Driver   string
	SeedDemo bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs account search caching.
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	LocalSize int
}

// TokenConfig configures the admin bearer token codec.
type TokenConfig struct {
	Mode       string
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminUser is one row of the static admin credential table.
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FeatureConfig toggles optional surfaces.
type FeatureConfig struct {
	Metrics       bool
	Exports       bool
	LegacyAliases bool
}

// AnnotationConfig tunes the comment update flow.
type AnnotationConfig struct {
	Latency time.Duration
}

// DefaultAdmins is used when ADMIN_USERS is unset.
var DefaultAdmins = []AdminUser{
	{ID: "1", Username: "admin", Password: "admin123", Name: "System Administrator", Role: "Administrator"},
	{ID: "2", Username: "manager", Password: "manager123", Name: "Branch Manager", Role: "Manager"},
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		SeedDemo: v.GetBool("SEED_DEMO_DATA"),
	}
	if cfg.Store.Driver != StoreMemory && cfg.Store.Driver != StorePostgres {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_CACHE"),
		TTL:       parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
		LocalSize: v.GetInt("CACHE_LOCAL_SIZE"),
	}

	cfg.Token = TokenConfig{
		Mode:       strings.ToLower(v.GetString("TOKEN_MODE")),
		Secret:     v.GetString("TOKEN_SECRET"),
		Expiration: parseDuration(v.GetString("TOKEN_EXPIRATION"), 8*time.Hour),
		Issuer:     v.GetString("TOKEN_ISSUER"),
	}
	if cfg.Token.Mode != TokenModeJWT && cfg.Token.Mode != TokenModeLegacy {
		return nil, fmt.Errorf("unsupported TOKEN_MODE %q", cfg.Token.Mode)
	}

	admins, err := parseAdmins(v.GetString("ADMIN_USERS"))
	if err != nil {
		return nil, err
	}
	cfg.Admins = admins

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Features = FeatureConfig{
		Metrics:       v.GetBool("ENABLE_METRICS"),
		Exports:       v.GetBool("ENABLE_EXPORTS"),
		LegacyAliases: v.GetBool("ENABLE_LEGACY_ALIASES"),
	}

	cfg.Annotation = AnnotationConfig{
		Latency: parseDuration(v.GetString("ANNOTATION_LATENCY"), 0),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("SEED_DEMO_DATA", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "formdesk")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_LOCAL_SIZE", 512)

	v.SetDefault("TOKEN_MODE", TokenModeJWT)
	v.SetDefault("TOKEN_SECRET", "dev_secret")
	v.SetDefault("TOKEN_EXPIRATION", "8h")
	v.SetDefault("TOKEN_ISSUER", "formdesk-api")
	v.SetDefault("ADMIN_USERS", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("ENABLE_LEGACY_ALIASES", true)
	v.SetDefault("ANNOTATION_LATENCY", "0s")
}

// parseAdmins decodes the ADMIN_USERS JSON array, falling back to DefaultAdmins when unset.
func parseAdmins(raw string) ([]AdminUser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		out := make([]AdminUser, len(DefaultAdmins))
		copy(out, DefaultAdmins)
		return out, nil
	}

	var admins []AdminUser
	if err := json.Unmarshal([]byte(raw), &admins); err != nil {
		return nil, fmt.Errorf("parse ADMIN_USERS: %w", err)
	}
	seen := make(map[string]struct{}, len(admins))
	for i, a := range admins {
		if a.ID == "" || a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("ADMIN_USERS[%d]: id, username and password are required", i)
		}
		if _, dup := seen[a.Username]; dup {
			return nil, fmt.Errorf("ADMIN_USERS[%d]: duplicate username %q", i, a.Username)
		}
		seen[a.Username] = struct{}{}
	}
	return admins, nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, os.ErrNotExist)
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

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
