package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Geo    GeoConfig
	Redis  RedisConfig
	Query  QueryConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string
}

type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type RedisConfig struct {
	// Addr enables the geolocation cache when non-empty.
	Addr string
}

type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type CORSConfig struct {
	AllowedOrigins string
}

func Load() (*Config, error) {
	// Optional .env for local development; env vars win.
	godotenv.Load()

	jwtExpiry, err := time.ParseDuration(envOrDefault("AUDIT_JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_JWT_EXPIRY: %w", err)
	}

	geoTimeout, err := time.ParseDuration(envOrDefault("AUDIT_GEO_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_GEO_TIMEOUT: %w", err)
	}

	geoCacheTTL, err := time.ParseDuration(envOrDefault("AUDIT_GEO_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_GEO_CACHE_TTL: %w", err)
	}

	maxLimit, err := strconv.Atoi(envOrDefault("AUDIT_QUERY_MAX_LIMIT", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_QUERY_MAX_LIMIT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: envOrDefault("AUDIT_HOST", "0.0.0.0"),
			Port: envOrDefault("AUDIT_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     envOrDefault("AUDIT_DB_HOST", "localhost"),
			Port:     envOrDefault("AUDIT_DB_PORT", "5432"),
			Name:     envOrDefault("AUDIT_DB_NAME", "audittrail"),
			User:     envOrDefault("AUDIT_DB_USER", "audittrail"),
			Password: envOrDefault("AUDIT_DB_PASSWORD", "audittrail"),
			SSLMode:  envOrDefault("AUDIT_DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     envOrDefault("AUDIT_JWT_SECRET", "change-me-in-production"),
			JWTExpiry:     jwtExpiry,
			AdminEmail:    envOrDefault("AUDIT_ADMIN_EMAIL", "admin@fleet.local"),
			AdminPassword: envOrDefault("AUDIT_ADMIN_PASSWORD", "admin"),
		},
		Geo: GeoConfig{
			Endpoint: envOrDefault("AUDIT_GEO_ENDPOINT", "https://ipapi.co"),
			Timeout:  geoTimeout,
			CacheTTL: geoCacheTTL,
		},
		Redis: RedisConfig{
			Addr: os.Getenv("AUDIT_REDIS_ADDR"),
		},
		Query: QueryConfig{
			DefaultLimit: 50,
			MaxLimit:     maxLimit,
		},
		CORS: CORSConfig{
			AllowedOrigins: envOrDefault("AUDIT_CORS_ORIGINS", "http://localhost:3000"),
		},
	}

	return cfg, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
