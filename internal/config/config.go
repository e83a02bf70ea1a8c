package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Presence PresenceConfig
	Logging  LoggingConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the ephemeral store. An empty Host keeps everything
// in process memory.
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
	PoolSize  int
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
}

type PresenceConfig struct {
	LocationTTL       time.Duration
	AvailabilityTTL   time.Duration
	FullDayTTL        time.Duration
	DefaultRadiusKm   float64
	MinRadiusKm       float64
	MaxRadiusKm       float64
	Timezone          string
	LookupConcurrency int
	FanoutTimeout     time.Duration
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),

			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetInt("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
			PoolSize:  v.GetInt("REDIS_POOL_SIZE"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiry: v.GetDuration("JWT_ACCESS_EXPIRY"),
		},
		Presence: PresenceConfig{
			LocationTTL:       v.GetDuration("PRESENCE_LOCATION_TTL"),
			AvailabilityTTL:   v.GetDuration("PRESENCE_AVAILABILITY_TTL"),
			FullDayTTL:        v.GetDuration("PRESENCE_FULL_DAY_TTL"),
			DefaultRadiusKm:   v.GetFloat64("PRESENCE_DEFAULT_RADIUS_KM"),
			MinRadiusKm:       v.GetFloat64("PRESENCE_MIN_RADIUS_KM"),
			MaxRadiusKm:       v.GetFloat64("PRESENCE_MAX_RADIUS_KM"),
			Timezone:          v.GetString("PRESENCE_TIMEZONE"),
			LookupConcurrency: v.GetInt("PRESENCE_LOOKUP_CONCURRENCY"),
			FanoutTimeout:     v.GetDuration("PRESENCE_FANOUT_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 20)

	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")

	v.SetDefault("PRESENCE_LOCATION_TTL", "5m")
	v.SetDefault("PRESENCE_AVAILABILITY_TTL", "720h")
	v.SetDefault("PRESENCE_FULL_DAY_TTL", "168h")
	v.SetDefault("PRESENCE_DEFAULT_RADIUS_KM", 2)
	v.SetDefault("PRESENCE_MIN_RADIUS_KM", 0.1)
	v.SetDefault("PRESENCE_MAX_RADIUS_KM", 50)
	v.SetDefault("PRESENCE_TIMEZONE", "UTC")
	v.SetDefault("PRESENCE_LOOKUP_CONCURRENCY", 8)
	v.SetDefault("PRESENCE_FANOUT_TIMEOUT", "30s")

	v.SetDefault("LOG_LEVEL", "info")
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.JWT.AccessExpiry <= 0 {
		return fmt.Errorf("JWT access expiry must be positive")
	}

	p := c.Presence
	if p.LocationTTL <= 0 || p.AvailabilityTTL <= 0 || p.FullDayTTL <= 0 {
		return fmt.Errorf("presence TTLs must be positive")
	}
	if p.MinRadiusKm <= 0 || p.MinRadiusKm > p.MaxRadiusKm {
		return fmt.Errorf("presence radius bounds are invalid: min=%v max=%v", p.MinRadiusKm, p.MaxRadiusKm)
	}
	if p.DefaultRadiusKm < p.MinRadiusKm || p.DefaultRadiusKm > p.MaxRadiusKm {
		return fmt.Errorf("default radius %v is outside [%v, %v]", p.DefaultRadiusKm, p.MinRadiusKm, p.MaxRadiusKm)
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("invalid presence timezone %q: %w", p.Timezone, err)
	}
	if p.LookupConcurrency < 1 {
		return fmt.Errorf("lookup concurrency must be at least 1")
	}
	return nil
}

// Location returns the timezone that decides "today" for availability.
func (c *PresenceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a Redis server was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
