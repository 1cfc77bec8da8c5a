package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "catering-dev-secret"

type Config struct {
	Port           string          `yaml:"port"`
	GinMode        string          `yaml:"gin_mode"`
	Database       DatabaseConfig  `yaml:"database"`
	JWT            JWTConfig       `yaml:"jwt"`
	Log            LogConfig       `yaml:"log"`
	CORSOrigins    []string        `yaml:"cors_origins"`
	Booking        BookingConfig   `yaml:"booking"`
	AMQP           AMQPConfig      `yaml:"amqp"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	MetricsEnabled bool            `yaml:"metrics_enabled"`
	Admin          AdminConfig     `yaml:"admin"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql or postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type BookingConfig struct {
	MinGuests     int    `yaml:"min_guests"`
	StrictMenuIDs bool   `yaml:"strict_menu_ids"`
	Scope         string `yaml:"scope"` // user or email
}

type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Default returns a configuration suitable for local development: sqlite
// file database, 7 day tokens, lenient menu resolution.
func Default() *Config {
	return &Config{
		Port:    "8080",
		GinMode: "debug",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "catering.db",
		},
		JWT: JWTConfig{
			Secret: defaultJWTSecret,
			TTL:    7 * 24 * time.Hour,
		},
		Log:         LogConfig{Level: "info", Format: "text"},
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		Booking: BookingConfig{
			MinGuests: 1,
			Scope:     "user",
		},
		AMQP:           AMQPConfig{Exchange: "catering.events"},
		RateLimit:      RateLimitConfig{RPS: 1, Burst: 5},
		MetricsEnabled: true,
		Admin:          AdminConfig{Name: "Administrator"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (a
// missing file is not an error), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("GIN_MODE", &c.GinMode)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("JWT_SECRET", &c.JWT.Secret)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("BOOKING_SCOPE", &c.Booking.Scope)
	str("AMQP_URL", &c.AMQP.URL)
	str("AMQP_EXCHANGE", &c.AMQP.Exchange)
	str("ADMIN_NAME", &c.Admin.Name)
	str("ADMIN_EMAIL", &c.Admin.Email)
	str("ADMIN_PASSWORD", &c.Admin.Password)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}

	if v, ok := lookup("JWT_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_TTL: %w", err)
		}
		c.JWT.TTL = d
	}
	if v, ok := lookup("MIN_GUESTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MIN_GUESTS: %w", err)
		}
		c.Booking.MinGuests = n
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimit.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimit.Burst = n
	}

	for key, dst := range map[string]*bool{
		"STRICT_MENU_IDS": &c.Booking.StrictMenuIDs,
		"METRICS_ENABLED": &c.MetricsEnabled,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin mode must be debug, release or test, got %q", c.GinMode)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	switch c.Booking.Scope {
	case "user", "email":
	default:
		return fmt.Errorf("booking scope must be \"user\" or \"email\", got %q", c.Booking.Scope)
	}
	if c.Booking.MinGuests < 1 {
		return fmt.Errorf("min_guests must be at least 1, got %d", c.Booking.MinGuests)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.GinMode == "release" && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("rate limit rps and burst must be positive")
	}
	return nil
}
