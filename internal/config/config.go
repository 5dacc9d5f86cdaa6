package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string        `yaml:"port"`
	DBDriver      string        `yaml:"db_driver"` // sqlite | postgres
	DBDSN         string        `yaml:"db_dsn"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level"`
	JWTSecret     string        `yaml:"jwt_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	CORSOrigins   string        `yaml:"cors_origins"`
	RedisURL      string        `yaml:"redis_url"`
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
	LoginRateMax  int           `yaml:"login_rate_max"`
	LoginRateWin  time.Duration `yaml:"login_rate_window"`
}

const DefaultAdminPassword = "admin123"

func Defaults() Config {
	return Config{
		Port:          "8080",
		DBDriver:      "sqlite",
		DBDSN:         "bizbook.db",
		LogLevel:      "info",
		SessionTTL:    24 * time.Hour,
		CORSOrigins:   "http://localhost:3000",
		AdminUsername: "admin",
		AdminPassword: DefaultAdminPassword,
		LoginRateMax:  5,
		LoginRateWin:  10 * time.Minute,
	}
}

// Load starts from Defaults, overlays the YAML file named by CONFIG_FILE (if any),
// then environment variables.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit YAML path; empty skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DB_DRIVER", &cfg.DBDriver)
	str("DB_DSN", &cfg.DBDSN)
	str("LOG_FILE", &cfg.LogFile)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("CORS_ORIGINS", &cfg.CORSOrigins)
	str("REDIS_URL", &cfg.RedisURL)
	str("ADMIN_USERNAME", &cfg.AdminUsername)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("LOGIN_RATE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LOGIN_RATE_WINDOW: %w", err)
		}
		cfg.LoginRateWin = d
	}
	if v := os.Getenv("LOGIN_RATE_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGIN_RATE_MAX: %w", err)
		}
		cfg.LoginRateMax = n
	}
	return nil
}

func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port (got %q)", c.Port)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres (got %q)", c.DBDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.LoginRateMax <= 0 || c.LoginRateWin <= 0 {
		return fmt.Errorf("LOGIN_RATE_MAX and LOGIN_RATE_WINDOW must be positive")
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	return nil
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
