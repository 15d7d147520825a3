package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"http_server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Security    SecurityConfig    `mapstructure:"security"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Export      ExportConfig      `mapstructure:"export"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	BCryptCost          int           `mapstructure:"bcrypt_cost"`
	SessionTTL          time.Duration `mapstructure:"session_ttl"`
	RememberMeTTL       time.Duration `mapstructure:"remember_me_ttl"`
	DisableLoginLimiter bool          `mapstructure:"disable_login_limiter"`
}

type RateLimitConfig struct {
	GeneralWindow time.Duration `mapstructure:"general_window"`
	GeneralMax    int           `mapstructure:"general_max"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
	LoginMax      int           `mapstructure:"login_max"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ExportConfig struct {
	ReportName string `mapstructure:"report_name"`
}

// MaintenanceConfig controls the derived-notification thresholds. They have
// fixed defaults; config exists so operators can tune them without a rebuild.
type MaintenanceConfig struct {
	WarrantyWindowDays  int           `mapstructure:"warranty_window_days"`
	WarrantyUrgentDays  int           `mapstructure:"warranty_urgent_days"`
	UnassignedStaleship time.Duration `mapstructure:"unassigned_staleship"`
}

// ----------------- DEFAULTS -----------------

func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 12
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 24 * time.Hour
	}
	if c.Security.RememberMeTTL == 0 {
		c.Security.RememberMeTTL = 30 * 24 * time.Hour
	}
	if c.RateLimit.GeneralWindow == 0 {
		c.RateLimit.GeneralWindow = 15 * time.Minute
	}
	if c.RateLimit.GeneralMax == 0 {
		c.RateLimit.GeneralMax = 100
	}
	if c.RateLimit.LoginWindow == 0 {
		c.RateLimit.LoginWindow = 15 * time.Minute
	}
	if c.RateLimit.LoginMax == 0 {
		c.RateLimit.LoginMax = 5
	}
	if c.Export.ReportName == "" {
		c.Export.ReportName = "pc_inventory"
	}
	if c.Maintenance.WarrantyWindowDays == 0 {
		c.Maintenance.WarrantyWindowDays = 30
	}
	if c.Maintenance.WarrantyUrgentDays == 0 {
		c.Maintenance.WarrantyUrgentDays = 7
	}
	if c.Maintenance.UnassignedStaleship == 0 {
		c.Maintenance.UnassignedStaleship = 24 * time.Hour
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config purely from environment variables, used
// in container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:        getEnv("SERVER_BASE_URL", ""),
			AllowedOrigins: getEnv("SERVER_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			BCryptCost:          getEnvAsInt("SECURITY_BCRYPT_COST", 12),
			DisableLoginLimiter: getEnv("SECURITY_DISABLE_LOGIN_LIMITER", "") == "true",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(c.IsProduction()); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("rate limit config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout != 0 && c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

// Validate rejects the login limiter bypass outright in production: a mis-set
// flag must fail startup, never silently disable throttling.
func (c *SecurityConfig) Validate(production bool) error {
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	if c.SessionTTL < time.Minute {
		return errors.New("session_ttl must be at least 1 minute")
	}
	if c.RememberMeTTL < c.SessionTTL {
		return errors.New("remember_me_ttl must be >= session_ttl")
	}
	if production && c.DisableLoginLimiter {
		return errors.New("disable_login_limiter cannot be set in production")
	}
	return nil
}

func (c *RateLimitConfig) Validate() error {
	if c.GeneralMax <= 0 || c.LoginMax <= 0 {
		return errors.New("rate limit maximums must be positive")
	}
	if c.GeneralWindow <= 0 || c.LoginWindow <= 0 {
		return errors.New("rate limit windows must be positive")
	}
	return nil
}
