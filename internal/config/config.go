package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Sim        SimConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Ticket     TicketConfig
	Server     ServerConfig
	Session    SessionConfig
	Slack      SlackConfig
	SelfHosted bool
}

// SimConfig holds the case-simulation service settings.
type SimConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// TicketConfig holds session ticket signing settings.
type TicketConfig struct {
	Secret string //nolint:gosec // G117: ticket signing secret config
	TTL    time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// SessionConfig holds live session lifecycle settings.
type SessionConfig struct {
	IdleAfter time.Duration
}

// SlackConfig holds the verdict announcement settings.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (ticket secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	simTimeout, err := getEnvDuration("GAVEL_SIM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbPort, err := getEnvInt("GAVEL_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("GAVEL_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("GAVEL_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	ticketTTL, err := getEnvDuration("GAVEL_TICKET_TTL", 4*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("GAVEL_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("GAVEL_SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	idleAfter, err := getEnvDuration("GAVEL_SESSION_IDLE_AFTER", 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("GAVEL_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("GAVEL_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Sim: SimConfig{
			BaseURL: getEnv("GAVEL_SIM_BASE_URL", "http://localhost:8000"),
			Timeout: simTimeout,
		},
		Database: DatabaseConfig{
			Host:     getEnv("GAVEL_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("GAVEL_DB_USER", "gavel"),
			Password: getEnv("GAVEL_DB_PASSWORD", ""),
			DBName:   getEnv("GAVEL_DB_NAME", "gavel_dev"),
			SSLMode:  getEnv("GAVEL_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("GAVEL_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("GAVEL_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Ticket: TicketConfig{
			Secret: getEnv("GAVEL_TICKET_SECRET", ""),
			TTL:    ticketTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("GAVEL_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Session: SessionConfig{
			IdleAfter: idleAfter,
		},
		Slack: SlackConfig{
			BotToken: getEnv("GAVEL_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("GAVEL_SLACK_CHANNEL", "#courtroom"),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// Ticket secret is required (no insecure default).
	if c.Ticket.Secret == "" {
		return errors.New("GAVEL_TICKET_SECRET is required")
	}
	if len(c.Ticket.Secret) < 32 {
		return errors.New("GAVEL_TICKET_SECRET must be at least 32 characters")
	}

	if c.Sim.BaseURL == "" {
		return errors.New("GAVEL_SIM_BASE_URL is required")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("GAVEL_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("GAVEL_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("GAVEL_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Sim.Timeout <= 0 {
		return fmt.Errorf("GAVEL_SIM_TIMEOUT must be positive, got %s", c.Sim.Timeout)
	}
	if c.Ticket.TTL <= 0 {
		return fmt.Errorf("GAVEL_TICKET_TTL must be positive, got %s", c.Ticket.TTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("GAVEL_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("GAVEL_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Session.IdleAfter < 0 {
		return fmt.Errorf("GAVEL_SESSION_IDLE_AFTER must not be negative, got %s", c.Session.IdleAfter)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
