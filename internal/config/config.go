package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Admin     AdminConfig
	Grid      GridConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Environment     string
	AllowedOrigins  []string
}

// DatabaseConfig arma el DSN desde DB_* (o POSTGRES_*) salvo que venga DB_DSN completo.
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AdminConfig struct {
	APIKey        string
	JWTSecret     string
	TokenTTL      time.Duration
	AllowedEmails []string
}

type GridConfig struct {
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
	WriteTimeout       time.Duration
}

type RateLimitConfig struct {
	// Formato de ulule/limiter: "<límite>-<período>", ej. "120-M".
	Public string
	Admin  string
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load lee .env (si existe) y el entorno. No valida; ver Validate.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("sin .env, se usan solo variables de entorno")
	}
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getListEnv("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			DSN:      strings.TrimSpace(os.Getenv("DB_DSN")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres")),
			Password: getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres")),
			Name:     getEnv("DB_NAME", getEnv("POSTGRES_DB", "cabinetry")),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Admin: AdminConfig{
			APIKey:        os.Getenv("ADMIN_API_KEY"),
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      getDurationEnv("ADMIN_TOKEN_TTL", 12*time.Hour),
			AllowedEmails: getListEnv("ADMIN_ALLOWED_EMAILS"),
		},
		Grid: GridConfig{
			SessionIdleTimeout: getDurationEnv("GRID_SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval:      getDurationEnv("GRID_SWEEP_INTERVAL", time.Minute),
			WriteTimeout:       getDurationEnv("GRID_WRITE_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Public: getEnv("RATE_LIMIT_PUBLIC", "300-M"),
			Admin:  getEnv("RATE_LIMIT_ADMIN", "60-M"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", true),
		},
	}
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT inválido: %q", c.Server.Port)
	}
	if c.Admin.JWTSecret == "" {
		return errors.New("JWT_SECRET es requerido")
	}
	if c.Server.IsProduction() && len(c.Admin.JWTSecret) < 32 {
		return errors.New("JWT_SECRET debe tener al menos 32 caracteres en producción")
	}
	if c.Admin.APIKey == "" {
		return errors.New("ADMIN_API_KEY es requerido")
	}
	if c.Grid.SessionIdleTimeout <= 0 || c.Grid.SweepInterval <= 0 {
		return errors.New("GRID_SESSION_IDLE_TIMEOUT y GRID_SWEEP_INTERVAL deben ser positivos")
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL inválido: %w", err)
	}
	return nil
}

// DSNString devuelve DB_DSN o lo arma en formato key=value de lib/pq.
func (c DatabaseConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host + " user=" + c.User + " password=" + c.Password + " dbname=" + c.Name + " port=" + c.Port + " sslmode=" + c.SSLMode
}

func (c ServerConfig) IsProduction() bool { return c.Environment == "production" }

// AdminAllowed indica si el email puede pedir un token de admin. Lista vacía = cualquiera con la API key.
func (c AdminConfig) AdminAllowed(email string) bool {
	if len(c.AllowedEmails) == 0 {
		return true
	}
	e := strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AllowedEmails {
		if strings.ToLower(a) == e {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("duración inválida, se usa el default")
		return def
	}
	return d
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("booleano inválido, se usa el default")
		return def
	}
	return b
}

func getListEnv(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
