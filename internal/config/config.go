package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	Directory  DirectoryConfig  `toml:"directory"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки блокировок дня врача.
// При Enabled=false используется блокировка внутри процесса.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	LockTTL  int    `toml:"lock_ttl_ms"`
	LockWait int    `toml:"lock_wait_ms"`
}

// LockTTLDuration время жизни ключа блокировки
func (r RedisConfig) LockTTLDuration() time.Duration {
	return time.Duration(r.LockTTL) * time.Millisecond
}

// LockWaitDuration время ожидания занятой блокировки
func (r RedisConfig) LockWaitDuration() time.Duration {
	return time.Duration(r.LockWait) * time.Millisecond
}

// DirectoryConfig настройки справочника врачей и пациентов
type DirectoryConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SchedulingConfig правила записи
type SchedulingConfig struct {
	Timezone                        string `toml:"timezone"`
	MaxRangeDays                    int    `toml:"max_range_days"`
	DefaultAppointmentMinutes       int    `toml:"default_appointment_minutes"`
	NoShowRequiresPastDate          bool   `toml:"no_show_requires_past_date"`
	RequireClinicalFieldsOnComplete bool   `toml:"require_clinical_fields_on_complete"`
}

// Location часовой пояс клиники, по которому определяется "сегодня"
func (s SchedulingConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, s.Timezone, err)
	}
	return loc, nil
}

// ErrInvalidConfig некорректная конфигурация
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load читает TOML файл, затем .env и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
		}
		if c.Redis.LockTTL <= 0 {
			return fmt.Errorf("%w: redis.lock_ttl_ms must be positive", ErrInvalidConfig)
		}
	}
	if c.Directory.Enabled && c.Directory.URL == "" {
		return fmt.Errorf("%w: directory.url is required when directory is enabled", ErrInvalidConfig)
	}
	if c.Scheduling.MaxRangeDays <= 0 {
		return fmt.Errorf("%w: scheduling.max_range_days must be positive", ErrInvalidConfig)
	}
	if c.Scheduling.DefaultAppointmentMinutes < domain.MinSlotMinutes ||
		c.Scheduling.DefaultAppointmentMinutes > domain.MaxSlotMinutes {
		return fmt.Errorf("%w: scheduling.default_appointment_minutes out of range", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return err
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "clinic-scheduling",
		},
		Redis: RedisConfig{
			LockTTL:  5000,
			LockWait: 2000,
		},
		Directory: DirectoryConfig{Timeout: 5},
		Scheduling: SchedulingConfig{
			Timezone:                  "UTC",
			MaxRangeDays:              domain.DefaultMaxRangeDays,
			DefaultAppointmentMinutes: domain.DefaultAppointmentMinutes,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Server.HTTPPort = getEnvInt("HTTP_PORT", cfg.Server.HTTPPort)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Directory.URL = getEnv("DIRECTORY_URL", cfg.Directory.URL)
	cfg.Scheduling.Timezone = getEnv("APP_TIMEZONE", cfg.Scheduling.Timezone)
	cfg.Logs.Level = getEnv("LOG_LEVEL", cfg.Logs.Level)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, fallback)
		return fallback
	}
	return n
}
