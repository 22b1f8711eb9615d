package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Booking  BookingConfig  `toml:"booking"`
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	Email    EmailConfig    `toml:"email"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`     // секунды
	WriteTimeout    int      `toml:"write_timeout"`    // секунды
	IdleTimeout     int      `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int      `toml:"shutdown_timeout"` // секунды
	RequestTimeout  int      `toml:"request_timeout"`  // секунды, дедлайн на обработку запроса
	RateLimitRPS    float64  `toml:"rate_limit_rps"`   // 0 = без ограничения
	RateLimitBurst  int      `toml:"rate_limit_burst"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	TrustedProxies  []string `toml:"trusted_proxies"` // IP или CIDR; только им верим X-Forwarded-For
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	TxMaxRetries    int    `toml:"tx_max_retries"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// URL строка подключения в формате URL (для golang-migrate)
func (d DatabaseConfig) URL() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, sslMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	SessionTTL     int    `toml:"session_ttl"`  // секунды, время жизни черновика записи
	LockTTLMillis  int    `toml:"lock_ttl_ms"`  // время жизни лока слота
	LockWaitMillis int    `toml:"lock_wait_ms"` // сколько ждать освобождения лока
}

type BookingConfig struct {
	Timezone            string `toml:"timezone"`
	OpenTime            string `toml:"open_time"`
	CloseTime           string `toml:"close_time"`
	SlotIntervalMinutes int    `toml:"slot_interval_minutes"`
	IgnoreShifts        bool   `toml:"ignore_shifts"` // true = только фиксированная сетка, без графиков мастеров
	CountryCode         string `toml:"country_code"`
	Locale              string `toml:"locale"`
}

// Location часовой пояс салона
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// SlotGrid сетка слотов из конфигурации
func (b BookingConfig) SlotGrid() domain.SlotGrid {
	return domain.SlotGrid{
		Open:            types.TimeString(b.OpenTime),
		Close:           types.TimeString(b.CloseTime),
		IntervalMinutes: b.SlotIntervalMinutes,
	}
}

type WhatsAppConfig struct {
	Enabled      bool   `toml:"enabled"` // false = сообщения только логируются (simulated)
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	Timeout      int    `toml:"timeout"` // секунды
	LanguageCode string `toml:"language_code"`
}

type EmailConfig struct {
	Enabled        bool   `toml:"enabled"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
}

type EventsConfig struct {
	Enabled bool   `toml:"enabled"`
	Channel string `toml:"channel"`
}

// Load читает TOML-файл, подмешивает .env и переменные окружения
func Load(path string) (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, от которых зависит запуск
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	grid := c.Booking.SlotGrid()
	if err := grid.Open.Validate(); err != nil {
		return fmt.Errorf("%w: booking.open_time: %v", ErrInvalidConfig, err)
	}
	if err := grid.Close.Validate(); err != nil {
		return fmt.Errorf("%w: booking.close_time: %v", ErrInvalidConfig, err)
	}
	if !grid.Open.IsBefore(grid.Close) {
		return fmt.Errorf("%w: booking.open_time must be before booking.close_time", ErrInvalidConfig)
	}
	if grid.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_interval_minutes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	if c.WhatsApp.Enabled && c.WhatsApp.URL == "" {
		return fmt.Errorf("%w: whatsapp.url is required when whatsapp is enabled", ErrInvalidConfig)
	}
	if c.Email.Enabled && (c.Email.SendGridAPIKey == "" || c.Email.FromEmail == "") {
		return fmt.Errorf("%w: email.sendgrid_api_key and email.from_email are required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    20,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			RequestTimeout:  15,
			RateLimitBurst:  20,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxMaxRetries:    3,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "barber-booking-service"},
		Redis: RedisConfig{
			SessionTTL:     3600,
			LockTTLMillis:  10000,
			LockWaitMillis: 2000,
		},
		Booking: BookingConfig{
			Timezone:            "Europe/Paris",
			OpenTime:            string(domain.DefaultOpenTime),
			CloseTime:           string(domain.DefaultCloseTime),
			SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
			CountryCode:         domain.DefaultCountryCode,
			Locale:              "fr",
		},
		WhatsApp: WhatsAppConfig{Timeout: 10, LanguageCode: "fr"},
		Events:   EventsConfig{Channel: "appointments_changed"},
	}
}

// applyEnv секреты и адреса удобнее передавать через окружение
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setInt(&cfg.Server.HTTPPort, "HTTP_PORT")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.WhatsApp.Token, "WHATSAPP_API_TOKEN")
	setString(&cfg.WhatsApp.URL, "WHATSAPP_API_URL")
	setString(&cfg.Email.SendGridAPIKey, "SENDGRID_API_KEY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
