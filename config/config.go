package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Logger    LoggerConfig    `yaml:"logger"`
	Source    SourceConfig    `yaml:"source"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Worker    WorkerConfig    `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" validate:"required"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	// Empty disables the gRPC listener.
	Address string `yaml:"address"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
	Output string `yaml:"output"`
}

const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"
)

type SourceConfig struct {
	Kind string    `yaml:"kind" validate:"oneof=api postgres"`
	API  APIConfig `yaml:"api"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url" validate:"omitempty,url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	// Empty Addr disables snapshot caching.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishRetries     int      `yaml:"publish_retries" validate:"gte=0"`
}

type DashboardConfig struct {
	HighValueThreshold float64  `yaml:"high_value_threshold" validate:"gte=0"`
	OverdueStatuses    []string `yaml:"overdue_statuses"`
	DefaultGSTPercent  float64  `yaml:"default_gst_percent" validate:"gte=0,lt=100"`
	SearchDebounceMS   int      `yaml:"search_debounce_ms" validate:"gte=0"`
	PaletteLimit       int      `yaml:"palette_limit" validate:"gte=0"`
	PageSize           int      `yaml:"page_size" validate:"gte=0"`
	Timezone           string   `yaml:"timezone"`
	Language           string   `yaml:"language"`
	SnapshotTTLSeconds int      `yaml:"snapshot_ttl_seconds" validate:"gte=0"`
}

func (d DashboardConfig) SearchDebounce() time.Duration {
	return time.Duration(d.SearchDebounceMS) * time.Millisecond
}

func (d DashboardConfig) SnapshotTTL() time.Duration {
	return time.Duration(d.SnapshotTTLSeconds) * time.Second
}

// Location resolves Timezone, falling back to the host zone.
func (d DashboardConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Timezone)
}

type WorkerConfig struct {
	WarmIntervalSeconds int      `yaml:"warm_interval_seconds" validate:"gte=0"`
	WarmOwners          []string `yaml:"warm_owners"`
	InvalidateDelayMS   int      `yaml:"invalidate_delay_ms" validate:"gte=0"`
}

func (w WorkerConfig) WarmInterval() time.Duration {
	return time.Duration(w.WarmIntervalSeconds) * time.Second
}

func (w WorkerConfig) InvalidateDelay() time.Duration {
	return time.Duration(w.InvalidateDelayMS) * time.Millisecond
}

// LoadConfig reads the YAML file at path. Variables from a .env file next to
// the process are loaded first and ${VAR} references in the file are expanded.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceAPI
	}
	if c.Source.API.TimeoutSeconds == 0 {
		c.Source.API.TimeoutSeconds = 10
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-status-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "booking-view-worker"
	}
	if c.Kafka.PublishRetries == 0 {
		c.Kafka.PublishRetries = 3
	}

	d := &c.Dashboard
	if d.HighValueThreshold == 0 {
		d.HighValueThreshold = 2000
	}
	if len(d.OverdueStatuses) == 0 {
		d.OverdueStatuses = []string{"TENTATIVE"}
	}
	if d.DefaultGSTPercent == 0 {
		d.DefaultGSTPercent = 10
	}
	if d.SearchDebounceMS == 0 {
		d.SearchDebounceMS = 300
	}
	if d.PaletteLimit == 0 {
		d.PaletteLimit = 8
	}
	if d.PageSize == 0 {
		d.PageSize = 50
	}
	if d.Language == "" {
		d.Language = "en"
	}
	if d.SnapshotTTLSeconds == 0 {
		d.SnapshotTTLSeconds = 60
	}

	if c.Worker.WarmIntervalSeconds == 0 {
		c.Worker.WarmIntervalSeconds = 300
	}
	if c.Worker.InvalidateDelayMS == 0 {
		c.Worker.InvalidateDelayMS = 500
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Dashboard.Location(); err != nil {
		return fmt.Errorf("invalid config: dashboard.timezone: %w", err)
	}
	if c.Source.Kind == SourceAPI && c.Source.API.BaseURL == "" {
		return fmt.Errorf("invalid config: source.api.base_url is required for the api source")
	}
	if c.Source.Kind == SourcePostgres && c.Database.Host == "" {
		return fmt.Errorf("invalid config: database.host is required for the postgres source")
	}
	return nil
}
