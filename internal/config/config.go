package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Blob       BlobConfig       `yaml:"blob"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	MinIO      MinIOConfig      `yaml:"minio"`
	NATS       NATSConfig       `yaml:"nats"`
	Sync       SyncConfig       `yaml:"sync"`
	Simulation SimulationConfig `yaml:"simulation"`
	Session    SessionConfig    `yaml:"session"`
	Logging    LoggingConfig    `yaml:"logging"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// BlobConfig selects the key-value backend that persists the registry.
type BlobConfig struct {
	Driver string `yaml:"driver"` // memory, postgres, redis, minio
	Prefix string `yaml:"prefix"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type SyncConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron expression, empty disables scheduled drains
}

// SimulationConfig holds the fixed delays of the simulated operations.
type SimulationConfig struct {
	FingerprintCapture time.Duration `yaml:"fingerprint_capture"`
	PhotoCapture       time.Duration `yaml:"photo_capture"`
	FingerprintScan    time.Duration `yaml:"fingerprint_scan"`
	FaceScan           time.Duration `yaml:"face_scan"`
	ProgressTick       time.Duration `yaml:"progress_tick"`
	Print              time.Duration `yaml:"print"`
	Report             time.Duration `yaml:"report"`
	SendToAuthorities  time.Duration `yaml:"send_to_authorities"`
	CloudSync          time.Duration `yaml:"cloud_sync"`
}

type SessionConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// WorkerConfig tunes the sync archive worker.
type WorkerConfig struct {
	Count       int `yaml:"count"`
	MetricsPort int `yaml:"metrics_port"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config bytes, then applies env overrides and defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Blob.Driver {
	case "memory", "postgres", "redis", "minio":
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Blob.Driver == "" {
		cfg.Blob.Driver = "memory"
	}
	if cfg.Blob.Prefix == "" {
		cfg.Blob.Prefix = "disasterbio/"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "disasterbio"
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}

	sim := &cfg.Simulation
	if sim.FingerprintCapture == 0 {
		sim.FingerprintCapture = 2 * time.Second
	}
	if sim.PhotoCapture == 0 {
		sim.PhotoCapture = 1500 * time.Millisecond
	}
	if sim.FingerprintScan == 0 {
		sim.FingerprintScan = 3 * time.Second
	}
	if sim.FaceScan == 0 {
		sim.FaceScan = 4 * time.Second
	}
	if sim.ProgressTick == 0 {
		sim.ProgressTick = 200 * time.Millisecond
	}
	if sim.Print == 0 {
		sim.Print = 2 * time.Second
	}
	if sim.Report == 0 {
		sim.Report = 2 * time.Second
	}
	if sim.SendToAuthorities == 0 {
		sim.SendToAuthorities = 3 * time.Second
	}
	if sim.CloudSync == 0 {
		sim.CloudSync = 3 * time.Second
	}

	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	if cfg.Session.CleanupInterval == 0 {
		cfg.Session.CleanupInterval = 5 * time.Minute
	}

	if cfg.Worker.Count == 0 {
		cfg.Worker.Count = 2
	}
	if cfg.Worker.MetricsPort == 0 {
		cfg.Worker.MetricsPort = 8082
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 100
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 28
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DBIO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DBIO_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("DBIO_BLOB_DRIVER"); v != "" {
		cfg.Blob.Driver = v
	}
	if v := os.Getenv("DBIO_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DBIO_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DBIO_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DBIO_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DBIO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DBIO_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DBIO_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DBIO_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("DBIO_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("DBIO_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("DBIO_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("DBIO_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DBIO_SYNC_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sync.Enabled = b
		}
	}
	if v := os.Getenv("DBIO_SYNC_SCHEDULE"); v != "" {
		cfg.Sync.Schedule = v
	}
	if v := os.Getenv("DBIO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DBIO_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
