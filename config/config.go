// Package config reads the collector's settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"switch-collector/pkg/cache"
	"switch-collector/pkg/collector"
	"switch-collector/util"
)

const (
	TransportNative  = "native"
	TransportNetSNMP = "netsnmp"

	BackendFile  = "file"
	BackendRedis = "redis"
)

type RedisConfig struct {
	Network string
	Addr    string
	DB      int
	Prefix  string
}

type RabbitMQConfig struct {
	Username string
	Password string
	URL      string

	// PEM file paths; TLS is used when ClientCert is set.
	CACert     string
	ClientCert string
	ClientKey  string
}

// DSN is the broker URL built from the credentials and host.
func (c RabbitMQConfig) DSN() string {
	scheme := "amqp://"
	if c.TLS() {
		scheme = "amqps://"
	}
	return scheme + c.Username + ":" + c.Password + "@" + c.URL
}

func (c RabbitMQConfig) TLS() bool {
	return c.ClientCert != ""
}

type Config struct {
	SNMP      collector.Config
	Transport string

	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration
	Redis        RedisConfig

	RabbitMQ      RabbitMQConfig
	SlaveID       string
	PublicKeyPath string
}

// Load reads .env files (missing ones are ignored) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		SNMP:         collector.DefaultConfig(),
		Transport:    getEnvOrDefault("SNMP_TRANSPORT", TransportNative),
		CacheBackend: getEnvOrDefault("CACHE_BACKEND", BackendFile),
		CacheDir:     getEnvOrDefault("CACHE_DIR", filepath.Join(util.GetRootDir(), "cache")),
		CacheTTL:     cache.DefaultTTL,
		Redis: RedisConfig{
			Network: getEnvOrDefault("REDIS_NETWORK", "tcp"),
			Addr:    getEnvOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
			Prefix:  getEnvOrDefault("REDIS_PREFIX", "switch:"),
		},
		RabbitMQ: RabbitMQConfig{
			Username: os.Getenv("RABBITMQ_USERNAME"),
			Password: os.Getenv("RABBITMQ_PASSWORD"),
			URL:      os.Getenv("RABBITMQ_URL"),

			CACert:     os.Getenv("RABBITMQ_SSL_CA"),
			ClientCert: os.Getenv("RABBITMQ_SSL_CERT"),
			ClientKey:  os.Getenv("RABBITMQ_SSL_KEY"),
		},
		SlaveID:       os.Getenv("COLLECTOR_SLAVE_ID"),
		PublicKeyPath: os.Getenv("COLLECTOR_PUBLIC_KEY"),
	}

	cfg.SNMP.Community = getEnvOrDefault("SNMP_COMMUNITY", cfg.SNMP.Community)
	cfg.SNMP.Version = getEnvOrDefault("SNMP_VERSION", cfg.SNMP.Version)

	var err error
	if cfg.SNMP.Port, err = getEnvInt("SNMP_PORT", cfg.SNMP.Port); err != nil {
		return cfg, err
	}
	if cfg.SNMP.Retries, err = getEnvInt("SNMP_RETRIES", cfg.SNMP.Retries); err != nil {
		return cfg, err
	}
	if cfg.SNMP.Timeout, err = getEnvDuration("SNMP_TIMEOUT", cfg.SNMP.Timeout); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return cfg, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.SNMP.Version {
	case "1", "2c":
	default:
		return fmt.Errorf("SNMP_VERSION %q: only 1 and 2c are supported", c.SNMP.Version)
	}
	if c.SNMP.Port <= 0 || c.SNMP.Port > 65535 {
		return fmt.Errorf("SNMP_PORT %d out of range", c.SNMP.Port)
	}
	if c.SNMP.Timeout <= 0 {
		return fmt.Errorf("SNMP_TIMEOUT must be positive")
	}
	if c.SNMP.Retries < 0 {
		return fmt.Errorf("SNMP_RETRIES must not be negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	switch c.Transport {
	case TransportNative, TransportNetSNMP:
	default:
		return fmt.Errorf("unknown SNMP_TRANSPORT %q", c.Transport)
	}
	switch c.CacheBackend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("1500ms") or plain seconds ("300").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
