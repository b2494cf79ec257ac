// config - источник загрузки конфигурации CLI-клиента TwainCards.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Допустимые хранилища токена.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

var (
	// ErrInvalidConfig — конфигурация прочитана, но содержит недопустимые значения.
	ErrInvalidConfig = errors.New("invalid config")
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig     `yaml:"api"`
	Token    TokenConfig   `yaml:"token"`
	Redis    RedisConfig   `yaml:"redis"`
	Study    StudyConfig   `yaml:"study"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Tracing  TracingConfig `yaml:"tracing"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// APIConfig — адрес удалённого REST API.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"   env:"API_BASE_URL"   env-default:"http://localhost:8080"`
	UserAgent string `yaml:"user_agent" env:"API_USER_AGENT" env-default:"twaincards-cli"`
}

// TimeoutConfig — общий таймаут одного HTTP-запроса.
type TimeoutConfig struct {
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"30s"`
}

// TokenConfig — где хранится токен доступа между запусками.
type TokenConfig struct {
	Store string `yaml:"store" env:"TOKEN_STORE" env-default:"file"`
	// Path — файл для StoreFile; пустой путь означает каталог конфигурации пользователя.
	Path string `yaml:"path" env:"TOKEN_PATH"`
}

// RedisConfig — общий для нескольких хостов логин (StoreRedis).
type RedisConfig struct {
	URL    string `yaml:"url"    env:"REDIS_URL"`
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"twaincards:"`
}

// StudyConfig — параметры сессии обучения.
type StudyConfig struct {
	StartSide       string        `yaml:"start_side"       env:"STUDY_START_SIDE"       env-default:"front"`
	BatchSize       int           `yaml:"batch_size"       env:"STUDY_BATCH_SIZE"       env-default:"20"`
	AnswerDelay     time.Duration `yaml:"answer_delay"     env:"STUDY_ANSWER_DELAY"     env-default:"950ms"`
	TransitionDelay time.Duration `yaml:"transition_delay" env:"STUDY_TRANSITION_DELAY" env-default:"50ms"`
	DeviceType      string        `yaml:"device_type"      env:"STUDY_DEVICE_TYPE"      env-default:"desktop"`
}

// MetricsConfig — необязательный HTTP для Prometheus; пустой порт выключает его.
type MetricsConfig struct {
	Host string `yaml:"host" env:"METRICS_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"METRICS_PORT"`
}

func (m MetricsConfig) Addr() string { return net.JoinHostPort(m.Host, m.Port) }

func (m MetricsConfig) Enabled() bool { return m.Port != "" }

// TracingConfig — экспорт трасс по OTLP/HTTP; пустой endpoint выключает экспорт.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"     env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"twaincards-cli"`
	Insecure    bool   `yaml:"insecure"     env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}

// Validate проверяет значения, которые cleanenv не умеет ограничить тегами.
func (c *Config) Validate() error {
	switch c.Token.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: token.store=redis requires redis.url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown token.store %q", ErrInvalidConfig, c.Token.Store)
	}

	switch c.Study.StartSide {
	case "front", "back", "random":
	default:
		return fmt.Errorf("%w: unknown study.start_side %q", ErrInvalidConfig, c.Study.StartSide)
	}

	if c.Study.BatchSize <= 0 {
		return fmt.Errorf("%w: study.batch_size must be positive", ErrInvalidConfig)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}

	return nil
}
