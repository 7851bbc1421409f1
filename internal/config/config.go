// config - источник загрузки конфигурации для portal-gateway.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Sessions SessionsConfig `yaml:"sessions"`
	Fetch    FetchConfig    `yaml:"fetch"`
}

// TimeoutConfig — таймауты шлюза.
//
// Service — общий таймаут HTTP-запроса и вызова бэкенда.
// Settle — сколько View ждёт завершения загрузок сессии.
// Views — таймаут инкремента счётчика просмотров.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
	Settle  time.Duration `yaml:"settle"  env:"SETTLE"  env-default:"3s"`
	Views   time.Duration `yaml:"views"   env:"VIEWS_TIMEOUT" env-default:"3s"`
}

// HTTPConfig — публичный REST-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MetricsConfig — отдельный HTTP для Prometheus и health-проверок.
type MetricsConfig struct {
	Host string `yaml:"host"   env:"METRICS_HOST"   env-default:"0.0.0.0"`
	Port string `yaml:"port"   env:"METRICS_PORT"   env-default:"50085"`
}

func (m MetricsConfig) Addr() string { return net.JoinHostPort(m.Host, m.Port) }

// GRPCConfig — адрес бэкенда контента.
type GRPCConfig struct {
	ContentAddr string `yaml:"content_addr" env:"GRPC_CONTENT_ADDR" env-default:"0.0.0.0:50082"`
}

// FeedsConfig — размеры страниц лент.
type FeedsConfig struct {
	TopSize     int `yaml:"top_size"     env:"FEEDS_TOP_SIZE"     env-default:"5"`
	RegularSize int `yaml:"regular_size" env:"FEEDS_REGULAR_SIZE" env-default:"10"`
	SearchSize  int `yaml:"search_size"  env:"FEEDS_SEARCH_SIZE"  env-default:"10"`
}

// SessionsConfig — реестр сессий ридера.
type SessionsConfig struct {
	TTL             time.Duration `yaml:"ttl"              env:"SESSIONS_TTL"              env-default:"30m"`
	Max             int           `yaml:"max"              env:"SESSIONS_MAX"              env-default:"10000"`
	JanitorInterval time.Duration `yaml:"janitor_interval" env:"SESSIONS_JANITOR_INTERVAL" env-default:"1m"`
}

// FetchConfig — ограничение частоты исходящих вызовов к бэкенду.
type FetchConfig struct {
	RPS   float64 `yaml:"rps"   env:"FETCH_RPS"   env-default:"200"`
	Burst int     `yaml:"burst" env:"FETCH_BURST" env-default:"50"`
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

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	validated := func(c *Config, err error) (*Config, error) {
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 1) --config
	if path != "" {
		return validated(tryRead(path))
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return validated(tryRead(envPath))
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return validated(tryRead("local.yaml"))
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return validated(&cfg, nil)
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.GRPC.ContentAddr == "" {
		return fmt.Errorf("grpc.content_addr is required")
	}
	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}
	if c.Timeouts.Settle < 0 {
		return fmt.Errorf("timeouts.settle must be >= 0")
	}
	if c.Feeds.TopSize <= 0 || c.Feeds.RegularSize <= 0 || c.Feeds.SearchSize <= 0 {
		return fmt.Errorf("feeds sizes must be > 0")
	}
	if c.Sessions.TTL < time.Second {
		return fmt.Errorf("sessions.ttl must be at least 1s")
	}
	if c.Sessions.Max < 0 {
		return fmt.Errorf("sessions.max must be >= 0")
	}
	if c.Fetch.RPS <= 0 {
		return fmt.Errorf("fetch.rps must be > 0")
	}
	if c.Fetch.Burst <= 0 {
		return fmt.Errorf("fetch.burst must be > 0")
	}
	return nil
}
