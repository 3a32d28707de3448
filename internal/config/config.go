package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
	IdleTimeoutRaw string `yaml:"idle_timeout"` // формат time.ParseDuration, например "5m"

	IdleTimeout time.Duration `yaml:"-"`

	// Адрес хранилища и сервисный ключ приходят только из окружения,
	// в config.yml их не кладём
	URL        string `yaml:"-"`
	ServiceKey string `yaml:"-"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" или "inmemory"
}

type DashboardConfig struct {
	Timezone      string `yaml:"timezone"`       // IANA-имя, пусто = Local
	AllowedOrigin string `yaml:"allowed_origin"` // origin фронтенда для CORS
}

func Load() (*Config, error) {
	file, err := os.Open("config.yml")
	if err != nil {
		return nil, fmt.Errorf("не могу открыть config.yml: %w", err)
	}
	defer file.Close()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
	}

	if cfg.Database.IdleTimeoutRaw != "" {
		idleTimeout, err := time.ParseDuration(cfg.Database.IdleTimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("разбор idle_timeout: %w", err)
		}
		cfg.Database.IdleTimeout = idleTimeout
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.Database.ServiceKey = os.Getenv("DATABASE_SERVICE_KEY")

	if cfg.Repository.Type == "postgres" {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("переменная окружения DATABASE_URL обязательна для postgres")
		}
		if cfg.Database.ServiceKey == "" {
			return nil, fmt.Errorf("переменная окружения DATABASE_SERVICE_KEY обязательна для postgres")
		}
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetConnString подставляет сервисный ключ как пароль в DSN
func (c *Config) GetConnString() (string, error) {
	u, err := url.Parse(c.Database.URL)
	if err != nil {
		return "", fmt.Errorf("разбор DATABASE_URL: %w", err)
	}

	user := "postgres"
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, c.Database.ServiceKey)

	return u.String(), nil
}

// GetLocation возвращает зону для календарной группировки дашборда
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Dashboard.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестная таймзона %q: %w", c.Dashboard.Timezone, err)
	}
	return loc, nil
}
