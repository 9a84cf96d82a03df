package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config хранит настройки подключения к БД, HTTP-сервера, логирования и импорта лент.
type Config struct {
	Database Database `yaml:"database"`
	HTTP     HTTP     `yaml:"http"`
	Log      Log      `yaml:"log"`
	Feeds    Feeds    `yaml:"feeds"`
}

// Database — строка подключения и учётные данные. User и Password перекрывают значения из DSN.
type Database struct {
	DSN      string `yaml:"dsn"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int32  `yaml:"max_conns"`
}

type HTTP struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Feeds — список RSS-лент для периодического импорта и расписание опроса в формате cron.
type Feeds struct {
	URLs     []string `yaml:"urls"`
	Schedule string   `yaml:"schedule"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		Database: Database{MaxConns: 10},
		HTTP:     HTTP{Addr: ":8080", ShutdownTimeout: 5},
		Log:      Log{Level: "info"},
		Feeds:    Feeds{Schedule: "@every 5m"},
	}
}

// Validate проверяет обязательные поля, уровень логирования, URL лент и расписание.
func (cfg *Config) Validate() error {
	if cfg.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if cfg.Database.MaxConns < 1 {
		return errors.New("database max_conns must be ≥ 1")
	}
	if cfg.HTTP.Addr == "" {
		return errors.New("http addr is required")
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	for _, u := range cfg.Feeds.URLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	if len(cfg.Feeds.URLs) > 0 {
		if _, err := cron.ParseStandard(cfg.Feeds.Schedule); err != nil {
			return fmt.Errorf("invalid feeds schedule %q: %w", cfg.Feeds.Schedule, err)
		}
	}
	return nil
}

// LoadConfig читает YAML-файл по пути path (если путь не пуст), затем применяет переменные окружения.
// Validate вызывающий код выполняет сам.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_UNAME"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASS"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_CONNS: %s", v)
		}
		cfg.Database.MaxConns = int32(n)
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Log.Level = "debug"
	}
	return nil
}
