package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"hati/internal/book"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
	} `yaml:"server"`
	Feed struct {
		URL     string   `yaml:"url"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"feed"`
	Book struct {
		PriceDecimals    int `yaml:"price_decimals"`
		QuantityDecimals int `yaml:"quantity_decimals"`
	} `yaml:"book"`
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

func defaults() Config {
	var c Config
	c.Server.Address = "0.0.0.0"
	c.Server.Port = 9001
	c.Feed.URL = "ws://127.0.0.1:8546/depth"
	c.Feed.Symbols = []string{"BTCUSDT"}
	c.Book.PriceDecimals = book.DefaultDecimals
	c.Book.QuantityDecimals = book.DefaultDecimals
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	return c
}

// Load reads the yaml config at path, applies env overrides and validates.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if v := os.Getenv("HATI_FEED_URL"); v != "" {
		cfg.Feed.URL = v
	}
	if v := os.Getenv("HATI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Validation
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return cfg, errors.New("invalid port")
	}
	if cfg.Feed.URL == "" {
		return cfg, errors.New("feed url must be set")
	}
	if len(cfg.Feed.Symbols) == 0 {
		return cfg, errors.New("at least one symbol must be configured")
	}
	for _, decimals := range []int{cfg.Book.PriceDecimals, cfg.Book.QuantityDecimals} {
		if decimals < 0 || decimals > book.MaxDecimals {
			return cfg, fmt.Errorf("decimals %d: %w", decimals, book.ErrTooManyDecimals)
		}
	}
	return cfg, nil
}

// NewLogger configures the global zerolog level and output.
func NewLogger(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	l := log.Logger
	if cfg.Logging.Pretty {
		l = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return l
}
