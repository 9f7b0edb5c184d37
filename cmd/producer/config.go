package main

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Brokers             []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"kafka:9092"`
	Topic               string        `env:"KAFKA_INBOUND_TOPIC" envDefault:"instructions.inbound"`
	Rate                int           `env:"TRADES_PER_SEC" envDefault:"1"`
	ProducerStayAlive   bool          `env:"PRODUCER_STAY_ALIVE" envDefault:"false"`
	ProducerTTL         time.Duration `env:"PRODUCER_TTL" envDefault:"2m"`
	ProducerEnsureTopic bool          `env:"PRODUCER_ENSURE_TOPIC" envDefault:"true"`
	// BadRatio is the share of instructions generated with a missing account
	// or security id, to exercise the service's drop paths.
	BadRatio float64 `env:"PRODUCER_BAD_RATIO" envDefault:"0.05"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.Brokers = parseBrokers(cfg.Brokers)
	if len(cfg.Brokers) == 0 {
		return cfg, errors.New("KAFKA_BROKERS is empty")
	}
	if cfg.Rate <= 0 || cfg.Rate > 50 {
		cfg.Rate = 1
	}
	return cfg, nil
}

func parseBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
