package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultPlatformID is used when PLATFORM_ID is unset or blank.
const DefaultPlatformID = "ACCT123"

type Config struct {
	KafkaBrokers       []string `env:"KAFKA_BROKERS,required,notEmpty" envSeparator:","`
	KafkaInboundTopic  string   `env:"KAFKA_INBOUND_TOPIC" envDefault:"instructions.inbound"`
	KafkaOutboundTopic string   `env:"KAFKA_OUTBOUND_TOPIC" envDefault:"instructions.outbound"`
	KafkaGroupID       string   `env:"KAFKA_GROUP_ID" envDefault:"instructions-capture"`
	FeedWorkers        int      `env:"FEED_WORKERS" envDefault:"1"`
	PlatformID         string   `env:"PLATFORM_ID"`
	Port               string   `env:"PORT" envDefault:"8080"`
	CORSOrigin         string   `env:"CORS_ORIGIN" envDefault:"*"`
	MaxUploadBytes     int64    `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	brokers := cfg.KafkaBrokers[:0]
	for _, b := range cfg.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return cfg, errors.New("KAFKA_BROKERS is empty")
	}
	cfg.KafkaBrokers = brokers
	if cfg.PlatformID = strings.TrimSpace(cfg.PlatformID); cfg.PlatformID == "" {
		cfg.PlatformID = DefaultPlatformID
	}
	if cfg.FeedWorkers < 1 {
		return cfg, errors.New("FEED_WORKERS must be at least 1")
	}
	return cfg, nil
}
