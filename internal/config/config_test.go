package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "instructions.inbound", cfg.KafkaInboundTopic)
	assert.Equal(t, "instructions.outbound", cfg.KafkaOutboundTopic)
	assert.Equal(t, DefaultPlatformID, cfg.PlatformID)
	assert.Equal(t, 1, cfg.FeedWorkers)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "8080", cfg.Port)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("PLATFORM_ID", "EQUITIES-EU")
	t.Setenv("FEED_WORKERS", "4")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "EQUITIES-EU", cfg.PlatformID)
	assert.Equal(t, 4, cfg.FeedWorkers)
}

func TestParseRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsBlankBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsZeroWorkers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("FEED_WORKERS", "0")
	_, err := Parse()
	assert.Error(t, err)
}

func TestParseBlankPlatformIDFallsBack(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("PLATFORM_ID", "  ")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DefaultPlatformID, cfg.PlatformID)
}
