package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := load(viper.New())

	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, EventsTopic, cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, strings.HasPrefix(cfg.Kafka.ConsumerGroup, "insightsd-cache-"))
	assert.True(t, cfg.Reports.SchedulerEnabled)
	assert.Equal(t, "require", cfg.Postgres().SSLMode)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_CONSUMER_GROUP", "fixed-group")
	t.Setenv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_MAX_ENTRIES", "500")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg := load(viper.New())

	assert.Equal(t, ":8181", cfg.HTTPAddr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 500, cfg.Cache.MaxEntries)
	require.NoError(t, cfg.Validate())

	kc := cfg.KafkaClient()
	assert.True(t, kc.SASLEnabled)
	assert.Equal(t, "fixed-group", kc.ConsumerGroup)
	assert.True(t, kc.Enabled())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:    DatabaseConfig{Password: "pw"},
			JWT:   JWTConfig{Secret: "s"},
			Cache: CacheConfig{Backend: "memory", TTL: time.Minute, MaxEntries: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"no password", func(c *Config) { c.DB.Password = "" }, "DB_PASSWORD"},
		{"no jwt key", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET"},
		{"redis without address", func(c *Config) { c.Cache.Backend = "redis" }, "REDIS_ADDR"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
