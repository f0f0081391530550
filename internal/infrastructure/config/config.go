package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/aniketri/real-insights-data/pkg/kafka"
	"github.com/aniketri/real-insights-data/pkg/postgres"
)

// ServiceName labels logs, traces and metrics.
const ServiceName = "insightsd"

// EventsTopic carries every domain event of the service.
const EventsTopic = "insights.events"

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	TLS           bool
}

type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend    string
	RedisAddr  string
	TTL        time.Duration
	MaxEntries int
}

type ReportsConfig struct {
	// ArchiveBucket selects S3 storage; empty keeps artifacts inline.
	ArchiveBucket string
	ArchivePrefix string
	AWSRegion     string

	// SchedulerEnabled registers cron-scheduled report definitions.
	SchedulerEnabled bool
}

type JWTConfig struct {
	Secret        string
	PublicKeyFile string
	Issuer        string
	Leeway        time.Duration
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type Config struct {
	GRPCPort        int
	HTTPPort        int
	DB              DatabaseConfig
	Kafka           KafkaConfig
	Cache           CacheConfig
	Reports         ReportsConfig
	JWT             JWTConfig
	TLS             TLSConfig
	LogLevel        string
	LogFormat       string
	OTLPEndpoint    string
	GRPCReflection  bool
	ShutdownTimeout time.Duration
	ServiceName     string
	InstanceID      string
}

// Validate reports configuration that would prevent the service from starting.
func (c Config) Validate() error {
	if c.DB.Password == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyFile == "" {
		return errors.New("JWT_SECRET or JWT_PUBLIC_KEY_FILE is required")
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 || c.Cache.MaxEntries <= 0 {
		return errors.New("CACHE_TTL and CACHE_MAX_ENTRIES must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GRPC_PORT", 9090)
	v.SetDefault("HTTP_PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "insights")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "real_insights")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", EventsTopic)
	v.SetDefault("KAFKA_CONSUMER_GROUP", "")
	v.SetDefault("KAFKA_SASL_MECHANISM", "")
	v.SetDefault("KAFKA_SASL_USERNAME", "")
	v.SetDefault("KAFKA_SASL_PASSWORD", "")
	v.SetDefault("KAFKA_TLS", false)

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("CACHE_MAX_ENTRIES", 100)

	v.SetDefault("REPORT_ARCHIVE_BUCKET", "")
	v.SetDefault("REPORT_ARCHIVE_PREFIX", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("REPORT_SCHEDULER_ENABLED", true)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_PUBLIC_KEY_FILE", "")
	v.SetDefault("JWT_ISSUER", "real-insights")
	v.SetDefault("JWT_LEEWAY", 30*time.Second)

	v.SetDefault("TLS_CERT_FILE", "")
	v.SetDefault("TLS_KEY_FILE", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("GRPC_REFLECTION", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
}

// Load reads the configuration from the environment. Durations accept Go
// syntax ("5m", "30s").
func Load() Config {
	return load(viper.New())
}

func load(v *viper.Viper) Config {
	v.AutomaticEnv()
	setDefaults(v)

	instanceID := uuid.NewString()
	group := v.GetString("KAFKA_CONSUMER_GROUP")
	if group == "" {
		// Each instance needs its own group so every instance sees every
		// invalidation event.
		group = ServiceName + "-cache-" + instanceID
	}

	return Config{
		GRPCPort: v.GetInt("GRPC_PORT"),
		HTTPPort: v.GetInt("HTTP_PORT"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("KAFKA_BROKERS")),
			Topic:         v.GetString("KAFKA_TOPIC"),
			ConsumerGroup: group,
			SASLMechanism: v.GetString("KAFKA_SASL_MECHANISM"),
			SASLUsername:  v.GetString("KAFKA_SASL_USERNAME"),
			SASLPassword:  v.GetString("KAFKA_SASL_PASSWORD"),
			TLS:           v.GetBool("KAFKA_TLS"),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString("CACHE_BACKEND"))),
			RedisAddr:  v.GetString("REDIS_ADDR"),
			TTL:        v.GetDuration("CACHE_TTL"),
			MaxEntries: v.GetInt("CACHE_MAX_ENTRIES"),
		},
		Reports: ReportsConfig{
			ArchiveBucket:    v.GetString("REPORT_ARCHIVE_BUCKET"),
			ArchivePrefix:    v.GetString("REPORT_ARCHIVE_PREFIX"),
			AWSRegion:        v.GetString("AWS_REGION"),
			SchedulerEnabled: v.GetBool("REPORT_SCHEDULER_ENABLED"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			PublicKeyFile: v.GetString("JWT_PUBLIC_KEY_FILE"),
			Issuer:        v.GetString("JWT_ISSUER"),
			Leeway:        v.GetDuration("JWT_LEEWAY"),
		},
		TLS: TLSConfig{
			CertFile: v.GetString("TLS_CERT_FILE"),
			KeyFile:  v.GetString("TLS_KEY_FILE"),
		},
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		OTLPEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		GRPCReflection:  v.GetBool("GRPC_REFLECTION"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		ServiceName:     ServiceName,
		InstanceID:      instanceID,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Postgres converts the database settings for pkg/postgres.
func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		Host:            c.DB.Host,
		Port:            c.DB.Port,
		User:            c.DB.User,
		Password:        c.DB.Password,
		Database:        c.DB.Name,
		SSLMode:         c.DB.SSLMode,
		ApplicationName: c.ServiceName,
		MaxConns:        c.DB.MaxConns,
	}
}

// KafkaClient converts the broker settings for pkg/kafka.
func (c Config) KafkaClient() kafka.Config {
	return kafka.Config{
		Brokers:       c.Kafka.Brokers,
		ConsumerGroup: c.Kafka.ConsumerGroup,
		SASLEnabled:   c.Kafka.SASLMechanism != "",
		SASLMechanism: c.Kafka.SASLMechanism,
		SASLUsername:  c.Kafka.SASLUsername,
		SASLPassword:  c.Kafka.SASLPassword,
		TLS:           c.Kafka.TLS,
	}
}
