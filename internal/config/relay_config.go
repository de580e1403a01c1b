package config

import "os"

// RelayConfig holds configuration for the auth event relay. Only the
// settings of the selected broker are required.
type RelayConfig struct {
	DatabaseURL   string
	Broker        string
	RabbitMQURL   string
	QueueName     string
	RedisAddr     string
	RedisPassword string
	StreamName    string
	StreamMaxLen  int64
	HealthAddr    string
	LogLevel      string
	Version       string
}

const (
	BrokerRabbitMQ = "rabbitmq"
	BrokerRedis    = "redis"
)

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	cfg := &RelayConfig{
		DatabaseURL:   dbURL,
		Broker:        getenv("RELAY_BROKER", BrokerRabbitMQ),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		QueueName:     getenv("AUTH_EVENTS_QUEUE", "auth_events"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		StreamName:    getenv("AUTH_EVENTS_STREAM", "auth_events"),
		StreamMaxLen:  int64(getenvInt("AUTH_EVENTS_STREAM_MAXLEN", 100000)),
		HealthAddr:    getenv("RELAY_HEALTH_ADDR", ":8090"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Version:       getenv("APP_VERSION", "unknown"),
	}

	switch cfg.Broker {
	case BrokerRabbitMQ:
		if cfg.RabbitMQURL == "" {
			panic("RABBITMQ_URL environment variable is required when RELAY_BROKER=rabbitmq")
		}
	case BrokerRedis:
		if cfg.RedisAddr == "" {
			panic("REDIS_ADDR environment variable is required when RELAY_BROKER=redis")
		}
	default:
		panic("RELAY_BROKER must be one of rabbitmq, redis")
	}

	return cfg
}
