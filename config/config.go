package config

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-safety/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		HTTP     HTTPConfig
		Safety   SafetyConfig
		Ride     RideConfig
		RabbitMQ RabbitMQConfig
		Redis    RedisConfig
		Auth     Auth
		Log      LogConfig
	}

	HTTPConfig struct {
		Port string `env:"HTTP_PORT" default:"3000"`
	}

	SafetyConfig struct {
		CheckCadence   time.Duration `env:"SAFETY_CHECK_CADENCE" default:"5m"`
		PollInterval   time.Duration `env:"SAFETY_POLL_INTERVAL" default:"1m"`
		ResponseWindow time.Duration `env:"SAFETY_RESPONSE_WINDOW" default:"30s"`
		MissThreshold  int           `env:"SAFETY_MISS_THRESHOLD" default:"5"`
	}

	RideConfig struct {
		BaseFare float64 `env:"RIDE_BASE_FARE" default:"200"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"safety_topic"`
	}

	RedisConfig struct {
		Enabled  bool   `env:"REDIS_ENABLED" default:"false"`
		Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}
)

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if cfg.Safety.MissThreshold <= 0 {
		return nil, fmt.Errorf("SAFETY_MISS_THRESHOLD must be positive, got %d", cfg.Safety.MissThreshold)
	}

	return cfg, nil
}
