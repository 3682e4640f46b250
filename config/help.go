package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
ride-safety: ride lifecycle and rider safety monitoring service

Usage:
  ridesafe [--config-path <file>]
  ridesafe --help

Options:
  --config-path   Path to the config yaml file (default: config.yaml)
  --help          Show this screen

Every setting can be overridden by an environment variable or a .env file:
  HTTP_PORT, SAFETY_CHECK_CADENCE, SAFETY_POLL_INTERVAL, SAFETY_RESPONSE_WINDOW,
  SAFETY_MISS_THRESHOLD, RIDE_BASE_FARE, RABBITMQ_*, REDIS_*, AUTH_JWT_SECRET, LOG_LEVEL
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	fmt.Println("Configuration:")
	fmt.Printf("  http port:            %s\n", cfg.HTTP.Port)
	fmt.Printf("  safety cadence:       %s\n", cfg.Safety.CheckCadence)
	fmt.Printf("  safety poll interval: %s\n", cfg.Safety.PollInterval)
	fmt.Printf("  response window:      %s\n", cfg.Safety.ResponseWindow)
	fmt.Printf("  miss threshold:       %d\n", cfg.Safety.MissThreshold)
	fmt.Printf("  base fare:            %.2f\n", cfg.Ride.BaseFare)
	fmt.Printf("  rabbitmq:             enabled=%t %s:%s exchange=%s\n", cfg.RabbitMQ.Enabled, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Exchange)
	fmt.Printf("  redis:                enabled=%t %s db=%d\n", cfg.Redis.Enabled, cfg.Redis.Addr, cfg.Redis.DB)
	fmt.Printf("  auth secret:          %s\n", mask(cfg.Auth.JWTSecret))
	fmt.Printf("  log level:            %s\n", cfg.Log.Level)
}

func mask(s string) string {
	if len(s) <= 2 {
		return "***"
	}
	return s[:2] + "***"
}
