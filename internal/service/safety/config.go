package safety

import "time"

type Config struct {
	// A check older than Cadence counts as missed.
	Cadence        time.Duration
	PollInterval   time.Duration
	ResponseWindow time.Duration
	MissThreshold  int
}

func DefaultConfig() Config {
	return Config{
		Cadence:        5 * time.Minute,
		PollInterval:   time.Minute,
		ResponseWindow: 30 * time.Second,
		MissThreshold:  5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Cadence <= 0 {
		c.Cadence = def.Cadence
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.ResponseWindow <= 0 {
		c.ResponseWindow = def.ResponseWindow
	}
	if c.MissThreshold <= 0 {
		c.MissThreshold = def.MissThreshold
	}
	return c
}
