package config

import "time"

type Config struct {
	MessagePacingDelay time.Duration
	ProactiveLockTTL   time.Duration
	WebSocketPing      time.Duration
}

func NewConfig() *Config {
	return &Config{
		MessagePacingDelay: 700 * time.Millisecond,
		ProactiveLockTTL:   2 * time.Minute,
		WebSocketPing:      30 * time.Second,
	}
}
