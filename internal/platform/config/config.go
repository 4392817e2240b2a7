package config

import (
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName  string
	LogLevel     string
	HTTP         HTTPConfig
	JikanBaseURL string
	// NATSURL is optional; empty disables analytics publishing.
	NATSURL string
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName:  strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:     strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP:         HTTPConfig{Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR"))},
		JikanBaseURL: strings.TrimSpace(os.Getenv("JIKAN_BASE_URL")),
		NATSURL:      strings.TrimSpace(os.Getenv("NATS_URL")),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "anime-tracker"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
