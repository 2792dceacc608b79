package config

import "time"

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Services: ServicesConfig{
			AuthURL:        "http://127.0.0.1:5000",
			FileURL:        "http://127.0.0.1:5002",
			FileScheme:     "bearer",
			RequestTimeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			ListenAddr:     ":3000",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 60 * time.Second,
			LoginRate:      5,
			LoginBurst:     10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Download: DownloadConfig{
			Dir: ".",
		},
	}
}
