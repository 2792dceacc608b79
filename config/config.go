// Package config provides configuration management for FileDeck.
// It handles loading and validating configuration from YAML/JSON files and
// environment variables.
package config

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Services ServicesConfig `koanf:"services"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Log      LogConfig      `koanf:"log"`
	Download DownloadConfig `koanf:"download"`
}

// ServicesConfig holds the backend service targets consumed by the
// resource clients and proxied by the gateway.
type ServicesConfig struct {
	AuthURL        string        `koanf:"auth_url"`
	FileURL        string        `koanf:"file_url"`
	FileScheme     string        `koanf:"file_scheme"` // "bearer" or "identity"; bearer is authoritative
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// GatewayConfig holds the UI gateway server configuration
type GatewayConfig struct {
	ListenAddr     string        `koanf:"listen_addr"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	LoginRate      float64       `koanf:"login_rate"`  // login requests per second
	LoginBurst     int           `koanf:"login_burst"` // burst size for the login limiter
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DownloadConfig holds where the TUI writes downloaded files.
type DownloadConfig struct {
	Dir string `koanf:"dir"`
}
