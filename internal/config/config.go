package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration, loaded from a TOML file over
// built-in defaults. A missing file is not an error; the defaults stand.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Network  NetworkConfig  `toml:"network"`
	World    WorldConfig    `toml:"world"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name     string `toml:"name"`
	BindAddr string `toml:"bind_addr"`
}

type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`

	// AutoCreateAccounts makes an unknown login create the account instead
	// of failing. Development convenience, off for real deployments.
	AutoCreateAccounts bool `toml:"auto_create_accounts"`
}

type NetworkConfig struct {
	InQueueSize    int `toml:"in_queue_size"`
	OutQueueSize   int `toml:"out_queue_size"`
	WriteTimeoutMS int `toml:"write_timeout_ms"`
}

type WorldConfig struct {
	TickRateHz int    `toml:"tick_rate_hz"`
	DataDir    string `toml:"data_dir"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level    string `toml:"level"`    // debug, info, warn, error
	Encoding string `toml:"encoding"` // console or json
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "veilmere",
			BindAddr: "0.0.0.0:7777",
		},
		Database: DatabaseConfig{
			Host:               "127.0.0.1",
			Port:               5432,
			User:               "veilmere",
			Password:           "veilmere",
			Name:               "veilmere",
			AutoCreateAccounts: true,
		},
		Network: NetworkConfig{
			InQueueSize:    64,
			OutQueueSize:   256,
			WriteTimeoutMS: 5000,
		},
		World: WorldConfig{
			TickRateHz: 30,
			DataDir:    "data",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.World.TickRateHz <= 0 {
		return nil, fmt.Errorf("config %s: tick_rate_hz must be positive", path)
	}
	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// TickInterval converts the configured rate to a tick duration.
func (c *WorldConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRateHz)
}

// WriteTimeout returns the session write deadline as a duration.
func (c *NetworkConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}
