package config

import (
	"errors"
	"time"
)

// Upstream holds the connection settings for the Rocket.Chat server this
// service fronts. The username/password pair belongs to the single service
// account used for every upstream call.
type Upstream struct {
	URL      string `mapstructure:"url" yaml:"url"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	Upstream          Upstream      `mapstructure:"upstream" yaml:"upstream"`
}

// Default returns configuration with reasonable starter defaults. The
// upstream block has no usable default; Validate catches an empty one.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		RequestTimeout:    30 * time.Second,
		LogLevel:          "info",
	}
}

// Validate checks that the configuration is complete enough to start.
func (c Config) Validate() error {
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if c.Upstream.User == "" {
		return errors.New("upstream.user is required")
	}
	if c.Upstream.Password == "" {
		return errors.New("upstream.password is required")
	}
	return nil
}
