package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys double as lower-cased environment variable names.
const (
	KeyPort           = "port"
	KeyDatabaseURL    = "database_url"
	KeyCurrencySymbol = "currency_symbol"
	KeyAMQPURL        = "amqp_url"
	KeyAMQPExchange   = "amqp_exchange"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyCORSOrigins    = "cors_allowed_origins"
)

type Config struct {
	// HTTP Server
	Port        string
	CORSOrigins []string

	// Database
	DatabaseURL string

	// Display
	CurrencySymbol string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string

	// Logging
	LogLevel  string
	LogFormat string
}

var defaults = map[string]string{
	KeyPort:           "8081",
	KeyDatabaseURL:    "sqlite://./data/tracker.db",
	KeyCurrencySymbol: "₹",
	KeyAMQPURL:        "",
	KeyAMQPExchange:   "tracker",
	KeyLogLevel:       "info",
	KeyLogFormat:      "text",
	KeyCORSOrigins:    "*",
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"port":         KeyPort,
	"database-url": KeyDatabaseURL,
	"log-level":    KeyLogLevel,
	"log-format":   KeyLogFormat,
}

// NewViper returns a viper instance with defaults and environment binding.
// Flags from fs, when given, take precedence over the environment.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}
	return v, nil
}

// Load reads the configuration from the environment.
func Load() *Config {
	v, _ := NewViper(nil)
	return FromViper(v)
}

// FromViper builds a Config from resolved keys.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:           v.GetString(KeyPort),
		CORSOrigins:    splitList(v.GetString(KeyCORSOrigins)),
		DatabaseURL:    v.GetString(KeyDatabaseURL),
		CurrencySymbol: v.GetString(KeyCurrencySymbol),
		AMQPURL:        v.GetString(KeyAMQPURL),
		AMQPExchange:   v.GetString(KeyAMQPExchange),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:      strings.ToLower(v.GetString(KeyLogFormat)),
	}
}

// RegisterFlags adds the flags understood by NewViper to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("port", defaults[KeyPort], "HTTP listen port (env PORT)")
	fs.String("database-url", defaults[KeyDatabaseURL], "sqlite://path, postgres://dsn or memory:// (env DATABASE_URL)")
	fs.String("log-level", defaults[KeyLogLevel], "debug, info, warn or error (env LOG_LEVEL)")
	fs.String("log-format", defaults[KeyLogFormat], "text, json or pretty (env LOG_FORMAT)")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate database URL
	validSchemes := []string{"sqlite", "postgres", "postgresql", "memory"}
	if c.DatabaseURL == "" {
		errors = append(errors, "database URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.DatabaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid database URL: %v", err))
	} else if !contains(validSchemes, parsedURL.Scheme) {
		errors = append(errors, fmt.Sprintf("invalid database URL scheme '%s': must be one of %v", parsedURL.Scheme, validSchemes))
	} else if parsedURL.Scheme == "sqlite" && SQLitePath(parsedURL) == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if strings.TrimSpace(c.CurrencySymbol) == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"text", "json", "pretty"}
	if !contains(validFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SQLitePath extracts the file path from a sqlite:// URL. Both
// sqlite://./data/x.db and sqlite:///abs/x.db are accepted.
func SQLitePath(u *url.URL) string {
	return u.Host + u.Path
}

// SQLiteDSN is SQLitePath plus the URL query, which the driver reads as
// connection options such as ?_pragma=busy_timeout(5000).
func SQLiteDSN(u *url.URL) string {
	if u.RawQuery == "" {
		return SQLitePath(u)
	}
	return SQLitePath(u) + "?" + u.RawQuery
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
