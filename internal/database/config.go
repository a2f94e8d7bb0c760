package database

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultHost is the host used when a connection group leaves it unset
	DefaultHost = "localhost"
	// DefaultPort is the MySQL port used when a connection group leaves it unset
	DefaultPort = 3306
)

// Config holds the connection parameters for one database. Two independent
// instances exist per run: source (backup) and destination (restore).
type Config struct {
	Host     string        `mapstructure:"host" yaml:"host"`
	Port     int           `mapstructure:"port" yaml:"port"`
	Username string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	Database string        `mapstructure:"database" yaml:"database"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults fills in the default host, port and timeout
func (c *Config) SetDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks if the configuration has all required parameters
func (c *Config) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, errors.New("port must be between 1 and 65535"))
	}

	if c.Username == "" {
		errs = append(errs, errors.New("user is required"))
	}

	if c.Database == "" {
		errs = append(errs, errors.New("database name is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("database configuration validation failed: %v", errs)
	}

	return nil
}

// DSN returns the Data Source Name for the MySQL connection. parseTime makes
// the driver hand temporal columns back as time.Time, which the snapshot
// codec needs for its fixed timestamp encoding.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?timeout=%s&parseTime=true",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Timeout)
}
