// pkg/config/database.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDBPath = "obras_urbanas.db"
)

// StoreConfig selects and parameterizes the relational store
type StoreConfig struct {
	Driver   string          `yaml:"driver"`
	Path     string          `yaml:"path"` // SQLite database file
	Postgres *PostgresConfig `yaml:"postgres"`

	// Connection pool settings
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`

	// Query timeout
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

func (s *StoreConfig) applyEnv() {
	s.Driver = getEnv("OBRAS_DB_DRIVER", s.Driver)
	s.Path = getEnv("OBRAS_DB_PATH", s.Path)
	s.MaxOpenConns = getEnvAsInt("OBRAS_DB_MAX_OPEN_CONNS", s.MaxOpenConns)
	s.MaxIdleConns = getEnvAsInt("OBRAS_DB_MAX_IDLE_CONNS", s.MaxIdleConns)
	if v := getEnvAsInt("OBRAS_DB_CONN_MAX_LIFETIME_SECONDS", 0); v > 0 {
		s.ConnMaxLifetime = time.Duration(v) * time.Second
	}
	if v := getEnvAsInt("OBRAS_DB_CONN_MAX_IDLE_TIME_SECONDS", 0); v > 0 {
		s.ConnMaxIdleTime = time.Duration(v) * time.Second
	}
	if v := getEnvAsInt("OBRAS_DB_QUERY_TIMEOUT_SECONDS", 0); v > 0 {
		s.QueryTimeout = time.Duration(v) * time.Second
	}

	if strings.EqualFold(s.Driver, DriverPostgres) {
		if s.Postgres == nil {
			s.Postgres = &PostgresConfig{}
		}
		s.Postgres.applyEnv()
	}
}

func (s *StoreConfig) applyDefaults() {
	s.Driver = strings.ToLower(s.Driver)
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	if s.Path == "" {
		s.Path = DefaultDBPath
	}
	if s.QueryTimeout == 0 {
		s.QueryTimeout = 60 * time.Second
	}

	switch s.Driver {
	case DriverSQLite:
		// A single connection keeps the file writer serialized
		s.MaxOpenConns = 1
		s.MaxIdleConns = 1
	case DriverPostgres:
		if s.MaxOpenConns == 0 {
			s.MaxOpenConns = 10
		}
		if s.MaxIdleConns == 0 {
			s.MaxIdleConns = 5
		}
		if s.ConnMaxLifetime == 0 {
			s.ConnMaxLifetime = 30 * time.Minute
		}
		if s.ConnMaxIdleTime == 0 {
			s.ConnMaxIdleTime = 10 * time.Minute
		}
		if s.Postgres != nil {
			s.Postgres.applyDefaults()
		}
	}
}

// Validate checks the store settings for the selected driver
func (s *StoreConfig) Validate() error {
	switch s.Driver {
	case DriverSQLite:
		if s.Path == "" {
			return errors.New("sqlite database path is required")
		}
	case DriverPostgres:
		if s.Postgres == nil {
			return errors.New("postgreSQL configuration is required")
		}
		if err := s.Postgres.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported store driver %q", s.Driver)
	}

	if s.MaxOpenConns < 0 || s.MaxIdleConns < 0 {
		return errors.New("connection pool sizes cannot be negative")
	}

	return nil
}

// DataSourceName returns the DSN passed to sql.Open for the selected driver
func (s *StoreConfig) DataSourceName() string {
	if s.Driver == DriverPostgres && s.Postgres != nil {
		return s.Postgres.ConnectionString()
	}
	return s.Path
}

func (c *PostgresConfig) applyEnv() {
	c.Host = getEnv("POSTGRES_HOST", c.Host)
	c.Port = getEnvAsInt("POSTGRES_PORT", c.Port)
	c.User = getEnv("POSTGRES_USER", c.User)
	c.Password = getEnv("POSTGRES_PASSWORD", c.Password)
	c.Database = getEnv("POSTGRES_DB", c.Database)
	c.SSLMode = getEnv("POSTGRES_SSLMODE", c.SSLMode)
}

func (c *PostgresConfig) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
}

// Validate checks the required PostgreSQL parameters
func (c *PostgresConfig) Validate() error {
	if c.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if c.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if c.Database == "" {
		return errors.New("POSTGRES_DB is required")
	}
	return nil
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
