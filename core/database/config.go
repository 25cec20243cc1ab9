package database

import (
	"fmt"
	"strings"
)

// Supported drivers.
const (
	DriverMySQL     = "mysql"
	DriverTiDB      = "tidb"
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
	DriverOracle    = "oracle"
	DriverSQLite    = "sqlite"
)

// Config holds configuration for a database connection.
type Config struct {
	// Driver is the database driver (mysql, tidb, postgres, sqlserver, oracle, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port. Zero picks the driver's default port.
	Port int `mapstructure:"port" default:"0"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:""`
	// Schema narrows catalog lookups (postgres, sqlserver, oracle owner).
	Schema string `mapstructure:"schema" default:""`
	// DSN overrides every connection field above when set.
	DSN string `mapstructure:"dsn" default:""`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// NormalizeDriver maps driver aliases onto the supported names.
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "mysql", "mariadb":
		return DriverMySQL
	case "tidb":
		return DriverTiDB
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	case "sqlserver", "mssql":
		return DriverSQLServer
	case "oracle", "ora":
		return DriverOracle
	case "sqlite", "sqlite3":
		return DriverSQLite
	default:
		return strings.ToLower(d)
	}
}

// DefaultPort returns the well-known port of a driver.
func DefaultPort(driver string) int {
	switch NormalizeDriver(driver) {
	case DriverMySQL:
		return 3306
	case DriverTiDB:
		return 4000
	case DriverPostgres:
		return 5432
	case DriverSQLServer:
		return 1433
	case DriverOracle:
		return 1521
	default:
		return 0
	}
}

// Timeout returns the configured timeout in seconds, never below one.
func (c Config) Timeout() int {
	if c.TimeoutSeconds <= 0 {
		return 30
	}
	return c.TimeoutSeconds
}

func (c Config) port() int {
	if c.Port > 0 {
		return c.Port
	}
	return DefaultPort(c.Driver)
}

// Validate checks that the fields the driver needs are present.
func (c Config) Validate() error {
	driver := NormalizeDriver(c.Driver)
	switch driver {
	case DriverMySQL, DriverTiDB, DriverPostgres, DriverSQLServer, DriverOracle:
		if c.DSN == "" && c.Host == "" {
			return fmt.Errorf("%s connection needs a host or a dsn", driver)
		}
		if driver == DriverOracle && c.DSN == "" && c.Name == "" {
			return fmt.Errorf("oracle connection needs a service name")
		}
	case DriverSQLite:
		if c.DSN == "" && c.Name == "" {
			return fmt.Errorf("sqlite needs a file path in name")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	return nil
}
