package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	go_ora "github.com/sijms/go-ora/v2"
)

// OpenSQL opens a database/sql pool for postgres, sqlserver or oracle and
// verifies it with a ping.
func OpenSQL(ctx context.Context, cfg Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	driver, dsn, err := BuildDriverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Timeout())*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// BuildDriverAndDSN returns the database/sql driver name and DSN for the
// drivers served by OpenSQL.
func BuildDriverAndDSN(cfg Config) (driver string, dsn string, err error) {
	switch NormalizeDriver(cfg.Driver) {
	case DriverPostgres:
		driver = "postgres"
		dsn = cfg.DSN
		if dsn == "" {
			u := url.URL{
				Scheme:   "postgres",
				User:     url.UserPassword(cfg.User, cfg.Password),
				Host:     cfg.Host + ":" + strconv.Itoa(cfg.port()),
				Path:     "/" + cfg.Name,
				RawQuery: "sslmode=disable&connect_timeout=" + strconv.Itoa(cfg.Timeout()),
			}
			dsn = u.String()
		}
	case DriverSQLServer:
		driver = "sqlserver"
		dsn = cfg.DSN
		if dsn == "" {
			q := url.Values{}
			q.Set("database", cfg.Name)
			q.Set("dial timeout", strconv.Itoa(cfg.Timeout()))
			u := url.URL{
				Scheme:   "sqlserver",
				User:     url.UserPassword(cfg.User, cfg.Password),
				Host:     cfg.Host + ":" + strconv.Itoa(cfg.port()),
				RawQuery: q.Encode(),
			}
			dsn = u.String()
		}
	case DriverOracle:
		driver = "oracle"
		dsn = cfg.DSN
		if dsn == "" {
			dsn = go_ora.BuildUrl(cfg.Host, cfg.port(), cfg.Name, cfg.User, cfg.Password, map[string]string{
				"TIMEOUT": strconv.Itoa(cfg.Timeout()),
			})
		}
	default:
		err = fmt.Errorf("driver %s is not served by database/sql, use Connect", cfg.Driver)
	}
	return
}
