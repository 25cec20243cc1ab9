package extract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"schema-compare/core/database"

	"gorm.io/gorm"
)

// Connections opens catalog connections lazily and keeps one per data source.
type Connections struct {
	mu      sync.Mutex
	gorms   map[string]*gorm.DB
	sqls    map[string]*sql.DB
	open    func(database.Config) (*gorm.DB, error)
	openSQL func(context.Context, database.Config) (*sql.DB, error)
}

// NewConnections creates an empty connection cache.
func NewConnections() *Connections {
	return &Connections{
		gorms:   make(map[string]*gorm.DB),
		sqls:    make(map[string]*sql.DB),
		open:    database.Connect,
		openSQL: database.OpenSQL,
	}
}

// Use registers an already open GORM handle under a data source name.
func (c *Connections) Use(name string, db *gorm.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gorms[name] = db
}

// UseSQL registers an already open database/sql handle under a data source name.
func (c *Connections) UseSQL(name string, db *sql.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sqls[name] = db
}

// Gorm returns the GORM handle for a MySQL-family or sqlite data source.
func (c *Connections) Gorm(ds DataSource) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.gorms[ds.Name]; ok {
		return db, nil
	}
	cfg := ds.DatabaseConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("data source %s: %w", ds.Name, err)
	}
	db, err := c.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", ds.Name, err)
	}
	c.gorms[ds.Name] = db
	return db, nil
}

// SQL returns the database/sql handle for a postgres, sqlserver or oracle
// data source.
func (c *Connections) SQL(ctx context.Context, ds DataSource) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.sqls[ds.Name]; ok {
		return db, nil
	}
	cfg := ds.DatabaseConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("data source %s: %w", ds.Name, err)
	}
	db, err := c.openSQL(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", ds.Name, err)
	}
	c.sqls[ds.Name] = db
	return db, nil
}

// Close releases every open handle.
func (c *Connections) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for name, db := range c.gorms {
		if sqlDB, err := db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
		delete(c.gorms, name)
	}
	for name, db := range c.sqls {
		errs = append(errs, db.Close())
		delete(c.sqls, name)
	}
	return errors.Join(errs...)
}
