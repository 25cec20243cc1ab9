package cmd

import (
	"context"
	"fmt"

	"schema-compare/core/config"
	"schema-compare/core/database"
	"schema-compare/core/logger"
	"schema-compare/core/storage"
	compareFeature "schema-compare/feature/compare"
	"schema-compare/feature/compare/report"
	"schema-compare/feature/extract"

	"go.uber.org/zap"
)

// DefaultSource is the data source name bound to the configured database.
const DefaultSource = "default"

var (
	predefined []compareFeature.CompareConfig
	structs    = extract.NewStructRegistry()
)

// RegisterTasks adds compare configs defined in code. They take precedence
// over task files when names collide.
func RegisterTasks(configs ...compareFeature.CompareConfig) {
	predefined = append(predefined, configs...)
}

// RegisterStruct exposes a Go type to "gostruct" data sources under name.
func RegisterStruct(name string, model any) error {
	return structs.Register(name, model)
}

// app bundles everything a command needs to run comparisons.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    storage.Client
	conns    *extract.Connections
	registry *extract.Registry
	service  *compareFeature.Service
}

// bootstrap loads configuration, applies overrides and wires the comparison
// service. Storage and the default database are optional; failures there are
// logged.
func bootstrap(ctx context.Context, overrides ...func(*config.Config)) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, o := range overrides {
		o(cfg)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logg, conns: extract.NewConnections()}

	if store, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Object storage unavailable", zap.Error(err))
	} else {
		a.store = store
	}

	a.connectDefault(ctx)

	a.registry = extract.NewDefaultRegistry(extract.Options{
		Connections: a.conns,
		Structs:     structs,
		Elastic:     cfg.Elastic,
		Storage:     a.store,
		Logger:      logg,
	})

	configs := compareFeature.NewTaskSource(a.store, logg).Load(ctx, cfg.Compare.TasksFile, cfg.Compare.TasksJSONFile, predefined)
	tasks, err := compareFeature.BuildTaskSet(configs, logg)
	if err != nil {
		return nil, fmt.Errorf("invalid compare tasks: %w", err)
	}

	var publisher *report.Publisher
	if a.store != nil {
		publisher = report.NewPublisher(a.store, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Compare.UploadPrefix, logg)
	}
	a.service = compareFeature.NewService(cfg.Compare, tasks, a.registry, publisher, logg)
	return a, nil
}

// connectDefault binds the configured database to the "default" data source.
func (a *app) connectDefault(ctx context.Context) {
	dbCfg := a.cfg.Database
	if dbCfg.Name == "" && dbCfg.DSN == "" {
		a.logger.Debug("No default database configured")
		return
	}

	switch database.NormalizeDriver(dbCfg.Driver) {
	case database.DriverMySQL, database.DriverTiDB, database.DriverSQLite:
		db, err := database.Connect(dbCfg)
		if err != nil {
			a.logger.Warn("Optional database connection failed", zap.Error(err))
			return
		}
		a.conns.Use(DefaultSource, db)
	default:
		db, err := database.OpenSQL(ctx, dbCfg)
		if err != nil {
			a.logger.Warn("Optional database connection failed", zap.Error(err))
			return
		}
		a.conns.UseSQL(DefaultSource, db)
	}
	a.logger.Info("Connected to default database", zap.String("driver", database.NormalizeDriver(dbCfg.Driver)))
}

func (a *app) close() {
	if err := a.conns.Close(); err != nil {
		a.logger.Warn("Failed to close database connections", zap.Error(err))
	}
	_ = a.logger.Sync()
}
