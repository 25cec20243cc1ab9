package extract

import (
	"schema-compare/core/compare"
	"schema-compare/core/elastic"
	"schema-compare/core/schema"
	"schema-compare/core/storage"

	"go.uber.org/zap"
)

// Options carries the shared dependencies of the built-in extractors.
type Options struct {
	Connections *Connections
	Structs     *StructRegistry
	Elastic     elastic.Config
	Storage     storage.Client
	Mappings    *compare.TypeMappings
	Logger      *zap.Logger
}

// NewDefaultRegistry registers an extractor for every supported kind.
func NewDefaultRegistry(opts Options) *Registry {
	if opts.Connections == nil {
		opts.Connections = NewConnections()
	}
	if opts.Structs == nil {
		opts.Structs = NewStructRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := NewRegistry(opts.Mappings)
	r.Register(schema.SystemMySQL.String(), NewMySQLExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemTiDB.String(), NewTiDBExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemSQLite.String(), NewSQLiteExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemPostgres.String(), NewPostgresExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemSQLServer.String(), NewSQLServerExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemOracle.String(), NewOracleExtractor(opts.Connections, opts.Logger))
	r.Register(schema.SystemElasticsearch.String(), NewElasticsearchExtractor(opts.Elastic))
	r.Register(schema.SystemGoStruct.String(), opts.Structs)
	r.Register(KindMySQLDDL, NewDDLExtractor(opts.Storage))
	return r
}
