package extract

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"schema-compare/core/compare"
	"schema-compare/core/database"
	"schema-compare/core/schema"
	"schema-compare/core/utils"
)

// ErrUnknownSource is returned when no extractor is registered for a kind.
var ErrUnknownSource = errors.New("unknown data source type")

// KindMySQLDDL reads CREATE TABLE statements from a file or storage object.
const KindMySQLDDL = "mysql_ddl"

// DataSource names one place structures are extracted from.
type DataSource struct {
	Name       string            `json:"name" yaml:"name"`
	Kind       string            `json:"type" yaml:"type"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties"`
}

// Property returns a connection property, or "" when unset.
func (d DataSource) Property(key string) string {
	if d.Properties == nil {
		return ""
	}
	return d.Properties[key]
}

// NormalizedKind resolves system aliases ("pg", "es") to the registry key.
func (d DataSource) NormalizedKind() string {
	return NormalizeKind(d.Kind)
}

// DatabaseConfig builds the connection settings for relational kinds.
func (d DataSource) DatabaseConfig() database.Config {
	name := d.Property("database")
	if name == "" {
		name = d.Property("name")
	}
	if name == "" {
		name = d.Property("path")
	}
	cfg := database.Config{
		Driver:         database.NormalizeDriver(d.NormalizedKind()),
		Host:           d.Property("host"),
		Port:           utils.ToInt(d.Property("port")),
		User:           d.Property("user"),
		Password:       d.Property("password"),
		Name:           name,
		Schema:         d.Property("schema"),
		DSN:            d.Property("dsn"),
		TimeoutSeconds: utils.ToInt(d.Property("timeout_seconds")),
	}
	if cfg.User == "" {
		cfg.User = d.Property("username")
	}
	return cfg
}

// NormalizeKind lowercases a kind and maps system aliases onto their tag.
func NormalizeKind(kind string) string {
	if tag, ok := schema.ParseSystemTag(kind); ok {
		return tag.String()
	}
	return strings.ToLower(strings.TrimSpace(kind))
}

// Extractor reads the structure of one table, index or type from a source.
type Extractor interface {
	Extract(ctx context.Context, ds DataSource, identifier string) (*schema.TableStructure, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, ds DataSource, identifier string) (*schema.TableStructure, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, ds DataSource, identifier string) (*schema.TableStructure, error) {
	return f(ctx, ds, identifier)
}

// Registry maps data source kinds to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
	mappings   *compare.TypeMappings
}

// NewRegistry creates an empty registry. A nil mappings value uses the
// built-in type dictionaries.
func NewRegistry(mappings *compare.TypeMappings) *Registry {
	if mappings == nil {
		mappings = compare.DefaultTypeMappings()
	}
	return &Registry{
		extractors: make(map[string]Extractor),
		mappings:   mappings,
	}
}

// Register binds an extractor to a kind, replacing any previous binding.
func (r *Registry) Register(kind string, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[NormalizeKind(kind)] = e
}

// Lookup returns the extractor bound to kind.
func (r *Registry) Lookup(kind string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[NormalizeKind(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
	return e, nil
}

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Extract runs the extractor for the data source kind and fills the
// type-mapping table of every column.
func (r *Registry) Extract(ctx context.Context, ds DataSource, identifier string) (*schema.TableStructure, error) {
	e, err := r.Lookup(ds.Kind)
	if err != nil {
		return nil, err
	}
	t, err := e.Extract(ctx, ds, identifier)
	if err != nil {
		return nil, fmt.Errorf("extract %s from %s: %w", identifier, ds.Name, err)
	}
	r.mappings.AnnotateTable(t)
	return t, nil
}
