package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"schema-compare/core/compare"
	"schema-compare/core/storage"
	"schema-compare/feature/extract"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TablePair is one pair of tables compared under a CompareConfig.
type TablePair struct {
	SourceTable       string   `json:"source_table" yaml:"source_table"`
	TargetTable       string   `json:"target_table" yaml:"target_table"`
	IgnoredFields     []string `json:"ignored_fields,omitempty" yaml:"ignored_fields"`
	IgnoredCategories []string `json:"ignored_categories,omitempty" yaml:"ignored_categories"`
}

// CompareConfig names a source and a target data source and the tables to
// compare between them.
type CompareConfig struct {
	Name   string             `json:"name" yaml:"name"`
	Source extract.DataSource `json:"source" yaml:"source"`
	Target extract.DataSource `json:"target" yaml:"target"`
	Tables []TablePair        `json:"tables" yaml:"tables"`
}

// TaskFile is the layout of the YAML and JSON task files.
type TaskFile struct {
	CompareConfigs []CompareConfig `json:"compare_configs" yaml:"compare_configs"`
}

// TaskSet is the resolved view of a list of CompareConfig entries: one task
// per table pair, all carrying the config name, and the data sources they
// reference keyed by name.
type TaskSet struct {
	Configs []CompareConfig
	Tasks   []compare.Task
	Sources map[string]extract.DataSource
}

// ParseTaskFile decodes a task file. Files ending in .json are read as JSON,
// everything else as YAML.
func ParseTaskFile(name string, data []byte) ([]CompareConfig, error) {
	var file TaskFile
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return file.CompareConfigs, nil
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return file.CompareConfigs, nil
}

// TaskSource reads task files from disk or, for storage:// references, from
// object storage.
type TaskSource struct {
	store  storage.Client
	logger *zap.Logger
}

// NewTaskSource creates a task source. store may be nil when no task file
// lives in object storage.
func NewTaskSource(store storage.Client, logger *zap.Logger) *TaskSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskSource{store: store, logger: logger}
}

// Read loads one task file. A missing or unreadable file is logged and
// contributes nothing.
func (s *TaskSource) Read(ctx context.Context, location string) []CompareConfig {
	if location == "" {
		return nil
	}
	data, err := s.fetch(ctx, location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("Task file not found", zap.String("file", location))
		} else {
			s.logger.Warn("Failed to read task file", zap.String("file", location), zap.Error(err))
		}
		return nil
	}
	configs, err := ParseTaskFile(location, data)
	if err != nil {
		s.logger.Warn("Failed to parse task file", zap.String("file", location), zap.Error(err))
		return nil
	}
	s.logger.Info("Loaded task file", zap.String("file", location), zap.Int("configs", len(configs)))
	return configs
}

func (s *TaskSource) fetch(ctx context.Context, location string) ([]byte, error) {
	if bucket, key, ok := storage.ParseURI(location); ok {
		if s.store == nil {
			return nil, fmt.Errorf("object storage is not configured")
		}
		return storage.ReadObject(ctx, s.store, bucket, key)
	}
	return os.ReadFile(location)
}

// Load merges the configured tasks. Predefined entries come first, then the
// YAML file; the JSON file is consulted only when the YAML file yields
// nothing. When two entries share a name the first one wins.
func (s *TaskSource) Load(ctx context.Context, yamlFile, jsonFile string, predefined []CompareConfig) []CompareConfig {
	merged := mergeConfigs(nil, predefined, s.logger)

	loaded := s.Read(ctx, yamlFile)
	if len(loaded) == 0 {
		loaded = s.Read(ctx, jsonFile)
	}
	return mergeConfigs(merged, loaded, s.logger)
}

func mergeConfigs(into, add []CompareConfig, logger *zap.Logger) []CompareConfig {
	seen := make(map[string]bool, len(into))
	for _, c := range into {
		seen[c.Name] = true
	}
	for _, c := range add {
		if c.Name == "" {
			logger.Warn("Skipping compare config without a name")
			continue
		}
		if seen[c.Name] {
			logger.Debug("Compare config already defined", zap.String("config", c.Name))
			continue
		}
		seen[c.Name] = true
		into = append(into, c)
	}
	return into
}

// BuildTaskSet expands configs into runnable tasks. Data sources without a
// name are named after their config. Two configs that declare the same data
// source name with different settings are rejected.
func BuildTaskSet(configs []CompareConfig, logger *zap.Logger) (*TaskSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := &TaskSet{
		Configs: configs,
		Sources: make(map[string]extract.DataSource),
	}

	for _, cfg := range configs {
		src, err := set.addSource(cfg.Source, cfg.Name+"-source")
		if err != nil {
			return nil, fmt.Errorf("compare config %s: %w", cfg.Name, err)
		}
		tgt, err := set.addSource(cfg.Target, cfg.Name+"-target")
		if err != nil {
			return nil, fmt.Errorf("compare config %s: %w", cfg.Name, err)
		}

		if len(cfg.Tables) == 0 {
			logger.Warn("Compare config has no tables", zap.String("config", cfg.Name))
		}
		for _, pair := range cfg.Tables {
			if pair.SourceTable == "" {
				return nil, fmt.Errorf("compare config %s: source table is required", cfg.Name)
			}
			target := pair.TargetTable
			if target == "" {
				target = pair.SourceTable
			}
			set.Tasks = append(set.Tasks, compare.Task{
				TaskConfig: compare.TaskConfig{
					Name:              cfg.Name,
					IgnoredFields:     pair.IgnoredFields,
					IgnoredCategories: parseCategories(pair.IgnoredCategories, cfg.Name, logger),
				},
				Source: compare.TableRef{Source: src, Table: pair.SourceTable},
				Target: compare.TableRef{Source: tgt, Table: target},
			})
		}
	}
	return set, nil
}

func (s *TaskSet) addSource(ds extract.DataSource, fallback string) (string, error) {
	if ds.Name == "" {
		ds.Name = fallback
	}
	if ds.Kind == "" {
		return "", fmt.Errorf("data source %s: type is required", ds.Name)
	}
	if existing, ok := s.Sources[ds.Name]; ok {
		if !sameSource(existing, ds) {
			return "", fmt.Errorf("data source %s is declared twice with different settings", ds.Name)
		}
		return ds.Name, nil
	}
	s.Sources[ds.Name] = ds
	return ds.Name, nil
}

func sameSource(a, b extract.DataSource) bool {
	if a.NormalizedKind() != b.NormalizedKind() || len(a.Properties) != len(b.Properties) {
		return false
	}
	for k, v := range a.Properties {
		if b.Properties[k] != v {
			return false
		}
	}
	return true
}

func parseCategories(names []string, config string, logger *zap.Logger) []compare.Category {
	var out []compare.Category
	for _, n := range names {
		c, err := compare.ParseCategory(n)
		if err != nil {
			logger.Warn("Ignoring unknown ignore category", zap.String("config", config), zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out
}

// Task returns the first task configured under name.
func (s *TaskSet) Task(name string) (compare.Task, bool) {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return compare.Task{}, false
}

// Source returns a data source by name.
func (s *TaskSet) Source(name string) (extract.DataSource, bool) {
	ds, ok := s.Sources[name]
	return ds, ok
}
