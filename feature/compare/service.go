package compare

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"schema-compare/core/compare"
	"schema-compare/core/schema"
	"schema-compare/feature/compare/report"
	"schema-compare/feature/extract"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SourceInfo is the public view of a configured data source. Connection
// properties are left out.
type SourceInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Report describes where the rendered report of a batch went.
type Report struct {
	File string `json:"file,omitempty"`
	Key  string `json:"key,omitempty"`
}

// Service runs the configured comparisons.
type Service struct {
	cfg       compare.Config
	tasks     *TaskSet
	engine    *compare.Engine
	runner    *compare.Runner
	cache     *extract.Cache
	publisher *report.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a comparison service. Extraction goes through registry,
// wrapped in a cache that keeps structures for cfg.CacheTTLSeconds.
// publisher may be nil when reports are never uploaded.
func NewService(cfg compare.Config, tasks *TaskSet, registry *extract.Registry, publisher *report.Publisher, logger *zap.Logger) *Service {
	if tasks == nil {
		tasks = &TaskSet{Sources: map[string]extract.DataSource{}}
	}
	s := &Service{
		cfg:       cfg,
		tasks:     tasks,
		engine:    compare.NewEngine(nil),
		cache:     extract.NewCache(extract.ExtractorFunc(registry.Extract), time.Duration(cfg.CacheTTLSeconds)*time.Second),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.runner = compare.NewRunner(s.engine, s, cfg.Workers, logger)
	return s
}

// Load resolves a table reference against the configured data sources.
func (s *Service) Load(ctx context.Context, ref compare.TableRef) (*schema.TableStructure, error) {
	ds, ok := s.tasks.Source(ref.Source)
	if !ok {
		return nil, fmt.Errorf("%w: data source %q is not configured", extract.ErrUnknownSource, ref.Source)
	}
	return s.cache.Extract(ctx, ds, ref.Table)
}

// Tasks returns the configured tasks.
func (s *Service) Tasks() []compare.Task {
	return slices.Clone(s.tasks.Tasks)
}

// Sources lists the configured data sources by name.
func (s *Service) Sources() []SourceInfo {
	out := make([]SourceInfo, 0, len(s.tasks.Sources))
	for name, ds := range s.tasks.Sources {
		out = append(out, SourceInfo{Name: name, Type: ds.NormalizedKind()})
	}
	slices.SortFunc(out, func(a, b SourceInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// CompareAll runs every configured task. Failed tasks are logged and left out.
func (s *Service) CompareAll(ctx context.Context) []*schema.CompareResult {
	s.logger.Info("Comparing all configured tables", zap.Int("tasks", len(s.tasks.Tasks)))
	return s.runner.CompareAll(ctx, s.tasks.Tasks)
}

// CompareByName runs the first table pair of the named config.
func (s *Service) CompareByName(ctx context.Context, name string) (*schema.CompareResult, error) {
	return s.runner.CompareByName(ctx, s.tasks.Tasks, name)
}

// CompareTables compares two structures supplied by the caller. Type-mapping
// tables are filled in before the comparison.
func (s *Service) CompareTables(source, target *schema.TableStructure, task compare.TaskConfig) (*schema.CompareResult, error) {
	if source == nil || target == nil {
		return nil, compare.ErrNilTable
	}
	s.engine.Mappings().AnnotateTable(source)
	s.engine.Mappings().AnnotateTable(target)

	result, err := s.engine.Compare(source, target, task)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.NewString()
	result.ComparedAt = s.now()
	return result, nil
}

// Report logs the results and, when enabled, writes the markdown file and
// uploads it.
func (s *Service) Report(ctx context.Context, results []*schema.CompareResult) (Report, error) {
	report.Log(s.logger, results, s.cfg.Verbose)

	var out Report
	if !s.cfg.Markdown {
		return out, nil
	}
	data, err := report.WriteMarkdownFile(s.cfg.MarkdownPath, results, s.now())
	if err != nil {
		return out, err
	}
	out.File = s.cfg.MarkdownPath
	s.logger.Info("Comparison report written", zap.String("file", out.File))

	if !s.cfg.Upload {
		return out, nil
	}
	if s.publisher == nil {
		return out, fmt.Errorf("report upload is enabled but object storage is not configured")
	}
	key, err := s.publisher.Publish(ctx, data)
	if err != nil {
		return out, fmt.Errorf("upload report: %w", err)
	}
	out.Key = key
	return out, nil
}

// Invalidate drops every cached structure.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}
