package compare

import (
	"errors"
	"slices"

	"schema-compare/core/schema"
)

var (
	// ErrNilTable is returned when either side of a comparison is missing.
	ErrNilTable = errors.New("source and target structures are required")
	// ErrUnnamedTask is returned for a task without a name.
	ErrUnnamedTask = errors.New("task name is required")
	// ErrTaskNotFound is returned when a task name is not configured.
	ErrTaskNotFound = errors.New("compare task not found")
)

// Engine compares pairs of table structures.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	mappings *TypeMappings
}

// NewEngine creates an engine backed by the given dictionaries, or the
// process-wide defaults when nil.
func NewEngine(mappings *TypeMappings) *Engine {
	if mappings == nil {
		mappings = DefaultTypeMappings()
	}
	return &Engine{mappings: mappings}
}

// Mappings exposes the engine's type dictionaries.
func (e *Engine) Mappings() *TypeMappings {
	return e.mappings
}

// Compare classifies every difference between source and target and scores
// the result.
func (e *Engine) Compare(source, target *schema.TableStructure, task TaskConfig) (*schema.CompareResult, error) {
	if source == nil || target == nil {
		return nil, ErrNilTable
	}
	if task.Name == "" {
		return nil, ErrUnnamedTask
	}

	c := &comparison{
		task:   &task,
		source: source,
		target: target,
		result: schema.NewCompareResult(task.Name, source, target),
	}
	c.result.IgnoredFields = slices.Clone(task.IgnoredFields)
	for _, cat := range task.IgnoredCategories {
		c.result.IgnoredCategories = append(c.result.IgnoredCategories, string(cat))
	}
	c.compareTableProperties()
	c.compareColumns()
	c.compareIndexes()

	if !c.result.HasDifferences() {
		c.result.FullyMatched = true
		c.result.MatchPercentage = 100
		return c.result, nil
	}
	c.result.MatchPercentage = Score(c.result)
	return c.result, nil
}
