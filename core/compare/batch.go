package compare

import (
	"context"
	"fmt"
	"time"

	"schema-compare/core/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader resolves a table reference into a populated structure.
type Loader interface {
	Load(ctx context.Context, ref TableRef) (*schema.TableStructure, error)
}

// Runner executes configured tasks: it loads both sides of each task and
// compares them.
type Runner struct {
	engine  *Engine
	loader  Loader
	workers int
	logger  *zap.Logger
	now     func() time.Time
}

// NewRunner creates a runner. A workers value below one runs tasks one at a time.
func NewRunner(engine *Engine, loader Loader, workers int, logger *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		engine:  engine,
		loader:  loader,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Run loads and compares a single task.
func (r *Runner) Run(ctx context.Context, task Task) (*schema.CompareResult, error) {
	if task.Name == "" {
		return nil, ErrUnnamedTask
	}

	source, err := r.loader.Load(ctx, task.Source)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", task.Source, err)
	}
	target, err := r.loader.Load(ctx, task.Target)
	if err != nil {
		return nil, fmt.Errorf("load target %s: %w", task.Target, err)
	}

	result, err := r.engine.Compare(source, target, task.TaskConfig)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.NewString()
	result.ComparedAt = r.now()
	return result, nil
}

// CompareAll runs every task on a bounded pool of workers. A task that fails
// is logged and left out; the rest of the batch carries on. Results keep the
// order of the input tasks.
func (r *Runner) CompareAll(ctx context.Context, tasks []Task) []*schema.CompareResult {
	slots := make([]*schema.CompareResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, task := range tasks {
		g.Go(func() error {
			result, err := r.Run(ctx, task)
			if err != nil {
				r.logger.Error("Compare task failed",
					zap.String("task", task.Name),
					zap.String("source", task.Source.String()),
					zap.String("target", task.Target.String()),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]*schema.CompareResult, 0, len(tasks))
	for _, res := range slots {
		if res != nil {
			results = append(results, res)
		}
	}
	return results
}

// CompareByName runs the task with the given name.
func (r *Runner) CompareByName(ctx context.Context, tasks []Task, name string) (*schema.CompareResult, error) {
	if name == "" {
		return nil, ErrUnnamedTask
	}
	for _, task := range tasks {
		if task.Name == name {
			return r.Run(ctx, task)
		}
	}
	r.logger.Warn("Compare task not found", zap.String("task", name))
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
}
