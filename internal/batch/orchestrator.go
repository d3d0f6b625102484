// Package batch fans one source image out to all configured variants
// under a bounded concurrency limit and aggregates the keyed results.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dkochetov/imgset/internal/model"
	"github.com/dkochetov/imgset/internal/pipeline"
)

// DefaultResizeLimit bounds concurrent variant tasks when no limit is configured.
const DefaultResizeLimit = 8

// runner processes a single variant; implemented by pipeline.Pipeline.
type runner interface {
	Run(ctx context.Context, source model.SourceImage, batch model.BatchSpec, spec model.VariantSpec) (model.VariantResult, error)
}

// Config carries the orchestrator's tunables. An explicit value avoids
// any hidden process-wide state.
type Config struct {
	// ResizeLimit caps concurrently active variant tasks. Zero means
	// DefaultResizeLimit.
	ResizeLimit int
}

// Orchestrator runs one variant task per configured variant and collects
// their results into a BatchResult.
type Orchestrator struct {
	pipeline runner
	limit    int
}

// NewOrchestrator creates an Orchestrator around the given pipeline.
func NewOrchestrator(p runner, cfg Config) *Orchestrator {
	limit := cfg.ResizeLimit
	if limit <= 0 {
		limit = DefaultResizeLimit
	}
	return &Orchestrator{pipeline: p, limit: limit}
}

// Run validates the inputs, schedules one pipeline task per variant under
// the concurrency limit and returns the complete keyed result map.
//
// Failure semantics: the first task error cancels the group context,
// stops new dispatch, and is returned after the in-flight tasks have
// drained. Late completions are discarded; the caller sees either the
// full BatchResult or exactly one error.
func (o *Orchestrator) Run(ctx context.Context, source model.SourceImage, spec model.BatchSpec) (model.BatchResult, error) {
	if source.Type == "" {
		return nil, &pipeline.Error{Kind: pipeline.KindUnknownType, Op: "validate source", Err: model.ErrUnknownSourceType}
	}
	if err := spec.Validate(); err != nil {
		return nil, &pipeline.Error{Kind: pipeline.KindInvalidConfig, Op: "validate batch", Err: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit)

	var mu sync.Mutex
	results := make(model.BatchResult, len(spec.Variants))

	for _, v := range spec.Variants {
		v := v
		g.Go(func() error {
			// Slots freed by a failed batch still admit queued variants;
			// skip the work once the group is already canceled.
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := o.pipeline.Run(gctx, source, spec, v)
			if err != nil {
				return err
			}

			mu.Lock()
			results[v.ResultKey()] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
