// Package runner drives the pipeline: load the scenario, generate the
// dataset, fan it out to the sinks.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridwerk/demogrid/internal/clock"
	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator"
	obscontext "github.com/gridwerk/demogrid/internal/observability/context"
	"github.com/gridwerk/demogrid/internal/observability/logger"
	"github.com/gridwerk/demogrid/internal/sink"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrInvalidConfig signals missing runner dependencies.
var ErrInvalidConfig = errors.New("invalid_runner_config")

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	Scenarios *config.ScenarioHolder
	Generator *generator.Service
	Sinks     []sink.Sink
	Clock     clock.Clock
}

type Runner struct {
	log       *zap.Logger
	cfg       config.Config
	scenarios *config.ScenarioHolder
	generator *generator.Service
	sinks     []sink.Sink
	clock     clock.Clock

	reload chan struct{}
}

func New(p Params) (*Runner, error) {
	if p.Log == nil || p.Scenarios == nil || p.Generator == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	r := &Runner{
		log:       p.Log.Named("runner"),
		cfg:       p.Config,
		scenarios: p.Scenarios,
		generator: p.Generator,
		sinks:     p.Sinks,
		clock:     p.Clock,
		reload:    make(chan struct{}, 1),
	}
	if p.Config.WatchScenario {
		p.Scenarios.OnReload(func(config.Scenario) { r.requestRun() })
	}
	return r, nil
}

// requestRun pokes the watch loop. Sends coalesce, so a burst of file
// events produces one rerun.
func (r *Runner) requestRun() {
	select {
	case r.reload <- struct{}{}:
	default:
	}
}

// RunOnce generates one dataset and writes it to every configured sink.
// Sinks are independent outputs; one failing does not stop the others.
func (r *Runner) RunOnce(ctx context.Context) error {
	sc := r.scenarios.Get()

	res, err := r.generator.Generate(ctx, sc)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	ctx = obscontext.WithRunID(ctx, res.RunID)

	var errs error
	for _, s := range r.sinks {
		sinkCtx := obscontext.WithStage(ctx, s.Name())
		log := logger.WithContext(sinkCtx, r.log)

		started := r.clock.Now()
		if err := s.Write(sinkCtx, res); err != nil {
			log.Error("sink write failed", zap.Error(err))
			errs = errors.Join(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		log.Info("sink write complete", zap.Duration("took", r.clock.Now().Sub(started)))
	}

	total := 0
	for _, n := range res.RowCounts() {
		total += n
	}
	logger.WithContext(ctx, r.log).Info("run complete",
		zap.Uint64("seed", res.Seed),
		zap.Int("rows", total),
		zap.Int("sinks", len(r.sinks)),
	)
	return errs
}

// Run performs the initial generation and, when scenario watching is on,
// keeps rerunning on every valid reload until ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	err := r.RunOnce(ctx)
	if !r.cfg.WatchScenario {
		return err
	}
	if err != nil {
		r.log.Warn("run failed, watching for scenario changes", zap.Error(err))
	}

	r.log.Info("watching scenario file", zap.String("file", r.cfg.ScenarioFile))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.reload:
			if err := r.RunOnce(ctx); err != nil {
				r.log.Warn("rerun failed", zap.Error(err))
			}
		}
	}
}
