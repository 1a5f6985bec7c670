// Package generator produces the synthetic energy-utility dataset: five
// stages run in order, each consuming only the outputs of earlier stages.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gridwerk/demogrid/internal/clock"
	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	obscontext "github.com/gridwerk/demogrid/internal/observability/context"
	"github.com/gridwerk/demogrid/internal/observability/logger"
	"github.com/gridwerk/demogrid/internal/persona"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrInvalidConfig signals missing service dependencies.
var ErrInvalidConfig = errors.New("invalid_generator_config")

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Personas persona.Factory
}

// Service runs the generation pipeline. Generation is pure: it never
// touches a sink, it only computes the Result.
type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	personas persona.Factory
}

func New(p Params) (*Service, error) {
	if p.Log == nil || p.Clock == nil || p.GenID == nil || p.Personas == nil {
		return nil, ErrInvalidConfig
	}
	return &Service{
		log:      p.Log.Named("generator.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		personas: p.Personas,
	}, nil
}

// run holds per-invocation state: one PRNG, one persona stream, and the
// five id sequences.
type run struct {
	rng     *rand.Rand
	persona persona.Provider
	sc      config.Scenario
	now     time.Time

	customerSeq *sequence
	contractSeq *sequence
	readingSeq  *sequence
	invoiceSeq  *sequence
	caseSeq     *sequence
}

func newRun(sc config.Scenario, seed uint64, p persona.Provider, now time.Time) *run {
	return &run{
		rng:         rand.New(rand.NewPCG(seed, seed)),
		persona:     p,
		sc:          sc,
		now:         now,
		customerSeq: newSequence("CID_", 6, 1001),
		contractSeq: newSequence("CON_", 7, 5001),
		readingSeq:  newSequence("RID_", 8, 100001),
		invoiceSeq:  newSequence("INV_", 7, 80001),
		caseSeq:     newSequence("CAS_", 6, 101),
	}
}

// Generate executes one full pipeline run for the scenario. Seed 0 means
// "pick one"; the effective seed is logged and recorded on the Result.
func (s *Service) Generate(ctx context.Context, sc config.Scenario) (*domain.Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validate scenario: %w", err)
	}

	seed := sc.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	runID := s.genID.Generate().String()
	ctx = obscontext.WithRunID(ctx, runID)
	log := logger.WithContext(ctx, s.log)

	started := s.clock.Now()
	r := newRun(sc, seed, s.personas(seed), started)

	snapshot := sc
	snapshot.Seed = seed
	result := &domain.Result{RunID: runID, Seed: seed, GeneratedAt: started, Scenario: snapshot}

	log.Info("generation started",
		zap.Uint64("seed", seed),
		zap.Int("customers", sc.Customers),
		zap.String("window_start", sc.StartDate.Format(time.DateOnly)),
		zap.String("window_end", sc.EndDate.Format(time.DateOnly)),
	)

	stages := []struct {
		Name string
		Run  func() error
	}{
		{"customers", func() error {
			result.Customers = r.buildCustomers(sc.Customers)
			return nil
		}},
		{"contracts", func() error {
			result.Contracts = r.buildContracts(result.Customers)
			return nil
		}},
		{"readings", func() error {
			readings, anomalyIDs, err := r.buildReadings(result.Customers, result.Contracts)
			if err != nil {
				return err
			}
			result.Readings = readings
			result.AnomalyCustomerIDs = anomalyIDs
			result.OverdueCustomerIDs = headOf(anomalyIDs, sc.OverdueCustomerCap)
			return nil
		}},
		{"invoices", func() error {
			result.Invoices = r.buildInvoices(result.Customers, result.Readings, toSet(result.OverdueCustomerIDs))
			return nil
		}},
		{"support_cases", func() error {
			result.SupportCases = r.buildSupportCases(result.Customers, toSet(result.AnomalyCustomerIDs), toSet(result.OverdueCustomerIDs))
			return nil
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stageStart := time.Now()
		if err := stage.Run(); err != nil {
			log.Error("stage failed", zap.String("stage", stage.Name), zap.Error(err))
			return nil, fmt.Errorf("%s: %w", stage.Name, err)
		}
		log.Debug("stage complete",
			zap.String("stage", stage.Name),
			zap.Duration("took", time.Since(stageStart)),
		)
	}

	result.Elapsed = s.clock.Now().Sub(started)
	log.Info("generation complete",
		zap.Int("customers", len(result.Customers)),
		zap.Int("contracts", len(result.Contracts)),
		zap.Int("readings", len(result.Readings)),
		zap.Int("invoices", len(result.Invoices)),
		zap.Int("support_cases", len(result.SupportCases)),
		zap.Int("anomaly_customers", len(result.AnomalyCustomerIDs)),
		zap.Int("overdue_customers", len(result.OverdueCustomerIDs)),
		zap.Duration("took", result.Elapsed),
	)
	return result, nil
}

func headOf(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	return ids[:n]
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
