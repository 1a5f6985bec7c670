// Package warehouse loads generated datasets into the relational
// warehouse. Each run replaces the five data tables and appends one
// manifest row.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
	"github.com/gridwerk/demogrid/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidConfig signals missing sink dependencies.
var ErrInvalidConfig = errors.New("invalid_warehouse_config")

// batchSize keeps insert statements under every dialect's parameter limit.
const batchSize = 500

type Sink struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(gdb *gorm.DB, log *zap.Logger) (*Sink, error) {
	if gdb == nil || log == nil {
		return nil, ErrInvalidConfig
	}
	return &Sink{db: gdb, log: log.Named("sink.warehouse")}, nil
}

func (s *Sink) Name() string {
	return "warehouse"
}

// Write replaces the data tables with the run's rows and records the run
// in META_GENERATION_RUNS.
func (s *Sink) Write(ctx context.Context, res *domain.Result) error {
	started := time.Now()
	tx := s.db.WithContext(ctx)

	dataModels := []any{
		&domain.Customer{},
		&domain.Contract{},
		&domain.MeterReading{},
		&domain.Invoice{},
		&domain.SupportCase{},
	}
	if err := tx.Migrator().DropTable(dataModels...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := tx.AutoMigrate(append(dataModels, &GenerationRun{})...); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}

	if err := insertAll(tx, res); err != nil {
		return err
	}

	manifest := newGenerationRun(res)
	if err := tx.Create(&manifest).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return fmt.Errorf("run %s already recorded: %w", res.RunID, err)
		}
		return fmt.Errorf("record manifest: %w", err)
	}

	s.log.Info("warehouse load complete",
		zap.String("run_id", res.RunID),
		zap.Int("customers", len(res.Customers)),
		zap.Int("contracts", len(res.Contracts)),
		zap.Int("readings", len(res.Readings)),
		zap.Int("invoices", len(res.Invoices)),
		zap.Int("support_cases", len(res.SupportCases)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

func insertAll(tx *gorm.DB, res *domain.Result) error {
	if err := insert(tx, domain.Customer{}.TableName(), res.Customers); err != nil {
		return err
	}
	if err := insert(tx, domain.Contract{}.TableName(), res.Contracts); err != nil {
		return err
	}
	if err := insert(tx, domain.MeterReading{}.TableName(), res.Readings); err != nil {
		return err
	}
	if err := insert(tx, domain.Invoice{}.TableName(), res.Invoices); err != nil {
		return err
	}
	return insert(tx, domain.SupportCase{}.TableName(), res.SupportCases)
}

func insert[T any](tx *gorm.DB, table string, rows []T) error {
	// GORM rejects empty slices, and an empty dataset is a valid load.
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}
