// Package parquet exports generated datasets as one parquet file per
// table, for lakehouse-style consumption without a database.
package parquet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
	pq "github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

// ErrInvalidConfig signals missing sink dependencies.
var ErrInvalidConfig = errors.New("invalid_parquet_config")

type Sink struct {
	dir string
	log *zap.Logger
}

func New(dir string, log *zap.Logger) (*Sink, error) {
	if dir == "" || log == nil {
		return nil, ErrInvalidConfig
	}
	return &Sink{dir: dir, log: log.Named("sink.parquet")}, nil
}

func (s *Sink) Name() string {
	return "parquet"
}

// Write renders the five tables under the output directory, replacing any
// files from an earlier run.
func (s *Sink) Write(ctx context.Context, res *domain.Result) error {
	started := time.Now()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tables := []struct {
		Name  string
		Write func(path string) error
	}{
		{domain.Customer{}.TableName(), func(path string) error {
			return writeTable(path, toCustomerRows(res.Customers))
		}},
		{domain.Contract{}.TableName(), func(path string) error {
			return writeTable(path, toContractRows(res.Contracts))
		}},
		{domain.MeterReading{}.TableName(), func(path string) error {
			return writeTable(path, toReadingRows(res.Readings))
		}},
		{domain.Invoice{}.TableName(), func(path string) error {
			return writeTable(path, toInvoiceRows(res.Invoices))
		}},
		{domain.SupportCase{}.TableName(), func(path string) error {
			return writeTable(path, toCaseRows(res.SupportCases))
		}},
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.dir, table.Name+".parquet")
		if err := table.Write(path); err != nil {
			return fmt.Errorf("%s: %w", table.Name, err)
		}
	}

	s.log.Info("parquet export complete",
		zap.String("run_id", res.RunID),
		zap.String("dir", s.dir),
		zap.Int("tables", len(tables)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

func writeTable[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := pq.NewGenericWriter[T](f, pq.Compression(&pq.Snappy))
	if _, err := w.Write(rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
