package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/gridwerk/demogrid/internal/clock"
	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	"github.com/gridwerk/demogrid/internal/persona"
	"github.com/gridwerk/demogrid/internal/runner"
	"github.com/gridwerk/demogrid/internal/sink"
	parquetsink "github.com/gridwerk/demogrid/internal/sink/parquet"
	"github.com/gridwerk/demogrid/internal/sink/warehouse"
	pq "github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The window runs past the overdue month so overdue invoices are
// observable; the final month stays pending.
const scenarioYAML = `scenario:
  customers: 40
  startDate: 2025-06-01
  endDate: 2025-09-30
  anomalyDate: 2025-08-15
  seed: 42
`

const windowDays = 30 + 31 + 31 + 30

var e2eNow = time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

// captureSink keeps the generated dataset so warehouse rows can be checked
// against the run's anomaly bookkeeping.
type captureSink struct {
	mu  sync.Mutex
	res *domain.Result
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Write(_ context.Context, res *domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.res = res
	return nil
}

func (c *captureSink) result(t *testing.T) *domain.Result {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.res == nil {
		t.Fatal("capture sink never received a dataset")
	}
	return c.res
}

// Local row shapes re-declare the parquet schema, so the files are checked
// the way an external reader would see them.
type customerFileRow struct {
	CustomerID    string `parquet:"CUSTOMER_ID"`
	CustomerName  string `parquet:"CUSTOMER_NAME"`
	Email         string `parquet:"EMAIL"`
	Address       string `parquet:"ADDRESS"`
	City          string `parquet:"CITY"`
	PostalCode    string `parquet:"POSTAL_CODE"`
	CustomerType  string `parquet:"CUSTOMER_TYPE"`
	AccountStatus string `parquet:"ACCOUNT_STATUS"`
	JoinDate      string `parquet:"JOIN_DATE"`
}

type readingFileRow struct {
	ReadingID      string    `parquet:"READING_ID"`
	CustomerID     string    `parquet:"CUSTOMER_ID"`
	MeterID        string    `parquet:"METER_ID"`
	Timestamp      time.Time `parquet:"TIMESTAMP,timestamp"`
	ConsumptionKwh float64   `parquet:"KWH_CONSUMPTION"`
	GenerationKw   float64   `parquet:"KW_GENERATION"`
}

func TestPipelineEndToEnd(t *testing.T) {
	scenarioPath := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(scenarioYAML), 0o600))
	holder, err := config.NewScenarioHolder(scenarioPath, false)
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	wh, err := warehouse.New(gdb, zap.NewNop())
	require.NoError(t, err)

	parquetDir := t.TempDir()
	pqSink, err := parquetsink.New(parquetDir, zap.NewNop())
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	gen, err := generator.New(generator.Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(e2eNow),
		GenID:    node,
		Personas: persona.NewFactory(),
	})
	require.NoError(t, err)

	capture := &captureSink{}
	r, err := runner.New(runner.Params{
		Log:       zap.NewNop(),
		Config:    config.Config{ScenarioFile: scenarioPath},
		Scenarios: holder,
		Generator: gen,
		Sinks:     []sink.Sink{wh, pqSink, capture},
		Clock:     clock.NewFakeClock(e2eNow),
	})
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	res := capture.result(t)

	require.Len(t, res.AnomalyCustomerIDs, 15)
	assert.Equal(t, res.AnomalyCustomerIDs[:7], res.OverdueCustomerIDs)

	t.Run("warehouse row counts", func(t *testing.T) {
		assert.Equal(t, int64(40), tableCount(t, gdb, "DIM_CUSTOMERS"))
		assert.Equal(t, int64(40*windowDays), tableCount(t, gdb, "FACT_SMART_METER_READINGS"))
		assert.Equal(t, int64(160), tableCount(t, gdb, "FACT_BILLINGS"))

		contracts := tableCount(t, gdb, "FACT_CONTRACTS")
		assert.GreaterOrEqual(t, contracts, int64(40))
		assert.LessOrEqual(t, contracts, int64(80))

		cases := tableCount(t, gdb, "FACT_SUPPORT_CASES")
		assert.GreaterOrEqual(t, cases, int64(15))
		assert.LessOrEqual(t, cases, int64(2*40))
	})

	t.Run("manifest records the run", func(t *testing.T) {
		var manifest warehouse.GenerationRun
		require.NoError(t, gdb.First(&manifest, "RUN_ID = ?", res.RunID).Error)
		assert.Equal(t, "42", manifest.Seed)
		assert.Equal(t, float64(40*windowDays), manifest.RowCounts["FACT_SMART_METER_READINGS"])
		assert.Equal(t, "2025-09-30", manifest.Scenario["endDate"])
	})

	t.Run("anomaly spike is visible in loaded readings", func(t *testing.T) {
		target := res.AnomalyCustomerIDs[0]
		var readings []domain.MeterReading
		require.NoError(t, gdb.Find(&readings, "CUSTOMER_ID = ?", target).Error)
		require.Len(t, readings, windowDays)

		spikeFrom := time.Date(2025, time.August, 13, 0, 0, 0, 0, time.UTC)
		spikeTo := time.Date(2025, time.August, 17, 0, 0, 0, 0, time.UTC)
		var spikeSum, spikeN, calmSum, calmN float64
		for _, reading := range readings {
			day := reading.Timestamp.Truncate(24 * time.Hour)
			if !day.Before(spikeFrom) && !day.After(spikeTo) {
				spikeSum += reading.KWHConsumption
				spikeN++
				continue
			}
			calmSum += reading.KWHConsumption
			calmN++
		}
		require.Equal(t, float64(5), spikeN)
		// The multiplier is 5x-8x, so a 2x bar leaves plenty of room for
		// sampling noise.
		assert.Greater(t, spikeSum/spikeN, 2*calmSum/calmN)
	})

	t.Run("september stays generation-free", func(t *testing.T) {
		var readings []domain.MeterReading
		require.NoError(t, gdb.Find(&readings).Error)
		for _, reading := range readings {
			if reading.Timestamp.Month() == time.September && reading.KWGeneration != 0 {
				t.Fatalf("reading %s generates %.2f kW outside the solar season",
					reading.ReadingID, reading.KWGeneration)
			}
		}
	})

	t.Run("overdue invoices trace to their customers", func(t *testing.T) {
		for _, id := range res.OverdueCustomerIDs {
			invoicesByMonth := invoicesFor(t, gdb, id)
			assert.Equal(t, domain.PaymentStatusOverdue, invoicesByMonth[time.August].PaymentStatus)
			assert.Equal(t, domain.PaymentStatusPending, invoicesByMonth[time.September].PaymentStatus)
			assert.Equal(t, domain.PaymentStatusPaid, invoicesByMonth[time.June].PaymentStatus)
		}
	})

	t.Run("invoice amounts recompute from loaded readings", func(t *testing.T) {
		target := res.OverdueCustomerIDs[0]
		var readings []domain.MeterReading
		require.NoError(t, gdb.Find(&readings, "CUSTOMER_ID = ?", target).Error)

		var kwh float64
		for _, reading := range readings {
			if reading.Timestamp.Month() == time.June {
				kwh += reading.KWHConsumption
			}
		}
		want := decimal.NewFromFloat(kwh).
			Mul(decimal.NewFromFloat(0.35)).
			Add(decimal.NewFromFloat(5.50)).
			RoundBank(2)

		june := invoicesFor(t, gdb, target)[time.June]
		assert.True(t, june.AmountDue.Equal(want),
			"june invoice %s, want %s", june.AmountDue, want)
		assert.Equal(t, "2025-07-05", june.InvoiceDate.UTC().Format(time.DateOnly))
		assert.Equal(t, "2025-07-19", june.DueDate.UTC().Format(time.DateOnly))
	})

	t.Run("anomaly customers raised a high-bill case", func(t *testing.T) {
		for _, id := range res.AnomalyCustomerIDs {
			var cases []domain.SupportCase
			require.NoError(t, gdb.Find(&cases, "CUSTOMER_ID = ?", id).Error)
			require.NotEmpty(t, cases, "anomaly customer %s has no support case", id)

			found := false
			for _, c := range cases {
				if c.Description == "Customer inquired about unexpectedly high bill for August." {
					found = true
					assert.Equal(t, domain.IssueTypeBillingInquiry, c.IssueType)
				}
			}
			assert.True(t, found, "anomaly customer %s has no high-bill case", id)
		}
	})

	t.Run("parquet export mirrors the warehouse", func(t *testing.T) {
		for _, name := range []string{
			"DIM_CUSTOMERS", "FACT_CONTRACTS", "FACT_SMART_METER_READINGS",
			"FACT_BILLINGS", "FACT_SUPPORT_CASES",
		} {
			_, err := os.Stat(filepath.Join(parquetDir, name+".parquet"))
			assert.NoError(t, err, "missing %s.parquet", name)
		}

		customers, err := pq.ReadFile[customerFileRow](filepath.Join(parquetDir, "DIM_CUSTOMERS.parquet"))
		require.NoError(t, err)
		require.Len(t, customers, 40)
		assert.Equal(t, "CID_001001", customers[0].CustomerID)

		readings, err := pq.ReadFile[readingFileRow](filepath.Join(parquetDir, "FACT_SMART_METER_READINGS.parquet"))
		require.NoError(t, err)
		assert.Len(t, readings, 40*windowDays)
	})
}

func tableCount(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}

func invoicesFor(t *testing.T, gdb *gorm.DB, customerID string) map[time.Month]domain.Invoice {
	t.Helper()
	var invoices []domain.Invoice
	require.NoError(t, gdb.Find(&invoices, "CUSTOMER_ID = ?", customerID).Error)
	require.Len(t, invoices, 4)

	byMonth := make(map[time.Month]domain.Invoice, len(invoices))
	for _, invoice := range invoices {
		byMonth[invoice.PeriodStart.Month()] = invoice
	}
	return byMonth
}
