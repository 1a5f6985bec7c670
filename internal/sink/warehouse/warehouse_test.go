package warehouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return gdb
}

func sampleResult(runID string, customers int) *domain.Result {
	sc := config.DefaultScenario()
	sc.Customers = customers

	res := &domain.Result{
		RunID:       runID,
		Seed:        sc.Seed,
		GeneratedAt: time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:     125 * time.Millisecond,
		Scenario:    sc,
	}
	for i := 0; i < customers; i++ {
		id := fmt.Sprintf("CID_%06d", 1001+i)
		res.Customers = append(res.Customers, domain.Customer{
			CustomerID:    id,
			CustomerName:  fmt.Sprintf("Test Person%d", i),
			Email:         fmt.Sprintf("test.person%d@gmail.com", i),
			Address:       "1 Main St",
			City:          "Springfield",
			PostalCode:    "12345",
			CustomerType:  domain.CustomerTypeResidential,
			AccountStatus: domain.AccountStatusActive,
			JoinDate:      time.Date(2022, time.March, 10, 0, 0, 0, 0, time.UTC),
		})
		res.Contracts = append(res.Contracts, domain.Contract{
			ContractID:  fmt.Sprintf("CON_%07d", 5001+i),
			CustomerID:  id,
			ServiceType: domain.ServiceTypeElectricity,
			TariffPlan:  "Green Fix",
			StartDate:   time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			Status:      domain.ContractStatusActive,
		})
		res.Readings = append(res.Readings, domain.MeterReading{
			ReadingID:      fmt.Sprintf("RID_%08d", 100001+i),
			CustomerID:     id,
			MeterID:        "MTR-13346",
			Timestamp:      time.Date(2025, time.August, 1, 9, 30, 0, 0, time.UTC),
			KWHConsumption: 10.25,
		})
		res.Invoices = append(res.Invoices, domain.Invoice{
			InvoiceID:     fmt.Sprintf("INV_%07d", 80001+i),
			CustomerID:    id,
			InvoiceDate:   time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2025, time.September, 19, 0, 0, 0, 0, time.UTC),
			AmountDue:     decimal.RequireFromString("9.09"),
			PaymentStatus: domain.PaymentStatusPending,
			PeriodStart:   time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:     time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
		})
	}
	res.SupportCases = append(res.SupportCases, domain.SupportCase{
		CaseID:           "CAS_000101",
		CustomerID:       res.Customers[0].CustomerID,
		CaseDate:         time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC),
		IssueType:        domain.IssueTypeBillingInquiry,
		Description:      "Customer inquired about unexpectedly high bill for August.",
		ResolutionStatus: domain.ResolutionStatusClosed,
	})
	return res
}

func tableCount(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(openTestDB(t), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWriteLoadsAllTables(t *testing.T) {
	gdb := openTestDB(t)
	sink, err := New(gdb, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "warehouse", sink.Name())

	res := sampleResult("run-1", 3)
	require.NoError(t, sink.Write(context.Background(), res))

	assert.Equal(t, int64(3), tableCount(t, gdb, "DIM_CUSTOMERS"))
	assert.Equal(t, int64(3), tableCount(t, gdb, "FACT_CONTRACTS"))
	assert.Equal(t, int64(3), tableCount(t, gdb, "FACT_SMART_METER_READINGS"))
	assert.Equal(t, int64(3), tableCount(t, gdb, "FACT_BILLINGS"))
	assert.Equal(t, int64(1), tableCount(t, gdb, "FACT_SUPPORT_CASES"))

	var customer domain.Customer
	require.NoError(t, gdb.First(&customer, "CUSTOMER_ID = ?", "CID_001001").Error)
	assert.Equal(t, "Test Person0", customer.CustomerName)
	assert.Equal(t, domain.CustomerTypeResidential, customer.CustomerType)

	var invoice domain.Invoice
	require.NoError(t, gdb.First(&invoice, "INVOICE_ID = ?", "INV_0080001").Error)
	assert.True(t, invoice.AmountDue.Equal(decimal.RequireFromString("9.09")), "amount %s", invoice.AmountDue)

	var manifest GenerationRun
	require.NoError(t, gdb.First(&manifest, "RUN_ID = ?", "run-1").Error)
	assert.Equal(t, "42", manifest.Seed)
	assert.Equal(t, float64(3), manifest.RowCounts["DIM_CUSTOMERS"])
	assert.Equal(t, float64(1), manifest.RowCounts["FACT_SUPPORT_CASES"])
	assert.Equal(t, "2025-06-01", manifest.Scenario["startDate"])
	assert.Equal(t, "2025-08-31", manifest.Scenario["endDate"])
	assert.Equal(t, "42", manifest.Scenario["seed"])
}

func TestWriteReplacesPreviousLoad(t *testing.T) {
	gdb := openTestDB(t)
	sink, err := New(gdb, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), sampleResult("run-1", 5)))
	require.NoError(t, sink.Write(context.Background(), sampleResult("run-2", 2)))

	// Data tables hold only the latest run; the manifest keeps both.
	assert.Equal(t, int64(2), tableCount(t, gdb, "DIM_CUSTOMERS"))
	assert.Equal(t, int64(2), tableCount(t, gdb, "FACT_BILLINGS"))
	assert.Equal(t, int64(2), tableCount(t, gdb, "META_GENERATION_RUNS"))
}

func TestWriteRejectsDuplicateRun(t *testing.T) {
	gdb := openTestDB(t)
	sink, err := New(gdb, zap.NewNop())
	require.NoError(t, err)

	res := sampleResult("run-1", 2)
	require.NoError(t, sink.Write(context.Background(), res))

	err = sink.Write(context.Background(), res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already recorded")
}

func TestWriteEmptyDataset(t *testing.T) {
	gdb := openTestDB(t)
	sink, err := New(gdb, zap.NewNop())
	require.NoError(t, err)

	res := &domain.Result{
		RunID:       "run-empty",
		Seed:        1,
		GeneratedAt: time.Now().UTC(),
		Scenario:    config.DefaultScenario(),
	}
	require.NoError(t, sink.Write(context.Background(), res))

	assert.Equal(t, int64(0), tableCount(t, gdb, "DIM_CUSTOMERS"))
	assert.Equal(t, int64(1), tableCount(t, gdb, "META_GENERATION_RUNS"))
}
