package warehouse

import (
	"strconv"
	"time"

	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	"gorm.io/datatypes"
)

// GenerationRun is the manifest row recorded after every load. Data tables
// are replaced per run; the manifest appends, so the warehouse keeps the
// provenance of everything it ever held.
type GenerationRun struct {
	RunID       string            `gorm:"column:RUN_ID;primaryKey"`
	Seed        string            `gorm:"column:SEED"`
	WindowStart time.Time         `gorm:"column:WINDOW_START;type:date"`
	WindowEnd   time.Time         `gorm:"column:WINDOW_END;type:date"`
	GeneratedAt time.Time         `gorm:"column:GENERATED_AT"`
	ElapsedMS   int64             `gorm:"column:ELAPSED_MS"`
	RowCounts   datatypes.JSONMap `gorm:"column:ROW_COUNTS"`
	Scenario    datatypes.JSONMap `gorm:"column:SCENARIO"`
}

// TableName sets the database table name.
func (GenerationRun) TableName() string {
	return "META_GENERATION_RUNS"
}

func newGenerationRun(res *domain.Result) GenerationRun {
	counts := make(datatypes.JSONMap, 5)
	for table, n := range res.RowCounts() {
		counts[table] = n
	}
	return GenerationRun{
		RunID:       res.RunID,
		Seed:        strconv.FormatUint(res.Seed, 10),
		WindowStart: res.Scenario.StartDate,
		WindowEnd:   res.Scenario.EndDate,
		GeneratedAt: res.GeneratedAt,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		RowCounts:   counts,
		Scenario:    scenarioSnapshot(res.Scenario),
	}
}

// scenarioSnapshot flattens the scenario for the manifest; dates travel as
// YYYY-MM-DD strings and the seed as text to survive every dialect.
func scenarioSnapshot(sc config.Scenario) datatypes.JSONMap {
	return datatypes.JSONMap{
		"customers":        sc.Customers,
		"startDate":        sc.StartDate.Format(time.DateOnly),
		"endDate":          sc.EndDate.Format(time.DateOnly),
		"seed":             strconv.FormatUint(sc.Seed, 10),
		"anomalyDate":      sc.AnomalyDate.Format(time.DateOnly),
		"anomalyCustomers": sc.AnomalyCustomerCap,
		"overdueCustomers": sc.OverdueCustomerCap,
		"overdueMonth":     int(sc.OverdueMonth),
		"tariffRatePerKwh": sc.TariffRatePerKWh,
		"baseMonthlyFee":   sc.BaseMonthlyFee,
	}
}
