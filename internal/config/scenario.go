package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// Scenario describes one generation run: how many customers to invent,
// which window the readings cover, and where the planted anomalies land.
type Scenario struct {
	Customers int
	StartDate time.Time
	EndDate   time.Time
	Seed      uint64

	AnomalyDate        time.Time
	AnomalyCustomerCap int
	OverdueCustomerCap int
	OverdueMonth       time.Month

	TariffRatePerKWh float64
	BaseMonthlyFee   float64
}

func DefaultScenario() Scenario {
	return Scenario{
		Customers:          250,
		StartDate:          time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
		Seed:               42,
		AnomalyDate:        time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
		AnomalyCustomerCap: 15,
		OverdueCustomerCap: 7,
		OverdueMonth:       time.August,
		TariffRatePerKWh:   0.35,
		BaseMonthlyFee:     5.50,
	}
}

// Validate rejects scenarios the generator cannot honor.
func (s Scenario) Validate() error {
	if s.Customers <= 0 {
		return errors.New("scenario.customers must be positive")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("scenario.endDate %s is before scenario.startDate %s",
			s.EndDate.Format(dateLayout), s.StartDate.Format(dateLayout))
	}
	if s.AnomalyDate.Before(s.StartDate) || s.AnomalyDate.After(s.EndDate) {
		return fmt.Errorf("scenario.anomalyDate %s is outside the reading window %s..%s",
			s.AnomalyDate.Format(dateLayout), s.StartDate.Format(dateLayout), s.EndDate.Format(dateLayout))
	}
	if s.AnomalyCustomerCap < 0 {
		return errors.New("scenario.anomalyCustomers cannot be negative")
	}
	if s.OverdueCustomerCap < 0 {
		return errors.New("scenario.overdueCustomers cannot be negative")
	}
	if s.OverdueMonth < time.January || s.OverdueMonth > time.December {
		return fmt.Errorf("scenario.overdueMonth %d is not a calendar month", s.OverdueMonth)
	}
	if s.TariffRatePerKWh <= 0 {
		return errors.New("scenario.tariffRatePerKwh must be positive")
	}
	if s.BaseMonthlyFee < 0 {
		return errors.New("scenario.baseMonthlyFee cannot be negative")
	}
	return nil
}

// scenarioFile is the on-disk shape; dates travel as YYYY-MM-DD strings.
type scenarioFile struct {
	Customers        int     `mapstructure:"customers"`
	StartDate        string  `mapstructure:"startDate"`
	EndDate          string  `mapstructure:"endDate"`
	Seed             uint64  `mapstructure:"seed"`
	AnomalyDate      string  `mapstructure:"anomalyDate"`
	AnomalyCustomers int     `mapstructure:"anomalyCustomers"`
	OverdueCustomers int     `mapstructure:"overdueCustomers"`
	OverdueMonth     int     `mapstructure:"overdueMonth"`
	TariffRatePerKwh float64 `mapstructure:"tariffRatePerKwh"`
	BaseMonthlyFee   float64 `mapstructure:"baseMonthlyFee"`
}

func defaultScenarioFile() scenarioFile {
	d := DefaultScenario()
	return scenarioFile{
		Customers:        d.Customers,
		StartDate:        d.StartDate.Format(dateLayout),
		EndDate:          d.EndDate.Format(dateLayout),
		Seed:             d.Seed,
		AnomalyDate:      d.AnomalyDate.Format(dateLayout),
		AnomalyCustomers: d.AnomalyCustomerCap,
		OverdueCustomers: d.OverdueCustomerCap,
		OverdueMonth:     int(d.OverdueMonth),
		TariffRatePerKwh: d.TariffRatePerKWh,
		BaseMonthlyFee:   d.BaseMonthlyFee,
	}
}

func (f scenarioFile) toScenario() (Scenario, error) {
	start, err := parseDate("startDate", f.StartDate)
	if err != nil {
		return Scenario{}, err
	}
	end, err := parseDate("endDate", f.EndDate)
	if err != nil {
		return Scenario{}, err
	}
	anomaly, err := parseDate("anomalyDate", f.AnomalyDate)
	if err != nil {
		return Scenario{}, err
	}
	return Scenario{
		Customers:          f.Customers,
		StartDate:          start,
		EndDate:            end,
		Seed:               f.Seed,
		AnomalyDate:        anomaly,
		AnomalyCustomerCap: f.AnomalyCustomers,
		OverdueCustomerCap: f.OverdueCustomers,
		OverdueMonth:       time.Month(f.OverdueMonth),
		TariffRatePerKWh:   f.TariffRatePerKwh,
		BaseMonthlyFee:     f.BaseMonthlyFee,
	}, nil
}

func parseDate(key, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("scenario.%s: invalid date %q, want YYYY-MM-DD", key, value)
	}
	return t, nil
}

type ScenarioHolder struct {
	current atomic.Value // holds Scenario

	mu       sync.Mutex
	onReload []func(Scenario)
}

// LoadScenario reads the scenario file once. Callers that want live
// reload go through NewScenarioHolder instead.
func LoadScenario(path string) (Scenario, error) {
	v, err := newScenarioViper(path)
	if err != nil {
		return Scenario{}, err
	}
	return loadScenario(v)
}

// NewScenarioHolder reads the scenario file and optionally watches it for
// edits. A missing file is fine; the defaults describe a complete run.
func NewScenarioHolder(path string, watch bool) (*ScenarioHolder, error) {
	v, err := newScenarioViper(path)
	if err != nil {
		return nil, err
	}

	sc, err := loadScenario(v)
	if err != nil {
		return nil, err
	}

	holder := &ScenarioHolder{}
	holder.current.Store(sc)

	if watch {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := loadScenario(v)
			if err != nil {
				log.Printf("[scenario] invalid scenario ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[scenario] reloaded from %s", e.Name)
			holder.notify(updated)
		})
	}

	return holder, nil
}

func ProvideScenarioHolder(cfg Config) (*ScenarioHolder, error) {
	return NewScenarioHolder(cfg.ScenarioFile, cfg.WatchScenario)
}

func (h *ScenarioHolder) Get() Scenario {
	return h.current.Load().(Scenario)
}

// OnReload registers fn to run whenever a valid scenario replaces the
// current one. Callbacks fire on viper's watch goroutine.
func (h *ScenarioHolder) OnReload(fn func(Scenario)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

func (h *ScenarioHolder) notify(sc Scenario) {
	h.mu.Lock()
	callbacks := make([]func(Scenario), len(h.onReload))
	copy(callbacks, h.onReload)
	h.mu.Unlock()
	for _, fn := range callbacks {
		fn(sc)
	}
}

func newScenarioViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setScenarioDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// if scenario file not found, run on defaults
	}
	return v, nil
}

func loadScenario(v *viper.Viper) (Scenario, error) {
	// Decoding onto the defaults keeps unset keys at their default values
	// even for partial files, where viper does not merge nested defaults.
	raw := defaultScenarioFile()
	if err := v.UnmarshalKey("scenario", &raw); err != nil {
		return Scenario{}, err
	}
	sc, err := raw.toScenario()
	if err != nil {
		return Scenario{}, err
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func setScenarioDefaults(v *viper.Viper) {
	defaults := DefaultScenario()
	v.SetDefault("scenario.customers", defaults.Customers)
	v.SetDefault("scenario.startDate", defaults.StartDate.Format(dateLayout))
	v.SetDefault("scenario.endDate", defaults.EndDate.Format(dateLayout))
	v.SetDefault("scenario.seed", defaults.Seed)
	v.SetDefault("scenario.anomalyDate", defaults.AnomalyDate.Format(dateLayout))
	v.SetDefault("scenario.anomalyCustomers", defaults.AnomalyCustomerCap)
	v.SetDefault("scenario.overdueCustomers", defaults.OverdueCustomerCap)
	v.SetDefault("scenario.overdueMonth", int(defaults.OverdueMonth))
	v.SetDefault("scenario.tariffRatePerKwh", defaults.TariffRatePerKWh)
	v.SetDefault("scenario.baseMonthlyFee", defaults.BaseMonthlyFee)
}
