// Package influxdb writes generated readings as time-series points, so
// the dataset can back consumption dashboards.
package influxdb

import (
	"context"
	"errors"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridwerk/demogrid/internal/generator/domain"
	"go.uber.org/zap"
)

// ErrInvalidConfig signals missing sink dependencies.
var ErrInvalidConfig = errors.New("invalid_influxdb_config")

const measurement = "energy_consumption"

// pointBatchSize follows the client's recommended write batch size.
const pointBatchSize = 5000

// NewClient builds the InfluxDB client. The connection is lazy; nothing
// is dialed until the first write.
func NewClient(url, token string) influxdb2.Client {
	return influxdb2.NewClient(url, token)
}

type Sink struct {
	writer api.WriteAPIBlocking
	log    *zap.Logger
}

func New(client influxdb2.Client, org, bucket string, log *zap.Logger) (*Sink, error) {
	if client == nil || org == "" || bucket == "" || log == nil {
		return nil, ErrInvalidConfig
	}
	return newWithWriter(client.WriteAPIBlocking(org, bucket), log), nil
}

func newWithWriter(writer api.WriteAPIBlocking, log *zap.Logger) *Sink {
	return &Sink{writer: writer, log: log.Named("sink.influxdb")}
}

func (s *Sink) Name() string {
	return "influxdb"
}

// Write sends one point per reading, tagged for per-meter and per-segment
// queries.
func (s *Sink) Write(ctx context.Context, res *domain.Result) error {
	started := time.Now()
	points := buildPoints(res)

	for from := 0; from < len(points); from += pointBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		to := from + pointBatchSize
		if to > len(points) {
			to = len(points)
		}
		if err := s.writer.WritePoint(ctx, points[from:to]...); err != nil {
			return err
		}
	}

	s.log.Info("points written",
		zap.String("run_id", res.RunID),
		zap.Int("points", len(points)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

func buildPoints(res *domain.Result) []*write.Point {
	solar := make(map[string]bool)
	for _, contract := range res.Contracts {
		if contract.ServiceType == domain.ServiceTypeSolarLease {
			solar[contract.CustomerID] = true
		}
	}
	types := make(map[string]domain.CustomerType, len(res.Customers))
	for _, customer := range res.Customers {
		types[customer.CustomerID] = customer.CustomerType
	}

	points := make([]*write.Point, 0, len(res.Readings))
	for _, reading := range res.Readings {
		points = append(points, write.NewPoint(
			measurement,
			map[string]string{
				"meter_id":      reading.MeterID,
				"customer_id":   reading.CustomerID,
				"customer_type": string(types[reading.CustomerID]),
				"solar":         strconv.FormatBool(solar[reading.CustomerID]),
			},
			map[string]any{
				"consumption_kwh": reading.KWHConsumption,
				"generation_kw":   reading.KWGeneration,
			},
			reading.Timestamp,
		))
	}
	return points
}
