// Package sink fans a generated dataset out to the configured outputs.
package sink

import (
	"context"
	"fmt"

	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	"github.com/gridwerk/demogrid/internal/sink/influxdb"
	"github.com/gridwerk/demogrid/internal/sink/kafka"
	"github.com/gridwerk/demogrid/internal/sink/parquet"
	"github.com/gridwerk/demogrid/internal/sink/warehouse"
	"github.com/gridwerk/demogrid/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sink writes one generated dataset to a destination. Write must be safe
// to call again with a later dataset; every sink replaces or appends,
// never merges.
type Sink interface {
	Name() string
	Write(ctx context.Context, res *domain.Result) error
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// New assembles the enabled sinks. Connections are only opened for sinks
// that are switched on.
func New(p Params) ([]Sink, error) {
	log := p.Log.Named("sink")

	outputs := []struct {
		Name    string
		Enabled bool
		Build   func() (Sink, error)
	}{
		{
			Name:    "warehouse",
			Enabled: p.Config.Sinks.Warehouse,
			Build: func() (Sink, error) {
				gdb, err := db.Open(p.Config, log)
				if err != nil {
					return nil, err
				}
				p.Lifecycle.Append(fx.Hook{OnStop: func(context.Context) error {
					sqlDB, err := gdb.DB()
					if err != nil {
						return err
					}
					return sqlDB.Close()
				}})
				return warehouse.New(gdb, log)
			},
		},
		{
			Name:    "parquet",
			Enabled: p.Config.Sinks.Parquet,
			Build: func() (Sink, error) {
				return parquet.New(p.Config.Sinks.ParquetDir, log)
			},
		},
		{
			Name:    "kafka",
			Enabled: p.Config.Sinks.Kafka,
			Build: func() (Sink, error) {
				producer, err := kafka.NewProducer(p.Config.Sinks.KafkaBrokers)
				if err != nil {
					return nil, err
				}
				p.Lifecycle.Append(fx.Hook{OnStop: func(context.Context) error {
					return producer.Close()
				}})
				return kafka.New(producer, p.Config.Sinks.KafkaTopic, log)
			},
		},
		{
			Name:    "influxdb",
			Enabled: p.Config.Sinks.InfluxDB,
			Build: func() (Sink, error) {
				client := influxdb.NewClient(p.Config.Sinks.InfluxURL, p.Config.Sinks.InfluxToken)
				p.Lifecycle.Append(fx.Hook{OnStop: func(context.Context) error {
					client.Close()
					return nil
				}})
				return influxdb.New(client, p.Config.Sinks.InfluxOrg, p.Config.Sinks.InfluxBucket, log)
			},
		},
	}

	var sinks []Sink
	for _, output := range outputs {
		if !output.Enabled {
			log.Debug("sink disabled", zap.String("sink", output.Name))
			continue
		}
		s, err := output.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", output.Name, err)
		}
		sinks = append(sinks, s)
		log.Info("sink enabled", zap.String("sink", output.Name))
	}
	return sinks, nil
}

var Module = fx.Module("sink",
	fx.Provide(New),
)
