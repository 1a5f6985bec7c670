// Package db opens the warehouse database connection the load sink
// writes through.
package db

import (
	"time"

	"github.com/gridwerk/demogrid/internal/config"
	"github.com/gridwerk/demogrid/internal/observability/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open connects using the configured dialect and applies the pool limits.
// The caller owns the connection and closes it via the underlying sql.DB.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(logger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)

	log.Info("database connected",
		zap.String("dialect", dialector.Name()),
		zap.String("database", cfg.DBName),
	)
	return gdb, nil
}
