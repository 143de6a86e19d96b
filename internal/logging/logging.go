package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/config"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/gelf"
)

const serviceName = "oxiportal"

// New builds the process logger from cfg. When a GELF address is set,
// entries are also shipped there as JSON. The returned func releases the
// GELF connection and flushes buffered output.
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	if cfg.GELFAddr == "" {
		return log, func() { _ = log.Sync() }, nil
	}

	w, err := gelf.New(cfg.GELFAddr, serviceName)
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("gelf: %w", err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.EpochTimeEncoder
	gelfCore := zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, zc.Level)

	log = log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, gelfCore)
	}))
	log.Info("GELF logging enabled", zap.String("addr", cfg.GELFAddr))
	return log, func() {
		_ = log.Sync()
		_ = w.Close()
	}, nil
}
