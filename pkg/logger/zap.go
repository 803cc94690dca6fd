package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const KeyCorrelationID = "correlation-id"

func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	if debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}
	logger, err := consoleConfig().Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

//NewLoggerWithFile writes JSON log entries into a rotated log file in addition to stderr
func NewLoggerWithFile(debug bool, logFile string) (*zap.SugaredLogger, error) {
	logger, err := NewLogger(debug)
	if err != nil {
		return nil, err
	}
	if logFile == "" {
		return logger, nil
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     7, // days
	})
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			TimeKey:      "time",
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		}),
		fileSink,
		level,
	)

	return logger.Desugar().WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})).Sugar(), nil
}

func NewOptionalLogger(debug bool) *zap.SugaredLogger {
	logger, err := NewLogger(debug)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger
}

//WithCorrelationID returns a child logger which adds the correlation ID to each entry
func WithCorrelationID(logger *zap.SugaredLogger, correlationID string) *zap.SugaredLogger {
	return logger.With(zap.String(KeyCorrelationID, correlationID))
}

func consoleConfig() zap.Config {
	return zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zapcore.WarnLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			TimeKey:      "time",
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
}
