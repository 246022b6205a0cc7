// Package logging builds the debug logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "roster-debug.log"

// New returns a JSON-lines debug logger writing to path.
// When enabled is false it returns a no-op logger.
// The returned close function flushes and closes the file.
func New(enabled bool, path string) (*zap.Logger, func(), error) {
	if !enabled {
		return zap.NewNop(), func() {}, nil
	}

	// Truncate on start so each session gets a clean log.
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "event"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.DebugLevel)
	logger := zap.New(core).With(zap.Int("pid", os.Getpid()))
	logger.Debug("debug_start", zap.String("log_file", path))

	closeFn := func() {
		logger.Debug("debug_end")
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, closeFn, nil
}
