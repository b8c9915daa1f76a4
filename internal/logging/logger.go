// Package logging configures the process-wide zap logger. Logs go to
// jumpsim.log inside the data directory; verbose mode echoes debug
// output to stderr as well.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to <dataDir>/jumpsim.log. The file core
// records debug and up; the console core is attached only in verbose
// mode so normal CLI output stays clean.
func New(dataDir string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(
		filepath.Join(dataDir, "jumpsim.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
	)
	if err != nil {
		return nil, err
	}

	fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(fileEnc, zapcore.AddSync(logFile), zapcore.DebugLevel),
	}

	if verbose {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(os.Stderr),
			zapcore.DebugLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Nop returns a logger that discards everything, for tests and for
// commands that run before the data dir exists.
func Nop() *zap.Logger {
	return zap.NewNop()
}
