package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "hipparchia-console.log"

var (
	traceMu      sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	logger       *zap.Logger
	session      string
)

// Error writes errors to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	current().Error(err.Error())
}

// Warn records a non-fatal condition with an optional payload.
func Warn(message string, payload map[string]interface{}) {
	current().Warn(message, zap.Any("payload", payload))
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	traceMu.Lock()
	traceEnabled = enabled
	traceMu.Unlock()
}

// TraceEnabled reports whether trace entries are currently emitted.
func TraceEnabled() bool {
	traceMu.Lock()
	defer traceMu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	fields := []zap.Field{zap.String("event", event)}
	if payload != nil {
		fields = append(fields, zap.Any("payload", payload))
	}
	current().Debug("trace", fields...)
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	traceMu.Lock()
	defer traceMu.Unlock()
	next := defaultLogFile
	if strings.TrimSpace(path) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		} else {
			next = path
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	logPath = next
	logger = newLogger(next)
}

// SetSession tags every later entry with id. Empty clears the tag.
func SetSession(id string) {
	traceMu.Lock()
	session = id
	traceMu.Unlock()
}

// Path returns the active log destination.
func Path() string {
	traceMu.Lock()
	defer traceMu.Unlock()
	return logPath
}

// Sync flushes buffered entries.
func Sync() {
	traceMu.Lock()
	l := logger
	traceMu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}

func current() *zap.Logger {
	traceMu.Lock()
	defer traceMu.Unlock()
	if logger == nil {
		logger = newLogger(logPath)
	}
	if session != "" {
		return logger.With(zap.String("session", session))
	}
	return logger
}

func newLogger(path string) *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
