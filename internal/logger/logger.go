// Package logger provides structured logging using zap, with optional
// rotating file output through lumberjack.
package logger

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log *zap.Logger

// Sugar is the sugared logger for convenient logging.
var Sugar *zap.SugaredLogger

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures Init.
type Options struct {
	Level  string // debug, info, warn or error; anything else means info
	Format string // FormatConsole (default) or FormatJSON

	// Console receives human-oriented output; nil disables it. The intro
	// binary passes os.Stderr so stdout stays free for tool output.
	Console io.Writer

	File FileConfig // rotated file output, disabled when Path is empty
}

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

func init() {
	InitNop()
}

// InitNop installs a logger that discards everything. Packages can log
// before Init runs, and tests stay quiet.
func InitNop() {
	set(zap.NewNop())
}

// Init replaces the global logger. With neither console nor file output the
// result is a no-op logger.
func Init(opts Options) error {
	lvl := parseLevel(opts.Level)

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatConsole
	}
	if format != FormatConsole && format != FormatJSON {
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		enc := newEncoder(format, zapcore.CapitalColorLevelEncoder, zapcore.TimeEncoderOfLayout("15:04:05"))
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(opts.Console), lvl))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc := newEncoder(format, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	if len(cores) == 0 {
		InitNop()
		return nil
	}
	set(zap.New(zapcore.NewTee(cores...), zap.AddCaller()))
	return nil
}

func set(l *zap.Logger) {
	Log = l
	Sugar = l.Sugar()
}

// newEncoder builds the encoder for one output. Colors only make sense on a
// terminal, so JSON always uses plain level names.
func newEncoder(format string, level zapcore.LevelEncoder, ts zapcore.TimeEncoder) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       ts,
		EncodeLevel:      level,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if format == FormatJSON {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Named returns a child of the global logger tagged with a component name.
// Call it after Init; earlier calls get a child of the no-op logger.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
