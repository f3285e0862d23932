package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger. Components derive named children
	// from it (Named("layout"), Named("server"), ...).
	Logger *zap.SugaredLogger
	// JSONOutput reports whether Logger emits production JSON
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options configures the global logger
type Options struct {
	JSON   bool          // production JSON encoder instead of the console encoder
	Level  zapcore.Level // minimum level; the CLI derives it with VerbosityToLevel
	Theme  string        // console palette (gruvbox, everforest); NODEGRAPH_LOG_THEME wins
	Output zapcore.WriteSyncer
}

// Setup replaces the global logger
func Setup(opts Options) error {
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	if theme := os.Getenv("NODEGRAPH_LOG_THEME"); theme != "" {
		SetTheme(theme)
	}
	out := opts.Output
	if out == nil {
		out = zapcore.AddSync(os.Stdout)
	}

	var core zapcore.Core
	if opts.JSON {
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core = zapcore.NewCore(enc, out, opts.Level)
	} else {
		core = zapcore.NewCore(newMinimalEncoder(), out, opts.Level)
	}

	JSONOutput = opts.JSON
	Logger = zap.New(core).Sugar()
	return nil
}

// Initialize sets up the global logger at info level
func Initialize(jsonOutput bool) error {
	return Setup(Options{JSON: jsonOutput, Level: zapcore.InfoLevel})
}

// InitializeWithLevel sets up the global logger with an explicit minimum level
func InitializeWithLevel(jsonOutput bool, level zapcore.Level) error {
	return Setup(Options{JSON: jsonOutput, Level: level})
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// current returns Logger, or a no-op logger when it has been cleared
func current() *zap.SugaredLogger {
	if Logger == nil {
		return zap.NewNop().Sugar()
	}
	return Logger
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) { current().Infow(msg, keysAndValues...) }

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) { current().Warnw(msg, keysAndValues...) }

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) { current().Errorw(msg, keysAndValues...) }

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) { current().Debugw(msg, keysAndValues...) }
