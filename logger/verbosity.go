package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels are the CLI's -v count. They select output categories
// (see output.go) as well as the zap level:
//
//	if logger.ShouldOutput(verbosity, logger.OutputLayoutTicks) {
//	    log.Debugw("tick", logger.FieldAlpha, sim.Alpha())
//	}
const (
	VerbosityUser  = 0 // results and errors only
	VerbosityInfo  = 1 // -v: + startup, client connects, layout summaries
	VerbosityDebug = 2 // -vv: + filter queries, timing, config
	VerbosityTrace = 3 // -vvv: + per-tick simulation state, SQL, websocket messages
	VerbosityAll   = 4 // -vvvv: + full frames and graph dumps
)

var verbosityLevels = [...]struct {
	level zapcore.Level
	name  string
}{
	VerbosityUser:  {zapcore.WarnLevel, "User"},
	VerbosityInfo:  {zapcore.InfoLevel, "Info (-v)"},
	VerbosityDebug: {zapcore.DebugLevel, "Debug (-vv)"},
	VerbosityTrace: {zapcore.DebugLevel, "Trace (-vvv)"},
	VerbosityAll:   {zapcore.DebugLevel, "All (-vvvv)"},
}

// VerbosityToLevel maps a -v count to the minimum zap level. Anything above
// VerbosityAll is treated as VerbosityAll.
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity < VerbosityUser {
		verbosity = VerbosityUser
	}
	if verbosity > VerbosityAll {
		verbosity = VerbosityAll
	}
	return verbosityLevels[verbosity].level
}

// ShouldLogTrace reports whether per-tick detail is wanted (-vvv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// ShouldLogAll reports whether full frame and graph dumps are wanted (-vvvv)
func ShouldLogAll(verbosity int) bool {
	return verbosity >= VerbosityAll
}

// LevelName returns a human-readable name for a -v count
func LevelName(verbosity int) string {
	switch {
	case verbosity < VerbosityUser:
		return "Unknown"
	case verbosity > VerbosityAll:
		return "All (-vvvv+)"
	}
	return verbosityLevels[verbosity].name
}
