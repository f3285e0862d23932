package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - results, errors with hints, final status
//	1 (-v)      - + progress, startup, client lifecycle, layout summaries
//	2 (-vv)     - + filter queries, timing, config, db stats
//	3 (-vvv)    - + per-tick simulation state, SQL, websocket messages
//	4 (-vvvv)   - + full frames and graph dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Command output, layout tables
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress      // Import progress, convergence progress
	OutputStartup       // Startup banners, config summary
	OutputClientStatus  // Websocket connect/disconnect
	OutputLayoutSummary // Generation started, converged after N ticks

	// Level 2 (-vv) - Detailed
	OutputFilterQueries // Filter query parsing and projection sizes
	OutputTiming        // Operation timing
	OutputConfig        // Config values loaded/applied
	OutputDBStats       // Database statistics and connection info

	// Level 3 (-vvv) - Debug
	OutputLayoutTicks // Per-tick alpha and scheduling
	OutputSQLQueries  // Individual SQL queries executed
	OutputWSMessages  // Inbound websocket messages

	// Level 4 (-vvvv) - Full dump
	OutputFrames   // Full render frames
	OutputDataDump // Full graph contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:      VerbosityInfo,
	OutputStartup:       VerbosityInfo,
	OutputClientStatus:  VerbosityInfo,
	OutputLayoutSummary: VerbosityInfo,

	OutputFilterQueries: VerbosityDebug,
	OutputTiming:        VerbosityDebug,
	OutputConfig:        VerbosityDebug,
	OutputDBStats:       VerbosityDebug,

	OutputLayoutTicks: VerbosityTrace,
	OutputSQLQueries:  VerbosityTrace,
	OutputWSMessages:  VerbosityTrace,

	OutputFrames:   VerbosityAll,
	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:       "results",
	OutputErrors:        "errors",
	OutputUserStatus:    "status",
	OutputProgress:      "progress",
	OutputStartup:       "startup",
	OutputClientStatus:  "clients",
	OutputLayoutSummary: "layout",
	OutputFilterQueries: "filter-queries",
	OutputTiming:        "timing",
	OutputConfig:        "config",
	OutputDBStats:       "db-stats",
	OutputLayoutTicks:   "ticks",
	OutputSQLQueries:    "sql",
	OutputWSMessages:    "ws-messages",
	OutputFrames:        "frames",
	OutputDataDump:      "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and client status"
	case VerbosityDebug:
		return "above + filter queries, timing, config details"
	case VerbosityTrace:
		return "above + simulation ticks, SQL, websocket messages"
	case VerbosityAll:
		return "full output including frames and graph dumps"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
