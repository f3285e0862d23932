// Package sym defines the glyphs nodegraph uses as log and CLI markers.
// They are stable across the console encoder, the CLI and the websocket
// frames' debug output.
package sym

// Operation glyphs
const (
	Graph  = "⋈" // graph build, projection, filter queries
	Layout = "✦" // force simulation ticks and convergence
	View   = "◎" // interaction controller, zoom, fit
	IX     = "⨳" // import of external graph files
	AM     = "≡" // configuration
	DB     = "⊔" // storage
)

// Lifecycle glyphs
const (
	Open  = "✿" // graceful startup
	Close = "❀" // graceful shutdown
)

// All lists every glyph with its command name, used by the console encoder
// to colorize markers inside messages.
var All = map[string]string{
	Graph:  "graph",
	Layout: "layout",
	View:   "view",
	IX:     "ix",
	AM:     "am",
	DB:     "db",
	Open:   "open",
	Close:  "close",
}

// ByCommand resolves a command name (as used by the CLI) to its glyph.
func ByCommand(name string) (string, bool) {
	for glyph, cmd := range All {
		if cmd == name {
			return glyph, true
		}
	}
	return "", false
}
