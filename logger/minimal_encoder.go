package logger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/nodegraph/sym"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the colors one theme uses
type palette struct {
	fg        string
	time      string
	id        string
	number    string
	symbol    string
	bracket   string
	client    string
	layout    string
	lifecycle string
	component []string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	symbol:    "\x1b[38;5;142m",
	bracket:   "\x1b[38;5;208m",
	client:    "\x1b[38;5;109m",
	layout:    "\x1b[38;5;142m",
	lifecycle: "\x1b[38;5;208m",
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	symbol:    "\x1b[38;5;108m",
	bracket:   "\x1b[38;5;208m",
	client:    "\x1b[38;5;107m",
	layout:    "\x1b[38;5;108m",
	lifecycle: "\x1b[38;5;65m",
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for console output.
// Unknown names are ignored.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// Keys rendered as bare colored values rather than key=value
var idKeys = map[string]bool{
	FieldClientID:  true,
	FieldSessionID: true,
	FieldRequestID: true,
}

// minimalEncoder is a compact console encoder with theme support.
// Format: "13:04:35  v.session  ✦ Converged  3f2a... (42 nodes, 57 links) ticks=300"
type minimalEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		pool:    buffer.NewPool(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		pool:    enc.pool,
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := enc.pool.Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if lvl := levelString(ent.Level, c); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(componentColor(ent.LoggerName, c))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	values := fieldValues(fields)

	final.AppendString("  ")
	if glyph, ok := values[FieldSymbol]; ok {
		final.AppendString(c.symbol + fmt.Sprint(glyph) + colorReset + " ")
		delete(values, FieldSymbol)
	}
	final.AppendString(colorizeMessage(ent.Message, c))

	if rendered := renderFields(values, c); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

func levelString(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return c.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// componentColor hashes the name so one component keeps one color
func componentColor(name string, c palette) string {
	hash := 0
	for _, r := range name {
		hash += int(r)
	}
	return c.component[hash%len(c.component)]
}

// abbreviateName shortens component names: view.session -> v.session
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func messageColor(msg string, c palette) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "client") || strings.Contains(lower, "websocket"):
		return c.client
	case strings.Contains(lower, "tick") || strings.Contains(lower, "converge") ||
		strings.Contains(lower, "layout") || strings.Contains(lower, "generation"):
		return c.layout
	case strings.Contains(lower, "start") || strings.Contains(lower, "stop") ||
		strings.Contains(lower, "config"):
		return c.lifecycle
	}
	return c.fg
}

// colorizeMessage colors [bracketed] markers and glyphs inside a message
func colorizeMessage(msg string, c palette) string {
	base := messageColor(msg, c)
	var out strings.Builder
	last := 0
	for _, m := range bracketPattern.FindAllStringIndex(msg, -1) {
		if m[0] > last {
			out.WriteString(base + colorizeSymbols(msg[last:m[0]], c, base) + colorReset)
		}
		out.WriteString(c.bracket + msg[m[0]:m[1]] + colorReset)
		last = m[1]
	}
	if last < len(msg) {
		out.WriteString(base + colorizeSymbols(msg[last:], c, base) + colorReset)
	}
	return out.String()
}

func colorizeSymbols(text string, c palette, base string) string {
	for glyph := range sym.All {
		if strings.Contains(text, glyph) {
			text = strings.ReplaceAll(text, glyph, c.symbol+glyph+colorReset+base)
		}
	}
	return text
}

// fieldValues flattens zap fields into a key->value map using zap's own
// map encoder, so every field type is preserved.
func fieldValues(fields []zapcore.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

// renderFields prints ids bare, nodes/links as a summary, and everything
// else as key=value in sorted order. No field is ever dropped.
func renderFields(values map[string]interface{}, c palette) string {
	var parts []string

	var ids []string
	for key := range values {
		if idKeys[key] {
			ids = append(ids, key)
		}
	}
	sort.Strings(ids)
	for _, key := range ids {
		parts = append(parts, c.id+fmt.Sprint(values[key])+colorReset)
		delete(values, key)
	}

	nodes, hasNodes := values[FieldNodes]
	links, hasLinks := values[FieldLinks]
	if hasNodes && hasLinks {
		parts = append(parts, fmt.Sprintf("%s(%s%v%s%s nodes, %s%v%s%s links)%s",
			c.fg, c.number, nodes, colorReset, c.fg, c.number, links, colorReset, c.fg, colorReset))
		delete(values, FieldNodes)
		delete(values, FieldLinks)
	}

	if ms, ok := values[FieldDurationMS]; ok {
		parts = append(parts, c.number+fmt.Sprint(ms)+colorReset+"ms")
		delete(values, FieldDurationMS)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s%s=%s%v%s", c.fg, key, c.number, values[key], colorReset))
	}

	return strings.Join(parts, " ")
}
