package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/nodegraph/sym"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := newMinimalEncoder().EncodeEntry(ent, fields)
	require.NoError(t, err)
	return stripANSI(buf.String())
}

// The console encoder must never silently discard a field.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "view.session",
		Message:    "Frame emitted",
	}

	cases := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("mode", "detail"), "mode=detail"},
		{zap.String("focus", "note-7"), "focus=note-7"},
		{zap.Bool("pinned", true), "pinned=true"},
		{zap.Float64("alpha", 0.25), "alpha=0.25"},
		{zap.Strings("tags", []string{"t1", "t2"}), "tags=[t1 t2]"},
		{zap.Int64("generation", 9999999), "generation=9999999"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
		{zap.String("client_id", "c-123"), "c-123"},
		{zap.Int("nodes", 10), "(10 nodes, 5 links)"},
		{zap.Int("links", 5), ""},
		{zap.Int64("duration_ms", 42), "42ms"},
	}

	var fields []zapcore.Field
	for _, c := range cases {
		fields = append(fields, c.field)
	}
	out := encode(t, entry, fields...)

	for _, c := range cases {
		if c.mustFind != "" {
			assert.Contains(t, out, c.mustFind)
		}
	}
}

func TestMinimalEncoderSymbolPrefix(t *testing.T) {
	out := encode(t, zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Now(),
		Message: "Converged",
	}, zap.String(FieldSymbol, sym.Layout), zap.Int("ticks", 300))

	assert.Contains(t, out, sym.Layout+" Converged")
	assert.Contains(t, out, "ticks=300")
	assert.NotContains(t, out, "symbol=")
}

func TestMinimalEncoderLevels(t *testing.T) {
	now := time.Now()
	info := encode(t, zapcore.Entry{Level: zapcore.InfoLevel, Time: now, Message: "hello"})
	assert.NotContains(t, info, "INFO")

	warn := encode(t, zapcore.Entry{Level: zapcore.WarnLevel, Time: now, Message: "hello"})
	assert.Contains(t, warn, "WARN")

	errOut := encode(t, zapcore.Entry{Level: zapcore.ErrorLevel, Time: now, Message: "hello"})
	assert.Contains(t, errOut, "ERROR")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "v.session", abbreviateName("view.session"))
	assert.Equal(t, "g.store", abbreviateName("graph.store"))
	assert.Equal(t, "server", abbreviateName("server"))
}

func TestColorizeMessageKeepsText(t *testing.T) {
	for _, theme := range []string{"gruvbox", "everforest"} {
		SetTheme(theme)
		msg := "[gen:4] ✦ layout started"
		assert.Equal(t, msg, stripANSI(colorizeMessage(msg, colors())))
	}
	SetTheme("unknown")
	assert.Equal(t, "everforest", currentTheme)
}

func TestEncodedLineEndsWithNewline(t *testing.T) {
	out := encode(t, zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "x"})
	assert.True(t, strings.HasSuffix(out, "\n"))
}
