package logger

import (
	"go.uber.org/zap"

	"github.com/teranos/nodegraph/sym"
)

// The glyph travels as a structured field, not in the message:
//
//	logger.OpenInfow("Server listening", logger.FieldPort, port)

func symbolFields(symbol string, keysAndValues []interface{}) []interface{} {
	return append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
}

// OpenInfow logs graceful startup operations (✿)
func OpenInfow(msg string, keysAndValues ...interface{}) {
	current().Infow(msg, symbolFields(sym.Open, keysAndValues)...)
}

// CloseInfow logs graceful shutdown operations (❀)
func CloseInfow(msg string, keysAndValues ...interface{}) {
	current().Infow(msg, symbolFields(sym.Close, keysAndValues)...)
}

// Component loggers carry their glyph on every entry:
//
//	c.logger = logger.AddViewSymbol(log.Named("view"))

// AddLayoutSymbol wraps a logger with the Layout symbol (✦)
func AddLayoutSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Layout)
}

// AddGraphSymbol wraps a logger with the Graph symbol (⋈)
func AddGraphSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Graph)
}

// AddViewSymbol wraps a logger with the View symbol (◎)
func AddViewSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.View)
}

// AddDBSymbol wraps a logger with the DB symbol (⊔)
func AddDBSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.DB)
}

// AddIXSymbol wraps a logger with the IX symbol (⨳)
func AddIXSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.IX)
}
