// Package grapherror carries categorized, user-presentable errors from the
// graph store, filter queries, layout requests and the websocket protocol.
package grapherror

import (
	"fmt"
	"time"

	"github.com/teranos/nodegraph/errors"
)

// GraphError represents an error in the graph system with structured context
type GraphError struct {
	Err         error
	Category    Category
	Subcategory string
	UserMessage string
	Context     map[string]interface{}
	Timestamp   time.Time
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As
func (e *GraphError) Unwrap() error {
	return e.Err
}

// New creates a new GraphError
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Newf creates a new GraphError with a formatted underlying error
func Newf(category Category, userMsg, format string, args ...interface{}) *GraphError {
	return New(category, errors.Newf(format, args...), userMsg)
}

// WithSubcategory sets the subcategory
func (e *GraphError) WithSubcategory(sub string) *GraphError {
	e.Subcategory = sub
	return e
}

// WithContext adds a key-value pair for debugging
func (e *GraphError) WithContext(key string, value interface{}) *GraphError {
	e.Context[key] = value
	return e
}

var defaultMessages = map[Category]string{
	CategoryParse:     "Invalid filter query - use tag:<name>, focus:<id> or depth:<n>",
	CategoryStorage:   "Could not read the graph - please try again",
	CategoryFilter:    "The filter does not match anything in this graph",
	CategoryLayout:    "Could not lay out the graph",
	CategoryWebSocket: "Connection error - attempting to reconnect...",
	CategoryImport:    "The import file could not be read",
	CategoryInternal:  "An internal error occurred - please try again",
}

// ToUIMessage returns the user message, or the category default
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if msg, ok := defaultMessages[e.Category]; ok {
		return msg
	}
	return "An error occurred"
}

// ToGraphMeta formats the error for Graph.Meta.Config
func (e *GraphError) ToGraphMeta() map[string]string {
	meta := map[string]string{
		"error":       e.Error(),
		"category":    string(e.Category),
		"description": e.ToUIMessage(),
		"timestamp":   e.Timestamp.Format(time.RFC3339),
	}
	if e.Subcategory != "" {
		meta["subcategory"] = e.Subcategory
	}
	if len(e.Context) > 0 {
		meta["context"] = fmt.Sprintf("%v", e.Context)
	}
	return meta
}

// ToLogFields converts the error to zap key-value pairs
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_message", e.Error(),
		"user_message", e.ToUIMessage(),
	}
	if e.Subcategory != "" {
		fields = append(fields, "error_subcategory", e.Subcategory)
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// IsCategory checks if err is (or wraps) a GraphError of the given category
func IsCategory(err error, cat Category) bool {
	var ge *GraphError
	return errors.As(err, &ge) && ge.Category == cat
}
