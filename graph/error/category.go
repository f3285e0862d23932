package grapherror

// Category represents the main error category for graph operations
type Category string

const (
	// CategoryParse indicates filter query parsing errors
	CategoryParse Category = "parse"

	// CategoryStorage indicates the graph store failed
	CategoryStorage Category = "storage"

	// CategoryFilter indicates a filter references unknown tags or nodes
	CategoryFilter Category = "filter"

	// CategoryLayout indicates a layout could not be computed
	CategoryLayout Category = "layout"

	// CategoryWebSocket indicates websocket connection/protocol errors
	CategoryWebSocket Category = "websocket"

	// CategoryImport indicates an import file could not be decoded or stored
	CategoryImport Category = "import"

	// CategoryInternal indicates internal server errors
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Parse subcategories
const (
	SubcategoryParseInvalidSyntax = "invalid_syntax"
	SubcategoryParseUnknownKey    = "unknown_key"
	SubcategoryParseInvalidValue  = "invalid_value"
)

// Storage subcategories
const (
	SubcategoryStorageQuery  = "query"
	SubcategoryStorageClosed = "closed"
)

// Filter subcategories
const (
	SubcategoryFilterUnknownTag   = "unknown_tag"
	SubcategoryFilterUnknownFocus = "unknown_focus"
)

// Layout subcategories
const (
	SubcategoryLayoutViewport = "viewport"
	SubcategoryLayoutBudget   = "budget"
	SubcategoryLayoutConfig   = "config"
)

// WebSocket subcategories
const (
	SubcategoryWSUpgrade  = "upgrade"
	SubcategoryWSRead     = "read"
	SubcategoryWSWrite    = "write"
	SubcategoryWSProtocol = "protocol"
	SubcategoryWSMessage  = "message"
	SubcategoryWSRate     = "rate_limit"
)

// Import subcategories
const (
	SubcategoryImportFormat = "format"
	SubcategoryImportDecode = "decode"
)

// Internal subcategories
const (
	SubcategoryInternalPanic  = "panic"
	SubcategoryInternalConfig = "config"
)
