package grapherror

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/nodegraph/errors"
)

func TestGraphError_Error(t *testing.T) {
	assert.Equal(t, "db down", New(CategoryStorage, errors.New("db down"), "try later").Error())
	assert.Equal(t, "try later", New(CategoryStorage, nil, "try later").Error())
}

func TestGraphError_UnwrapAndIsCategory(t *testing.T) {
	ge := New(CategoryStorage, errors.Wrap(sql.ErrNoRows, "load tags"), "")
	wrapped := errors.Wrap(ge, "build graph")

	assert.True(t, errors.Is(wrapped, sql.ErrNoRows))
	assert.True(t, IsCategory(wrapped, CategoryStorage))
	assert.False(t, IsCategory(wrapped, CategoryParse))
	assert.False(t, IsCategory(errors.New("plain"), CategoryStorage))
}

func TestGraphError_ToUIMessage(t *testing.T) {
	assert.Equal(t, "custom", New(CategoryParse, nil, "custom").ToUIMessage())
	assert.Contains(t, New(CategoryParse, nil, "").ToUIMessage(), "tag:<name>")
	assert.Equal(t, "An error occurred", New(Category("other"), nil, "").ToUIMessage())
}

func TestGraphError_ToGraphMeta(t *testing.T) {
	ge := Newf(CategoryFilter, "", "unknown tag %q", "reading").
		WithSubcategory(SubcategoryFilterUnknownTag).
		WithContext("tag", "reading")

	meta := ge.ToGraphMeta()
	assert.Equal(t, `unknown tag "reading"`, meta["error"])
	assert.Equal(t, "filter", meta["category"])
	assert.Equal(t, SubcategoryFilterUnknownTag, meta["subcategory"])
	assert.Contains(t, meta["context"], "reading")
	assert.NotEmpty(t, meta["timestamp"])
}

func TestGraphError_ToLogFields(t *testing.T) {
	fields := New(CategoryLayout, errors.New("bad viewport"), "").
		WithSubcategory(SubcategoryLayoutViewport).
		WithContext("width", 0).
		ToLogFields()

	require.Equal(t, 0, len(fields)%2)
	asMap := make(map[string]interface{})
	for i := 0; i < len(fields); i += 2 {
		asMap[fields[i].(string)] = fields[i+1]
	}
	assert.Equal(t, CategoryLayout, asMap["error_category"])
	assert.Equal(t, "bad viewport", asMap["error_message"])
	assert.Equal(t, SubcategoryLayoutViewport, asMap["error_subcategory"])
	assert.Equal(t, 0, asMap["width"])
}
