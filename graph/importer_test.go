package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grapherr "github.com/teranos/nodegraph/graph/error"
)

const importJSON = `{
  "tags": [{"id": "work", "name": "Work"}, {"name": "Deep Work", "parent_id": "work"}],
  "nodes": [
    {"id": "n1", "name": "Plan", "tags": [{"id": "work", "name": "Work"}]},
    {"name": "Reading List"}
  ],
  "links": [{"source": "n1", "target": "reading_list"}]
}`

const importYAML = `
tags:
  - id: work
    name: Work
  - name: Deep Work
    parent_id: work
nodes:
  - id: n1
    name: Plan
    tags:
      - id: work
        name: Work
  - name: Reading List
links:
  - source: n1
    target: reading_list
`

const importTOML = `
[[tags]]
id = "work"
name = "Work"

[[tags]]
name = "Deep Work"
parent_id = "work"

[[nodes]]
id = "n1"
name = "Plan"
  [[nodes.tags]]
  id = "work"
  name = "Work"

[[nodes]]
name = "Reading List"

[[links]]
source = "n1"
target = "reading_list"
`

func TestDecodeImport_Formats(t *testing.T) {
	inputs := map[Format]string{
		FormatJSON: importJSON,
		FormatYAML: importYAML,
		FormatTOML: importTOML,
	}
	for format, input := range inputs {
		t.Run(string(format), func(t *testing.T) {
			g, err := DecodeImport(strings.NewReader(input), format)
			require.NoError(t, err)

			require.Len(t, g.Nodes, 2)
			assert.Equal(t, "reading_list", g.Nodes[1].ID)
			assert.Equal(t, []TagRef{{ID: "work", Name: "Work"}}, g.Nodes[0].Tags)

			require.Len(t, g.Tags, 2)
			assert.Equal(t, TagRef{ID: "deep_work", Name: "Deep Work", ParentID: "work"}, g.Tags[1])
			assert.Equal(t, []Link{{"n1", "reading_list"}}, g.Links)
		})
	}
}

func TestDecodeImport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		sub    string
	}{
		{"bad json", `{"nodes": [`, FormatJSON, grapherr.SubcategoryImportDecode},
		{"unknown json field", `{"vertices": []}`, FormatJSON, grapherr.SubcategoryImportDecode},
		{"nameless node", `{"nodes": [{"tags": []}]}`, FormatJSON, grapherr.SubcategoryImportDecode},
		{"half link", "links:\n  - source: a\n", FormatYAML, grapherr.SubcategoryImportDecode},
		{"unknown format", `{}`, Format("xml"), grapherr.SubcategoryImportFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImport(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
			require.True(t, grapherr.IsCategory(err, grapherr.CategoryImport))
			assert.Equal(t, tt.sub, err.(*grapherr.GraphError).Subcategory)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"notes.json":    FormatJSON,
		"notes.YAML":    FormatYAML,
		"a/b/notes.yml": FormatYAML,
		"notes.toml":    FormatTOML,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("notes.csv")
	assert.True(t, grapherr.IsCategory(err, grapherr.CategoryImport))
}

func TestReadImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(importYAML), 0o600))

	g, err := ReadImportFile(path)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)

	_, err = ReadImportFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
