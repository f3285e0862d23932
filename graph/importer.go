package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/teranos/nodegraph/errors"
	grapherr "github.com/teranos/nodegraph/graph/error"
	"gopkg.in/yaml.v3"
)

// Format is an import file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the import format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", grapherr.Newf(grapherr.CategoryImport, "Supported import formats are .json, .yaml and .toml",
		"unsupported import file %s", filepath.Base(path)).
		WithSubcategory(grapherr.SubcategoryImportFormat)
}

// ReadImportFile decodes the graph stored at path
func ReadImportFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return DecodeImport(f, format)
}

// DecodeImport decodes a graph and fills in derived ids: a node or tag
// without an id gets one from its name.
func DecodeImport(r io.Reader, format Format) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read import")
	}

	var g Graph
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&g)
	case FormatYAML:
		err = yaml.Unmarshal(data, &g)
	case FormatTOML:
		_, err = toml.Decode(string(data), &g)
	default:
		return nil, grapherr.Newf(grapherr.CategoryImport, "", "unknown import format %q", format).
			WithSubcategory(grapherr.SubcategoryImportFormat)
	}
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryImport, errors.Wrapf(err, "decode %s", format), "").
			WithSubcategory(grapherr.SubcategoryImportDecode)
	}

	if err := normalizeImport(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func normalizeImport(g *Graph) error {
	fixTag := func(t *TagRef) error {
		if t.ID == "" {
			t.ID = normalizeID(t.Name)
		}
		if t.ID == "" {
			return grapherr.Newf(grapherr.CategoryImport, "Every tag needs an id or a name",
				"tag has neither id nor name").
				WithSubcategory(grapherr.SubcategoryImportDecode)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		return nil
	}
	for i := range g.Tags {
		if err := fixTag(&g.Tags[i]); err != nil {
			return err
		}
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			n.ID = normalizeID(n.Name)
		}
		if n.ID == "" {
			return grapherr.Newf(grapherr.CategoryImport, "Every note needs an id or a name",
				"node %d has neither id nor name", i).
				WithSubcategory(grapherr.SubcategoryImportDecode)
		}
		for j := range n.Tags {
			if err := fixTag(&n.Tags[j]); err != nil {
				return err
			}
		}
	}
	for i, l := range g.Links {
		if l.Source == "" || l.Target == "" {
			return grapherr.Newf(grapherr.CategoryImport, "Every link needs a source and a target",
				"link %d is missing an endpoint", i).
				WithSubcategory(grapherr.SubcategoryImportDecode)
		}
	}
	return nil
}
