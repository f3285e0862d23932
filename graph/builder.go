package graph

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/nodegraph/errors"
	grapherr "github.com/teranos/nodegraph/graph/error"
	"github.com/teranos/nodegraph/logger"
	"go.uber.org/zap"
)

// Builder turns filter queries into the projected graphs handed to layout
type Builder struct {
	source    Source
	verbosity int
	logger    *zap.SugaredLogger
}

// NewBuilder creates a graph builder reading from source
func NewBuilder(source Source, verbosity int, log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Builder{
		source:    source,
		verbosity: verbosity,
		logger:    log.Named("graph.builder"),
	}
}

// BuildFromQuery parses query, loads up to limit nodes, resolves tag names
// and projects the graph. With focus and depth > 0 the result is narrowed
// to the focus's neighborhood. A focus that is not in the result leaves
// Meta.Focus empty.
//
// On failure the returned graph is empty with the error in Meta.Config.
func (b *Builder) BuildFromQuery(ctx context.Context, query string, limit int) (*Graph, error) {
	start := time.Now()
	trimmed := strings.TrimSpace(query)

	fq, err := ParseFilterQuery(trimmed)
	if err != nil {
		return b.fail(err, "Filter query parse failed")
	}

	if logger.ShouldOutput(b.verbosity, logger.OutputFilterQueries) {
		b.logger.Debugw("Parsed filter query", "query", trimmed, "tags", fq.Tags, "focus", fq.Focus, "depth", fq.Depth)
	}

	full, err := b.source.LoadGraph(ctx, limit)
	if err != nil {
		return b.fail(grapherr.New(grapherr.CategoryStorage, err, "").
			WithSubcategory(grapherr.SubcategoryStorageQuery).
			WithContext("query", trimmed), "Graph load failed")
	}

	tagIDs, tagErr := ResolveTags(full.AllTags(), fq.Tags)
	if tagErr != nil {
		return b.fail(tagErr.WithContext("query", trimmed), "Filter references unknown tag")
	}

	g := Project(full, tagIDs)
	if fq.Focus != "" && fq.Depth > 0 {
		g = Neighborhood(g, fq.Focus, fq.Depth)
	}
	if _, ok := NewIndex(g).Lookup(fq.Focus); ok {
		g.Meta.Focus = fq.Focus
	} else if fq.Focus != "" {
		b.logger.Debugw("Focus not in projected graph, using explore mode", "focus", fq.Focus)
	}

	g.Meta.GeneratedAt = time.Now()
	g.Meta.Config = map[string]string{
		"query":       trimmed,
		"description": describe(fq, g),
		"limit":       strconv.Itoa(limit),
	}
	sortGraph(g)

	b.logger.Infow("Built graph",
		"query", trimmed,
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"dropped_links", g.Meta.Stats.DroppedEdges,
		"duration_ms", time.Since(start).Milliseconds())
	return g, nil
}

// BuildLocal returns the neighborhood of focusID up to depth hops, with the
// focus recorded so the layout pins it at the center.
func (b *Builder) BuildLocal(ctx context.Context, focusID string, depth int, limit int) (*Graph, error) {
	full, err := b.source.LoadGraph(ctx, limit)
	if err != nil {
		return b.fail(grapherr.New(grapherr.CategoryStorage, err, "").
			WithSubcategory(grapherr.SubcategoryStorageQuery).
			WithContext("focus", focusID), "Graph load failed")
	}
	if _, ok := NewIndex(full).Lookup(focusID); !ok {
		return b.fail(grapherr.Newf(grapherr.CategoryFilter, "No note with that id", "unknown focus %q", focusID).
			WithSubcategory(grapherr.SubcategoryFilterUnknownFocus), "Local graph focus not found")
	}
	if depth < 1 {
		depth = 1
	}

	g := Neighborhood(full, focusID, depth)
	g.Meta.Focus = focusID
	g.Meta.GeneratedAt = time.Now()
	g.Meta.Config = map[string]string{
		"focus":       focusID,
		"depth":       strconv.Itoa(depth),
		"description": fmt.Sprintf("%d notes within %d hops of %s", len(g.Nodes), depth, focusID),
	}
	sortGraph(g)

	b.logger.Debugw("Built local graph", "focus", focusID, "depth", depth, "nodes", len(g.Nodes), "links", len(g.Links))
	return g, nil
}

// ResolveTags maps each reference to a tag id: an exact id match wins,
// otherwise a case-insensitive name match. Unknown references fail.
func ResolveTags(tags []TagRef, refs []string) ([]string, *grapherr.GraphError) {
	if len(refs) == 0 {
		return nil, nil
	}
	byID := make(map[string]bool, len(tags))
	byName := make(map[string]string, len(tags))
	for _, t := range tags {
		byID[t.ID] = true
		if _, taken := byName[strings.ToLower(t.Name)]; !taken {
			byName[strings.ToLower(t.Name)] = t.ID
		}
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		switch {
		case byID[ref]:
			ids = append(ids, ref)
		case byName[strings.ToLower(ref)] != "":
			ids = append(ids, byName[strings.ToLower(ref)])
		default:
			return nil, grapherr.Newf(grapherr.CategoryFilter, "", "unknown tag %q", ref).
				WithSubcategory(grapherr.SubcategoryFilterUnknownTag).
				WithContext("tag", ref)
		}
	}
	return ids, nil
}

func (b *Builder) fail(err error, msg string) (*Graph, error) {
	var ge *grapherr.GraphError
	if !errors.As(err, &ge) {
		ge = grapherr.New(grapherr.CategoryInternal, err, "")
	}
	b.logger.Warnw(msg, ge.ToLogFields()...)
	return emptyGraph(ge.ToGraphMeta()), ge
}

func describe(q *FilterQuery, g *Graph) string {
	if q.Empty() {
		return fmt.Sprintf("All notes (%d)", len(g.Nodes))
	}
	parts := make([]string, 0, 2)
	if len(q.Tags) > 0 {
		parts = append(parts, "tagged "+strings.Join(q.Tags, ", "))
	}
	if g.Meta.Focus != "" {
		parts = append(parts, "around "+g.Meta.Focus)
	}
	return fmt.Sprintf("%d notes %s", len(g.Nodes), strings.Join(parts, " "))
}
