package graph

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/logger"
)

// Source is what the builder reads graphs from
type Source interface {
	LoadGraph(ctx context.Context, limit int) (*Graph, error)
	ListTags(ctx context.Context) ([]TagRef, error)
}

// Store persists notes, tags and links in SQLite
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

var _ Source = (*Store)(nil)

// NewStore creates a store over an already migrated database
func NewStore(db *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: logger.AddGraphSymbol(log.Named("store"))}
}

// StoreStats holds row counts
type StoreStats struct {
	Nodes    int `json:"nodes" yaml:"nodes" toml:"nodes"`
	Tags     int `json:"tags" yaml:"tags" toml:"tags"`
	NodeTags int `json:"node_tags" yaml:"node_tags" toml:"node_tags"`
	Links    int `json:"links" yaml:"links" toml:"links"`
}

// ImportResult reports what an Import wrote
type ImportResult struct {
	Nodes    int           `json:"nodes"`
	Tags     int           `json:"tags"`
	Links    int           `json:"links"`
	Duration time.Duration `json:"duration_ns"`
}

// LoadGraph reads up to limit nodes (0 means no limit) ordered by id, their
// tags, every link, and the full tag tree. Links are returned as stored;
// dangling ones are dropped later by projection.
func (s *Store) LoadGraph(ctx context.Context, limit int) (*Graph, error) {
	if limit <= 0 {
		limit = -1
	}

	g := &Graph{Nodes: []Node{}, Links: []Link{}}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM nodes ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query nodes")
	}
	byID := make(map[string]int)
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "failed to scan node")
		}
		byID[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "failed to iterate nodes")
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT nt.node_id, t.id, t.name, t.color, COALESCE(t.parent_id, '')
		FROM node_tags nt
		JOIN tags t ON t.id = nt.tag_id
		ORDER BY nt.node_id, t.id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query node tags")
	}
	for rows.Next() {
		var nodeID string
		var t TagRef
		if err := rows.Scan(&nodeID, &t.ID, &t.Name, &t.Color, &t.ParentID); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "failed to scan node tag")
		}
		if i, ok := byID[nodeID]; ok {
			g.Nodes[i].Tags = append(g.Nodes[i].Tags, t)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "failed to iterate node tags")
	}

	rows, err = s.db.QueryContext(ctx, `SELECT source_id, target_id FROM links ORDER BY source_id, target_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query links")
	}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "failed to scan link")
		}
		g.Links = append(g.Links, l)
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "failed to iterate links")
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	g.Tags = tags

	s.logger.Debugw("Loaded graph",
		logger.FieldNodes, len(g.Nodes),
		logger.FieldLinks, len(g.Links),
		logger.FieldTags, len(g.Tags))
	return g, nil
}

// ListTags returns every tag ordered by id
func (s *Store) ListTags(ctx context.Context) ([]TagRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, COALESCE(parent_id, '') FROM tags ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tags")
	}
	defer rows.Close()

	tags := []TagRef{}
	for rows.Next() {
		var t TagRef
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.ParentID); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag")
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Import upserts g in a single transaction. A node's tag set is replaced
// by the imported one. Tags carried only by nodes are created too.
func (s *Store) Import(ctx context.Context, g *Graph) (*ImportResult, error) {
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	tags := g.AllTags()

	// parent_id is set in a second pass so children may precede parents.
	// A parent that does not exist resolves to NULL.
	for _, t := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tags (id, name, color) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color`,
			t.ID, t.Name, t.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upsert tag %s", t.ID)
		}
	}
	for _, t := range tags {
		var parent interface{}
		if t.ParentID != "" {
			parent = t.ParentID
		}
		_, err := tx.ExecContext(ctx, `UPDATE tags SET parent_id = (SELECT id FROM tags WHERE id = ?) WHERE id = ?`, parent, t.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to set parent of tag %s", t.ID)
		}
	}

	now := time.Now().UTC()
	for _, n := range g.Nodes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO nodes (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
			n.ID, n.Name, now, now)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upsert node %s", n.ID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM node_tags WHERE node_id = ?`, n.ID); err != nil {
			return nil, errors.Wrapf(err, "failed to clear tags of node %s", n.ID)
		}
		for _, t := range n.Tags {
			_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO node_tags (node_id, tag_id) VALUES (?, ?)`, n.ID, t.ID)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to tag node %s with %s", n.ID, t.ID)
			}
		}
	}

	for _, l := range g.Links {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO links (source_id, target_id) VALUES (?, ?)`, l.Source, l.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to insert link %s -> %s", l.Source, l.Target)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit import")
	}

	result := &ImportResult{
		Nodes:    len(g.Nodes),
		Tags:     len(tags),
		Links:    len(g.Links),
		Duration: time.Since(start),
	}
	s.logger.Infow("Imported graph",
		logger.FieldNodes, result.Nodes,
		logger.FieldTags, result.Tags,
		logger.FieldLinks, result.Links,
		logger.FieldDurationMS, result.Duration.Milliseconds())
	return result, nil
}

// Stats returns row counts for every table
func (s *Store) Stats(ctx context.Context) (*StoreStats, error) {
	var st StoreStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM nodes),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(*) FROM node_tags),
			(SELECT COUNT(*) FROM links)`).Scan(&st.Nodes, &st.Tags, &st.NodeTags, &st.Links)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count rows")
	}
	return &st, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}
