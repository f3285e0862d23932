package server

import (
	"context"
	"fmt"

	"github.com/teranos/nodegraph/graph"
	grapherr "github.com/teranos/nodegraph/graph/error"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
)

// RefreshAll makes every client rerun its last load.
// Called after operations that modify the graph (imports, a changed limit).
func (s *Server) RefreshAll() {
	clients := s.snapshotClients()
	s.logger.Infow("Refreshing client graphs", logger.FieldCount, len(clients))
	for _, client := range clients {
		s.wg.Add(1)
		go func(c *Client) {
			defer s.wg.Done()
			c.reload()
		}(client)
	}
}

// applySessionOptions pushes the current session options to every client's
// session and returns how many accepted them
func (s *Server) applySessionOptions() int {
	opts := s.sessionOptions()
	applied := 0
	for _, client := range s.snapshotClients() {
		if client.session.Apply(opts) {
			applied++
		}
	}
	return applied
}

func (s *Server) snapshotClients() []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	return clients
}

// Import stores g and refreshes every connected client
func (s *Server) Import(ctx context.Context, g *graph.Graph) (*graph.ImportResult, error) {
	res, err := s.store.Import(ctx, g)
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryStorage, err, "Import could not be stored").
			WithSubcategory(grapherr.SubcategoryStorageQuery)
	}

	s.logger.Infow(fmt.Sprintf("%s Imported graph", sym.IX),
		logger.FieldNodes, res.Nodes,
		logger.FieldTags, res.Tags,
		logger.FieldLinks, res.Links,
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	s.broadcastMessage(RefreshMessage{
		Type:   MsgRefresh,
		Reason: "import",
		Nodes:  res.Nodes,
		Tags:   res.Tags,
		Links:  res.Links,
	})
	s.RefreshAll()
	return res, nil
}
