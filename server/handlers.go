package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/graph"
	grapherr "github.com/teranos/nodegraph/graph/error"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/version"
	"github.com/teranos/nodegraph/view"
)

const (
	// maxLayoutIterations caps /api/layout convergence work per request
	maxLayoutIterations = 5000
	// maxImportSize caps /api/import request bodies
	maxImportSize = 32 << 20
	// maxTuneSize caps /api/layout/config request bodies
	maxTuneSize = 64 << 10
)

// HandleWebSocket upgrades the connection and starts a client with its own
// layout session
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, ErrDraining.Error())
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"Failed to upgrade WebSocket connection",
		).WithSubcategory(grapherr.SubcategoryWSUpgrade)

		s.logger.Errorw("WebSocket upgrade failed",
			graphErr.ToLogFields()...,
		)
		return
	}

	client := newClient(s, conn, uuid.NewString())

	// Send hello BEFORE starting writePump (avoid concurrent writes)
	if err := conn.WriteJSON(client.helloMessage()); err != nil {
		s.logger.Debugw("Failed to send hello",
			logger.FieldClientID, client.id,
			logger.FieldError, err,
		)
	}

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		client.close()
		conn.Close()
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
}

// HandleHealth serves health check endpoint with version and memory info
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()

	health := map[string]interface{}{
		"status":          stateString(s.getState()),
		"version":         info.Version,
		"commit":          info.CommitHash,
		"build_time":      info.BuildTime,
		"protocol":        info.Protocol,
		"clients":         s.ClientCount(),
		"verbosity":       int(s.verbosity.Load()),
		"broadcast_drops": s.broadcastDrops.Load(),
		"frame_drops":     s.frameDrops.Load(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		health["memory"] = map[string]interface{}{
			"total":        vm.Total,
			"available":    vm.Available,
			"used_percent": vm.UsedPercent,
		}
	} else {
		s.logger.Debugw("Failed to read memory stats", logger.FieldError, err)
	}

	_ = writeJSON(w, http.StatusOK, health)
}

// HandleGraph serves the projected graph for ?q= (plus optional focus and
// depth)
func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	msg, err := loadFromRequest(r)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	g, err := s.buildGraph(r.Context(), msg)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, g)
}

// HandleTags serves the tag tree
func (s *Server) HandleTags(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		writeGraphError(w, grapherr.New(grapherr.CategoryStorage, err, "").
			WithSubcategory(grapherr.SubcategoryStorageQuery))
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  tags,
		"count": len(tags),
	})
}

// HandleLayout converges a layout headlessly and serves the fitted frame.
// Query parameters: q, focus, depth, width, height, iterations.
func (s *Server) HandleLayout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	start := time.Now()

	msg, err := loadFromRequest(r)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	opts := s.sessionOptions()
	width, werr := floatParam(r, "width", opts.Width)
	height, herr := floatParam(r, "height", opts.Height)
	if werr != nil || herr != nil {
		writeGraphError(w, grapherr.New(grapherr.CategoryLayout, firstErr(werr, herr), "Viewport must have a positive size").
			WithSubcategory(grapherr.SubcategoryLayoutViewport))
		return
	}
	iterations, err := intParam(r, "iterations", opts.WarmupIterations)
	if err != nil || iterations > maxLayoutIterations {
		if err == nil {
			err = grapherr.Newf(grapherr.CategoryLayout, "Too many iterations requested",
				"iterations %d exceeds %d", iterations, maxLayoutIterations)
		}
		writeGraphError(w, grapherr.New(grapherr.CategoryLayout, err, "").
			WithSubcategory(grapherr.SubcategoryLayoutBudget))
		return
	}

	g, err := s.buildGraph(r.Context(), msg)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	opts.Width, opts.Height = width, height
	ctrl := view.NewController(opts, s.logger)
	ctrl.SetData(g)
	ticks := ctrl.Simulation().RunToConvergence(iterations)
	ctrl.FitToView()
	frame := ctrl.Frame()

	if logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputLayoutSummary) {
		s.logger.Infow("Headless layout",
			logger.FieldNodes, len(frame.Nodes),
			logger.FieldTicks, ticks,
			logger.FieldMode, frame.Mode,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
	_ = writeJSON(w, http.StatusOK, frame)
}

// loadFromRequest reads q, focus and depth into a load request
func loadFromRequest(r *http.Request) (*ClientMessage, error) {
	depth, err := intParam(r, "depth", 0)
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryParse, err, "").
			WithSubcategory(grapherr.SubcategoryParseInvalidValue)
	}
	q := r.URL.Query()
	return &ClientMessage{
		Type:  MsgLoad,
		Query: q.Get("q"),
		Tags:  q["tag"],
		Focus: q.Get("focus"),
		Depth: depth,
	}, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// HandleImport stores a posted graph (?format=json|yaml|toml, default json)
// and refreshes every client
func (s *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	format := graph.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		format = graph.Format(strings.ToLower(f))
	}

	g, err := graph.DecodeImport(http.MaxBytesReader(w, r.Body, maxImportSize), format)
	if err != nil {
		writeGraphError(w, err)
		return
	}

	res, err := s.Import(r.Context(), g)
	if err != nil {
		writeGraphError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, res)
}

// HandleLayoutConfig persists layout constants tuned from a client (POST, a
// JSON object of layout keys) and applies them to every live session
func (s *Server) HandleLayoutConfig(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var values map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTuneSize)).Decode(&values); err != nil {
		writeGraphError(w, grapherr.New(grapherr.CategoryParse, err, "Body must be a JSON object of layout settings").
			WithSubcategory(grapherr.SubcategoryParseInvalidValue))
		return
	}

	s.mu.RLock()
	current := s.cfg
	s.mu.RUnlock()

	next, err := am.ApplyLayoutOverrides(current, values)
	if err != nil {
		writeGraphError(w, grapherr.New(grapherr.CategoryLayout, err, "Invalid layout settings").
			WithSubcategory(grapherr.SubcategoryLayoutConfig))
		return
	}

	s.applyConfig(next)
	applied := s.applySessionOptions()

	s.logger.Infow("Layout settings tuned",
		"settings", values,
		logger.FieldCount, applied,
	)
	_ = writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied":  values,
		"sessions": applied,
	})
}
