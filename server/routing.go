package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/nodegraph/logger"
)

// setupHTTPRoutes configures all HTTP handlers on a fresh mux
func (s *Server) setupHTTPRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket)) // frames out, pointer events in
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	mux.HandleFunc("/api/graph", s.corsMiddleware(s.logRequests(s.HandleGraph)))                // projected graph (GET ?q=)
	mux.HandleFunc("/api/tags", s.corsMiddleware(s.logRequests(s.HandleTags)))                  // tag tree (GET)
	mux.HandleFunc("/api/layout", s.corsMiddleware(s.logRequests(s.HandleLayout)))              // headless converged frame (GET)
	mux.HandleFunc("/api/import", s.corsMiddleware(s.logRequests(s.HandleImport)))              // store a graph file (POST)
	mux.HandleFunc("/api/layout/config", s.corsMiddleware(s.logRequests(s.HandleLayoutConfig))) // tune physics (POST)
	return mux
}

// corsMiddleware adds CORS headers to HTTP responses using configured allowed origins.
// Uses the same origin validation as WebSocket connections (server.allowed_origins config).
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" {
			if !s.checkOrigin(r) {
				writeError(w, http.StatusForbidden, "Origin not allowed")
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// logRequests logs API requests with their status and duration.
// Not used on /ws: the recorder does not implement http.Hijacker.
func (s *Server) logRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		r = r.WithContext(logger.WithRequestID(r.Context(), requestID))
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next(rec, r)

		if !logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputTiming) && rec.statusCode < http.StatusInternalServerError {
			return
		}
		logger.FromContext(s.logger, r.Context()).Infow("HTTP request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldQuery, r.URL.RawQuery,
			"status", rec.statusCode,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}

// statusRecorder captures the response status
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rr *statusRecorder) WriteHeader(code int) {
	if !rr.wroteHeader {
		rr.statusCode = code
		rr.wroteHeader = true
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *statusRecorder) Write(b []byte) (int, error) {
	if !rr.wroteHeader {
		rr.WriteHeader(http.StatusOK)
	}
	return rr.ResponseWriter.Write(b)
}
