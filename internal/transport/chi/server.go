// Package chi is the HTTP transport: routing, request decoding, and the
// domain-error-to-status mapping.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
	healthuc "github.com/whispers-app/journal-api/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the journal API over HTTP.
type Server struct {
	search        Searcher
	summaries     Summarizer
	sessions      SessionManager
	entries       EntryManager
	stats         StatsProvider
	prompts       PromptProvider
	tokens        TokenIssuer
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	summaries Summarizer,
	sessions SessionManager,
	entries EntryManager,
	stats StatsProvider,
	prompts PromptProvider,
	tokens TokenIssuer,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		summaries: summaries,
		sessions:  sessions,
		entries:   entries,
		stats:     stats,
		prompts:   prompts,
		tokens:    tokens,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmptyText, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidEntry, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrGenerationUnavailable, http.StatusBadGateway, codeGenerationUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, codeIndexUnavailable),
		sentinelHandler(domain.ErrTokenUnavailable, http.StatusBadGateway, codeTokenUnavailable),
	}
	return s
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/daily-prompt", s.handleDailyPrompt)

	r.Post("/search", s.handleSearch)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/rewrite-tone", s.handleRewriteTone)

	r.Post("/start_session", s.handleStartSession)
	r.Get("/sessions", s.handleListSessions)
	r.Get("/sessions/{sessionID}", s.handleGetSession)
	r.Put("/update-session", s.handleUpdateSession)

	r.Post("/index", s.handleIndexEntry)
	r.Get("/entries", s.handleListEntries)
	r.Get("/session-stats", s.handleStats)

	r.Get("/token", s.handleToken)
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	answer, err := s.search.Search(r.Context(), req.Query, user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// handleSummarize handles POST /summarize.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	digest, err := s.summaries.Digest(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, digest)
}

// handleRewriteTone handles POST /rewrite-tone.
func (s *Server) handleRewriteTone(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Text             string `json:"text"`
		TonePreset       string `json:"tone_preset"`
		Intensity        string `json:"intensity"`
		EmotionalOverlay string `json:"emotional_overlay"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	rewrite, err := s.summaries.RewriteTone(
		r.Context(), req.Text, req.TonePreset, req.Intensity, req.EmotionalOverlay)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewrite)
}

// handleStartSession handles POST /start_session.
// The body is optional; an absent or empty body starts a plain session.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		IsFromPrompt bool `json:"is_from_prompt"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	session, err := s.sessions.Start(r.Context(), user.ID, req.IsFromPrompt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// handleListSessions handles GET /sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	sessions, err := s.sessions.List(r.Context(), user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleGetSession handles GET /sessions/{sessionID}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	session, err := s.sessions.Get(r.Context(), user.ID, chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleUpdateSession handles PUT /update-session.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Title     string `json:"title"`
		Summary   string `json:"summary"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.sessions.Update(r.Context(), user.ID, req.SessionID, req.Title, req.Summary); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleIndexEntry handles POST /index.
func (s *Server) handleIndexEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var entry domain.Entry
	if !s.decode(w, r, &entry) {
		return
	}

	result, err := s.entries.Upsert(r.Context(), user.ID, entry)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if result.Result == "created" {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleListEntries handles GET /entries.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	entries, err := s.entries.List(r.Context(), user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleStats handles GET /session-stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	stats, err := s.stats.ForUser(r.Context(), user.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleDailyPrompt handles GET /daily-prompt. Public.
func (s *Server) handleDailyPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prompts.Today())
}

// handleToken handles GET /token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	token, err := s.tokens.Token(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// requireUser extracts the authenticated user placed in the context by the
// auth middleware.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return domain.User{}, false
	}
	return user, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// Error response codes.
const (
	codeBadRequest            = "bad_request"
	codeValidationFailed      = "validation_failed"
	codeUnauthorized          = "unauthorized"
	codeNotFound              = "not_found"
	codeGenerationUnavailable = "generation_unavailable"
	codeIndexUnavailable      = "index_unavailable"
	codeTokenUnavailable      = "token_unavailable"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnauthorized,
		domain.ErrEmptyQuery,
		domain.ErrEmptyText,
		domain.ErrInvalidSession,
		domain.ErrInvalidEntry,
		domain.ErrSessionNotFound,
		domain.ErrGenerationUnavailable,
		domain.ErrIndexUnavailable,
		domain.ErrTokenUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
