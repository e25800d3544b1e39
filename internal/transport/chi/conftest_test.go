package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
	entryuc "github.com/whispers-app/journal-api/internal/usecase/entry"
	healthuc "github.com/whispers-app/journal-api/internal/usecase/health"
	promptuc "github.com/whispers-app/journal-api/internal/usecase/prompt"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, query, userID string) (domain.SearchAnswer, error)
}

func (m *mockSearcher) Search(ctx context.Context, query, userID string) (domain.SearchAnswer, error) {
	return m.searchFn(ctx, query, userID)
}

type mockSummarizer struct {
	digestFn  func(ctx context.Context, text string) (domain.Digest, error)
	rewriteFn func(ctx context.Context, text, preset, intensity, overlay string) (domain.Rewrite, error)
}

func (m *mockSummarizer) Digest(ctx context.Context, text string) (domain.Digest, error) {
	return m.digestFn(ctx, text)
}

func (m *mockSummarizer) RewriteTone(ctx context.Context, text, preset, intensity, overlay string) (domain.Rewrite, error) {
	return m.rewriteFn(ctx, text, preset, intensity, overlay)
}

type mockSessionManager struct {
	startFn  func(ctx context.Context, userID string, isFromPrompt bool) (domain.Session, error)
	updateFn func(ctx context.Context, userID, sessionID, title, summary string) error
	getFn    func(ctx context.Context, userID, sessionID string) (domain.Session, error)
	listFn   func(ctx context.Context, userID string) ([]domain.Session, error)
}

func (m *mockSessionManager) Start(ctx context.Context, userID string, isFromPrompt bool) (domain.Session, error) {
	return m.startFn(ctx, userID, isFromPrompt)
}

func (m *mockSessionManager) Update(ctx context.Context, userID, sessionID, title, summary string) error {
	return m.updateFn(ctx, userID, sessionID, title, summary)
}

func (m *mockSessionManager) Get(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	return m.getFn(ctx, userID, sessionID)
}

func (m *mockSessionManager) List(ctx context.Context, userID string) ([]domain.Session, error) {
	return m.listFn(ctx, userID)
}

type mockEntryManager struct {
	upsertFn func(ctx context.Context, userID string, e domain.Entry) (entryuc.UpsertResult, error)
	listFn   func(ctx context.Context, userID string) ([]domain.Entry, error)
}

func (m *mockEntryManager) Upsert(ctx context.Context, userID string, e domain.Entry) (entryuc.UpsertResult, error) {
	return m.upsertFn(ctx, userID, e)
}

func (m *mockEntryManager) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	return m.listFn(ctx, userID)
}

type mockStatsProvider struct {
	forUserFn func(ctx context.Context, userID string) (domain.Stats, error)
}

func (m *mockStatsProvider) ForUser(ctx context.Context, userID string) (domain.Stats, error) {
	return m.forUserFn(ctx, userID)
}

type mockPromptProvider struct {
	todayFn func() promptuc.Daily
}

func (m *mockPromptProvider) Today() promptuc.Daily { return m.todayFn() }

type mockTokenIssuer struct {
	tokenFn func(ctx context.Context) (string, error)
}

func (m *mockTokenIssuer) Token(ctx context.Context) (string, error) { return m.tokenFn(ctx) }

type mockHealthChecker struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthChecker) Check(ctx context.Context) healthuc.Report { return m.checkFn(ctx) }

// deps bundles the mocks so tests only fill in what they exercise.
type deps struct {
	search    *mockSearcher
	summaries *mockSummarizer
	sessions  *mockSessionManager
	entries   *mockEntryManager
	stats     *mockStatsProvider
	prompts   *mockPromptProvider
	tokens    *mockTokenIssuer
	health    *mockHealthChecker
}

func newTestServer(d deps) http.Handler {
	if d.search == nil {
		d.search = &mockSearcher{}
	}
	if d.summaries == nil {
		d.summaries = &mockSummarizer{}
	}
	if d.sessions == nil {
		d.sessions = &mockSessionManager{}
	}
	if d.entries == nil {
		d.entries = &mockEntryManager{}
	}
	if d.stats == nil {
		d.stats = &mockStatsProvider{}
	}
	if d.prompts == nil {
		d.prompts = &mockPromptProvider{}
	}
	if d.tokens == nil {
		d.tokens = &mockTokenIssuer{}
	}
	if d.health == nil {
		d.health = &mockHealthChecker{}
	}

	srv := NewServer(
		d.search, d.summaries, d.sessions, d.entries,
		d.stats, d.prompts, d.tokens, d.health,
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return r
}

// doRequest runs a request as user u-1 against the handler.
func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req = req.WithContext(domain.ContextWithUser(req.Context(), domain.User{ID: "u-1", Email: "u@example.com"}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// doAnonRequest runs a request with no authenticated user in the context.
func doAnonRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
