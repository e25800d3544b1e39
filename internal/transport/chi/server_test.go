package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/whispers-app/journal-api/internal/domain"
	entryuc "github.com/whispers-app/journal-api/internal/usecase/entry"
	healthuc "github.com/whispers-app/journal-api/internal/usecase/health"
	promptuc "github.com/whispers-app/journal-api/internal/usecase/prompt"
)

func TestSearch_OK(t *testing.T) {
	h := newTestServer(deps{search: &mockSearcher{
		searchFn: func(_ context.Context, query, userID string) (domain.SearchAnswer, error) {
			if query != "how was my week" {
				t.Errorf("query: got %q", query)
			}
			if userID != "u-1" {
				t.Errorf("userID: got %q", userID)
			}
			return domain.SearchAnswer{
				OriginalQuery: query,
				SearchTerms:   []string{"week"},
				FinalSummary:  "A good week overall.",
				Source:        domain.SourceGenerated,
			}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/search", `{"query":"how was my week"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body)
	}

	var answer domain.SearchAnswer
	if err := json.NewDecoder(rr.Body).Decode(&answer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if answer.FinalSummary != "A good week overall." {
		t.Errorf("final summary: got %q", answer.FinalSummary)
	}
}

func TestSearch_EmptyQuery_400(t *testing.T) {
	h := newTestServer(deps{search: &mockSearcher{
		searchFn: func(context.Context, string, string) (domain.SearchAnswer, error) {
			return domain.SearchAnswer{}, fmt.Errorf("search: %w", domain.ErrEmptyQuery)
		},
	}})

	rr := doRequest(t, h, "POST", "/search", `{"query":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code: got %s, want %s", errResp.Code, codeValidationFailed)
	}
	if errResp.Message != domain.ErrEmptyQuery.Error() {
		t.Errorf("message: got %q, want %q", errResp.Message, domain.ErrEmptyQuery.Error())
	}
}

func TestSearch_NoUser_401(t *testing.T) {
	h := newTestServer(deps{})

	rr := doAnonRequest(t, h, "POST", "/search")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSearch_MalformedBody_400(t *testing.T) {
	h := newTestServer(deps{})

	rr := doRequest(t, h, "POST", "/search", `{"query":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSummarize_OK(t *testing.T) {
	h := newTestServer(deps{summaries: &mockSummarizer{
		digestFn: func(_ context.Context, text string) (domain.Digest, error) {
			if text != "today was long" {
				t.Errorf("text: got %q", text)
			}
			return domain.Digest{Title: "Long Day", Summary: "A long day.", Tags: []string{"work"}}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/summarize", `{"text":"today was long"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var digest domain.Digest
	if err := json.NewDecoder(rr.Body).Decode(&digest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if digest.Title != "Long Day" {
		t.Errorf("title: got %q", digest.Title)
	}
}

func TestSummarize_GenerationDown_502(t *testing.T) {
	h := newTestServer(deps{summaries: &mockSummarizer{
		digestFn: func(context.Context, string) (domain.Digest, error) {
			return domain.Digest{}, fmt.Errorf("digest: %w", domain.ErrGenerationUnavailable)
		},
	}})

	rr := doRequest(t, h, "POST", "/summarize", `{"text":"x"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestRewriteTone_OK(t *testing.T) {
	h := newTestServer(deps{summaries: &mockSummarizer{
		rewriteFn: func(_ context.Context, text, preset, intensity, overlay string) (domain.Rewrite, error) {
			if preset != "poetic" || intensity != "strong" || overlay != "gratitude" {
				t.Errorf("tone params: got %q %q %q", preset, intensity, overlay)
			}
			return domain.Rewrite{
				OriginalText:     text,
				RewrittenText:    "rewritten",
				TonePreset:       preset,
				Intensity:        intensity,
				EmotionalOverlay: overlay,
			}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/rewrite-tone",
		`{"text":"raw","tone_preset":"poetic","intensity":"strong","emotional_overlay":"gratitude"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var rewrite domain.Rewrite
	if err := json.NewDecoder(rr.Body).Decode(&rewrite); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rewrite.RewrittenText != "rewritten" {
		t.Errorf("rewritten text: got %q", rewrite.RewrittenText)
	}
}

func TestStartSession_EmptyBody_201(t *testing.T) {
	h := newTestServer(deps{sessions: &mockSessionManager{
		startFn: func(_ context.Context, userID string, isFromPrompt bool) (domain.Session, error) {
			if isFromPrompt {
				t.Error("isFromPrompt must default to false")
			}
			return domain.Session{ID: "s-1", UserID: userID}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/start_session", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}

	var session domain.Session
	if err := json.NewDecoder(rr.Body).Decode(&session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.ID != "s-1" {
		t.Errorf("session id: got %q", session.ID)
	}
}

func TestStartSession_FromPrompt(t *testing.T) {
	h := newTestServer(deps{sessions: &mockSessionManager{
		startFn: func(_ context.Context, _ string, isFromPrompt bool) (domain.Session, error) {
			if !isFromPrompt {
				t.Error("isFromPrompt not passed through")
			}
			return domain.Session{ID: "s-2", IsFromPrompt: true}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/start_session", `{"is_from_prompt":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
}

func TestGetSession_NotFound_404(t *testing.T) {
	h := newTestServer(deps{sessions: &mockSessionManager{
		getFn: func(_ context.Context, _, sessionID string) (domain.Session, error) {
			if sessionID != "s-missing" {
				t.Errorf("sessionID: got %q", sessionID)
			}
			return domain.Session{}, fmt.Errorf("get session: %w", domain.ErrSessionNotFound)
		},
	}})

	rr := doRequest(t, h, "GET", "/sessions/s-missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListSessions_OK(t *testing.T) {
	h := newTestServer(deps{sessions: &mockSessionManager{
		listFn: func(_ context.Context, userID string) ([]domain.Session, error) {
			return []domain.Session{{ID: "s-1", UserID: userID}, {ID: "s-2", UserID: userID}}, nil
		},
	}})

	rr := doRequest(t, h, "GET", "/sessions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var sessions []domain.Session
	if err := json.NewDecoder(rr.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions: got %d, want 2", len(sessions))
	}
}

func TestUpdateSession_OK_204(t *testing.T) {
	var updated bool
	h := newTestServer(deps{sessions: &mockSessionManager{
		updateFn: func(_ context.Context, userID, sessionID, title, summary string) error {
			updated = true
			if sessionID != "s-1" || title != "Tuesday" || summary != "Busy." {
				t.Errorf("update args: %q %q %q", sessionID, title, summary)
			}
			return nil
		},
	}})

	rr := doRequest(t, h, "PUT", "/update-session",
		`{"session_id":"s-1","title":"Tuesday","summary":"Busy."}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if !updated {
		t.Error("update not invoked")
	}
}

func TestUpdateSession_Invalid_400(t *testing.T) {
	h := newTestServer(deps{sessions: &mockSessionManager{
		updateFn: func(context.Context, string, string, string, string) error {
			return fmt.Errorf("update: %w", domain.ErrInvalidSession)
		},
	}})

	rr := doRequest(t, h, "PUT", "/update-session", `{"session_id":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestIndexEntry_Created_201(t *testing.T) {
	h := newTestServer(deps{entries: &mockEntryManager{
		upsertFn: func(_ context.Context, userID string, e domain.Entry) (entryuc.UpsertResult, error) {
			if userID != "u-1" {
				t.Errorf("userID: got %q", userID)
			}
			if e.SessionID != "s-1" {
				t.Errorf("sessionID: got %q", e.SessionID)
			}
			return entryuc.UpsertResult{Result: "created", EntryID: "e-1"}, nil
		},
	}})

	body := `{"session_id":"s-1","date":"2026-08-25","timestamp":"2026-08-25T12:00:00Z",` +
		`"title":"Tuesday","summary":"Busy.","text":"Long day.","tags":["work"]}`
	rr := doRequest(t, h, "POST", "/index", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusCreated, rr.Body)
	}

	var result entryuc.UpsertResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.EntryID != "e-1" {
		t.Errorf("entry id: got %q", result.EntryID)
	}
}

func TestIndexEntry_Updated_200(t *testing.T) {
	h := newTestServer(deps{entries: &mockEntryManager{
		upsertFn: func(context.Context, string, domain.Entry) (entryuc.UpsertResult, error) {
			return entryuc.UpsertResult{Result: "updated", EntryID: "e-1"}, nil
		},
	}})

	rr := doRequest(t, h, "POST", "/index", `{"session_id":"s-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestIndexEntry_Invalid_400(t *testing.T) {
	h := newTestServer(deps{entries: &mockEntryManager{
		upsertFn: func(context.Context, string, domain.Entry) (entryuc.UpsertResult, error) {
			return entryuc.UpsertResult{}, fmt.Errorf("upsert: %w", domain.ErrInvalidEntry)
		},
	}})

	rr := doRequest(t, h, "POST", "/index", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestListEntries_IndexDown_502(t *testing.T) {
	h := newTestServer(deps{entries: &mockEntryManager{
		listFn: func(context.Context, string) ([]domain.Entry, error) {
			return nil, fmt.Errorf("list: %w", domain.ErrIndexUnavailable)
		},
	}})

	rr := doRequest(t, h, "GET", "/entries", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestStats_OK(t *testing.T) {
	h := newTestServer(deps{stats: &mockStatsProvider{
		forUserFn: func(_ context.Context, userID string) (domain.Stats, error) {
			return domain.Stats{TotalSessions: 12, CurrentStreak: 3}, nil
		},
	}})

	rr := doRequest(t, h, "GET", "/session-stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var stats domain.Stats
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalSessions != 12 || stats.CurrentStreak != 3 {
		t.Errorf("stats: got %+v", stats)
	}
}

func TestDailyPrompt_NoAuthRequired(t *testing.T) {
	h := newTestServer(deps{prompts: &mockPromptProvider{
		todayFn: func() promptuc.Daily {
			return promptuc.Daily{Prompt: "What made you smile today?", Date: "2026-08-25"}
		},
	}})

	rr := doAnonRequest(t, h, "GET", "/daily-prompt")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var daily promptuc.Daily
	if err := json.NewDecoder(rr.Body).Decode(&daily); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if daily.Prompt == "" || daily.Date != "2026-08-25" {
		t.Errorf("daily prompt: got %+v", daily)
	}
}

func TestToken_OK(t *testing.T) {
	h := newTestServer(deps{tokens: &mockTokenIssuer{
		tokenFn: func(context.Context) (string, error) { return "temp-token", nil },
	}})

	rr := doRequest(t, h, "GET", "/token", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] != "temp-token" {
		t.Errorf("token: got %q", resp["token"])
	}
}

func TestToken_Unavailable_502(t *testing.T) {
	h := newTestServer(deps{tokens: &mockTokenIssuer{
		tokenFn: func(context.Context) (string, error) {
			return "", fmt.Errorf("token: %w", domain.ErrTokenUnavailable)
		},
	}})

	rr := doRequest(t, h, "GET", "/token", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestHealth_Healthy_200(t *testing.T) {
	h := newTestServer(deps{health: &mockHealthChecker{
		checkFn: func(context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Healthy,
				Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
			}
		},
	}})

	rr := doAnonRequest(t, h, "GET", "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHealth_Degraded_503(t *testing.T) {
	h := newTestServer(deps{health: &mockHealthChecker{
		checkFn: func(context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Degraded,
				Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
			}
		},
	}})

	rr := doAnonRequest(t, h, "GET", "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestUnknownError_500(t *testing.T) {
	h := newTestServer(deps{search: &mockSearcher{
		searchFn: func(context.Context, string, string) (domain.SearchAnswer, error) {
			return domain.SearchAnswer{}, errors.New("connection reset by peer 10.0.0.5")
		},
	}})

	rr := doRequest(t, h, "POST", "/search", `{"query":"x"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Message != "internal error" {
		t.Errorf("internal details leaked: %q", errResp.Message)
	}
}
