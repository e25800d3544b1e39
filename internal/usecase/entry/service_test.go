package entry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

// mockIndex implements Index for tests.
type mockIndex struct {
	queryEntriesFn func(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error)
	saveEntryFn    func(ctx context.Context, entry domain.Entry) error
}

func (m *mockIndex) QueryEntries(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error) {
	if m.queryEntriesFn != nil {
		return m.queryEntriesFn(ctx, query, filters, hitsPerPage)
	}
	return nil, nil
}

func (m *mockIndex) SaveEntry(ctx context.Context, entry domain.Entry) error {
	if m.saveEntryFn != nil {
		return m.saveEntryFn(ctx, entry)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mockIndex) {
	t.Helper()
	idx := &mockIndex{}
	return New(idx, zap.NewNop()), idx
}

func validEntry() domain.Entry {
	return domain.Entry{
		SessionID: "s-1",
		Date:      "2026-08-25",
		Timestamp: "2026-08-25T12:00:00Z",
		Title:     "A day",
		Summary:   "It was a day",
		Tags:      []string{"day"},
		Text:      "Today I ...",
	}
}

func TestUpsert_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	e := validEntry()
	e.Title = ""
	e.Tags = nil

	_, err := svc.Upsert(context.Background(), "u-1", e)
	if !errors.Is(err, domain.ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestUpsert_CreatesWithFreshID(t *testing.T) {
	svc, idx := newTestService(t)

	var saved domain.Entry
	idx.saveEntryFn = func(ctx context.Context, entry domain.Entry) error {
		saved = entry
		return nil
	}

	res, err := svc.Upsert(context.Background(), "u-1", validEntry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Result != "created" || res.EntryID == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if saved.ObjectID != res.EntryID || saved.EntryID != res.EntryID {
		t.Errorf("object and entry ids must match: %+v", saved)
	}
	if saved.UserID != "u-1" {
		t.Errorf("owner must come from the token, got %q", saved.UserID)
	}
}

func TestUpsert_UpdatesExisting(t *testing.T) {
	svc, idx := newTestService(t)

	var gotFilters string
	idx.queryEntriesFn = func(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error) {
		gotFilters = filters
		return []domain.Entry{{ObjectID: "existing-id"}}, nil
	}

	var saved domain.Entry
	idx.saveEntryFn = func(ctx context.Context, entry domain.Entry) error {
		saved = entry
		return nil
	}

	res, err := svc.Upsert(context.Background(), "u-1", validEntry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilters != "session_id:s-1 AND user_id:u-1" {
		t.Errorf("unexpected lookup filters: %q", gotFilters)
	}
	if res.Result != "updated" || res.EntryID != "existing-id" {
		t.Errorf("unexpected result: %+v", res)
	}
	if saved.ObjectID != "existing-id" {
		t.Errorf("update must reuse the object id, got %q", saved.ObjectID)
	}
}

func TestUpsert_LookupFailureCreates(t *testing.T) {
	svc, idx := newTestService(t)

	idx.queryEntriesFn = func(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error) {
		return nil, domain.ErrIndexUnavailable
	}

	res, err := svc.Upsert(context.Background(), "u-1", validEntry())
	if err != nil {
		t.Fatalf("lookup failure must not fail the upsert: %v", err)
	}
	if res.Result != "created" {
		t.Errorf("expected created, got %q", res.Result)
	}
}

func TestUpsert_SaveFailure(t *testing.T) {
	svc, idx := newTestService(t)

	idx.saveEntryFn = func(ctx context.Context, entry domain.Entry) error {
		return domain.ErrIndexUnavailable
	}

	_, err := svc.Upsert(context.Background(), "u-1", validEntry())
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, idx := newTestService(t)

	idx.queryEntriesFn = func(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error) {
		if filters != "user_id:u-1" {
			t.Errorf("unexpected filters: %q", filters)
		}
		return []domain.Entry{
			{ObjectID: "old", Timestamp: "2026-08-20T10:00:00Z"},
			{ObjectID: "new", Timestamp: "2026-08-24T10:00:00Z"},
		}, nil
	}

	entries, err := svc.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].ObjectID != "new" {
		t.Errorf("expected newest first, got %+v", entries)
	}
}

func TestList_EmptyIsNonNil(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil {
		t.Error("expected non-nil empty slice")
	}
}
