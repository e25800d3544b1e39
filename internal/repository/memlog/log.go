// Package memlog persists the bounded query memory log used by the
// contextual search pipeline.
package memlog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/db"
	"github.com/whispers-app/journal-api/internal/domain"
)

// store is the consumer interface for the memory log (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Log stores the memory log as a single JSON array under one key.
// A process-wide mutex serializes the read-modify-write in Append, so
// concurrent searches cannot interleave and drop each other's entries.
type Log struct {
	store  store
	key    string
	logger *zap.Logger

	mu sync.Mutex
}

// New creates a memory log repository.
func New(s store, key string, logger *zap.Logger) *Log {
	return &Log{store: s, key: key, logger: logger}
}

// Load returns the memory log in append order, oldest first.
// A missing or unparseable log is treated as empty: the memory cache is
// an optimization and must never fail a search.
func (l *Log) Load(ctx context.Context) []domain.MemoryEntry {
	data, err := l.store.Get(ctx, l.key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			l.logger.Warn("Failed to load memory log", zap.Error(err))
		}
		return nil
	}

	var entries []domain.MemoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("Discarding corrupt memory log", zap.Error(err))
		return nil
	}
	return entries
}

// Append adds an entry, evicting the oldest entries so the stored log
// never exceeds domain.MemoryLogLimit. Write failures are logged and
// swallowed; the answer has already been produced at this point.
func (l *Log) Append(ctx context.Context, entry domain.MemoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.Load(ctx)
	if len(entries) >= domain.MemoryLogLimit {
		entries = entries[len(entries)-(domain.MemoryLogLimit-1):]
	}
	entries = append(entries, entry)

	data, err := json.Marshal(entries)
	if err != nil {
		l.logger.Warn("Failed to marshal memory log", zap.Error(err))
		return
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		l.logger.Warn("Failed to persist memory log", zap.Error(err))
	}
}
