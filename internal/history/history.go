// Package history keeps the durable, newest-first log of completed analyses.
// The log lives in memory and is mirrored into a single named key/value slot
// on every mutation; a missing or corrupt saved copy degrades to an empty
// log instead of failing startup.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// Store persists the serialized history collection under one slot.
type Store interface {
	// Load returns the saved bytes, or (nil, nil) when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type Log struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	store   Store
	logger  logger.Logger

	// persistMu serializes snapshot+save so concurrent mutations cannot
	// write an older snapshot over a newer one.
	persistMu sync.Mutex
}

func NewLog(store Store, log logger.Logger) *Log {
	return &Log{store: store, logger: log}
}

// Load restores the log from the store. Corruption and read failures are
// logged and swallowed, the log simply starts empty.
func (l *Log) Load(ctx context.Context) {
	data, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Warn("Failed to load history, starting empty", logger.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("Corrupt history slot, starting empty", logger.Error(err))
		return
	}
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	l.logger.Info("History loaded", logger.Int("entries", len(entries)))
}

// Entries returns a snapshot, newest first.
func (l *Log) Entries() []models.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns one entry by id.
func (l *Log) Get(id string) (models.HistoryEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.HistoryEntry{}, false
}

// Append front-inserts an entry and persists the whole log. The entry is
// kept in memory even when persisting fails, so a flaky store never loses a
// finished analysis for the current session.
func (l *Log) Append(ctx context.Context, entry models.HistoryEntry) error {
	l.mu.Lock()
	l.entries = append([]models.HistoryEntry{entry}, l.entries...)
	l.mu.Unlock()
	return l.persist(ctx)
}

// Clear drops every entry and persists the empty log.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	return l.persist(ctx)
}

func (l *Log) persist(ctx context.Context) error {
	l.persistMu.Lock()
	defer l.persistMu.Unlock()

	l.mu.RLock()
	entries := l.entries
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	l.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := l.store.Save(ctx, data); err != nil {
		l.logger.Error("Failed to persist history", logger.Error(err))
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}
