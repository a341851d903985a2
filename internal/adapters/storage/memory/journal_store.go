package memory

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

// JournalStore keeps session journal entries per user in append order.
// Entries are copied in and out, so callers never share the stored maps.
type JournalStore struct {
	mu     sync.RWMutex
	byUser map[domain.UserID][]domain.JournalEntry
	now    func() time.Time
}

func NewJournalStore() *JournalStore {
	return &JournalStore{
		byUser: make(map[domain.UserID][]domain.JournalEntry),
		now:    time.Now,
	}
}

// AppendJournalEntry stores a copy of entry. An empty ID is filled in on
// both the stored copy and the caller's entry.
func (s *JournalStore) AppendJournalEntry(entry *domain.JournalEntry) error {
	if entry == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = newJournalEntryID(s.now())
	}
	s.byUser[entry.UserID] = append(s.byUser[entry.UserID], copyEntry(entry))
	return nil
}

// ListJournalEntriesByUser returns up to limit entries, newest first.
// limit <= 0 returns everything.
func (s *JournalStore) ListJournalEntriesByUser(
	userID domain.UserID,
	limit int,
) ([]*domain.JournalEntry, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byUser[userID]
	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}

	out := make([]*domain.JournalEntry, 0, limit)
	for i := len(stored) - 1; i >= len(stored)-limit; i-- {
		e := copyEntry(&stored[i])
		out = append(out, &e)
	}
	return out, nil
}

func copyEntry(e *domain.JournalEntry) domain.JournalEntry {
	c := *e
	c.EmotionCounts = maps.Clone(e.EmotionCounts)
	return c
}

func newJournalEntryID(t time.Time) domain.JournalEntryID {
	return domain.JournalEntryID(t.UTC().Format("20060102150405") + "-" + uuid.NewString()[:8])
}
