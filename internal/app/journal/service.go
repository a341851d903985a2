package journal

import (
	"context"
	"errors"

	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

const defaultLimit = 20

// Service records and reads the summaries of ended sessions
type Service struct {
	store domain.JournalStore
}

// NewService creates a journal service from a JournalStore
func NewService(store domain.JournalStore) *Service {
	return &Service{
		store: store,
	}
}

// Record stores the summary of an ended session. Anonymous sessions are skipped.
func (s *Service) Record(ctx context.Context, entry *domain.JournalEntry) error {
	if s == nil || s.store == nil || entry == nil || entry.UserID == "" {
		return nil
	}

	if err := s.store.AppendJournalEntry(entry); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to append journal entry",
			"session_id", entry.SessionID,
			"error", err)
		return err
	}
	return nil
}

// GetUserJournal returns up to limit journal entries for a user, newest first.
// If limit <= 0, a reasonable default value is used.
func (s *Service) GetUserJournal(
	ctx context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.JournalEntry, error) {

	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if s.store == nil {
		return []*domain.JournalEntry{}, nil
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	entries, err := s.store.ListJournalEntriesByUser(userID, limit)
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug("fetched journal", "user_id", userID, "count", len(entries))
	return entries, nil
}
