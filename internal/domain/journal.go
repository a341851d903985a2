package domain

import "time"

// JournalEntryID identifies a journal entry
type JournalEntryID string

// JournalEntry is the summary kept for a user once a session ends
type JournalEntry struct {
	ID        JournalEntryID `json:"id"`
	SessionID SessionID      `json:"session_id"`
	UserID    UserID         `json:"user_id"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// Human readable summary, same text returned by the end of session call
	Summary string `json:"summary"`

	PrimaryEmotion EmotionalState         `json:"primary_emotion"`
	EmotionCounts  map[EmotionalState]int `json:"emotion_counts"`
	CrisisCount    int                    `json:"crisis_count"`
	TotalExchanges int                    `json:"total_exchanges"`
}

// JournalStore defines the minimum operations to persist the journal
type JournalStore interface {
	AppendJournalEntry(entry *JournalEntry) error
	ListJournalEntriesByUser(userID UserID, limit int) ([]*JournalEntry, error)
}
