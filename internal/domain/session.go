package domain

import "time"

// Turn is one user message and the counselor's reply. Turns are appended to a
// session's history and never changed afterwards.
type Turn struct {
	Timestamp       Timestamp
	UserText        string
	AIText          string
	EmotionalState  EmotionalState
	TherapyApproach TherapyApproach
	CrisisLevel     CrisisLevel
}

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// SessionContext is the mutable record of one conversation. The current
// emotional state, approach and crisis flag reflect only the latest turn,
// History accumulates every turn in insertion order.
type SessionContext struct {
	ID        SessionID
	UserID    UserID
	Status    SessionStatus
	StartedAt Timestamp
	EndedAt   *Timestamp

	EmotionalState  EmotionalState
	TherapyApproach TherapyApproach
	CrisisDetected  bool

	History []Turn
}

// NewSessionContext returns a fresh active context with the initial tags.
func NewSessionContext(id SessionID, userID UserID, startedAt time.Time) *SessionContext {
	return &SessionContext{
		ID:              id,
		UserID:          userID,
		Status:          SessionActive,
		StartedAt:       startedAt,
		EmotionalState:  EmotionNeutral,
		TherapyApproach: ApproachCBT,
		CrisisDetected:  false,
		History:         []Turn{},
	}
}

// Append records a turn and moves the current tags to the turn's values.
func (s *SessionContext) Append(t Turn) {
	s.History = append(s.History, t)
	s.EmotionalState = t.EmotionalState
	s.TherapyApproach = t.TherapyApproach
	s.CrisisDetected = t.CrisisLevel.Detected()
}

// Recent returns up to the last n turns, oldest first.
func (s *SessionContext) Recent(n int) []Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.History)-start)
	copy(out, s.History[start:])
	return out
}

// EmotionCounts counts turns per emotional state.
func (s *SessionContext) EmotionCounts() map[EmotionalState]int {
	counts := make(map[EmotionalState]int)
	for _, t := range s.History {
		counts[t.EmotionalState]++
	}
	return counts
}

// CrisisCount is the number of turns whose crisis level is not none.
func (s *SessionContext) CrisisCount() int {
	n := 0
	for _, t := range s.History {
		if t.CrisisLevel != CrisisNone {
			n++
		}
	}
	return n
}

// PrimaryEmotion is the most frequent state in history. Ties go to the state
// seen first.
func (s *SessionContext) PrimaryEmotion() EmotionalState {
	counts := make(map[EmotionalState]int)
	var order []EmotionalState
	for _, t := range s.History {
		if counts[t.EmotionalState] == 0 {
			order = append(order, t.EmotionalState)
		}
		counts[t.EmotionalState]++
	}

	best := EmotionNeutral
	bestCount := 0
	for _, st := range order {
		if counts[st] > bestCount {
			best = st
			bestCount = counts[st]
		}
	}
	return best
}

// Clone returns a deep copy safe to hand outside the store lock.
func (s *SessionContext) Clone() *SessionContext {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]Turn, len(s.History))
	copy(c.History, s.History)
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}
