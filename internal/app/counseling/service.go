package counseling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-counselor/internal/app/classifier"
	"github.com/PabloGalante/farum-counselor/internal/app/journal"
	"github.com/PabloGalante/farum-counselor/internal/app/prompts"
	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

const (
	DefaultGenerateTimeout = 30 * time.Second

	degradedMessage = "I'm having trouble processing your message right now. Please try again, and if you're in crisis, please contact a crisis helpline immediately."

	replyBackendStatus  = "I'm having trouble connecting right now. Please try again."
	replyBackendOffline = "I'm unable to connect to my language model right now. Please try again later."
	replyBackendTimeout = "I'm unable to generate a response in time. Please try again later."
	replyEmpty          = "I understand. Can you tell me more about that?"

	emptySessionSummary = "Session ended without any conversation."
)

var errSessionEnded = errors.New("session has ended")

// DefaultGenerateOptions matches the sampling the counselor was tuned with.
var DefaultGenerateOptions = domain.GenerateOptions{
	Temperature: 0.7,
	TopP:        0.9,
	MaxTokens:   500,
}

type Service struct {
	generator domain.Generator
	sessions  domain.SessionStore
	journal   *journal.Service

	library  *prompts.Library
	composer *prompts.Composer

	genOpts domain.GenerateOptions
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Service)

func WithLibrary(lib *prompts.Library) Option {
	return func(s *Service) {
		if lib != nil {
			s.library = lib
		}
	}
}

func WithGenerateOptions(opts domain.GenerateOptions) Option {
	return func(s *Service) { s.genOpts = opts }
}

// WithGenerateTimeout bounds every backend call.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(
	generator domain.Generator,
	sessions domain.SessionStore,
	journalSvc *journal.Service,
	opts ...Option,
) *Service {
	s := &Service{
		generator: generator,
		sessions:  sessions,
		journal:   journalSvc,
		library:   prompts.NewLibrary(),
		genOpts:   DefaultGenerateOptions,
		timeout:   DefaultGenerateTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.composer = prompts.NewComposer(s.library)
	return s
}

// Library exposes the template library used by the service.
func (s *Service) Library() *prompts.Library {
	return s.library
}

// ─────────────────────────────────────────────
// Start
// ─────────────────────────────────────────────

type StartInput struct {
	UserID domain.UserID
}

type StartOutput struct {
	Message         string
	SessionID       domain.SessionID
	EmotionalState  domain.EmotionalState
	TherapyApproach domain.TherapyApproach
}

// Start opens a fresh session. A previous active session of the same user is
// discarded so nothing carries over.
func (s *Service) Start(ctx context.Context, in StartInput) (*StartOutput, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	log.Info("starting new session")

	session, err := s.openSession(ctx, in.UserID)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartOutput{
		Message:         s.library.Get(prompts.CategoryConversationStarters, "first_session", nil),
		SessionID:       session.ID,
		EmotionalState:  session.EmotionalState,
		TherapyApproach: session.TherapyApproach,
	}, nil
}

func (s *Service) openSession(ctx context.Context, userID domain.UserID) (*domain.SessionContext, error) {
	if prev, ok := s.sessions.ActiveForUser(userID); ok {
		if err := s.sessions.Delete(prev); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		observability.LoggerFromContext(ctx).Info("discarded previous session",
			"user_id", userID,
			"session_id", prev)
	}

	now := s.now()
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		session := domain.NewSessionContext(newSessionID(now), userID, now)
		err := s.sessions.Create(session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrSessionExists) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// newSessionID derives the id from the start time, with a random suffix so
// sessions started in the same microsecond stay distinct.
func newSessionID(t time.Time) domain.SessionID {
	return domain.SessionID(fmt.Sprintf("%d.%06d-%s", t.Unix(), t.Nanosecond()/1000, uuid.NewString()[:8]))
}

// ─────────────────────────────────────────────
// ProcessMessage
// ─────────────────────────────────────────────

type MessageInput struct {
	SessionID domain.SessionID
	UserID    domain.UserID
	Text      string
}

type MessageOutput struct {
	Message         string
	SessionID       domain.SessionID
	EmotionalState  domain.EmotionalState
	TherapyApproach domain.TherapyApproach
	CrisisLevel     domain.CrisisLevel

	// CrisisResources is only set for high crisis levels.
	CrisisResources *CrisisResources

	// Error is only set on degraded responses.
	Error string
}

// Degraded reports whether the output came from the fault boundary.
func (o MessageOutput) Degraded() bool {
	return o.CrisisLevel == domain.CrisisUnknown
}

// ProcessMessage classifies the message, asks the backend for a reply and
// records the turn. It never returns an error: any failure becomes a degraded
// response with crisis level "unknown".
func (s *Service) ProcessMessage(ctx context.Context, in MessageInput) (out MessageOutput) {
	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing message", "requested_session_id", in.SessionID, "panic", r)
			out = degraded(in.SessionID, fmt.Errorf("internal error: %v", r))
		}
	}()

	sessionID, err := s.resolveSession(ctx, in)
	if err != nil {
		log.Error("failed to resolve session", "requested_session_id", in.SessionID, "error", err)
		return degraded(in.SessionID, err)
	}
	log = log.With("session_id", sessionID)

	var turn domain.Turn
	err = s.sessions.Update(sessionID, func(session *domain.SessionContext) error {
		if session.Status != domain.SessionActive {
			return errSessionEnded
		}

		res := classifier.Classify(in.Text)
		if res.CrisisDetected {
			log.Warn("crisis indicators detected", "crisis_level", res.CrisisLevel)
		}

		prompt := s.composer.Compose(prompts.ComposeInput{
			UserText:        in.Text,
			EmotionalState:  res.EmotionalState,
			TherapyApproach: res.TherapyApproach,
			History:         session.Recent(prompts.HistoryWindow),
			CrisisDetected:  res.CrisisDetected,
		})

		reply := s.generate(ctx, log, prompt)

		turn = domain.Turn{
			Timestamp:       s.now(),
			UserText:        in.Text,
			AIText:          reply,
			EmotionalState:  res.EmotionalState,
			TherapyApproach: res.TherapyApproach,
			CrisisLevel:     res.CrisisLevel,
		}
		session.Append(turn)
		return nil
	})
	if err != nil {
		log.Error("failed to process message", "error", err)
		return degraded(sessionID, err)
	}

	out = MessageOutput{
		Message:         turn.AIText,
		SessionID:       sessionID,
		EmotionalState:  turn.EmotionalState,
		TherapyApproach: turn.TherapyApproach,
		CrisisLevel:     turn.CrisisLevel,
	}
	if turn.CrisisLevel == domain.CrisisHigh {
		out.CrisisResources = NewCrisisResources()
	}

	log.Info("message processed",
		"emotional_state", turn.EmotionalState,
		"therapy_approach", turn.TherapyApproach,
		"crisis_level", turn.CrisisLevel)
	return out
}

// resolveSession returns the session to use for a message. Messages without
// a usable session get an implicit one, so a first message is never lost.
func (s *Service) resolveSession(ctx context.Context, in MessageInput) (domain.SessionID, error) {
	if in.SessionID != "" {
		session, err := s.sessions.Get(in.SessionID)
		switch {
		case err == nil && session.Status == domain.SessionActive:
			return session.ID, nil
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			return "", err
		}
	} else if id, ok := s.sessions.ActiveForUser(in.UserID); ok {
		return id, nil
	}

	session, err := s.openSession(ctx, in.UserID)
	if err != nil {
		return "", err
	}
	observability.LoggerFromContext(ctx).Warn("created implicit session",
		"requested_session_id", in.SessionID,
		"session_id", session.ID,
		"user_id", in.UserID)
	return session.ID, nil
}

// generate calls the backend under the configured timeout. Failures are
// logged and replaced by a fixed apology.
func (s *Service) generate(ctx context.Context, log *slog.Logger, prompt string) string {
	if s.generator == nil {
		log.Error("no generation backend configured")
		return replyBackendOffline
	}

	// The turn is recorded even if the caller goes away; only the timeout cancels.
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := s.now()
	text, err := s.generator.Generate(genCtx, prompt, s.genOpts)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.ErrEmptyReply
	}
	if err != nil {
		log.Error("generation failed", "error", err, "elapsed_ms", s.now().Sub(start).Milliseconds())
		return fallbackReply(err)
	}

	log.Debug("generation finished", "elapsed_ms", s.now().Sub(start).Milliseconds())
	return strings.TrimSpace(text)
}

func fallbackReply(err error) string {
	var be *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrBackendTimeout), errors.Is(err, context.DeadlineExceeded):
		return replyBackendTimeout
	case errors.Is(err, domain.ErrEmptyReply):
		return replyEmpty
	case errors.As(err, &be) && be.Status != 0:
		return replyBackendStatus
	default:
		return replyBackendOffline
	}
}

func degraded(sessionID domain.SessionID, err error) MessageOutput {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return MessageOutput{
		Message:     degradedMessage,
		SessionID:   sessionID,
		CrisisLevel: domain.CrisisUnknown,
		Error:       detail,
	}
}

// ─────────────────────────────────────────────
// End & Stats
// ─────────────────────────────────────────────

type EndOutput struct {
	Message                 string
	SessionID               domain.SessionID
	SessionSummary          string
	SessionDuration         time.Duration
	TotalExchanges          int
	EmotionalStatesObserved map[domain.EmotionalState]int
}

// End closes a session and summarizes it. History is kept, so Stats keeps
// working until the session is replaced. Ending twice returns the same summary.
func (s *Service) End(ctx context.Context, sessionID domain.SessionID) (*EndOutput, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	var (
		snapshot *domain.SessionContext
		ended    bool
	)
	err := s.sessions.Update(sessionID, func(session *domain.SessionContext) error {
		if session.Status == domain.SessionActive {
			now := s.now()
			session.Status = domain.SessionEnded
			session.EndedAt = &now
			ended = true
		}
		snapshot = session.Clone()
		return nil
	})
	if err != nil {
		log.Error("failed to end session", "error", err)
		return nil, err
	}

	summary := Summarize(snapshot)
	out := &EndOutput{
		Message:                 s.library.Get(prompts.CategoryClosingPrompts, "session_summary", nil),
		SessionID:               snapshot.ID,
		SessionSummary:          summary,
		SessionDuration:         snapshot.EndedAt.Sub(snapshot.StartedAt),
		TotalExchanges:          len(snapshot.History),
		EmotionalStatesObserved: snapshot.EmotionCounts(),
	}

	if ended {
		entry := &domain.JournalEntry{
			SessionID:      snapshot.ID,
			UserID:         snapshot.UserID,
			StartedAt:      snapshot.StartedAt,
			EndedAt:        *snapshot.EndedAt,
			Summary:        summary,
			PrimaryEmotion: snapshot.PrimaryEmotion(),
			EmotionCounts:  out.EmotionalStatesObserved,
			CrisisCount:    snapshot.CrisisCount(),
			TotalExchanges: out.TotalExchanges,
		}
		// A journal failure must not hide the summary from the user.
		_ = s.journal.Record(ctx, entry)
	}

	log.Info("session ended", "total_exchanges", out.TotalExchanges)
	return out, nil
}

// Summarize renders the one-paragraph session summary.
func Summarize(session *domain.SessionContext) string {
	if session == nil || len(session.History) == 0 {
		return emptySessionSummary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session focused on %s experiences. ", session.PrimaryEmotion())
	if n := session.CrisisCount(); n > 0 {
		fmt.Fprintf(&b, "Crisis indicators were detected %d times. ", n)
	}
	fmt.Fprintf(&b, "Total of %d exchanges occurred.", len(session.History))
	return b.String()
}

type StatsOutput struct {
	SessionID               domain.SessionID
	Status                  domain.SessionStatus
	SessionDuration         time.Duration
	TotalExchanges          int
	CurrentEmotionalState   domain.EmotionalState
	CurrentTherapyApproach  domain.TherapyApproach
	CrisisDetected          bool
	EmotionalStatesObserved map[domain.EmotionalState]int
}

// Stats reports the current state of a session, ended or not.
func (s *Service) Stats(ctx context.Context, sessionID domain.SessionID) (*StatsOutput, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to get session", "session_id", sessionID, "error", err)
		return nil, err
	}

	until := s.now()
	if session.EndedAt != nil {
		until = *session.EndedAt
	}

	return &StatsOutput{
		SessionID:               session.ID,
		Status:                  session.Status,
		SessionDuration:         until.Sub(session.StartedAt),
		TotalExchanges:          len(session.History),
		CurrentEmotionalState:   session.EmotionalState,
		CurrentTherapyApproach:  session.TherapyApproach,
		CrisisDetected:          session.CrisisDetected,
		EmotionalStatesObserved: session.EmotionCounts(),
	}, nil
}
