package counseling_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PabloGalante/farum-counselor/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-counselor/internal/app/counseling"
	"github.com/PabloGalante/farum-counselor/internal/app/journal"
	"github.com/PabloGalante/farum-counselor/internal/app/prompts"
	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

// fakeGenerator records prompts and answers with a fixed reply or error.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	panics  bool
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ domain.GenerateOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.panics {
		panic("boom")
	}
	return g.reply, g.err
}

func (g *fakeGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	svc      *counseling.Service
	gen      *fakeGenerator
	sessions *memory.SessionStore
	journal  *journal.Service
}

func newFixture(t *testing.T, gen *fakeGenerator) fixture {
	t.Helper()
	sessions := memory.NewSessionStore()
	journalSvc := journal.NewService(memory.NewJournalStore())
	clk := &clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}

	svc := counseling.NewService(gen, sessions, journalSvc,
		counseling.WithLibrary(prompts.NewLibrary(prompts.WithPicker(firstPicker{}))),
		counseling.WithClock(clk.Now),
		counseling.WithGenerateTimeout(time.Second),
	)
	return fixture{svc: svc, gen: gen, sessions: sessions, journal: journalSvc}
}

func TestStartReturnsGreeting(t *testing.T) {
	f := newFixture(t, &fakeGenerator{reply: "ok"})

	out, err := f.svc.Start(context.Background(), counseling.StartInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if out.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if !strings.HasPrefix(out.Message, "Hello, I'm Alex") {
		t.Fatalf("unexpected greeting: %q", out.Message)
	}
	if out.EmotionalState != domain.EmotionNeutral || out.TherapyApproach != domain.ApproachCBT {
		t.Fatalf("unexpected initial state: %s/%s", out.EmotionalState, out.TherapyApproach)
	}
}

func TestStartTwiceDiscardsPreviousSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})

	first, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})
	f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: first.SessionID, UserID: "u1", Text: "hi"})

	second, err := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatalf("expected a new session id")
	}
	if _, err := f.sessions.Get(first.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected previous session to be gone, got %v", err)
	}

	stats, err := f.svc.Stats(ctx, second.SessionID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalExchanges != 0 {
		t.Fatalf("expected empty history, got %d", stats.TotalExchanges)
	}
}

func TestProcessHighCrisisMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "I'm really glad you told me."})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	out := f.svc.ProcessMessage(ctx, counseling.MessageInput{
		SessionID: start.SessionID,
		UserID:    "u1",
		Text:      "I want to kill myself",
	})

	if out.CrisisLevel != domain.CrisisHigh {
		t.Fatalf("expected high crisis, got %s", out.CrisisLevel)
	}
	if out.TherapyApproach != domain.ApproachCrisisIntervention {
		t.Fatalf("expected crisis intervention, got %s", out.TherapyApproach)
	}
	if out.CrisisResources == nil || out.CrisisResources.EmergencyContacts.NationalSuicidePrevention != "988" {
		t.Fatalf("expected crisis resources with 988, got %+v", out.CrisisResources)
	}
	if !strings.Contains(f.gen.lastPrompt(), "CRISIS INDICATORS DETECTED") {
		t.Fatalf("expected crisis banner in prompt")
	}
}

func TestProcessAnxiousMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "That sounds stressful."})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	out := f.svc.ProcessMessage(ctx, counseling.MessageInput{
		SessionID: start.SessionID,
		UserID:    "u1",
		Text:      "I've been feeling really anxious about work lately",
	})

	if out.EmotionalState != domain.EmotionAnxious {
		t.Fatalf("expected anxious, got %s", out.EmotionalState)
	}
	if out.CrisisLevel != domain.CrisisNone {
		t.Fatalf("expected no crisis, got %s", out.CrisisLevel)
	}
	if out.TherapyApproach != domain.ApproachCBT {
		t.Fatalf("expected cbt, got %s", out.TherapyApproach)
	}
	if out.CrisisResources != nil {
		t.Fatalf("expected no crisis resources")
	}
	if out.Message != "That sounds stressful." {
		t.Fatalf("unexpected reply %q", out.Message)
	}
}

func TestEndWithoutMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	out, err := f.svc.End(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !strings.Contains(out.SessionSummary, "Session ended without any conversation") {
		t.Fatalf("unexpected summary %q", out.SessionSummary)
	}
	if out.TotalExchanges != 0 {
		t.Fatalf("expected 0 exchanges, got %d", out.TotalExchanges)
	}
}

func TestEndRecordsJournalOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "I feel so sad and tired"})
	f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "I feel sad again"})

	first, err := f.svc.End(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	want := "Session focused on depressed experiences. Total of 2 exchanges occurred."
	if first.SessionSummary != want {
		t.Fatalf("got summary %q, want %q", first.SessionSummary, want)
	}

	second, err := f.svc.End(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("second End failed: %v", err)
	}
	if second.SessionSummary != first.SessionSummary || second.SessionDuration != first.SessionDuration {
		t.Fatalf("expected idempotent End")
	}

	entries, err := f.journal.GetUserJournal(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("GetUserJournal failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].PrimaryEmotion != domain.EmotionDepressed || entries[0].TotalExchanges != 2 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestSummaryCountsCrisisTurns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "I want to die"})

	out, err := f.svc.End(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !strings.Contains(out.SessionSummary, "Crisis indicators were detected 1 times.") {
		t.Fatalf("unexpected summary %q", out.SessionSummary)
	}
}

func TestProcessAfterEndOpensImplicitSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})
	if _, err := f.svc.End(ctx, start.SessionID); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	out := f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello"})
	if out.Degraded() {
		t.Fatalf("unexpected degraded response: %s", out.Error)
	}
	if out.SessionID == start.SessionID {
		t.Fatalf("expected a new session after end")
	}
}

func TestProcessWithoutSessionCreatesOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})

	out := f.svc.ProcessMessage(ctx, counseling.MessageInput{UserID: "u2", Text: "hello"})
	if out.Degraded() || out.SessionID == "" {
		t.Fatalf("expected an implicit session, got %+v", out)
	}

	again := f.svc.ProcessMessage(ctx, counseling.MessageInput{UserID: "u2", Text: "still here"})
	if again.SessionID != out.SessionID {
		t.Fatalf("expected the active session to be reused")
	}

	stats, err := f.svc.Stats(ctx, out.SessionID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalExchanges != 2 {
		t.Fatalf("expected 2 exchanges, got %d", stats.TotalExchanges)
	}
}

func TestPromptCarriesOnlyRecentHistory(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "noted"}
	f := newFixture(t, gen)
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	for _, text := range []string{"first line", "second line", "third line", "fourth line", "fifth line"} {
		f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: text})
	}

	prompt := gen.lastPrompt()
	if strings.Contains(prompt, "User: first line") {
		t.Fatalf("oldest turn should be outside the history window")
	}
	for _, want := range []string{"User: second line", "User: third line", "User: fourth line", "User: fifth line"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBackendFailuresBecomeFallbackReplies(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"timeout", "", &domain.BackendError{Backend: "fake", Err: domain.ErrBackendTimeout}, "I'm unable to generate a response in time. Please try again later."},
		{"unavailable", "", &domain.BackendError{Backend: "fake", Err: domain.ErrBackendUnavailable}, "I'm unable to connect to my language model right now. Please try again later."},
		{"bad status", "", &domain.BackendError{Backend: "fake", Status: 500, Err: domain.ErrBackendUnavailable}, "I'm having trouble connecting right now. Please try again."},
		{"empty reply", "   ", nil, "I understand. Can you tell me more about that?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, &fakeGenerator{reply: tc.reply, err: tc.err})
			start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

			out := f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello"})
			if out.Message != tc.want {
				t.Fatalf("got %q, want %q", out.Message, tc.want)
			}
			if out.Degraded() {
				t.Fatalf("backend failures should not degrade the response")
			}
		})
	}
}

func TestPanicBecomesDegradedResponse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{panics: true})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	out := f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello"})
	if out.CrisisLevel != domain.CrisisUnknown || !out.Degraded() {
		t.Fatalf("expected degraded response, got %+v", out)
	}
	if out.Error == "" {
		t.Fatalf("expected error detail")
	}

	// The session lock must be released after the panic.
	f.gen.panics = false
	f.gen.reply = "ok"
	again := f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello again"})
	if again.Degraded() {
		t.Fatalf("expected recovery after panic, got %+v", again)
	}
}

func TestStatsUnknownSession(t *testing.T) {
	f := newFixture(t, &fakeGenerator{})
	if _, err := f.svc.Stats(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStatsReflectsLatestTurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	start, _ := f.svc.Start(ctx, counseling.StartInput{UserID: "u1"})

	f.svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "I am so angry and furious"})

	stats, err := f.svc.Stats(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.CurrentEmotionalState != domain.EmotionAngry || stats.CurrentTherapyApproach != domain.ApproachDBT {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.EmotionalStatesObserved[domain.EmotionAngry] != 1 || stats.SessionDuration <= 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

// blockingGenerator never answers on its own; it returns when ctx is done.
type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ string, _ domain.GenerateOptions) (string, error) {
	<-ctx.Done()
	return "", &domain.BackendError{Backend: "blocking", Err: errors.Join(domain.ErrBackendTimeout, ctx.Err())}
}

func TestGenerateTimeoutBecomesFallback(t *testing.T) {
	const bound = 150 * time.Millisecond
	svc := counseling.NewService(blockingGenerator{}, memory.NewSessionStore(), nil,
		counseling.WithGenerateTimeout(bound),
	)
	ctx := context.Background()
	start, err := svc.Start(ctx, counseling.StartInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	began := time.Now()
	out := svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello"})
	elapsed := time.Since(began)

	if out.Message != "I'm unable to generate a response in time. Please try again later." {
		t.Fatalf("unexpected reply %q", out.Message)
	}
	if out.Degraded() {
		t.Fatalf("a timeout should not degrade the response")
	}
	if elapsed < bound || elapsed > bound+2*time.Second {
		t.Fatalf("expected the call to end near %s, took %s", bound, elapsed)
	}

	stats, err := svc.Stats(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalExchanges != 1 {
		t.Fatalf("expected the timed out turn to be recorded, got %d", stats.TotalExchanges)
	}
}

func TestGenerateTimeoutSurvivesCallerCancel(t *testing.T) {
	svc := counseling.NewService(blockingGenerator{}, memory.NewSessionStore(), nil,
		counseling.WithGenerateTimeout(100*time.Millisecond),
	)
	start, _ := svc.Start(context.Background(), counseling.StartInput{UserID: "u1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := svc.ProcessMessage(ctx, counseling.MessageInput{SessionID: start.SessionID, UserID: "u1", Text: "hello"})
	if out.Message != "I'm unable to generate a response in time. Please try again later." {
		t.Fatalf("unexpected reply %q", out.Message)
	}
}

func TestProcessLogsSessionIDOnce(t *testing.T) {
	var buf bytes.Buffer
	observability.Configure(&buf, "debug")
	t.Cleanup(func() { observability.Configure(os.Stdout, "info") })

	ctx := context.Background()
	f := newFixture(t, &fakeGenerator{reply: "ok"})
	f.svc.ProcessMessage(ctx, counseling.MessageInput{UserID: "u1", Text: "I feel anxious"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	for _, line := range lines {
		if n := strings.Count(line, `"session_id":`); n > 1 {
			t.Fatalf("session_id logged %d times: %s", n, line)
		}
		if strings.Contains(line, `"session_id":""`) {
			t.Fatalf("empty session_id logged: %s", line)
		}
	}
}

func TestAnonymousSessionsAreEvicted(t *testing.T) {
	storeClock := &clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	sessions := memory.NewSessionStore(memory.WithStoreClock(storeClock.Now))
	svc := counseling.NewService(&fakeGenerator{reply: "ok"}, sessions, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.ProcessMessage(ctx, counseling.MessageInput{Text: "hi"})
		if _, err := svc.Start(ctx, counseling.StartInput{}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}
	if sessions.Len() != 10 {
		t.Fatalf("expected 10 anonymous sessions, got %d", sessions.Len())
	}

	// Each clock read advances one second, so two hours is far past the ttl.
	storeClock.mu.Lock()
	storeClock.now = storeClock.now.Add(2 * time.Hour)
	storeClock.mu.Unlock()

	if n := sessions.EvictExpired(time.Hour, 5*time.Minute); n != 10 {
		t.Fatalf("expected 10 evictions, got %d", n)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected empty store, got %d", sessions.Len())
	}
}

func TestEndedSessionIsEvictedAfterGrace(t *testing.T) {
	storeClock := &clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	sessions := memory.NewSessionStore(memory.WithStoreClock(storeClock.Now))
	svc := counseling.NewService(&fakeGenerator{reply: "ok"}, sessions, nil)
	ctx := context.Background()

	start, _ := svc.Start(ctx, counseling.StartInput{UserID: "u1"})
	if _, err := svc.End(ctx, start.SessionID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := svc.Stats(ctx, start.SessionID); err != nil {
		t.Fatalf("Stats should work right after End: %v", err)
	}

	storeClock.mu.Lock()
	storeClock.now = storeClock.now.Add(10 * time.Minute)
	storeClock.mu.Unlock()

	sessions.EvictExpired(time.Hour, 5*time.Minute)
	if _, err := svc.Stats(ctx, start.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ended session to be evicted, got %v", err)
	}
}
