package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PabloGalante/farum-counselor/internal/adapters/llm"
	memstore "github.com/PabloGalante/farum-counselor/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-counselor/internal/app/counseling"
	journalapp "github.com/PabloGalante/farum-counselor/internal/app/journal"
)

func TestChatLoop(t *testing.T) {
	svc := counseling.NewService(llm.NewMockLLM(), memstore.NewSessionStore(), journalapp.NewService(memstore.NewJournalStore()))

	in := strings.NewReader("I feel anxious about tomorrow\n\nquit\n")
	var out bytes.Buffer
	if err := chat(context.Background(), svc, in, &out); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Type 'exit' to quit.",
		"[anxious | cognitive_behavioral_therapy | crisis: none]",
		"Summary: Session focused on anxious experiences. Total of 1 exchanges occurred.",
		"Session ended. Take care!",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
