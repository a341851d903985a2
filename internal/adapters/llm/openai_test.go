package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PabloGalante/farum-counselor/internal/adapters/llm"
	"github.com/PabloGalante/farum-counselor/internal/domain"
)

const responseBody = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 0,
  "status": "completed",
  "model": "gpt-test",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "status": "completed",
    "role": "assistant",
    "content": [{"type": "output_text", "text": "That sounds hard.", "annotations": []}]
  }]
}`

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/responses") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	defer srv.Close()

	client, err := llm.NewOpenAIClient("test-key", srv.URL+"/", "gpt-test")
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}

	text, err := client.Generate(context.Background(), "hello", domain.GenerateOptions{Temperature: 0.5, TopP: 0.9, MaxTokens: 100})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "That sounds hard." {
		t.Fatalf("unexpected text %q", text)
	}
	if got["model"] != "gpt-test" || got["max_output_tokens"] != float64(100) {
		t.Fatalf("unexpected request %v", got)
	}
}

func TestOpenAIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, _ := llm.NewOpenAIClient("test-key", srv.URL+"/", "gpt-test")
	_, err := client.Generate(context.Background(), "hello", domain.GenerateOptions{})

	var be *domain.BackendError
	if !errors.As(err, &be) || be.Status != http.StatusInternalServerError {
		t.Fatalf("expected backend error with status 500, got %v", err)
	}
}

func TestOpenAIRequiresModel(t *testing.T) {
	if _, err := llm.NewOpenAIClient("k", "", " "); err == nil {
		t.Fatalf("expected error for empty model")
	}
}
