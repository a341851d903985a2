package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Generate echoes the current user line so local runs work without a model.
func (m *MockLLM) Generate(ctx context.Context, prompt string, _ domain.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrapTransportError("mock", err)
	}
	return fmt.Sprintf("I hear you. You said %q. Can you tell me a little more about how that feels?", lastUserLine(prompt)), nil
}

func lastUserLine(prompt string) string {
	i := strings.LastIndex(prompt, "User: ")
	if i < 0 {
		return strings.TrimSpace(prompt)
	}
	line := prompt[i+len("User: "):]
	if j := strings.Index(line, "\n"); j >= 0 {
		line = line[:j]
	}
	return strings.TrimSpace(line)
}
