package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

// OllamaCLI runs `ollama run <model>` with the prompt on stdin. Sampling
// options are not exposed by the CLI and are ignored.
type OllamaCLI struct {
	binary string
	model  string
}

func NewOllamaCLI(binary, model string) *OllamaCLI {
	if binary == "" {
		binary = "ollama"
	}
	return &OllamaCLI{binary: binary, model: model}
}

func (c *OllamaCLI) Generate(ctx context.Context, prompt string, _ domain.GenerateOptions) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, "run", c.model)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", wrapTransportError("ollama-cli", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &domain.BackendError{
				Backend: "ollama-cli",
				Err:     fmt.Errorf("%w: exit %d: %s", domain.ErrBackendUnavailable, exitErr.ExitCode(), strings.TrimSpace(stderr.String())),
			}
		}
		return "", wrapTransportError("ollama-cli", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
