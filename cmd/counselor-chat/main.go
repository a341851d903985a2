package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-counselor/internal/adapters/llm"
	memstore "github.com/PabloGalante/farum-counselor/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-counselor/internal/app/counseling"
	journalapp "github.com/PabloGalante/farum-counselor/internal/app/journal"
	"github.com/PabloGalante/farum-counselor/internal/config"
	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

var (
	backend   string
	model     string
	ollamaURL string
	timeout   time.Duration
	userID    string
	showTags  bool
)

var rootCmd = &cobra.Command{
	Use:   "counselor-chat",
	Short: "Talk to the counselor from the terminal",
	Long: `counselor-chat runs an interactive session against the configured
language model. Type 'exit' or 'quit' to end the session and see its summary.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.Flags().StringVar(&backend, "backend", "", "LLM backend (mock, ollama, ollama_cli, openai, vertex)")
	rootCmd.Flags().StringVar(&model, "model", "", "Model name override")
	rootCmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "Ollama server URL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Generation timeout (clamped to 30s-120s)")
	rootCmd.Flags().StringVar(&userID, "user", "local-user", "User id recorded in the journal")
	rootCmd.Flags().BoolVar(&showTags, "tags", true, "Print emotional state and approach after each reply")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if backend != "" {
		cfg.LLMBackend = strings.ToLower(backend)
	}
	if model != "" {
		cfg.ModelName = model
	}
	if ollamaURL != "" {
		cfg.OllamaURL = strings.TrimRight(ollamaURL, "/")
	}
	if timeout > 0 {
		cfg.GenerateTimeout = config.ClampGenerateTimeout(timeout)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so they don't interleave with the conversation.
	observability.Configure(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	generator, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing llm backend: %w", err)
	}

	svc := counseling.NewService(generator, memstore.NewSessionStore(), journalapp.NewService(memstore.NewJournalStore()),
		counseling.WithGenerateTimeout(cfg.GenerateTimeout),
		counseling.WithGenerateOptions(domain.GenerateOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
		}),
	)

	return chat(ctx, svc, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chat(ctx context.Context, svc *counseling.Service, in io.Reader, out io.Writer) error {
	uid := domain.UserID(userID)
	start, err := svc.Start(ctx, counseling.StartInput{UserID: uid})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Welcome to the AI Mental Health Counselor. Type 'exit' to quit.")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Alex: %s\n\n", start.Message)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if cmd := strings.ToLower(line); cmd == "exit" || cmd == "quit" {
			break
		}

		reply := svc.ProcessMessage(ctx, counseling.MessageInput{
			SessionID: start.SessionID,
			UserID:    uid,
			Text:      line,
		})
		fmt.Fprintf(out, "Alex: %s\n", reply.Message)
		if showTags {
			fmt.Fprintf(out, "  [%s | %s | crisis: %s]\n", reply.EmotionalState, reply.TherapyApproach, reply.CrisisLevel)
		}
		if reply.CrisisResources != nil {
			c := reply.CrisisResources.EmergencyContacts
			fmt.Fprintf(out, "  If you are in danger: call %s, %s, or call %s.\n", c.NationalSuicidePrevention, c.CrisisTextLine, c.EmergencyServices)
		}
		fmt.Fprintln(out)
		if reply.SessionID != "" {
			start.SessionID = reply.SessionID
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	end, err := svc.End(ctx, start.SessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nAlex: %s\n", end.Message)
	fmt.Fprintf(out, "Summary: %s\n", end.SessionSummary)
	fmt.Fprintln(out, "Session ended. Take care!")
	return nil
}
