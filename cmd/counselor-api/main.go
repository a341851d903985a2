package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/PabloGalante/farum-counselor/internal/adapters/http"
	"github.com/PabloGalante/farum-counselor/internal/adapters/llm"
	memstore "github.com/PabloGalante/farum-counselor/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-counselor/internal/app/assessment"
	"github.com/PabloGalante/farum-counselor/internal/app/counseling"
	journalapp "github.com/PabloGalante/farum-counselor/internal/app/journal"
	"github.com/PabloGalante/farum-counselor/internal/config"
	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	observability.Configure(os.Stdout, cfg.LogLevel)
	log := observability.Logger()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	generator, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Error("error initializing llm backend", "backend", cfg.LLMBackend, "error", err)
		os.Exit(1)
	}
	log.Info("llm backend ready", "backend", cfg.LLMBackend, "model", cfg.ModelName)

	if ollama, ok := generator.(*llm.OllamaClient); ok {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if !ollama.IsAvailable(checkCtx) {
			log.Warn("ollama model not reachable, replies will fall back until it is", "url", cfg.OllamaURL, "model", cfg.ModelName)
		}
		cancel()
	}

	sessionStore := memstore.NewSessionStore()
	go sessionStore.RunJanitor(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTTL, cfg.EndedSessionGrace)
	journalSvc := journalapp.NewService(memstore.NewJournalStore())

	counselingSvc := counseling.NewService(generator, sessionStore, journalSvc,
		counseling.WithGenerateTimeout(cfg.GenerateTimeout),
		counseling.WithGenerateOptions(domain.GenerateOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
		}),
	)
	assessmentSvc := assessment.NewService(counselingSvc.Library())

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpadapter.NewServer(counselingSvc, assessmentSvc, journalSvc, cfg.CORSAllowOrigins).Router()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("counselor api listening", "port", cfg.Port, "mode", cfg.Mode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
