package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	BackendMock      = "mock"
	BackendOllama    = "ollama"
	BackendOllamaCLI = "ollama_cli"
	BackendOpenAI    = "openai"
	BackendVertex    = "vertex"
)

const (
	minGenerateTimeout = 30 * time.Second
	maxGenerateTimeout = 120 * time.Second
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	LLMBackend string
	ModelName  string
	OllamaURL  string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	GCPProjectID string
	GCPLocation  string

	GenerateTimeout time.Duration
	Temperature     float64
	TopP            float64
	MaxTokens       int

	CORSAllowOrigins []string

	SessionIdleTTL       time.Duration
	EndedSessionGrace    time.Duration
	SessionSweepInterval time.Duration
}

// Load reads .env (when present) and the environment and builds the config.
func Load() *Config {
	_ = godotenv.Load(".env")

	modeStr := getEnv("COUNSELOR_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultBackend := BackendOllama
	if mode == ModeGCP {
		defaultBackend = BackendVertex
	}

	return &Config{
		Mode: mode,

		Port:     getEnv("COUNSELOR_PORT", getEnv("PORT", "8080")),
		LogLevel: getEnv("COUNSELOR_LOG_LEVEL", "info"),

		LLMBackend: strings.ToLower(getEnv("COUNSELOR_LLM_BACKEND", defaultBackend)),
		ModelName:  getEnv("COUNSELOR_MODEL_NAME", "llama3.1:8b-instruct-q4_0"),
		OllamaURL:  strings.TrimRight(getEnv("COUNSELOR_OLLAMA_URL", "http://localhost:11434"), "/"),

		OpenAIAPIKey:  getEnv("COUNSELOR_OPENAI_API_KEY", getEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL: getEnv("COUNSELOR_OPENAI_BASE_URL", ""),

		GCPProjectID: getEnv("COUNSELOR_GCP_PROJECT", ""),
		GCPLocation:  getEnv("COUNSELOR_GCP_LOCATION", "us-central1"),

		GenerateTimeout: ClampGenerateTimeout(time.Duration(getEnvInt("COUNSELOR_GENERATE_TIMEOUT_SECONDS", 30)) * time.Second),
		Temperature:     getEnvFloat("COUNSELOR_TEMPERATURE", 0.7),
		TopP:            getEnvFloat("COUNSELOR_TOP_P", 0.9),
		MaxTokens:       getEnvInt("COUNSELOR_MAX_TOKENS", 500),

		CORSAllowOrigins: getEnvCSV("COUNSELOR_CORS_ALLOW_ORIGINS", []string{"*"}),

		SessionIdleTTL:       time.Duration(getEnvInt("COUNSELOR_SESSION_IDLE_TTL_MINUTES", 60)) * time.Minute,
		EndedSessionGrace:    time.Duration(getEnvInt("COUNSELOR_ENDED_SESSION_GRACE_MINUTES", 5)) * time.Minute,
		SessionSweepInterval: time.Duration(getEnvInt("COUNSELOR_SESSION_SWEEP_SECONDS", 60)) * time.Second,
	}
}

// ClampGenerateTimeout keeps the backend timeout within 30 to 120 seconds.
func ClampGenerateTimeout(d time.Duration) time.Duration {
	if d < minGenerateTimeout {
		return minGenerateTimeout
	}
	if d > maxGenerateTimeout {
		return maxGenerateTimeout
	}
	return d
}

func (c *Config) Validate() error {
	switch c.LLMBackend {
	case BackendMock, BackendOllama, BackendOllamaCLI:
	case BackendOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" && strings.TrimSpace(c.OpenAIBaseURL) == "" {
			return errors.New("COUNSELOR_OPENAI_API_KEY or COUNSELOR_OPENAI_BASE_URL must be set for the openai backend")
		}
	case BackendVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return errors.New("COUNSELOR_GCP_PROJECT and COUNSELOR_GCP_LOCATION must be set for the vertex backend")
		}
	default:
		return fmt.Errorf("unknown COUNSELOR_LLM_BACKEND %q", c.LLMBackend)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return errors.New("COUNSELOR_MODEL_NAME must not be empty")
	}
	if c.MaxTokens <= 0 {
		return errors.New("COUNSELOR_MAX_TOKENS must be positive")
	}
	if c.SessionSweepInterval > 0 && c.SessionIdleTTL <= c.GenerateTimeout {
		return errors.New("COUNSELOR_SESSION_IDLE_TTL_MINUTES must exceed the generate timeout")
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return parsed
}

func getEnvFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvCSV(key string, def []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
