package httpadapter

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/farum-counselor/internal/app/assessment"
	"github.com/PabloGalante/farum-counselor/internal/app/counseling"
	"github.com/PabloGalante/farum-counselor/internal/app/journal"
	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

type Server struct {
	counseling  *counseling.Service
	assessments *assessment.Service
	journal     *journal.Service
	corsOrigins []string
}

func NewServer(
	counselingSvc *counseling.Service,
	assessmentSvc *assessment.Service,
	journalSvc *journal.Service,
	corsOrigins []string,
) *Server {
	return &Server{
		counseling:  counselingSvc,
		assessments: assessmentSvc,
		journal:     journalSvc,
		corsOrigins: corsOrigins,
	}
}

// Router builds the gin engine with every route and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestID(), accessLog(), gin.Recovery())
	router.Use(cors.New(corsConfig(s.corsOrigins)))

	router.GET("/healthz", s.health)

	router.POST("/sessions", s.startSession)
	router.GET("/sessions/:id", s.sessionStats)
	router.POST("/sessions/:id/messages", s.sendMessage)
	router.POST("/sessions/:id/end", s.endSession)

	router.POST("/chat", s.chat)
	router.POST("/assessments", s.scoreAssessment)
	router.GET("/assessments/:type/introduction", s.assessmentIntroduction)
	router.GET("/users/:user_id/journal", s.userJournal)

	return router
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

type startSessionResponse struct {
	Message         string `json:"message"`
	SessionID       string `json:"session_id"`
	EmotionalState  string `json:"emotional_state"`
	TherapyApproach string `json:"therapy_approach"`
}

type sendMessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type chatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type messageResponse struct {
	Message         string                      `json:"message"`
	SessionID       string                      `json:"session_id,omitempty"`
	EmotionalState  string                      `json:"emotional_state,omitempty"`
	TherapyApproach string                      `json:"therapy_approach,omitempty"`
	CrisisLevel     string                      `json:"crisis_level"`
	CrisisResources *counseling.CrisisResources `json:"crisis_resources,omitempty"`
	Error           string                      `json:"error,omitempty"`
}

type endSessionResponse struct {
	Message                 string         `json:"message"`
	SessionID               string         `json:"session_id"`
	SessionSummary          string         `json:"session_summary"`
	SessionDuration         string         `json:"session_duration"`
	SessionDurationSeconds  float64        `json:"session_duration_seconds"`
	TotalExchanges          int            `json:"total_exchanges"`
	EmotionalStatesObserved map[string]int `json:"emotional_states_observed"`
}

type statsResponse struct {
	SessionID               string         `json:"session_id"`
	Status                  string         `json:"status"`
	SessionDuration         string         `json:"session_duration"`
	SessionDurationSeconds  float64        `json:"session_duration_seconds"`
	TotalExchanges          int            `json:"total_exchanges"`
	CurrentEmotionalState   string         `json:"current_emotional_state"`
	CurrentTherapyApproach  string         `json:"current_therapy_approach"`
	CrisisDetected          bool           `json:"crisis_detected"`
	EmotionalStatesObserved map[string]int `json:"emotional_states_observed"`
}

type assessmentRequest struct {
	Type    string `json:"type"`
	Answers []int  `json:"answers"`
}

type introductionResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type journalResponse struct {
	UserID  string                 `json:"user_id"`
	Entries []*domain.JournalEntry `json:"entries"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "farum-counselor",
	})
}

func (s *Server) startSession(c *gin.Context) {
	var req startSessionRequest
	// The body is optional; anonymous sessions are allowed.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := s.counseling.Start(c.Request.Context(), counseling.StartInput{
		UserID: domain.UserID(strings.TrimSpace(req.UserID)),
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, startSessionResponse{
		Message:         out.Message,
		SessionID:       string(out.SessionID),
		EmotionalState:  string(out.EmotionalState),
		TherapyApproach: string(out.TherapyApproach),
	})
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	out := s.counseling.ProcessMessage(c.Request.Context(), counseling.MessageInput{
		SessionID: domain.SessionID(c.Param("id")),
		UserID:    domain.UserID(req.UserID),
		Text:      req.Text,
	})
	c.JSON(http.StatusOK, toMessageResponse(out))
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "message is required")
		return
	}

	out := s.counseling.ProcessMessage(c.Request.Context(), counseling.MessageInput{
		SessionID: domain.SessionID(req.SessionID),
		UserID:    domain.UserID(req.UserID),
		Text:      req.Message,
	})
	c.JSON(http.StatusOK, toMessageResponse(out))
}

func (s *Server) endSession(c *gin.Context) {
	out, err := s.counseling.End(c.Request.Context(), domain.SessionID(c.Param("id")))
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, endSessionResponse{
		Message:                 out.Message,
		SessionID:               string(out.SessionID),
		SessionSummary:          out.SessionSummary,
		SessionDuration:         out.SessionDuration.Round(time.Millisecond).String(),
		SessionDurationSeconds:  out.SessionDuration.Seconds(),
		TotalExchanges:          out.TotalExchanges,
		EmotionalStatesObserved: toCounts(out.EmotionalStatesObserved),
	})
}

func (s *Server) sessionStats(c *gin.Context) {
	out, err := s.counseling.Stats(c.Request.Context(), domain.SessionID(c.Param("id")))
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		SessionID:               string(out.SessionID),
		Status:                  string(out.Status),
		SessionDuration:         out.SessionDuration.Round(time.Millisecond).String(),
		SessionDurationSeconds:  out.SessionDuration.Seconds(),
		TotalExchanges:          out.TotalExchanges,
		CurrentEmotionalState:   string(out.CurrentEmotionalState),
		CurrentTherapyApproach:  string(out.CurrentTherapyApproach),
		CrisisDetected:          out.CrisisDetected,
		EmotionalStatesObserved: toCounts(out.EmotionalStatesObserved),
	})
}

func (s *Server) scoreAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := s.assessments.Score(assessment.Kind(strings.ToLower(strings.TrimSpace(req.Type))), req.Answers)
	switch {
	case errors.Is(err, assessment.ErrUnknownAssessment), errors.Is(err, assessment.ErrInvalidAnswers):
		writeError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) assessmentIntroduction(c *gin.Context) {
	kind := assessment.Kind(strings.ToLower(c.Param("type")))
	msg, err := s.assessments.Introduction(kind)
	switch {
	case errors.Is(err, assessment.ErrUnknownAssessment):
		writeError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, introductionResponse{Type: string(kind), Message: msg})
}

func (s *Server) userJournal(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	userID := domain.UserID(c.Param("user_id"))
	entries, err := s.journal.GetUserJournal(c.Request.Context(), userID, limit)
	if err != nil {
		internalError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}

	c.JSON(http.StatusOK, journalResponse{UserID: string(userID), Entries: entries})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toMessageResponse(out counseling.MessageOutput) messageResponse {
	return messageResponse{
		Message:         out.Message,
		SessionID:       string(out.SessionID),
		EmotionalState:  string(out.EmotionalState),
		TherapyApproach: string(out.TherapyApproach),
		CrisisLevel:     string(out.CrisisLevel),
		CrisisResources: out.CrisisResources,
		Error:           out.Error,
	}
}

func toCounts(m map[domain.EmotionalState]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"error": detail})
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(c, http.StatusNotFound, "session not found")
		return
	}
	internalError(c, err)
}

func internalError(c *gin.Context, err error) {
	observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
	writeError(c, http.StatusInternalServerError, "internal server error")
}
