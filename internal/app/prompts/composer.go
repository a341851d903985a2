package prompts

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

// HistoryWindow is how many prior turns are injected into a prompt.
const HistoryWindow = 3

const (
	crisisBanner     = "🚨 CRISIS INDICATORS DETECTED - PRIORITIZE SAFETY ASSESSMENT 🚨"
	closingDirective = "Respond with empathy, professionalism, and appropriate therapeutic techniques from the recommended approach. Keep responses conversational and supportive, and always follow the safety protocols above."
)

var approachGuidance = map[domain.TherapyApproach]string{
	domain.ApproachCBT:                "Focus on identifying and challenging negative thought patterns. Use cognitive restructuring techniques.",
	domain.ApproachDBT:                "Emphasize distress tolerance and emotion regulation skills. Validate emotions while teaching coping strategies.",
	domain.ApproachHumanistic:         "Provide unconditional positive regard and facilitate self-discovery through reflection.",
	domain.ApproachSolutionFocused:    "Focus on strengths, resources, and what's working. Ask scaling and exception-finding questions.",
	domain.ApproachMindfulness:        "Encourage present-moment awareness and acceptance. Use grounding techniques.",
	domain.ApproachCrisisIntervention: "Prioritize immediate safety. Assess risk and connect with professional resources.",
}

// Guidance returns the therapeutic focus line for an approach. It panics for
// values outside the enumeration: the table covers every approach.
func Guidance(a domain.TherapyApproach) string {
	if !a.Valid() {
		panic(fmt.Sprintf("prompts: no guidance for therapy approach %q", a))
	}
	return approachGuidance[a]
}

type ComposeInput struct {
	UserText        string
	EmotionalState  domain.EmotionalState
	TherapyApproach domain.TherapyApproach
	// History holds prior turns, oldest first. Only the last HistoryWindow are used.
	History        []domain.Turn
	CrisisDetected bool
}

// Composer renders the instruction string sent to the generation backend.
type Composer struct {
	library *Library
}

func NewComposer(library *Library) *Composer {
	if library == nil {
		library = NewLibrary()
	}
	return &Composer{library: library}
}

// Compose is deterministic: the same input always renders the same prompt.
// History is injected once, in the previous context block. Tags outside the
// enumerations panic.
func (c *Composer) Compose(in ComposeInput) string {
	if !in.EmotionalState.Valid() {
		panic(fmt.Sprintf("prompts: unknown emotional state %q", in.EmotionalState))
	}
	guidance := Guidance(in.TherapyApproach)

	sections := make([]string, 0, 7)
	sections = append(sections, strings.TrimSpace(c.library.Persona()))

	if in.CrisisDetected {
		sections = append(sections, crisisBanner)
	}

	sections = append(sections, fmt.Sprintf(
		"CURRENT EMOTIONAL STATE: %s\nRECOMMENDED THERAPEUTIC APPROACH: %s",
		in.EmotionalState, in.TherapyApproach,
	))

	if hist := lastTurns(in.History, HistoryWindow); len(hist) > 0 {
		pairs := make([]string, 0, len(hist))
		for _, t := range hist {
			pairs = append(pairs, "User: "+t.UserText+"\nAssistant: "+t.AIText)
		}
		sections = append(sections, "PREVIOUS CONVERSATION CONTEXT:\n"+strings.Join(pairs, "\n\n"))
	}

	sections = append(sections, "CURRENT CONVERSATION CONTEXT:\nUser: "+in.UserText)
	sections = append(sections, "THERAPEUTIC FOCUS: "+guidance)
	sections = append(sections, closingDirective)

	return strings.Join(sections, "\n\n")
}

func lastTurns(history []domain.Turn, n int) []domain.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
