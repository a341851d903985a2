package domain

import "time"

type SessionID string
type UserID string

type Timestamp = time.Time

// EmotionalState is the single emotion tag attached to a turn.
type EmotionalState string

const (
	EmotionNeutral     EmotionalState = "neutral"
	EmotionAnxious     EmotionalState = "anxious"
	EmotionDepressed   EmotionalState = "depressed"
	EmotionAngry       EmotionalState = "angry"
	EmotionOverwhelmed EmotionalState = "overwhelmed"
	EmotionHopeful     EmotionalState = "hopeful"
	EmotionCrisis      EmotionalState = "crisis"
)

// EmotionalStates lists every state in declaration order.
var EmotionalStates = []EmotionalState{
	EmotionNeutral,
	EmotionAnxious,
	EmotionDepressed,
	EmotionAngry,
	EmotionOverwhelmed,
	EmotionHopeful,
	EmotionCrisis,
}

func (s EmotionalState) Valid() bool {
	for _, v := range EmotionalStates {
		if v == s {
			return true
		}
	}
	return false
}

// CrisisLevel is the severity tag derived from keyword matching.
type CrisisLevel string

const (
	CrisisNone   CrisisLevel = "none"
	CrisisMedium CrisisLevel = "medium"
	CrisisHigh   CrisisLevel = "high"

	// CrisisUnknown is only reported by degraded responses, never by a classifier.
	CrisisUnknown CrisisLevel = "unknown"
)

// Severity orders levels: none < medium < high. Unknown sorts above high so
// callers reacting to severity treat it defensively.
func (l CrisisLevel) Severity() int {
	switch l {
	case CrisisNone:
		return 0
	case CrisisMedium:
		return 1
	case CrisisHigh:
		return 2
	default:
		return 3
	}
}

// Detected reports whether the level counts as a crisis for approach selection.
func (l CrisisLevel) Detected() bool {
	return l == CrisisMedium || l == CrisisHigh
}

// TherapyApproach is the counseling technique family used for a turn.
type TherapyApproach string

const (
	ApproachCBT                TherapyApproach = "cognitive_behavioral_therapy"
	ApproachDBT                TherapyApproach = "dialectical_behavior_therapy"
	ApproachHumanistic         TherapyApproach = "humanistic_therapy"
	ApproachSolutionFocused    TherapyApproach = "solution_focused_therapy"
	ApproachMindfulness        TherapyApproach = "mindfulness_based_therapy"
	ApproachCrisisIntervention TherapyApproach = "crisis_intervention"
)

var TherapyApproaches = []TherapyApproach{
	ApproachCBT,
	ApproachDBT,
	ApproachHumanistic,
	ApproachSolutionFocused,
	ApproachMindfulness,
	ApproachCrisisIntervention,
}

func (a TherapyApproach) Valid() bool {
	for _, v := range TherapyApproaches {
		if v == a {
			return true
		}
	}
	return false
}
