package classifier

import "github.com/PabloGalante/farum-counselor/internal/domain"

// SelectApproach picks the therapy approach for a turn. A detected crisis
// always wins over the emotional state.
func SelectApproach(crisisDetected bool, state domain.EmotionalState) domain.TherapyApproach {
	if crisisDetected {
		return domain.ApproachCrisisIntervention
	}

	switch state {
	case domain.EmotionAnxious:
		return domain.ApproachCBT
	case domain.EmotionDepressed:
		return domain.ApproachHumanistic
	case domain.EmotionOverwhelmed:
		return domain.ApproachSolutionFocused
	case domain.EmotionAngry:
		return domain.ApproachDBT
	default:
		return domain.ApproachCBT
	}
}

// Result is the full classification of one message.
type Result struct {
	CrisisLevel     domain.CrisisLevel
	CrisisDetected  bool
	EmotionalState  domain.EmotionalState
	TherapyApproach domain.TherapyApproach
}

// Classify runs crisis detection first, then emotion, then approach selection.
func Classify(text string) Result {
	level := ClassifyCrisis(text)
	detected := level.Detected()
	state := ClassifyEmotion(text)
	return Result{
		CrisisLevel:     level,
		CrisisDetected:  detected,
		EmotionalState:  state,
		TherapyApproach: SelectApproach(detected, state),
	}
}
