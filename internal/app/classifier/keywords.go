package classifier

import (
	"strings"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

type emotionGroup struct {
	state    domain.EmotionalState
	keywords []string
}

// Checked in order, first group with a hit wins.
var emotionGroups = []emotionGroup{
	{domain.EmotionAnxious, []string{"anxious", "worried", "nervous", "stress", "panic", "fear", "scared"}},
	{domain.EmotionDepressed, []string{"sad", "depressed", "hopeless", "worthless", "tired", "exhausted", "empty"}},
	{domain.EmotionAngry, []string{"angry", "furious", "mad", "frustrated", "irritated", "rage"}},
	{domain.EmotionOverwhelmed, []string{"overwhelmed", "too much", "can't handle", "drowning", "swamped"}},
	{domain.EmotionHopeful, []string{"hope", "better", "improving", "progress", "optimistic", "positive"}},
}

var (
	highRiskPhrases = []string{
		"kill myself", "suicide", "end my life", "not worth living", "better off dead",
		"suicide plan", "kill me", "die", "ending it all", "can't go on",
	}
	selfHarmPhrases = []string{
		"cut myself", "hurt myself", "self harm", "cutting", "burning myself",
		"punish myself", "deserve pain", "physical pain",
	}
	mediumRiskPhrases = []string{
		"hopeless", "worthless", "pointless", "give up", "can't take it anymore",
		"want to disappear", "tired of living", "nothing matters", "no point",
	}
)

// HighRiskPhrases returns a copy of the phrases that classify as high.
func HighRiskPhrases() []string {
	out := make([]string, 0, len(highRiskPhrases)+len(selfHarmPhrases))
	out = append(out, highRiskPhrases...)
	return append(out, selfHarmPhrases...)
}

// MediumRiskPhrases returns a copy of the phrases that classify as medium.
func MediumRiskPhrases() []string {
	return append([]string(nil), mediumRiskPhrases...)
}

// ClassifyEmotion maps text to an emotional state. Matching is substring
// containment on the lowercased text, not word matching.
func ClassifyEmotion(text string) domain.EmotionalState {
	lower := strings.ToLower(text)
	for _, g := range emotionGroups {
		if containsAny(lower, g.keywords) {
			return g.state
		}
	}
	return domain.EmotionNeutral
}

// ClassifyCrisis maps text to a crisis level. High risk and self harm phrases
// both yield high; substrings inside other words also match, so "die" fires
// for "diet". Over-triggering is accepted here.
func ClassifyCrisis(text string) domain.CrisisLevel {
	lower := strings.ToLower(text)
	if containsAny(lower, highRiskPhrases) || containsAny(lower, selfHarmPhrases) {
		return domain.CrisisHigh
	}
	if containsAny(lower, mediumRiskPhrases) {
		return domain.CrisisMedium
	}
	return domain.CrisisNone
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
