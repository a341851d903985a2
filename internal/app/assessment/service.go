package assessment

import (
	"errors"
	"fmt"

	"github.com/PabloGalante/farum-counselor/internal/app/prompts"
)

type Kind string

const (
	KindPHQ9 Kind = "phq9"
	KindGAD7 Kind = "gad7"
)

var (
	ErrUnknownAssessment = errors.New("unknown assessment type")
	ErrInvalidAnswers    = errors.New("invalid assessment answers")
)

type instrument struct {
	questions int
	// thresholds are exclusive upper bounds, checked in order.
	thresholds []band
	top        string
}

type band struct {
	below    int
	severity string
}

var instruments = map[Kind]instrument{
	KindPHQ9: {
		questions: 9,
		thresholds: []band{
			{5, "Minimal"},
			{10, "Mild"},
			{15, "Moderate"},
			{20, "Moderately Severe"},
		},
		top: "Severe",
	},
	KindGAD7: {
		questions: 7,
		thresholds: []band{
			{5, "Minimal"},
			{10, "Mild"},
			{15, "Moderate"},
		},
		top: "Severe",
	},
}

type Result struct {
	Type     Kind   `json:"type"`
	Score    int    `json:"score"`
	Severity string `json:"severity"`
}

// Score sums the answers of a questionnaire and maps the total to a severity.
// Every answer must be between 0 and 3.
func Score(kind Kind, answers []int) (Result, error) {
	inst, ok := instruments[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAssessment, kind)
	}
	if len(answers) != inst.questions {
		return Result{}, fmt.Errorf("%w: %s expects %d answers, got %d", ErrInvalidAnswers, kind, inst.questions, len(answers))
	}

	total := 0
	for i, a := range answers {
		if a < 0 || a > 3 {
			return Result{}, fmt.Errorf("%w: answer %d out of range: %d", ErrInvalidAnswers, i+1, a)
		}
		total += a
	}

	severity := inst.top
	for _, b := range inst.thresholds {
		if total < b.below {
			severity = b.severity
			break
		}
	}

	return Result{Type: kind, Score: total, Severity: severity}, nil
}

// Service scores questionnaires and provides the counselor's introductions.
type Service struct {
	library *prompts.Library
}

func NewService(lib *prompts.Library) *Service {
	if lib == nil {
		lib = prompts.NewLibrary()
	}
	return &Service{library: lib}
}

func (s *Service) Score(kind Kind, answers []int) (Result, error) {
	if kind == "" {
		kind = KindPHQ9
	}
	return Score(kind, answers)
}

// Introduction returns the sentence used to invite the user to a questionnaire.
func (s *Service) Introduction(kind Kind) (string, error) {
	if _, ok := instruments[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAssessment, kind)
	}
	return s.library.Get(prompts.CategoryAssessmentPrompts, string(kind)+"_introduction", nil), nil
}
