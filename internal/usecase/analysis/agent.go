package analysis

import (
	"context"
	"math"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/validator"
)

// UnknownSpeaker labels utterances without a speaker
const UnknownSpeaker = "Unknown"

// Agent is one independent analyzer over a meeting's utterances
type Agent interface {
	Type() entities.AgentType
	Analyze(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error)
}

// validateInput fails with a *entities.ValidationError before any work starts
func validateInput(r *Resources, input *entities.AnalysisInput) error {
	if input == nil {
		return entities.NewValidationError("input", "is required")
	}
	if err := r.Validator.Validate(input); err != nil {
		fes := validator.FieldErrors(err)
		if len(fes) == 0 {
			return entities.NewValidationError("input", err.Error())
		}
		return entities.NewValidationError(fes[0].Field, fes[0].Describe())
	}
	if strings.TrimSpace(input.MeetingID) == "" {
		return entities.NewValidationError("meeting_id", "is required")
	}
	return nil
}

func speakerName(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownSpeaker
	}
	return s
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
