package playbooks

import (
	"context"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
)

// Generator port: produces long-form playbook text for one slot from the
// quiz answers and the computed score. Implemented by an external content
// service adapter; failures leave the slot null, never break the roadmap.
type Generator interface {
	Generate(ctx context.Context, playbookType string, answers assessment.QuizAnswers, score assessment.BusinessHealthScore) (string, error)
}
