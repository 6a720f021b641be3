package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
)

// Per-slot briefs: what each playbook should cover.
var playbookBriefs = map[string]string{
	"lead_generation":    "a lead generation playbook: channels, budget allocation, response-time process, and CRM usage",
	"offer_clarity":      "an offer clarity playbook: value proposition, niche positioning, pricing and guarantees",
	"social_presence":    "a social presence playbook: platform mix, posting cadence, engagement and video content",
	"conversion_process": "a conversion playbook: follow-up sequences, sales scripts, booking flow and close-rate improvement",
	"action_plan":        "a 90-day action plan that sequences the highest-impact fixes across all four categories",
}

// SystemPrompt frames the generator as a growth consultant for one slot.
func SystemPrompt(playbookType string) string {
	brief, ok := playbookBriefs[playbookType]
	if !ok {
		brief = "a business growth playbook"
	}
	return "You are a senior business growth consultant. Write " + brief + ". " +
		"Be specific and practical: concrete steps, realistic numbers, plain language. " +
		"Address the business owner directly. No preamble, no markdown headers deeper than level 2."
}

// UserPrompt carries the assessment context. Jawaban mentah + skor
// dikirim sebagai JSON supaya modelnya bisa merujuk angka persisnya.
func UserPrompt(answers assessment.QuizAnswers, score assessment.BusinessHealthScore) string {
	ab, _ := json.Marshal(answers)
	sb, _ := json.Marshal(score)
	return fmt.Sprintf(
		"Business self-assessment answers:\n%s\n\nComputed health score:\n%s\n\n"+
			"Write the playbook for this business. Anchor every recommendation in the scores above, "+
			"prioritising the weakest areas.",
		string(ab), string(sb),
	)
}
