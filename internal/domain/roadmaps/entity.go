package roadmaps

import (
	"time"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
)

// PlaybookType enum: the five narrative slots on a roadmap.
type PlaybookType string

const (
	PlaybookLeadGeneration    PlaybookType = "lead_generation"
	PlaybookOfferClarity      PlaybookType = "offer_clarity"
	PlaybookSocialPresence    PlaybookType = "social_presence"
	PlaybookConversionProcess PlaybookType = "conversion_process"
	PlaybookActionPlan        PlaybookType = "action_plan"
)

// AllPlaybookTypes in generation order.
var AllPlaybookTypes = [5]PlaybookType{
	PlaybookLeadGeneration,
	PlaybookOfferClarity,
	PlaybookSocialPresence,
	PlaybookConversionProcess,
	PlaybookActionPlan,
}

// ValidPlaybookType reports whether t names one of the five slots.
func ValidPlaybookType(t PlaybookType) bool {
	for _, pt := range AllPlaybookTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// Playbooks holds the nullable narrative fields. Nil berarti generator
// eksternal belum (atau gagal) mengisi slot itu; record tetap valid.
type Playbooks struct {
	LeadGeneration    *string `json:"lead_generation"`
	OfferClarity      *string `json:"offer_clarity"`
	SocialPresence    *string `json:"social_presence"`
	ConversionProcess *string `json:"conversion_process"`
	ActionPlan        *string `json:"action_plan"`
}

// Get returns the text for one slot, nil when unset.
func (p Playbooks) Get(t PlaybookType) *string {
	switch t {
	case PlaybookLeadGeneration:
		return p.LeadGeneration
	case PlaybookOfferClarity:
		return p.OfferClarity
	case PlaybookSocialPresence:
		return p.SocialPresence
	case PlaybookConversionProcess:
		return p.ConversionProcess
	case PlaybookActionPlan:
		return p.ActionPlan
	default:
		return nil
	}
}

// Aggregate root: Roadmap. Created once at generation time; mutated only by
// playbook attachment and the share-code view counter.
type Roadmap struct {
	ID           int64                          `json:"id"`
	BusinessName string                         `json:"business_name"`
	Email        string                         `json:"email"`
	Answers      assessment.QuizAnswers         `json:"answers"`
	Score        assessment.BusinessHealthScore `json:"score"`
	GapAnalysis  assessment.GapAnalysis         `json:"gap_analysis"`
	Playbooks    Playbooks                      `json:"playbooks"`
	ShareCode    string                         `json:"share_code"`
	ViewCount    int64                          `json:"view_count"`
	CreatedAt    time.Time                      `json:"created_at"`
}
