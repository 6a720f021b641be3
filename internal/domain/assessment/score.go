package assessment

import "math"

// CategoryBreakdown holds the four 0-100 category scores.
type CategoryBreakdown struct {
	LeadGeneration    int `json:"lead_generation"`
	OfferClarity      int `json:"offer_clarity"`
	SocialPresence    int `json:"social_presence"`
	ConversionProcess int `json:"conversion_process"`
}

// Get returns the score for one category.
func (b CategoryBreakdown) Get(c Category) int {
	switch c {
	case CategoryLeadGeneration:
		return b.LeadGeneration
	case CategoryOfferClarity:
		return b.OfferClarity
	case CategorySocialPresence:
		return b.SocialPresence
	case CategoryConversionProcess:
		return b.ConversionProcess
	default:
		return 0
	}
}

// BusinessHealthScore is the aggregated assessment result.
type BusinessHealthScore struct {
	Overall     int               `json:"overall"`
	Breakdown   CategoryBreakdown `json:"breakdown"`
	TopStrength Category          `json:"top_strength"`
	BiggestGap  Category          `json:"biggest_gap"`
}

// CategoryScore sums a category's weighted sub-factors. Clamp seharusnya
// tidak pernah kepakai selama bobot per kategori berjumlah 100.
func CategoryScore(a QuizAnswers, c Category) int {
	sum := 0
	for _, f := range Normalize(a, c) {
		sum += f.Value
	}
	return clamp(sum, 0, 100)
}

// Aggregate combines the four category scores: overall is the rounded mean
// (equal 25-point weighting), strength/gap pick max/min with ties broken by
// the fixed priority order.
func Aggregate(b CategoryBreakdown) BusinessHealthScore {
	sum := b.LeadGeneration + b.OfferClarity + b.SocialPresence + b.ConversionProcess
	overall := int(math.Round(float64(sum) / 4.0))

	top := categoryPriority[0]
	gap := categoryPriority[0]
	for _, c := range categoryPriority[1:] {
		if b.Get(c) > b.Get(top) {
			top = c
		}
		if b.Get(c) < b.Get(gap) {
			gap = c
		}
	}

	return BusinessHealthScore{
		Overall:     overall,
		Breakdown:   b,
		TopStrength: top,
		BiggestGap:  gap,
	}
}

// Score runs the full pipeline: normalize → per-category scores → aggregate.
// Pure and deterministic; safe to call concurrently.
func Score(a QuizAnswers) BusinessHealthScore {
	return Aggregate(CategoryBreakdown{
		LeadGeneration:    CategoryScore(a, CategoryLeadGeneration),
		OfferClarity:      CategoryScore(a, CategoryOfferClarity),
		SocialPresence:    CategoryScore(a, CategorySocialPresence),
		ConversionProcess: CategoryScore(a, CategoryConversionProcess),
	})
}
