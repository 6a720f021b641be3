package assessment

// Category enum
type Category string

const (
	CategoryLeadGeneration    Category = "Lead Generation"
	CategoryOfferClarity      Category = "Offer Clarity"
	CategorySocialPresence    Category = "Social Presence"
	CategoryConversionProcess Category = "Conversion Process"
)

// categoryPriority is the fixed tie-break order for strength/gap selection.
var categoryPriority = [4]Category{
	CategoryLeadGeneration,
	CategoryOfferClarity,
	CategorySocialPresence,
	CategoryConversionProcess,
}

// SubFactor is one weighted, normalized component of a category score.
type SubFactor struct {
	Question string
	Weight   int
	Value    int // selalu dalam [0, Weight]
}

// question maps the enumerated answer variants of one quiz question to fixed
// point values. Jawaban yang tidak dikenal atau kosong bernilai 0; kuis yang
// terisi sebagian tetap menghasilkan skor lengkap.
type question struct {
	key     string
	weight  int
	options map[string]int
}

// Per-category question tables. Weights per category sum to 100.
var (
	leadGenerationQuestions = []question{
		{key: "leadResponseSpeed", weight: 30, options: map[string]int{
			"Within 5 minutes":   30,
			"Within 1 hour":      22,
			"Within 24 hours":    12,
			"More than 24 hours": 4,
		}},
		{key: "missedLeads", weight: 30, options: map[string]int{
			"0-10%":  30,
			"10-25%": 20,
			"25-50%": 10,
			"50%+":   3,
		}},
		{key: "monthlyAdBudget", weight: 25, options: map[string]int{
			"$5K+":      25,
			"$3K-$5K":   19,
			"$1K-$3K":   12,
			"Under $1K": 6,
			"Nothing":   0,
		}},
		{key: "crmUsage", weight: 15, options: map[string]int{
			"Yes": 15,
			"No":  0,
		}},
	}

	offerClarityQuestions = []question{
		{key: "uniqueValueProp", weight: 30, options: map[string]int{
			"Yes, clearly documented": 30,
			"Yes, but informal":       18,
			"Somewhat":                10,
			"No":                      0,
		}},
		{key: "pricingConfidence", weight: 25, options: map[string]int{
			"Very confident":      25,
			"Fairly confident":    16,
			"Unsure":              8,
			"We compete on price": 3,
		}},
		{key: "targetAudience", weight: 25, options: map[string]int{
			"One specific niche": 25,
			"A few segments":     15,
			"Anyone who pays":    5,
		}},
		{key: "guaranteeOffered", weight: 20, options: map[string]int{
			"Yes": 20,
			"No":  0,
		}},
	}

	socialPresenceQuestions = []question{
		{key: "postingFrequency", weight: 30, options: map[string]int{
			"Daily":              30,
			"A few times a week": 21,
			"Weekly":             13,
			"Rarely or never":    3,
		}},
		// socialPlatforms is set-valued and scored by count, see below
		{key: "engagementLevel", weight: 25, options: map[string]int{
			"High":     25,
			"Moderate": 15,
			"Low":      6,
			"None":     0,
		}},
		{key: "videoContent", weight: 20, options: map[string]int{
			"Yes, regularly": 20,
			"Occasionally":   10,
			"Never":          0,
		}},
	}

	conversionProcessQuestions = []question{
		{key: "followUpProcess", weight: 30, options: map[string]int{
			"Automated sequences":   30,
			"Manual but consistent": 20,
			"Inconsistent":          9,
			"No follow-up":          0,
		}},
		{key: "reportedCloseRate", weight: 30, options: map[string]int{
			"Above 50%": 30,
			"30-50%":    21,
			"10-30%":    11,
			"Below 10%": 3,
		}},
		{key: "salesScript", weight: 20, options: map[string]int{
			"Yes, and we train on it": 20,
			"Yes, loosely":            12,
			"No":                      0,
		}},
		{key: "onlineBooking", weight: 20, options: map[string]int{
			"Yes": 20,
			"No":  0,
		}},
	}
)

const socialPlatformsWeight = 25

// socialPlatformsValue scores the platform set by size.
func socialPlatformsValue(a QuizAnswers) int {
	switch n := len(answerList(a, "socialPlatforms")); {
	case n >= 4:
		return 25
	case n == 3:
		return 20
	case n == 2:
		return 16
	case n == 1:
		return 10
	default:
		return 0
	}
}

// Normalize maps raw answers into the ordered weighted sub-factors of one
// category. Pure and total: never errors, unknown answers degrade to 0.
func Normalize(a QuizAnswers, c Category) []SubFactor {
	var qs []question
	switch c {
	case CategoryLeadGeneration:
		qs = leadGenerationQuestions
	case CategoryOfferClarity:
		qs = offerClarityQuestions
	case CategorySocialPresence:
		qs = socialPresenceQuestions
	case CategoryConversionProcess:
		qs = conversionProcessQuestions
	default:
		return nil
	}

	out := make([]SubFactor, 0, len(qs)+1)
	for _, q := range qs {
		v := q.options[answerString(a, q.key)] // miss → 0
		out = append(out, SubFactor{Question: q.key, Weight: q.weight, Value: clamp(v, 0, q.weight)})
	}
	if c == CategorySocialPresence {
		out = append(out, SubFactor{
			Question: "socialPlatforms",
			Weight:   socialPlatformsWeight,
			Value:    socialPlatformsValue(a),
		})
	}
	return out
}
