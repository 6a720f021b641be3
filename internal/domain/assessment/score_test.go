package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryScoreBounds(t *testing.T) {
	inputs := []QuizAnswers{
		nil,
		{},
		{"leadResponseSpeed": "Within 5 minutes", "missedLeads": "0-10%", "monthlyAdBudget": "$5K+", "crmUsage": "Yes"},
		{"leadResponseSpeed": "garbage", "crmUsage": 3},
	}
	for _, a := range inputs {
		for _, c := range []Category{
			CategoryLeadGeneration,
			CategoryOfferClarity,
			CategorySocialPresence,
			CategoryConversionProcess,
		} {
			s := CategoryScore(a, c)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestCategoryScorePerfectAnswers(t *testing.T) {
	a := QuizAnswers{
		"leadResponseSpeed": "Within 5 minutes",
		"missedLeads":       "0-10%",
		"monthlyAdBudget":   "$5K+",
		"crmUsage":          "Yes",
	}
	assert.Equal(t, 100, CategoryScore(a, CategoryLeadGeneration))
}

func TestAggregateOverallIsRoundedMean(t *testing.T) {
	cases := []struct {
		b    CategoryBreakdown
		want int
	}{
		{CategoryBreakdown{100, 100, 100, 100}, 100},
		{CategoryBreakdown{0, 0, 0, 0}, 0},
		{CategoryBreakdown{50, 50, 50, 50}, 50},
		{CategoryBreakdown{34, 0, 0, 0}, 9},  // 8.5 rounds up
		{CategoryBreakdown{33, 0, 0, 0}, 8},  // 8.25 rounds down
		{CategoryBreakdown{70, 55, 40, 25}, 48},
	}
	for _, tc := range cases {
		got := Aggregate(tc.b)
		assert.Equal(t, tc.want, got.Overall, "%+v", tc.b)
	}
}

func TestAggregateStrengthAndGap(t *testing.T) {
	got := Aggregate(CategoryBreakdown{
		LeadGeneration:    40,
		OfferClarity:      80,
		SocialPresence:    20,
		ConversionProcess: 60,
	})
	assert.Equal(t, CategoryOfferClarity, got.TopStrength)
	assert.Equal(t, CategorySocialPresence, got.BiggestGap)
}

func TestAggregateTieBreakUsesPriorityOrder(t *testing.T) {
	// two-way tie at the top and at the bottom: priority order
	// LeadGeneration > OfferClarity > SocialPresence > ConversionProcess
	got := Aggregate(CategoryBreakdown{
		LeadGeneration:    80,
		OfferClarity:      80,
		SocialPresence:    10,
		ConversionProcess: 10,
	})
	assert.Equal(t, CategoryLeadGeneration, got.TopStrength)
	assert.Equal(t, CategorySocialPresence, got.BiggestGap)
}

func TestAggregateDeterministic(t *testing.T) {
	b := CategoryBreakdown{34, 34, 34, 34}
	first := Aggregate(b)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Aggregate(b))
	}
}

func TestScoreEmptyQuizStillComplete(t *testing.T) {
	got := Score(QuizAnswers{})
	assert.Equal(t, 0, got.Overall)
	assert.Equal(t, CategoryLeadGeneration, got.TopStrength)
	assert.Equal(t, CategoryLeadGeneration, got.BiggestGap)
}
