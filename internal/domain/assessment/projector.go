package assessment

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// GapAnalysis is the current vs 18-month-potential projection.
type GapAnalysis struct {
	CurrentRevenue     string  `json:"current_revenue"`
	CurrentLeads       int     `json:"current_leads"`
	CurrentCloseRate   float64 `json:"current_close_rate"`
	PotentialRevenue   string  `json:"potential_revenue"`
	PotentialLeads     int     `json:"potential_leads"`
	PotentialCloseRate float64 `json:"potential_close_rate"`
}

const (
	// lead multiplier bounds: lower LeadGeneration score → more headroom
	minLeadMultiplier = 2.0
	maxLeadMultiplier = 4.0

	// close-rate uplift bounds in percentage points
	maxCloseRateUplift = 25.0

	// leads floor used when the caller reports no lead volume at all
	zeroLeadsBaseline = 10

	// rendered potential band when the current revenue has no parseable digits
	zeroRevenueBandHigh = 5000.0
)

// revenueToken matches one numeric group with an optional K/M suffix.
var revenueToken = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([KkMm])?`)

// ParseRevenueBounds extracts up to the first two numeric tokens of a revenue
// range string ("$20K-$50K", "$50K", "250000"). Tanpa digit sama sekali →
// (0, 0). Single value → lo == hi.
func ParseRevenueBounds(s string) (lo, hi float64) {
	ms := revenueToken.FindAllStringSubmatch(s, 2)
	if len(ms) == 0 {
		return 0, 0
	}
	vals := make([]float64, 0, 2)
	for _, m := range ms {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch strings.ToUpper(m[2]) {
		case "K":
			v *= 1_000
		case "M":
			v *= 1_000_000
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 0:
		return 0, 0
	case 1:
		return vals[0], vals[0]
	default:
		lo, hi = vals[0], vals[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo, hi
	}
}

// RevenueMidpoint returns the scalar estimate for a revenue range string.
func RevenueMidpoint(s string) float64 {
	lo, hi := ParseRevenueBounds(s)
	return (lo + hi) / 2
}

// LeadMultiplier scales inversely with the LeadGeneration score, bounded to
// [2, 4]: skor rendah berarti ruang tumbuh paling besar.
func LeadMultiplier(leadScore int) float64 {
	s := clamp(leadScore, 0, 100)
	return minLeadMultiplier + (maxLeadMultiplier-minLeadMultiplier)*float64(100-s)/100.0
}

// closeRateUplift is the projected close-rate gain in points, scaled by how
// far ConversionProcess sits below 100. Floored at 1 point so the projection
// is strictly an improvement even at a perfect score.
func closeRateUplift(conversionScore int) float64 {
	s := clamp(conversionScore, 0, 100)
	up := math.Round(maxCloseRateUplift * float64(100-s) / 100.0)
	if up < 1 {
		up = 1
	}
	return up
}

// Project computes the 18-month potential from the current baseline and the
// health score. Total over its inputs: zero / unparseable baselines produce a
// well-formed result, and the potential side is always strictly above the
// current side.
func Project(currentRevenue string, currentLeads int, currentCloseRate float64, score BusinessHealthScore) GapAnalysis {
	mult := LeadMultiplier(score.Breakdown.LeadGeneration)

	// leads
	leadBase := currentLeads
	if leadBase <= 0 {
		leadBase = zeroLeadsBaseline
	}
	potentialLeads := int(math.Round(float64(leadBase) * mult))
	if potentialLeads <= currentLeads {
		potentialLeads = currentLeads + 1
	}

	// close rate
	potentialCloseRate := currentCloseRate + closeRateUplift(score.Breakdown.ConversionProcess)
	if potentialCloseRate > 100 {
		potentialCloseRate = 100
	}
	if potentialCloseRate <= currentCloseRate {
		potentialCloseRate = currentCloseRate + 1
	}

	// revenue: proportional to the combined leads x close-rate improvement
	closeRatio := 1.0
	if currentCloseRate > 0 {
		closeRatio = potentialCloseRate / currentCloseRate
	}
	ratio := mult * closeRatio

	lo, hi := ParseRevenueBounds(currentRevenue)
	var plo, phi float64
	if hi <= 0 {
		// no parseable baseline: tampilkan band entry-level supaya midpoint
		// tetap di atas 0
		plo, phi = 0, zeroRevenueBandHigh
	} else {
		plo, phi = lo*ratio, hi*ratio
	}

	return GapAnalysis{
		CurrentRevenue:     currentRevenue,
		CurrentLeads:       currentLeads,
		CurrentCloseRate:   currentCloseRate,
		PotentialRevenue:   FormatRevenueRange(plo, phi),
		PotentialLeads:     potentialLeads,
		PotentialCloseRate: potentialCloseRate,
	}
}

// Baseline pulls the projector inputs out of the raw answers.
func Baseline(a QuizAnswers) (revenue string, leads int, closeRate float64) {
	revenue = answerString(a, "monthlyRevenue")
	leads = int(answerNumber(a, "monthlyLeads"))
	closeRate = answerNumber(a, "closeRate")
	return revenue, leads, closeRate
}

// FormatRevenueRange renders bounds back into the "$20K-$50K" family.
func FormatRevenueRange(lo, hi float64) string {
	if lo == hi {
		return formatDollars(lo)
	}
	return fmt.Sprintf("%s-%s", formatDollars(lo), formatDollars(hi))
}

func formatDollars(v float64) string {
	switch {
	case v >= 1_000_000:
		s := strconv.FormatFloat(math.Round(v/100_000)/10, 'f', -1, 64)
		return "$" + s + "M"
	case v >= 1_000:
		return fmt.Sprintf("$%dK", int(math.Round(v/1_000)))
	default:
		return fmt.Sprintf("$%d", int(math.Round(v)))
	}
}
