package assessment

import (
	"strconv"
	"strings"
)

// QuizAnswers is the raw quiz payload: question key → answer value.
// Values arrive JSON-shaped (string, number, bool, or list of strings).
// Disimpan apa adanya; bentuk numerik hasil normalisasi tidak pernah dipersist.
type QuizAnswers map[string]any

// answerString resolves an answer as a trimmed string, "" when absent.
func answerString(a QuizAnswers, key string) string {
	v, ok := a[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	default:
		return ""
	}
}

// answerList resolves a set-valued answer ([]any from JSON, []string, or a
// comma separated string).
func answerList(a QuizAnswers, key string) []string {
	v, ok := a[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// answerNumber parses an answer tolerantly: JSON numbers, ints, or numeric
// strings. Anything else is 0.
func answerNumber(a QuizAnswers, key string) float64 {
	v, ok := a[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(t, "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
