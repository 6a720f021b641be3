package mysql

import (
	"database/sql"
	"encoding/json"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
)

// marshalAnswers serializes the raw quiz answers for the answers_json
// column; kolom butuh JSON valid, jadi map kosong jadi "{}"
func marshalAnswers(a assessment.QuizAnswers) string {
	if a == nil {
		return "{}"
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalAnswers(s string) assessment.QuizAnswers {
	var a assessment.QuizAnswers
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return assessment.QuizAnswers{}
	}
	return a
}

// nullString maps a nullable playbook column back to its pointer form.
func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
