package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
)

// pgErrUniqueViolation is the SQLSTATE for a unique-constraint violation.
const pgErrUniqueViolation = "23505"

type RoadmapRepository struct {
	db *sql.DB
}

func NewRoadmapRepository(db *sql.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

var playbookColumns = map[domain.PlaybookType]string{
	domain.PlaybookLeadGeneration:    "playbook_lead_generation",
	domain.PlaybookOfferClarity:      "playbook_offer_clarity",
	domain.PlaybookSocialPresence:    "playbook_social_presence",
	domain.PlaybookConversionProcess: "playbook_conversion_process",
	domain.PlaybookActionPlan:        "playbook_action_plan",
}

const selectColumns = `
id, business_name, email, answers_json,
overall, lead_generation, offer_clarity, social_presence, conversion_process,
top_strength, biggest_gap,
current_revenue, current_leads, current_close_rate,
potential_revenue, potential_leads, potential_close_rate,
playbook_lead_generation, playbook_offer_clarity, playbook_social_presence,
playbook_conversion_process, playbook_action_plan,
share_code, view_count, created_at`

// Insert persists a new roadmap; id datang dari RETURNING. Unique violation
// di share_code dilaporkan sebagai ErrShareCodeTaken.
func (r *RoadmapRepository) Insert(ctx context.Context, rm *domain.Roadmap) error {
	const q = `
INSERT INTO roadmaps
(business_name, email, answers_json,
 overall, lead_generation, offer_clarity, social_presence, conversion_process,
 top_strength, biggest_gap,
 current_revenue, current_leads, current_close_rate,
 potential_revenue, potential_leads, potential_close_rate,
 share_code, view_count, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
RETURNING id;
`
	created := rm.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	err := r.db.QueryRowContext(ctx, q,
		rm.BusinessName, rm.Email, marshalAnswers(rm.Answers),
		rm.Score.Overall,
		rm.Score.Breakdown.LeadGeneration, rm.Score.Breakdown.OfferClarity,
		rm.Score.Breakdown.SocialPresence, rm.Score.Breakdown.ConversionProcess,
		string(rm.Score.TopStrength), string(rm.Score.BiggestGap),
		rm.GapAnalysis.CurrentRevenue, rm.GapAnalysis.CurrentLeads, rm.GapAnalysis.CurrentCloseRate,
		rm.GapAnalysis.PotentialRevenue, rm.GapAnalysis.PotentialLeads, rm.GapAnalysis.PotentialCloseRate,
		rm.ShareCode, rm.ViewCount, created,
	).Scan(&rm.ID)
	if err != nil {
		var pe *pq.Error
		if errors.As(err, &pe) && pe.Code == pgErrUniqueViolation {
			return domain.ErrShareCodeTaken
		}
		return err
	}
	rm.CreatedAt = created
	return nil
}

func (r *RoadmapRepository) GetByID(ctx context.Context, id int64) (*domain.Roadmap, error) {
	q := `SELECT ` + selectColumns + ` FROM roadmaps WHERE id=$1 LIMIT 1;`
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rm, err
}

// GetByShareCode does the increment and the read in one statement: the
// UPDATE ... RETURNING is atomic, jadi dua akses bersamaan dua-duanya
// kehitung.
func (r *RoadmapRepository) GetByShareCode(ctx context.Context, code string) (*domain.Roadmap, error) {
	q := `
UPDATE roadmaps SET view_count = view_count + 1
WHERE share_code = $1
RETURNING ` + selectColumns + `;`
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rm, err
}

func (r *RoadmapRepository) AttachPlaybook(ctx context.Context, id int64, t domain.PlaybookType, text string) error {
	col, ok := playbookColumns[t]
	if !ok {
		return domain.ErrInvalidInput
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE roadmaps SET `+col+` = $1 WHERE id = $2;`, text, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

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

func scanRoadmap(row interface{ Scan(dest ...any) error }) (*domain.Roadmap, error) {
	var (
		rm       domain.Roadmap
		answers  string
		top, gap string
		pb       [5]sql.NullString
	)
	if err := row.Scan(
		&rm.ID, &rm.BusinessName, &rm.Email, &answers,
		&rm.Score.Overall,
		&rm.Score.Breakdown.LeadGeneration, &rm.Score.Breakdown.OfferClarity,
		&rm.Score.Breakdown.SocialPresence, &rm.Score.Breakdown.ConversionProcess,
		&top, &gap,
		&rm.GapAnalysis.CurrentRevenue, &rm.GapAnalysis.CurrentLeads, &rm.GapAnalysis.CurrentCloseRate,
		&rm.GapAnalysis.PotentialRevenue, &rm.GapAnalysis.PotentialLeads, &rm.GapAnalysis.PotentialCloseRate,
		&pb[0], &pb[1], &pb[2], &pb[3], &pb[4],
		&rm.ShareCode, &rm.ViewCount, &rm.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &rm.Answers); err != nil {
		rm.Answers = assessment.QuizAnswers{}
	}
	rm.Score.TopStrength = assessment.Category(top)
	rm.Score.BiggestGap = assessment.Category(gap)
	rm.Playbooks = domain.Playbooks{
		LeadGeneration:    nullString(pb[0]),
		OfferClarity:      nullString(pb[1]),
		SocialPresence:    nullString(pb[2]),
		ConversionProcess: nullString(pb[3]),
		ActionPlan:        nullString(pb[4]),
	}
	return &rm, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
