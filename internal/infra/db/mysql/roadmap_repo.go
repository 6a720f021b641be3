package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
)

// mysqlErrDuplicateEntry is the server error number for a unique-key
// violation (ER_DUP_ENTRY).
const mysqlErrDuplicateEntry = 1062

type RoadmapRepository struct {
	db *sql.DB
}

func NewRoadmapRepository(db *sql.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

// playbookColumns whitelists the attachable columns per slot.
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

// Insert persists a new roadmap row. share_code punya unique index; tabrakan
// dilaporkan sebagai ErrShareCodeTaken supaya service bisa retry.
func (r *RoadmapRepository) Insert(ctx context.Context, rm *domain.Roadmap) error {
	const q = `
INSERT INTO roadmaps
(business_name, email, answers_json,
 overall, lead_generation, offer_clarity, social_presence, conversion_process,
 top_strength, biggest_gap,
 current_revenue, current_leads, current_close_rate,
 potential_revenue, potential_leads, potential_close_rate,
 share_code, view_count, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	created := rm.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	res, err := r.db.ExecContext(ctx, q,
		rm.BusinessName, rm.Email, marshalAnswers(rm.Answers),
		rm.Score.Overall,
		rm.Score.Breakdown.LeadGeneration, rm.Score.Breakdown.OfferClarity,
		rm.Score.Breakdown.SocialPresence, rm.Score.Breakdown.ConversionProcess,
		string(rm.Score.TopStrength), string(rm.Score.BiggestGap),
		rm.GapAnalysis.CurrentRevenue, rm.GapAnalysis.CurrentLeads, rm.GapAnalysis.CurrentCloseRate,
		rm.GapAnalysis.PotentialRevenue, rm.GapAnalysis.PotentialLeads, rm.GapAnalysis.PotentialCloseRate,
		rm.ShareCode, rm.ViewCount, created,
	)
	if err != nil {
		var me *mysqldrv.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return domain.ErrShareCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = id
	rm.CreatedAt = created
	return nil
}

// GetByID fetches one roadmap, ErrNotFound kalau tidak ada.
func (r *RoadmapRepository) GetByID(ctx context.Context, id int64) (*domain.Roadmap, error) {
	q := `SELECT ` + selectColumns + ` FROM roadmaps WHERE id=? LIMIT 1;`
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rm, err
}

// GetByShareCode increments view_count in place, then reads the row back.
// The UPDATE is a single atomic statement so concurrent hits on a popular
// link never lose a count; RowsAffected==0 is the not-found signal.
func (r *RoadmapRepository) GetByShareCode(ctx context.Context, code string) (*domain.Roadmap, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roadmaps SET view_count = view_count + 1 WHERE share_code = ?;`, code)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	q := `SELECT ` + selectColumns + ` FROM roadmaps WHERE share_code=? LIMIT 1;`
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rm, err
}

// AttachPlaybook hanya update satu kolom playbook.
func (r *RoadmapRepository) AttachPlaybook(ctx context.Context, id int64, t domain.PlaybookType, text string) error {
	col, ok := playbookColumns[t]
	if !ok {
		return domain.ErrInvalidInput
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE roadmaps SET `+col+` = ? WHERE id = ?;`, text, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows when the value is unchanged, so a
		// same-text re-attach lands here too; existensi dicek terpisah.
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM roadmaps WHERE id=? LIMIT 1;`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// scanRoadmap maps one row onto the aggregate.
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
	rm.Answers = unmarshalAnswers(answers)
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
