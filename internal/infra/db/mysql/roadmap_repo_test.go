package mysql

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
)

var roadmapColumns = []string{
	"id", "business_name", "email", "answers_json",
	"overall", "lead_generation", "offer_clarity", "social_presence", "conversion_process",
	"top_strength", "biggest_gap",
	"current_revenue", "current_leads", "current_close_rate",
	"potential_revenue", "potential_leads", "potential_close_rate",
	"playbook_lead_generation", "playbook_offer_clarity", "playbook_social_presence",
	"playbook_conversion_process", "playbook_action_plan",
	"share_code", "view_count", "created_at",
}

func sampleRow(id int64, shareCode string, viewCount int64) []driver.Value {
	return []driver.Value{
		id, "Hartono Plumbing", "owner@hartonoplumbing.com", `{"crmUsage":"Yes"}`,
		48, 70, 55, 40, 25,
		"Lead Generation", "Conversion Process",
		"$20K-$50K", 25, 30.0,
		"$66K-$166K", 84, 43.0,
		"lead gen playbook", nil, nil, nil, nil,
		shareCode, viewCount, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestInsertDuplicateShareCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO roadmaps").
		WillReturnError(&mysqldrv.MySQLError{Number: mysqlErrDuplicateEntry, Message: "Duplicate entry 'abc123' for key 'share_code'"})

	repo := NewRoadmapRepository(db)
	rm := &domain.Roadmap{BusinessName: "X", Email: "x@y.co", ShareCode: "abc123"}
	err = repo.Insert(context.Background(), rm)
	assert.ErrorIs(t, err, domain.ErrShareCodeTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO roadmaps").
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := NewRoadmapRepository(db)
	rm := &domain.Roadmap{
		BusinessName: "Hartono Plumbing",
		Email:        "owner@hartonoplumbing.com",
		Answers:      assessment.QuizAnswers{"crmUsage": "Yes"},
		ShareCode:    "k3x9mq",
		CreatedAt:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	err = repo.Insert(context.Background(), rm)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), rm.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM roadmaps WHERE id=").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(roadmapColumns))

	repo := NewRoadmapRepository(db)
	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScansAggregate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM roadmaps WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roadmapColumns).AddRow(sampleRow(7, "k3x9mq", 3)...))

	repo := NewRoadmapRepository(db)
	rm, err := repo.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), rm.ID)
	assert.Equal(t, 48, rm.Score.Overall)
	assert.Equal(t, assessment.CategoryLeadGeneration, rm.Score.TopStrength)
	assert.Equal(t, assessment.CategoryConversionProcess, rm.Score.BiggestGap)
	assert.Equal(t, "Yes", rm.Answers["crmUsage"])
	assert.NotNil(t, rm.Playbooks.LeadGeneration)
	assert.Nil(t, rm.Playbooks.ActionPlan)
	assert.Equal(t, int64(3), rm.ViewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByShareCodeBumpsThenReads(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE roadmaps SET view_count = view_count").
		WithArgs("k3x9mq").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM roadmaps WHERE share_code=").
		WithArgs("k3x9mq").
		WillReturnRows(sqlmock.NewRows(roadmapColumns).AddRow(sampleRow(7, "k3x9mq", 4)...))

	repo := NewRoadmapRepository(db)
	rm, err := repo.GetByShareCode(context.Background(), "k3x9mq")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), rm.ViewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByShareCodeUnknownCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// zero rows touched by the bump means the code does not exist; the
	// follow-up SELECT must not run at all.
	mock.ExpectExec("UPDATE roadmaps SET view_count = view_count").
		WithArgs("zzzzzz").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRoadmapRepository(db)
	_, err = repo.GetByShareCode(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachPlaybookUpdatesSlotColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE roadmaps SET playbook_offer_clarity").
		WithArgs("clarify the offer", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRoadmapRepository(db)
	err = repo.AttachPlaybook(context.Background(), 7, domain.PlaybookOfferClarity, "clarify the offer")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachPlaybookSameTextIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// MySQL reports 0 affected rows when the new value equals the old one;
	// the existence probe distinguishes that from a missing row.
	mock.ExpectExec("UPDATE roadmaps SET playbook_action_plan").
		WithArgs("same text", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM roadmaps WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	repo := NewRoadmapRepository(db)
	err = repo.AttachPlaybook(context.Background(), 7, domain.PlaybookActionPlan, "same text")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachPlaybookMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE roadmaps SET playbook_action_plan").
		WithArgs("text", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM roadmaps WHERE id=").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewRoadmapRepository(db)
	err = repo.AttachPlaybook(context.Background(), 404, domain.PlaybookActionPlan, "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachPlaybookRejectsUnknownColumn(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRoadmapRepository(db)
	err = repo.AttachPlaybook(context.Background(), 7, "sales_funnel", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
