package roadmaps

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
	"github.com/bizpulse/roadmap/internal/logger"
)

// ==========================
// Test doubles
// ==========================

// fakeRepo is an in-memory Repository with the same concurrency contract as
// the SQL implementations: the view-count bump happens under the store lock.
type fakeRepo struct {
	mu          sync.Mutex
	seq         int64
	byID        map[int64]*domain.Roadmap
	byCode      map[string]int64
	failInserts int // pending inserts to reject with ErrShareCodeTaken
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[int64]*domain.Roadmap),
		byCode: make(map[string]int64),
	}
}

func (f *fakeRepo) Insert(_ context.Context, r *domain.Roadmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInserts > 0 {
		f.failInserts--
		return domain.ErrShareCodeTaken
	}
	if _, taken := f.byCode[r.ShareCode]; taken {
		return domain.ErrShareCodeTaken
	}
	f.seq++
	r.ID = f.seq
	cp := *r
	f.byID[r.ID] = &cp
	f.byCode[r.ShareCode] = r.ID
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetByShareCode(_ context.Context, code string) (*domain.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r := f.byID[id]
	r.ViewCount++
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) AttachPlaybook(_ context.Context, id int64, t domain.PlaybookType, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s := text
	switch t {
	case domain.PlaybookLeadGeneration:
		r.Playbooks.LeadGeneration = &s
	case domain.PlaybookOfferClarity:
		r.Playbooks.OfferClarity = &s
	case domain.PlaybookSocialPresence:
		r.Playbooks.SocialPresence = &s
	case domain.PlaybookConversionProcess:
		r.Playbooks.ConversionProcess = &s
	case domain.PlaybookActionPlan:
		r.Playbooks.ActionPlan = &s
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// stubGenerator fails for the slots listed in failFor.
type stubGenerator struct {
	failFor map[string]bool
}

func (g *stubGenerator) Generate(_ context.Context, playbookType string, _ assessment.QuizAnswers, _ assessment.BusinessHealthScore) (string, error) {
	if g.failFor[playbookType] {
		return "", errors.New("upstream blew up")
	}
	return "playbook for " + playbookType, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	return &Service{
		Repo:  repo,
		Clock: fixedClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)},
		Log:   logger.NewTestLogger(t),
	}
}

func sampleCommand() GenerateCommand {
	return GenerateCommand{
		BusinessName: "Hartono Plumbing",
		Email:        "owner@hartonoplumbing.com",
		Answers: assessment.QuizAnswers{
			"leadResponseSpeed": "Within 24 hours",
			"missedLeads":       "25-50%",
			"crmUsage":          "No",
			"monthlyAdBudget":   "$1K-$3K",
			"monthlyRevenue":    "$20K-$50K",
			"monthlyLeads":      25,
			"closeRate":         30,
		},
	}
}

// ==========================
// Generate
// ==========================

func TestGenerateAssignsIDAndShareCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rm.ID)
	assert.Regexp(t, `^[a-z0-9]{6}$`, rm.ShareCode)
	assert.Equal(t, int64(0), rm.ViewCount)
	assert.Equal(t, 34, rm.Score.Breakdown.LeadGeneration)
	assert.GreaterOrEqual(t, rm.GapAnalysis.PotentialLeads, 50)
	assert.Nil(t, rm.Playbooks.LeadGeneration)
	assert.Nil(t, rm.Playbooks.ActionPlan)
}

func TestGenerateEmptyQuizStillSucceeds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	cmd := GenerateCommand{BusinessName: "Empty Answers LLC", Email: "x@y.co"}
	rm, err := svc.Generate(context.Background(), cmd)
	assert.NoError(t, err)
	assert.Equal(t, 0, rm.Score.Overall)
	assert.Greater(t, rm.GapAnalysis.PotentialLeads, 0)
}

func TestGenerateRejectsMissingIdentity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	_, err := svc.Generate(context.Background(), GenerateCommand{Email: "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Generate(context.Background(), GenerateCommand{BusinessName: "No Mail Co", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateRetriesOnShareCodeCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.failInserts = 3
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)
	assert.Regexp(t, `^[a-z0-9]{6}$`, rm.ShareCode)
	assert.Equal(t, 0, repo.failInserts, "all forced collisions consumed")
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	repo := newFakeRepo()
	repo.failInserts = maxShareCodeAttempts
	svc := newTestService(t, repo)

	_, err := svc.Generate(context.Background(), sampleCommand())
	assert.ErrorIs(t, err, domain.ErrShareCodeExhausted)
}

func TestGenerateUniqueShareCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		cmd := sampleCommand()
		cmd.Email = fmt.Sprintf("owner%d@biz.co", i)
		rm, err := svc.Generate(context.Background(), cmd)
		assert.NoError(t, err)
		_, dup := seen[rm.ShareCode]
		assert.False(t, dup)
		seen[rm.ShareCode] = struct{}{}
	}
}

// ==========================
// Reads
// ==========================

func TestGetUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t, newFakeRepo())
	_, err := svc.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByShareCodeIncrementsViewCount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	got1, err := svc.GetByShareCode(context.Background(), rm.ShareCode)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got1.ViewCount)

	got2, err := svc.GetByShareCode(context.Background(), rm.ShareCode)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), got2.ViewCount)

	// plain Get must not count
	byID, err := svc.Get(context.Background(), rm.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), byID.ViewCount)
}

func TestGetByShareCodeConcurrentCountsEveryHit(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.GetByShareCode(context.Background(), rm.ShareCode)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(context.Background(), rm.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(n), got.ViewCount)
}

func TestGetByShareCodeRejectsBadFormat(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	for _, code := range []string{"invalid", "", "ABC123", "abc12", rm.ShareCode + "x"} {
		_, err := svc.GetByShareCode(context.Background(), code)
		assert.ErrorIs(t, err, domain.ErrNotFound, code)
	}

	// a format-rejected lookup must not have touched the counter
	got, err := svc.Get(context.Background(), rm.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got.ViewCount)
}

// ==========================
// Playbooks
// ==========================

func TestAttachPlaybookSetsOnlyItsSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	err = svc.AttachPlaybook(context.Background(), rm.ID, domain.PlaybookOfferClarity, "clarify the offer")
	assert.NoError(t, err)

	got, err := svc.Get(context.Background(), rm.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got.Playbooks.OfferClarity)
	assert.Equal(t, "clarify the offer", *got.Playbooks.OfferClarity)
	assert.Nil(t, got.Playbooks.LeadGeneration)
	assert.Nil(t, got.Playbooks.SocialPresence)
	assert.Nil(t, got.Playbooks.ConversionProcess)
	assert.Nil(t, got.Playbooks.ActionPlan)
}

func TestAttachPlaybookOverwrites(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	assert.NoError(t, svc.AttachPlaybook(context.Background(), rm.ID, domain.PlaybookActionPlan, "v1"))
	assert.NoError(t, svc.AttachPlaybook(context.Background(), rm.ID, domain.PlaybookActionPlan, "v2"))

	got, _ := svc.Get(context.Background(), rm.ID)
	assert.Equal(t, "v2", *got.Playbooks.ActionPlan)
}

func TestAttachPlaybookRejectsUnknownType(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	err = svc.AttachPlaybook(context.Background(), rm.ID, "sales_funnel", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGeneratePlaybooksLeavesFailedSlotsNull(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	rm, err := svc.Generate(context.Background(), sampleCommand())
	assert.NoError(t, err)

	// run synchronously: the background path calls the exact same method
	svc.Generator = &stubGenerator{failFor: map[string]bool{"social_presence": true}}
	svc.GeneratePlaybooksUntilDone(rm.ID, rm.Answers, rm.Score)

	got, err := svc.Get(context.Background(), rm.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got.Playbooks.LeadGeneration)
	assert.NotNil(t, got.Playbooks.OfferClarity)
	assert.Nil(t, got.Playbooks.SocialPresence, "failed slot stays null")
	assert.NotNil(t, got.Playbooks.ConversionProcess)
	assert.NotNil(t, got.Playbooks.ActionPlan)
}
