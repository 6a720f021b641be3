package roadmaps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bizpulse/roadmap/internal/application"
	"github.com/bizpulse/roadmap/internal/domain/assessment"
	"github.com/bizpulse/roadmap/internal/domain/playbooks"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
	"github.com/bizpulse/roadmap/internal/logger"
)

// maxShareCodeAttempts caps the insert-retry loop on share-code collisions.
// 36^6 codes; nabrak 8 kali berturut-turut praktis mustahil.
const maxShareCodeAttempts = 8

// Service implements use-cases untuk Roadmap.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo      domain.Repository
	Generator playbooks.Generator  // optional; nil = no playbook generation
	Archive   domain.SnapshotStore // optional; nil = no snapshot archive
	Clock     application.Clock
	Log       logger.Logger
}

//
// ==== USE CASES ====
//

// Command untuk generate roadmap
type GenerateCommand struct {
	BusinessName string
	Email        string
	Answers      assessment.QuizAnswers
}

// Generate runs the scoring pipeline over the raw answers, assigns a unique
// share code, and persists the result. The quiz side never fails: an empty
// or partial answer set still scores; only missing identity fields reject.
func (s *Service) Generate(ctx context.Context, cmd GenerateCommand) (*domain.Roadmap, error) {
	if strings.TrimSpace(cmd.BusinessName) == "" {
		return nil, fmt.Errorf("%w: business name is required", domain.ErrInvalidInput)
	}
	if !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrInvalidInput)
	}

	answers := cmd.Answers
	if answers == nil {
		answers = assessment.QuizAnswers{}
	}

	score := assessment.Score(answers)
	revenue, leads, closeRate := assessment.Baseline(answers)
	gap := assessment.Project(revenue, leads, closeRate, score)

	r := &domain.Roadmap{
		BusinessName: strings.TrimSpace(cmd.BusinessName),
		Email:        strings.TrimSpace(cmd.Email),
		Answers:      answers,
		Score:        score,
		GapAnalysis:  gap,
		ViewCount:    0,
		CreatedAt:    s.Clock.Now(),
	}

	// share code: generate → insert → retry on unique-constraint conflict.
	// Uniqueness ditegakkan oleh DB, bukan pre-check (biar bebas race).
	inserted := false
	for attempt := 1; attempt <= maxShareCodeAttempts; attempt++ {
		r.ShareCode = domain.NewShareCode()
		err := s.Repo.Insert(ctx, r)
		if err == nil {
			inserted = true
			break
		}
		if errors.Is(err, domain.ErrShareCodeTaken) {
			s.Log.Warn("share code collision, retrying", map[string]interface{}{
				"attempt": attempt,
				"code":    r.ShareCode,
			})
			continue
		}
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrShareCodeExhausted
	}

	s.Log.Info("roadmap generated", map[string]interface{}{
		"id":         r.ID,
		"share_code": r.ShareCode,
		"overall":    r.Score.Overall,
	})

	// 🚀 Jalankan di background, biar caller langsung dapat respons.
	// Playbooks nempel belakangan; record sudah valid tanpa mereka.
	if s.Archive != nil {
		go s.archiveSnapshot(*r)
	}
	if s.Generator != nil {
		go s.GeneratePlaybooksUntilDone(r.ID, answers, score)
	}

	return r, nil
}

// Get ambil 1 roadmap by id
func (s *Service) Get(ctx context.Context, id int64) (*domain.Roadmap, error) {
	return s.Repo.GetByID(ctx, id)
}

// GetByShareCode resolves a public share link. The repo bumps view_count
// atomically as part of the read.
func (s *Service) GetByShareCode(ctx context.Context, code string) (*domain.Roadmap, error) {
	if !domain.ShareCodePattern.MatchString(code) {
		// casing lain atau panjang salah → not found, bukan dinormalisasi
		return nil, domain.ErrNotFound
	}
	return s.Repo.GetByShareCode(ctx, code)
}

// AttachPlaybook sets one playbook slot. Idempotent: re-attach overwrites.
func (s *Service) AttachPlaybook(ctx context.Context, id int64, t domain.PlaybookType, text string) error {
	if !domain.ValidPlaybookType(t) {
		return fmt.Errorf("%w: unknown playbook type %q", domain.ErrInvalidInput, t)
	}
	return s.Repo.AttachPlaybook(ctx, id, t, text)
}

// GeneratePlaybooksUntilDone → generate kelima playbook dengan
// context.Background(), cocok dipanggil dari goroutine supaya gak kena
// context canceled. Slot yang gagal dibiarkan null.
func (s *Service) GeneratePlaybooksUntilDone(id int64, answers assessment.QuizAnswers, score assessment.BusinessHealthScore) {
	ctx := context.Background()
	for _, t := range domain.AllPlaybookTypes {
		text, err := s.Generator.Generate(ctx, string(t), answers, score)
		if err != nil {
			s.Log.Error("playbook generation failed", map[string]interface{}{
				"id":   id,
				"type": t,
				"err":  err.Error(),
			})
			continue
		}
		if err := s.Repo.AttachPlaybook(ctx, id, t, text); err != nil {
			s.Log.Error("playbook attach failed", map[string]interface{}{
				"id":   id,
				"type": t,
				"err":  err.Error(),
			})
		}
	}
}

// archiveSnapshot uploads a best-effort JSON copy of the generated roadmap.
func (s *Service) archiveSnapshot(r domain.Roadmap) {
	key := fmt.Sprintf("roadmaps/%d-%s.json", r.ID, uuid.New().String())
	if _, err := s.Archive.UploadJSON(context.Background(), key, r); err != nil {
		s.Log.Warn("snapshot archive failed", map[string]interface{}{
			"id":  r.ID,
			"key": key,
			"err": err.Error(),
		})
	}
}
