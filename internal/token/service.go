package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/watch2give/streakd/internal/streak"
)

// SubmissionStore persists accepted submissions.
// Implemented by store.Store and store.MemStore.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub Submission) error
}

// ActivityRecorder receives one activity event per accepted submission.
// Implemented by tracker.Tracker.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, now time.Time) (int, []streak.Effect, error)
}

// Clock supplies the current instant. Kept as a seam so tests drive
// submissions deterministically.
type Clock interface {
	Now() time.Time
}

// Result is the outcome of an accepted submission: the stored submission
// plus the streak state it produced.
type Result struct {
	Submission  Submission
	StreakCount int
	Effects     []streak.Effect
}

// Service validates and records token-action submissions.
type Service struct {
	store    SubmissionStore
	recorder ActivityRecorder
	clock    Clock
	vendor   string
	logger   *slog.Logger
}

// NewService creates a submission service for one vendor key.
// Pass nil logger for the default.
func NewService(st SubmissionStore, rec ActivityRecorder, clock Clock, vendorKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		recorder: rec,
		clock:    clock,
		vendor:   vendorKey,
		logger:   logger.With("component", "token"),
	}
}

// Submit validates the request, persists the submission, and records one
// activity event on the streak tracker.
//
// Validation failures return *ValidationError and leave no trace. A
// persistence failure does not reject the submission: the activity still
// counts (the streak is the vendor-facing signal), only the audit row is
// lost, matching the tracker's storage-degraded policy.
func (s *Service) Submit(ctx context.Context, rawToken string, action Action, photoCount int) (*Result, error) {
	tok := NormalizeToken(rawToken)
	if err := ValidateRequest(tok, action, photoCount); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sub := Submission{
		ID:         uuid.Must(uuid.NewV7()).String(),
		VendorKey:  s.vendor,
		Token:      tok,
		Action:     action,
		PhotoCount: photoCount,
		CreatedAt:  now,
	}

	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		s.logger.Warn("submission not persisted, continuing",
			"submission_id", sub.ID,
			"error", err)
	}

	count, effects, err := s.recorder.RecordActivity(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	s.logger.Info("submission accepted",
		"submission_id", sub.ID,
		"action", string(action),
		"streak_count", count)

	return &Result{Submission: sub, StreakCount: count, Effects: effects}, nil
}
