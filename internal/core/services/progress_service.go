package services

import (
	"context"
	"errors"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
	"github.com/rutina-app/rutina-engine/internal/core/workers"
)

// ProgressService is the completion processor: it turns a daily outcome into
// a progress record plus a habit streak transition. The record insert runs
// first so the per-day unique constraint acts as the idempotency guard before
// any habit counters move.
type ProgressService struct {
	habits  domain.HabitRepository
	records domain.ProgressRecordRepository
	auditor *workers.StreakAuditWorker
	now     Clock
}

func NewProgressService(habits domain.HabitRepository, records domain.ProgressRecordRepository, auditor *workers.StreakAuditWorker, now Clock) *ProgressService {
	if now == nil {
		now = UTCNow
	}
	return &ProgressService{
		habits:  habits,
		records: records,
		auditor: auditor,
		now:     now,
	}
}

type RecordProgressInput struct {
	HabitID    string
	UserID     string
	Completed  bool
	Percentage *float64
	Notes      string
}

// Record logs an explicit daily outcome for a habit (the direct progress
// registration path). It does not consult eligibility; the one-record-per-day
// rule alone decides whether the write is accepted.
func (s *ProgressService) Record(ctx context.Context, input RecordProgressInput) (*domain.ProgressRecord, error) {
	habit, err := s.ownedHabit(ctx, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, habit, input)
}

// Complete is the "mark done" flow: the eligibility evaluator must pass
// before the outcome is recorded as completed.
func (s *ProgressService) Complete(ctx context.Context, habitID, userID, notes string) (*domain.ProgressRecord, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if err := habit.CanComplete(s.now()); err != nil {
		return nil, err
	}

	return s.apply(ctx, habit, RecordProgressInput{
		HabitID:   habitID,
		UserID:    userID,
		Completed: true,
		Notes:     notes,
	})
}

func (s *ProgressService) apply(ctx context.Context, habit *domain.Habit, input RecordProgressInput) (*domain.ProgressRecord, error) {
	now := s.now()

	record, err := domain.NewProgressRecord(habit.ID, habit.UserID, input.Completed, input.Percentage, input.Notes, now)
	if err != nil {
		return nil, err
	}

	existing, err := s.records.GetByHabitAndDay(ctx, habit.ID, record.Day)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateRecord
	}

	updated, err := domain.ApplyOutcome(*habit, input.Completed, now)
	if err != nil {
		return nil, err
	}

	// The insert lands before the habit update: a concurrent writer loses on
	// the (habit_id, day) constraint and the streak never double-counts.
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.habits.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Enqueue(habit.ID)
	}

	return record, nil
}

func (s *ProgressService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	// A foreign habit looks like a missing one; ownership is not leaked.
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}
