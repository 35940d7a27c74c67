package services

import (
	"context"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

// HabitService owns the plain CRUD surface over habit definitions. The
// completion and streak logic never runs here; see ProgressService.
type HabitService struct {
	repo domain.HabitRepository
	now  Clock
}

func NewHabitService(repo domain.HabitRepository, now Clock) *HabitService {
	if now == nil {
		now = UTCNow
	}
	return &HabitService{
		repo: repo,
		now:  now,
	}
}

type CreateHabitInput struct {
	UserID          string
	Title           string
	Description     string
	Comments        string
	TargetTime      string
	DurationMinutes int
	ScheduledDays   []string
	Goal            domain.Goal
}

type UpdateHabitInput struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Comments        string
	TargetTime      string
	DurationMinutes int
	ScheduledDays   []string
	Goal            domain.Goal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(
		input.UserID,
		input.Title,
		input.Description,
		input.Comments,
		input.TargetTime,
		input.DurationMinutes,
		input.ScheduledDays,
		input.Goal,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	err = habit.Update(
		input.Title,
		input.Description,
		input.Comments,
		input.TargetTime,
		input.DurationMinutes,
		input.ScheduledDays,
		input.Goal,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
