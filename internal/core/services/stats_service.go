package services

import (
	"context"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

// DefaultChartDays is the overview chart window when the caller asks for
// nothing specific.
const DefaultChartDays = 7

const recentRecordsLimit = 30

// StatsService is the aggregation read side. It only composes repository
// reads with the pure functions in the domain package, so a record appearing
// mid-computation is harmless.
type StatsService struct {
	habits  domain.HabitRepository
	records domain.ProgressRecordRepository
	now     Clock
}

func NewStatsService(habits domain.HabitRepository, records domain.ProgressRecordRepository, now Clock) *StatsService {
	if now == nil {
		now = UTCNow
	}
	return &StatsService{
		habits:  habits,
		records: records,
		now:     now,
	}
}

// HabitReport returns one habit with its latest records and derived
// statistics.
func (s *StatsService) HabitReport(ctx context.Context, habitID, userID string) (*domain.HabitReport, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.records.ListByHabitID(ctx, habitID, recentRecordsLimit)
	if err != nil {
		return nil, err
	}

	all, err := s.records.ListByHabitID(ctx, habitID, 0)
	if err != nil {
		return nil, err
	}

	return &domain.HabitReport{
		Habit:   habit,
		Records: recent,
		Stats:   domain.ComputeProgress(habit, all, s.now()),
	}, nil
}

// UserOverview builds the per-user report: derived statistics per habit plus
// a zero-filled daily completion series covering numDays days ending today.
func (s *StatsService) UserOverview(ctx context.Context, userID string, numDays int) (*domain.UserOverview, error) {
	if numDays <= 0 {
		numDays = DefaultChartDays
	}

	now := s.now()

	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HabitOverviewItem, 0, len(habits))
	for _, h := range habits {
		records, err := s.records.ListByHabitID(ctx, h.ID, 0)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.HabitOverviewItem{
			HabitID:       h.ID,
			Title:         h.Title,
			HabitProgress: domain.ComputeProgress(h, records, now),
		})
	}

	since := domain.CalendarDay(now).AddDate(0, 0, -(numDays - 1))
	userRecords, err := s.records.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	return &domain.UserOverview{
		Habits: items,
		Chart:  domain.DailyCompletionCounts(userRecords, numDays, now),
	}, nil
}

// Summary condenses the user's last 30 days into the achievements totals.
func (s *StatsService) Summary(ctx context.Context, userID string) (domain.UserSummary, error) {
	now := s.now()

	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, err
	}

	since := domain.CalendarDay(now).AddDate(0, 0, -domain.SummaryWindowDays)
	records, err := s.records.ListByUserSince(ctx, userID, since)
	if err != nil {
		return domain.UserSummary{}, err
	}

	return domain.BuildUserSummary(habits, records, now), nil
}

func (s *StatsService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}
