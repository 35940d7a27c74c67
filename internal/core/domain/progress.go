package domain

import (
	"math"
	"time"
)

// SummaryWindowDays is the rolling window used for the per-user achievements
// summary.
const SummaryWindowDays = 30

// HabitProgress are the derived per-habit statistics. Streak and BestStreak
// pass through the incrementally maintained habit counters instead of being
// recomputed from the record history on every read.
type HabitProgress struct {
	TotalDays      int `json:"total_days"`
	CompletedCount int `json:"completed_count"`
	Percentage     int `json:"percentage"`
	Streak         int `json:"streak"`
	BestStreak     int `json:"best_streak"`
}

// DailyCount is one chart bucket: a calendar day and how many completed
// records fell on it.
type DailyCount struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// UserSummary aggregates a user's last 30 days for the achievements view.
type UserSummary struct {
	TotalHabits         int `json:"total_habits"`
	HabitsCompleted     int `json:"habits_completed"`
	MaxDailyCompletions int `json:"max_daily_completions"`
	MaxStreak           int `json:"max_streak"`
	DaysWithProgress    int `json:"days_with_progress"`
}

// ComputeProgress derives a habit's statistics from its record history.
// TotalDays counts whole days since creation, inclusive of the creation day.
// Percentage is measured against the goal value and pinned to 0 when the goal
// is unset, so a zero denominator can never leak NaN to a caller.
func ComputeProgress(h *Habit, records []*ProgressRecord, now time.Time) HabitProgress {
	completed := 0
	for _, r := range records {
		if r.Completed {
			completed++
		}
	}

	totalDays := int(math.Floor(now.UTC().Sub(h.CreatedAt.UTC()).Hours()/24)) + 1
	if totalDays < 1 {
		totalDays = 1
	}

	percentage := 0
	if h.Goal.Value > 0 {
		percentage = int(math.Round(float64(completed) / float64(h.Goal.Value) * 100))
	}

	return HabitProgress{
		TotalDays:      totalDays,
		CompletedCount: completed,
		Percentage:     percentage,
		Streak:         h.Streak,
		BestStreak:     h.BestStreak,
	}
}

// DailyCompletionCounts buckets completed records into exactly numDays
// consecutive calendar days ending on the day of now, oldest first. Days with
// no completed records appear as zero entries so chart series stay dense.
func DailyCompletionCounts(records []*ProgressRecord, numDays int, now time.Time) []DailyCount {
	if numDays <= 0 {
		return []DailyCount{}
	}

	perDay := make(map[string]int)
	for _, r := range records {
		if r.Completed {
			perDay[DayKey(r.Day)]++
		}
	}

	today := CalendarDay(now)
	counts := make([]DailyCount, 0, numDays)
	for i := numDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		counts = append(counts, DailyCount{Day: key, Completed: perDay[key]})
	}

	return counts
}

// BuildUserSummary condenses a user's habits and their recent records into
// the 30-day achievements summary. Records older than the window are ignored;
// an empty habit set yields an all-zero summary, never negative maxima.
func BuildUserSummary(habits []*Habit, records []*ProgressRecord, now time.Time) UserSummary {
	summary := UserSummary{TotalHabits: len(habits)}

	for _, h := range habits {
		if h.State == StateCompleted {
			summary.HabitsCompleted++
		}
		if h.BestStreak > summary.MaxStreak {
			summary.MaxStreak = h.BestStreak
		}
	}

	cutoff := CalendarDay(now).AddDate(0, 0, -SummaryWindowDays)
	perDay := make(map[string]int)
	for _, r := range records {
		if !r.Completed || CalendarDay(r.Day).Before(cutoff) {
			continue
		}
		perDay[DayKey(r.Day)]++
	}

	for _, count := range perDay {
		if count > summary.MaxDailyCompletions {
			summary.MaxDailyCompletions = count
		}
	}
	summary.DaysWithProgress = len(perDay)

	return summary
}
