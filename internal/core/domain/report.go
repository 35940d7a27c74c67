package domain

// HabitReport bundles a habit with its recent records and derived statistics
// for the per-habit progress view.
type HabitReport struct {
	Habit   *Habit            `json:"habit"`
	Records []*ProgressRecord `json:"records"`
	Stats   HabitProgress     `json:"stats"`
}

// HabitOverviewItem is one habit's line in the per-user overview.
type HabitOverviewItem struct {
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	HabitProgress
}

// UserOverview is the per-user progress report: one line per habit plus a
// dense daily chart series, oldest day first.
type UserOverview struct {
	Habits []HabitOverviewItem `json:"habits"`
	Chart  []DailyCount        `json:"chart"`
}
