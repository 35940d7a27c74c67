package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrNoScheduledDays    = errors.New("habit must be scheduled on at least one weekday")
	ErrInvalidWeekday     = errors.New("invalid weekday name")
	ErrInvalidTargetTime  = errors.New("invalid target time format (must be HH:MM 24h)")
	ErrInvalidDuration    = errors.New("duration cannot be negative")
	ErrInvalidGoal        = errors.New("goal value must be positive")
	ErrInvalidGoalKind    = errors.New("invalid goal kind (must be count, minutes, or days)")
)

var targetTimeRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	StatePending   = "pending"
	StateActive    = "active"
	StateCompleted = "completed"
	StateFailed    = "failed"

	GoalKindCount   = "count"
	GoalKindMinutes = "minutes"
	GoalKindDays    = "days"

	MaxTitleLen = 100
	MaxDescLen  = 500
)

// weekdayIndex maps canonical lowercase weekday names to their time.Weekday.
// Input matching is case-insensitive; anything outside this set is rejected
// rather than silently skipped.
var weekdayIndex = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Goal is the denominator for percentage progress: complete Value times,
// Value minutes or Value days depending on Kind.
type Goal struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
}

type Habit struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Comments    string `json:"comments,omitempty"`

	// ScheduledDays holds canonical lowercase weekday names, never empty.
	ScheduledDays []string `json:"scheduled_days"`
	// TargetTime is an optional "HH:MM". When set, the habit becomes
	// completable only once the slot starting at TargetTime and lasting
	// DurationMinutes has fully elapsed.
	TargetTime      *string `json:"target_time,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`

	// State is a display projection of the last recorded outcome. It is
	// written only by ApplyOutcome and never consulted alone for eligibility.
	State           string     `json:"state"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	Streak          int        `json:"streak"`
	BestStreak      int        `json:"best_streak"`

	Goal      Goal      `json:"goal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeWeekdays lowercases, trims, de-duplicates and orders weekday names
// Sunday-first. It fails on an empty set or any unrecognized name.
func NormalizeWeekdays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, ErrNoScheduledDays
	}

	seen := make(map[string]bool, len(days))
	var normalized []string
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		if _, ok := weekdayIndex[name]; !ok {
			return nil, ErrInvalidWeekday
		}
		if !seen[name] {
			seen[name] = true
			normalized = append(normalized, name)
		}
	}

	sort.Slice(normalized, func(i, j int) bool {
		return weekdayIndex[normalized[i]] < weekdayIndex[normalized[j]]
	})
	return normalized, nil
}

func validateHabitFields(title, description, targetTime string, duration int, goal Goal) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}
	if len(strings.TrimSpace(description)) > MaxDescLen {
		return ErrHabitDescTooLong
	}
	if targetTime != "" && !targetTimeRegex.MatchString(targetTime) {
		return ErrInvalidTargetTime
	}
	if duration < 0 {
		return ErrInvalidDuration
	}
	switch goal.Kind {
	case GoalKindCount, GoalKindMinutes, GoalKindDays:
	default:
		return ErrInvalidGoalKind
	}
	if goal.Value <= 0 {
		return ErrInvalidGoal
	}
	return nil
}

func NewHabit(userID, title, description, comments, targetTime string, duration int, days []string, goal Goal, now time.Time) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if goal.Kind == "" {
		goal.Kind = GoalKindCount
	}
	if goal.Value == 0 {
		goal.Value = 1
	}

	if err := validateHabitFields(title, description, targetTime, duration, goal); err != nil {
		return nil, err
	}

	normalizedDays, err := NormalizeWeekdays(days)
	if err != nil {
		return nil, err
	}

	var targetPtr *string
	if targetTime != "" {
		targetPtr = &targetTime
	}

	created := now.UTC()

	return &Habit{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           trimmed(title),
		Description:     trimmed(description),
		Comments:        trimmed(comments),
		ScheduledDays:   normalizedDays,
		TargetTime:      targetPtr,
		DurationMinutes: duration,
		State:           StatePending,
		Goal:            goal,
		CreatedAt:       created,
		UpdatedAt:       created,
	}, nil
}

// Update rewrites the user-editable fields. Streak bookkeeping and state are
// owned by ApplyOutcome and untouched here.
func (h *Habit) Update(title, description, comments, targetTime string, duration int, days []string, goal Goal, now time.Time) error {
	if err := validateHabitFields(title, description, targetTime, duration, goal); err != nil {
		return err
	}

	normalizedDays, err := NormalizeWeekdays(days)
	if err != nil {
		return err
	}

	var targetPtr *string
	if targetTime != "" {
		targetPtr = &targetTime
	}

	h.Title = trimmed(title)
	h.Description = trimmed(description)
	h.Comments = trimmed(comments)
	h.ScheduledDays = normalizedDays
	h.TargetTime = targetPtr
	h.DurationMinutes = duration
	h.Goal = goal
	h.UpdatedAt = now.UTC()

	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
