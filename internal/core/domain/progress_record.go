package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound    = errors.New("progress record not found")
	ErrDuplicateRecord   = errors.New("progress already recorded for this habit today")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
)

// ProgressRecord is the immutable per-day outcome of a habit. At most one
// record exists per (habit, calendar day); the store enforces that with a
// unique constraint and reports violations as ErrDuplicateRecord.
type ProgressRecord struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	// Day is the UTC calendar day the record represents, never a raw
	// timestamp.
	Day        time.Time `json:"day" db:"day"`
	Completed  bool      `json:"completed" db:"completed"`
	Percentage *float64  `json:"percentage,omitempty" db:"percentage"`
	Notes      string    `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewProgressRecord(habitID, userID string, completed bool, percentage *float64, notes string, now time.Time) (*ProgressRecord, error) {
	if strings.TrimSpace(habitID) == "" {
		return nil, ErrHabitNotFound
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}
	if percentage != nil && (*percentage < 0 || *percentage > 100) {
		return nil, ErrInvalidPercentage
	}

	return &ProgressRecord{
		ID:         uuid.NewString(),
		HabitID:    habitID,
		UserID:     userID,
		Day:        CalendarDay(now),
		Completed:  completed,
		Percentage: percentage,
		Notes:      strings.TrimSpace(notes),
		CreatedAt:  now.UTC(),
	}, nil
}
