package domain

import (
	"context"
	"time"
)

type ProgressRecordRepository interface {
	// Create persists a new record. Implementations must enforce the
	// one-record-per-(habit, day) invariant and report a violation as
	// ErrDuplicateRecord, even under concurrent writers.
	Create(ctx context.Context, record *ProgressRecord) error

	// GetByHabitAndDay retrieves the record for one habit on one calendar
	// day, or ErrRecordNotFound.
	GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*ProgressRecord, error)

	// ListByHabitID retrieves records for a habit, newest first. A limit of
	// zero means no limit.
	ListByHabitID(ctx context.Context, habitID string, limit int) ([]*ProgressRecord, error)

	// ListByUserSince retrieves all of a user's records on or after the
	// given calendar day, across habits. Used by the aggregation reads.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*ProgressRecord, error)
}
