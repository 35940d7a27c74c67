package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

// PostgresProgressRepository persists daily progress records. The table
// carries UNIQUE (habit_id, day); that constraint is the serialization point
// for concurrent completions of the same habit on the same day.
type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

func (r *PostgresProgressRepository) Create(ctx context.Context, record *domain.ProgressRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO progress_records (
			id, habit_id, user_id,
			day, completed, percentage, notes,
			created_at
		) VALUES (
			:id, :habit_id, :user_id,
			:day, :completed, :percentage, :notes,
			:created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23505" {
				return domain.ErrDuplicateRecord
			}
			if pqErr.Code == "23503" {
				return domain.ErrHabitNotFound
			}
		}
		return err
	}
	return nil
}

func (r *PostgresProgressRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	query := `SELECT * FROM progress_records WHERE habit_id = $1 AND day = $2`

	err := r.db.GetContext(ctx, &record, query, habitID, domain.CalendarDay(day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresProgressRepository) ListByHabitID(ctx context.Context, habitID string, limit int) ([]*domain.ProgressRecord, error) {
	records := []*domain.ProgressRecord{}

	query := `
		SELECT * FROM progress_records
		WHERE habit_id = $1
		ORDER BY day DESC`

	if limit > 0 {
		query += ` LIMIT $2`
		if err := r.db.SelectContext(ctx, &records, query, habitID, limit); err != nil {
			return nil, err
		}
		return records, nil
	}

	if err := r.db.SelectContext(ctx, &records, query, habitID); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresProgressRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.ProgressRecord, error) {
	records := []*domain.ProgressRecord{}

	query := `
		SELECT * FROM progress_records
		WHERE user_id = $1
		  AND day >= $2
		ORDER BY day ASC`

	err := r.db.SelectContext(ctx, &records, query, userID, domain.CalendarDay(since))
	if err != nil {
		return nil, err
	}
	return records, nil
}
