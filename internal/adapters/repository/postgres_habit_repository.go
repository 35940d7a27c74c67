package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rutina-app/rutina-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

const habitColumns = `
	id, user_id, title, description, comments,
	scheduled_days, target_time, duration_minutes,
	state, last_completed_at, streak, best_streak,
	goal_kind, goal_value, created_at, updated_at`

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var daysJSON []byte

	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Comments,
		&daysJSON, &h.TargetTime, &h.DurationMinutes,
		&h.State, &h.LastCompletedAt, &h.Streak, &h.BestStreak,
		&h.Goal.Kind, &h.Goal.Value, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(daysJSON) > 0 {
		if err := json.Unmarshal(daysJSON, &h.ScheduledDays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scheduled days: %w", err)
		}
	}

	return &h, nil
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	daysJSON, err := json.Marshal(h.ScheduledDays)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled days: %w", err)
	}

	query := `
        INSERT INTO habits (
            id, user_id, title, description, comments,
            scheduled_days, target_time, duration_minutes,
            state, last_completed_at, streak, best_streak,
            goal_kind, goal_value, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8,
            $9, $10, $11, $12,
            $13, $14, $15, $16
        )`

	_, err = r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Description, h.Comments,
		daysJSON, h.TargetTime, h.DurationMinutes,
		h.State, h.LastCompletedAt, h.Streak, h.BestStreak,
		h.Goal.Kind, h.Goal.Value, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	h, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	daysJSON, err := json.Marshal(h.ScheduledDays)
	if err != nil {
		return err
	}

	query := `
        UPDATE habits SET
            title=$1, description=$2, comments=$3,
            scheduled_days=$4, target_time=$5, duration_minutes=$6,
            state=$7, last_completed_at=$8, streak=$9, best_streak=$10,
            goal_kind=$11, goal_value=$12, updated_at=$13
        WHERE id=$14`

	res, err := r.db.ExecContext(ctx, query,
		h.Title, h.Description, h.Comments,
		daysJSON, h.TargetTime, h.DurationMinutes,
		h.State, h.LastCompletedAt, h.Streak, h.BestStreak,
		h.Goal.Kind, h.Goal.Value, h.UpdatedAt,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}
