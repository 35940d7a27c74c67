package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

// In-memory implementations of the storage interfaces, mirroring the postgres
// behavior closely enough for handler and service tests: same sentinel
// errors, same per-(habit, day) uniqueness, defensive copies on every read.

type MemoryHabitRepository struct {
	mu     sync.RWMutex
	habits map[string]*domain.Habit
}

func NewMemoryHabitRepository() *MemoryHabitRepository {
	return &MemoryHabitRepository{
		habits: make(map[string]*domain.Habit),
	}
}

func cloneHabit(h *domain.Habit) *domain.Habit {
	clone := *h
	clone.ScheduledDays = append([]string(nil), h.ScheduledDays...)
	return &clone
}

func (m *MemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (m *MemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(h), nil
}

func (m *MemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []*domain.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			list = append(list, cloneHabit(h))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *MemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	m.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (m *MemoryHabitRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(m.habits, id)
	return nil
}

type MemoryProgressRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.ProgressRecord
	// byHabitDay guards daily uniqueness the way the postgres unique
	// constraint does, keyed habitID + "|" + day.
	byHabitDay map[string]string
}

func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{
		records:    make(map[string]*domain.ProgressRecord),
		byHabitDay: make(map[string]string),
	}
}

func dayIndexKey(habitID string, day time.Time) string {
	return habitID + "|" + domain.DayKey(day)
}

func cloneRecord(r *domain.ProgressRecord) *domain.ProgressRecord {
	clone := *r
	if r.Percentage != nil {
		p := *r.Percentage
		clone.Percentage = &p
	}
	return &clone
}

func (m *MemoryProgressRepository) Create(ctx context.Context, record *domain.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := dayIndexKey(record.HabitID, record.Day)
	if _, exists := m.byHabitDay[key]; exists {
		return domain.ErrDuplicateRecord
	}

	m.byHabitDay[key] = record.ID
	m.records[record.ID] = cloneRecord(record)
	return nil
}

func (m *MemoryProgressRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byHabitDay[dayIndexKey(habitID, day)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneRecord(m.records[id]), nil
}

func (m *MemoryProgressRepository) ListByHabitID(ctx context.Context, habitID string, limit int) ([]*domain.ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*domain.ProgressRecord
	for _, r := range m.records {
		if r.HabitID == habitID {
			list = append(list, cloneRecord(r))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Day.After(list[j].Day)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryProgressRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	floor := domain.CalendarDay(since)
	var list []*domain.ProgressRecord
	for _, r := range m.records {
		if r.UserID == userID && !r.Day.Before(floor) {
			list = append(list, cloneRecord(r))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Day.Before(list[j].Day)
	})
	return list, nil
}

type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}

	clone := *user
	m.users[user.ID] = &clone
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *m.users[id]
	return &clone, nil
}
