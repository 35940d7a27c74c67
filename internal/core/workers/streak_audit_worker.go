package workers

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/rutina-app/rutina-engine/internal/core/domain"
)

type HabitGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
}

type RecordLister interface {
	ListByHabitID(ctx context.Context, habitID string, limit int) ([]*domain.ProgressRecord, error)
}

type AuditJob struct {
	HabitID string
}

// StreakAuditWorker re-derives streak figures from the record history in the
// background and reports divergence from the incrementally maintained
// counters. It never corrects anything: the counters stay authoritative and a
// violation is surfaced as a loud log line pointing at a bug upstream.
type StreakAuditWorker struct {
	habitRepo  HabitGetter
	recordRepo RecordLister
	jobs       chan AuditJob
}

func NewStreakAuditWorker(habits HabitGetter, records RecordLister) *StreakAuditWorker {
	return &StreakAuditWorker{
		habitRepo:  habits,
		recordRepo: records,
		jobs:       make(chan AuditJob, 100),
	}
}

func (w *StreakAuditWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak audit worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak audit worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakAuditWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- AuditJob{HabitID: habitID}:
	default:
		log.Printf("Streak audit queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakAuditWorker) processJob(ctx context.Context, job AuditJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Audit error fetching habit %s: %v", job.HabitID, err)
		return
	}

	records, err := w.recordRepo.ListByHabitID(ctx, job.HabitID, 0)
	if err != nil {
		log.Printf("Audit error fetching records for %s: %v", job.HabitID, err)
		return
	}

	for _, violation := range AuditStreaks(habit, records) {
		log.Printf("CONSISTENCY: %v", violation)
	}
}

// AuditStreaks checks a habit's counters against its record history and
// returns every violation found. An empty result means the invariants hold.
func AuditStreaks(habit *domain.Habit, records []*domain.ProgressRecord) []*domain.ConsistencyError {
	var violations []*domain.ConsistencyError

	report := func(format string, args ...interface{}) {
		violations = append(violations, &domain.ConsistencyError{
			HabitID: habit.ID,
			Detail:  fmt.Sprintf(format, args...),
		})
	}

	if habit.BestStreak < habit.Streak {
		report("best streak %d below current streak %d", habit.BestStreak, habit.Streak)
	}

	current, longest := streaksFromRecords(records)

	if habit.Streak != current {
		report("current streak %d does not match record history (%d)", habit.Streak, current)
	}
	if habit.BestStreak < longest {
		report("best streak %d below longest run in record history (%d)", habit.BestStreak, longest)
	}

	return violations
}

// streaksFromRecords replays the outcome history in day order: a completed
// day extends the run, a failed day resets it. The trailing run is the
// expected current streak, the longest run the expected best-streak floor.
func streaksFromRecords(records []*domain.ProgressRecord) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}

	sorted := make([]*domain.ProgressRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})

	current := 0
	longest := 0
	for _, r := range sorted {
		if r.Completed {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}

	return current, longest
}
