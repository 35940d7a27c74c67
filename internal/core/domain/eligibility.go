package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stable reason codes carried by IneligibleError so callers can render a
// specific message without parsing free text.
const (
	ReasonNotScheduledToday     = "not scheduled today"
	ReasonAlreadyCompletedToday = "already completed today"
	ReasonWindowNotClosed       = "window not yet closed"
)

// IneligibleError reports why a habit cannot be marked complete right now.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("habit is not eligible for completion: %s", e.Reason)
}

// CalendarDay truncates an instant to its UTC calendar day. All day-boundary
// decisions in the engine (eligibility, duplicate detection, aggregation) go
// through this single normalization so two clocks a minute apart across
// midnight never land in the same bucket.
func CalendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats a calendar day as the canonical "YYYY-MM-DD" grouping key.
func DayKey(t time.Time) string {
	return CalendarDay(t).Format("2006-01-02")
}

func sameCalendarDay(a, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

// IsScheduledOn reports whether the habit runs on the weekday of t.
func (h *Habit) IsScheduledOn(t time.Time) bool {
	today := t.UTC().Weekday()
	for _, name := range h.ScheduledDays {
		if weekdayIndex[name] == today {
			return true
		}
	}
	return false
}

// completionWindowEnd returns the instant at which the habit's timed slot on
// the day of now has fully elapsed: TargetTime plus DurationMinutes. The ok
// result is false when the habit has no target time or it fails to parse.
func (h *Habit) completionWindowEnd(now time.Time) (time.Time, bool) {
	if h.TargetTime == nil {
		return time.Time{}, false
	}

	parts := strings.SplitN(*h.TargetTime, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}

	start := CalendarDay(now).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return start.Add(time.Duration(h.DurationMinutes) * time.Minute), true
}

// CanComplete decides whether the habit may be marked complete at the given
// instant. It is pure: no clock reads, no side effects. A nil result means
// eligible; otherwise the returned *IneligibleError carries the reason.
//
// The rules, in order:
//  1. the weekday of now must be in the schedule;
//  2. a habit already completed on the same calendar day stays blocked until
//     the next day, even if its stored state was never reset;
//  3. without a target time any remaining moment of a scheduled day counts;
//  4. with a target time the habit is eligible only once the slot has fully
//     elapsed, and stays eligible for the rest of the day.
func (h *Habit) CanComplete(now time.Time) error {
	if !h.IsScheduledOn(now) {
		return &IneligibleError{Reason: ReasonNotScheduledToday}
	}

	if h.State == StateCompleted && h.LastCompletedAt != nil && sameCalendarDay(*h.LastCompletedAt, now) {
		return &IneligibleError{Reason: ReasonAlreadyCompletedToday}
	}

	windowEnd, ok := h.completionWindowEnd(now)
	if !ok {
		return nil
	}

	if now.UTC().Before(windowEnd) {
		return &IneligibleError{Reason: ReasonWindowNotClosed}
	}

	return nil
}
