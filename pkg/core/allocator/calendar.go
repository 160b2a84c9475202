package allocator

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Calendar maps a cohort number (0, 1, 2, ...) to its appointment date
type Calendar interface {
	Date(cohort int) (time.Time, error)
}

// DailyCalendar places cohort k on Start + k days
type DailyCalendar struct {
	Start time.Time
}

// NewDailyCalendar truncates start to a UTC calendar date
func NewDailyCalendar(start time.Time) DailyCalendar {
	return DailyCalendar{Start: startOfDay(start)}
}

func (c DailyCalendar) Date(cohort int) (time.Time, error) {
	if cohort < 0 {
		return time.Time{}, fmt.Errorf("cohort must not be negative, got %d", cohort)
	}
	return startOfDay(c.Start).AddDate(0, 0, cohort), nil
}

// RRuleCalendar places cohort k on the k-th occurrence of a recurrence rule on or after the start date.
// It lets operators skip days with no service, e.g. "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR".
type RRuleCalendar struct {
	rule        *rrule.RRule
	occurrences []time.Time
	last        time.Time
}

// NewRRuleCalendar parses expr and anchors it to start
func NewRRuleCalendar(expr string, start time.Time) (*RRuleCalendar, error) {
	rule, err := rrule.StrToRRule(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse appointment rrule: %w", err)
	}

	start = startOfDay(start)
	rule.DTStart(start)

	first := rule.After(start, true)
	if first.IsZero() {
		return nil, fmt.Errorf("appointment rrule %q has no occurrence on or after %s", expr, start.Format("2006-01-02"))
	}

	return &RRuleCalendar{
		rule:        rule,
		occurrences: []time.Time{startOfDay(first)},
		last:        first,
	}, nil
}

func (c *RRuleCalendar) Date(cohort int) (time.Time, error) {
	if cohort < 0 {
		return time.Time{}, fmt.Errorf("cohort must not be negative, got %d", cohort)
	}

	for len(c.occurrences) <= cohort {
		next := c.rule.After(c.last, false)
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("appointment rrule ran out of dates at cohort %d", cohort)
		}
		c.last = next

		// Several occurrences on one day still make a single appointment date
		day := startOfDay(next)
		if day.Equal(c.occurrences[len(c.occurrences)-1]) {
			continue
		}
		c.occurrences = append(c.occurrences, day)
	}

	return c.occurrences[cohort], nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
