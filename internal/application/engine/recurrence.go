package engine

import (
	"errors"
	"fmt"
	"planner/internal/application/entity"
	"time"

	"github.com/teambition/rrule-go"
)

const DefaultOccurrenceLimit = 366

var ErrInvalidEventDate = errors.New("event date is not a valid YYYY-MM-DD")

func frequency(t entity.RepeatType) (rrule.Frequency, bool) {
	switch t {
	case entity.RepeatDaily:
		return rrule.DAILY, true
	case entity.RepeatWeekly:
		return rrule.WEEKLY, true
	case entity.RepeatMonthly:
		return rrule.MONTHLY, true
	case entity.RepeatYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// RepeatRule - правило RRULE без DTSTART для повторения события.
// Интервал 1 не пишется, UNTIL - последняя секунда дня endDate.
func RepeatRule(r entity.RepeatInfo) (rrule.ROption, bool) {
	freq, ok := frequency(r.Type)
	if !ok {
		return rrule.ROption{}, false
	}
	opt := rrule.ROption{Freq: freq}
	if r.Interval > 1 {
		opt.Interval = r.Interval
	}
	if end, ok := ParseDate(r.EndDate); ok {
		opt.Until = end.Add(24*time.Hour - time.Second)
	}
	return opt, true
}

// Occurrences разворачивает повторяющееся событие в конкретные экземпляры до until включительно.
// Граница - меньшая из repeat.endDate и until, плюс limit экземпляров (0 - DefaultOccurrenceLimit).
// Экземпляры получают ID "<id>@<date>"; событие без повторения возвращается как есть.
func Occurrences(e entity.Event, until time.Time, limit int) ([]entity.Event, error) {
	start, ok := ParseDate(e.Date)
	if !ok {
		return nil, ErrInvalidEventDate
	}
	if limit <= 0 {
		limit = DefaultOccurrenceLimit
	}

	bound := dayOf(until)
	if e.Repeat.EndDate != "" {
		end, ok := ParseDate(e.Repeat.EndDate)
		if !ok {
			return nil, fmt.Errorf("repeat end date %q: %w", e.Repeat.EndDate, ErrInvalidEventDate)
		}
		if end.Before(bound) {
			bound = end
		}
	}

	freq, repeating := frequency(e.Repeat.Type)
	if !repeating {
		if start.After(bound) {
			return []entity.Event{}, nil
		}
		return []entity.Event{e}, nil
	}

	interval := e.Repeat.Interval
	if interval < 1 {
		interval = 1
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  start,
		Until:    bound,
	})
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	out := make([]entity.Event, 0)
	next := rule.Iterator()
	for len(out) < limit {
		day, ok := next()
		if !ok {
			break
		}
		occ := e
		occ.Date = FormatDate(day)
		occ.ID = fmt.Sprintf("%s@%s", e.ID, occ.Date)
		out = append(out, occ)
	}

	return out, nil
}
