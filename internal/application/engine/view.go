package engine

import (
	"fmt"
	"planner/internal/application/entity"
	"strings"
	"time"
)

type View string

const (
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth, "":
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("unknown view %q, expected week or month", s)
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart - ближайшее воскресенье не позже anchor.
func weekStart(anchor time.Time) time.Time {
	d := dayOf(anchor)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// InWeek: date попадает в неделю воскресенье-суббота, содержащую anchor.
func InWeek(date, anchor time.Time) bool {
	start := weekStart(anchor)
	d := dayOf(date)
	return !d.Before(start) && d.Before(start.AddDate(0, 0, 7))
}

func InMonth(date, anchor time.Time) bool {
	return date.Year() == anchor.Year() && date.Month() == anchor.Month()
}

func MatchesSearch(e entity.Event, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(e.Location), term)
}

func inView(date, anchor time.Time, view View) bool {
	if view == ViewWeek {
		return InWeek(date, anchor)
	}
	return InMonth(date, anchor)
}

// FilterEvents оставляет события, подходящие под поиск и окно вида, сохраняя порядок входа.
// События с нераспознанной датой не видны ни в одном виде.
func FilterEvents(events []entity.Event, term string, anchor time.Time, view View) []entity.Event {
	out := make([]entity.Event, 0, len(events))
	for _, e := range events {
		if !MatchesSearch(e, term) {
			continue
		}
		date, ok := ParseDate(e.Date)
		if !ok || !inView(date, anchor, view) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Window - первый и последний день вида, включительно.
func Window(anchor time.Time, view View) (from, to time.Time) {
	if view == ViewWeek {
		from = weekStart(anchor)
		return from, from.AddDate(0, 0, 6)
	}
	from = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

func WeekDates(anchor time.Time) []time.Time {
	start := weekStart(anchor)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthWeeks - сетка месяца по неделям; дни вне месяца равны нулевому времени.
func MonthWeeks(anchor time.Time) [][]time.Time {
	first, last := Window(anchor, ViewMonth)

	weeks := make([][]time.Time, 0, 6)
	week := make([]time.Time, 7)
	col := int(first.Weekday())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
