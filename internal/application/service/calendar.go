package service

import (
	"context"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"time"
)

// Calendar собирает сетку вида: события из ListView раскладываются по дням,
// праздники берутся за каждый месяц, попавший в сетку.
func (s *ServiceImpl) Calendar(ctx context.Context, anchor time.Time, view engine.View, term string) (*entity.CalendarView, error) {
	events, err := s.ListView(ctx, anchor, view, term)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]entity.Event, len(events))
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	grid := engine.MonthWeeks(anchor)
	if view == engine.ViewWeek {
		grid = [][]time.Time{engine.WeekDates(anchor)}
	}
	holidays := s.gridHolidays(ctx, grid)

	out := &entity.CalendarView{
		View:  string(view),
		Date:  engine.FormatDate(anchor),
		Weeks: make([][]*entity.CalendarDay, 0, len(grid)),
	}
	for _, week := range grid {
		row := make([]*entity.CalendarDay, len(week))
		for i, d := range week {
			if d.IsZero() {
				continue
			}
			date := engine.FormatDate(d)
			dayEvents := byDate[date]
			if dayEvents == nil {
				dayEvents = []entity.Event{}
			}
			row[i] = &entity.CalendarDay{
				Date:    date,
				Day:     d.Day(),
				Holiday: holidays[date],
				Events:  dayEvents,
			}
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out, nil
}

// gridHolidays - праздники всех месяцев сетки; неделя на стыке месяцев требует двух запросов.
func (s *ServiceImpl) gridHolidays(ctx context.Context, grid [][]time.Time) map[string]string {
	out := make(map[string]string)
	seen := make(map[time.Month]bool, 2)
	for _, week := range grid {
		for _, d := range week {
			if d.IsZero() || seen[d.Month()] {
				continue
			}
			seen[d.Month()] = true
			for date, name := range s.holidays.Month(ctx, d) {
				out[date] = name
			}
		}
	}
	return out
}
