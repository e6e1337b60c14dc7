package service

import (
	"fmt"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	icsProductID = "-//planner//calendar//KO"
	icsLocalTime = "20060102T150405"
)

// buildICS сериализует события в VCALENDAR. Время событий плавающее (без TZID),
// как и в самом календаре. События с нераспознанным временем пропускаются.
func buildICS(events []entity.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range events {
		rng := engine.EventRange(e)
		if !rng.Valid() {
			continue
		}

		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetProperty(ical.ComponentPropertyDtStart, rng.Start.Time().Format(icsLocalTime))
		ve.SetProperty(ical.ComponentPropertyDtEnd, rng.End.Time().Format(icsLocalTime))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}
		if rule, ok := engine.RepeatRule(e.Repeat); ok {
			ve.AddRrule(rule.RRuleString())
		}
		if e.NotificationTime > 0 {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", e.NotificationTime))
			alarm.SetProperty(ical.ComponentPropertyDescription, engine.RenderMessage(e))
		}
	}

	return cal.Serialize()
}
