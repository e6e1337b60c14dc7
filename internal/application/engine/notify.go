package engine

import (
	"fmt"
	"planner/internal/application/entity"
	"sort"
	"time"
)

// NotifiedSet - идентификаторы событий, о которых уже напомнили. Владеет множеством вызывающий код.
type NotifiedSet map[string]struct{}

func NewNotifiedSet(ids ...string) NotifiedSet {
	s := make(NotifiedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s NotifiedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s NotifiedSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s NotifiedSet) Clone() NotifiedSet {
	c := make(NotifiedSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// IDs в отсортированном виде.
func (s NotifiedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsDue: now попадает в [start - notificationTime, start). После начала события напоминание не нужно.
func IsDue(e entity.Event, now time.Time) bool {
	start := ParseInstant(e.Date, e.StartTime)
	if start.IsInvalid() {
		return false
	}
	at := FromTime(now)
	threshold := start.Add(-time.Duration(e.NotificationTime) * time.Minute)
	return !at.Before(threshold) && at.Before(start)
}

// Upcoming не меняет notified: повторный вызов с теми же аргументами дает тот же результат.
func Upcoming(events []entity.Event, now time.Time, notified NotifiedSet) []entity.Event {
	out := make([]entity.Event, 0)
	for _, e := range events {
		if notified.Has(e.ID) {
			continue
		}
		if IsDue(e, now) {
			out = append(out, e)
		}
	}
	return out
}

func RenderMessage(e entity.Event) string {
	return fmt.Sprintf("%d분 후 %s 일정이 시작됩니다.", e.NotificationTime, e.Title)
}

func Notify(events []entity.Event, now time.Time, notified NotifiedSet) []entity.Notification {
	due := Upcoming(events, now, notified)
	out := make([]entity.Notification, 0, len(due))
	for _, e := range due {
		out = append(out, entity.Notification{EventID: e.ID, Message: RenderMessage(e)})
	}
	return out
}
