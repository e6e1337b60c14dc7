package service

import (
	"context"
	"encoding/json"
	"fmt"
	"planner/internal/appers"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"time"
)

// wallClock - настенное время now в поясе напоминаний; движок работает без поясов.
func (s *ServiceImpl) wallClock(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
}

// Now - текущее настенное время в поясе напоминаний, то же, что видит планировщик.
func (s *ServiceImpl) Now() time.Time {
	return s.wallClock(s.now())
}

// reminderWindow - события с сегодняшнего дня на LookaheadDays вперед.
func (s *ServiceImpl) reminderWindow(ctx context.Context, wall time.Time) ([]entity.Event, error) {
	from := time.Date(wall.Year(), wall.Month(), wall.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, s.reminder.LookaheadDays)
	return s.repo.ListEvents(ctx, engine.FormatDate(from), engine.FormatDate(to))
}

// DispatchReminders - один проход планировщика. Наступившие напоминания кладутся в outbox
// одной транзакцией и только после этого попадают в ledger, поэтому сбой записи
// приводит к повтору на следующем проходе, а не к потере напоминания.
func (s *ServiceImpl) DispatchReminders(ctx context.Context, now time.Time) ([]entity.Notification, error) {
	started := time.Now()
	wall := s.wallClock(now)
	s.logger.Debugf("[now: %s] DispatchReminders started", engine.FromTime(wall))

	events, err := s.reminderWindow(ctx, wall)
	if err != nil {
		s.observeScan("error", started)
		return nil, err
	}

	due := engine.Upcoming(events, wall, s.ledger.Snapshot())
	notes := make([]entity.Notification, 0, len(due))
	records := make([]entity.OutboxEvent, 0, len(due))
	firedAt := engine.FromTime(wall).String()
	for _, e := range due {
		msg := engine.RenderMessage(e)
		payload, err := json.Marshal(entity.ReminderPayload{
			EventID:   e.ID,
			Title:     e.Title,
			Message:   msg,
			Date:      e.Date,
			StartTime: e.StartTime,
			FiredAt:   firedAt,
		})
		if err != nil {
			s.observeScan("error", started)
			return nil, fmt.Errorf("failed to marshal reminder: %w", err)
		}
		records = append(records, entity.OutboxEvent{
			AggregateID:   e.ID,
			AggregateType: entity.AggregateReminder,
			EventType:     entity.ReminderDue,
			Payload:       payload,
			Status:        entity.OutboxNew,
		})
		notes = append(notes, entity.Notification{EventID: e.ID, Message: msg})
	}

	if err := s.transactions.EnqueueReminders(ctx, records); err != nil {
		s.logger.Errorf("enqueue %d reminders failed: %v", len(records), err)
		s.observeScan("error", started)
		return nil, err
	}
	for _, n := range notes {
		s.ledger.Add(n.EventID)
		s.logger.Infof("[event: %s] reminder enqueued: %s", n.EventID, n.Message)
	}

	if pruned := s.ledger.Retain(pendingIDs(events, wall)); len(pruned) > 0 {
		s.logger.Debugf("pruned reminder ids of started or removed events: %v", pruned.IDs())
	}

	if s.m != nil {
		s.m.Reminders.DueTotal.Add(float64(len(notes)))
	}
	s.observeScan("ok", started)
	return notes, nil
}

// pendingIDs - события, которые еще не начались. Остальные id ledger больше не нужны.
func pendingIDs(events []entity.Event, wall time.Time) engine.NotifiedSet {
	at := engine.FromTime(wall)
	keep := engine.NewNotifiedSet()
	for _, e := range events {
		start := engine.ParseInstant(e.Date, e.StartTime)
		if !start.IsInvalid() && at.Before(start) {
			keep.Add(e.ID)
		}
	}
	return keep
}

func (s *ServiceImpl) observeScan(result string, started time.Time) {
	if s.m == nil {
		return
	}
	s.m.Reminders.ScansTotal.WithLabelValues(result).Inc()
	s.m.Reminders.ScanDurationSec.Observe(time.Since(started).Seconds())
	s.m.Reminders.LedgerSize.Set(float64(s.ledger.Len()))
}

// Acknowledge помечает напоминание события доставленным; повторное подтверждение ничего не меняет.
func (s *ServiceImpl) Acknowledge(ctx context.Context, eventID, source string) error {
	if eventID == "" {
		return appers.ErrEventIDRequired
	}
	s.ledger.Add(eventID)
	s.logger.Infof("[event: %s] reminder acknowledged via %s", eventID, source)
	if s.m != nil {
		s.m.Reminders.AckTotal.WithLabelValues(source).Inc()
		s.m.Reminders.LedgerSize.Set(float64(s.ledger.Len()))
	}
	return nil
}

// PreviewNotifications не трогает ledger: множество notified принадлежит клиенту.
func (s *ServiceImpl) PreviewNotifications(ctx context.Context, now time.Time, notified []string) ([]entity.Notification, error) {
	events, err := s.reminderWindow(ctx, now)
	if err != nil {
		return nil, err
	}
	return engine.Notify(events, now, engine.NewNotifiedSet(notified...)), nil
}
