package entity

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxNew    OutboxStatus = "NEW"
	OutboxSent   OutboxStatus = "SENT"
	OutboxFailed OutboxStatus = "FAILED"
	OutboxGaveUp OutboxStatus = "GAVE_UP"
)

type OutboxAggregate string

const (
	AggregateEvent    OutboxAggregate = "event"
	AggregateReminder OutboxAggregate = "reminder"
)

type OutboxEventType string

const (
	EventCreated OutboxEventType = "event_created"
	EventUpdated OutboxEventType = "event_updated"
	EventDeleted OutboxEventType = "event_deleted"
	ReminderDue  OutboxEventType = "reminder_due"
)

type OutboxEvent struct {
	ID            int             `db:"id"`
	AggregateID   string          `db:"aggregate_id"`   // events.id
	AggregateType OutboxAggregate `db:"aggregate_type"` // "event" | "reminder"
	EventType     OutboxEventType `db:"event_type"`
	Payload       json.RawMessage `db:"payload"` // JSONB для Kafka
	Status        OutboxStatus    `db:"status"`  // NEW | SENT | FAILED | GAVE_UP
	Attempts      int             `db:"attempts"`
	NextAttemptAt time.Time       `db:"next_attempt_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

// OutboxMessage - конверт, который relay отправляет в Kafka.
type OutboxMessage struct {
	Type    OutboxEventType `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}
