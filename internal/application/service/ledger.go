package service

import (
	"planner/internal/application/engine"
	"sync"
)

// ReminderLedger - множество уже отправленных или подтвержденных напоминаний.
// Живет только в памяти процесса: после рестарта напоминания в окне могут прийти повторно.
type ReminderLedger struct {
	mu  sync.Mutex
	ids engine.NotifiedSet
}

func NewReminderLedger() *ReminderLedger {
	return &ReminderLedger{ids: engine.NewNotifiedSet()}
}

// Snapshot - копия для чистых функций движка.
func (l *ReminderLedger) Snapshot() engine.NotifiedSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ids.Clone()
}

func (l *ReminderLedger) Add(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids.Add(ids...)
}

func (l *ReminderLedger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ids.Has(id)
}

func (l *ReminderLedger) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.ids, id)
}

// Retain удаляет все id, которых нет в keep, и возвращает удаленные.
func (l *ReminderLedger) Retain(keep engine.NotifiedSet) engine.NotifiedSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := engine.NewNotifiedSet()
	for id := range l.ids {
		if !keep.Has(id) {
			delete(l.ids, id)
			removed.Add(id)
		}
	}
	return removed
}

func (l *ReminderLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}
