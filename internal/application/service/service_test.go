package service

import (
	"context"
	"encoding/json"
	"errors"
	"planner/internal/appers"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"planner/pkg/config"
	"planner/pkg/metrics"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type repoStub struct {
	events   []entity.Event
	listErr  error
	gaveUp   []int
	failed   []int
	dbErr    error
	oldDays  *int
	getCalls int
}

func (r *repoStub) CreateEvent(ctx context.Context, evt *entity.Event) (bool, error) {
	return true, nil
}
func (r *repoStub) UpdateEvent(ctx context.Context, evt *entity.Event) error {
	return nil
}

func (r *repoStub) DeleteEvent(ctx context.Context, id string) error {
	return nil
}

func (r *repoStub) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	r.getCalls++
	for _, e := range r.events {
		if e.ID == id {
			evt := e
			return &evt, nil
		}
	}
	return nil, appers.ErrEventNotFound
}

func (r *repoStub) ListEvents(ctx context.Context, from, to string) ([]entity.Event, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]entity.Event, 0)
	for _, e := range r.events {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *repoStub) DeleteOldEvents(ctx context.Context, days *int) error {
	r.oldDays = days
	return nil
}
func (r *repoStub) InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error { return nil }
func (r *repoStub) ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error) {
	return nil, nil
}
func (r *repoStub) MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error {
	r.failed = append(r.failed, outboxID)
	return nil
}
func (r *repoStub) MarkGaveUp(ctx context.Context, outboxID int) error {
	r.gaveUp = append(r.gaveUp, outboxID)
	return nil
}
func (r *repoStub) HealthCheck(ctx context.Context) error { return r.dbErr }

type txStub struct {
	created   []entity.Event
	updated   []entity.Event
	deleted   []string
	payloads  [][]byte
	reminders []entity.OutboxEvent
	enqErr    error
	sent      []int
}

func (t *txStub) CreateEvent(ctx context.Context, in *entity.Event, payload []byte) error {
	t.created = append(t.created, *in)
	t.payloads = append(t.payloads, payload)
	return nil
}
func (t *txStub) UpdateEvent(ctx context.Context, in *entity.Event, payload []byte) error {
	t.updated = append(t.updated, *in)
	t.payloads = append(t.payloads, payload)
	return nil
}
func (t *txStub) DeleteEvent(ctx context.Context, id string, payload []byte) error {
	t.deleted = append(t.deleted, id)
	t.payloads = append(t.payloads, payload)
	return nil
}
func (t *txStub) EnqueueReminders(ctx context.Context, reminders []entity.OutboxEvent) error {
	if t.enqErr != nil {
		return t.enqErr
	}
	t.reminders = append(t.reminders, reminders...)
	return nil
}
func (t *txStub) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	return nil, nil
}
func (t *txStub) MarkSentAndUpdateEvent(ctx context.Context, outboxID int) error {
	t.sent = append(t.sent, outboxID)
	return nil
}

type producerStub struct {
	err      error
	keys     []string
	messages [][]byte
}

func (p *producerStub) ProduceMessage(ctx context.Context, key string, message []byte) error {
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, message)
	return p.err
}
func (p *producerStub) HealthCheck(ctx context.Context) error { return p.err }

type holidaysStub map[string]string

func (h holidaysStub) Month(ctx context.Context, month time.Time) map[string]string { return h }

func newTestService(events ...entity.Event) (*ServiceImpl, *repoStub, *txStub, *producerStub) {
	r := &repoStub{events: events}
	tx := &txStub{}
	p := &producerStub{}
	conf := &config.Config{
		Reminder: config.Reminder{LookaheadDays: 1, Timezone: "UTC"},
		Relay:    config.RelayConfig{MaxAttempts: 3},
	}
	s := NewService(r, tx, p, holidaysStub{}, zap.NewNop().Sugar(), metrics.New(prometheus.NewRegistry()), conf)
	s.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return s, r, tx, p
}

func meeting(id, date, start, end string) entity.Event {
	return entity.Event{
		ID: id, Title: "회의 " + id, Date: date, StartTime: start, EndTime: end,
		Category: entity.CategoryWork, NotificationTime: 10, Repeat: entity.RepeatInfo{Type: entity.RepeatNone},
	}
}

func draftOf(date, start, end string) entity.EventDraft {
	return entity.EventDraft{Title: "새 일정", Date: date, StartTime: start, EndTime: end, NotificationTime: 10}
}

func TestSaveEventValidation(t *testing.T) {
	s, _, tx, _ := newTestService()

	tests := []struct {
		name  string
		draft entity.EventDraft
		want  string
	}{
		{"missing title", entity.EventDraft{Date: "2024-07-01", StartTime: "10:00", EndTime: "11:00"}, engine.MsgRequiredFields},
		{"start after end", draftOf("2024-07-01", "11:00", "10:00"), engine.MsgTimeSettings},
		{"equal times", draftOf("2024-07-01", "10:00", "10:00"), engine.MsgTimeSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveEvent(context.Background(), tt.draft, false)
			var vErr *appers.ValidationError
			if !errors.As(err, &vErr) || vErr.Message != tt.want {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
	if len(tx.created) != 0 {
		t.Fatal("invalid drafts must not be stored")
	}
}

func TestSaveEventConflict(t *testing.T) {
	s, _, tx, _ := newTestService(
		meeting("a", "2024-07-01", "09:00", "10:00"),
		meeting("b", "2024-07-01", "10:00", "11:00"),
		meeting("c", "2024-07-02", "09:00", "12:00"),
	)

	_, err := s.SaveEvent(context.Background(), draftOf("2024-07-01", "09:30", "10:30"), false)
	var cErr *appers.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(cErr.Conflicts) != 2 || cErr.Conflicts[0].ID != "a" || cErr.Conflicts[1].ID != "b" {
		t.Fatalf("conflicts = %+v", cErr.Conflicts)
	}
	if len(tx.created) != 0 {
		t.Fatal("conflicting draft stored without force")
	}

	evt, err := s.SaveEvent(context.Background(), draftOf("2024-07-01", "09:30", "10:30"), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tx.created) != 1 || evt.ID == "" {
		t.Fatalf("forced save: created=%v evt=%+v", tx.created, evt)
	}
}

func TestSaveEventCreateAssignsID(t *testing.T) {
	s, _, tx, _ := newTestService(meeting("a", "2024-07-01", "09:00", "10:00"))

	// касание концов интервалов не пересечение
	evt, err := s.SaveEvent(context.Background(), draftOf("2024-07-01", "10:00", "11:00"), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(evt.ID) != 36 {
		t.Fatalf("id = %q, want uuid", evt.ID)
	}
	if evt.Repeat.Type != entity.RepeatNone {
		t.Fatalf("repeat type = %q", evt.Repeat.Type)
	}

	var stored entity.Event
	if err := json.Unmarshal(tx.payloads[0], &stored); err != nil {
		t.Fatal(err)
	}
	if stored.ID != evt.ID || stored.Title != "새 일정" {
		t.Fatalf("payload = %+v", stored)
	}
}

func TestSaveEventUpdateIgnoresItself(t *testing.T) {
	s, _, tx, _ := newTestService(meeting("a", "2024-07-01", "09:00", "10:00"))

	d := meeting("a", "2024-07-01", "09:30", "10:30").Draft()
	if _, err := s.SaveEvent(context.Background(), d, false); err != nil {
		t.Fatal(err)
	}
	if len(tx.updated) != 1 || tx.updated[0].ID != "a" || tx.updated[0].StartTime != "09:30" {
		t.Fatalf("updated = %+v", tx.updated)
	}
	if len(tx.created) != 0 {
		t.Fatal("update must not create")
	}
}

func TestSaveEventUpdateResetsReminder(t *testing.T) {
	s, _, _, _ := newTestService(meeting("a", "2024-07-01", "14:00", "15:00"))
	s.ledger.Add("a")

	renamed := meeting("a", "2024-07-01", "14:00", "15:00")
	renamed.Title = "이름만 바뀜"
	if _, err := s.SaveEvent(context.Background(), renamed.Draft(), false); err != nil {
		t.Fatal(err)
	}
	if !s.ledger.Has("a") {
		t.Fatal("title change must keep the reminder mark")
	}

	moved := meeting("a", "2024-07-01", "16:00", "17:00").Draft()
	if _, err := s.SaveEvent(context.Background(), moved, false); err != nil {
		t.Fatal(err)
	}
	if s.ledger.Has("a") {
		t.Fatal("moved event still marked as reminded")
	}

	if _, err := s.SaveEvent(context.Background(), meeting("ghost", "2024-07-01", "18:00", "19:00").Draft(), false); !errors.Is(err, appers.ErrEventNotFound) {
		t.Fatalf("update of unknown event: err = %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	s, _, tx, _ := newTestService(meeting("a", "2024-07-01", "09:00", "10:00"))
	s.ledger.Add("a")

	if err := s.DeleteEvent(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if len(tx.deleted) != 1 || s.ledger.Has("a") {
		t.Fatalf("deleted=%v ledger has a=%t", tx.deleted, s.ledger.Has("a"))
	}

	if err := s.DeleteEvent(context.Background(), "missing"); !errors.Is(err, appers.ErrEventNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListView(t *testing.T) {
	s, _, _, _ := newTestService(
		meeting("a", "2024-06-30", "09:00", "10:00"),
		meeting("b", "2024-07-06", "09:00", "10:00"),
		meeting("c", "2024-07-07", "09:00", "10:00"),
		meeting("d", "2024-07-31", "09:00", "10:00"),
	)
	anchor := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	week, err := s.ListView(context.Background(), anchor, engine.ViewWeek, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := idsOf(week); got != "a,b" {
		t.Fatalf("week = %s", got)
	}

	month, err := s.ListView(context.Background(), anchor, engine.ViewMonth, "회의 d")
	if err != nil {
		t.Fatal(err)
	}
	if got := idsOf(month); got != "d" {
		t.Fatalf("month search = %s", got)
	}
}

type monthHolidays struct {
	months []string
}

func (m *monthHolidays) Month(ctx context.Context, month time.Time) map[string]string {
	m.months = append(m.months, month.Format("2006-01"))
	return map[string]string{"2024-07-06": "테스트 휴일", "2024-06-30": "유월 말"}
}

func TestCalendar(t *testing.T) {
	s, _, _, _ := newTestService(
		meeting("a", "2024-06-30", "09:00", "10:00"),
		meeting("b", "2024-07-06", "09:00", "10:00"),
		meeting("c", "2024-07-06", "11:00", "12:00"),
		meeting("d", "2024-07-31", "09:00", "10:00"),
	)
	hol := &monthHolidays{}
	s.holidays = hol

	month, err := s.Calendar(context.Background(), time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), engine.ViewMonth, "")
	if err != nil {
		t.Fatal(err)
	}
	if month.View != "month" || len(month.Weeks) != 5 {
		t.Fatalf("month grid: view=%s weeks=%d", month.View, len(month.Weeks))
	}
	if month.Weeks[0][0] != nil || month.Weeks[0][1].Date != "2024-07-01" {
		t.Fatalf("first week = %+v", month.Weeks[0])
	}
	sat := month.Weeks[0][6]
	if sat.Date != "2024-07-06" || sat.Day != 6 || sat.Holiday != "테스트 휴일" || idsOf(sat.Events) != "b,c" {
		t.Fatalf("2024-07-06 = %+v", sat)
	}
	if empty := month.Weeks[1][0]; empty.Events == nil || len(empty.Events) != 0 {
		t.Fatalf("day without events = %+v", empty)
	}
	if last := month.Weeks[4][3]; last.Date != "2024-07-31" || idsOf(last.Events) != "d" {
		t.Fatalf("last day = %+v", last)
	}
	if len(hol.months) != 1 || hol.months[0] != "2024-07" {
		t.Fatalf("month grid holiday lookups = %v", hol.months)
	}

	hol.months = nil
	week, err := s.Calendar(context.Background(), time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), engine.ViewWeek, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(week.Weeks) != 1 || len(week.Weeks[0]) != 7 {
		t.Fatalf("week grid = %+v", week.Weeks)
	}
	sun := week.Weeks[0][0]
	if sun.Date != "2024-06-30" || sun.Holiday != "유월 말" || idsOf(sun.Events) != "a" {
		t.Fatalf("sunday = %+v", sun)
	}
	if strings.Join(hol.months, ",") != "2024-06,2024-07" {
		t.Fatalf("week across months: holiday lookups = %v", hol.months)
	}
}

func TestNowUsesReminderTimezone(t *testing.T) {
	s, _, _, _ := newTestService()
	s.loc = time.FixedZone("KST", 9*60*60)
	s.now = func() time.Time { return time.Date(2024, 6, 30, 23, 55, 0, 0, time.UTC) }

	if got := engine.FromTime(s.Now()).String(); got != "2024-07-01T08:55" {
		t.Fatalf("Now = %s", got)
	}
}

func TestOccurrences(t *testing.T) {
	weekly := meeting("w", "2024-07-01", "09:00", "10:00")
	weekly.Repeat = entity.RepeatInfo{Type: entity.RepeatWeekly, Interval: 1}
	s, _, _, _ := newTestService(weekly)

	out, err := s.Occurrences(context.Background(), "w", time.Date(2024, 7, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || out[3].Date != "2024-07-22" {
		t.Fatalf("occurrences = %+v", out)
	}
}

func TestExportICS(t *testing.T) {
	daily := meeting("a", "2024-07-01", "09:00", "10:00")
	daily.Location = "회의실"
	daily.Repeat = entity.RepeatInfo{Type: entity.RepeatDaily, Interval: 2, EndDate: "2024-07-10"}
	s, _, _, _ := newTestService(daily, meeting("bad", "2024-07-02", "9am", "10:00"))

	data, err := s.ExportICS(context.Background(), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), engine.ViewMonth)
	if err != nil {
		t.Fatal(err)
	}
	ics := string(data)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:a",
		"DTSTART:20240701T090000",
		"DTEND:20240701T100000",
		"SUMMARY:회의 a",
		"RRULE:FREQ=DAILY;INTERVAL=2;UNTIL=20240710T235959Z",
		"TRIGGER:-PT10M",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ics missing %q:\n%s", want, ics)
		}
	}
	if strings.Contains(ics, "UID:bad") {
		t.Error("event with invalid time exported")
	}
}

func TestDispatchReminders(t *testing.T) {
	s, _, tx, _ := newTestService(
		meeting("soon", "2024-07-01", "14:00", "15:00"),
		meeting("later", "2024-07-01", "16:00", "17:00"),
	)
	now := time.Date(2024, 7, 1, 13, 55, 0, 0, time.UTC)

	notes, err := s.DispatchReminders(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].EventID != "soon" || notes[0].Message != "10분 후 회의 soon 일정이 시작됩니다." {
		t.Fatalf("notes = %+v", notes)
	}
	if len(tx.reminders) != 1 || tx.reminders[0].EventType != entity.ReminderDue {
		t.Fatalf("reminders = %+v", tx.reminders)
	}
	var payload entity.ReminderPayload
	if err := json.Unmarshal(tx.reminders[0].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.FiredAt != "2024-07-01T13:55" || payload.StartTime != "14:00" {
		t.Fatalf("payload = %+v", payload)
	}

	// повторный проход в том же окне ничего не шлет
	notes, err = s.DispatchReminders(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 || len(tx.reminders) != 1 {
		t.Fatalf("second pass notes=%+v reminders=%d", notes, len(tx.reminders))
	}

	// после начала события id вычищается из ledger
	if _, err := s.DispatchReminders(context.Background(), time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if s.ledger.Has("soon") {
		t.Fatal("started event still in ledger")
	}
}

func TestDispatchRemindersEnqueueFailure(t *testing.T) {
	s, _, tx, _ := newTestService(meeting("soon", "2024-07-01", "14:00", "15:00"))
	tx.enqErr = errors.New("db down")
	now := time.Date(2024, 7, 1, 13, 55, 0, 0, time.UTC)

	if _, err := s.DispatchReminders(context.Background(), now); err == nil {
		t.Fatal("expected error")
	}
	if s.ledger.Has("soon") {
		t.Fatal("failed enqueue must not mark the event as notified")
	}

	tx.enqErr = nil
	notes, err := s.DispatchReminders(context.Background(), now)
	if err != nil || len(notes) != 1 {
		t.Fatalf("retry notes=%+v err=%v", notes, err)
	}
}

func TestDispatchRemindersTimezone(t *testing.T) {
	s, _, _, _ := newTestService(meeting("seoul", "2024-07-01", "09:00", "10:00"))
	s.loc = time.FixedZone("KST", 9*60*60)

	// 23:55 UTC = 08:55 KST следующего дня
	notes, err := s.DispatchReminders(context.Background(), time.Date(2024, 6, 30, 23, 55, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].EventID != "seoul" {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestLedgerRetain(t *testing.T) {
	l := NewReminderLedger()
	l.Add("a", "b", "c")

	removed := l.Retain(engine.NewNotifiedSet("b", "x"))
	if got := strings.Join(removed.IDs(), ","); got != "a,c" {
		t.Fatalf("removed = %s", got)
	}
	if l.Len() != 1 || !l.Has("b") {
		t.Fatalf("ledger = %v", l.Snapshot().IDs())
	}
	if removed := l.Retain(engine.NewNotifiedSet("b")); len(removed) != 0 {
		t.Fatalf("second retain removed %v", removed.IDs())
	}
}

func TestAcknowledge(t *testing.T) {
	s, _, tx, _ := newTestService(meeting("soon", "2024-07-01", "14:00", "15:00"))

	if err := s.Acknowledge(context.Background(), "", "http"); !errors.Is(err, appers.ErrEventIDRequired) {
		t.Fatalf("err = %v", err)
	}
	if err := s.Acknowledge(context.Background(), "soon", "kafka"); err != nil {
		t.Fatal(err)
	}

	notes, err := s.DispatchReminders(context.Background(), time.Date(2024, 7, 1, 13, 55, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 || len(tx.reminders) != 0 {
		t.Fatalf("acknowledged event notified again: %+v", notes)
	}
}

func TestPreviewNotificationsIsStateless(t *testing.T) {
	s, _, tx, _ := newTestService(
		meeting("a", "2024-07-01", "14:00", "15:00"),
		meeting("b", "2024-07-01", "14:05", "15:00"),
	)
	now := time.Date(2024, 7, 1, 13, 56, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		notes, err := s.PreviewNotifications(context.Background(), now, []string{"b"})
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 1 || notes[0].EventID != "a" {
			t.Fatalf("pass %d notes = %+v", i, notes)
		}
	}
	if s.ledger.Len() != 0 || len(tx.reminders) != 0 {
		t.Fatal("preview changed server state")
	}
}

func TestProcessOne(t *testing.T) {
	s, r, tx, p := newTestService()
	e := entity.OutboxEvent{ID: 7, AggregateID: "a", EventType: entity.EventCreated, Payload: json.RawMessage(`{"id":"a"}`)}

	s.ProcessOne(context.Background(), 0, e)
	if len(tx.sent) != 1 || tx.sent[0] != 7 || p.keys[0] != "a" {
		t.Fatalf("sent=%v keys=%v", tx.sent, p.keys)
	}
	var msg entity.OutboxMessage
	if err := json.Unmarshal(p.messages[0], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != entity.EventCreated || msg.ID != "a" || string(msg.Payload) != `{"id":"a"}` {
		t.Fatalf("message = %+v", msg)
	}

	p.err = errors.New("kafka down")
	s.ProcessOne(context.Background(), 0, e)
	if len(r.failed) != 1 || len(r.gaveUp) != 0 {
		t.Fatalf("failed=%v gaveUp=%v", r.failed, r.gaveUp)
	}

	e.Attempts = 2
	s.ProcessOne(context.Background(), 0, e)
	if len(r.gaveUp) != 1 {
		t.Fatalf("gaveUp=%v after max attempts", r.gaveUp)
	}
}

func TestHealthCheck(t *testing.T) {
	s, r, _, p := newTestService()

	db, kafka, err := s.HealthCheck(context.Background())
	if !db || !kafka || err != nil {
		t.Fatalf("healthy: db=%t kafka=%t err=%v", db, kafka, err)
	}

	p.err = errors.New("kafka down")
	db, kafka, err = s.HealthCheck(context.Background())
	if !db || kafka || err != nil {
		t.Fatalf("kafka down: db=%t kafka=%t err=%v", db, kafka, err)
	}

	r.dbErr = errors.New("db down")
	if _, _, err = s.HealthCheck(context.Background()); err == nil {
		t.Fatal("both down must return error")
	}
}

func TestDeleteOldEvents(t *testing.T) {
	s, r, _, _ := newTestService()
	days := 30
	s.DeleteOldEvents(context.Background(), &days)
	if r.oldDays == nil || *r.oldDays != 30 {
		t.Fatalf("days = %v", r.oldDays)
	}
}

func idsOf(events []entity.Event) string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return strings.Join(ids, ",")
}
