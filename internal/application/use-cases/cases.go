package use_cases

import (
	"context"
	"encoding/json"
	"fmt"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"planner/internal/application/service"
	"planner/pkg/config"
	"time"

	"go.uber.org/zap"
)

type UseCaser interface {
	SaveEvent(ctx context.Context, draft entity.EventDraft, force bool) (*entity.Event, error)
	CheckConflicts(ctx context.Context, draft entity.EventDraft) ([]entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, anchor time.Time, view engine.View, term string) ([]entity.Event, error)
	Calendar(ctx context.Context, anchor time.Time, view engine.View, term string) (*entity.CalendarView, error)
	Occurrences(ctx context.Context, id string, until time.Time) ([]entity.Event, error)
	Holidays(ctx context.Context, month time.Time) map[string]string
	ExportICS(ctx context.Context, anchor time.Time, view engine.View) ([]byte, error)
	Notifications(ctx context.Context, now time.Time, notified []string) ([]entity.Notification, error)
	Acknowledge(ctx context.Context, eventID string) error
	Meta() entity.Meta
	Now() time.Time

	DeleteOldEventsByYear(ctx context.Context)
	DispatchReminders(ctx context.Context)
	RunRelay(ctx context.Context)
	ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error

	HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error)
}
type UseCase struct {
	service service.Service
	logger  *zap.SugaredLogger
	conf    *config.Config
}

func NewUseCase(service service.Service, logger *zap.SugaredLogger, conf *config.Config) *UseCase {
	return &UseCase{
		service: service,
		logger:  logger,
		conf:    conf,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error) {
	return u.service.HealthCheck(ctx)
}

func (u *UseCase) SaveEvent(ctx context.Context, draft entity.EventDraft, force bool) (*entity.Event, error) {
	u.logger.Debugf("[event: %s] SaveEvent started", draft.ID)
	return u.service.SaveEvent(ctx, draft, force)
}

func (u *UseCase) CheckConflicts(ctx context.Context, draft entity.EventDraft) ([]entity.Event, error) {
	u.logger.Debugf("[date: %s] CheckConflicts started", draft.Date)
	return u.service.CheckConflicts(ctx, draft)
}

func (u *UseCase) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	return u.service.GetEvent(ctx, id)
}

func (u *UseCase) DeleteEvent(ctx context.Context, id string) error {
	u.logger.Debugf("[event: %s] DeleteEvent started", id)
	return u.service.DeleteEvent(ctx, id)
}

func (u *UseCase) ListEvents(ctx context.Context, anchor time.Time, view engine.View, term string) ([]entity.Event, error) {
	u.logger.Debugf("[anchor: %s, view: %s, q: %q] ListEvents started", engine.FormatDate(anchor), view, term)
	return u.service.ListView(ctx, anchor, view, term)
}

func (u *UseCase) Calendar(ctx context.Context, anchor time.Time, view engine.View, term string) (*entity.CalendarView, error) {
	u.logger.Debugf("[anchor: %s, view: %s] Calendar started", engine.FormatDate(anchor), view)
	return u.service.Calendar(ctx, anchor, view, term)
}

func (u *UseCase) Occurrences(ctx context.Context, id string, until time.Time) ([]entity.Event, error) {
	u.logger.Debugf("[event: %s, until: %s] Occurrences started", id, engine.FormatDate(until))
	return u.service.Occurrences(ctx, id, until)
}

func (u *UseCase) Holidays(ctx context.Context, month time.Time) map[string]string {
	return u.service.Holidays(ctx, month)
}

func (u *UseCase) ExportICS(ctx context.Context, anchor time.Time, view engine.View) ([]byte, error) {
	return u.service.ExportICS(ctx, anchor, view)
}

func (u *UseCase) Notifications(ctx context.Context, now time.Time, notified []string) ([]entity.Notification, error) {
	return u.service.PreviewNotifications(ctx, now, notified)
}

func (u *UseCase) Acknowledge(ctx context.Context, eventID string) error {
	return u.service.Acknowledge(ctx, eventID, "http")
}

func (u *UseCase) Meta() entity.Meta {
	return entity.DefaultMeta()
}

func (u *UseCase) Now() time.Time {
	return u.service.Now()
}

func (u *UseCase) DeleteOldEventsByYear(ctx context.Context) {
	days := u.conf.Cron.DaysToDelete
	u.logger.Infof("DeleteOldEventsByYear called with daysToDelete=%d", days)
	u.service.DeleteOldEvents(ctx, &days)
}

func (u *UseCase) DispatchReminders(ctx context.Context) {
	notes, err := u.service.DispatchReminders(ctx, time.Now())
	if err != nil {
		u.logger.Errorf("reminder scan failed: %v", err)
		return
	}
	if len(notes) > 0 {
		u.logger.Infof("reminder scan: %d reminders enqueued", len(notes))
	}
}

func (u *UseCase) RunRelay(ctx context.Context) {
	u.logger.Debug("relay started")
	u.service.RelayEventRun(ctx)
}

// ConsumerMessage разбирает подтверждение напоминания {"eventId": "..."}.
func (u *UseCase) ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error {
	u.logger.Debugf("consumer message: %s, time: %v", msg, msgTime)

	var ack entity.ReminderAck
	if err := json.Unmarshal(msg, &ack); err != nil {
		return fmt.Errorf("decode reminder ack: %w", err)
	}
	return u.service.Acknowledge(ctx, ack.EventID, "kafka")
}
