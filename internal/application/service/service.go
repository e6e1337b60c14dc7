package service

import (
	"context"
	"encoding/json"
	"fmt"
	"planner/internal/appers"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	"planner/internal/application/repo"
	"planner/internal/transport/producer"
	"planner/pkg/config"
	"planner/pkg/metrics"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type Service interface {
	SaveEvent(ctx context.Context, draft entity.EventDraft, force bool) (*entity.Event, error)
	CheckConflicts(ctx context.Context, draft entity.EventDraft) ([]entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListView(ctx context.Context, anchor time.Time, view engine.View, term string) ([]entity.Event, error)
	Calendar(ctx context.Context, anchor time.Time, view engine.View, term string) (*entity.CalendarView, error)
	Occurrences(ctx context.Context, id string, until time.Time) ([]entity.Event, error)
	Holidays(ctx context.Context, month time.Time) map[string]string
	ExportICS(ctx context.Context, anchor time.Time, view engine.View) ([]byte, error)
	DeleteOldEvents(ctx context.Context, days *int)

	DispatchReminders(ctx context.Context, now time.Time) ([]entity.Notification, error)
	Acknowledge(ctx context.Context, eventID, source string) error
	PreviewNotifications(ctx context.Context, now time.Time, notified []string) ([]entity.Notification, error)

	Now() time.Time

	RelayEventRun(ctx context.Context)
	HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error)
}

// HolidayProvider - праздники месяца, ключ YYYY-MM-DD.
type HolidayProvider interface {
	Month(ctx context.Context, month time.Time) map[string]string
}

type ServiceImpl struct {
	repo          repo.Repo
	transactions  repo.Transactions
	kafkaProducer producer.Producer
	holidays      HolidayProvider
	ledger        *ReminderLedger
	logger        *zap.SugaredLogger
	m             *metrics.Metrics
	cfg           *config.RelayConfig
	reminder      config.Reminder
	loc           *time.Location
	now           func() time.Time
}

func NewService(repo repo.Repo, transactions repo.Transactions, kafkaProducer producer.Producer, holidays HolidayProvider,
	logger *zap.SugaredLogger, m *metrics.Metrics, conf *config.Config) *ServiceImpl {
	loc, err := time.LoadLocation(conf.Reminder.Timezone)
	if err != nil {
		logger.Warnf("unknown reminder timezone %q, using local time: %v", conf.Reminder.Timezone, err)
		loc = time.Local
	}
	reminder := conf.Reminder
	if reminder.LookaheadDays < 1 {
		reminder.LookaheadDays = 1
	}
	relay := conf.Relay
	if relay.Workers < 1 {
		relay.Workers = 1
	}
	if relay.BatchSize < 1 {
		relay.BatchSize = 1
	}
	if relay.PollPeriod <= 0 {
		relay.PollPeriod = time.Second
	}

	return &ServiceImpl{
		repo:          repo,
		transactions:  transactions,
		kafkaProducer: kafkaProducer,
		holidays:      holidays,
		ledger:        NewReminderLedger(),
		logger:        logger,
		m:             m,
		cfg:           &relay,
		reminder:      reminder,
		loc:           loc,
		now:           time.Now,
	}
}

// HealthCheck проверяет доступность БД и Kafka
func (s *ServiceImpl) HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error) {
	dbErr := s.repo.HealthCheck(ctx)
	dbHealthy = dbErr == nil

	kafkaErr := s.kafkaProducer.HealthCheck(ctx)
	kafkaHealthy = kafkaErr == nil

	// Возвращаем ошибку только если обе проверки провалились
	if !dbHealthy && !kafkaHealthy {
		return dbHealthy, kafkaHealthy, fmt.Errorf("database: %v, kafka: %v", dbErr, kafkaErr)
	}

	return dbHealthy, kafkaHealthy, nil
}

// SaveEvent: проверка формы, затем поиск пересечений с событиями того же дня.
// Пересечения возвращаются как *appers.ConflictError, если не передан force.
// Черновик без ID создает событие, с ID - перезаписывает существующее.
func (s *ServiceImpl) SaveEvent(ctx context.Context, draft entity.EventDraft, force bool) (*entity.Event, error) {
	s.logger.Debugf("[event: %s] SaveEvent started, force=%t", draft.ID, force)

	conflicts, err := s.CheckConflicts(ctx, draft)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		if !force {
			s.logger.Infof("[event: %s] %d conflicting events on %s", draft.ID, len(conflicts), draft.Date)
			return nil, &appers.ConflictError{Conflicts: conflicts}
		}
		s.logger.Infof("[event: %s] saving despite %d conflicts", draft.ID, len(conflicts))
	}

	if draft.Repeat.Type == "" {
		draft.Repeat.Type = entity.RepeatNone
	}

	if draft.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("generate event id: %w", err)
		}
		evt := draft.WithID(id.String())
		payload, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event: %w", err)
		}
		if err := s.transactions.CreateEvent(ctx, &evt, payload); err != nil {
			return nil, err
		}
		s.logger.Infof("[event: %s] created", evt.ID)
		return &evt, nil
	}

	prev, err := s.repo.GetEvent(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	evt := draft.WithID(draft.ID)
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.transactions.UpdateEvent(ctx, &evt, payload); err != nil {
		return nil, err
	}
	if reminderMoved(prev, &evt) && s.ledger.Has(evt.ID) {
		s.ledger.Remove(evt.ID)
		s.logger.Debugf("[event: %s] reminder time changed, ledger entry dropped", evt.ID)
	}
	s.logger.Infof("[event: %s] updated", evt.ID)
	return &evt, nil
}

// reminderMoved: у события сменился момент напоминания, старая отметка ledger к нему не относится.
func reminderMoved(prev, next *entity.Event) bool {
	return prev.Date != next.Date || prev.StartTime != next.StartTime || prev.NotificationTime != next.NotificationTime
}

// CheckConflicts не сохраняет ничего: только проверка формы и список пересечений.
func (s *ServiceImpl) CheckConflicts(ctx context.Context, draft entity.EventDraft) ([]entity.Event, error) {
	if v := engine.CheckDraft(draft); !v.Valid {
		return nil, &appers.ValidationError{Message: v.Message}
	}

	sameDay, err := s.repo.ListEvents(ctx, draft.Date, draft.Date)
	if err != nil {
		return nil, err
	}
	return engine.FindConflicts(draft, sameDay), nil
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	s.logger.Debugf("[event: %s] GetEvent started", id)
	return s.repo.GetEvent(ctx, id)
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	s.logger.Debugf("[event: %s] DeleteEvent started", id)

	evt, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.transactions.DeleteEvent(ctx, id, payload); err != nil {
		return err
	}
	s.ledger.Remove(id)
	return nil
}

// ListView - события недели или месяца вокруг anchor с поиском по title, description и location.
func (s *ServiceImpl) ListView(ctx context.Context, anchor time.Time, view engine.View, term string) ([]entity.Event, error) {
	from, to := engine.Window(anchor, view)
	s.logger.Debugf("[view: %s, from: %s, to: %s] ListView started", view, engine.FormatDate(from), engine.FormatDate(to))

	events, err := s.repo.ListEvents(ctx, engine.FormatDate(from), engine.FormatDate(to))
	if err != nil {
		return nil, err
	}
	return engine.FilterEvents(events, term, anchor, view), nil
}

func (s *ServiceImpl) Occurrences(ctx context.Context, id string, until time.Time) ([]entity.Event, error) {
	evt, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := engine.Occurrences(*evt, until, engine.DefaultOccurrenceLimit)
	if err != nil {
		s.logger.Errorf("[event: %s] expand occurrences failed: %v", id, err)
		return nil, fmt.Errorf("expand occurrences: %w", err)
	}
	return out, nil
}

func (s *ServiceImpl) Holidays(ctx context.Context, month time.Time) map[string]string {
	return s.holidays.Month(ctx, month)
}

func (s *ServiceImpl) ExportICS(ctx context.Context, anchor time.Time, view engine.View) ([]byte, error) {
	events, err := s.ListView(ctx, anchor, view, "")
	if err != nil {
		return nil, err
	}
	return []byte(buildICS(events, s.now().UTC())), nil
}

func (s *ServiceImpl) DeleteOldEvents(ctx context.Context, days *int) {
	if days != nil {
		s.logger.Debugf("[days: %d] DeleteOldEvents started", *days)
	}
	if err := s.repo.DeleteOldEvents(ctx, days); err != nil {
		s.logger.Errorf("delete old events failed: %v", err)
	}
}
