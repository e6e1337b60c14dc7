package repo

import (
	"context"
	"errors"
	"fmt"
	"planner/internal/appers"
	"planner/internal/application/entity"
	"planner/pkg/db"
	"planner/pkg/metrics"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	defaultDeleteDays = 365
)

type Repo interface {
	CreateEvent(ctx context.Context, evt *entity.Event) (bool, error)
	UpdateEvent(ctx context.Context, evt *entity.Event) error
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	ListEvents(ctx context.Context, from, to string) ([]entity.Event, error)
	DeleteOldEvents(ctx context.Context, days *int) error

	InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error
	ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error)
	MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error
	MarkGaveUp(ctx context.Context, outboxID int) error

	HealthCheck(ctx context.Context) error
}
type RepoImpl struct {
	db     db.DB
	logger *zap.SugaredLogger
	m      *metrics.Metrics
}

func NewRepo(db db.DB, logger *zap.SugaredLogger, m *metrics.Metrics) *RepoImpl {
	return &RepoImpl{db: db, logger: logger, m: m}
}

func (r *RepoImpl) HealthCheck(ctx context.Context) error {
	var result int
	err := r.db.QueryRow(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func eventArgs(evt *entity.Event) []any {
	return []any{
		evt.ID, evt.Title, evt.Description, evt.Location, evt.Date, evt.StartTime, evt.EndTime,
		evt.Category, evt.NotificationTime, string(evt.Repeat.Type), evt.Repeat.Interval, evt.Repeat.EndDate,
	}
}

func (r *RepoImpl) CreateEvent(ctx context.Context, evt *entity.Event) (_ bool, err error) {
	defer r.observe("insert", "create_event")(&err)
	r.logger.Debugf("[event: %s] start inserting into DB", evt.ID)

	var insertedID string
	err = r.db.QueryRow(ctx, createEvent, eventArgs(evt)...).Scan(&insertedID)

	switch {
	case err == nil:
		r.logger.Debugf("[event: %s] inserted into DB successfully", evt.ID)
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		// ON CONFLICT DO NOTHING вернул 0 строк - событие уже существует
		r.logger.Warnf("[event: %s] inserting event: already exists (conflict)", evt.ID)
		return false, appers.ErrEventAlreadyExists
	case isDuplicateKeyError(err):
		r.logger.Warnf("[event: %s] inserting event: already exists (duplicate key)", evt.ID)
		return false, appers.ErrEventAlreadyExists
	default:
		r.logger.Errorf("[event: %s] error inserting into DB: %v", evt.ID, err)
		return false, fmt.Errorf("error inserting into DB: %w", err)
	}
}

// UpdateEvent перезаписывает событие целиком: форма всегда присылает все поля.
func (r *RepoImpl) UpdateEvent(ctx context.Context, evt *entity.Event) (err error) {
	defer r.observe("update", "update_event")(&err)
	r.logger.Debugf("[event: %s] start updating in DB", evt.ID)

	result, err := r.db.Exec(ctx, updateEvent, eventArgs(evt)...)
	if err != nil {
		r.logger.Errorf("[event: %s] error updating in DB: %v", evt.ID, err)
		return fmt.Errorf("error updating in DB: %w", err)
	}
	if result.RowsAffected() == 0 {
		r.logger.Warnf("[event: %s] no rows updated", evt.ID)
		return appers.ErrEventNotFound
	}
	r.logger.Debugf("[event: %s] updated in DB successfully", evt.ID)
	return nil
}

func (r *RepoImpl) DeleteEvent(ctx context.Context, id string) (err error) {
	defer r.observe("delete", "delete_event")(&err)
	r.logger.Debugf("[event: %s] start deleting from DB", id)

	result, err := r.db.Exec(ctx, deleteEvent, id)
	if err != nil {
		r.logger.Errorf("[event: %s] error deleting from DB: %v", id, err)
		return fmt.Errorf("error deleting from DB: %w", err)
	}
	if result.RowsAffected() == 0 {
		r.logger.Warnf("[event: %s] no rows deleted", id)
		return appers.ErrEventNotFound
	}
	r.logger.Debugf("[event: %s] deleted from DB successfully", id)
	return nil
}

func (r *RepoImpl) GetEvent(ctx context.Context, id string) (_ *entity.Event, err error) {
	defer r.observe("select", "get_event")(&err)
	var evt entity.Event
	err = scanEvent(r.db.QueryRow(ctx, getEvent, id), &evt)
	switch {
	case err == nil:
		return &evt, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, appers.ErrEventNotFound
	default:
		r.logger.Errorf("[event: %s] error getting from DB: %v", id, err)
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
}

// ListEvents возвращает события с датой в диапазоне [from, to] включительно (YYYY-MM-DD).
func (r *RepoImpl) ListEvents(ctx context.Context, from, to string) (_ []entity.Event, err error) {
	defer r.observe("select", "list_events")(&err)
	r.logger.Debugf("[from: %s, to: %s] start getting from DB", from, to)

	rows, err := r.db.Query(ctx, getEventsByPeriod, from, to)
	if err != nil {
		r.logger.Errorf("[from: %s, to: %s] error getting from DB: %v", from, to, err)
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
	defer rows.Close()

	events := make([]entity.Event, 0)
	for rows.Next() {
		var evt entity.Event
		if err := scanEvent(rows, &evt); err != nil {
			r.logger.Errorf("[from: %s, to: %s] error scanning row: %v", from, to, err)
			return nil, fmt.Errorf("error getting from DB: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
	r.logger.Debugf("[from: %s, to: %s] got %d events from DB", from, to, len(events))
	return events, nil
}

func (r *RepoImpl) DeleteOldEvents(ctx context.Context, days *int) (err error) {
	defer r.observe("delete", "delete_old_events")(&err)
	d := defaultDeleteDays
	if days != nil && *days > 0 {
		d = *days
	} else if days != nil && *days == 0 {
		r.logger.Warnf("daysToDelete is 0, skipping deletion to prevent deleting all events")
		return nil
	}

	r.logger.Infof("start deleting old events from DB: events older than %d days", d)

	result, err := r.db.Exec(ctx, deleteOldEvents, d)
	if err != nil {
		r.logger.Errorf("error deleting old events from DB: %v", err)
		return fmt.Errorf("error deleting old events from DB: %w", err)
	}
	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		r.logger.Infof("no rows deleted (no events older than %d days)", d)
		return nil
	}
	r.logger.Infof("deleted %d old events from DB (older than %d days)", rowsAffected, d)
	return nil
}

func scanEvent(row pgx.Row, evt *entity.Event) error {
	var repeatType string
	err := row.Scan(&evt.ID, &evt.Title, &evt.Description, &evt.Location, &evt.Date,
		&evt.StartTime, &evt.EndTime, &evt.Category, &evt.NotificationTime,
		&repeatType, &evt.Repeat.Interval, &evt.Repeat.EndDate)
	evt.Repeat.Type = entity.RepeatType(repeatType)
	return err
}

// isDuplicateKeyError проверяет, является ли ошибка ошибкой дубликата ключа (SQLSTATE 23505)
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
