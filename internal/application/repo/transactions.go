package repo

import (
	"context"
	"planner/internal/appers"
	"planner/internal/application/entity"
	"planner/pkg/config"

	"go.uber.org/zap"
)

type Transactions interface {
	CreateEvent(ctx context.Context, in *entity.Event, payload []byte) error
	UpdateEvent(ctx context.Context, in *entity.Event, payload []byte) error
	DeleteEvent(ctx context.Context, id string, payload []byte) error
	EnqueueReminders(ctx context.Context, reminders []entity.OutboxEvent) error
	GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error)
	MarkSentAndUpdateEvent(ctx context.Context, outboxID int) error
}
type TransactionsImpl struct {
	repo   *RepoImpl
	logger *zap.SugaredLogger
}

func NewTransactions(repo *RepoImpl, logger *zap.SugaredLogger) *TransactionsImpl {
	return &TransactionsImpl{repo: repo, logger: logger}
}

func eventOutbox(id string, eventType entity.OutboxEventType, payload []byte) *entity.OutboxEvent {
	return &entity.OutboxEvent{
		AggregateID:   id,
		AggregateType: entity.AggregateEvent,
		EventType:     eventType,
		Payload:       payload,
		Status:        entity.OutboxNew,
	}
}

func (t *TransactionsImpl) CreateEvent(ctx context.Context, in *entity.Event, payload []byte) error {
	if len(payload) == 0 {
		t.logger.Warnf("[ID %s] empty payload for outbox", in.ID)
	}

	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		inserted, err := t.repo.CreateEvent(ctx, in)
		if err != nil {
			t.logger.Errorf("[ID %s] insert event failed: %v", in.ID, err)
			return err
		}
		if !inserted {
			t.logger.Infof("[ID %s] idempotent hit: Event already exists", in.ID)
			return appers.ErrEventAlreadyExists
		}

		if err = t.repo.InsertOutbox(ctx, eventOutbox(in.ID, entity.EventCreated, payload)); err != nil {
			t.logger.Errorf("[ID %s] insert outbox failed: %v", in.ID, err)
			return err
		}
		return nil
	})
}

func (t *TransactionsImpl) UpdateEvent(ctx context.Context, in *entity.Event, payload []byte) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := t.repo.UpdateEvent(ctx, in); err != nil {
			return err
		}
		if err := t.repo.InsertOutbox(ctx, eventOutbox(in.ID, entity.EventUpdated, payload)); err != nil {
			t.logger.Errorf("[ID %s] insert outbox failed: %v", in.ID, err)
			return err
		}
		return nil
	})
}

func (t *TransactionsImpl) DeleteEvent(ctx context.Context, id string, payload []byte) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := t.repo.DeleteEvent(ctx, id); err != nil {
			return err
		}
		if err := t.repo.InsertOutbox(ctx, eventOutbox(id, entity.EventDeleted, payload)); err != nil {
			t.logger.Errorf("[ID %s] insert outbox failed: %v", id, err)
			return err
		}
		return nil
	})
}

// EnqueueReminders кладет все напоминания одного прохода в outbox атомарно.
func (t *TransactionsImpl) EnqueueReminders(ctx context.Context, reminders []entity.OutboxEvent) error {
	if len(reminders) == 0 {
		return nil
	}
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for i := range reminders {
			if err := t.repo.InsertOutbox(ctx, &reminders[i]); err != nil {
				t.logger.Errorf("[ID %s] insert reminder outbox failed: %v", reminders[i].AggregateID, err)
				return err
			}
		}
		return nil
	})
}

func (t *TransactionsImpl) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := t.repo.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		events, err = t.repo.ReserveOutboxBatch(txCtx, c.Lease, c.BatchSize, c.MaxAttempts)
		return err
	})
	if err != nil {
		t.logger.Errorw("reserve outbox batch failed", "err", err)
		return nil, err
	}
	return events, nil
}

func (t *TransactionsImpl) MarkSentAndUpdateEvent(ctx context.Context, outboxID int) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		t.logger.Debugf("[ID %d] start transaction to mark outbox record as sent", outboxID)
		return t.repo.markSent(ctx, outboxID)
	})
}
