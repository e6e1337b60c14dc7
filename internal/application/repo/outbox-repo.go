package repo

import (
	"context"
	"fmt"
	"planner/internal/application/common"
	"planner/internal/application/entity"
	"time"
)

func (r *RepoImpl) InsertOutbox(ctx context.Context, e *entity.OutboxEvent) (err error) {
	defer r.observe("insert", "insert_outbox")(&err)
	r.logger.Debugf("[%s %s: %s] InsertOutbox started", e.AggregateType, e.EventType, e.AggregateID)
	status := e.Status
	if status == "" {
		status = entity.OutboxNew
	}
	_, err = r.db.Exec(ctx, insertOutboxQuery,
		e.AggregateID, string(e.AggregateType), string(e.EventType), []byte(e.Payload), string(status),
	)
	if err != nil {
		return fmt.Errorf("insert outbox_event: %w", err)
	}

	return nil
}

// ReserveOutboxBatch забирает пачку NEW/FAILED записей и сдвигает их next_attempt_at на время аренды,
// чтобы параллельный relay их не подхватил.
func (r *RepoImpl) ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) (_ []entity.OutboxEvent, err error) {
	defer r.observe("update", "reserve_outbox")(&err)
	r.logger.Debugf("[lease: %s, limit: %d, maxAttempts: %d] ReserveOutboxBatch started", lease, limit, maxAttempts)

	rows, err := r.db.Query(ctx, reserveBatchSQL, common.PgInterval(lease), limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("reserve outbox batch: %w", err)
	}
	defer rows.Close()

	var res []entity.OutboxEvent
	for rows.Next() {
		var e entity.OutboxEvent
		var aggregateType, eventType, status string
		if err := rows.Scan(
			&e.ID, &e.AggregateID, &aggregateType, &eventType,
			&e.Payload, &status, &e.Attempts, &e.NextAttemptAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reserved outbox: %w", err)
		}
		e.AggregateType = entity.OutboxAggregate(aggregateType)
		e.EventType = entity.OutboxEventType(eventType)
		e.Status = entity.OutboxStatus(status)
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reserve rows err: %w", err)
	}

	return res, nil
}

func (r *RepoImpl) MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) (err error) {
	defer r.observe("update", "outbox_mark_failed")(&err)
	_, err = r.db.Exec(ctx, markFailedSQL, outboxID, string(entity.OutboxFailed), nextAttemptAt)
	if err != nil {
		return fmt.Errorf("outbox mark failed: %w", err)
	}
	return nil
}

func (r *RepoImpl) MarkGaveUp(ctx context.Context, outboxID int) (err error) {
	defer r.observe("update", "outbox_mark_gave_up")(&err)
	_, err = r.db.Exec(ctx, markGaveUpSQL, outboxID, string(entity.OutboxGaveUp))
	if err != nil {
		return fmt.Errorf("outbox mark gave_up: %w", err)
	}
	return nil
}

func (r *RepoImpl) markSent(ctx context.Context, outboxID int) (err error) {
	defer r.observe("update", "outbox_mark_sent")(&err)
	result, err := r.db.Exec(ctx, markSentSQL, outboxID, string(entity.OutboxSent))
	if err != nil {
		return fmt.Errorf("outbox mark sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("[ID %d] outbox not found", outboxID)
	}
	return nil
}
