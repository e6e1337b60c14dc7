package repo

const eventColumns = `id, title, description, location, event_date, start_time, end_time,
	category, notification_time, repeat_type, repeat_interval, COALESCE(repeat_end_date, '')`

const createEvent = `INSERT INTO events (
                    id, title, description, location, event_date, start_time, end_time,
                    category, notification_time, repeat_type, repeat_interval, repeat_end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''))
ON CONFLICT (id) DO NOTHING
RETURNING id;`

const updateEvent = `UPDATE events SET
	title = $2, description = $3, location = $4, event_date = $5, start_time = $6, end_time = $7,
	category = $8, notification_time = $9, repeat_type = $10, repeat_interval = $11,
	repeat_end_date = NULLIF($12, ''), updated_at = now()
WHERE id = $1`

const getEvent = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

// даты хранятся как YYYY-MM-DD, поэтому строковое сравнение совпадает с календарным
const getEventsByPeriod = `SELECT ` + eventColumns + ` FROM events
WHERE event_date >= $1 AND event_date <= $2
ORDER BY event_date, start_time, id`

const deleteEvent = `DELETE FROM events WHERE id = $1`

const deleteOldEvents = `DELETE FROM events
		WHERE event_date < to_char(now() - make_interval(days => $1), 'YYYY-MM-DD')
		  AND (repeat_type = 'none' OR (repeat_end_date IS NOT NULL
		       AND repeat_end_date < to_char(now() - make_interval(days => $1), 'YYYY-MM-DD')))`

// OUTBOX
const insertOutboxQuery = `
INSERT INTO outbox_event (
  aggregate_id, aggregate_type, event_type, payload, status, attempts, next_attempt_at, created_at
) VALUES ($1,$2,$3, ($4)::jsonb, $5, 0, now(), now())
RETURNING id
`

const reserveBatchSQL = `
WITH picked AS (
	SELECT id
  	FROM outbox_event
  	WHERE status IN ('NEW','FAILED')
		AND next_attempt_at <= now()
    	AND attempts < $3
  	ORDER BY id
  	FOR UPDATE SKIP LOCKED
	LIMIT $2
)
UPDATE outbox_event AS o
SET next_attempt_at = now() + $1::interval
FROM picked
WHERE o.id = picked.id
RETURNING o.id, o.aggregate_id, o.aggregate_type, o.event_type, o.payload, o.status, o.attempts, o.next_attempt_at, o.created_at;
`

const markFailedSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at=$3
WHERE id=$1`

const markGaveUpSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at = now()
WHERE id=$1
`

const markSentSQL = `UPDATE outbox_event SET status=$2 WHERE id=$1`
