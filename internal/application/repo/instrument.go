package repo

import (
	"context"
	"errors"
	"planner/internal/appers"
	"time"

	"github.com/jackc/pgx/v5"
)

// observe снимает метрики запроса к БД. Использование:
//
//	defer r.observe("select", "get_event")(&err)
func (r *RepoImpl) observe(op, name string) func(errp *error) {
	if r.m == nil {
		return func(*error) {}
	}
	start := time.Now()
	inflight := r.m.Repo.InFlight.WithLabelValues(op, name)
	inflight.Inc()

	return func(errp *error) {
		inflight.Dec()
		result, kind := "ok", ""
		if errp != nil && *errp != nil {
			result, kind = "error", errorKind(*errp)
		}
		r.m.Repo.RequestsTotal.WithLabelValues(op, name, result, kind).Inc()
		r.m.Repo.DurationSeconds.WithLabelValues(op, name, result).Observe(time.Since(start).Seconds())
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, appers.ErrEventNotFound):
		return "not_found"
	case errors.Is(err, appers.ErrEventAlreadyExists), isDuplicateKeyError(err):
		return "duplicate"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
