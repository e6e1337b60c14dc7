package cron

import (
	"context"
	use_cases "planner/internal/application/use-cases"

	"go.uber.org/zap"
)

// OutdatedJob - задача для удаления устаревших событий
type OutdatedJob struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewOutdatedJob(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *OutdatedJob {
	return &OutdatedJob{
		usecase: usecase,
		logger:  logger,
	}
}

func (j *OutdatedJob) Run(ctx context.Context) {
	j.logger.Info("Запуск задачи удаления устаревших событий")

	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Паника при выполнении задачи удаления событий: %v", r)
		}
	}()

	j.usecase.DeleteOldEventsByYear(ctx)
	j.logger.Info("Задача удаления устаревших событий завершена")
}

// ReminderJob - проход планировщика напоминаний: наступившие напоминания уходят в outbox.
type ReminderJob struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewReminderJob(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *ReminderJob {
	return &ReminderJob{
		usecase: usecase,
		logger:  logger,
	}
}

func (j *ReminderJob) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Паника при поиске напоминаний: %v", r)
		}
	}()

	j.usecase.DispatchReminders(ctx)
}
