package cron

import (
	"context"
	"fmt"
	use_cases "planner/internal/application/use-cases"
	"planner/pkg/config"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCleanupSpec  = "@daily"
	defaultReminderSpec = "@every 1m"
	reminderJobTimeout  = 50 * time.Second
)

type Controller struct {
	scheduler *Scheduler
	logger    *zap.SugaredLogger
}

func NewController(ctx context.Context, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		scheduler: NewScheduler(ctx, logger),
		logger:    logger,
	}
}

// pickSpec: приоритет у Schedule (cron формат), затем Interval (@every), затем значение по умолчанию.
func pickSpec(schedule, interval, fallback string) string {
	switch {
	case schedule != "":
		return schedule
	case interval != "":
		return interval
	default:
		return fallback
	}
}

func (c *Controller) RegisterDeleteOldEventsJob(usecase use_cases.UseCaser, conf config.Cron) error {
	spec := pickSpec(conf.Schedule, conf.Interval, defaultCleanupSpec)

	entryID, err := c.scheduler.Add(spec, NewOutdatedJob(usecase, c.logger), 0)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать задачу удаления событий: %w", err)
	}

	c.logger.Infof("Задача удаления событий зарегистрирована с ID: %d, расписание: %s", entryID, spec)
	return nil
}

func (c *Controller) RegisterReminderJob(usecase use_cases.UseCaser, conf config.Reminder) error {
	spec := pickSpec(conf.Schedule, conf.Interval, defaultReminderSpec)

	entryID, err := c.scheduler.Add(spec, NewReminderJob(usecase, c.logger), reminderJobTimeout)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать задачу напоминаний: %w", err)
	}

	c.logger.Infof("Задача напоминаний зарегистрирована с ID: %d, расписание: %s", entryID, spec)
	return nil
}

// Start запускает планировщик задач
func (c *Controller) Start() {
	c.logger.Info("Запуск планировщика cron задач")
	c.scheduler.Start()
}

// Stop останавливает планировщик задач
func (c *Controller) Stop() {
	c.logger.Info("Остановка планировщика cron задач")
	c.scheduler.Stop()
	c.logger.Info("Планировщик cron задач остановлен")
}
