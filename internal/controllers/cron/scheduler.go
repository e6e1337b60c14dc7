package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = 55 * time.Minute

type Job interface {
	Run(ctx context.Context)
}

type Scheduler struct {
	c   *cron.Cron
	ctx context.Context
}

func NewScheduler(ctx context.Context, logger *zap.SugaredLogger) *Scheduler {
	// Стандартный cron формат с секундами и дескрипторы (@every, @daily, ...)
	// Проход, который еще не закончился, не запускается второй раз.
	cl := cronLogger{l: logger.Named("cron")}
	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
		)),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{c: c, ctx: ctx}
}

func (s *Scheduler) Add(spec string, job Job, timeout time.Duration) (cron.EntryID, error) {
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, timeout)
		defer cancel()
		job.Run(ctx)
	})
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.c.Entries()
}

func (s *Scheduler) Start() {
	s.c.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}

// cronLogger пишет сообщения robfig/cron в zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "err", err)...)
}
