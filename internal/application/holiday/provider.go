package holiday

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultRetryAfter = 5 * time.Minute

// Fetcher - внешний источник праздников за год.
type Fetcher interface {
	Fetch(ctx context.Context, year int) (Table, error)
}

// Provider отдает праздники месяца: встроенная таблица, поверх нее файл и удаленный источник.
// Ответ удаленного источника кешируется по годам. После ошибки год не запрашивается
// повторно retryAfter, ответ тем временем строится без удаленных праздников.
type Provider struct {
	base       Table
	remote     Fetcher
	logger     *zap.SugaredLogger
	retryAfter time.Duration
	now        func() time.Time

	mu     sync.Mutex
	years  map[int]Table
	failed map[int]time.Time
}

func NewProvider(base Table, remote Fetcher, retryAfter time.Duration, logger *zap.SugaredLogger) *Provider {
	if base == nil {
		base = Table{}
	}
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	return &Provider{
		base:       base,
		remote:     remote,
		logger:     logger,
		retryAfter: retryAfter,
		now:        time.Now,
		years:      make(map[int]Table),
		failed:     make(map[int]time.Time),
	}
}

func (p *Provider) Month(ctx context.Context, month time.Time) map[string]string {
	if p.remote == nil {
		return p.base.Month(month)
	}
	return Merge(p.base, p.year(ctx, month.Year())).Month(month)
}

func (p *Provider) year(ctx context.Context, year int) Table {
	p.mu.Lock()
	tbl, ok := p.years[year]
	failedAt, failed := p.failed[year]
	p.mu.Unlock()
	if ok {
		return tbl
	}
	if failed && p.now().Before(failedAt.Add(p.retryAfter)) {
		return Table{}
	}

	tbl, err := p.remote.Fetch(ctx, year)
	if err != nil {
		p.logger.Warnf("[year: %d] remote holidays unavailable for %s, using built-in table: %v", year, p.retryAfter, err)
		p.mu.Lock()
		p.failed[year] = p.now()
		p.mu.Unlock()
		return Table{}
	}
	p.logger.Infof("[year: %d] remote holidays loaded: %v", year, tbl.Dates())

	p.mu.Lock()
	p.years[year] = tbl
	delete(p.failed, year)
	p.mu.Unlock()
	return tbl
}
