package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"planner/internal/application/common"
	"time"

	"go.uber.org/zap"
)

const minRetryBackoff = 100 * time.Millisecond

type RetryClient struct {
	delegate   HTTPClient
	maxRetries int
	// ShouldRetry решает, повторять ли попытку по ответу или ошибке
	ShouldRetry func(*http.Response, error) bool
	backoff     func(attempt int) time.Duration
	logger      *zap.SugaredLogger
}

func NewRetryClient(delegate HTTPClient, maxRetries int, logger *zap.SugaredLogger) *RetryClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &RetryClient{
		delegate:    delegate,
		maxRetries:  maxRetries,
		ShouldRetry: retryable,
		backoff:     common.NextBackoffWithJitter,
		logger:      logger,
	}
}

// retryable: сетевые ошибки, 5xx и 429. Отмену и дедлайн контекста не повторяем.
func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// rewindable делает тело запроса перечитываемым для повторов.
func rewindable(req *http.Request) error {
	if req.Body == nil || req.GetBody != nil {
		return nil
	}
	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	_ = req.Body.Close()
	req.ContentLength = int64(len(buf))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	return nil
}

func (c *RetryClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := rewindable(req); err != nil {
		return nil, err
	}

	var resp *http.Response
	var err error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			if r.Body, err = req.GetBody(); err != nil {
				return nil, err
			}
		}

		resp, err = c.delegate.Do(ctx, r)
		if attempt == c.maxRetries || !c.ShouldRetry(resp, err) {
			return resp, err
		}

		// соединение возвращается в пул только после вычитки тела
		if resp != nil && resp.Body != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}

		wait := c.backoff(attempt)
		if wait < minRetryBackoff {
			wait = minRetryBackoff
		}
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.logger.Warnf("retry attempt=%d/%d backoff=%s method=%s url=%s status=%d err=%v",
			attempt, c.maxRetries, wait, req.Method, req.URL.Redacted(), status, err)

		if sleepErr := common.SleepCtx(ctx, wait); sleepErr != nil {
			return nil, fmt.Errorf("retry sleep canceled: %w", sleepErr)
		}
	}

	return resp, err
}
