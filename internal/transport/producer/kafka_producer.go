package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"planner/internal/application/common"
	"planner/pkg/broker"
	"planner/pkg/metrics"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Producer interface {
	ProduceMessage(ctx context.Context, key string, message []byte) error
	HealthCheck(ctx context.Context) error
}

// SyncSender - часть sarama.SyncProducer, которой пользуется продюсер.
type SyncSender interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

type KafkaProducerConfig struct {
	broker      *broker.KafkaBroker
	sender      SyncSender
	topic       string
	logger      *zap.SugaredLogger
	maxAttempts int
	m           *metrics.Metrics
}

func NewProducer(broker *broker.KafkaBroker, logger *zap.SugaredLogger, maxAttempts int, m *metrics.Metrics) *KafkaProducerConfig {
	p := newProducer(broker.SyncProducer, broker.ProducerTopic, logger, maxAttempts, m)
	p.broker = broker
	return p
}

func newProducer(sender SyncSender, topic string, logger *zap.SugaredLogger, maxAttempts int, m *metrics.Metrics) *KafkaProducerConfig {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &KafkaProducerConfig{
		sender:      sender,
		topic:       topic,
		logger:      logger,
		maxAttempts: maxAttempts,
		m:           m,
	}
}

// HealthCheck проверяет доступность Kafka через broker
func (p *KafkaProducerConfig) HealthCheck(ctx context.Context) error {
	if p.broker == nil {
		return errors.New("kafka broker is not initialized")
	}

	// Используем метод HealthCheck из KafkaBroker для реальной проверки
	return p.broker.HealthCheck(ctx)
}

// ProduceMessage отправляет сообщение с ключом key (id агрегата): сообщения одного события
// попадают в одну партицию и сохраняют порядок.
func (p *KafkaProducerConfig) ProduceMessage(ctx context.Context, key string, message []byte) error {
	topic := p.topic
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic:     topic,
			Key:       sarama.StringEncoder(key),
			Value:     sarama.ByteEncoder(message),
			Timestamp: time.Now(),
		}

		t0 := time.Now()
		part, off, err := p.sender.SendMessage(msg)
		rt := time.Since(t0)

		//Metric: attempt latency: ok/error
		if p.m != nil {
			res := "ok"
			if err != nil {
				res = "error"
			}
			p.m.Kafka.ProducerAttemptLatencySeconds.WithLabelValues(topic, res).Observe(rt.Seconds())
		}

		if err == nil {
			// Metric success
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "success").Inc()
				p.m.Kafka.ProducerSuccessAttempts.WithLabelValues(topic).Observe(float64(attempt))
			}
			p.logger.Infof("[key %s] sent topic=%s partition=%d offset=%d attempt=%d rt=%s",
				key, topic, part, off, attempt, rt)
			return nil
		}

		lastErr = err

		var kerr sarama.KError
		if errors.As(err, &kerr) {
			if isPermanent(kerr) {
				if p.m != nil {
					p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "permanent").Inc()
				}
				p.logger.Errorf("[key %s] permanent kafka error attempt=%d rt=%s kafka_error=%s code=%d", key, attempt, rt, kerr.Error(), int16(kerr))
				return fmt.Errorf("permanent kafka error: %w", kerr)
			}

			p.logger.Warnf("[key %s] retryable kafka error attempt=%d rt=%s reason=%s code=%d",
				key, attempt, rt, ClassifyRetry(err), int16(kerr))
		} else {
			p.logger.Warnf("[key %s] retryable non-kafka error attempt=%d rt=%s reason=%s err=%v",
				key, attempt, rt, ClassifyRetry(err), err)
		}

		if attempt == p.maxAttempts {
			break
		}

		if err := common.SleepCtx(ctx, common.NextBackoffWithJitter(attempt-1)); err != nil {
			// отмена/таймаут контекста считаем как canceled
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "canceled").Inc()
			}
			return err
		}
	}
	if p.m != nil {
		p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "failed").Inc()
	}
	p.logger.Errorf("[key %s] produce_failed after %d attempts: %v", key, p.maxAttempts, lastErr)
	return fmt.Errorf("produce failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func isPermanent(k sarama.KError) bool {
	switch k {
	case sarama.ErrTopicAuthorizationFailed,
		sarama.ErrClusterAuthorizationFailed,
		sarama.ErrInvalidRequest,
		sarama.ErrInvalidMessage,
		sarama.ErrMessageSizeTooLarge,
		sarama.ErrSASLAuthenticationFailed:
		return true
	default:
		return false
	}
}

// ClassifyRetry - короткая причина повтора для логов.
func ClassifyRetry(err error) string {
	var k sarama.KError
	if errors.As(err, &k) {
		switch k {
		case sarama.ErrLeaderNotAvailable:
			return "leader_not_available"
		case sarama.ErrRequestTimedOut:
			return "broker_timeout"
		case sarama.ErrNotEnoughReplicas, sarama.ErrNotEnoughReplicasAfterAppend:
			return "not_enough_replicas"
		default:
			return k.Error()
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "net_timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "client_deadline"
	}
	return "other"
}
