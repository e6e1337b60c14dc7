package broker

import (
	"context"
	"errors"
	"fmt"
	"planner/pkg/config"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	_clientID             = "planner"
	_defaultConsumerGroup = "planner-reminder-ack"
)

// KafkaBroker: producer для outbox (события календаря и напоминания) и consumer group подтверждений.
type KafkaBroker struct {
	ConsumerTopic string
	ProducerTopic string
	ConsumerGroup sarama.ConsumerGroup
	SyncProducer  sarama.SyncProducer
	Brokers       []string
	conf          config.Kafka
	logger        *zap.SugaredLogger
}

func NewKafkaBroker(conf config.Kafka, logger *zap.SugaredLogger) (*KafkaBroker, error) {
	brokers := splitBrokers(conf.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	logger.Debugf("Создание consumer group %s для brokers: %v", groupName(conf), brokers)
	consumerGroup, err := sarama.NewConsumerGroup(brokers, groupName(conf), consumerConfig(conf))
	if err != nil {
		logger.Errorf("Ошибка создания consumer group: %v", err)
		return nil, fmt.Errorf("ошибка при создании Kafka Consumer Group: %w", err)
	}

	logger.Debugf("Создание producer для brokers: %v", brokers)
	syncProducer, err := sarama.NewSyncProducer(brokers, producerConfig(conf))
	if err != nil {
		logger.Errorf("Ошибка создания producer: %v", err)
		_ = consumerGroup.Close()
		return nil, fmt.Errorf("ошибка при создании Kafka Sync Producer: %w", err)
	}

	broker := &KafkaBroker{
		ConsumerTopic: conf.ReaderTopic,
		ProducerTopic: conf.WriterTopic,
		ConsumerGroup: consumerGroup,
		SyncProducer:  syncProducer,
		Brokers:       brokers,
		conf:          conf,
		logger:        logger,
	}
	logger.Infof("KafkaBroker создан. Consumer topic: %s, Producer topic: %s", broker.ConsumerTopic, broker.ProducerTopic)
	return broker, nil
}

// HealthCheck проверяет, что producer и consumer group созданы, и что брокеры отвечают.
//
// client.Partitions() не используется: он требует Describe в ACL, а у учетных записей
// reader/writer бывают только Read или Write.
func (kb *KafkaBroker) HealthCheck(ctx context.Context) error {
	if kb.SyncProducer == nil {
		return errors.New("kafka producer is not initialized")
	}
	if kb.ConsumerGroup == nil {
		return errors.New("kafka consumer group is not initialized")
	}

	cfg := sarama.NewConfig()
	cfg.ClientID = _clientID
	cfg.Net.DialTimeout = 2 * time.Second
	cfg.Net.ReadTimeout = 2 * time.Second
	cfg.Net.WriteTimeout = 2 * time.Second
	cfg.Metadata.Timeout = 2 * time.Second
	cfg.Metadata.Retry.Max = 1
	// те же учетные данные, что у producer; без них - reader
	applySASLConfig(cfg, kb.conf, kb.conf.WriterUsr != "" && kb.conf.WriterUsrPwd != "")

	if err := ctx.Err(); err != nil {
		return err
	}
	client, err := sarama.NewClient(kb.Brokers, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka brokers: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return errors.New("no kafka brokers available")
	}
	return nil
}

// Close закрывает producer и consumer group, возвращает первую ошибку.
func (kb *KafkaBroker) Close() error {
	var errs []error
	if kb.ConsumerGroup != nil {
		errs = append(errs, kb.ConsumerGroup.Close())
	}
	if kb.SyncProducer != nil {
		errs = append(errs, kb.SyncProducer.Close())
	}
	return errors.Join(errs...)
}

// applySASLConfig: useWriterCreds - WriterUsr/WriterUsrPwd, иначе ReaderUsr/ReaderUsrPwd.
func applySASLConfig(cfg *sarama.Config, conf config.Kafka, useWriterCreds bool) {
	user, pwd := conf.ReaderUsr, conf.ReaderUsrPwd
	if useWriterCreds {
		user, pwd = conf.WriterUsr, conf.WriterUsrPwd
	}
	if user == "" || pwd == "" {
		return
	}
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.User = user
	cfg.Net.SASL.Password = pwd
	cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
}

func EnableSaramaZapLogs(base *zap.SugaredLogger) {
	logger := base.Named("sarama")
	sarama.Logger = &zapSarama{logger}
	logger.Info("🔧 Sarama logger initialized")
}

type zapSarama struct{ l *zap.SugaredLogger }

func (z *zapSarama) Print(v ...interface{})                 { z.l.Debug(v...) }
func (z *zapSarama) Printf(format string, v ...interface{}) { z.l.Debugf(format, v...) }
func (z *zapSarama) Println(v ...interface{})               { z.l.Debug(v...) }

func splitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func groupName(conf config.Kafka) string {
	if conf.Group != "" {
		return conf.Group
	}
	return _defaultConsumerGroup
}

func consumerConfig(conf config.Kafka) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = _clientID
	// подтверждения, пришедшие пока сервис лежал, тоже нужны
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Return.Errors = true
	applySASLConfig(cfg, conf, false)
	return cfg
}

func producerConfig(conf config.Kafka) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = _clientID

	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 15 * time.Second
	cfg.Net.WriteTimeout = 15 * time.Second
	cfg.Net.KeepAlive = 30 * time.Second

	cfg.Metadata.Timeout = 10 * time.Second
	cfg.Metadata.Retry.Max = 1
	cfg.Metadata.Retry.Backoff = 1 * time.Second
	cfg.Metadata.RefreshFrequency = 1 * time.Minute

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	// повторы делает продюсер приложения, у sarama их нет
	cfg.Producer.Retry.Max = 0
	cfg.Producer.Timeout = 10 * time.Second
	// ключ сообщения - id события, все сообщения события в одной партиции
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	applySASLConfig(cfg, conf, true)
	return cfg
}
