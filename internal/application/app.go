package application

import (
	"context"
	"fmt"
	"planner/internal/application/common"
	"planner/internal/application/holiday"
	"planner/internal/application/repo"
	"planner/internal/application/service"
	"planner/internal/application/use-cases"
	"planner/internal/controllers/cron"
	"planner/internal/controllers/handler"
	"planner/internal/controllers/listener"
	"planner/internal/transport/producer"
	"planner/pkg/broker"
	"planner/pkg/config"
	"planner/pkg/db"
	"planner/pkg/httpclient"
	"planner/pkg/metrics"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const consumerRetryDelay = time.Second

type App struct {
	ctx            context.Context
	conf           *config.Config
	logger         *zap.SugaredLogger
	postgres       *db.Postgres
	httpServer     *fiber.App
	httpClient     *httpclient.Client
	kafka          *broker.KafkaBroker
	cronController *cron.Controller
}

func NewApp(
	ctx context.Context,
	conf *config.Config,
	logger *zap.SugaredLogger,
	postgres *db.Postgres,
	httpServer *fiber.App,
	kafkaBroker *broker.KafkaBroker,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer) (*App, error) {
	//Логируем версию приложения
	logger.Infof("Запуск Planner Service версии: %s", common.Version)

	go func() {
		<-ctx.Done()
		logger.Info("закрытие kafka broker")
		if err := kafkaBroker.Close(); err != nil {
			logger.Warnf("закрытие kafka broker: %v", err)
		}
		logger.Info("закрытие kafka broker: done")
	}()

	// Праздники: встроенная таблица, поверх нее файл, поверх - удаленный источник
	fileHolidays, err := holiday.LoadYAML(conf.Holidays.File)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	if len(fileHolidays) > 0 {
		logger.Infof("Праздники из файла %s: %v", conf.Holidays.File, fileHolidays.Dates())
	}
	httpClient := httpclient.NewClient(conf.HTTPClient)
	var remote holiday.Fetcher
	if conf.Holidays.RemoteURL != "" {
		retry := httpclient.NewRetryClient(httpClient, conf.HTTPClient.MaxRetries, logger)
		remote = holiday.NewRemoteSource(retry, conf.Holidays.RemoteURL)
		logger.Infof("Удаленный источник праздников: %s", conf.Holidays.RemoteURL)
	}
	holidays := holiday.NewProvider(holiday.Merge(holiday.Default(), fileHolidays), remote, conf.Holidays.RetryAfter, logger)

	store := repo.NewRepo(postgres, logger, m)
	tx := repo.NewTransactions(store, logger)
	kafkaProducer := producer.NewProducer(kafkaBroker, logger, conf.Broker.Kafka.MaxAttempts, m)
	srv := service.NewService(store, tx, kafkaProducer, holidays, logger, m, conf)
	uc := use_cases.NewUseCase(srv, logger, conf)
	h := handler.NewEventHandler(uc, logger)
	r := handler.NewRouter(h, httpServer, conf, logger, gatherer)

	// Cron: очистка старых событий и поиск наступивших напоминаний
	cronController := cron.NewController(ctx, logger)
	if err := cronController.RegisterDeleteOldEventsJob(uc, conf.Cron); err != nil {
		return nil, err
	}
	if err := cronController.RegisterReminderJob(uc, conf.Reminder); err != nil {
		return nil, err
	}
	cronController.Start()

	go uc.RunRelay(ctx)

	r.RegisterRouter()

	app := &App{
		ctx:            ctx,
		conf:           conf,
		logger:         logger,
		postgres:       postgres,
		httpServer:     httpServer,
		httpClient:     httpClient,
		kafka:          kafkaBroker,
		cronController: cronController,
	}

	go app.runConsumer(ctx, uc, m)

	return app, nil
}

func (a *App) Run() error {
	return a.httpServer.Listen(fmt.Sprintf(":%s", a.conf.Server.Port))
}

func (a *App) Shutdown() error {
	// Останавливаем cron задачи
	if a.cronController != nil {
		a.cronController.Stop()
	}
	a.httpClient.CloseIdle()
	return a.httpServer.Shutdown()
}

// runConsumer читает топик подтверждений, пока не отменен контекст; после ошибки переподключается.
func (a *App) runConsumer(ctx context.Context, usecase use_cases.UseCaser, m *metrics.Metrics) {
	a.logger.Infof("🚀 Запуск consumer для топика: %s", a.kafka.ConsumerTopic)

	kafkaBrokerConsumer := listener.NewKafkaBrokerConsumer(usecase, a.logger, m)

	for {
		a.logger.Infof("🔄 Попытка подключения к consumer group...")
		err := a.kafka.ConsumerGroup.Consume(ctx, []string{a.kafka.ConsumerTopic}, kafkaBrokerConsumer)
		if err != nil {
			a.logger.Errorf("Ошибка consumer: %v", err)
			_ = common.SleepCtx(ctx, consumerRetryDelay)
		}
		if ctx.Err() != nil {
			a.logger.Info("Consumer остановлен по контексту")
			return
		}
	}
}
