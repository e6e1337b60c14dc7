package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"planner/docs"
	"planner/internal/application"
	"planner/pkg/broker"
	"planner/pkg/config"
	"planner/pkg/db"
	"planner/pkg/httpserver"
	"planner/pkg/metrics"
	"planner/pkg/observability"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
)

// @title           Planner Service API
// @version         1.0
// @description     Личный календарь: события, пересечения, повторения, напоминания и праздники

// @BasePath /calendar/api

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.InitLogger(conf.LoggingLevel)
	defer func() { _ = logger.Sync() }()

	logger.Infof("LOGGING_LEVEL = %s", conf.LoggingLevel)
	if strings.ToLower(conf.LoggingLevel) == "debug" {
		broker.EnableSaramaZapLogs(logger)
	}

	docs.SwaggerInfo.Host = conf.Server.SwaggerHost
	if conf.Server.SwaggerSchema != "" {
		docs.SwaggerInfo.Schemes = []string{conf.Server.SwaggerSchema}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	fiberServer := httpserver.NewFiber(conf, m)

	store, err := db.NewPostgres(ctx, conf.Postgres)
	if err != nil {
		logger.Fatal(err)
	}

	kafka, err := broker.NewKafkaBroker(conf.Broker.Kafka, logger)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("🚀 Kafka broker создан успешно. Consumer topic: %s, Producer topic: %s", kafka.ConsumerTopic, kafka.ProducerTopic)

	server, err := application.NewApp(ctx, &conf, logger, store, fiberServer, kafka, m, prometheus.DefaultGatherer)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Info("Planner service started successfully")
	logger.Infof("Server config: port=%s swagger_host=%s body_limit=%d", conf.Server.Port, conf.Server.SwaggerHost, conf.Server.BodyLimit)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("error listening for server: %v", err)
				return
			}

			logger.Infof("server %v closed", conf.Server.Port)
		}
	}()

	//graceful shutdown
	osSignal := <-interrupt
	switch osSignal {
	case os.Interrupt:
		logger.Infof("%v Got SIGINT...", conf.Server.Port)
	case syscall.SIGTERM:
		logger.Infof("%v Got SIGTERM...", conf.Server.Port)
	}

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Fatalf("server %v forced to shutdown: %v", conf.Server.Port, err)
		return
	}

	store.Close()
	logger.Infof("postgres db connection closed")

	logger.Infof("server shutdown %v done", conf.Server.Port)
}
