package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivakhin/orderstore/internal/app"
	"github.com/ivakhin/orderstore/internal/cache"
	"github.com/ivakhin/orderstore/internal/config"
	"github.com/ivakhin/orderstore/internal/handler"
	"github.com/ivakhin/orderstore/internal/postgres"
	"github.com/ivakhin/orderstore/internal/repo"
	"github.com/ivakhin/orderstore/internal/service"
	"github.com/ivakhin/orderstore/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderCache, err := cache.New(conf.Cache.Capacity)
	panicIfErr("failed to create cache", err)

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderService := service.NewOrderService(logger, txManager, orderRepo, orderCache)

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, orderService)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(httpHandler)
	application.SetConsumers(kafkaHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := orderService.WarmUpCache(ctx, conf.Cache.Capacity); err != nil {
		logger.Warn("cache warm up failed", slog.Any("error", err))
	}

	panicIfErr("application failed", application.Run(ctx))
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
