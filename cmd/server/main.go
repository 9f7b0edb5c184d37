package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shahzadakram74/TradesCaptureService/internal/audit"
	"github.com/shahzadakram74/TradesCaptureService/internal/config"
	httpserver "github.com/shahzadakram74/TradesCaptureService/internal/http"
	kafkaconsumer "github.com/shahzadakram74/TradesCaptureService/internal/kafka"
	"github.com/shahzadakram74/TradesCaptureService/internal/logging"
	"github.com/shahzadakram74/TradesCaptureService/internal/processor"
	"github.com/shahzadakram74/TradesCaptureService/internal/publish"
	"github.com/shahzadakram74/TradesCaptureService/internal/transform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := audit.NewStore()
	pub := publish.NewKafka(cfg.KafkaBrokers, cfg.KafkaOutboundTopic, logger)
	proc := processor.New(cfg.PlatformID, store, transform.New(logger), pub, logger)

	feed := kafkaconsumer.NewFeed(kafkaconsumer.FeedConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaInboundTopic,
		GroupID: cfg.KafkaGroupID,
		Workers: cfg.FeedWorkers,
	}, proc, logger)

	s := httpserver.NewServer(proc, store, logger, cfg.CORSOrigin, cfg.MaxUploadBytes)
	server := &http.Server{Addr: ":" + cfg.Port, Handler: s.R}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := feed.Run(gctx); err != nil {
			logger.Error("consumer", zap.Error(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("http listening", zap.String("port", cfg.Port), zap.String("platform_id", cfg.PlatformID))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctxShut, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShut()
		return server.Shutdown(ctxShut)
	})

	if err := g.Wait(); err != nil {
		logger.Error("stopped with error", zap.Error(err))
	}
	// Flush in-flight async publishes before exit.
	if err := pub.Close(); err != nil {
		logger.Error("publisher close", zap.Error(err))
	}
	logger.Info("shutdown complete", zap.Int("audited_trades", store.Len()))
}
