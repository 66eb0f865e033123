package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	adaptergrpc "lighthousebot/adapter/grpc"
	adapterwebsocket "lighthousebot/adapter/websocket"
	"lighthousebot/config"
	"lighthousebot/domain"
	"lighthousebot/handler"
	"lighthousebot/server"
	"lighthousebot/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("bot stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := adaptergrpc.NewClient(cfg.GameServerAddr, cfg.JoinTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	endpoint, err := adaptergrpc.NewServer(adaptergrpc.ServerConfig{
		Addr:          cfg.ListenAddr,
		Workers:       cfg.Workers,
		ShutdownGrace: cfg.ShutdownGrace,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	var (
		session  *service.GameSession
		feed     *adapterwebsocket.Feed
		observer domain.TurnObserver
	)
	if cfg.DebugAddr != "" {
		feed = adapterwebsocket.NewFeed(func() []domain.TurnRecord { return session.History() }, logger)
		observer = feed
	}

	session, err = service.NewGameSession(service.Config{
		BotName:      cfg.BotName,
		CallbackAddr: cfg.ListenAddr,
		RetryDelay:   cfg.JoinRetryDelay,
		HistorySize:  cfg.HistorySize,
		Logger:       logger,
		Observer:     observer,
	}, client)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "starting bot",
		"sessionID", session.SessionID(),
		"name", cfg.BotName,
		"listenAddr", cfg.ListenAddr,
		"gameServer", cfg.GameServerAddr,
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return session.Run(ctx, endpoint)
	})
	if feed != nil {
		debug := server.NewServer(cfg.DebugAddr, server.Route(feed, handler.NewHandler(session)), logger)
		eg.Go(func() error {
			return debug.Run(ctx)
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
