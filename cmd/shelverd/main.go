package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shelver/internal/config"
	"shelver/internal/daemon"
	"shelver/internal/ipc"
	"shelver/internal/logging"
	"shelver/internal/records"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := records.Open()
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		return
	}
	defer store.Close()

	scheduler := buildScheduler(cfg, store, logger)

	d, err := daemon.New(cfg, store, scheduler, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start ipc server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}
	defer d.Stop()

	<-ctx.Done()
	logger.Info("shelverd shutting down")
}
