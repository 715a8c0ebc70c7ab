package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"farmbot/internal/adapters/drive"
	"farmbot/internal/adapters/fsdest"
	"farmbot/internal/adapters/twitch"
	"farmbot/internal/adapters/ytdlp"
	"farmbot/internal/config"
	"farmbot/internal/core/ports"
	"farmbot/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load .env file if it exists; environment variables might be set
	// directly by the scheduler instead.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.RootDefaulted && cfg.Backend == config.BackendDrive {
		log.Warn("ROOT_FOLDER_ID not set; defaulting to 'root'")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("received interrupt signal, cancelling")
		cancel()
	}()

	source := twitch.NewClient(cfg.ClientID, cfg.ClientSecret, log)
	log.Info("requesting Twitch app token")
	if err := source.Authenticate(ctx); err != nil {
		log.Fatalf("Twitch authentication failed: %v", err)
	}

	dest, err := buildDestination(ctx, cfg, log)
	if err != nil {
		log.Fatalf("destination setup failed: %v", err)
	}

	orchestrator := service.NewOrchestrator(source, ytdlp.NewFetcher(), dest, cfg, log)
	summary, err := orchestrator.Run(ctx)
	if err != nil {
		log.Fatalf("harvest run failed: %v", err)
	}

	fmt.Println(renderSummary(summary))
}

func buildDestination(ctx context.Context, cfg config.Config, log *logrus.Logger) (ports.Destination, error) {
	switch cfg.Backend {
	case config.BackendDrive:
		return drive.NewDestination(ctx, cfg.DriveKeyB64, cfg.RootFolderID, log)
	case config.BackendMount:
		return fsdest.NewMount(cfg.MountPath), nil
	default:
		return fsdest.NewLocal(cfg.LocalDir), nil
	}
}
