package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pershin-daniil/hrdesk/internal/calendar"
	"github.com/pershin-daniil/hrdesk/internal/rest"
	"github.com/pershin-daniil/hrdesk/pkg/config"
	"github.com/pershin-daniil/hrdesk/pkg/logger"
	"github.com/pershin-daniil/hrdesk/pkg/notifier"
	"github.com/pershin-daniil/hrdesk/pkg/service"
	"github.com/pershin-daniil/hrdesk/pkg/upstream"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	publicKey, err := rest.LoadPublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Panic(err)
	}
	client := upstream.New(log, cfg.Upstream.URL, cfg.Upstream.Token)

	var notify service.Notifier = notifier.NewDummyNotifier(log)
	if cfg.TelegramToken != "" {
		bot, err := notifier.NewBot(cfg.TelegramToken)
		if err != nil {
			log.Panic(err)
		}
		notify = notifier.NewTelegram(log, bot, cfg.TelegramChats)
	}

	adapter := calendar.NewAdapter(cfg.Calendar.VacationLabel, cfg.Calendar.VacationColor)
	app := service.NewDashboardService(log, client, notify, adapter, cfg.Location())
	server := rest.New(log, app, cfg.Listen, version, publicKey)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
		<-sigCh
		log.Info("Received signal, shutting down...")
		cancel()
	}()
	if err = server.Run(ctx); err != nil {
		log.Panic(err)
	}
	log.Info("Server stopped")
}
