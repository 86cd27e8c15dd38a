package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/pershin-daniil/hrdesk/internal/backend"
	"github.com/pershin-daniil/hrdesk/internal/telegram"
	"github.com/pershin-daniil/hrdesk/pkg/config"
	"github.com/pershin-daniil/hrdesk/pkg/logger"
	"github.com/pershin-daniil/hrdesk/pkg/notifier"
	"github.com/pershin-daniil/hrdesk/pkg/pgstore"
	"github.com/pershin-daniil/hrdesk/pkg/worker"
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
	store, err := pgstore.NewStore(ctx, log, cfg.PgDSN)
	if err != nil {
		log.Panic(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnf("err closing store: %v", err)
		}
	}()
	if err = store.Migrate(migrate.Up); err != nil {
		log.Panic(err)
	}

	var (
		notify worker.Notifier = notifier.NewDummyNotifier(log)
		tg     *telegram.Telegram
	)
	if cfg.TelegramToken != "" {
		bot, err := notifier.NewBot(cfg.TelegramToken)
		if err != nil {
			log.Panic(err)
		}
		notify = notifier.NewTelegram(log, bot, cfg.TelegramChats)
		tg = telegram.New(log, bot, store, cfg.TelegramChats, cfg.Location())
	}

	server := backend.New(log, store, cfg.BackendListen, version, cfg.Upstream.Token)
	reminders := worker.New(log, store, notify, cfg.Location())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
		<-sigCh
		log.Info("Received signal, shutting down...")
		cancel()
	}()
	var wg sync.WaitGroup
	if tg != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tg.Run(ctx)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := reminders.Run(ctx, cfg.ReminderCron); err != nil {
			log.Errorf("reminder worker stopped: %v", err)
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Run(ctx); err != nil {
			log.Panic(err)
		}
	}()
	wg.Wait()
	log.Info("Server stopped")
}
