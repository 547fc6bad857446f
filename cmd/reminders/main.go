package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	pg "vetcare-api/internal/adapters/storage/postgres"
	"vetcare-api/internal/config"
	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/logger"
)

// Batch de recordatorios de turnos. Sin -interval corre una pasada y
// termina (pensado para cron); con -interval queda en loop con ticker.
func main() {
	interval := flag.Duration("interval", 0, "correr en loop cada tanto; 0 = una sola pasada")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{App: "vetcare-reminders"}).Error("config load failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "vetcare-reminders",
	})

	if cfg.Database.DSN == "" {
		log.Error("DB_DSN is required for the reminders batch", nil)
		os.Exit(1)
	}

	db, err := pg.Open(cfg.Database.DSN)
	if err != nil {
		log.Error("db open failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()

	notificationsSvc := notifications.NewService(pg.NewNotificationsRepo(db))
	petsSvc := pets.NewService(pg.NewPetsRepo(db), notificationsSvc, log, cfg.Pets.QRBaseURL)
	appointmentsSvc := appointments.NewService(pg.NewAppointmentsRepo(db), petsSvc, notificationsSvc, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runOnce := func() {
		n, err := appointmentsSvc.DispatchDueReminders(ctx, time.Now().UTC())
		if err != nil {
			log.Error("reminder dispatch failed", map[string]any{"error": err.Error()})
			return
		}
		log.Info("reminder dispatch done", map[string]any{"dispatched": n})
	}

	runOnce()
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping", nil)
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
