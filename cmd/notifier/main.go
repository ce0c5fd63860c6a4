package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colporter_notifier/internal/app"
	"colporter_notifier/internal/domain/alert"
	"colporter_notifier/internal/infra/config"
	idb "colporter_notifier/internal/infra/database"
	"colporter_notifier/internal/infra/logger"
	imail "colporter_notifier/internal/infra/mail"
	"colporter_notifier/internal/infra/metrics"
	"colporter_notifier/internal/infra/scheduler"
	itg "colporter_notifier/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Colporter due-date notifier starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.WithComponent("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, ScanInterval: %s", cfg.LogLevel, cfg.Environment, cfg.ScanInterval)

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Repositories
	colporterRepo := idb.NewPostgresColporterRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	notifRepo := idb.NewPostgresNotificationRepository(db)

	// Outbound channels
	mailClient := imail.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	mainLogger.Infof("SMTP client initialized (%s:%d).", cfg.SMTPHost, cfg.SMTPPort)

	var alerter alert.Client
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			mainLogger.Fatalf("Could not create Telegram bot for ops alerts: %v", err)
		}
		alerter = itg.NewTelebotAdapter(bot, cfg.AdminTelegramID)
		mainLogger.Infof("Ops alerts enabled (admin chat: %d).", cfg.AdminTelegramID)
	} else {
		mainLogger.Info("Ops alerts disabled (no TELEGRAM_TOKEN).")
	}

	// Metrics
	m := metrics.New(prometheus.DefaultRegisterer)
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				mainLogger.Errorf("Metrics server error: %v", err)
			}
		}()
		mainLogger.Infof("Metrics listening on %s.", cfg.MetricsAddr)
	}

	// Services
	notifService := app.NewDueNotificationService(
		colporterRepo,
		userRepo,
		notifRepo,
		mailClient,
		m,
		logger.WithComponent("notification_service"),
		cfg.RecordFailedSends,
	)

	// Schedulers
	scanScheduler := scheduler.NewScanScheduler(notifService, alerter, m, logger.WithComponent("scan_scheduler"), cfg.ScanInterval)
	scanScheduler.Start()

	var digestScheduler *scheduler.DigestScheduler
	if cfg.AdminEmail != "" {
		reportService := app.NewReportService(colporterRepo, mailClient, logger.WithComponent("report_service"), cfg.AdminEmail)
		digestScheduler = scheduler.NewDigestScheduler(reportService, logger.WithComponent("digest_scheduler"), cfg.CronSpecAdminDigest)
		if err := digestScheduler.Start(); err != nil {
			mainLogger.Fatalf("Could not start digest scheduler: %v", err)
		}
	} else {
		mainLogger.Info("Admin digest disabled (no ADMIN_EMAIL).")
	}

	mainLogger.Info("Application setup complete. Notifier is running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	scanScheduler.Stop()
	if digestScheduler != nil {
		digestScheduler.Stop()
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	mainLogger.Info("Application shut down gracefully.")
}
