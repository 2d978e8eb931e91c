package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terraincognita07/vitalcheck/internal/api"
	"github.com/terraincognita07/vitalcheck/internal/cli"
	"github.com/terraincognita07/vitalcheck/internal/config"
	"github.com/terraincognita07/vitalcheck/internal/db"
	"github.com/terraincognita07/vitalcheck/internal/events"
	"github.com/terraincognita07/vitalcheck/internal/i18n"
	"github.com/terraincognita07/vitalcheck/internal/logging"
	"github.com/terraincognita07/vitalcheck/internal/security"
	"github.com/terraincognita07/vitalcheck/internal/services"
	"go.uber.org/zap"
)

const usage = "usage: vitalcheck [serve | issue-token <email>]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command, rest := parseCommand(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	time.Local = cfg.Location

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	switch command {
	case "serve":
		return serve(cfg, logger)
	case "issue-token":
		if len(rest) != 1 {
			return fmt.Errorf("issue-token requires an email\n%s", usage)
		}
		return cli.RunIssueTokenCommand(cli.IssueTokenOptions{
			DBPath:    cfg.DBPath,
			SecretKey: cfg.SecretKey,
			TTL:       security.DefaultTokenTTL,
			Logger:    logger,
		}, rest[0], os.Stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func parseCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "serve", nil
	}
	return args[0], args[1:]
}

func serve(cfg config.Config, logger *zap.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	tokens, err := security.NewTokenIssuer(cfg.SecretKey, security.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("token issuer init failed: %w", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	publisher, err := events.NewPublisher(lifecycleCtx, eventOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("events init failed: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher failed", zap.Error(err))
		}
	}()

	medications := services.NewMedicationService(repositories.Schedules, repositories.Doses)
	checkIns := services.NewCheckInService(repositories.CheckIns, repositories.Progress, repositories.Doses, medications, publisher, logger)
	reminders := services.NewDoseReminderService(repositories.Doses, repositories.Schedules, medications, publisher, cfg.ReminderInterval, cfg.Location, logger)

	handler, err := api.NewHandler(api.Dependencies{
		CheckIns:    checkIns,
		Medications: medications,
		Users:       repositories.Users,
		Tokens:      tokens,
		I18n:        i18nManager,
		Location:    cfg.Location,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler, api.AppOptions{AccessLog: true})

	reminders.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("vitalcheck listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
		zap.String("events", cfg.EventsBackend),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func eventOptions(cfg config.Config) events.Options {
	return events.Options{
		Backend:      cfg.EventsBackend,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		SQSQueueURL:  cfg.SQSQueueURL,
	}
}
