package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneymanager/internal/auth"
	"moneymanager/internal/config"
	"moneymanager/internal/db"
	"moneymanager/internal/mail"
	"moneymanager/internal/scheduler"
	"moneymanager/internal/server"
	"moneymanager/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(cfg.DatabaseDSN); err != nil {
			slog.Error("migrate-only failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations completed; exiting as requested")
		return
	}

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.SummaryTZ)
	if err != nil {
		slog.Warn("invalid SUMMARY_TZ, falling back to UTC", "tz", cfg.SummaryTZ, "error", err)
		loc = time.UTC
	}

	mailer := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)

	profiles := services.NewProfileService(conn, tokens, mailer, cfg.ActivationURL)
	categories := services.NewCategoryService(conn)
	transactions := services.NewTransactionService(conn, categories)
	dashboard := services.NewDashboardService(transactions)
	notifications := services.NewNotificationService(conn, transactions, mailer, cfg.FrontendURL, loc)

	handler := server.New(server.Deps{
		DB:            conn,
		Tokens:        tokens,
		Profiles:      profiles,
		Categories:    categories,
		Transactions:  transactions,
		Dashboard:     dashboard,
		Notifications: notifications,
		Mailer:        mailer,
	})

	var jobs *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		jobs = scheduler.New(loc)
		reminder := func(ctx context.Context) error {
			_, err := notifications.SendDailyReminder(ctx)
			return err
		}
		summary := func(ctx context.Context) error {
			_, err := notifications.SendDailyExpenseSummary(ctx)
			return err
		}
		if err := jobs.Add(cfg.ReminderCron, "daily_reminder", reminder); err != nil {
			slog.Error("invalid REMINDER_CRON", "spec", cfg.ReminderCron, "error", err)
			os.Exit(1)
		}
		if err := jobs.Add(cfg.SummaryCron, "daily_expense_summary", summary); err != nil {
			slog.Error("invalid SUMMARY_CRON", "spec", cfg.SummaryCron, "error", err)
			os.Exit(1)
		}
		jobs.Start()
		slog.Info("scheduler started", "reminder", cfg.ReminderCron, "summary", cfg.SummaryCron, "tz", loc.String())
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	if jobs != nil {
		jobs.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("server gracefully stopped")
}
