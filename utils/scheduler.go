package utils

import (
	"learnhub/config"
	"learnhub/services/notifications"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// NotificationChannels builds the delivery channels that are configured.
// The returned alerter is the admin chat when Telegram is set up, the log
// otherwise.
func NotificationChannels() ([]notifications.Channel, notifications.Alerter) {
	cfg := config.AppConfig
	var channels []notifications.Channel
	var alerter notifications.Alerter = notifications.LogAlerter{}

	if cfg.SendgridAPIKey != "" {
		channels = append(channels, notifications.NewEmailChannel(cfg.SendgridAPIKey, cfg.EmailSender))
	}
	if cfg.NotifyWebhookURL != "" {
		channels = append(channels, notifications.NewWebhookChannel(cfg.NotifyWebhookURL))
	}
	if cfg.TelegramBotToken != "" {
		telegram, err := notifications.NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
		if err != nil {
			slog.Error("telegram channel disabled", "error", err)
		} else {
			channels = append(channels, telegram)
			alerter = telegram
		}
	}
	return channels, alerter
}

// InitializeNotificationSchedulers starts the outbox drain and the daily
// stale review reminder.
func InitializeNotificationSchedulers(db *gorm.DB) *cron.Cron {
	cfg := config.AppConfig
	slog.Info("initializing notification schedulers")

	// Create cron scheduler with IST timezone
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	c := cron.New(cron.WithLocation(loc))

	channels, alerter := NotificationChannels()
	dispatcher := notifications.NewDispatcher(db, channels...)
	if err := dispatcher.Schedule(c, cfg.DispatchSchedule); err != nil {
		slog.Error("schedule notification drain", "spec", cfg.DispatchSchedule, "error", err)
	}

	reminder := notifications.NewReviewReminder(db, alerter)
	if err := reminder.Schedule(c, cfg.ReviewReminderSchedule); err != nil {
		slog.Error("schedule review reminder", "spec", cfg.ReviewReminderSchedule, "error", err)
	}

	c.Start()
	slog.Info("notification schedulers started",
		"channels", len(channels),
		"dispatch", cfg.DispatchSchedule,
		"reminder", cfg.ReviewReminderSchedule)
	return c
}
