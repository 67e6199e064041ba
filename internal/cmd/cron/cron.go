// Package cron runs the periodic scheduling checks: booking reminders,
// understaffed-night alerts and outbox delivery. It performs one pass and
// exits, so an external scheduler drives the cadence.
package cron

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/text/language"

	"github.com/tbhone/folies-planning/internal/notify"
	notifydomain "github.com/tbhone/folies-planning/internal/notify/domain"
	notifysqlite "github.com/tbhone/folies-planning/internal/notify/storage/sqlite"
	platformcmd "github.com/tbhone/folies-planning/internal/platform/cmd"
	"github.com/tbhone/folies-planning/internal/schedule/service"
	schedulesqlite "github.com/tbhone/folies-planning/internal/schedule/storage/sqlite"
)

// Config holds cron run configuration.
type Config struct {
	DBPath       string `env:"FOLIES_PLANNING_DB_PATH" envDefault:"planning.db"`
	OutboxDBPath string `env:"FOLIES_PLANNING_OUTBOX_DB_PATH" envDefault:"outbox.db"`
	Locale       string `env:"FOLIES_PLANNING_LOCALE" envDefault:"en"`
	FlushLimit   int    `env:"FOLIES_PLANNING_FLUSH_LIMIT" envDefault:"100"`
}

// ParseConfig loads environment defaults and parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the schedule SQLite database")
	fs.StringVar(&cfg.OutboxDBPath, "outbox-db", cfg.OutboxDBPath, "Path to the outbox SQLite database")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for rendered notifications")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run performs one reminder and alert pass, then flushes the outbox.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceCron, func(ctx context.Context) error {
		scheduleStore, err := schedulesqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open schedule storage: %w", err)
		}
		defer scheduleStore.Close()

		outboxStore, err := notifysqlite.Open(cfg.OutboxDBPath)
		if err != nil {
			return fmt.Errorf("open outbox storage: %w", err)
		}
		defer outboxStore.Close()

		outbox := notifydomain.NewService(notify.NewStoreAdapter(outboxStore), nil, nil)
		notifier := notify.NewAssignmentNotifier(outbox)
		schedule := service.New(scheduleStore, notifier)

		reminders, err := schedule.DueReminders(ctx)
		if err != nil {
			return fmt.Errorf("collect due reminders: %w", err)
		}
		for _, reminder := range reminders {
			if err := notifier.EnqueueReminder(ctx, reminder); err != nil {
				return fmt.Errorf("enqueue reminder %s: %w", reminder.DedupeKey, err)
			}
		}

		alerts, err := schedule.AdminAlerts(ctx)
		if err != nil {
			return fmt.Errorf("collect staffing alerts: %w", err)
		}
		if len(alerts) > 0 {
			performers, err := schedule.ListPerformers(ctx)
			if err != nil {
				return fmt.Errorf("list alert recipients: %w", err)
			}
			for _, alert := range alerts {
				for _, performer := range performers {
					if !performer.Admin {
						continue
					}
					if err := notifier.EnqueueAdminAlert(ctx, performer, alert); err != nil {
						return fmt.Errorf("enqueue staffing alert %s: %w", alert.DedupeKey, err)
					}
				}
			}
		}

		lang, err := language.Parse(cfg.Locale)
		if err != nil {
			log.Printf("unknown locale %q, falling back to English", cfg.Locale)
			lang = language.English
		}
		result, err := outbox.Flush(ctx, notify.NewLogSender(lang), cfg.FlushLimit)
		if err != nil {
			return fmt.Errorf("flush outbox: %w", err)
		}
		log.Printf("cron pass: %d reminders, %d alerts, %d sent, %d failed",
			len(reminders), len(alerts), result.Sent, result.Failed)
		return nil
	})
}
