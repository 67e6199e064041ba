// Package planning wires configuration and dependencies for the planning
// HTTP service.
package planning

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tbhone/folies-planning/internal/httpapi"
	"github.com/tbhone/folies-planning/internal/notify"
	notifydomain "github.com/tbhone/folies-planning/internal/notify/domain"
	notifysqlite "github.com/tbhone/folies-planning/internal/notify/storage/sqlite"
	platformcmd "github.com/tbhone/folies-planning/internal/platform/cmd"
	"github.com/tbhone/folies-planning/internal/schedule/service"
	schedulesqlite "github.com/tbhone/folies-planning/internal/schedule/storage/sqlite"
)

// Config holds planning service configuration.
type Config struct {
	Port          int    `env:"FOLIES_PLANNING_PORT" envDefault:"8080"`
	DBPath        string `env:"FOLIES_PLANNING_DB_PATH" envDefault:"planning.db"`
	OutboxDBPath  string `env:"FOLIES_PLANNING_OUTBOX_DB_PATH" envDefault:"outbox.db"`
	SessionSecret string `env:"FOLIES_PLANNING_SESSION_SECRET"`
	AdminUsername string `env:"FOLIES_PLANNING_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"FOLIES_PLANNING_ADMIN_PASSWORD"`
}

// ParseConfig loads environment defaults and parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The planning HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the schedule SQLite database")
	fs.StringVar(&cfg.OutboxDBPath, "outbox-db", cfg.OutboxDBPath, "Path to the outbox SQLite database")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("FOLIES_PLANNING_SESSION_SECRET is required")
	}
	if cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("FOLIES_PLANNING_ADMIN_PASSWORD is required")
	}
	return cfg, nil
}

// Run starts the planning HTTP service and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServicePlanning, func(ctx context.Context) error {
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
		schedule := service.New(scheduleStore, notify.NewAssignmentNotifier(outbox))

		if err := schedule.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin account: %w", err)
		}
		backfilled, err := schedule.BackfillLegacyFees(ctx)
		if err != nil {
			return fmt.Errorf("backfill legacy fees: %w", err)
		}
		if backfilled > 0 {
			log.Printf("backfilled fees for %d migrated assignments", backfilled)
		}

		tokens, err := httpapi.NewTokenIssuer(cfg.SessionSecret)
		if err != nil {
			return err
		}
		api, err := httpapi.NewServer(schedule, scheduleStore, tokens)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("planning service listening on %s", server.Addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}
