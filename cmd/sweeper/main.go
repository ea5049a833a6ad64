package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"rihla/internal/config"
	"rihla/internal/database"
	"rihla/internal/modules/distribution"
	"rihla/internal/notification"
)

// The sweeper runs the periodic jobs: premium assignment for unmatched
// leads, lead expiry, follow-up reminders and retention cleanup. It runs
// apart from the API so a slow sweep never holds up request traffic.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "rihla-sweeper").Logger()
	if cfg.Server.Env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(db, hub, log, 256)
	dispatcher.Start()
	defer dispatcher.Stop()

	distCfg := distribution.DefaultConfig()
	distCfg.MaxProviders = cfg.Distribution.MaxProviders
	svc := distribution.NewService(db, distCfg, dispatcher, log)

	c := cron.New()
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) (int, error)
	}{
		{"premium_assign", cfg.Sweeper.PremiumSpec, svc.SweepAssignPremium},
		{"expire", cfg.Sweeper.ExpireSpec, svc.SweepExpire},
		{"follow_up_reminders", cfg.Sweeper.ReminderSpec, svc.SweepFollowUpReminders},
		{"retention_cleanup", cfg.Sweeper.RetentionSpec, svc.SweepRetentionCleanup},
	}
	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.spec, func() {
			n, err := job.run(context.Background())
			if err != nil {
				log.Error().Err(err).Str("job", job.name).Msg("sweep failed")
				return
			}
			log.Info().Str("job", job.name).Int("affected", n).Msg("sweep finished")
		})
		if err != nil {
			log.Fatal().Err(err).Str("job", job.name).Msg("invalid cron spec")
		}
	}

	c.Start()
	log.Info().Msg("sweeper started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Info().Msg("sweeper stopped")
}
