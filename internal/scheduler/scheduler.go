package scheduler

import (
	"context"
	"fmt"
	"time"

	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs periodic store backups.
type Scheduler struct {
	cron    *cron.Cron
	backups services.BackupService
	cfg     config.BackupConfig
}

// NewScheduler creates a scheduler. Schedules use the standard 5-field cron format.
func NewScheduler(cfg config.BackupConfig, backups services.BackupService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		backups: backups,
		cfg:     cfg,
	}
}

// Enabled reports whether both a schedule and a target directory are configured.
func (s *Scheduler) Enabled() bool {
	return s.cfg.Schedule != "" && s.cfg.Dir != ""
}

// Start registers the backup job and starts the scheduler.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		log.Debug().Msg("Scheduled backups disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runBackup); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.cfg.Schedule, err)
	}
	log.Info().Str("schedule", s.cfg.Schedule).Str("dir", s.cfg.Dir).Msg("Starting backup scheduler")
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path, err := s.backups.BackupToDir(ctx, s.cfg.Dir)
	if err != nil {
		log.Error().Err(err).Str("dir", s.cfg.Dir).Msg("Scheduled backup failed")
		return
	}
	log.Info().Str("path", path).Msg("Scheduled backup written")
}
