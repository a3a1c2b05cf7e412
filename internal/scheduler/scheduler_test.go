package scheduler

import (
	"context"
	"sync"
	"testing"

	"poultry_farm_backend/internal/config"
)

type fakeBackups struct {
	mu   sync.Mutex
	dirs []string
}

func (f *fakeBackups) Backup(_ context.Context, path string) (string, error) {
	return path, nil
}

func (f *fakeBackups) BackupToDir(_ context.Context, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs = append(f.dirs, dir)
	return dir + "/poultry-test.db", nil
}

func TestSchedulerEnabled(t *testing.T) {
	tests := []struct {
		cfg  config.BackupConfig
		want bool
	}{
		{config.BackupConfig{}, false},
		{config.BackupConfig{Dir: "/tmp/b"}, false},
		{config.BackupConfig{Schedule: "@daily"}, false},
		{config.BackupConfig{Dir: "/tmp/b", Schedule: "@daily"}, true},
	}
	for _, tt := range tests {
		if got := NewScheduler(tt.cfg, &fakeBackups{}).Enabled(); got != tt.want {
			t.Fatalf("Enabled(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(config.BackupConfig{Dir: "/tmp/b", Schedule: "every tuesday"}, &fakeBackups{})
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatalf("Start accepted an invalid schedule")
	}
}

func TestRunBackupUsesConfiguredDir(t *testing.T) {
	backups := &fakeBackups{}
	s := NewScheduler(config.BackupConfig{Dir: "/var/backups/farm", Schedule: "0 2 * * *"}, backups)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	s.runBackup()
	if len(backups.dirs) != 1 || backups.dirs[0] != "/var/backups/farm" {
		t.Fatalf("backups = %v", backups.dirs)
	}
}
