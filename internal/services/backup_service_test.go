package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/database"
)

func TestBackupToDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := database.OpenAndMigrate(ctx, config.DatabaseConfig{Driver: database.DriverSQLite, Path: filepath.Join(dir, "farm.db")})
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	svc := NewBackupService(db).(*backupService)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 18, 30, 5, 0, time.UTC) }

	path, err := svc.BackupToDir(ctx, filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("BackupToDir: %v", err)
	}
	if filepath.Base(path) != "poultry-20240315-183005.db" {
		t.Fatalf("backup name = %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup missing: %v", err)
	}

	if _, err := svc.BackupToDir(ctx, filepath.Join(dir, "backups")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if _, err := svc.Backup(ctx, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestExportWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.cashSale(t, 100, 60)
	env.birdBatch(t, 20, 2)

	reports := NewReportService(env.accounting, env.sales, env.broilers)
	target := filepath.Join(t.TempDir(), "farm-report")
	path, err := reports.ExportWorkbook(ctx, target)
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}
	if path != target+".xlsx" {
		t.Fatalf("path = %q, want %q", path, target+".xlsx")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}
	if _, err := reports.ExportWorkbook(ctx, path); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}
