package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"poultry_farm_backend/internal/database"
)

// BackupFilePrefix names the files written by BackupToDir.
const BackupFilePrefix = "poultry-"

type BackupService interface {
	// Backup writes a copy of the store to path, which must not exist yet.
	Backup(ctx context.Context, path string) (string, error)
	// BackupToDir writes a timestamped copy into dir and returns its path.
	BackupToDir(ctx context.Context, dir string) (string, error)
}

type backupService struct {
	db  *database.DB
	now func() time.Time
}

func NewBackupService(db *database.DB) BackupService {
	return &backupService{db: db, now: time.Now}
}

func (s *backupService) Backup(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", validationError("backup path is required")
	}
	if err := s.db.Backup(ctx, path); err != nil {
		switch {
		case errors.Is(err, database.ErrBackupTargetExists):
			return "", fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
		case errors.Is(err, database.ErrBackupUnsupported):
			return "", fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		return "", fmt.Errorf("failed to back up store: %w", err)
	}
	return path, nil
}

func (s *backupService) BackupToDir(ctx context.Context, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", validationError("backup directory is required")
	}
	name := BackupFilePrefix + s.now().Format("20060102-150405") + ".db"
	return s.Backup(ctx, filepath.Join(dir, name))
}
