package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

var (
	// ErrBackupUnsupported is returned when the configured engine cannot snapshot itself to a file.
	ErrBackupUnsupported = errors.New("backup is only supported for the sqlite3 store")
	// ErrBackupTargetExists is returned when the destination file already exists.
	ErrBackupTargetExists = errors.New("backup destination already exists")
)

// Backup writes a consistent copy of the store to path. The file must not exist yet.
func (db *DB) Backup(ctx context.Context, path string) error {
	if !db.IsSQLite() {
		return ErrBackupUnsupported
	}
	if path == "" {
		return errors.New("backup path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrBackupTargetExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking backup destination: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating backup directory: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	log.Info().Str("path", path).Msg("Database backup written")
	return nil
}
