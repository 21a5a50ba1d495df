package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const appName = "timewatch"

// BackupPath returns a fresh auto-save location under the XDG data directory,
// creating parent directories as needed.
func BackupPath(now time.Time) (string, error) {
	name := now.Format("20060102-150405.000") + ".sqlite"
	path, err := xdg.DataFile(filepath.Join(appName, "backups", name))
	if err != nil {
		return "", fmt.Errorf("resolve backup path: %w", err)
	}
	return path, nil
}

// LogPath returns the debug log location under the XDG state directory.
func LogPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}
