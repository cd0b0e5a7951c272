package paths

import (
	"os"
	"path/filepath"
)

const envHome = "BALDRICK_GITVAULT_HOME_DIR"

// Home returns the base directory for baldrick-gitvault configuration/state.
// Defaults to ~/.baldrick-gitvault, can be overridden via BALDRICK_GITVAULT_HOME_DIR.
func Home() string {
	if v := os.Getenv(envHome); v != "" {
		return v
	}
	hd, err := os.UserHomeDir()
	if err != nil || hd == "" {
		return ".baldrick-gitvault"
	}
	return filepath.Join(hd, ".baldrick-gitvault")
}

func EnsureHome() (string, error) {
	h := Home()
	if err := os.MkdirAll(h, 0o755); err != nil {
		return "", err
	}
	return h, nil
}

// ArchivesDir returns the directory holding filesystem archives.
func ArchivesDir() string {
	return filepath.Join(Home(), "archives")
}
