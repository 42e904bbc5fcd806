package util

import (
	"os"
	"path/filepath"
)

// GetDataDirectory figures out where the player keeps its local files
// (config, session database, logs)
func GetDataDirectory() string {
	// explicit override first
	dataDir := os.Getenv("ACADEMY_HOME")
	if dataDir != "" {
		return dataDir
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		// last resort - current directory
		return ".academy"
	}

	return filepath.Join(home, ".academy")
}

// EnsureDirectoryExists creates directory if it doesn't exist
func EnsureDirectoryExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// try to create it
		err = os.MkdirAll(path, 0755)
		if err != nil {
			return false
		}
	}
	return true
}

// ResolveDataPath converts a relative path to one inside the data directory.
// Absolute paths are returned as is.
func ResolveDataPath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(GetDataDirectory(), relativePath)
}
