package utils

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// FormatFileSize formats file size in human-readable binary units
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// ExpandPath expands ~ and makes the path absolute
func ExpandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		return absPath
	}

	return path
}
