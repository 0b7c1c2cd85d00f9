//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		"simhub.yaml",
		filepath.Join(home, ".simhub", "config.yaml"),
		"/etc/simhub/simhub.yaml",
	}
}
