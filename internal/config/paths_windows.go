//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	local := os.Getenv("LOCALAPPDATA")
	programData := os.Getenv("ProgramData")
	return []string{
		"simhub.yaml",
		filepath.Join(local, "SimHub", "config.yaml"),
		filepath.Join(programData, "SimHub", "simhub.yaml"),
	}
}
