package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the data and config directories.
const AppName = "splitclock"

// DataDir returns $XDG_DATA_HOME/splitclock, falling back to
// ~/.local/share/splitclock.
func DataDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// ResolvePaths makes every relative path absolute under base. An empty base
// uses DataDir. A leading ~/ expands to the home directory.
func ResolvePaths(paths PathsConfig, base string) PathsConfig {
	if base == "" {
		base = DataDir()
	}
	resolve := func(p string) string {
		p = expandHome(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	return PathsConfig{
		RunState:     resolve(paths.RunState),
		LastTemplate: resolve(paths.LastTemplate),
		Library:      resolve(paths.Library),
		Journal:      resolve(paths.Journal),
		LogDir:       resolve(paths.LogDir),
		Reports:      resolve(paths.Reports),
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
