package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "TOPOEDIT_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "topoedit.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "topoedit"
)

// SearchPaths returns the candidate config locations in priority order:
//  1. $TOPOEDIT_CONFIG
//  2. ./topoedit.yaml
//  3. $XDG_CONFIG_HOME/topoedit/config.yaml
//  4. ~/.config/topoedit/config.yaml
//  5. /etc/topoedit/config.yaml
func SearchPaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	paths = append(paths, userConfigPaths()...)
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing entry of SearchPaths, or an
// empty string if there is none
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
func DefaultConfigPath() string {
	if paths := userConfigPaths(); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

// userConfigPaths returns the per-user locations, XDG first
func userConfigPaths() []string {
	var paths []string
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		paths = append(paths, filepath.Join(base, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return paths
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
