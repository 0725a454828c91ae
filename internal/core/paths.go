package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir        string
	ConfigDir      string
	ConfigFile     string
	DataDir        string
	LogFile        string
	SelectionsFile string
}

var defaultPaths *Paths

func newPaths(homeDir string) *Paths {
	configDir := filepath.Join(homeDir, ".config", "gsuggest")
	dataDir := filepath.Join(homeDir, ".local", "share", "gsuggest")

	return &Paths{
		HomeDir:        homeDir,
		ConfigDir:      configDir,
		ConfigFile:     filepath.Join(configDir, "config.yaml"),
		DataDir:        dataDir,
		LogFile:        filepath.Join(dataDir, "gsuggest.log"),
		SelectionsFile: filepath.Join(dataDir, "selections.db"),
	}
}

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = newPaths(homeDir)

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

// ConfigFile is where the application config is read from when no other
// file is given. It may not exist.
func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func SelectionsFile() string {
	ensureDefaultPaths()
	return defaultPaths.SelectionsFile
}
