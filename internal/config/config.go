// Package config handles application configuration and paths.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	// Paths
	DataDir      string `json:"dataDir"`
	InstancesDir string `json:"instancesDir"`
	MetaDir      string `json:"metaDir"`
	LibrariesDir string `json:"librariesDir"`
	AssetsDir    string `json:"assetsDir"`

	// Registry
	BaseURL       string `json:"baseUrl"`
	AssetsBaseURL string `json:"assetsBaseUrl"`

	// Java / JVM defaults
	JavaPath string   `json:"javaPath"`
	JVMArgs  []string `json:"jvmArgs"`
	Xms      string   `json:"xms"`
	Xmx      string   `json:"xmx"`

	// UI preferences
	Theme string `json:"theme"`
}

const (
	DefaultBaseURL       = "https://meta.launchcore.dev/v1"
	DefaultAssetsBaseURL = "https://resources.download.minecraft.net"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := getDefaultDataDir()
	return &Config{
		DataDir:       dataDir,
		InstancesDir:  filepath.Join(dataDir, "instances"),
		MetaDir:       filepath.Join(dataDir, "meta"),
		LibrariesDir:  filepath.Join(dataDir, "libraries"),
		AssetsDir:     filepath.Join(dataDir, "assets"),
		BaseURL:       DefaultBaseURL,
		AssetsBaseURL: DefaultAssetsBaseURL,
		JVMArgs:       nil,
		Xms:           "512M",
		Xmx:           "2G",
		Theme:         "dark",
	}
}

// Load reads config from disk, falling back to DefaultConfig if no
// config file exists yet.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(cfg.DataDir, "config.json")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AssetsBaseURL == "" {
		cfg.AssetsBaseURL = DefaultAssetsBaseURL
	}

	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	configPath := filepath.Join(c.DataDir, "config.json")
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDirs creates all required directories.
func (c *Config) EnsureDirs() error {
	dirs := []string{c.DataDir, c.InstancesDir, c.MetaDir, c.LibrariesDir, c.AssetsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getDefaultDataDir() string {
	exe, _ := os.Executable()
	portablePath := filepath.Join(filepath.Dir(exe), "data")
	if _, err := os.Stat(portablePath); err == nil {
		return portablePath
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "launchcore")
	}

	home, _ := os.UserHomeDir()
	switch {
	case os.Getenv("APPDATA") != "": // Windows
		return filepath.Join(os.Getenv("APPDATA"), "launchcore")
	default: // Linux/macOS
		return filepath.Join(home, ".local", "share", "launchcore")
	}
}
