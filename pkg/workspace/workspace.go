package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "zx"

// Workspace represents the managed storage directory for zx
type Workspace struct {
	RootPath     string
	SessionsPath string
	ExportsPath  string
	CachePath    string
	ConfigPath   string
}

// New creates a new Workspace instance with XDG-compliant paths
func New() (*Workspace, error) {
	rootPath, rootErr := getDataRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine workspace root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt creates a Workspace rooted at an explicit directory
func NewAt(rootPath, configPath string) *Workspace {
	return &Workspace{
		RootPath:     rootPath,
		SessionsPath: filepath.Join(rootPath, "sessions"),
		ExportsPath:  filepath.Join(rootPath, "exports"),
		CachePath:    filepath.Join(rootPath, "cache"),
		ConfigPath:   configPath,
	}
}

// getDataRoot returns the workspace root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getDataRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.SessionsPath,
		w.ExportsPath,
		w.CachePath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DefaultSessionPath is where `init --demo` puts its session
func (w *Workspace) DefaultSessionPath() string {
	return filepath.Join(w.SessionsPath, "current")
}

// GetSessionPath returns the full path for a named session
func (w *Workspace) GetSessionPath(name string) string {
	return filepath.Join(w.SessionsPath, name)
}

// HistoryPath returns the path to the export history manifest
func (w *Workspace) HistoryPath() string {
	return filepath.Join(w.ExportsPath, "history.json")
}

// CleanCache removes all files in the cache directory
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
