// Package paths provides directory paths for quill.
//
// Directory layout:
//   - Config (config.yaml): ~/.config/quill
//   - Data (transcripts.db, quill.log): ~/.local/share/quill
//
// In dev mode (running from a source checkout), data lives in {repo}/.quill
// so each checkout keeps its own isolated transcript store.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	devRoot     string
	devRootOnce sync.Once

	// localDevMode is set by SetLocalDevMode to force local directory paths
	localDevMode     bool
	localDevModeOnce sync.Once
)

// IsDevMode returns true if quill is running from a source checkout.
func IsDevMode() bool {
	return getDevRoot() != ""
}

// DevRoot returns the repository root if running in dev mode, or empty string otherwise.
func DevRoot() string {
	return getDevRoot()
}

// getDevRoot finds the repository root by checking:
// 1. Walking up from executable location (for built binaries in repo)
// 2. Walking up from current working directory (for go run)
// looking for a go.mod file with this module's path.
func getDevRoot() string {
	devRootOnce.Do(func() {
		// Try from executable first (handles ./quill built binary)
		if root := findDevRootFrom(executableDir()); root != "" {
			devRoot = root
			return
		}

		// Try from current working directory (handles go run)
		if wd, err := os.Getwd(); err == nil {
			if root := findDevRootFrom(wd); root != "" {
				devRoot = root
				return
			}
		}
	})
	return devRoot
}

// executableDir returns the directory containing the executable, or empty if unknown.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// findDevRootFrom walks up from the given directory looking for this module's go.mod.
func findDevRootFrom(startDir string) string {
	if startDir == "" {
		return ""
	}

	dir := startDir
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(goModPath); err == nil {
			content := string(data)
			if strings.HasPrefix(content, "module github.com/quillhq/quill") ||
				strings.Contains(content, "\nmodule github.com/quillhq/quill") {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		dir = parent
	}
	return ""
}

// SetLocalDevMode enables local dev mode, which uses ./.local/share/quill and
// ./.config/quill instead of the default directories. Typically set via the
// --local flag on init. Must be called before any directory functions are used.
func SetLocalDevMode() {
	localDevModeOnce.Do(func() {
		localDevMode = true
	})
}

// IsLocalDevMode returns true if local dev mode is enabled via SetLocalDevMode.
func IsLocalDevMode() bool {
	return localDevMode
}

// DataDir returns the data directory for quill.
//
// Local dev mode: ./.local/share/quill (current directory)
// Dev mode: {repo}/.quill
// Production Unix: ~/.local/share/quill (XDG compliant)
// Production Windows: %LOCALAPPDATA%\quill
//
// This directory stores the transcript database and the diagnostic log.
func DataDir() string {
	if localDevMode {
		wd, _ := os.Getwd()
		return filepath.Join(wd, ".local", "share", "quill")
	}

	if root := getDevRoot(); root != "" {
		return filepath.Join(root, ".quill")
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, _ := os.UserHomeDir()
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, "quill")
	}
	// Unix (macOS, Linux, etc.) - XDG compliant
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "quill")
}

// ConfigDir returns the config directory for quill.
//
// Local dev mode: ./.config/quill (current directory)
// Unix (macOS, Linux): ~/.config/quill
// Windows: %LOCALAPPDATA%\quill
func ConfigDir() string {
	if localDevMode {
		wd, _ := os.Getwd()
		return filepath.Join(wd, ".config", "quill")
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, _ := os.UserHomeDir()
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, "quill")
	}
	// Unix (macOS, Linux, etc.)
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quill")
}

// ConfigFile returns the path to the main config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DatabaseFile returns the path to the transcript database.
func DatabaseFile() string {
	return filepath.Join(DataDir(), "transcripts.db")
}

// LogFile returns the path to the diagnostic log file.
func LogFile() string {
	return filepath.Join(DataDir(), "quill.log")
}
