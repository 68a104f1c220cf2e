package cascade

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var isWindows = runtime.GOOS == "windows" // isWindows reports whether the current OS is Windows.

// ExpandPath expands out leading ~ (meaning home directory) to an absolute path. Works cross-OS (including Windows, which doesn't traditionally treat ~ as the home
// directory).
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	expanded := path

	// Expand a leading "~", "~/" or "~\" to the user's home directory:
	if strings.HasPrefix(expanded, "~") {
		if home, _ := os.UserHomeDir(); home != "" {
			switch {
			case expanded == "~" || expanded == "~/" || expanded == `~\`:
				expanded = home
			case strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`):
				expanded = filepath.Join(home, expanded[2:])
			}
		}
	}

	if !filepath.IsAbs(expanded) {
		if abs, err := filepath.Abs(expanded); err == nil {
			expanded = abs
		}
	}

	return expanded
}

// InUserConfigDirectory returns an absolute path for user-specific config files, joined with subPath:
//   - $XDG_CONFIG_HOME/subPath when XDG_CONFIG_HOME is set to an absolute path.
//   - %AppData%/subPath on Windows (via os.UserConfigDir).
//   - ~/.config/subPath elsewhere, including macOS.
func InUserConfigDirectory(subPath string) string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, subPath)
	}
	if isWindows {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, subPath)
		}
	}
	return filepath.Join(ExpandPath("~/.config"), subPath)
}
