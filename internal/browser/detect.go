package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

var firefoxPaths = map[string][]string{
	"windows": {
		`C:\Program Files\Mozilla Firefox\firefox.exe`,
		`C:\Program Files (x86)\Mozilla Firefox\firefox.exe`,
	},
	"linux": {
		"/usr/bin/firefox",
		"/usr/local/bin/firefox",
	},
	"darwin": {
		"/Applications/Firefox.app/Contents/MacOS/firefox",
	},
}

// LookPath reports where the browser of the given kind is installed.
func LookPath(kind Kind) (string, bool) {
	switch kind {
	case Chrome:
		return launcher.LookPath()
	case Firefox:
		return lookFirefox(runtime.GOOS, fileExists, exec.LookPath)
	default:
		return "", false
	}
}

func lookFirefox(goos string, exists func(string) bool, lookPath func(string) (string, error)) (string, bool) {
	for _, p := range firefoxPaths[goos] {
		if exists(p) {
			return p, true
		}
	}
	if goos == "windows" {
		return "", false
	}
	if p, err := lookPath("firefox"); err == nil {
		return p, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && !info.IsDir()
}
