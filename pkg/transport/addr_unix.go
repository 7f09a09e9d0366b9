//go:build !windows

package transport

import (
	"fmt"
	"os"
	"path/filepath"
)

// tempDirEnv lists the runtime-directory variables in probe order. The
// first one set to a non-empty value wins.
var tempDirEnv = [...]string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"}

// sandboxDirs are probed inside the runtime directory. Snap and flatpak
// installs of the application expose their sockets in these subdirectories,
// so a non-empty match redirects resolution into it.
var sandboxDirs = [...]string{"snap.discord", "app/com.discordapp.Discord"}

// PipePath returns the Unix domain socket path for the numbered endpoint.
func PipePath(index int) string {
	return filepath.Join(pipeDir(), fmt.Sprintf("discord-ipc-%d", index))
}

// pipeDir resolves the directory the application creates its sockets in.
func pipeDir() string {
	dir := ""
	for _, key := range tempDirEnv {
		if v := os.Getenv(key); v != "" {
			dir = v
			break
		}
	}
	if dir == "" {
		dir = "/tmp"
	}
	for _, sub := range sandboxDirs {
		candidate := filepath.Join(dir, filepath.FromSlash(sub))
		if nonEmptyDir(candidate) {
			dir = candidate
		}
	}
	return dir
}

// nonEmptyDir reports whether path is a directory with at least one entry.
func nonEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}
