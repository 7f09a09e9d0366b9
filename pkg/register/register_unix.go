//go:build !windows && !darwin

package register

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// registerScheme installs a hidden desktop entry handling the
// x-scheme-handler MIME type and makes it the default via xdg-mime.
func registerScheme(applicationID, command string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".local", "share", "applications")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create applications directory: %w", err)
	}

	name := scheme(applicationID) + ".desktop"
	entry := desktopEntry(applicationID, command)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(entry), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}

	mime := "x-scheme-handler/" + scheme(applicationID)
	if out, err := exec.Command("xdg-mime", "default", name, mime).CombinedOutput(); err != nil {
		return fmt.Errorf("xdg-mime default failed: %w: %s", err, out)
	}
	return nil
}

// desktopEntry renders the handler entry. NoDisplay keeps it out of
// launcher menus; the %u placeholder receives the invite URL.
func desktopEntry(applicationID, command string) string {
	return fmt.Sprintf(`[Desktop Entry]
Name=Game %s
Exec=%s %%u
Type=Application
NoDisplay=true
Categories=Discord;Games;
MimeType=x-scheme-handler/%s;
`, applicationID, command, scheme(applicationID))
}
