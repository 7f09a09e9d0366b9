//go:build darwin

package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// registerScheme writes the games manifest the desktop application reads on
// darwin: ~/Library/Application Support/discord/games/<id>.json naming the
// launch command. There is no system-level URL registration here.
func registerScheme(applicationID, command string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	dir := filepath.Join(home, "Library", "Application Support", "discord", "games")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create games directory: %w", err)
	}

	manifest, err := json.Marshal(struct {
		Command string `json:"command"`
	}{Command: command})
	if err != nil {
		return fmt.Errorf("encode games manifest: %w", err)
	}

	path := filepath.Join(dir, applicationID+".json")
	if err := os.WriteFile(path, manifest, 0o644); err != nil {
		return fmt.Errorf("write games manifest: %w", err)
	}
	return nil
}
