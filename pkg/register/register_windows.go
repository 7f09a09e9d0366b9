//go:build windows

package register

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// registerScheme creates the per-user URL-protocol key
// HKCU\Software\Classes\discord-<id> with command as its open handler.
func registerScheme(applicationID, command string) error {
	base := `Software\Classes\` + scheme(applicationID)

	key, _, err := registry.CreateKey(registry.CURRENT_USER, base, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create scheme key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue("", "URL:Run game "+applicationID+" protocol"); err != nil {
		return fmt.Errorf("set scheme description: %w", err)
	}
	if err := key.SetStringValue("URL Protocol", ""); err != nil {
		return fmt.Errorf("mark key as url protocol: %w", err)
	}

	icon, _, err := registry.CreateKey(registry.CURRENT_USER, base+`\DefaultIcon`, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create icon key: %w", err)
	}
	defer icon.Close()
	if err := icon.SetStringValue("", command); err != nil {
		return fmt.Errorf("set icon: %w", err)
	}

	open, _, err := registry.CreateKey(registry.CURRENT_USER, base+`\shell\open\command`, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create open command key: %w", err)
	}
	defer open.Close()
	if err := open.SetStringValue("", command); err != nil {
		return fmt.Errorf("set open command: %w", err)
	}
	return nil
}
