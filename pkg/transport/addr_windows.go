//go:build windows

package transport

import "fmt"

// PipePath returns the named-pipe path for the numbered endpoint.
func PipePath(index int) string {
	return fmt.Sprintf(`\\?\pipe\discord-ipc-%d`, index)
}
