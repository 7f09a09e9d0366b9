// Package register wires the discord-<application id> URL scheme into the
// operating system, so invite links can launch the game. Each platform has
// its own mechanism: a registry key on Windows, a games manifest on darwin,
// a desktop entry plus xdg-mime on other Unixes.
//
// Registration is inherently best-effort. Callers treat failures as
// log-worthy, never as connection-fatal; the client's WithAutoRegister
// option does exactly that after each successful connect.
package register

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ajitpratap0/discord-ipc-go/pkg/errors"
)

// App registers command as the handler of the discord-<applicationID> URL
// scheme. An empty command resolves to the running executable, matching
// what a game shipping the library almost always wants.
func App(applicationID, command string) error {
	if _, err := strconv.ParseUint(applicationID, 10, 64); err != nil {
		return errors.InvalidClientID(applicationID)
	}
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable for scheme handler: %w", err)
		}
		command = exe
	}
	return registerScheme(applicationID, command)
}

// SteamGame registers the Steam launch URL of steamID as the scheme
// handler, so launches route through Steam rather than the bare executable.
func SteamGame(applicationID, steamID string) error {
	if strings.TrimSpace(steamID) == "" {
		return errors.InvalidArgument("steam registration requires a steam game id")
	}
	return App(applicationID, "steam://rungameid/"+steamID)
}

// scheme returns the URL scheme registered for the application.
func scheme(applicationID string) string {
	return "discord-" + applicationID
}
