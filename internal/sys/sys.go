// Package sys holds the OS-specific facts about the Riot client: where it
// keeps its session data and which processes belong to it.
package sys

import (
	"errors"
	"os/exec"
)

// ErrPathNotFound is returned when the Riot session directory cannot be
// derived on this machine.
var ErrPathNotFound = errors.New("riot client config directory not found")

// CredentialFiles are removed from the session directory when switching to an
// account that has no saved session, forcing a fresh login prompt.
var CredentialFiles = []string{
	"RiotGamesPrivateSettings.yaml",
	"RiotGamesPrivateSettings.yaml.bak",
	"RiotClientPrivateSettings.yaml",
}

// RiotConfigDir returns the directory the Riot client persists its login
// session in.
func RiotConfigDir() (string, error) { return configDir() }

// KillList returns the process names terminated before a switch.
func KillList() []string { return append([]string(nil), killList...) }

// WatchList returns the process names that must be gone before session files
// are touched.
func WatchList() []string { return append([]string(nil), watchList...) }

// ConfigureCommand applies platform flags to helper commands (hidden console
// window on Windows).
func ConfigureCommand(cmd *exec.Cmd) { configureCommand(cmd) }
