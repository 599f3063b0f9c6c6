// Package registry reads the Windows registry entries the Riot client
// installer leaves behind. On other platforms every lookup reports
// ErrNotFound.
package registry

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a key or value is absent.
var ErrNotFound = errors.New("registry value not found")

// UninstallKeys are the uninstall entries the Riot client registers.
var UninstallKeys = []string{
	`HKCU\Software\Microsoft\Windows\CurrentVersion\Uninstall\Riot Game Riot_Client.`,
	`HKLM\Software\Microsoft\Windows\CurrentVersion\Uninstall\Riot Game Riot_Client.`,
}

// executableFromCommand extracts the program path from an uninstall command
// line such as `"C:\Riot Games\Riot Client\RiotClientServices.exe" --uninstall-product=...`.
func executableFromCommand(cmdline string) string {
	cmdline = strings.TrimSpace(cmdline)
	if cmdline == "" {
		return ""
	}
	if cmdline[0] == '"' {
		if end := strings.IndexByte(cmdline[1:], '"'); end >= 0 {
			return cmdline[1 : end+1]
		}
		return strings.Trim(cmdline, `"`)
	}
	if i := strings.Index(strings.ToLower(cmdline), ".exe"); i >= 0 {
		return cmdline[:i+len(".exe")]
	}
	return strings.Fields(cmdline)[0]
}
