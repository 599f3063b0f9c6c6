//go:build darwin

package sys

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const ClientProcess = "RiotClientServices"

const ClientExecutable = "Riot Client.app"

var killList = []string{
	"RiotClientServices",
	"Riot Client",
	"RiotClientCrashHandler",
	"LeagueClient",
	"LeagueClientUx",
	"LeagueClientUxRender",
}

var watchList = []string{
	"RiotClientServices",
	"Riot Client",
	"LeagueClient",
	"LeagueClientUx",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: home directory unknown", ErrPathNotFound)
	}
	return filepath.Join(home, "Library", "Application Support", "Riot Games", "Riot Client", "Data"), nil
}

func InstallsFile() string {
	return "/Users/Shared/Riot Games/RiotClientInstalls.json"
}

func CandidatePaths() []string {
	return []string{"/Applications/Riot Client.app"}
}

// No-op on macOS.
func configureCommand(*exec.Cmd) {}
