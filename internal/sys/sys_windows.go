//go:build windows

package sys

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// ClientProcess is polled after relaunch to confirm the client came up.
const ClientProcess = "RiotClientServices.exe"

// ClientExecutable is the file name of the launcher inside the install dir.
const ClientExecutable = "RiotClientServices.exe"

var killList = []string{
	"RiotClientServices.exe",
	"RiotClientUx.exe",
	"RiotClientCrashHandler.exe",
	"LeagueClient.exe",
	"LeagueClientUx.exe",
	"LeagueClientUxRender.exe",
}

var watchList = []string{
	"RiotClientServices.exe",
	"RiotClientUx.exe",
	"LeagueClient.exe",
	"LeagueClientUx.exe",
}

func configDir() (string, error) {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		return "", fmt.Errorf("%w: LOCALAPPDATA is not set", ErrPathNotFound)
	}
	return filepath.Join(localAppData, "Riot Games", "Riot Client", "Data"), nil
}

// InstallsFile is the manifest the Riot client writes with its own location.
func InstallsFile() string {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "Riot Games", "RiotClientInstalls.json")
}

// CandidatePaths are the default install locations probed last.
func CandidatePaths() []string {
	paths := []string{`C:\Riot Games\Riot Client\RiotClientServices.exe`}
	for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)"} {
		if dir := os.Getenv(env); dir != "" {
			paths = append(paths, filepath.Join(dir, "Riot Games", "Riot Client", ClientExecutable))
		}
	}
	return paths
}

func configureCommand(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
