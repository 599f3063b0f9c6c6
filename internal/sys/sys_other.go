//go:build !windows && !darwin

package sys

import (
	"fmt"
	"os/exec"
	"runtime"
)

const ClientProcess = "RiotClientServices"

const ClientExecutable = "RiotClientServices"

var killList = []string{"RiotClientServices", "LeagueClient"}

var watchList = []string{"RiotClientServices", "LeagueClient"}

func configDir() (string, error) {
	return "", fmt.Errorf("%w: unsupported platform %s", ErrPathNotFound, runtime.GOOS)
}

func InstallsFile() string { return "" }

func CandidatePaths() []string { return nil }

func configureCommand(*exec.Cmd) {}
