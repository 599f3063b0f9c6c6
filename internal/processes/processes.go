// Package processes lists, terminates and starts OS processes by image name.
package processes

import (
	"path/filepath"
	"strings"
)

// Manager is the OS process surface the session switcher depends on.
type Manager interface {
	// Kill force-terminates every process with the given image name. A name
	// with no matching process is not an error.
	Kill(name string) error
	// List returns the image names of all running processes.
	List() ([]string, error)
	// Start launches path detached from the caller.
	Start(path string, args ...string) error
}

// New returns the Manager for the current OS.
func New() Manager { return newSystem() }

// Running returns the subset of names that currently have a process.
// Matching ignores case and a trailing ".exe" so one list of names works on
// every platform.
func Running(m Manager, names []string) ([]string, error) {
	listed, err := m.List()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(listed))
	for _, n := range listed {
		present[normalize(n)] = true
	}

	var running []string
	for _, n := range names {
		if present[normalize(n)] {
			running = append(running, n)
		}
	}
	return running, nil
}

func normalize(name string) string {
	name = strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	return strings.TrimSuffix(name, ".exe")
}
