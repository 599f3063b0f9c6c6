// Package scanner locates the Riot client installation.
package scanner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/registry"
	"github.com/kattitatu/riot-account-manager/internal/sys"
)

// ErrClientNotFound is returned when no Riot client executable exists in any
// known location.
var ErrClientNotFound = errors.New("riot client not found")

// riotInstalls mirrors RiotClientInstalls.json. The file also carries an
// associated_client object which is ignored here.
type riotInstalls struct {
	Default string `json:"rc_default"`
	Live    string `json:"rc_live"`
}

// Finder resolves the client path by trying, in order: an explicit override,
// the installs manifest, the registry uninstall entry and the default
// install locations.
type Finder struct {
	Override     string
	InstallsFile string
	Registry     func() (string, error)
	Candidates   []string
	Log          *slog.Logger
}

// NewFinder returns a Finder wired to this machine's locations.
func NewFinder(override string) *Finder {
	return &Finder{
		Override:     override,
		InstallsFile: sys.InstallsFile(),
		Registry:     registry.RiotClientPath,
		Candidates:   sys.CandidatePaths(),
		Log:          logger.Component("scanner"),
	}
}

// FindRiotClient is shorthand for NewFinder(override).Find().
func FindRiotClient(override string) (string, error) {
	return NewFinder(override).Find()
}

func (f *Finder) Find() (string, error) {
	log := f.Log
	if log == nil {
		log = logger.Discard()
	}

	if f.Override != "" {
		if exists(f.Override) {
			return filepath.Clean(f.Override), nil
		}
		log.Warn("configured riot client path does not exist", slog.String("path", f.Override))
	}

	for _, p := range f.fromInstalls(log) {
		if exists(p) {
			log.Debug("riot client found via installs manifest", slog.String("path", p))
			return filepath.Clean(p), nil
		}
	}

	if f.Registry != nil {
		if p, err := f.Registry(); err == nil && exists(p) {
			log.Debug("riot client found via registry", slog.String("path", p))
			return filepath.Clean(p), nil
		}
	}

	for _, p := range f.Candidates {
		if exists(p) {
			return filepath.Clean(p), nil
		}
	}
	return "", ErrClientNotFound
}

func (f *Finder) fromInstalls(log *slog.Logger) []string {
	if f.InstallsFile == "" {
		return nil
	}
	data, err := os.ReadFile(f.InstallsFile)
	if err != nil {
		return nil
	}
	var installs riotInstalls
	if err := json.Unmarshal(data, &installs); err != nil {
		log.Warn("unreadable installs manifest", slog.String("path", f.InstallsFile), slog.Any("error", err))
		return nil
	}
	var paths []string
	for _, p := range []string{installs.Default, installs.Live} {
		if p != "" {
			paths = append(paths, filepath.FromSlash(p))
		}
	}
	return paths
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
