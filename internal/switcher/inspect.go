package switcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kattitatu/riot-account-manager/internal/sys"
)

const privateSettings = "RiotGamesPrivateSettings.yaml"

// SessionInfo summarizes a session directory without exposing its secrets.
type SessionInfo struct {
	Path        string
	Files       int
	Bytes       int64
	Credentials []string
	// Remembered is true when the client stored a "stay signed in" cookie.
	Remembered bool
	Region     string
}

// privateSettingsFile is the part of RiotGamesPrivateSettings.yaml we read.
type privateSettingsFile struct {
	RiotLogin struct {
		Persist struct {
			Region  string `yaml:"region"`
			Session struct {
				Cookies []struct {
					Name string `yaml:"name"`
				} `yaml:"cookies"`
			} `yaml:"session"`
		} `yaml:"persist"`
	} `yaml:"riot-login"`
}

// Inspect describes the session directory at dir.
func Inspect(dir string) (SessionInfo, error) {
	info := SessionInfo{Path: dir}
	if !isDir(dir) {
		return info, fs.ErrNotExist
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		info.Files++
		info.Bytes += fi.Size()
		return nil
	})
	if err != nil {
		return info, err
	}

	for _, name := range sys.CredentialFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			info.Credentials = append(info.Credentials, name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, privateSettings))
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return info, err
	}
	var settings privateSettingsFile
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return info, err
	}
	info.Region = settings.RiotLogin.Persist.Region
	info.Remembered = len(settings.RiotLogin.Persist.Session.Cookies) > 0
	return info, nil
}

// InspectBackup describes username's saved session.
func (s *Switcher) InspectBackup(username string) (SessionInfo, error) {
	if err := validUsername(username); err != nil {
		return SessionInfo{}, err
	}
	info, err := Inspect(s.SessionPath(username))
	if errors.Is(err, fs.ErrNotExist) {
		return info, ErrNoBackup
	}
	return info, err
}

// InspectLive describes the client's current session directory.
func (s *Switcher) InspectLive() (SessionInfo, error) {
	dir, err := s.configDir()
	if err != nil {
		return SessionInfo{}, err
	}
	info, err := Inspect(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return info, ErrNoSession
	}
	return info, err
}
