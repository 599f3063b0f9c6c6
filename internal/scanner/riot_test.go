package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o755))
	return path
}

func noRegistry() (string, error) { return "", errors.New("absent") }

func TestFindPrefersOverride(t *testing.T) {
	dir := t.TempDir()
	override := touch(t, filepath.Join(dir, "custom", "RiotClientServices.exe"))
	candidate := touch(t, filepath.Join(dir, "default", "RiotClientServices.exe"))

	f := &Finder{Override: override, Registry: noRegistry, Candidates: []string{candidate}}
	got, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestFindMissingOverrideFallsThrough(t *testing.T) {
	dir := t.TempDir()
	candidate := touch(t, filepath.Join(dir, "default", "RiotClientServices.exe"))

	f := &Finder{Override: filepath.Join(dir, "nope.exe"), Registry: noRegistry, Candidates: []string{candidate}}
	got, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, candidate, got)
}

func TestFindFromInstallsManifest(t *testing.T) {
	dir := t.TempDir()
	client := touch(t, filepath.Join(dir, "Riot Client", "RiotClientServices.exe"))
	manifest := filepath.Join(dir, "RiotClientInstalls.json")
	body := `{"associated_client":{"C:/Riot Games/League of Legends/":"x"},"rc_default":"` +
		filepath.ToSlash(client) + `","rc_live":""}`
	require.NoError(t, os.WriteFile(manifest, []byte(body), 0o644))

	f := &Finder{InstallsFile: manifest, Registry: noRegistry}
	got, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, client, got)
}

func TestFindFromRegistry(t *testing.T) {
	dir := t.TempDir()
	client := touch(t, filepath.Join(dir, "RiotClientServices.exe"))

	f := &Finder{
		InstallsFile: filepath.Join(dir, "missing.json"),
		Registry:     func() (string, error) { return client, nil },
	}
	got, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, client, got)
}

func TestFindNothing(t *testing.T) {
	f := &Finder{Registry: noRegistry, Candidates: []string{filepath.Join(t.TempDir(), "x.exe")}}
	_, err := f.Find()
	assert.ErrorIs(t, err, ErrClientNotFound)
}
