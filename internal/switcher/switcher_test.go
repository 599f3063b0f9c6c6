package switcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/sys"
)

var (
	testKill  = []string{"RiotClientServices.exe", "RiotClientUx.exe", "LeagueClient.exe"}
	testWatch = []string{"RiotClientServices.exe", "RiotClientUx.exe"}
)

const testClient = "RiotClientServices.exe"

type fakeProcs struct {
	mu       sync.Mutex
	running  map[string]bool
	sticky   map[string]bool
	killed   []string
	started  []string
	listErr  error
	startErr error
	// noLaunch keeps the client from appearing after Start.
	noLaunch bool
}

func newFakeProcs(running ...string) *fakeProcs {
	f := &fakeProcs{running: map[string]bool{}, sticky: map[string]bool{}}
	for _, n := range running {
		f.running[n] = true
	}
	return f
}

func (f *fakeProcs) Kill(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, name)
	if !f.sticky[name] {
		delete(f.running, name)
	}
	return nil
}

func (f *fakeProcs) List() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := []string{"explorer.exe"}
	for n := range f.running {
		names = append(names, n)
	}
	return names, nil
}

func (f *fakeProcs) Start(path string, _ ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, path)
	if !f.noLaunch {
		f.running[testClient] = true
	}
	return nil
}

type env struct {
	sw     *Switcher
	procs  *fakeProcs
	live   string
	backup string
}

func newEnv(t *testing.T, procs *fakeProcs, opts ...Option) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		procs:  procs,
		live:   filepath.Join(root, "Riot Client", "Data"),
		backup: filepath.Join(root, "account_backups"),
	}
	require.NoError(t, os.MkdirAll(e.live, 0o755))

	base := []Option{
		WithConfigDir(func() (string, error) { return e.live, nil }),
		WithClientFinder(func() (string, error) { return `C:\Riot Games\Riot Client\RiotClientServices.exe`, nil }),
		WithProcessNames(testKill, testWatch, testClient),
		WithTimings(Timings{KillPasses: 2}),
		WithLogger(logger.Discard()),
	}
	e.sw = New(procs, e.backup, append(base, opts...)...)
	return e
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

// snapshot maps slash-separated relative paths to file contents.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		data, err := os.ReadFile(path)
		files[filepath.ToSlash(rel)] = string(data)
		return err
	})
	require.NoError(t, err)
	return files
}

func TestSwitchTimeoutTouchesNothing(t *testing.T) {
	procs := newFakeProcs("RiotClientUx.exe")
	procs.sticky["RiotClientUx.exe"] = true
	e := newEnv(t, procs)
	writeFiles(t, e.live, map[string]string{"RiotGamesPrivateSettings.yaml": "secret"})

	out, err := e.sw.Switch(context.Background(), "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, StageTerminate, swErr.Stage)
	assert.Contains(t, out.Message, "close it manually")

	assert.Equal(t, map[string]string{"RiotGamesPrivateSettings.yaml": "secret"}, snapshot(t, e.live))
	assert.NoDirExists(t, e.sw.LastSessionPath())
	assert.Empty(t, procs.started)
}

func TestSwitchListErrorTimesOut(t *testing.T) {
	procs := newFakeProcs()
	procs.listErr = errors.New("tasklist missing")
	e := newEnv(t, procs)

	_, err := e.sw.Switch(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Empty(t, procs.started)
}

func TestSwitchKillsEveryNameEachPass(t *testing.T) {
	procs := newFakeProcs("RiotClientServices.exe", "LeagueClient.exe")
	e := newEnv(t, procs)

	_, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, testKill...), testKill...), procs.killed)
}

func TestFirstSwitchClearsCredentials(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	writeFiles(t, e.live, map[string]string{
		"RiotGamesPrivateSettings.yaml":     "cookie",
		"RiotGamesPrivateSettings.yaml.bak": "cookie",
		"RiotClientSettings.yaml":           "keep",
		"Sessions/abc":                      "keep",
	})

	out, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, out.Restored)
	assert.True(t, out.Launched)
	assert.ElementsMatch(t, []string{"RiotGamesPrivateSettings.yaml", "RiotGamesPrivateSettings.yaml.bak"}, out.Cleared)
	assert.Contains(t, out.Message, "First time login for alice")
	assert.Equal(t, map[string]string{
		"RiotClientSettings.yaml": "keep",
		"Sessions/abc":            "keep",
	}, snapshot(t, e.live))
}

func TestFirstSwitchWithEmptyConfigDir(t *testing.T) {
	e := newEnv(t, newFakeProcs())

	out, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, out.Cleared)
	assert.True(t, out.Launched)
}

func TestFirstSwitchWithMissingConfigDir(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	require.NoError(t, os.RemoveAll(e.live))

	out, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, out.BackedUp)
	assert.Empty(t, out.Cleared)
}

func TestSwitchRestoresBackupExactly(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	saved := map[string]string{
		"RiotGamesPrivateSettings.yaml": "alice-cookie",
		"RiotClientSettings.yaml":       "alice-settings",
		"Sessions/nested/state.json":    "{}",
	}
	writeFiles(t, e.sw.SessionPath("alice"), saved)
	writeFiles(t, e.live, map[string]string{
		"RiotGamesPrivateSettings.yaml": "bob-cookie",
		"stale.txt":                     "bob",
	})

	out, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, out.Restored)
	assert.Equal(t, 3, out.Copied, "top-level entries copied")
	assert.Zero(t, out.Failed)
	assert.Equal(t, "Switched to alice. Riot Client is launching...", out.Message)
	assert.Equal(t, saved, snapshot(t, e.live))

	_, err = e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, saved, snapshot(t, e.live))
}

func TestSwitchBacksUpPreviousSession(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	before := map[string]string{"RiotGamesPrivateSettings.yaml": "bob-cookie"}
	writeFiles(t, e.live, before)
	writeFiles(t, e.sw.LastSessionPath(), map[string]string{"old.txt": "gone"})

	out, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, out.BackedUp)
	assert.Equal(t, before, snapshot(t, e.sw.LastSessionPath()))
}

func TestSaveThenSwitchReproducesSession(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	aliceLive := map[string]string{
		"RiotGamesPrivateSettings.yaml": "alice-cookie",
		"Config/a.ini":                  "x",
	}
	writeFiles(t, e.live, aliceLive)
	require.NoError(t, e.sw.SaveSession("alice"))

	require.NoError(t, os.RemoveAll(e.live))
	writeFiles(t, e.live, map[string]string{"RiotGamesPrivateSettings.yaml": "bob-cookie", "bob.txt": "b"})

	_, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, aliceLive, snapshot(t, e.live))
}

func TestSaveSessionReplacesOldBackup(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	writeFiles(t, e.sw.SessionPath("alice"), map[string]string{"old.txt": "old"})
	writeFiles(t, e.live, map[string]string{"new.txt": "new"})

	require.NoError(t, e.sw.SaveSession("alice"))
	assert.Equal(t, map[string]string{"new.txt": "new"}, snapshot(t, e.sw.SessionPath("alice")))
}

func TestSaveSessionWithoutLiveDir(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	require.NoError(t, os.RemoveAll(e.live))
	assert.ErrorIs(t, e.sw.SaveSession("alice"), ErrNoSession)
}

func TestSwitchResolveFailure(t *testing.T) {
	e := newEnv(t, newFakeProcs(), WithConfigDir(func() (string, error) {
		return "", sys.ErrPathNotFound
	}))

	out, err := e.sw.Switch(context.Background(), "alice")
	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, StageResolve, swErr.Stage)
	assert.ErrorIs(t, err, sys.ErrPathNotFound)
	assert.Equal(t, "Could not find Riot Client config directory.", out.Message)
	assert.Empty(t, e.procs.started)
}

func TestSwitchClientMissing(t *testing.T) {
	e := newEnv(t, newFakeProcs(), WithClientFinder(func() (string, error) {
		return "", errors.New("not installed")
	}))

	out, err := e.sw.Switch(context.Background(), "alice")
	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, StageLaunch, swErr.Stage)
	assert.Equal(t, "Riot Client not found. Please install it first.", out.Message)
}

func TestSwitchClientDoesNotAppear(t *testing.T) {
	procs := newFakeProcs()
	procs.noLaunch = true
	e := newEnv(t, procs)

	out, err := e.sw.Switch(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNotLaunched)
	assert.False(t, out.Launched)
	assert.Len(t, procs.started, 1)
}

func TestSwitchStartError(t *testing.T) {
	procs := newFakeProcs()
	procs.startErr = errors.New("access denied")
	e := newEnv(t, procs)

	out, err := e.sw.Switch(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, out.Message, "access denied")
}

func TestSwitchRejectsBadUsername(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	for _, name := range []string{"", "  ", "..", "a/b", `a\b`} {
		_, err := e.sw.Switch(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidUsername, name)
	}
	assert.Empty(t, e.procs.killed)
}

func TestSwitchCancelled(t *testing.T) {
	procs := newFakeProcs()
	root := t.TempDir()
	sw := New(procs, root,
		WithConfigDir(func() (string, error) { return root, nil }),
		WithProcessNames(testKill, testWatch, testClient),
		WithTimings(DefaultTimings()),
		WithLogger(logger.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sw.Switch(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, procs.started)
}

func TestBackupsAndDelete(t *testing.T) {
	e := newEnv(t, newFakeProcs())

	names, err := e.sw.Backups()
	require.NoError(t, err)
	assert.Empty(t, names)

	writeFiles(t, e.sw.SessionPath("bob"), map[string]string{"f": "1"})
	writeFiles(t, e.sw.SessionPath("alice"), map[string]string{"f": "1"})
	writeFiles(t, e.sw.LastSessionPath(), map[string]string{"f": "1"})

	names, err = e.sw.Backups()
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"alice", "bob"}, names)
	assert.True(t, e.sw.HasBackup("bob"))

	require.NoError(t, e.sw.DeleteBackup("bob"))
	assert.False(t, e.sw.HasBackup("bob"))
	assert.ErrorIs(t, e.sw.DeleteBackup("bob"), ErrNoBackup)
}

func TestUserNamedLastKeepsOwnSession(t *testing.T) {
	procs := newFakeProcs()
	e := newEnv(t, procs)
	writeFiles(t, e.live, map[string]string{"RiotGamesPrivateSettings.yaml": "last-cookie"})
	require.NoError(t, e.sw.SaveSession("last"))

	writeFiles(t, e.live, map[string]string{"RiotGamesPrivateSettings.yaml": "bob-cookie"})
	_, err := e.sw.Switch(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"RiotGamesPrivateSettings.yaml": "last-cookie"}, snapshot(t, e.sw.SessionPath("last")))
	assert.Equal(t, map[string]string{"RiotGamesPrivateSettings.yaml": "bob-cookie"}, snapshot(t, e.sw.LastSessionPath()))
	assert.NotEqual(t, e.sw.SessionPath("last"), e.sw.LastSessionPath())

	names, err := e.sw.Backups()
	require.NoError(t, err)
	assert.Equal(t, []string{"last"}, names)
}

func TestSwitchDoesNotListLastSessionAsAccount(t *testing.T) {
	e := newEnv(t, newFakeProcs())
	writeFiles(t, e.live, map[string]string{"RiotGamesPrivateSettings.yaml": "cookie"})

	_, err := e.sw.Switch(context.Background(), "alice")
	require.NoError(t, err)
	require.DirExists(t, e.sw.LastSessionPath())

	names, err := e.sw.Backups()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.False(t, e.sw.HasBackup("last"))
	assert.ErrorIs(t, e.sw.DeleteBackup("last"), ErrNoBackup)
	assert.DirExists(t, e.sw.LastSessionPath())
}
