// Package switcher swaps the Riot client's persisted login session so the
// client starts up signed in as a different account.
//
// A switch runs six stages in order and stops at the first failure:
// terminate, stabilize, resolve, backup, restore and launch. Only the backup
// stage is best-effort. A terminate failure aborts before any file is
// touched.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/processes"
	"github.com/kattitatu/riot-account-manager/internal/sys"
)

// User slots always end in sessionSuffix; the last-session slot never does,
// so no username can name it.
const (
	sessionSuffix   = "_session"
	lastSessionSlot = ".last-session"
)

var (
	// ErrTimeout means client processes were still alive after the close timeout.
	ErrTimeout = errors.New("riot client did not close in time")
	// ErrNotLaunched means the client process did not appear after relaunch.
	ErrNotLaunched = errors.New("riot client failed to launch")
	// ErrInvalidUsername rejects names that cannot key a backup directory.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrNoSession means there is no live session directory to save.
	ErrNoSession = errors.New("no riot client session on this machine")
	// ErrNoBackup means no saved session exists for the username.
	ErrNoBackup = errors.New("no saved session for account")
)

// Stage names a step of a switch.
type Stage string

const (
	StageTerminate Stage = "terminate"
	StageStabilize Stage = "stabilize"
	StageResolve   Stage = "resolve config path"
	StageBackup    Stage = "backup"
	StageRestore   Stage = "restore"
	StageLaunch    Stage = "launch"
)

// Error reports the stage a switch failed in.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("switch %s: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Timings controls every wait in a switch. Tests shrink them to zero.
type Timings struct {
	KillPasses   int
	KillGap      time.Duration
	PollInterval time.Duration
	CloseTimeout time.Duration
	Settle       time.Duration
	LaunchWait   time.Duration
}

// DefaultTimings returns the delays the Riot client needs in practice.
func DefaultTimings() Timings {
	return Timings{
		KillPasses:   2,
		KillGap:      time.Second,
		PollInterval: 500 * time.Millisecond,
		CloseTimeout: 5 * time.Second,
		Settle:       3 * time.Second,
		LaunchWait:   2 * time.Second,
	}
}

// Outcome describes what a switch did. It is returned alongside an error
// too, carrying whatever stages completed.
type Outcome struct {
	Username string
	// BackedUp is true when the previous session was copied to the last-session slot.
	BackedUp bool
	// Restored is true when a saved session existed for Username.
	Restored bool
	// Cleared lists credential files removed on a first-time switch.
	Cleared  []string
	Copied   int
	Failed   int
	Launched bool
	Message  string
}

// Switcher owns the backup directory tree. Callers must not run two
// switches at once.
type Switcher struct {
	procs      processes.Manager
	backupDir  string
	configDir  func() (string, error)
	findClient func() (string, error)

	killList      []string
	watchList     []string
	clientProcess string

	timings Timings
	log     *slog.Logger
}

type Option func(*Switcher)

// WithConfigDir overrides the live session directory lookup.
func WithConfigDir(fn func() (string, error)) Option {
	return func(s *Switcher) { s.configDir = fn }
}

// WithClientFinder sets how the client executable is located at launch.
func WithClientFinder(fn func() (string, error)) Option {
	return func(s *Switcher) { s.findClient = fn }
}

func WithTimings(t Timings) Option {
	return func(s *Switcher) { s.timings = t }
}

// WithProcessNames overrides the platform process names.
func WithProcessNames(kill, watch []string, client string) Option {
	return func(s *Switcher) {
		s.killList, s.watchList, s.clientProcess = kill, watch, client
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Switcher) { s.log = l }
}

// New returns a Switcher storing backups under backupDir.
func New(procs processes.Manager, backupDir string, opts ...Option) *Switcher {
	s := &Switcher{
		procs:         procs,
		backupDir:     backupDir,
		configDir:     sys.RiotConfigDir,
		findClient:    func() (string, error) { return "", errors.New("riot client path not configured") },
		killList:      sys.KillList(),
		watchList:     sys.WatchList(),
		clientProcess: sys.ClientProcess,
		timings:       DefaultTimings(),
		log:           logger.Component("switcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BackupDir returns the directory holding every backup slot.
func (s *Switcher) BackupDir() string { return s.backupDir }

// SessionPath returns the backup slot for username.
func (s *Switcher) SessionPath(username string) string {
	return filepath.Join(s.backupDir, username+sessionSuffix)
}

// LastSessionPath returns the slot holding the session active before the
// most recent switch.
func (s *Switcher) LastSessionPath() string {
	return filepath.Join(s.backupDir, lastSessionSlot)
}

// Switch makes the Riot client start as username.
func (s *Switcher) Switch(ctx context.Context, username string) (Outcome, error) {
	out := Outcome{Username: username}
	if err := validUsername(username); err != nil {
		out.Message = err.Error()
		return out, err
	}
	log := s.log.With(slog.String("username", username))
	log.Info("starting account switch")

	fail := func(stage Stage, err error, msg string) (Outcome, error) {
		log.Error("account switch failed", slog.String("stage", string(stage)), slog.Any("error", err))
		out.Message = msg
		return out, &Error{Stage: stage, Err: err}
	}

	s.killAll(ctx, log)
	if err := s.waitClosed(ctx, log); err != nil {
		return fail(StageTerminate, err, "Could not close Riot Client. Please close it manually and try again.")
	}

	log.Debug("waiting for file handles to release", slog.Duration("settle", s.timings.Settle))
	if err := sleep(ctx, s.timings.Settle); err != nil {
		return fail(StageStabilize, err, "Switch cancelled.")
	}

	configDir, err := s.configDir()
	if err != nil {
		return fail(StageResolve, err, "Could not find Riot Client config directory.")
	}
	log.Debug("resolved config path", slog.String("path", configDir))

	out.BackedUp = s.backupCurrent(configDir, log)

	backup := s.SessionPath(username)
	if isDir(backup) {
		log.Info("restoring saved session", slog.String("from", backup))
		out.Restored = true
		out.Copied, out.Failed = s.restore(backup, configDir, log)
		out.Message = fmt.Sprintf("Switched to %s. Launching Riot Client...", username)
	} else {
		log.Info("no saved session, clearing credentials")
		out.Cleared = clearCredentials(configDir, log)
		out.Message = fmt.Sprintf("First time login for %s. Please login manually.\nYour session will be saved for next time.", username)
	}

	client, err := s.findClient()
	if err != nil {
		return fail(StageLaunch, err, "Riot Client not found. Please install it first.")
	}
	log.Info("launching riot client", slog.String("path", client))
	if err := s.procs.Start(client); err != nil {
		return fail(StageLaunch, err, fmt.Sprintf("Failed to launch Riot Client: %v", err))
	}
	if err := sleep(ctx, s.timings.LaunchWait); err != nil {
		return fail(StageLaunch, err, "Switch cancelled.")
	}
	running, err := processes.Running(s.procs, []string{s.clientProcess})
	if err != nil || len(running) == 0 {
		if err == nil {
			err = ErrNotLaunched
		}
		return fail(StageLaunch, err, "Riot Client failed to launch. Please launch it manually.")
	}

	out.Launched = true
	if out.Restored {
		out.Message = fmt.Sprintf("Switched to %s. Riot Client is launching...", username)
	}
	log.Info("account switch completed",
		slog.Bool("restored", out.Restored),
		slog.Int("copied", out.Copied),
		slog.Int("failed", out.Failed))
	return out, nil
}

func (s *Switcher) killAll(ctx context.Context, log *slog.Logger) {
	for pass := 0; pass < s.timings.KillPasses; pass++ {
		log.Debug("killing riot processes", slog.Int("pass", pass+1), slog.Int("of", s.timings.KillPasses))
		for _, name := range s.killList {
			if err := s.procs.Kill(name); err != nil {
				log.Debug("kill failed", slog.String("process", name), slog.Any("error", err))
			}
		}
		if pass < s.timings.KillPasses-1 {
			if sleep(ctx, s.timings.KillGap) != nil {
				return
			}
		}
	}
}

// waitClosed polls until no watched process is alive. A failed process
// listing counts as still running.
func (s *Switcher) waitClosed(ctx context.Context, log *slog.Logger) error {
	start := time.Now()
	deadline := start.Add(s.timings.CloseTimeout)
	for {
		running, err := processes.Running(s.procs, s.watchList)
		switch {
		case err != nil:
			log.Warn("process listing failed", slog.Any("error", err))
			running = []string{"unknown"}
		case len(running) == 0:
			log.Info("all processes closed", slog.Duration("after", time.Since(start)))
			return nil
		default:
			log.Debug("still running", slog.String("processes", strings.Join(running, ", ")))
		}

		if !time.Now().Before(deadline) {
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return fmt.Errorf("%w: still running: %s", ErrTimeout, strings.Join(running, ", "))
		}
		if err := sleep(ctx, s.timings.PollInterval); err != nil {
			return err
		}
	}
}

func (s *Switcher) backupCurrent(configDir string, log *slog.Logger) bool {
	if !isDir(configDir) {
		return false
	}
	dst := s.LastSessionPath()
	if err := replaceDir(configDir, dst); err != nil {
		log.Warn("could not back up current session", slog.String("to", dst), slog.Any("error", err))
		return false
	}
	return true
}

// restore empties configDir then copies every top-level entry of backup
// into it. Single-entry failures are logged and counted.
func (s *Switcher) restore(backup, configDir string, log *slog.Logger) (copied, failed int) {
	cleared := 0
	if entries, err := os.ReadDir(configDir); err == nil {
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(configDir, e.Name())); err != nil {
				log.Warn("could not clear entry", slog.String("name", e.Name()), slog.Any("error", err))
				continue
			}
			cleared++
		}
	}
	log.Debug("cleared current config", slog.Int("entries", cleared))

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Error("could not create config dir", slog.Any("error", err))
	}

	entries, err := os.ReadDir(backup)
	if err != nil {
		log.Error("could not read backup", slog.Any("error", err))
		return 0, 1
	}
	for _, e := range entries {
		src := filepath.Join(backup, e.Name())
		dst := filepath.Join(configDir, e.Name())
		var err error
		if e.IsDir() {
			err = copyDir(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			failed++
			log.Warn("failed to copy entry", slog.String("name", e.Name()), slog.Any("error", err))
			continue
		}
		copied++
	}
	log.Info("session restore complete", slog.Int("copied", copied), slog.Int("failed", failed))
	return copied, failed
}

func clearCredentials(configDir string, log *slog.Logger) []string {
	var removed []string
	for _, name := range sys.CredentialFiles {
		path := filepath.Join(configDir, name)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, name)
		case !errors.Is(err, os.ErrNotExist):
			log.Warn("could not remove credential file", slog.String("name", name), slog.Any("error", err))
		}
	}
	return removed
}

// SaveSession snapshots the live session directory as username's backup,
// replacing any earlier one.
func (s *Switcher) SaveSession(username string) error {
	if err := validUsername(username); err != nil {
		return err
	}
	configDir, err := s.configDir()
	if err != nil {
		return err
	}
	if !isDir(configDir) {
		return ErrNoSession
	}
	if err := replaceDir(configDir, s.SessionPath(username)); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	s.log.Info("session saved", slog.String("username", username))
	return nil
}

// HasBackup reports whether a saved session exists for username.
func (s *Switcher) HasBackup(username string) bool {
	return validUsername(username) == nil && isDir(s.SessionPath(username))
}

// Backups returns the usernames with a saved session in directory order.
func (s *Switcher) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), sessionSuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), sessionSuffix))
		}
	}
	return names, nil
}

// DeleteBackup removes username's saved session.
func (s *Switcher) DeleteBackup(username string) error {
	if err := validUsername(username); err != nil {
		return err
	}
	path := s.SessionPath(username)
	if !isDir(path) {
		return ErrNoBackup
	}
	return os.RemoveAll(path)
}

func validUsername(username string) error {
	if strings.TrimSpace(username) == "" ||
		strings.ContainsAny(username, `/\`) ||
		username == "." || username == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
