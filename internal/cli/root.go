// Package cli is the terminal front end. Every command loads the config,
// builds an app.App and routes background work through an app.Loop so the
// store is only touched from the command's own goroutine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kattitatu/riot-account-manager/internal/app"
	"github.com/kattitatu/riot-account-manager/internal/config"
	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/version"
)

type env struct {
	cfgPath  string
	dataDir  string
	logLevel string

	cfg    *config.Config
	app    *app.App
	loop   *app.Loop
	styles styles
	closer io.Closer

	appOpts []app.Option
}

// NewRootCommand builds the ram command tree. opts are passed to app.New.
func NewRootCommand(opts ...app.Option) *cobra.Command {
	root, _ := newRoot(opts...)
	return root
}

func newRoot(opts ...app.Option) (*cobra.Command, *env) {
	e := &env{appOpts: opts}

	root := &cobra.Command{
		Use:           "ram",
		Short:         "Switch between Riot accounts and look up their stats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipApp"] == "true" {
				return nil
			}
			return e.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.teardown()
		},
	}
	root.PersistentFlags().StringVar(&e.cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&e.dataDir, "data-dir", "", "directory for accounts and session backups")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newAccountsCommand(e),
		newSwitchCommand(e),
		newSessionCommand(e),
		newRefreshCommand(e),
		newRankCommand(e),
		newLiveCommand(e),
		newHistoryCommand(e),
		newStatusCommand(e),
		newSettingsCommand(e),
		newUpdateCommand(e),
		newVersionCommand(),
	)
	return root, e
}

func (e *env) setup() error {
	if e.cfgPath == "" {
		e.cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	if e.dataDir != "" {
		cfg.DataDir = e.dataDir
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}
	closer, err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return err
	}
	e.closer = closer
	e.cfg = cfg
	e.styles = newStyles(cfg.Theme)
	e.loop = app.NewLoop()
	e.app = app.New(cfg, e.cfgPath, e.appOpts...)
	logger.L.Debug("app ready",
		slog.String("version", version.Version),
		slog.String("config", e.cfgPath),
		slog.String("data_dir", cfg.DataDir))
	return nil
}

// teardown is safe to call more than once. cobra skips PersistentPostRun when
// a command fails, so execute calls it again.
func (e *env) teardown() {
	if e.loop != nil {
		e.loop.Close()
		e.loop = nil
	}
	if e.closer != nil {
		_ = e.closer.Close()
		e.closer = nil
	}
}

func execute(ctx context.Context, root *cobra.Command, e *env) error {
	defer e.teardown()
	return root.ExecuteContext(ctx)
}

// await runs work off the command goroutine and returns its result once the
// loop has delivered it.
func await[T any](ctx context.Context, l *app.Loop, work func() T) (T, error) {
	var out T
	app.Go(l, work, func(v T) { out = v })
	err := l.RunUntilIdle(ctx)
	return out, err
}

// report prints an OK result or turns a failed one into the command error.
func (e *env) report(cmd *cobra.Command, r app.Result) error {
	if !r.OK {
		return errors.New(r.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.styles.ok.Render(r.Message))
	return nil
}

// lookup resolves an account id or username argument.
func (e *env) lookup(ref string) (int, error) {
	acc, ok := e.app.Find(ref)
	if !ok {
		return 0, fmt.Errorf("no account %q", strings.TrimSpace(ref))
	}
	return acc.ID, nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, e := newRoot()
	if err := execute(ctx, root, e); err != nil {
		fmt.Fprintln(os.Stderr, newStyles(config.DefaultTheme).fail.Render(err.Error()))
		return 1
	}
	return 0
}
