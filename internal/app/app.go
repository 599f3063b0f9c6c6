// Package app wires the account store, session switcher and Riot fetchers
// into user-level operations. Every operation reports a Result instead of
// an error so the presentation layer can show it verbatim.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/kattitatu/riot-account-manager/internal/account"
	"github.com/kattitatu/riot-account-manager/internal/config"
	"github.com/kattitatu/riot-account-manager/internal/ddragon"
	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/models"
	"github.com/kattitatu/riot-account-manager/internal/processes"
	"github.com/kattitatu/riot-account-manager/internal/riot"
	"github.com/kattitatu/riot-account-manager/internal/scanner"
	"github.com/kattitatu/riot-account-manager/internal/stats"
	"github.com/kattitatu/riot-account-manager/internal/switcher"
	"github.com/kattitatu/riot-account-manager/internal/update"
	"github.com/kattitatu/riot-account-manager/internal/version"
)

// Result is the user-facing outcome of an operation.
type Result struct {
	OK      bool
	Message string
}

func okf(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failf(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// Themes accepted by SetTheme.
var Themes = []string{"dark", "light"}

type App struct {
	cfg     *config.Config
	cfgPath string

	store    *account.Store
	switcher *switcher.Switcher
	dd       *ddragon.Client
	updates  *update.Checker

	riotOpts  []riot.Option
	client    *riot.Client
	stats     *stats.Service
	validator *riot.KeyValidator

	clipboard func(string) error
	log       *slog.Logger
}

type Option func(*App)

// WithSwitcher replaces the OS-backed switcher.
func WithSwitcher(sw *switcher.Switcher) Option {
	return func(a *App) { a.switcher = sw }
}

// WithRiotOptions configures every Riot API client the app builds.
func WithRiotOptions(opts ...riot.Option) Option {
	return func(a *App) { a.riotOpts = append(a.riotOpts, opts...) }
}

func WithDDragon(c *ddragon.Client) Option {
	return func(a *App) { a.dd = c }
}

func WithUpdateChecker(c *update.Checker) Option {
	return func(a *App) { a.updates = c }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.clipboard = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// New builds the app around cfg, which was loaded from cfgPath.
func New(cfg *config.Config, cfgPath string, opts ...Option) *App {
	a := &App{
		cfg:       cfg,
		cfgPath:   cfgPath,
		clipboard: clipboard.WriteAll,
		log:       logger.Component("app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.store = account.Open(cfg.AccountsPath(), a.log.With(slog.String("store", "accounts")))
	if a.switcher == nil {
		a.switcher = switcher.New(processes.New(), cfg.BackupDir(),
			switcher.WithClientFinder(func() (string, error) {
				return scanner.FindRiotClient(a.cfg.RiotClientPath)
			}))
	}
	if a.dd == nil {
		a.dd = ddragon.New()
	}
	if a.updates == nil {
		a.updates = update.NewChecker(cfg.Update.Repo, version.Version)
	}
	a.reloadAPI()
	return a
}

// reloadAPI rebuilds the Riot clients after the API key changes.
func (a *App) reloadAPI() {
	a.client = riot.NewClient(a.cfg.APIKey, a.riotOpts...)
	a.stats = stats.NewService(a.client, stats.WithChampionNamer(a.dd))
	a.validator = riot.NewKeyValidator(a.riotOpts...)
}

func (a *App) Config() *config.Config       { return a.cfg }
func (a *App) Switcher() *switcher.Switcher { return a.switcher }
func (a *App) Stats() *stats.Service        { return a.stats }
func (a *App) DDragon() *ddragon.Client     { return a.dd }
func (a *App) Region() string               { return a.cfg.Region }

// Accounts returns every account in insertion order.
func (a *App) Accounts() []account.Account { return a.store.List() }

// Find resolves ref as an account id, then as a username or display name.
func (a *App) Find(ref string) (account.Account, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if acc, ok := a.store.Get(id); ok {
			return acc, true
		}
	}
	return a.store.FindByUsername(ref)
}

// RiotIDFor returns ref's Riot ID when ref names a stored account, or ref
// itself when it already looks like name#tag.
func (a *App) RiotIDFor(ref string) (string, error) {
	if acc, ok := a.Find(ref); ok {
		if !acc.HasRiotID() {
			return "", fmt.Errorf("account %s has no Riot ID", acc.Name())
		}
		return acc.RiotID, nil
	}
	if _, err := riot.ParseRiotID(ref); err != nil {
		return "", fmt.Errorf("no account %q and %w", ref, err)
	}
	return ref, nil
}

func (a *App) AddAccount(username, displayName, riotID, password string) (account.Account, Result) {
	if strings.TrimSpace(username) == "" {
		return account.Account{}, failf("Username is required.")
	}
	if riotID != "" {
		if _, err := riot.ParseRiotID(riotID); err != nil {
			return account.Account{}, failf("%v", err)
		}
	}
	if _, exists := a.store.FindByUsername(username); exists {
		a.log.Warn("adding account with duplicate username", slog.String("username", username))
	}
	acc := a.store.Add(username, displayName, riotID, password)
	if password != "" {
		a.log.Warn("password stored in plaintext", slog.String("path", a.store.Path()))
	}
	return acc, okf("Added %s.", acc.Name())
}

func (a *App) EditAccount(id int, p account.Patch) Result {
	if p.Empty() {
		return failf("Nothing to change.")
	}
	if p.RiotID != nil && *p.RiotID != "" {
		if _, err := riot.ParseRiotID(*p.RiotID); err != nil {
			return failf("%v", err)
		}
	}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return failf("Username is required.")
	}
	if !a.store.Update(id, p) {
		return failf("Account %d not found.", id)
	}
	acc, _ := a.store.Get(id)
	return okf("Updated %s.", acc.Name())
}

// DeleteAccount removes the account and, if asked, its saved session.
func (a *App) DeleteAccount(id int, deleteBackup bool) Result {
	acc, ok := a.store.Get(id)
	if !ok {
		return failf("Account %d not found.", id)
	}
	a.store.Delete(id)
	if deleteBackup {
		if err := a.switcher.DeleteBackup(acc.Username); err != nil && !errors.Is(err, switcher.ErrNoBackup) {
			return failf("Deleted %s but could not remove its saved session: %v", acc.Name(), err)
		}
	}
	return okf("Deleted %s.", acc.Name())
}

// CopyPassword places the stored password on the system clipboard.
func (a *App) CopyPassword(id int) Result {
	acc, ok := a.store.Get(id)
	if !ok {
		return failf("Account %d not found.", id)
	}
	if acc.Password == "" {
		return failf("No password saved for %s.", acc.Name())
	}
	if err := a.clipboard(acc.Password); err != nil {
		return failf("Could not copy password: %v", err)
	}
	a.log.Warn("plaintext password copied to clipboard", slog.Int("account_id", id))
	return okf("Password for %s copied to clipboard.", acc.Name())
}

// SwitchAccount swaps the Riot client session to the account's.
func (a *App) SwitchAccount(ctx context.Context, id int) Result {
	acc, ok := a.store.Get(id)
	if !ok {
		return failf("Account %d not found.", id)
	}
	return a.Switch(ctx, acc)
}

// Switch runs the session switch for acc. It does not touch the store and
// may run on any goroutine.
func (a *App) Switch(ctx context.Context, acc account.Account) Result {
	out, err := a.switcher.Switch(ctx, acc.Username)
	if err != nil {
		return failf("%s", out.Message)
	}
	return okf("%s", out.Message)
}

// SaveSession stores the current Riot client session under the account.
func (a *App) SaveSession(id int) Result {
	acc, ok := a.store.Get(id)
	if !ok {
		return failf("Account %d not found.", id)
	}
	if err := a.switcher.SaveSession(acc.Username); err != nil {
		return failf("Could not save session: %v", err)
	}
	return okf("Session saved for %s.", acc.Name())
}

// Refreshed is rank and profile data fetched for one account but not yet
// written to the store.
type Refreshed struct {
	Account account.Account
	Data    stats.Refresh
	Err     error
}

// FetchRefresh fetches rank and profile for acc. It does not touch the store
// and may run on any goroutine.
func (a *App) FetchRefresh(ctx context.Context, acc account.Account) Refreshed {
	data, err := a.stats.Refresh(ctx, acc.RiotID, a.cfg.Region)
	return Refreshed{Account: acc, Data: data, Err: err}
}

// ApplyRefresh writes whatever arrived back to the store. A failed half
// leaves the stored value alone.
func (a *App) ApplyRefresh(r Refreshed) Result {
	acc, res := r.Account, r.Data
	if res.Rank == nil && res.Profile == nil {
		return failf("Could not refresh %s: %v", acc.Name(), r.Err)
	}

	var p account.Patch
	if res.Rank != nil {
		p.Rank = account.String(res.Rank.Label)
		if res.Rank.Stats != nil {
			p.RankedStats = account.Stats(*res.Rank.Stats)
		} else {
			p.ClearRankedStats = true
		}
	}
	if res.Profile != nil {
		p.ProfileIconID = account.Int(res.Profile.ProfileIconID)
		p.SummonerLevel = account.Int(res.Profile.SummonerLevel)
	}
	if !a.store.Update(acc.ID, p) {
		return failf("Account %d not found.", acc.ID)
	}

	label := models.Unranked
	if res.Rank != nil {
		label = res.Rank.Label
	} else if acc.Rank != "" {
		label = acc.Rank
	}
	if len(res.Degraded) > 0 {
		return okf("Updated %s: %s (missing %s)", acc.Name(), label, strings.Join(res.Degraded, ", "))
	}
	return okf("Updated %s: %s", acc.Name(), label)
}

// RefreshAccount fetches rank and profile and writes whatever arrived back
// to the store.
func (a *App) RefreshAccount(ctx context.Context, id int) Result {
	acc, ok := a.store.Get(id)
	if !ok {
		return failf("Account %d not found.", id)
	}
	if !acc.HasRiotID() {
		return failf("%s has no Riot ID.", acc.Name())
	}
	return a.ApplyRefresh(a.FetchRefresh(ctx, acc))
}

// Refreshable returns the accounts that have a Riot ID, in order.
func (a *App) Refreshable() []account.Account {
	var targets []account.Account
	for _, acc := range a.store.List() {
		if acc.HasRiotID() {
			targets = append(targets, acc)
		}
	}
	return targets
}

// RefreshAll refreshes every account with a Riot ID in order. progress is
// called after each one.
func (a *App) RefreshAll(ctx context.Context, progress func(done, total int, acc account.Account, r Result)) []Result {
	targets := a.Refreshable()
	results := make([]Result, 0, len(targets))
	for i, acc := range targets {
		if ctx.Err() != nil {
			break
		}
		r := a.RefreshAccount(ctx, acc.ID)
		results = append(results, r)
		if progress != nil {
			progress(i+1, len(targets), acc, r)
		}
	}
	return results
}

// SetAPIKey stores key in the config file and rebuilds the API clients.
func (a *App) SetAPIKey(key string) Result {
	a.cfg.SetAPIKey(strings.TrimSpace(key))
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		return failf("Could not save settings: %v", err)
	}
	a.reloadAPI()
	if a.cfg.APIKey == "" {
		return okf("API key cleared.")
	}
	return okf("API key saved.")
}

func (a *App) SetRegion(region string) Result {
	region = riot.Platform(region)
	if !riot.ValidRegion(region) {
		return failf("Unknown region %q.", region)
	}
	a.cfg.Region = region
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		return failf("Could not save settings: %v", err)
	}
	return okf("Region set to %s.", riot.RegionName(region))
}

func (a *App) SetTheme(theme string) Result {
	theme = strings.ToLower(strings.TrimSpace(theme))
	valid := false
	for _, t := range Themes {
		valid = valid || t == theme
	}
	if !valid {
		return failf("Unknown theme %q (choose %s).", theme, strings.Join(Themes, " or "))
	}
	a.cfg.Theme = theme
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		return failf("Could not save settings: %v", err)
	}
	return okf("Theme set to %s.", theme)
}

// ValidateKey checks key, or the configured key when key is empty.
func (a *App) ValidateKey(ctx context.Context, key string) Result {
	if key == "" {
		key = a.cfg.APIKey
	}
	if key == "" {
		return failf("%v", riot.ErrNoAPIKey)
	}
	valid, err := a.validator.ValidateKey(ctx, key, a.cfg.Region)
	switch {
	case err != nil:
		return failf("Could not validate key: %v", err)
	case !valid:
		return failf("API key is invalid or expired.")
	default:
		return okf("API key is valid.")
	}
}

// CheckUpdate asks the release feed for a newer version.
func (a *App) CheckUpdate(ctx context.Context) (update.Release, Result) {
	rel, err := a.updates.Check(ctx)
	if err != nil {
		return rel, failf("Could not check for updates: %v", err)
	}
	if !rel.HasUpdate {
		return rel, okf("You are running the latest version (%s).", version.Version)
	}
	return rel, okf("Version %s is available (current %s).", rel.Version, version.Version)
}

// DownloadUpdate saves the release binary next to exe.
func (a *App) DownloadUpdate(ctx context.Context, rel update.Release, exe string, progress update.Progress) (string, Result) {
	dest := update.UpdatePath(exe)
	if err := a.updates.Download(ctx, rel, dest, progress); err != nil {
		return "", failf("Download failed: %v", err)
	}
	return dest, okf("Downloaded %s to %s.", rel.Version, dest)
}
