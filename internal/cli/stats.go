package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kattitatu/riot-account-manager/internal/account"
	"github.com/kattitatu/riot-account-manager/internal/app"
	"github.com/kattitatu/riot-account-manager/internal/riot"
	"github.com/kattitatu/riot-account-manager/internal/stats"
)

func newRefreshCommand(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "refresh [id|username]",
		Short: "Fetch rank, icon and level for accounts with a Riot ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var targets []account.Account
			switch {
			case all && len(args) > 0:
				return errors.New("pass an account or --all, not both")
			case all:
				targets = e.app.Refreshable()
				if len(targets) == 0 {
					return errors.New("no accounts have a Riot ID")
				}
			case len(args) == 1:
				acc, ok := e.app.Find(args[0])
				if !ok {
					return fmt.Errorf("no account %q", args[0])
				}
				if !acc.HasRiotID() {
					return fmt.Errorf("%s has no Riot ID", acc.Name())
				}
				targets = []account.Account{acc}
			default:
				return errors.New("pass an account or --all")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			failed := 0
			for i, acc := range targets {
				fetched, err := await(ctx, e.loop, func() app.Refreshed { return e.app.FetchRefresh(ctx, acc) })
				if err != nil {
					return err
				}
				r := e.app.ApplyRefresh(fetched)
				prefix := ""
				if len(targets) > 1 {
					prefix = fmt.Sprintf("[%d/%d] ", i+1, len(targets))
				}
				if r.OK {
					fmt.Fprintln(out, prefix+e.styles.ok.Render(r.Message))
				} else {
					failed++
					fmt.Fprintln(out, prefix+e.styles.fail.Render(r.Message))
				}
			}
			if failed == len(targets) {
				return errors.New("refresh failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "refresh every account with a Riot ID")
	return cmd
}

func newRankCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rank <riot-id|account>",
		Short: "Show solo queue rank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			riotID, err := e.app.RiotIDFor(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			type result struct {
				rank stats.RankResult
				err  error
			}
			r, err := await(ctx, e.loop, func() result {
				rank, err := e.app.Stats().Rank(ctx, riotID, e.cfg.Region)
				return result{rank, err}
			})
			if err != nil {
				return err
			}
			if r.err != nil {
				return r.err
			}
			line := e.styles.rank(r.rank.Label)
			if r.rank.Stats != nil {
				line = e.styles.rank(r.rank.Stats.Summary())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.styles.title.Render(riotID), line)
			return nil
		},
	}
}

func newLiveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "live <riot-id|account>",
		Short: "Show the player's current game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			riotID, err := e.app.RiotIDFor(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			type result struct {
				game *stats.LiveGame
				err  error
			}
			r, err := await(ctx, e.loop, func() result {
				g, err := e.app.Stats().LiveGame(ctx, riotID, e.cfg.Region)
				return result{g, err}
			})
			if err != nil {
				return err
			}
			if r.err != nil {
				return r.err
			}
			out := cmd.OutOrStdout()
			if r.game == nil {
				fmt.Fprintln(out, e.styles.muted.Render(riotID+" is not in a game."))
				return nil
			}
			g := r.game
			fmt.Fprintf(out, "%s  %s\n", e.styles.title.Render(riot.QueueName(g.QueueID)), stats.FormatGameTime(g.Length))
			for _, team := range []struct {
				id   int
				name string
			}{{100, "Blue team"}, {200, "Red team"}} {
				members := g.Team(team.id)
				if len(members) == 0 {
					continue
				}
				rows := make([][]string, 0, len(members))
				for _, p := range members {
					name := orDash(p.RiotID)
					if p.IsTarget {
						name = e.styles.title.Render(name + " *")
					}
					rank := "Unranked"
					if p.Rank != nil {
						rank = p.Rank.String()
					}
					rows = append(rows, []string{
						orDash(p.ChampionName),
						spellPair(p.Spell1ID, p.Spell2ID),
						name,
						e.styles.rank(rank),
						humanize.Comma(int64(p.MasteryPoints)),
						intOrDash(p.SummonerLevel),
					})
				}
				fmt.Fprintln(out, e.styles.header.Render(team.name))
				fmt.Fprintln(out, e.styles.table([]string{"Champion", "Spells", "Player", "Rank", "Mastery", "Level"}, rows))
			}
			if len(g.Degraded) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), e.styles.warn.Render("Some lookups failed: "+strings.Join(g.Degraded, ", ")))
			}
			return nil
		},
	}
}

func newHistoryCommand(e *env) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "history <riot-id|account>",
		Short: "Show recent matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			riotID, err := e.app.RiotIDFor(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			type result struct {
				matches []stats.MatchSummary
				err     error
			}
			r, err := await(ctx, e.loop, func() result {
				m, err := e.app.Stats().MatchHistory(ctx, riotID, e.cfg.Region, count)
				return result{m, err}
			})
			if err != nil {
				return err
			}
			if r.err != nil {
				return r.err
			}
			out := cmd.OutOrStdout()
			if len(r.matches) == 0 {
				fmt.Fprintln(out, e.styles.muted.Render("No recent matches."))
				return nil
			}
			rows := make([][]string, 0, len(r.matches))
			for _, m := range r.matches {
				rows = append(rows, []string{
					e.outcome(m),
					orDash(m.ChampionName),
					spellPair(m.Summoner1ID, m.Summoner2ID),
					fmt.Sprintf("%d/%d/%d (%.2f)", m.Kills, m.Deaths, m.Assists, m.KDA()),
					fmt.Sprint(m.CS),
					riot.QueueName(m.QueueID),
					stats.FormatGameTime(m.Duration),
					humanize.Time(m.PlayedAt),
				})
			}
			fmt.Fprintln(out, e.styles.table([]string{"Result", "Champion", "Spells", "KDA", "CS", "Queue", "Length", "Played"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", stats.DefaultMatchCount, "number of matches")
	return cmd
}

// spellPair renders two summoner spells as "Flash/Ignite".
func spellPair(a, b int) string {
	name := func(id int) string {
		if n := riot.SpellName(id); n != "" {
			return n
		}
		return fmt.Sprint(id)
	}
	return name(a) + "/" + name(b)
}

func (e *env) outcome(m stats.MatchSummary) string {
	label := m.Result
	if label == "" {
		label = "Loss"
		if m.Win {
			label = "Win"
		}
		return e.styles.muted.Render(label)
	}
	if m.Win {
		return e.styles.ok.Render(label)
	}
	return e.styles.fail.Render(label)
}

func newStatusCommand(e *env) *cobra.Command {
	var (
		region   string
		watch    bool
		schedule string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show League platform status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if region == "" {
				region = e.cfg.Region
			}
			if !riot.ValidRegion(region) {
				return fmt.Errorf("unknown region %q", region)
			}
			ctx := cmd.Context()
			fetch := func(ctx context.Context) stats.PlatformStatus {
				return e.app.Stats().Status(ctx, region)
			}
			if !watch {
				st, err := await(ctx, e.loop, func() stats.PlatformStatus { return fetch(ctx) })
				if err != nil {
					return err
				}
				e.printStatus(cmd, st)
				return nil
			}

			w := app.NewStatusWatcher(e.loop, fetch, func(st stats.PlatformStatus) { e.printStatus(cmd, st) })
			if err := w.Start(ctx, schedule); err != nil {
				return err
			}
			defer w.Stop()
			if err := e.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "platform code such as euw1 (default from settings)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and refresh on a schedule")
	cmd.Flags().StringVar(&schedule, "every", app.DefaultStatusSchedule, "refresh schedule for --watch (cron or @every)")
	return cmd
}

func (e *env) printStatus(cmd *cobra.Command, st stats.PlatformStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s  %s\n",
		e.styles.title.Render(st.RegionName),
		e.styles.status(st.Level),
		e.styles.muted.Render(st.CheckedAt.Format(time.Kitchen)))
	if st.Err != nil {
		fmt.Fprintln(out, e.styles.muted.Render("  "+st.Err.Error()))
	}
	for _, ev := range st.Incidents {
		fmt.Fprintln(out, "  "+e.styles.warn.Render("Incident: ")+orDash(riot.Localized(ev.Titles, "en_US")))
	}
	for _, ev := range st.Maintenances {
		fmt.Fprintln(out, "  "+e.styles.warn.Render("Maintenance: ")+orDash(riot.Localized(ev.Titles, "en_US")))
	}
}
