package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kattitatu/riot-account-manager/internal/account"
	"github.com/kattitatu/riot-account-manager/internal/app"
	"github.com/kattitatu/riot-account-manager/internal/switcher"
)

func newAccountsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"acc"},
		Short:   "Manage saved accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(e),
		newAccountsAddCommand(e),
		newAccountsEditCommand(e),
		newAccountsDeleteCommand(e),
		newCopyPasswordCommand(e),
	)
	return cmd
}

func newAccountsListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts := e.app.Accounts()
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), e.styles.muted.Render("No accounts yet. Add one with: ram accounts add <username>"))
				return nil
			}
			rows := make([][]string, 0, len(accounts))
			for _, acc := range accounts {
				session := "no"
				if e.app.Switcher().HasBackup(acc.Username) {
					session = "saved"
				}
				rank := acc.Rank
				if acc.RankedStats != nil {
					rank = acc.RankedStats.Summary()
				}
				added := "-"
				if !acc.CreatedAt.IsZero() {
					added = humanize.Time(acc.CreatedAt.Time)
				}
				rows = append(rows, []string{
					fmt.Sprint(acc.ID),
					acc.Name(),
					acc.Username,
					orDash(acc.RiotID),
					e.styles.rank(rank),
					intOrDash(acc.SummonerLevel),
					session,
					added,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.styles.table(
				[]string{"ID", "Name", "Username", "Riot ID", "Rank", "Level", "Session", "Added"}, rows))
			return nil
		},
	}
}

func newAccountsAddCommand(e *env) *cobra.Command {
	var displayName, riotID, password string
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), e.styles.warn.Render("Warning: the password is stored in plain text in "+e.cfg.AccountsPath()))
			}
			_, r := e.app.AddAccount(args[0], displayName, riotID, password)
			return e.report(cmd, r)
		},
	}
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	cmd.Flags().StringVar(&riotID, "riot-id", "", "Riot ID as name#tag")
	cmd.Flags().StringVar(&password, "password", "", "password to keep for copy-password (stored in plain text)")
	return cmd
}

func newAccountsEditCommand(e *env) *cobra.Command {
	var username, displayName, riotID, password string
	cmd := &cobra.Command{
		Use:   "edit <id|username>",
		Short: "Change an account's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.lookup(args[0])
			if err != nil {
				return err
			}
			var p account.Patch
			flags := cmd.Flags()
			if flags.Changed("username") {
				p.Username = account.String(username)
			}
			if flags.Changed("name") {
				p.DisplayName = account.String(displayName)
			}
			if flags.Changed("riot-id") {
				p.RiotID = account.String(riotID)
			}
			if flags.Changed("password") {
				p.Password = account.String(password)
				if password != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), e.styles.warn.Render("Warning: the password is stored in plain text"))
				}
			}
			return e.report(cmd, e.app.EditAccount(id, p))
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login username")
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	cmd.Flags().StringVar(&riotID, "riot-id", "", "Riot ID as name#tag")
	cmd.Flags().StringVar(&password, "password", "", "password (stored in plain text)")
	return cmd
}

func newAccountsDeleteCommand(e *env) *cobra.Command {
	var withSession bool
	cmd := &cobra.Command{
		Use:     "delete <id|username>",
		Aliases: []string{"rm"},
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.lookup(args[0])
			if err != nil {
				return err
			}
			return e.report(cmd, e.app.DeleteAccount(id, withSession))
		},
	}
	cmd.Flags().BoolVar(&withSession, "with-session", false, "also delete the saved session")
	return cmd
}

func newCopyPasswordCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "copy-password <id|username>",
		Short: "Copy an account's password to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.lookup(args[0])
			if err != nil {
				return err
			}
			return e.report(cmd, e.app.CopyPassword(id))
		},
	}
}

func newSwitchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <id|username>",
		Short: "Close the Riot Client and relaunch it signed in as the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.styles.muted.Render("Switching account..."))
			ctx := cmd.Context()
			r, err := await(ctx, e.loop, func() app.Result { return e.app.SwitchAccount(ctx, id) })
			if err != nil {
				return err
			}
			return e.report(cmd, r)
		},
	}
}

func newSessionCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved Riot Client sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save <id|username>",
			Short: "Save the current Riot Client session for an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := e.lookup(args[0])
				if err != nil {
					return err
				}
				return e.report(cmd, e.app.SaveSession(id))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved sessions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := e.app.Switcher().Backups()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), e.styles.muted.Render("No saved sessions."))
					return nil
				}
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					info, err := e.app.Switcher().InspectBackup(name)
					if err != nil {
						rows = append(rows, []string{name, "-", "-", err.Error()})
						continue
					}
					rows = append(rows, []string{name, fmt.Sprint(info.Files), humanize.Bytes(uint64(info.Bytes)), remembered(info)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.styles.table([]string{"Username", "Files", "Size", "Login"}, rows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <username>",
			Short: "Delete a saved session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := e.app.Switcher().DeleteBackup(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.styles.ok.Render("Deleted saved session for "+args[0]+"."))
				return nil
			},
		},
		&cobra.Command{
			Use:   "inspect [username]",
			Short: "Describe a saved session, or the live one when no username is given",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					info switcher.SessionInfo
					err  error
				)
				if len(args) == 1 {
					info, err = e.app.Switcher().InspectBackup(args[0])
				} else {
					info, err = e.app.Switcher().InspectLive()
				}
				if errors.Is(err, switcher.ErrNoBackup) {
					return fmt.Errorf("no saved session for %s", args[0])
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, e.styles.title.Render(info.Path))
				fmt.Fprintf(out, "Files:        %d (%s)\n", info.Files, humanize.Bytes(uint64(info.Bytes)))
				fmt.Fprintf(out, "Credentials:  %s\n", orDash(strings.Join(info.Credentials, ", ")))
				fmt.Fprintf(out, "Login:        %s\n", remembered(info))
				fmt.Fprintf(out, "Region:       %s\n", orDash(info.Region))
				return nil
			},
		},
	)
	return cmd
}

func remembered(info switcher.SessionInfo) string {
	if info.Remembered {
		return "remembered"
	}
	return "not remembered"
}
