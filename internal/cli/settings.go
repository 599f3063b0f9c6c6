package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kattitatu/riot-account-manager/internal/app"
	"github.com/kattitatu/riot-account-manager/internal/riot"
	"github.com/kattitatu/riot-account-manager/internal/update"
	"github.com/kattitatu/riot-account-manager/internal/version"
)

func newSettingsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				key := "not set"
				switch {
				case e.cfg.APIKeyFromEnv():
					key = "set (from environment)"
				case e.cfg.APIKey != "":
					key = "set"
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Config:       %s\n", e.cfgPath)
				fmt.Fprintf(out, "Data dir:     %s\n", e.cfg.DataDir)
				fmt.Fprintf(out, "API key:      %s\n", key)
				fmt.Fprintf(out, "Region:       %s (%s)\n", e.cfg.Region, riot.RegionName(e.cfg.Region))
				fmt.Fprintf(out, "Theme:        %s\n", e.cfg.Theme)
				fmt.Fprintf(out, "Riot Client:  %s\n", orDash(e.cfg.RiotClientPath))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key <key>",
			Short: "Store the Riot API key (pass an empty string to clear it)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.report(cmd, e.app.SetAPIKey(args[0]))
			},
		},
		&cobra.Command{
			Use:   "set-region <code>",
			Short: "Set the platform region, e.g. euw1 or na1",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.report(cmd, e.app.SetRegion(args[0]))
			},
		},
		&cobra.Command{
			Use:   "set-theme <dark|light>",
			Short: "Set the colour theme",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.report(cmd, e.app.SetTheme(args[0]))
			},
		},
		&cobra.Command{
			Use:   "validate-key [key]",
			Short: "Check an API key, or the stored one",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				}
				ctx := cmd.Context()
				r, err := await(ctx, e.loop, func() app.Result { return e.app.ValidateKey(ctx, key) })
				if err != nil {
					return err
				}
				return e.report(cmd, r)
			},
		},
		&cobra.Command{
			Use:   "regions",
			Short: "List region codes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rows := [][]string{}
				for _, r := range riot.Regions() {
					rows = append(rows, []string{r.Code, r.Name, r.Routing})
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.styles.table([]string{"Code", "Region", "Routing"}, rows))
				return nil
			},
		},
	)
	return cmd
}

func newUpdateCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and download new releases",
	}
	check := &cobra.Command{
		Use:   "check",
		Short: "Check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rel, r, err := e.checkUpdate(cmd)
			if err != nil {
				return err
			}
			if err := e.report(cmd, r); err != nil {
				return err
			}
			if rel.HasUpdate {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, e.styles.muted.Render(rel.PageURL))
				fmt.Fprintln(out, rel.Notes)
			}
			return nil
		},
	}
	download := &cobra.Command{
		Use:   "download",
		Short: "Download the newer release next to this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rel, r, err := e.checkUpdate(cmd)
			if err != nil {
				return err
			}
			if !r.OK {
				return errors.New(r.Message)
			}
			if !rel.HasUpdate {
				return e.report(cmd, r)
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}

			ctx := cmd.Context()
			out := cmd.ErrOrStderr()
			progress := func(done, total int64) {
				e.loop.Post(func() {
					if total > 0 {
						fmt.Fprintf(out, "\r%s / %s", humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)))
					} else {
						fmt.Fprintf(out, "\r%s", humanize.Bytes(uint64(done)))
					}
				})
			}
			type result struct {
				path string
				r    app.Result
			}
			res, err := await(ctx, e.loop, func() result {
				path, r := e.app.DownloadUpdate(ctx, rel, exe, progress)
				return result{path, r}
			})
			fmt.Fprintln(out)
			if err != nil {
				return err
			}
			if err := e.report(cmd, res.r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.styles.muted.Render("Close ram and replace it with the downloaded file to finish updating."))
			return nil
		},
	}
	cmd.AddCommand(check, download)
	return cmd
}

func (e *env) checkUpdate(cmd *cobra.Command) (update.Release, app.Result, error) {
	ctx := cmd.Context()
	type result struct {
		rel update.Release
		r   app.Result
	}
	res, err := await(ctx, e.loop, func() result {
		rel, r := e.app.CheckUpdate(ctx)
		return result{rel, r}
	})
	return res.rel, res.r, err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipApp": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ram %s\n", version.GetInfo())
		},
	}
}
