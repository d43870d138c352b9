package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/config"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

func newFetchCmd() *cobra.Command {
	var (
		profile  string
		username string
		password string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a usage report from the portal",
		Long: `Fetch logs in to the portal and prints the usage report.

Use --profile for stored credentials or --username/--password for a one-off
login. With a single stored profile, no flag is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(false, func(cfg *config.Config, mgr *services.Manager) error {
				name, creds, err := resolveCredentials(mgr, profile, username, password)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), cfg.PortalTimeout+5*time.Second)
				defer cancel()

				s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
				s.Suffix = " Contacting portal..."
				s.Start()
				rep, err := mgr.Fetch(ctx, name, creds)
				s.Stop()
				if err != nil {
					return errors.New(app.DescribeError(err))
				}

				out := cmd.OutOrStdout()
				renderReport(out, name, rep, cfg.QuotaWarnPercent, time.Now())

				if save {
					user := creds.Username
					if user == "" {
						user = rep.Username
					}
					if err := mgr.SaveHistory(rep, user); err != nil {
						return fmt.Errorf("failed to save history: %w", err)
					}
					fmt.Fprintf(out, "Saved to %s\n", mgr.HistoryPath())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "stored profile to use")
	cmd.Flags().StringVarP(&username, "username", "u", "", "portal username for a one-off login")
	cmd.Flags().StringVar(&password, "password", "", "portal password for a one-off login")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "append the report to the history file")
	cmd.MarkFlagsMutuallyExclusive("profile", "username")
	cmd.MarkFlagsRequiredTogether("username", "password")

	return cmd
}

// resolveCredentials picks the profile or one-off credentials to log in with.
func resolveCredentials(mgr *services.Manager, profile, username, password string) (string, models.Credentials, error) {
	if username != "" {
		return "", models.Credentials{Username: username, Password: password}, nil
	}

	if profile == "" {
		stored := mgr.Profiles()
		switch len(stored) {
		case 0:
			return "", models.Credentials{}, errors.New("no profiles configured, add one with 'netmeter profiles add' or pass --username")
		case 1:
			profile = stored[0].Name
		default:
			return "", models.Credentials{}, errors.New("several profiles configured, choose one with --profile")
		}
	}

	for _, p := range mgr.Profiles() {
		if p.Name == profile {
			return p.Name, p.Credentials, nil
		}
	}
	return "", models.Credentials{}, fmt.Errorf("%w: %s", services.ErrUnknownProfile, profile)
}

// renderReport prints rep as a two-column table.
func renderReport(w io.Writer, profile string, rep *report.UsageReport, warn float64, now time.Time) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Usage Report")
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgHiBlack}},
		{Number: 2, Align: text.AlignRight},
	})

	status := rep.Status.String()
	if rep.Status == report.StatusQuotaReached {
		status = text.FgRed.Sprint(status)
	} else {
		status = text.FgGreen.Sprint(status)
	}

	if profile != "" {
		tw.AppendRow(table.Row{"Profile", profile})
	}
	if rep.Username != "" {
		tw.AppendRow(table.Row{"Username", rep.Username})
	}
	tw.AppendRows([]table.Row{
		{"Status", status},
		{"Download", report.MB(rep.DownloadBytes)},
		{"Upload", report.MB(rep.UploadBytes)},
		{"Total", text.Bold.Sprint(report.MB(rep.TotalBytes))},
	})
	tw.AppendSeparator()

	if limit, ok := rep.QuotaLimitBytes(); ok {
		tw.AppendRow(table.Row{rep.QuotaBasis.String(), report.MB(limit)})
	}
	if rep.Quota != nil && rep.Quota.AvailableBytes != nil {
		tw.AppendRow(table.Row{"Remaining", report.MB(*rep.Quota.AvailableBytes)})
	}
	if rep.QuotaPercentUsed != nil {
		used := fmt.Sprintf("%.1f%%", *rep.QuotaPercentUsed)
		if rep.HighUsage(warn) {
			used = text.FgRed.Sprint(used)
		}
		tw.AppendRow(table.Row{"Quota used", used})
	}
	if rep.QuotaExceededBy != nil {
		tw.AppendRow(table.Row{"Exceeded by", text.FgRed.Sprint(report.MB(*rep.QuotaExceededBy))})
	}

	if rep.RenewalInstant.IsZero() {
		tw.AppendRow(table.Row{"Renewal", "unknown"})
	} else {
		tw.AppendRow(table.Row{"Renewal", fmt.Sprintf("%s (%s)",
			rep.RenewalInstant.Local().Format("2006-01-02 15:04"),
			humanize.RelTime(rep.RenewalInstant, now, "ago", "from now"))})
		tw.AppendRow(table.Row{"Time left", rep.Countdown().String()})
	}

	tw.Render()
}
