package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/j-veylop/netmeter/internal/config"
	historylog "github.com/j-veylop/netmeter/internal/history"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved usage reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(false, func(_ *config.Config, mgr *services.Manager) error {
				records, err := mgr.History(limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintf(out, "No history saved yet (%s)\n", mgr.HistoryPath())
					return nil
				}
				renderHistory(out, records)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of rows to show (0 for all)")
	cmd.AddCommand(newSnapshotsCmd())
	return cmd
}

func newSnapshotsCmd() *cobra.Command {
	var (
		username string
		since    time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Show every recorded fetch from the snapshot database",
		Long: `Snapshots lists the reports stored automatically after each successful
fetch, oldest first. Without --username the most recent snapshots of all
users are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(false, func(_ *config.Config, mgr *services.Manager) error {
				var from time.Time
				if since > 0 {
					from = time.Now().Add(-since)
				}
				snapshots, err := mgr.Snapshots(username, from, limit)
				if err != nil {
					return err
				}
				if len(snapshots) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No snapshots recorded yet")
					return nil
				}
				renderSnapshots(cmd.OutOrStdout(), snapshots)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "only show this portal user")
	cmd.Flags().DurationVar(&since, "since", 0, "only show snapshots newer than this, e.g. 24h (needs --username)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of rows to show (0 for all, needs --username)")
	return cmd
}

func renderSnapshots(w io.Writer, snapshots []models.UsageSnapshot) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Timestamp", "Username", "Profile", "Status", "Total", "Quota"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, s := range snapshots {
		quota := "-"
		if s.QuotaPercent != nil {
			quota = fmt.Sprintf("%.1f%%", *s.QuotaPercent)
		}
		profile := s.Profile
		if profile == "" {
			profile = "-"
		}
		tw.AppendRow(table.Row{
			s.Timestamp.Local().Format(historylog.TimeLayout),
			s.Username,
			profile,
			s.Status,
			report.MB(s.TotalBytes),
			quota,
		})
	}
	tw.Render()
}

func renderHistory(w io.Writer, records []historylog.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Timestamp", "Username", "Status", "Download MB", "Upload MB", "Total MB"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, r := range records {
		tw.AppendRow(table.Row{
			r.Timestamp.Format(historylog.TimeLayout),
			r.Username,
			r.Status,
			fmt.Sprintf("%.2f", r.DownloadMB),
			fmt.Sprintf("%.2f", r.UploadMB),
			fmt.Sprintf("%.2f", r.TotalMB),
		})
	}
	tw.Render()
}
