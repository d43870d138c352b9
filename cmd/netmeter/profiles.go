package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/j-veylop/netmeter/internal/config"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage stored portal credentials",
	}
	cmd.AddCommand(newProfilesListCmd(), newProfilesAddCmd(), newProfilesDeleteCmd())
	return cmd
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(false, func(_ *config.Config, mgr *services.Manager) error {
				stored := mgr.Profiles()
				out := cmd.OutOrStdout()
				if len(stored) == 0 {
					fmt.Fprintf(out, "No profiles in %s\n", mgr.ProfilesPath())
					return nil
				}
				renderProfiles(out, stored, mgr.ProfileStatuses())
				return nil
			})
		},
	}
}

func renderProfiles(w io.Writer, stored []models.Profile, statuses map[string]models.ProfileStatus) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Username", "Password", "Last Status", "Total"})

	for _, p := range stored {
		status, total := "-", "-"
		if st, ok := statuses[p.Name]; ok {
			status = st.Status
			if st.TotalBytes > 0 {
				total = report.MB(st.TotalBytes)
			}
		}
		tw.AppendRow(table.Row{p.Name, p.Username, p.MaskedPassword(), status, total})
	}
	tw.Render()
}

func newProfilesAddCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a profile",
		Long: `Add stores credentials under NAME, replacing an existing profile of the
same name. Without --password the password is read from the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				password = p
			}

			return withManager(false, func(_ *config.Config, mgr *services.Manager) error {
				creds := models.Credentials{Username: username, Password: password}
				if err := mgr.SaveProfile(args[0], creds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "portal username")
	cmd.Flags().StringVar(&password, "password", "", "portal password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// readPassword prompts without echo on a terminal and reads a line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newProfilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(false, func(_ *config.Config, mgr *services.Manager) error {
				if err := mgr.DeleteProfile(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
				return nil
			})
		},
	}
}
