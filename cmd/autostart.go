package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moodtray/internal/platform"
)

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching MoodTray at login",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Launch MoodTray at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				item, err := platform.NewLoginItem(platform.NewService(), appName)
				if err != nil {
					return err
				}
				if err := item.Enable(); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Launch at login enabled")
				return err
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop launching MoodTray at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				item, err := platform.NewLoginItem(platform.NewService(), appName)
				if err != nil {
					return err
				}
				if err := item.Disable(); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Launch at login disabled")
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether MoodTray launches at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				item, err := platform.NewLoginItem(platform.NewService(), appName)
				if err != nil {
					return err
				}
				enabled, err := item.Enabled()
				if err != nil {
					return err
				}
				state := "disabled"
				if enabled {
					state = "enabled"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Launch at login %s\n", state)
				return err
			},
		},
	)

	return cmd
}
