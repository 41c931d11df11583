package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"moodtray/internal/core/model"
	"moodtray/internal/storage"
	"moodtray/internal/ui/render"
)

func newSummaryCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print recorded moods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(false)
			if err != nil {
				return err
			}
			defer env.Close()

			store := storage.NewEntryStore(env.paths.DataDir, time.Now, env.logger)
			summary := model.Summary{}
			if day == "" {
				summary = store.ReadSummary(cmd.Context())
			} else {
				entries, err := store.ReadDay(cmd.Context(), day)
				if err != nil {
					return fmt.Errorf("read %s: %w", day, err)
				}
				if len(entries) > 0 {
					summary[day] = entries
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Summary(summary))
			return err
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only print one day (YYYY-MM-DD)")
	return cmd
}
