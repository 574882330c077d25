package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
)

func newListCmd(ov *overrides) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print planned observations as JSON",
		Long:  "Print the plan entries of one day, or every entry that has not ended yet when --date is omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.ErrOrStderr(), *ov)
			if err != nil {
				return err
			}
			defer a.close()

			from, to := time.Now(), time.Time{}
			if dateStr != "" {
				day, err := planner.ParseDate(dateStr, a.planner.Location())
				if err != nil {
					return err
				}
				from, to = day, day.AddDate(0, 0, 1)
			}

			store, err := a.planStore()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []schedule.PlanEntry{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Day to list, YYYY.MM.DD")
	return cmd
}
