package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
)

func newReserveCmd(ov *overrides) *cobra.Command {
	var (
		dateStr  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "reserve [TARGET]",
		Short: "Reserve a target's visible span in the plan",
		Long: `Reserve the span from the first to the last minute a target is inside the
corridor. The reservation is refused when it overlaps an entry already in
the plan; that is reported but is not an error.

TARGET defaults to Sun and --date to today.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.ErrOrStderr(), *ov)
			if err != nil {
				return err
			}
			defer a.close()

			name := "Sun"
			if len(args) == 1 {
				name = args[0]
			}
			if category == "" {
				category = planner.InferCategory(name)
			}

			loc := a.planner.Location()
			date := time.Now().In(loc)
			if dateStr != "" {
				if date, err = planner.ParseDate(dateStr, loc); err != nil {
					return err
				}
			}
			day := date.Format("2006-01-02")

			store, err := a.planStore()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entry, err := a.planner.Reserve(cmd.Context(), store, date, resolve.Target{Name: name, Category: category})
			switch {
			case err == nil:
				fmt.Fprintf(out, "Planning %s from %d to %d for %s\n", name, entry.StartTime, entry.EndTime, day)
				fmt.Fprintf(out, "%s successfully added to plan.\n", name)
				return nil
			case errors.Is(err, schedule.ErrConflict):
				fmt.Fprintf(out, "Planning %s from %d to %d for %s\n", name, entry.StartTime, entry.EndTime, day)
				fmt.Fprintf(out, "Conflict: a recording is already planned during this %s window.\n", name)
				return nil
			case errors.Is(err, planner.ErrNoVisibility), errors.Is(err, schedule.ErrInvalidRange):
				fmt.Fprintf(out, "%s is not observable on %s.\n", name, day)
				return nil
			default:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Day to plan, YYYY.MM.DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "Target category (solar, satellite or a catalog class)")
	return cmd
}
