package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/chart"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
)

const windowsUsage = "Usage: obsplan windows YYYY.MM.DD Target1,Target2..."

func newWindowsCmd(ov *overrides) *cobra.Command {
	var (
		chartPath string
		noChart   bool
		reserve   bool
	)

	cmd := &cobra.Command{
		Use:   "windows YYYY.MM.DD Target1,Target2...",
		Short: "Print the observability windows of targets for one day",
		Long: `Print the observability windows of targets for one day as JSON.

Targets are either bare names (Sun,Moon,B0329+54) or name:category pairs
(Sun:solar,ISS:satellite,B0329+54:pulsar). Bare sun, moon, mars, jupiter,
saturn and venus are solar-system bodies; other names are looked up in the
catalog, first with a "PSR " prefix.

Examples:
  obsplan windows 2025.03.14 Sun,Moon,B0329+54
  obsplan windows 2025.03.14 Sun:solar,ISS:satellite --no-chart
  obsplan windows 2025.03.14 Sun --reserve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) < 2 {
				return json.NewEncoder(out).Encode(map[string]string{"error": windowsUsage})
			}

			a, err := setup(cmd.ErrOrStderr(), *ov)
			if err != nil {
				return err
			}
			defer a.close()

			date, err := planner.ParseDate(args[0], a.planner.Location())
			if err != nil {
				return err
			}
			targets, dialect := planner.ParseTargets(args[1])

			plan, err := a.planner.Plan(cmd.Context(), date, targets)
			if err != nil {
				return err
			}

			image := ""
			if !noChart {
				image = chartPath
				if image == "" {
					image = planner.ImageName(date)
				}
				if err := chart.WriteFile(image, chart.FromPlan(plan, a.site.Name, a.planner.Location())); err != nil {
					return err
				}
			}

			if reserve {
				store, err := a.planStore()
				if err != nil {
					return err
				}
				reserveAll(cmd, a.logger, store, plan)
			}

			return json.NewEncoder(out).Encode(planner.Format(plan, dialect, image, a.planner.Location()))
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "Chart output path (default plan_YYYYMMDD.png)")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "Do not draw a chart")
	cmd.Flags().BoolVar(&reserve, "reserve", false, "Reserve the visible span of every visible target")
	return cmd
}

// reserveAll reserves each visible target in input order. Outcomes are
// logged; a conflict only skips that target.
func reserveAll(cmd *cobra.Command, logger *slog.Logger, store planner.Reserver, plan *planner.Plan) {
	for _, r := range plan.Results {
		if r.Status != planner.StatusFound {
			continue
		}
		entry, err := planner.ReserveResult(cmd.Context(), store, r, plan.Times)
		switch {
		case err == nil:
			logger.Info("target reserved", "target", r.Target.Name, "start_time", entry.StartTime, "end_time", entry.EndTime)
		case errors.Is(err, schedule.ErrConflict), errors.Is(err, schedule.ErrInvalidRange):
			logger.Info("target not reserved", "target", r.Target.Name, "reason", err)
		default:
			logger.Error("reservation failed", "target", r.Target.Name, "error", fmt.Sprint(err))
		}
	}
}
