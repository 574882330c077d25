package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

func newDiagCmd(ov *overrides) *cobra.Command {
	var every int

	cmd := &cobra.Command{
		Use:   "diag YYYY.MM.DD TARGET[:category]",
		Short: "Dump per-minute azimuth, altitude and visibility of one target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if every < 1 {
				every = 1
			}
			a, err := setup(cmd.ErrOrStderr(), *ov)
			if err != nil {
				return err
			}
			defer a.close()

			loc := a.planner.Location()
			date, err := planner.ParseDate(args[0], loc)
			if err != nil {
				return err
			}
			targets, _ := planner.ParseTargets(args[1])
			if len(targets) == 0 {
				return fmt.Errorf("no target in %q", args[1])
			}
			target := targets[0]

			times := visibility.DayGrid(date, loc)
			samples, err := a.oracle.Resolve(cmd.Context(), target, times)
			if err != nil {
				return err
			}
			mask := visibility.NewBuilder(a.site.Corridor).Build(samples)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) at %s on %s, corridor az %g..%g alt %g..%g\n",
				target.Name, categoryLabel(target), a.site.Name, date.Format(planner.DateLayout),
				a.site.Corridor.AzMin, a.site.Corridor.AzMax, a.site.Corridor.AltMin, a.site.Corridor.AltMax)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\ttime\taz\talt\tvisible")
			for i, s := range samples {
				// Edges of visibility are always printed.
				edge := i > 0 && mask[i] != mask[i-1]
				if i%every != 0 && !edge && i != len(samples)-1 {
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%v\n", i, s.Time.In(loc).Format("15:04"), s.Azimuth, s.Altitude, mask[i])
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			ex := visibility.NewExtractor(visibility.ExtractorConfig{}).Extract(mask, times)
			fmt.Fprintf(out, "raw runs: %d, merged overnight: %v\n", ex.Raw, ex.Merged)
			for _, w := range ex.Windows {
				fmt.Fprintf(out, "window %s (%s)\n", planner.FormatWindow(w, loc), w.Duration())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&every, "every", 10, "Print every n-th minute")
	return cmd
}

func categoryLabel(t resolve.Target) string {
	if t.Category == "" {
		return "catalog"
	}
	return t.Category
}
