package cmd

import (
	"strconv"

	"github.com/MrEthical07/goBlog/internal/view"
	"github.com/MrEthical07/goBlog/metrics/export/internaldefs"
	"github.com/spf13/cobra"
)

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Resolve the session once and print client counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.blog()
			if err != nil {
				return err
			}
			act := view.Activate(cmd.Context(), c)
			defer act.Close()
			if _, err := act.Wait(cmd.Context()); err != nil {
				return err
			}

			snap := c.MetricsSnapshot()
			rows := make([]view.MetricRow, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramBounds)+1)
			for _, def := range internaldefs.CounterDefs {
				rows = append(rows, view.MetricRow{Name: def.Name, Value: strconv.FormatUint(snap.Counters[def.ID], 10)})
			}
			for _, def := range internaldefs.HistogramDefs {
				raw, ok := snap.Histograms[def.ID]
				if !ok {
					continue
				}
				cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
				for i, le := range internaldefs.HistogramBounds {
					rows = append(rows, view.MetricRow{
						Name:  def.Name + `{le="` + le + `"}`,
						Value: strconv.FormatUint(cumulative[i], 10),
					})
				}
			}
			rows = append(rows, view.MetricRow{
				Name:  internaldefs.AuditDroppedName,
				Value: strconv.FormatUint(c.AuditDropped(), 10),
			})

			a.printer.Metrics(rows)
			return nil
		},
	}
}
