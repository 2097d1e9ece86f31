package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/metrics"
)

// PrintEvaluation renders one line per evaluated target, in target order.
// Targets without an entry are listed as "not evaluated".
func PrintEvaluation(w io.Writer, results map[dataset.Target]metrics.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSAMPLES\tMSE\tRMSE\tMAE\tR2\tACCURACY")
	for _, t := range dataset.AllTargets() {
		ev, ok := results[t]
		if !ok {
			fmt.Fprintf(tw, "%s\t-\tnot evaluated\t\t\t\t\n", t.Name())
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.1f%%\n", t.Name(), ev.Samples, ev.MSE, ev.RMSE, ev.MAE, ev.R2, 100*ev.Accuracy)
	}
	return tw.Flush()
}
