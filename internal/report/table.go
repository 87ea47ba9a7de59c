package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/utils"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== SemTab Evaluation ===\n\n")
	writeEntryTable(tw, r.Entries)
	writeSummaryTable(tw, r.Summary)

	tw.Flush()
}

func writeEntryTable(tw *tabwriter.Writer, entries []Entry) {
	header := []string{"Job", "Task", "Round", "Precision", "Recall", "F1", "Macro F1", "Submitted", "Annotatable", "Extraneous", "Elapsed", "Error"}
	writeHeader(tw, header)

	for _, e := range entries {
		row := []string{e.Name, e.Task, fmt.Sprintf("%d", e.Round)}
		if e.Failed() {
			row = append(row, "-", "-", "-", "-", "-", "-", "-", fmtDuration(e.Elapsed), e.Error)
			fmt.Fprintln(tw, strings.Join(row, "\t"))
			continue
		}

		p := e.Payload
		macro := "-"
		if v, ok := p.Extra[metrics.ExtraMacroF1]; ok {
			macro = fmtScore(v)
		}
		row = append(row,
			fmtScore(p.Precision),
			fmtScore(p.Recall),
			fmtScore(p.F1),
			macro,
			fmt.Sprintf("%d", p.Counts.Submitted()),
			fmt.Sprintf("%d", p.Counts.Annotatable()),
			fmt.Sprintf("%.0f", p.Extra[metrics.ExtraExtraneous]),
			fmtDuration(e.Elapsed),
			"",
		)
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeSummaryTable(tw *tabwriter.Writer, summaries []TaskSummary) {
	if len(summaries) == 0 {
		return
	}
	fmt.Fprintf(tw, "Summary (mean across successful jobs)\n\n")

	writeHeader(tw, []string{"Task", "Precision", "Recall", "F1", "Errors", "Elapsed"})
	for _, s := range summaries {
		row := []string{
			s.Task,
			fmtScore(s.Precision),
			fmtScore(s.Recall),
			fmtScore(s.F1),
			fmt.Sprintf("%d/%d", s.ErrorCount, s.JobCount),
			fmtDuration(s.Elapsed),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.*f", metrics.ScoreDecimalPlaces, utils.RoundDecimal(v, metrics.ScoreDecimalPlaces))
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
