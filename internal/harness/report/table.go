package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var caser = cases.Title(language.English)

var tableHeader = []string{"Scenario", "Count", "Min", "Max", "Mean", "Std", "95% Confidence Interval"}

// RenderTable prints one table per experiment with a row per scenario.
func (r *Report) RenderTable(w io.Writer) {
	for _, exp := range r.Experiments {
		fmt.Fprintf(w, "\n=== %s Across All Scenarios (%s) ===\n", caser.String(exp.Name), exp.Column)
		table := initTable(w)
		for _, s := range exp.Series {
			st := s.Stats
			table.Append([]string{
				s.Label,
				strconv.Itoa(st.Count),
				formatNs(st.Min),
				formatNs(st.Max),
				formatNs(st.Mean),
				formatNs(st.StdDev),
				formatCI(st),
			})
		}
		table.Render()
	}
	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "  [Warning] %s\n", msg)
	}
}

// Headline is a one-line caption for a report.
func (r *Report) Headline() string {
	names := make([]string, len(r.Experiments))
	for i, e := range r.Experiments {
		names[i] = caser.String(e.Name)
	}
	return fmt.Sprintf("%d scenario(s): %s", len(r.Scenarios), strings.Join(names, ", "))
}

func initTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

func formatNs(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCI(st Stats) string {
	if st.Count < 2 {
		return "n/a"
	}
	return fmt.Sprintf("%s - %s (ns)", formatNs(st.CILow), formatNs(st.CIHigh))
}
