package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"
)

// htmlData contains all data needed to render the HTML report.
type htmlData struct {
	*Report
	ChartsJSON template.JS
}

// chartData is one chart: an experiment with a dataset per scenario.
type chartData struct {
	ID       string         `json:"id"`
	Column   string         `json:"column"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

// GenerateHTML renders the report and writes it to outputPath.
func GenerateHTML(r *Report, outputPath string) error {
	html, err := GenerateHTMLString(r)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString renders the report as a self-contained HTML page.
func GenerateHTMLString(r *Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	charts, err := chartsJSON(r.Experiments)
	if err != nil {
		return "", fmt.Errorf("failed to convert traces: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, htmlData{Report: r, ChartsJSON: template.JS(charts)}); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func chartsJSON(exps []*Experiment) (string, error) {
	charts := make([]chartData, 0, len(exps))
	for _, e := range exps {
		c := chartData{ID: chartID(e.Name), Column: e.Column}
		for _, s := range e.Series {
			c.Datasets = append(c.Datasets, chartDataset{Label: s.Label, Data: s.Values})
		}
		charts = append(charts, c)
	}
	b, err := json.Marshal(charts)
	if err != nil {
		return "[]", err
	}
	return string(b), nil
}

func chartID(name string) string {
	return name + "Chart"
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"chartID":       chartID,
		"title":         caser.String,
		"formatNs":      formatNs,
		"formatCI":      formatCI,
		"formatLatency": formatLatency,
	}
}

// formatLatency formats a nanosecond value with a readable unit.
func formatLatency(ns float64) string {
	d := time.Duration(ns)
	abs := d
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case abs < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case abs < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
