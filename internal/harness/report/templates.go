package report

// htmlTemplate is the scenario comparison page. Each experiment gets a
// statistics table and a line chart with one dataset per scenario.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Latency Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-warning: #f59e0b;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #0f172a;
            --bg-secondary: #1e293b;
            --bg-card: #1e293b;
            --text-primary: #f1f5f9;
            --text-secondary: #94a3b8;
            --text-muted: #64748b;
            --border-color: #334155;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container {
            max-width: 1400px;
            margin: 0 auto;
            padding: 2rem;
        }

        .header {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
            display: flex;
            justify-content: space-between;
            align-items: center;
        }

        .header h1 {
            font-size: 1.75rem;
            font-weight: 700;
            margin-bottom: 0.5rem;
        }

        .header .meta {
            display: flex;
            gap: 2rem;
            font-size: 0.875rem;
            color: var(--text-muted);
        }

        .theme-toggle {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 0.5rem;
            cursor: pointer;
            color: var(--text-secondary);
            font-size: 1.25rem;
        }

        .section {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        .section-title {
            font-size: 1.125rem;
            font-weight: 600;
            margin-bottom: 1.5rem;
            display: flex;
            align-items: center;
            gap: 0.5rem;
        }

        .section-title::before {
            content: '';
            width: 4px;
            height: 1.25rem;
            background: var(--accent-primary);
            border-radius: 2px;
        }

        .stats-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.875rem;
            margin-bottom: 1.5rem;
        }

        .stats-table th,
        .stats-table td {
            padding: 0.5rem 0.75rem;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }

        .stats-table th {
            font-size: 0.75rem;
            text-transform: uppercase;
            color: var(--text-muted);
        }

        .chart-wrapper {
            position: relative;
            height: 320px;
        }

        .warning {
            padding: 0.75rem;
            margin-bottom: 0.5rem;
            background: rgba(245, 158, 11, 0.1);
            border-radius: 6px;
            color: var(--accent-warning);
            font-size: 0.875rem;
        }

        .footer {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.75rem;
            padding: 1rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>{{.Title}}</h1>
                <div class="meta">
                    <span>{{len .Scenarios}} scenario(s)</span>
                    <span>{{.BaseDir}}</span>
                </div>
            </div>
            <button class="theme-toggle" onclick="toggleTheme()" title="Toggle theme">◐</button>
        </header>

        {{if .Warnings}}
        <section class="section">
            <h2 class="section-title">Warnings</h2>
            {{range .Warnings}}
            <div class="warning">{{.}}</div>
            {{end}}
        </section>
        {{end}}

        {{range .Experiments}}
        <section class="section">
            <h2 class="section-title">{{title .Name}} Across Scenarios</h2>
            <table class="stats-table">
                <thead>
                    <tr>
                        <th>Scenario</th>
                        <th>Count</th>
                        <th>Min</th>
                        <th>Max</th>
                        <th>Mean</th>
                        <th>Std</th>
                        <th>95% CI (ns)</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Series}}
                    <tr>
                        <td>{{.Label}}</td>
                        <td>{{.Stats.Count}}</td>
                        <td>{{formatLatency .Stats.Min}}</td>
                        <td>{{formatLatency .Stats.Max}}</td>
                        <td>{{formatLatency .Stats.Mean}}</td>
                        <td>{{formatNs .Stats.StdDev}}</td>
                        <td>{{formatCI .Stats}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            <div class="chart-wrapper">
                <canvas id="{{chartID .Name}}"></canvas>
            </div>
        </section>
        {{end}}

        <footer class="footer">
            <p>Generated by rtbench • {{.Generated.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>

    <script>
        function toggleTheme() {
            const html = document.documentElement;
            const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
            html.setAttribute('data-theme', newTheme);
            localStorage.setItem('theme', newTheme);
            updateChartColors();
        }

        document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');

        function getChartColors() {
            const isDark = document.documentElement.getAttribute('data-theme') === 'dark';
            return {
                text: isDark ? '#f1f5f9' : '#1e293b',
                grid: isDark ? '#334155' : '#e2e8f0',
            };
        }

        const palette = ['#3b82f6', '#22c55e', '#f59e0b', '#ef4444', '#8b5cf6', '#ec4899', '#14b8a6', '#64748b'];

        const chartsData = {{.ChartsJSON}};
        const charts = [];

        function createCharts() {
            const colors = getChartColors();
            chartsData.forEach(function (c) {
                const ctx = document.getElementById(c.id);
                if (!ctx) {
                    return;
                }
                const longest = Math.max(0, ...c.datasets.map(d => d.data.length));
                const labels = Array.from({length: longest}, (_, i) => i);
                charts.push(new Chart(ctx.getContext('2d'), {
                    type: 'line',
                    data: {
                        labels: labels,
                        datasets: c.datasets.map((d, i) => ({
                            label: d.label,
                            data: d.data,
                            borderColor: palette[i % palette.length],
                            backgroundColor: 'transparent',
                            pointRadius: 1,
                            borderWidth: 1,
                        })),
                    },
                    options: {
                        responsive: true,
                        maintainAspectRatio: false,
                        animation: false,
                        plugins: {
                            legend: { labels: { color: colors.text } },
                        },
                        scales: {
                            x: {
                                title: { display: true, text: 'Iteration', color: colors.text },
                                ticks: { color: colors.text },
                                grid: { color: colors.grid },
                            },
                            y: {
                                title: { display: true, text: c.column, color: colors.text },
                                ticks: { color: colors.text },
                                grid: { color: colors.grid },
                            },
                        },
                    },
                }));
            });
        }

        function updateChartColors() {
            const colors = getChartColors();
            charts.forEach(chart => {
                chart.options.plugins.legend.labels.color = colors.text;
                ['x', 'y'].forEach(axis => {
                    chart.options.scales[axis].ticks.color = colors.text;
                    chart.options.scales[axis].grid.color = colors.grid;
                    chart.options.scales[axis].title.color = colors.text;
                });
                chart.update();
            });
        }

        document.addEventListener('DOMContentLoaded', function () {
            if (chartsData && chartsData.length > 0) {
                createCharts();
            }
        });
    </script>
</body>
</html>`
