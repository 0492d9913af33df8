package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ygrebnov/ridesim"
	"github.com/ygrebnov/ridesim/metrics"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EC4F4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF4A1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F45E6E"))
)

// renderSummary formats the end-of-simulation report.
func renderSummary(s ridesim.Summary, dist metrics.HistSnapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Simulation summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s accepted=%d rejected=%d completed=%d abandoned=%d interrupted=%d\n",
		infoStyle.Render("rides:"), s.Accepted, s.Rejected, s.Completed, s.Abandoned, s.Interrupted)
	fmt.Fprintf(&b, "%s total=%d mean=%.1f max=%.0f\n",
		infoStyle.Render("distance:"), s.TotalDistance, dist.Mean, dist.Max)

	for _, w := range s.Workers {
		line := fmt.Sprintf("driver %d: %d rides, distance %d, last position %s", w.ID, w.Rides, w.Distance, w.Position)
		if w.Lost {
			b.WriteString(errorStyle.Render(line + " (lost)"))
		} else {
			b.WriteString(successStyle.Render(line + " (exited)"))
		}
		b.WriteString("\n")
	}

	status := successStyle.Render("clean shutdown")
	if !s.Clean {
		status = errorStyle.Render("grace period elapsed; remaining drivers were stopped")
	}
	fmt.Fprintf(&b, "%s sentinels=%d lost=%d\n", status, s.SentinelsSent, s.Lost)
	return b.String()
}
