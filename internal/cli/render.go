package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/session"
	"github.com/julianstephens/timewise/internal/stats"
	"github.com/julianstephens/timewise/internal/utils"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

const barWidth = 20

// Bar renders a horizontal bar filled to percent, clamped to [0, 100].
func Bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderActivity is one activity line with its id for later deletion.
func RenderActivity(a models.Activity) string {
	return fmt.Sprintf("%s  %-28s %-14s %6s  %s",
		a.Timestamp.Format("15:04"),
		a.Name,
		a.Category,
		utils.FormatDuration(a.DurationMin),
		SubtleStyle.Render(a.ID))
}

// RenderBreakdown lists category totals with their share of total.
func RenderBreakdown(breakdown []stats.CategoryTotal, total int) string {
	if len(breakdown) == 0 {
		return SubtleStyle.Render("No activities logged.")
	}
	var sb strings.Builder
	for _, ct := range breakdown {
		share := stats.Share(ct.Minutes, total)
		fmt.Fprintf(&sb, "%-14s %s %3d%%  %s\n", ct.Category, Bar(share, barWidth), share, utils.FormatDuration(ct.Minutes))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderDay renders the dashboard summary of one day.
func RenderDay(day stats.DaySummary) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(day.Date.Format("Monday, Jan 2")))
	fmt.Fprintf(&sb, "  %s tracked, %d activities\n\n", utils.FormatDuration(day.TotalMinutes), len(day.Activities))
	sb.WriteString(RenderBreakdown(day.Breakdown, day.TotalMinutes))
	return sb.String()
}

// RenderGoal renders a goal with its progress bar when it has one.
func RenderGoal(status session.GoalStatus) string {
	g := status.Goal
	direction := "↑ more"
	if g.TargetType == models.TargetLess {
		direction = "↓ less"
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(g.Title))
	fmt.Fprintf(&sb, "  %s", SubtleStyle.Render(direction))
	if category, ok := g.Category(); ok {
		fmt.Fprintf(&sb, " %s", SubtleStyle.Render(string(category)))
	}
	fmt.Fprintf(&sb, "  %s\n", SubtleStyle.Render(g.ID))
	if g.Description != "" {
		fmt.Fprintf(&sb, "  %s\n", g.Description)
	}

	if status.HasProgress {
		p := status.Progress
		fmt.Fprintf(&sb, "  %s %3d%%  %s / %s",
			Bar(p.Percentage, barWidth), p.Percentage,
			utils.FormatDuration(p.CurrentMinutes), utils.FormatDuration(p.TargetMinutes))
		if p.OverLimit() {
			sb.WriteString("  " + DangerStyle.Render(fmt.Sprintf("over limit by %s", utils.FormatDuration(p.Overage))))
		} else if p.Overage > 0 {
			sb.WriteString("  " + SuccessStyle.Render(fmt.Sprintf("+%s past target", utils.FormatDuration(p.Overage))))
		}
		sb.WriteString("\n")
	}

	if g.HasAdvice() {
		for _, line := range strings.Split(g.AIAdvice, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(&sb, "  %s\n", line)
			}
		}
	} else {
		fmt.Fprintf(&sb, "  %s\n", WarningStyle.Render("No advice generated yet."))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// WeekRange labels a week as "Mar 3 - Mar 9, 2025".
func WeekRange(w stats.Week) string {
	return w.Start.Format(constants.DayLabelFormat) + " - " + w.End.Format(constants.WeekRangeEndFormat)
}

// RenderWeek renders one week with its daily trend and breakdown.
func RenderWeek(w stats.Week) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(WeekRange(w)))
	fmt.Fprintf(&sb, "  %s tracked\n\n", utils.FormatDuration(w.TotalMinutes))

	peak := 0
	for _, d := range w.Trend {
		if d.Minutes > peak {
			peak = d.Minutes
		}
	}
	for _, d := range w.Trend {
		fmt.Fprintf(&sb, "%-4s %s %s\n", d.Label, Bar(stats.Share(d.Minutes, peak), barWidth), utils.FormatDuration(d.Minutes))
	}
	sb.WriteString("\n")
	sb.WriteString(RenderBreakdown(w.Breakdown, w.TotalMinutes))
	return sb.String()
}

// Box frames a block of text.
func Box(s string) string {
	return boxStyle.Render(s)
}
