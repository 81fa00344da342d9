// Package tui renders console output for the pipeline: colored status
// lines, per-task row progress, and summary tables.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexeyco/simpletable"
	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// Colors
var (
	cyan   = lipgloss.Color("#00B7C3")
	green  = lipgloss.Color("#00CC66")
	yellow = lipgloss.Color("#E5C07B")
	red    = lipgloss.Color("#E06C75")
	gray   = lipgloss.Color("#666666")
)

// Styles
var (
	infoStyle    = lipgloss.NewStyle().Foreground(cyan)
	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(gray)
)

// Infof prints a cyan status line.
func Infof(format string, args ...interface{}) {
	fmt.Println(infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Successf prints a green success line.
func Successf(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow warning line.
func Warnf(format string, args ...interface{}) {
	fmt.Println(warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a red error line to stderr.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Mutedf prints a muted detail line.
func Mutedf(format string, args ...interface{}) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// RowProgress creates a progress bar for a row-processing pass.
func RowProgress(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// TaskRow is one line of the task listing.
type TaskRow struct {
	Name   string
	Title  string
	Inputs []string
	Output string
}

// PrintTaskTable renders the registered generators as a table.
func PrintTaskTable(rows []TaskRow) {
	table := simpletable.New()

	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: "Task"},
			{Align: simpletable.AlignLeft, Text: "Table"},
			{Align: simpletable.AlignLeft, Text: "Inputs"},
			{Align: simpletable.AlignLeft, Text: "Output"},
		},
	}

	for _, row := range rows {
		r := []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: row.Name},
			{Align: simpletable.AlignLeft, Text: row.Title},
			{Align: simpletable.AlignLeft, Text: strings.Join(row.Inputs, ", ")},
			{Align: simpletable.AlignLeft, Text: row.Output},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleUnicode)
	fmt.Println(table.String())
}

// Report summarizes one generated table.
type Report struct {
	Task     string
	Entries  int
	Output   string
	Duration time.Duration
	Err      error
}

// PrintRunReport prints the per-task outcome of a pipeline run.
func PrintRunReport(reports []Report, elapsed time.Duration) {
	fmt.Println()
	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			Errorf("  ✗ %-20s %v", r.Task, r.Err)
			continue
		}
		fmt.Printf("  %s %-20s %s %s\n",
			successStyle.Render("✓"),
			r.Task,
			mutedStyle.Render(fmt.Sprintf("%6d entries", r.Entries)),
			mutedStyle.Render(formatDuration(r.Duration)))
	}
	fmt.Println()
	if failed > 0 {
		Errorf("%d of %d tasks failed (%s)", failed, len(reports), formatDuration(elapsed))
		return
	}
	Successf("%d tasks completed in %s", len(reports), formatDuration(elapsed))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
