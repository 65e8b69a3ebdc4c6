package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(22)
)

const rowFormat = "%-13s │ %-16s │ %-24s │ %s"

// renderRecordHeader renders the column titles of a snapshot table
func renderRecordHeader() string {
	return headerStyle.Render(fmt.Sprintf(rowFormat, "ID", "DATE", "NAME", "CONTEXT"))
}

// renderRecordRow renders one snapshot as a table row
func renderRecordRow(r snapshot.Record, contextWidth int) string {
	return fmt.Sprintf(rowFormat,
		r.IDString(),
		r.Date,
		truncateString(r.Name, 24),
		truncateString(singleLine(r.Context), contextWidth),
	)
}

// renderRecordTable renders records as a styled table
func renderRecordTable(records []snapshot.Record) string {
	if len(records) == 0 {
		return mutedStyle.Render("No snapshots yet. Run 'snapshooter create' to take one.")
	}
	rows := []string{renderRecordHeader()}
	for _, r := range records {
		rows = append(rows, renderRecordRow(r, 40))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderField renders a "label value" line
func renderField(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// singleLine collapses whitespace so multi-line notes fit in one row
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
