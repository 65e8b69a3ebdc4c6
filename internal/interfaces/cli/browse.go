package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

// snapshotBrowser is the part of the snapshot service the browser drives
type snapshotBrowser interface {
	Root() string
	List(ctx context.Context) ([]snapshot.Record, error)
	Delete(ctx context.Context, id int64) error
	Apply(ctx context.Context, id int64) error
}

// NewBrowseCommand creates the browse command
func NewBrowseCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive snapshot browser",
		Long: `Launch an interactive terminal view of the snapshots.

Controls:
  ↑/k ↓/j  move
  a        apply the selected snapshot
  d        delete the selected snapshot
  c        show or hide the full context of the selected snapshot
  r        refresh
  q        quit

Apply and delete ask for confirmation with y.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			program := tea.NewProgram(newBrowseModel(cmd.Context(), svc),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}
}

// pendingAction is an apply or delete waiting for confirmation
type pendingAction string

const (
	actionNone   pendingAction = ""
	actionApply  pendingAction = "apply"
	actionDelete pendingAction = "delete"
)

func (a pendingAction) label() string {
	if a == actionDelete {
		return "Delete"
	}
	return "Apply"
}

// browseModel holds the state of the snapshot browser
type browseModel struct {
	ctx          context.Context
	service      snapshotBrowser
	records      []snapshot.Record
	selectedRow  int
	showContext  bool
	pending      pendingAction
	busy         bool
	status       string
	err          error
	windowWidth  int
	windowHeight int
}

func newBrowseModel(ctx context.Context, service snapshotBrowser) browseModel {
	return browseModel{ctx: ctx, service: service}
}

// recordsLoadedMsg is sent when the snapshot list is read
type recordsLoadedMsg struct {
	records []snapshot.Record
}

// actionDoneMsg is sent when an apply or delete finished
type actionDoneMsg struct {
	status string
	err    error
}

// errMsg is sent when an error occurs
type errMsg struct {
	err error
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return m.loadRecordsCmd()
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.pending != actionNone {
			return m.updateConfirm(msg)
		}
		if m.busy {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < len(m.records)-1 {
				m.selectedRow++
			}
			return m, nil

		case "c":
			m.showContext = !m.showContext
			return m, nil

		case "r":
			m.status = ""
			return m, m.loadRecordsCmd()

		case "a":
			if _, ok := m.selected(); ok {
				m.pending = actionApply
			}
			return m, nil

		case "d":
			if _, ok := m.selected(); ok {
				m.pending = actionDelete
			}
			return m, nil
		}

	case recordsLoadedMsg:
		m.records = msg.records
		m.err = nil
		if m.selectedRow >= len(m.records) {
			m.selectedRow = len(m.records) - 1
		}
		if m.selectedRow < 0 {
			m.selectedRow = 0
		}
		return m, nil

	case actionDoneMsg:
		m.busy = false
		m.status = msg.status
		m.err = msg.err
		return m, m.loadRecordsCmd()

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m browseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.pending
	m.pending = actionNone

	if msg.String() != "y" && msg.String() != "Y" {
		m.status = "Cancelled"
		return m, nil
	}

	record, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.busy = true
	m.status = ""
	m.err = nil

	switch action {
	case actionApply:
		return m, m.applyCmd(record)
	case actionDelete:
		return m, m.deleteCmd(record)
	}
	return m, nil
}

func (m browseModel) selected() (snapshot.Record, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.records) {
		return snapshot.Record{}, false
	}
	return m.records[m.selectedRow], true
}

// loadRecordsCmd reads the snapshot list
func (m browseModel) loadRecordsCmd() tea.Cmd {
	return func() tea.Msg {
		records, err := m.service.List(m.ctx)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to list snapshots: %w", err)}
		}
		return recordsLoadedMsg{records: records}
	}
}

func (m browseModel) applyCmd(record snapshot.Record) tea.Cmd {
	return func() tea.Msg {
		if err := m.service.Apply(m.ctx, record.ID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Applied %s (%s)", record.IDString(), record.Name)}
	}
}

func (m browseModel) deleteCmd(record snapshot.Record) tea.Cmd {
	return func() tea.Msg {
		if err := m.service.Delete(m.ctx, record.ID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Deleted %s (%s)", record.IDString(), record.Name)}
	}
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	sections := []string{m.renderHeader(), m.renderTable()}
	if m.showContext {
		sections = append(sections, m.renderContext())
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m browseModel) renderHeader() string {
	title := titleStyle.Render("📸 Snapshooter")
	info := fmt.Sprintf("Snapshots: %d | %s", len(m.records), m.service.Root())
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", mutedStyle.Render(info)),
		"",
	)
}

func (m browseModel) renderTable() string {
	if len(m.records) == 0 {
		return mutedStyle.Render("\n  No snapshots. Run 'snapshooter create' to take one.\n")
	}

	rows := []string{renderRecordHeader()}

	start, end := 0, len(m.records)
	if maxRows := m.windowHeight - 8; maxRows > 0 && len(m.records) > maxRows {
		start = m.selectedRow - maxRows + 1
		if start < 0 {
			start = 0
		}
		end = start + maxRows
	}

	contextWidth := 40
	if m.windowWidth > 70 {
		contextWidth = m.windowWidth - 66
	}

	for i := start; i < end; i++ {
		row := renderRecordRow(m.records[i], contextWidth)
		if i == m.selectedRow {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m browseModel) renderContext() string {
	record, ok := m.selected()
	if !ok {
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	return box.Render(strings.Join([]string{
		renderField("Name", record.Name),
		renderField("Date", record.Date),
		renderField("Path", record.Path),
		"",
		record.Context,
	}, "\n"))
}

func (m browseModel) renderFooter() string {
	var line string
	switch {
	case m.pending != actionNone:
		record, _ := m.selected()
		line = warningStyle.Render(fmt.Sprintf("%s snapshot %s (%s)? [y/N]", m.pending.label(), record.IDString(), record.Name))
	case m.busy:
		line = mutedStyle.Render("Working...")
	case m.err != nil:
		line = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		line = successStyle.Render(m.status)
	}

	controls := mutedStyle.Render("Controls: [↑↓] Navigate | [a] Apply | [d] Delete | [c] Context | [r] Refresh | [q] Quit")
	return lipgloss.JoinVertical(lipgloss.Left, "", line, controls)
}
