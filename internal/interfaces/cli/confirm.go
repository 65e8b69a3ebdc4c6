package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// confirmModel is a single y/N question
type confirmModel struct {
	prompt    string
	answered  bool
	confirmed bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt}
}

// Init implements the Bubble Tea init method
func (m confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answered = true
		m.confirmed = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements the Bubble Tea view method
func (m confirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.confirmed {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", warningStyle.Render(m.prompt), answer)
	}
	return fmt.Sprintf("%s %s ", warningStyle.Render(m.prompt), mutedStyle.Render("[y/N]"))
}

// confirm asks prompt unless assumeYes is set
func confirm(cmd *cobra.Command, prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	program := tea.NewProgram(newConfirmModel(prompt),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return final.(confirmModel).confirmed, nil
}
