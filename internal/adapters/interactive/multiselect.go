package interactive

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// multiSelectModel is the bubbletea model for multi-select
type multiSelectModel struct {
	labels    []string
	cursor    int
	selected  []bool
	title     string
	done      bool
	cancelled bool
}

func newMultiSelectModel(labels []string, title string) multiSelectModel {
	return multiSelectModel{
		labels:   labels,
		selected: make([]bool, len(labels)),
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.labels)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := !m.allSelected()
		for i := range m.selected {
			m.selected[i] = all
		}
	case "enter":
		if len(m.chosen()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, label := range m.labels {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, label))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

func (m multiSelectModel) allSelected() bool {
	for _, s := range m.selected {
		if !s {
			return false
		}
	}
	return true
}

// chosen returns the selected indices in display order
func (m multiSelectModel) chosen() []int {
	var indices []int
	for i, s := range m.selected {
		if s {
			indices = append(indices, i)
		}
	}
	return indices
}

// runMultiSelect shows the list and returns the selected indices
func runMultiSelect(ctx context.Context, labels []string, title string) ([]int, error) {
	p := tea.NewProgram(newMultiSelectModel(labels, title), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := final.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}
	return m.chosen(), nil
}

// SelectBroadcastFiles lets the user choose which broadcast files to import
func (s *SelectorAdapter) SelectBroadcastFiles(ctx context.Context, files []usecase.BroadcastFileRef) ([]usecase.BroadcastFileRef, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.config.NonInteractive || s.config.JSON {
		return nil, domain.Validation("--select needs an interactive terminal")
	}

	labels := make([]string, len(files))
	for i, f := range files {
		labels[i] = fmt.Sprintf("%s %s",
			color.New(color.FgWhite, color.Bold).Sprint(f.Script),
			color.New(color.FgYellow).Sprintf("(chain %s)", f.ChainID))
	}

	indices, err := runMultiSelect(ctx, labels, "Select broadcast files to import")
	if err != nil {
		return nil, err
	}

	selected := make([]usecase.BroadcastFileRef, len(indices))
	for i, idx := range indices {
		selected[i] = files[idx]
	}
	return selected, nil
}

var _ usecase.BroadcastFileSelector = (*SelectorAdapter)(nil)
