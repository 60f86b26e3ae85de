package interactive

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

func press(m multiSelectModel, keys ...string) multiSelectModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(multiSelectModel)
	}
	return m
}

func TestMultiSelectModel(t *testing.T) {
	labels := []string{"Deploy.s.sol", "Upgrade.s.sol", "Seed.s.sol"}

	t.Run("toggle and confirm", func(t *testing.T) {
		m := press(newMultiSelectModel(labels, "pick"), "down", "space", "down", "space", "enter")
		assert.True(t, m.done)
		assert.Equal(t, []int{1, 2}, m.chosen())
		assert.Empty(t, m.View())
	})

	t.Run("enter needs a selection", func(t *testing.T) {
		m := press(newMultiSelectModel(labels, "pick"), "enter")
		assert.False(t, m.done)
		assert.Contains(t, m.View(), "Upgrade.s.sol")
	})

	t.Run("select all toggles", func(t *testing.T) {
		m := press(newMultiSelectModel(labels, "pick"), "a")
		assert.Equal(t, []int{0, 1, 2}, m.chosen())
		m = press(m, "a")
		assert.Empty(t, m.chosen())
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		m := press(newMultiSelectModel(labels, "pick"), "up", "down", "down", "down", "down")
		assert.Equal(t, 2, m.cursor)
	})

	t.Run("quit cancels", func(t *testing.T) {
		m := press(newMultiSelectModel(labels, "pick"), "space", "q")
		assert.True(t, m.cancelled)
		assert.False(t, m.done)
	})
}

func TestSelectBroadcastFiles_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	got, err := s.SelectBroadcastFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.SelectBroadcastFiles(context.Background(), []usecase.BroadcastFileRef{{Script: "Deploy.s.sol", ChainID: 31337}})
	assert.True(t, domain.IsValidation(err))
}
