package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryInput(t *testing.T) {
	q := NewQueryInput(nil)

	require.NotNil(t, q)
	assert.True(t, q.Focused())
	assert.Equal(t, "", q.Value())
	assert.NotNil(t, q.Init())
}

func TestQueryInput_Typing(t *testing.T) {
	q := NewQueryInput(nil)

	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hola")})

	assert.Equal(t, "hola", q.Value())
}

func TestQueryInput_BlurIgnoresTyping(t *testing.T) {
	q := NewQueryInput(nil)
	q.Blur()

	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.False(t, q.Focused())
	assert.Equal(t, "", q.Value())
}

func TestQueryInput_CharLimit(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetValue(strings.Repeat("a", MaxQueryLength+50))

	assert.Len(t, q.Value(), MaxQueryLength)
}

func TestQueryInput_SetWidth(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetWidth(100)
	assert.Equal(t, 100, q.Width())
	assert.Equal(t, 90, q.textinput.Width)

	q.SetWidth(15)
	assert.Equal(t, 20, q.textinput.Width)
}

func TestQueryInput_View(t *testing.T) {
	q := NewQueryInput(nil)

	assert.Contains(t, q.View(), "Ask:")
}
