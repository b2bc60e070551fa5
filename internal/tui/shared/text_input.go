package shared

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/tui/theme"
)

var (
	inputPromptStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	inputBoxStyle    = theme.InputBox
)

// TextInputModel wraps bubbles/textinput in a prompt box
type TextInputModel struct {
	Input  textinput.Model
	Prompt string
	Width  int
}

// TextInputResultMsg is sent when input is confirmed or cancelled
type TextInputResultMsg struct {
	Value     string
	Cancelled bool
}

// NewTextInput creates a new text input component
func NewTextInput(prompt, placeholder string) *TextInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 256
	return &TextInputModel{
		Input:  ti,
		Prompt: prompt,
	}
}

// Update handles a key and returns the command that reports the result
func (m *TextInputModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := m.Input.Value()
			return func() tea.Msg {
				return TextInputResultMsg{Value: value}
			}

		case "esc":
			return func() tea.Msg {
				return TextInputResultMsg{Cancelled: true}
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return cmd
}

// View renders the input box
func (m *TextInputModel) View() string {
	var content string

	content += inputPromptStyle.Render(m.Prompt+": ") + m.Input.View() + "\n"

	content += theme.HelpHint.Render("[enter] confirm  [esc] cancel")

	return inputBoxStyle.Width(m.Width).Render(content)
}

// Value returns the current input value
func (m *TextInputModel) Value() string {
	return m.Input.Value()
}

// SetValue sets the input value
func (m *TextInputModel) SetValue(v string) {
	m.Input.SetValue(v)
	m.Input.CursorEnd()
}

// SetWidth sets both the outer box and inner input widths
func (m *TextInputModel) SetWidth(w int) {
	// Account for border (2) and padding (2)
	m.Width = w - 4
	// Inner input accounts for prompt text
	m.Input.Width = m.Width - lipgloss.Width(m.Prompt+": ")
}
