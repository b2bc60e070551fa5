package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/cards/models"
	"ativas/internal/cards/service"
	"ativas/internal/logs"
	"ativas/internal/tui/messages"
	"ativas/internal/tui/theme"
)

var (
	titleStyle  = theme.Title.Padding(0, 1)
	hintStyle   = theme.HelpHint
	resultStyle = lipgloss.NewStyle().PaddingLeft(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)

	focusedBoxStyle = boxStyle.BorderForeground(theme.BorderFocused)
)

// ImportModel is the paste area that turns card text into a stored card
type ImportModel struct {
	svc    service.CardService
	area   textarea.Model
	result string
	failed bool
	width  int
	height int
}

// NewImportModel creates the import view
func NewImportModel(svc service.CardService) ImportModel {
	ta := textarea.New()
	ta.Placeholder = "Paste the card text here, then ctrl+s to import"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	return ImportModel{svc: svc, area: ta}
}

// SetSize updates the view dimensions
func (m *ImportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.area.SetWidth(max(20, width-4))
	m.area.SetHeight(max(3, height-6))
}

// IsInModalState is true while the paste area has focus
func (m ImportModel) IsInModalState() bool {
	return m.area.Focused()
}

// HintText returns hint text for the current state
func (m ImportModel) HintText() string {
	if m.area.Focused() {
		return "ctrl+s:import  esc:leave editor"
	}
	return "enter/i:edit  ctrl+s:import  x:clear"
}

// Focus puts the cursor in the paste area
func (m *ImportModel) Focus() tea.Cmd {
	return m.area.Focus()
}

// Update handles messages for the import view
func (m ImportModel) Update(msg tea.Msg) (ImportModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+s":
		return m.submit()
	case "esc":
		m.area.Blur()
		return m, nil
	}

	if !m.area.Focused() {
		switch key.String() {
		case "enter", "i":
			return m, m.area.Focus()
		case "x":
			m.area.Reset()
			m.result = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m ImportModel) submit() (ImportModel, tea.Cmd) {
	card, created, err := m.svc.Import(m.area.Value())
	if err != nil {
		logs.Logger.Printf("Import: rejected: %v", err)
		m.failed = true
		m.result = describeError(err)
		return m, messages.Status("Import failed", true)
	}

	m.failed = false
	m.result = describeCard(card, created)
	m.area.Reset()
	m.area.Blur()

	verb := "Updated"
	if created {
		verb = "Added"
	}
	cardID := card.ID
	return m, tea.Batch(
		messages.Refresh,
		messages.Status(verb+": "+card.Name, false),
		func() tea.Msg { return messages.FocusCardMsg{CardID: cardID} },
	)
}

func describeError(err error) string {
	var alwaysOn *service.AlwaysOnError
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return "Nothing to import: the paste area is empty."
	case errors.Is(err, service.ErrNothingExtracted):
		return "No dated communication or offer was found in this text."
	case errors.As(err, &alwaysOn):
		return fmt.Sprintf("Rejected: %q is always-on.\nOffers without an end: %s",
			alwaysOn.Card, strings.Join(alwaysOn.Offers, ", "))
	}
	return "Import failed: " + err.Error()
}

func describeCard(card *models.Card, created bool) string {
	verb := "Updated"
	if created {
		verb = "Added"
	}
	kind := "pontual"
	if card.AlwaysOn() {
		kind = "always-on"
	}
	return fmt.Sprintf("%s %s\n%d touch(es), %d offer(s), %s",
		verb, card.FullTitle, len(card.DatedEvents()), len(card.Offers), kind)
}

// View renders the import view
func (m ImportModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Import card"))
	sb.WriteString("  ")
	sb.WriteString(hintStyle.Render(m.HintText()))
	sb.WriteString("\n")

	box := boxStyle
	if m.area.Focused() {
		box = focusedBoxStyle
	}
	sb.WriteString(box.Render(m.area.View()))
	sb.WriteString("\n")

	if m.result != "" {
		style := theme.Ok
		if m.failed {
			style = theme.Error
		}
		sb.WriteString(resultStyle.Render(style.Render(m.result)))
	}
	return sb.String()
}
