package messages

import tea "github.com/charmbracelet/bubbletea"

// ViewType represents the different views in the application
type ViewType int

const (
	ViewMonth ViewType = iota
	ViewCards
	ViewImport
)

// Views lists every view in tab order
var Views = []ViewType{ViewMonth, ViewCards, ViewImport}

func (v ViewType) String() string {
	switch v {
	case ViewMonth:
		return "month"
	case ViewCards:
		return "cards"
	case ViewImport:
		return "import"
	default:
		return ""
	}
}

// ParseView maps a view name from flags or config to a ViewType
func ParseView(name string) (ViewType, bool) {
	for _, v := range Views {
		if v.String() == name {
			return v, true
		}
	}
	return ViewMonth, false
}

// SwitchViewMsg is sent by child views to switch to a different view
type SwitchViewMsg struct {
	View ViewType
}

// FocusCardMsg requests selecting a specific card in the cards view
type FocusCardMsg struct {
	CardID string
}

// DataRefreshMsg signals that the stored cards changed and views should reload
type DataRefreshMsg struct{}

// StatusMsg carries a one-line message for the status bar
type StatusMsg struct {
	Text    string
	IsError bool
}

func SwitchView(v ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: v}
	}
}

func Refresh() tea.Msg {
	return DataRefreshMsg{}
}

func Status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text, IsError: isError}
	}
}
