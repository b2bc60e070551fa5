package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/cards/service"
	"ativas/internal/config"
	"ativas/internal/tui/agenda"
	"ativas/internal/tui/cards"
	"ativas/internal/tui/importer"
	"ativas/internal/tui/messages"
	"ativas/internal/tui/shared"
)

// AppModel is the root model that dispatches to child views
type AppModel struct {
	cfg         *config.Config
	svc         service.CardService
	currentView ViewType
	monthView   agenda.MonthModel
	cardsView   cards.CardsModel
	importView  importer.ImportModel
	status      StatusMsg
	showHelp    bool
	width       int
	height      int
	ready       bool
}

// NewAppModel creates the root application model
func NewAppModel(cfg *config.Config, svc service.CardService) AppModel {
	view, ok := messages.ParseView(cfg.DefaultView)
	if !ok {
		view = ViewMonth
	}

	return AppModel{
		cfg:         cfg,
		svc:         svc,
		currentView: view,
		monthView:   agenda.NewMonthModel(svc),
		cardsView:   cards.NewCardsModel(svc),
		importView:  importer.NewImportModel(svc),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.currentView == ViewImport {
		return m.importView.Focus()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 4 // Tab bar and status bar
		m.monthView.SetSize(msg.Width, contentHeight)
		m.cardsView.SetSize(msg.Width, contentHeight)
		m.importView.SetSize(msg.Width, contentHeight)
		return m, nil

	case SwitchViewMsg:
		return m.switchTo(msg.View)

	case FocusCardMsg:
		m.cardsView.Reload()
		m.cardsView.FocusCard(msg.CardID)
		m.currentView = ViewCards
		return m, nil

	case DataRefreshMsg:
		m.monthView.Reload()
		m.cardsView.Reload()
		return m, nil

	case StatusMsg:
		m.status = msg
		return m, nil

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		m.status = StatusMsg{}

		if !m.childIsModal() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.switchTo(ViewMonth)
			case "2":
				return m.switchTo(ViewCards)
			case "3":
				return m.switchTo(ViewImport)
			case "tab":
				return m.switchTo(Views()[(int(m.currentView)+1)%len(Views())])
			case "?":
				m.showHelp = true
				return m, nil
			}
		}
	}

	// Dispatch to current child view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewMonth:
		m.monthView, cmd = m.monthView.Update(msg)
	case ViewCards:
		m.cardsView, cmd = m.cardsView.Update(msg)
	case ViewImport:
		m.importView, cmd = m.importView.Update(msg)
	}
	return m, cmd
}

// Views lists the views in tab order
func Views() []ViewType {
	return messages.Views
}

func (m AppModel) childIsModal() bool {
	switch m.currentView {
	case ViewMonth:
		return m.monthView.IsInModalState()
	case ViewCards:
		return m.cardsView.IsInModalState()
	case ViewImport:
		return m.importView.IsInModalState()
	}
	return false
}

func (m AppModel) switchTo(view ViewType) (tea.Model, tea.Cmd) {
	m.currentView = view
	switch view {
	case ViewMonth:
		m.monthView.Reload()
	case ViewCards:
		m.cardsView.Reload()
	case ViewImport:
		return m, m.importView.Focus()
	}
	return m, nil
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup(helpSections, m.width, m.height)
	}

	var content string
	var hint string
	switch m.currentView {
	case ViewMonth:
		content = m.monthView.View()
		hint = m.monthView.HintText()
	case ViewCards:
		content = m.cardsView.View()
		hint = m.cardsView.HintText()
	case ViewImport:
		content = m.importView.View()
		hint = m.importView.HintText()
	}

	// Pad the content so the status bar stays at the bottom
	contentHeight := m.height - 4
	if lines := lipgloss.Height(content); lines < contentHeight {
		content += strings.Repeat("\n", contentHeight-lines)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), content, m.renderStatus(hint))
}

func (m AppModel) renderTabs() string {
	var tabs []string
	for i, v := range Views() {
		label := string(rune('1'+i)) + " " + v.String()
		if v == m.currentView {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabInactiveStyle.Render(label))
		}
	}
	return TabBarStyle.Width(m.width).Render(strings.Join(tabs, "   "))
}

func (m AppModel) renderStatus(hint string) string {
	var text string
	switch {
	case m.status.Text != "" && m.status.IsError:
		text = StatusErrorStyle.Render(m.status.Text)
	case m.status.Text != "":
		text = StatusOkStyle.Render(m.status.Text)
	case hint != "":
		text = HelpStyle.Render(hint)
	default:
		text = HelpStyle.Render("1:month 2:cards 3:import | tab:next | ?:help | q:quit")
	}
	return StatusBarStyle.Width(m.width).Render(text)
}

var helpSections = []shared.HelpSection{
	{
		Title: "Global Navigation",
		Binds: []shared.HelpBind{
			{Key: "1", Desc: "Month calendar"},
			{Key: "2", Desc: "Cards"},
			{Key: "3", Desc: "Import card text"},
			{Key: "tab", Desc: "Next view"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
			{Key: "ctrl+c", Desc: "Force quit"},
		},
	},
	{
		Title: "Month View",
		Binds: []shared.HelpBind{
			{Key: "h / l", Desc: "Previous / next day"},
			{Key: "k / j", Desc: "Previous / next week"},
			{Key: "H / L", Desc: "Previous / next month"},
			{Key: "t", Desc: "Jump to today"},
			{Key: "s / c", Desc: "Cycle space / channel filter"},
			{Key: "A", Desc: "Include archived cards"},
			{Key: "/", Desc: "Search"},
			{Key: "enter", Desc: "Enter detail panel"},
			{Key: "e", Desc: "Edit touch alias"},
			{Key: "x", Desc: "Delete card"},
			{Key: "esc", Desc: "Back to calendar"},
		},
	},
	{
		Title: "Cards",
		Binds: []shared.HelpBind{
			{Key: "j / k", Desc: "Navigate cards"},
			{Key: "enter", Desc: "Show details"},
			{Key: "a", Desc: "Archive / restore"},
			{Key: "p", Desc: "Toggle journey"},
			{Key: "i", Desc: "Toggle incident pause"},
			{Key: "n", Desc: "Edit notes"},
			{Key: "r", Desc: "Reparse stored text"},
			{Key: "d", Desc: "Delete"},
			{Key: "A", Desc: "Show archived"},
			{Key: "/", Desc: "Search"},
		},
	},
	{
		Title: "Import",
		Binds: []shared.HelpBind{
			{Key: "ctrl+s", Desc: "Import pasted text"},
			{Key: "esc", Desc: "Leave editor"},
			{Key: "x", Desc: "Clear result"},
		},
	},
}
