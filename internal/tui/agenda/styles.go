package agenda

import (
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/tui/theme"
)

// -- item_line.go styles --
var (
	cardNameStyle  = lipgloss.NewStyle().Foreground(theme.Accent)
	timeStyle      = theme.Muted
	positionStyle  = lipgloss.NewStyle().Foreground(theme.Secondary)
	selectedStyle  = theme.Selected
	cursorStyle    = theme.Cursor
	normalStyle    = lipgloss.NewStyle()
	archivedStyle  = theme.Archived
	alwaysOnStyle  = theme.AlwaysOn
	windowEndStyle = theme.Muted
)

// -- month.go styles --
var (
	calDayHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(theme.TextMuted).Width(6).Align(lipgloss.Center)
	calDayStyle        = lipgloss.NewStyle().Width(6).Align(lipgloss.Center)
	calTodayStyle      = lipgloss.NewStyle().Width(6).Align(lipgloss.Center).Bold(true).Foreground(theme.Success)
	calCursorStyle     = lipgloss.NewStyle().Width(6).Align(lipgloss.Center).Bold(true).Foreground(theme.TextBright).Background(theme.Primary)
	calHasItemsStyle   = lipgloss.NewStyle().Width(6).Align(lipgloss.Center).Foreground(theme.Warning)
	calOutsideStyle    = lipgloss.NewStyle().Width(6).Align(lipgloss.Center).Foreground(theme.TextMuted)
	calMonthTitleStyle = theme.Title
	detailHeaderStyle  = theme.Subtitle
	detailCountStyle   = theme.Muted
	navHintStyle       = theme.HelpHint
	filterStyle        = lipgloss.NewStyle().Foreground(theme.Warning)
	emptyStyle         = lipgloss.NewStyle().Foreground(theme.TextMuted).Italic(true)
	searchLabelStyle   = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
)
