package cards

import (
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/tui/theme"
)

var (
	// Title
	titleStyle = theme.Title.Padding(0, 1)

	// List items
	listItemStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Padding(0, 2)

	selectedListItemStyle = lipgloss.NewStyle().
				Foreground(theme.Warning).
				Bold(true).
				Padding(0, 2)

	archivedItemStyle = theme.Archived.Padding(0, 2)

	// Badges
	pontualBadgeStyle  = theme.Pontual
	alwaysOnBadgeStyle = theme.AlwaysOn
	flagBadgeStyle     = theme.Flag
	mutedStyle         = theme.Muted

	// Detail panel
	sectionHeaderStyle = theme.Subtitle
	detailLabelStyle   = lipgloss.NewStyle().Foreground(theme.TextMuted).Width(12)
	detailBoxStyle     = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().Foreground(theme.TextMuted).Italic(true)

	// Search
	searchLabelStyle = lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true)
)
