package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	agendapkg "ativas/internal/agenda"
	"ativas/internal/tui/shared"
	"ativas/internal/tui/theme"
)

// RenderItemLine renders a single AgendaItem as a styled line
func RenderItemLine(item agendapkg.AgendaItem, selected bool, width int, now time.Time) string {
	var parts []string

	// Cursor indicator
	if selected {
		parts = append(parts, cursorStyle.Render(">"))
	} else {
		parts = append(parts, " ")
	}

	// Time or offer marker, then channel and position
	if item.Source == agendapkg.SourceTouch {
		parts = append(parts, timeStyle.Render(item.At.In(item.Date.Location()).Format("15:04")))
	} else {
		parts = append(parts, timeStyle.Render("~~~~~"))
	}
	parts = append(parts, theme.Channel(item.Channel()).Width(9).Render(item.Channel().Upper()))
	if item.Event != nil {
		parts = append(parts, positionStyle.Width(3).Render(agendapkg.PositionOf(*item.Event)))
	} else {
		parts = append(parts, "   ")
	}

	right := itemStatus(item, now)
	prefix := strings.Join(parts, " ")
	room := width - lipgloss.Width(prefix) - lipgloss.Width(right) - 2

	// Title followed by the owning card
	title := item.Title()
	cardName := ""
	if item.Card != nil {
		cardName = "[" + item.Card.Name + "]"
	}
	if room > 0 && len([]rune(title))+len([]rune(cardName))+1 > room {
		titleRoom := room * 2 / 3
		title = shared.Truncate(title, titleRoom)
		cardName = shared.Truncate(cardName, room-len([]rune(title))-1)
	}

	switch {
	case selected:
		title = selectedStyle.Render(title)
	case item.Card != nil && item.Card.Archived:
		title = archivedStyle.Render(title)
	default:
		title = normalStyle.Render(title)
	}

	line := prefix + " " + title
	if cardName != "" {
		line += " " + cardNameStyle.Render(cardName)
	}

	padding := width - lipgloss.Width(line) - lipgloss.Width(right) - 1
	if padding < 1 {
		padding = 1
	}
	return line + strings.Repeat(" ", padding) + right
}

// itemStatus is the right-aligned hint: days until a touch, or the end of an
// offer window.
func itemStatus(item agendapkg.AgendaItem, now time.Time) string {
	if item.Offer != nil {
		if item.Offer.Meta.AlwaysOn {
			return alwaysOnStyle.Render("always-on")
		}
		_, end := item.Offer.Window()
		if end.IsZero() {
			return windowEndStyle.Render("no end")
		}
		return windowEndStyle.Render("until " + end.In(item.Date.Location()).Format("Jan 2"))
	}

	loc := item.Date.Location()
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	daysUntil := int(item.Date.Sub(today).Hours() / 24)

	var relStr string
	switch {
	case daysUntil == 0:
		relStr = "today"
	case daysUntil > 0:
		relStr = fmt.Sprintf("+%dd", daysUntil)
	default:
		relStr = fmt.Sprintf("%dd", daysUntil)
	}

	var style lipgloss.Style
	switch {
	case daysUntil < 0:
		style = theme.Muted
	case daysUntil <= 2:
		style = lipgloss.NewStyle().Foreground(theme.Warning)
	default:
		style = lipgloss.NewStyle().Foreground(theme.Success)
	}
	return style.Render(relStr)
}
