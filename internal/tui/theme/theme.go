package theme

import (
	"github.com/charmbracelet/lipgloss"

	"ativas/internal/parser"
)

// ---------------------------------------------------------------------------
// Color palette (ANSI 0-15)
// ---------------------------------------------------------------------------

var (
	Text       = lipgloss.Color("7")
	TextMuted  = lipgloss.Color("8")
	TextBright = lipgloss.Color("15")

	Primary       = lipgloss.Color("4") // blue
	Secondary     = lipgloss.Color("6") // cyan
	Accent        = lipgloss.Color("5") // magenta
	Success       = lipgloss.Color("2") // green
	Warning       = lipgloss.Color("3") // yellow
	Danger        = lipgloss.Color("1") // red
	Border        = lipgloss.Color("8") // dim
	BorderFocused = lipgloss.Color("4") // blue
)

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Muted    = lipgloss.NewStyle().Foreground(TextMuted)

	Error = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Ok    = lipgloss.NewStyle().Bold(true).Foreground(Success)

	Cursor   = lipgloss.NewStyle().Bold(true).Foreground(Success)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(TextBright).Background(Primary)

	Pontual  = lipgloss.NewStyle().Foreground(Success)
	AlwaysOn = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Archived = lipgloss.NewStyle().Foreground(TextMuted).Strikethrough(true)
	Flag     = lipgloss.NewStyle().Foreground(Warning)
)

// channelColors gives every channel a stable color across views
var channelColors = map[parser.Channel]lipgloss.Color{
	parser.ChannelPush:      Primary,
	parser.ChannelEmail:     Secondary,
	parser.ChannelWhatsApp:  Success,
	parser.ChannelSMS:       Warning,
	parser.ChannelInApp:     Accent,
	parser.ChannelBanner:    Accent,
	parser.ChannelMktScreen: Accent,
}

// Channel returns the tag style for a channel
func Channel(ch parser.Channel) lipgloss.Style {
	c, ok := channelColors[ch]
	if !ok {
		c = TextMuted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Warning)

	ModalHelp = lipgloss.NewStyle().Foreground(TextMuted)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	HelpHint = lipgloss.NewStyle().Foreground(TextMuted)

	TabActive   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	TabInactive = lipgloss.NewStyle().Foreground(TextMuted)
	TabBar      = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Border).
			PaddingLeft(1)

	InputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)
