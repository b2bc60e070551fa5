package cards

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	agendapkg "ativas/internal/agenda"
	"ativas/internal/cards/models"
	"ativas/internal/cards/service"
	"ativas/internal/logs"
	"ativas/internal/parser"
	"ativas/internal/tui/messages"
	"ativas/internal/tui/shared"
	"ativas/internal/tui/theme"
)

type listMode int

const (
	modeList listMode = iota
	modeSearch
	modeDetail
)

// CardsModel lists stored cards and edits their flags
type CardsModel struct {
	svc         service.CardService
	cards       []models.Card
	filtered    []int // indices into cards
	selected    int
	mode        listMode
	textInput   textinput.Model
	searchQuery string
	showAll     bool

	notesInput    *shared.TextInputModel
	confirm       *shared.ConfirmationModal
	pendingDelete string

	width  int
	height int
}

// NewCardsModel creates the cards view and loads the cards
func NewCardsModel(svc service.CardService) CardsModel {
	ti := textinput.New()
	ti.Placeholder = "Search cards..."
	ti.CharLimit = 100
	ti.Width = 40

	m := CardsModel{
		svc:       svc,
		textInput: ti,
	}
	m.Reload()
	return m
}

// Reload reads the cards again, keeping the selection on the same card
func (m *CardsModel) Reload() {
	keep := ""
	if c := m.current(); c != nil {
		keep = c.ID
	}

	cards, err := m.svc.List()
	if err != nil {
		logs.Logger.Printf("Cards: could not load cards: %v", err)
		cards = nil
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].UpdatedAt.After(cards[j].UpdatedAt)
	})
	m.cards = cards
	m.applyFilter()

	if keep != "" {
		m.FocusCard(keep)
	}
}

// FocusCard moves the selection to the card with the given id
func (m *CardsModel) FocusCard(id string) {
	for i, idx := range m.filtered {
		if m.cards[idx].ID == id {
			m.selected = i
			return
		}
	}
	// The card may be hidden by the archive filter or a search
	if !m.showAll || m.searchQuery != "" {
		m.showAll = true
		m.searchQuery = ""
		m.applyFilter()
		m.FocusCard(id)
	}
}

// SetSize updates view dimensions
func (m *CardsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.notesInput != nil {
		m.notesInput.SetWidth(min(w, 70))
	}
}

// IsInModalState reports whether the view wants every key
func (m CardsModel) IsInModalState() bool {
	return m.mode == modeSearch || m.notesInput != nil || m.confirm != nil
}

// HintText returns the hint string for the current mode
func (m CardsModel) HintText() string {
	switch m.mode {
	case modeSearch:
		return "type to filter  enter:confirm  esc:cancel"
	case modeDetail:
		return "esc:back  a:archive  p:journey  i:incident  n:notes  r:reparse  d:delete"
	}
	return "j/k:navigate  enter:details  /:search  A:show archived"
}

func (m *CardsModel) applyFilter() {
	var visible []int
	for i, c := range m.cards {
		if c.Archived && !m.showAll {
			continue
		}
		visible = append(visible, i)
	}

	if m.searchQuery == "" {
		m.filtered = visible
	} else {
		names := make([]string, len(visible))
		for i, idx := range visible {
			names[i] = m.cards[idx].FullTitle
		}
		matches := fuzzy.Find(m.searchQuery, names)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = visible[match.Index]
		}
	}

	if m.selected >= len(m.filtered) {
		m.selected = max(0, len(m.filtered)-1)
	}
	if len(m.filtered) == 0 && m.mode == modeDetail {
		m.mode = modeList
	}
}

func (m CardsModel) current() *models.Card {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return &m.cards[m.filtered[m.selected]]
}

// Update handles messages for the cards view
func (m CardsModel) Update(msg tea.Msg) (CardsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.TextInputResultMsg:
		return m.finishNotes(msg)

	case shared.ConfirmationResultMsg:
		return m.finishDelete(msg)

	case tea.KeyMsg:
		if m.confirm != nil {
			return m, m.confirm.Update(msg)
		}
		if m.notesInput != nil {
			return m, m.notesInput.Update(msg)
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			if msg.String() == "esc" {
				m.mode = modeList
				return m, nil
			}
			return m.updateActions(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	switch {
	case m.notesInput != nil:
		m.notesInput.Input, cmd = m.notesInput.Input.Update(msg)
	case m.mode == modeSearch:
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m CardsModel) updateList(msg tea.KeyMsg) (CardsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.applyFilter()
		}
		return m, nil
	case "j", "down":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "g":
		m.selected = 0
		return m, nil
	case "G":
		m.selected = max(0, len(m.filtered)-1)
		return m, nil
	case "/":
		m.mode = modeSearch
		m.textInput.SetValue(m.searchQuery)
		return m, m.textInput.Focus()
	case "A":
		m.showAll = !m.showAll
		m.applyFilter()
		return m, nil
	case "enter":
		if m.current() != nil {
			m.mode = modeDetail
		}
		return m, nil
	}
	return m.updateActions(msg)
}

// updateActions handles the card mutations available in list and detail mode
func (m CardsModel) updateActions(msg tea.KeyMsg) (CardsModel, tea.Cmd) {
	card := m.current()
	if card == nil {
		return m, nil
	}
	id := card.ID

	switch msg.String() {
	case "a":
		return m, m.mutate(func() error { return m.svc.SetArchived(id, !card.Archived) },
			pick(card.Archived, "Card restored", "Card archived"))
	case "p":
		return m, m.mutate(func() error { return m.svc.SetJourneyDisabled(id, !card.JourneyDisabled) },
			pick(card.JourneyDisabled, "Journey enabled", "Journey disabled"))
	case "i":
		return m, m.mutate(func() error { return m.svc.SetIncidentPaused(id, !card.IncidentPaused) },
			pick(card.IncidentPaused, "Incident cleared", "Marked as paused by incident"))
	case "r":
		return m, m.mutate(func() error {
			_, err := m.svc.Reparse(id)
			return err
		}, "Card reparsed")
	case "n":
		m.notesInput = shared.NewTextInput("Notes", "free text")
		m.notesInput.SetValue(card.Notes)
		m.notesInput.SetWidth(min(m.width, 70))
		return m, nil
	case "d":
		m.pendingDelete = id
		m.confirm = shared.NewConfirmationModal("Delete card?", card.FullTitle, min(m.width-4, 60))
		return m, nil
	}
	return m, nil
}

func (m CardsModel) mutate(fn func() error, okText string) tea.Cmd {
	if err := fn(); err != nil {
		logs.Logger.Printf("Cards: update failed: %v", err)
		return messages.Status(err.Error(), true)
	}
	return tea.Batch(messages.Refresh, messages.Status(okText, false))
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func (m CardsModel) updateSearch(msg tea.KeyMsg) (CardsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.searchQuery = ""
		m.textInput.SetValue("")
		m.textInput.Blur()
		m.applyFilter()
		return m, nil
	case "enter":
		m.mode = modeList
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.searchQuery = m.textInput.Value()
	m.selected = 0
	m.applyFilter()
	return m, cmd
}

func (m CardsModel) finishNotes(msg shared.TextInputResultMsg) (CardsModel, tea.Cmd) {
	if m.notesInput == nil {
		return m, nil
	}
	m.notesInput = nil
	card := m.current()
	if msg.Cancelled || card == nil {
		return m, nil
	}
	id, notes := card.ID, msg.Value
	return m, m.mutate(func() error { return m.svc.SetNotes(id, notes) }, "Notes saved")
}

func (m CardsModel) finishDelete(msg shared.ConfirmationResultMsg) (CardsModel, tea.Cmd) {
	if m.confirm == nil {
		return m, nil
	}
	id := m.pendingDelete
	m.confirm = nil
	m.pendingDelete = ""
	if !msg.Confirmed {
		return m, nil
	}
	m.mode = modeList
	return m, m.mutate(func() error { return m.svc.Delete(id) }, "Card deleted")
}

// View renders the cards view
func (m CardsModel) View() string {
	if m.confirm != nil {
		return shared.CenterContent(m.confirm.View(), m.height)
	}

	var sb strings.Builder
	title := fmt.Sprintf("Cards (%d)", len(m.filtered))
	if m.showAll {
		title += " incl. archived"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	if m.mode == modeSearch || m.searchQuery != "" {
		sb.WriteString("  " + searchLabelStyle.Render("/") + " " + m.textInput.View())
	}
	sb.WriteString("\n")

	if len(m.filtered) == 0 {
		msg := "No cards yet. Press 3 to paste one."
		if m.searchQuery != "" {
			msg = "No cards match the search."
		}
		sb.WriteString(shared.CenterContent(emptyStyle.Render(msg), m.height-3))
		return sb.String()
	}

	if m.mode == modeDetail {
		sb.WriteString(m.renderDetail(*m.current()))
	} else {
		sb.WriteString(m.renderList(m.height - 3))
	}

	if m.notesInput != nil {
		sb.WriteString("\n" + m.notesInput.View())
	}
	return sb.String()
}

func (m CardsModel) renderList(rows int) string {
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(len(m.filtered), start+rows)

	var sb strings.Builder
	for i := start; i < end; i++ {
		card := m.cards[m.filtered[i]]
		sb.WriteString(m.renderRow(card, i == m.selected))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m CardsModel) renderRow(card models.Card, selected bool) string {
	badge := pontualBadgeStyle.Render("pontual  ")
	if card.AlwaysOn() {
		badge = alwaysOnBadgeStyle.Render("always-on")
	}

	var flags []string
	if card.JourneyDisabled {
		flags = append(flags, "journey off")
	}
	if card.IncidentPaused {
		flags = append(flags, "incident")
	}
	flagText := ""
	if len(flags) > 0 {
		flagText = " " + flagBadgeStyle.Render("["+strings.Join(flags, ", ")+"]")
	}

	counts := mutedStyle.Render(fmt.Sprintf("%2dt %2do", card.TotalTouches(), len(card.Offers)))
	window := mutedStyle.Render(formatWindow(card))

	nameWidth := max(10, m.width-48)
	name := shared.Truncate(card.Name, nameWidth)

	line := fmt.Sprintf("%s %-*s %s %s", badge, nameWidth, name, counts, window)
	switch {
	case selected:
		return selectedListItemStyle.Render("> "+line) + flagText
	case card.Archived:
		return archivedItemStyle.Render("  "+line) + flagText
	default:
		return listItemStyle.Render("  "+line) + flagText
	}
}

func (m CardsModel) renderDetail(card models.Card) string {
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(detailLabelStyle.Render(label) + value + "\n")
	}

	sb.WriteString(sectionHeaderStyle.Render(card.FullTitle) + "\n\n")
	row("ID", card.ID)
	if card.CardURL != "" {
		row("URL", card.CardURL)
	}
	if card.AlwaysOn() {
		row("Kind", alwaysOnBadgeStyle.Render("always-on"))
	} else {
		row("Kind", pontualBadgeStyle.Render("pontual"))
	}
	row("Window", formatWindow(card))
	if card.BufferEnd != nil {
		row("Buffer", card.BufferEnd.Format("2006-01-02"))
	}
	row("Flags", formatFlags(card))
	if card.Notes != "" {
		row("Notes", card.Notes)
	}

	var counts []string
	for _, ch := range parser.JourneyChannels {
		counts = append(counts, fmt.Sprintf("%s %d", ch.Upper(), card.ChannelCounts[ch]))
	}
	row("Counts", strings.Join(counts, "  "))
	if card.BodyTitle != "" && card.BodyTitle != card.FullTitle {
		row("Heading", card.BodyTitle)
	}
	if card.Preview != "" {
		row("Preview", mutedStyle.Render(card.Preview))
	}

	sb.WriteString("\n" + sectionHeaderStyle.Render("Journey") + "\n")
	if len(card.Events) == 0 {
		sb.WriteString(emptyStyle.Render("  none") + "\n")
	}
	for _, ev := range card.Events {
		at := ev.At
		if at == "" {
			at = "undated"
		}
		tag := theme.Channel(ev.Channel).Width(9).Render(ev.Channel.Upper())
		sb.WriteString(fmt.Sprintf("  %-16s %s %-3s %s\n", at, tag, agendapkg.PositionOf(ev), agendapkg.DisplayName(ev)))
	}

	sb.WriteString("\n" + sectionHeaderStyle.Render("Offers") + "\n")
	if len(card.Offers) == 0 {
		sb.WriteString(emptyStyle.Render("  none") + "\n")
	}
	for _, o := range card.Offers {
		end := o.EndAt
		if end == "" {
			end = "no end"
		}
		tag := theme.Channel(o.Channel).Width(9).Render(o.Channel.Upper())
		sb.WriteString(fmt.Sprintf("  %s → %s %s %s\n", o.StartAt, end, tag, o.Name))
	}

	return detailBoxStyle.Width(max(20, m.width-4)).Render(strings.TrimRight(sb.String(), "\n"))
}

func formatWindow(card models.Card) string {
	if card.EffectiveStart == nil {
		return "no dates"
	}
	start := card.EffectiveStart.Format("Jan 2")
	if card.EffectiveEnd == nil {
		return start + " →"
	}
	return start + " → " + card.EffectiveEnd.Format("Jan 2")
}

func formatFlags(card models.Card) string {
	var flags []string
	if card.Archived {
		flags = append(flags, "archived")
	}
	if card.JourneyDisabled {
		flags = append(flags, "journey disabled")
	}
	if card.IncidentPaused {
		flags = append(flags, "paused by incident")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ", ")
}
