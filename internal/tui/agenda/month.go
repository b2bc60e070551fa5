package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	agendapkg "ativas/internal/agenda"
	"ativas/internal/cards/models"
	"ativas/internal/cards/service"
	"ativas/internal/logs"
	"ativas/internal/parser"
	"ativas/internal/tui/messages"
	"ativas/internal/tui/shared"
)

var spaceCycle = []parser.Space{"", parser.SpaceJourney, parser.SpaceOffers}

var channelCycle = func() []parser.Channel {
	c := []parser.Channel{""}
	c = append(c, parser.JourneyChannels...)
	return append(c, parser.OfferChannels...)
}()

// MonthModel is the month calendar of journey touches and offer windows
type MonthModel struct {
	svc        service.CardService
	cards      []models.Card
	viewMonth  time.Time // first of the month being viewed
	cursorDate time.Time // the day under cursor in the calendar
	filter     agendapkg.Filter
	bucketMap  map[string]agendapkg.DateBucket
	now        func() time.Time
	// Detail panel: items for the cursor day
	detailItems []agendapkg.AgendaItem
	detailIdx   int  // cursor within detail panel
	inDetail    bool // true when navigating in the detail panel
	// Search
	searchActive bool
	searchInput  textinput.Model
	// Modals
	aliasInput    *shared.TextInputModel
	aliasCardID   string
	aliasEventID  string
	confirm       *shared.ConfirmationModal
	pendingDelete string
	width         int
	height        int
}

// NewMonthModel creates a new month view and loads the cards
func NewMonthModel(svc service.CardService) MonthModel {
	ti := textinput.New()
	ti.Placeholder = "card, label or alias"
	ti.CharLimit = 100

	now := time.Now()
	m := MonthModel{
		svc:         svc,
		viewMonth:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
		cursorDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		searchInput: ti,
		now:         time.Now,
	}
	m.Reload()
	return m
}

// Reload reads the cards from the service and recomputes the calendar
func (m *MonthModel) Reload() {
	cards, err := m.svc.List()
	if err != nil {
		logs.Logger.Printf("Month: could not load cards: %v", err)
		cards = nil
	}
	m.cards = cards
	m.refreshData()
}

func (m *MonthModel) refreshData() {
	grid := agendapkg.MonthGrid(m.viewMonth)
	dateRange := agendapkg.DateRange{
		Start: grid[0],
		End:   grid[len(grid)-1].AddDate(0, 0, 1).Add(-time.Nanosecond),
	}
	buckets := agendapkg.QueryAgenda(m.cards, dateRange, m.filter)

	m.bucketMap = make(map[string]agendapkg.DateBucket, len(buckets))
	for _, b := range buckets {
		m.bucketMap[b.Date.Format("2006-01-02")] = b
	}

	m.refreshDetail()
}

func (m *MonthModel) refreshDetail() {
	if bucket, ok := m.bucketMap[m.cursorDate.Format("2006-01-02")]; ok {
		m.detailItems = bucket.AllItems()
	} else {
		m.detailItems = nil
	}
	if m.detailIdx >= len(m.detailItems) {
		m.detailIdx = max(0, len(m.detailItems)-1)
	}
	if len(m.detailItems) == 0 {
		m.inDetail = false
	}
}

// SetSize updates the view dimensions
func (m *MonthModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.aliasInput != nil {
		m.aliasInput.SetWidth(min(width, 70))
	}
}

// IsInModalState reports whether the view wants every key
func (m MonthModel) IsInModalState() bool {
	return m.aliasInput != nil || m.confirm != nil || (m.searchActive && m.searchInput.Focused())
}

// HintText returns hint text for the current state
func (m MonthModel) HintText() string {
	switch {
	case m.aliasInput != nil, m.confirm != nil:
		return ""
	case m.searchActive && m.searchInput.Focused():
		return "type to filter  enter:confirm  esc:clear"
	case m.inDetail:
		return "j/k:navigate  e:alias  x:delete card  enter:open card  esc:back"
	}
	return ""
}

// Update handles messages for the month view
func (m MonthModel) Update(msg tea.Msg) (MonthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.TextInputResultMsg:
		return m.finishAlias(msg)

	case shared.ConfirmationResultMsg:
		return m.finishDelete(msg)

	case tea.KeyMsg:
		if m.confirm != nil {
			return m, m.confirm.Update(msg)
		}
		if m.aliasInput != nil {
			return m, m.aliasInput.Update(msg)
		}
		if m.searchActive && m.searchInput.Focused() {
			return m.updateSearch(msg)
		}
		if m.inDetail {
			return m.updateDetail(msg)
		}
		return m.updateCalendar(msg)
	}

	// Cursor blink and other input ticks
	var cmd tea.Cmd
	switch {
	case m.aliasInput != nil:
		m.aliasInput.Input, cmd = m.aliasInput.Input.Update(msg)
	case m.searchActive:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func (m MonthModel) updateCalendar(msg tea.KeyMsg) (MonthModel, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.moveCursor(-1)
	case "l", "right":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-7)
	case "j", "down":
		m.moveCursor(7)
	case "H":
		// Previous month
		m.viewMonth = m.viewMonth.AddDate(0, -1, 0)
		m.cursorDate = m.viewMonth
		m.refreshData()
	case "L":
		// Next month
		m.viewMonth = m.viewMonth.AddDate(0, 1, 0)
		m.cursorDate = m.viewMonth
		m.refreshData()
	case "t":
		now := m.now()
		m.cursorDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		m.viewMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		m.refreshData()
	case "s":
		m.filter.Space = nextSpace(m.filter.Space)
		m.refreshData()
	case "c":
		m.filter.Channel = nextChannel(m.filter.Channel)
		m.refreshData()
	case "A":
		m.filter.IncludeArchived = !m.filter.IncludeArchived
		m.refreshData()
	case "/":
		m.searchActive = true
		m.searchInput.SetValue(m.filter.Search)
		return m, m.searchInput.Focus()
	case "esc":
		if m.searchActive {
			m.clearSearch()
		}
	case "enter":
		// Enter detail panel if there are items
		if len(m.detailItems) > 0 {
			m.inDetail = true
			m.detailIdx = 0
		}
	}
	return m, nil
}

func (m MonthModel) updateSearch(msg tea.KeyMsg) (MonthModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchInput.Blur()
		if strings.TrimSpace(m.filter.Search) == "" {
			m.clearSearch()
		}
		return m, nil
	case "esc":
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter.Search = m.searchInput.Value()
	m.refreshData()
	return m, cmd
}

func (m *MonthModel) clearSearch() {
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.searchActive = false
	m.filter.Search = ""
	m.refreshData()
}

func (m MonthModel) updateDetail(msg tea.KeyMsg) (MonthModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.detailIdx < len(m.detailItems)-1 {
			m.detailIdx++
		}
	case "k", "up":
		if m.detailIdx > 0 {
			m.detailIdx--
		}
	case "esc":
		m.inDetail = false
	case "e":
		item, ok := m.selectedItem()
		if !ok || item.Event == nil {
			return m, messages.Status("Only journey touches have an alias", true)
		}
		m.aliasCardID = item.Card.ID
		m.aliasEventID = item.Event.ID
		m.aliasInput = shared.NewTextInput("Alias", item.Event.Label)
		m.aliasInput.SetValue(agendapkg.DisplayName(*item.Event))
		m.aliasInput.SetWidth(min(m.width, 70))
	case "x":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.pendingDelete = item.Card.ID
		m.confirm = shared.NewConfirmationModal("Delete card?", item.Card.FullTitle, min(m.width-4, 60))
	case "enter":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		cardID := item.Card.ID
		return m, func() tea.Msg {
			return messages.FocusCardMsg{CardID: cardID}
		}
	}
	return m, nil
}

func (m MonthModel) selectedItem() (agendapkg.AgendaItem, bool) {
	if m.detailIdx < 0 || m.detailIdx >= len(m.detailItems) {
		return agendapkg.AgendaItem{}, false
	}
	item := m.detailItems[m.detailIdx]
	return item, item.Card != nil
}

func (m MonthModel) finishAlias(msg shared.TextInputResultMsg) (MonthModel, tea.Cmd) {
	if m.aliasInput == nil {
		return m, nil
	}
	cardID, eventID := m.aliasCardID, m.aliasEventID
	m.aliasInput = nil
	if msg.Cancelled {
		return m, nil
	}

	if err := m.svc.SetAlias(cardID, eventID, msg.Value); err != nil {
		logs.Logger.Printf("Month: alias failed: %v", err)
		return m, messages.Status("Alias not saved: "+err.Error(), true)
	}
	return m, tea.Batch(messages.Refresh, messages.Status("Alias saved", false))
}

func (m MonthModel) finishDelete(msg shared.ConfirmationResultMsg) (MonthModel, tea.Cmd) {
	if m.confirm == nil {
		return m, nil
	}
	id := m.pendingDelete
	m.confirm = nil
	m.pendingDelete = ""
	if !msg.Confirmed {
		return m, nil
	}

	if err := m.svc.Delete(id); err != nil {
		logs.Logger.Printf("Month: delete failed: %v", err)
		return m, messages.Status("Delete failed: "+err.Error(), true)
	}
	return m, tea.Batch(messages.Refresh, messages.Status("Card deleted", false))
}

func (m *MonthModel) moveCursor(days int) {
	m.cursorDate = m.cursorDate.AddDate(0, 0, days)
	if m.cursorDate.Year() != m.viewMonth.Year() || m.cursorDate.Month() != m.viewMonth.Month() {
		m.viewMonth = time.Date(m.cursorDate.Year(), m.cursorDate.Month(), 1, 0, 0, 0, 0, time.Local)
		m.refreshData()
		return
	}
	m.refreshDetail()
}

func nextSpace(s parser.Space) parser.Space {
	for i, v := range spaceCycle {
		if v == s {
			return spaceCycle[(i+1)%len(spaceCycle)]
		}
	}
	return ""
}

func nextChannel(c parser.Channel) parser.Channel {
	for i, v := range channelCycle {
		if v == c {
			return channelCycle[(i+1)%len(channelCycle)]
		}
	}
	return ""
}

// View renders the month view
func (m MonthModel) View() string {
	var sb strings.Builder

	// Title line
	title := calMonthTitleStyle.Render(" " + m.viewMonth.Format("January 2006"))
	nav := navHintStyle.Render("[h/l: day] [k/j: week] [H/L: month] [t: today] [s/c: filter] [/: search]")

	titleLine := title
	if f := m.filterSummary(); f != "" {
		titleLine += "  " + filterStyle.Render(f)
	}
	padding := m.width - lipgloss.Width(titleLine) - lipgloss.Width(nav) - 1
	if padding > 0 {
		titleLine += strings.Repeat(" ", padding) + nav
	}
	sb.WriteString(titleLine)
	sb.WriteString("\n")

	if m.searchActive {
		sb.WriteString(" " + searchLabelStyle.Render("/") + " " + m.searchInput.View())
	}
	sb.WriteString("\n")

	// Calendar grid
	calendar := m.renderCalendar()
	sb.WriteString(calendar)
	sb.WriteString("\n")

	// Detail panel for selected day
	used := lipgloss.Height(titleLine) + 1 + lipgloss.Height(calendar) + 1
	sb.WriteString(m.renderDetailPanel(m.height - used))

	content := sb.String()
	switch {
	case m.confirm != nil:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.aliasInput != nil:
		return content + "\n" + m.aliasInput.View()
	}
	return content
}

func (m MonthModel) filterSummary() string {
	var parts []string
	if m.filter.Space != "" {
		parts = append(parts, string(m.filter.Space))
	}
	if m.filter.Channel != "" {
		parts = append(parts, m.filter.Channel.Upper())
	}
	if m.filter.IncludeArchived {
		parts = append(parts, "+archived")
	}
	if m.filter.Search != "" && !m.searchActive {
		parts = append(parts, fmt.Sprintf("%q", m.filter.Search))
	}
	return strings.Join(parts, " · ")
}

func (m MonthModel) renderCalendar() string {
	var sb strings.Builder

	// Day headers (Su Mo Tu We Th Fr Sa)
	dayHeaders := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	sb.WriteString(" ")
	for _, d := range dayHeaders {
		sb.WriteString(calDayHeaderStyle.Render(d))
	}
	sb.WriteString("\n")

	now := m.now()
	grid := agendapkg.MonthGrid(m.viewMonth)
	for i, date := range grid {
		if i%7 == 0 {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(" ")
		}

		count := 0
		if bucket, ok := m.bucketMap[date.Format("2006-01-02")]; ok {
			count = bucket.TotalCount()
		}

		dayStr := fmt.Sprintf("%2d", date.Day())
		switch {
		case count > 9:
			dayStr += "·+"
		case count > 0:
			dayStr += fmt.Sprintf("·%d", count)
		}

		inMonth := date.Month() == m.viewMonth.Month()
		switch {
		case isSameDay(date, m.cursorDate):
			sb.WriteString(calCursorStyle.Render(dayStr))
		case !inMonth:
			sb.WriteString(calOutsideStyle.Render(dayStr))
		case isSameDay(date, now):
			sb.WriteString(calTodayStyle.Render(dayStr))
		case count > 0:
			sb.WriteString(calHasItemsStyle.Render(dayStr))
		default:
			sb.WriteString(calDayStyle.Render(dayStr))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m MonthModel) renderDetailPanel(rows int) string {
	var sb strings.Builder

	header := detailHeaderStyle.Render(" " + m.cursorDate.Format("Mon, Jan 2"))

	if len(m.detailItems) == 0 {
		sb.WriteString(header)
		sb.WriteString("  ")
		sb.WriteString(emptyStyle.Render("Nothing scheduled"))
		sb.WriteString("\n")
		return sb.String()
	}

	countStr := detailCountStyle.Render(fmt.Sprintf("(%d items)", len(m.detailItems)))
	sb.WriteString(header + " " + countStr)
	if !m.inDetail {
		sb.WriteString("  " + navHintStyle.Render("[enter: select]"))
	}
	sb.WriteString("\n")

	// Keep the selected line visible when the list is taller than the panel
	rows--
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.detailIdx >= rows {
		start = m.detailIdx - rows + 1
	}
	end := min(len(m.detailItems), start+rows)

	now := m.now()
	for i := start; i < end; i++ {
		selected := m.inDetail && i == m.detailIdx
		sb.WriteString("   ")
		sb.WriteString(RenderItemLine(m.detailItems[i], selected, m.width-4, now))
		sb.WriteString("\n")
	}

	return sb.String()
}

func isSameDay(d1, d2 time.Time) bool {
	return d1.Year() == d2.Year() && d1.Month() == d2.Month() && d1.Day() == d2.Day()
}
