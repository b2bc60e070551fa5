package cards

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/service"
	"ativas/internal/tui/shared"
)

const cardText = `Campanha Cashback - Março - Squad Growth

---- COMUNICAÇÃO 1 - P1 (Push) ----
dataInicio: 2026-03-10 09:00
Nome Comunicação: Boas-vindas
`

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestCards(t *testing.T) (CardsModel, service.CardService, string) {
	t.Helper()
	store, err := fs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings := service.DefaultSettings()
	settings.Parser.Location = time.Local
	svc := service.NewCardService(store, settings)
	card, _, err := svc.Import(cardText)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	m := NewCardsModel(svc)
	m.SetSize(100, 30)
	return m, svc, card.ID
}

func TestCards_ToggleFlags(t *testing.T) {
	m, svc, id := newTestCards(t)

	for _, k := range []string{"p", "i"} {
		m, _ = m.Update(key(k))
		m.Reload()
	}
	card, _ := svc.Get(id)
	if !card.JourneyDisabled || !card.IncidentPaused {
		t.Errorf("expected both flags set, got journey=%v incident=%v", card.JourneyDisabled, card.IncidentPaused)
	}

	m, _ = m.Update(key("p"))
	card, _ = svc.Get(id)
	if card.JourneyDisabled {
		t.Error("p must toggle the journey back on")
	}
}

func TestCards_ArchiveHidesCard(t *testing.T) {
	m, svc, id := newTestCards(t)

	m, _ = m.Update(key("a"))
	m.Reload()
	if len(m.filtered) != 0 {
		t.Fatalf("archived card must be hidden, got %d", len(m.filtered))
	}

	m, _ = m.Update(key("A"))
	if len(m.filtered) != 1 {
		t.Fatalf("A must show archived cards, got %d", len(m.filtered))
	}

	m, _ = m.Update(key("a"))
	card, _ := svc.Get(id)
	if card.Archived {
		t.Error("a on an archived card must restore it")
	}
}

func TestCards_FocusCardRevealsArchived(t *testing.T) {
	m, svc, id := newTestCards(t)
	svc.SetArchived(id, true)
	m.Reload()

	m.FocusCard(id)
	if c := m.current(); c == nil || c.ID != id {
		t.Fatal("focus must select the archived card")
	}
	if !m.showAll {
		t.Error("focus must turn on the archived filter")
	}
}

func TestCards_Notes(t *testing.T) {
	m, svc, id := newTestCards(t)

	m, _ = m.Update(key("n"))
	if !m.IsInModalState() {
		t.Fatal("notes editor must capture keys")
	}
	m, _ = m.Update(shared.TextInputResultMsg{Value: "rever com o squad"})

	card, _ := svc.Get(id)
	if card.Notes != "rever com o squad" {
		t.Errorf("expected notes saved, got %q", card.Notes)
	}
}

func TestCards_SearchAndDelete(t *testing.T) {
	m, svc, _ := newTestCards(t)

	m, _ = m.Update(key("/"))
	for _, r := range "zzzz" {
		m, _ = m.Update(key(string(r)))
	}
	if len(m.filtered) != 0 {
		t.Errorf("search must filter out the card, got %d", len(m.filtered))
	}
	m, _ = m.Update(key("esc"))
	if len(m.filtered) != 1 {
		t.Fatalf("esc must clear the search, got %d", len(m.filtered))
	}

	m, _ = m.Update(key("d"))
	m, _ = m.Update(key("y"))
	if m.confirm == nil {
		t.Fatal("the modal stays until its result arrives")
	}
	m, _ = m.Update(shared.ConfirmationResultMsg{Confirmed: true})
	if cards, _ := svc.List(); len(cards) != 0 {
		t.Errorf("expected the card deleted, %d left", len(cards))
	}
}
