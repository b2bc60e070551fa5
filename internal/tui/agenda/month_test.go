package agenda

import (
	"strings"
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

---- COMUNICAÇÃO 2 (Banner) ----
dataInicio: 2026-03-10
dataFim: 2026-03-12
Nome Experiência: Banner Home
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

func newTestMonth(t *testing.T) (MonthModel, service.CardService) {
	t.Helper()
	store, err := fs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings := service.DefaultSettings()
	settings.Parser.Location = time.Local
	svc := service.NewCardService(store, settings)
	if _, _, err := svc.Import(cardText); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	m := NewMonthModel(svc)
	m.SetSize(100, 30)
	m.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local) }
	m.viewMonth = time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	m.cursorDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	m.refreshData()
	return m, svc
}

func TestMonth_DetailItemsFollowCursor(t *testing.T) {
	m, _ := newTestMonth(t)
	if len(m.detailItems) != 2 {
		t.Fatalf("expected push and banner on Mar 10, got %d", len(m.detailItems))
	}

	m, _ = m.Update(key("l"))
	if len(m.detailItems) != 1 {
		t.Errorf("expected only the banner on Mar 11, got %d", len(m.detailItems))
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if m.viewMonth.Month() != time.April {
		t.Errorf("moving past the month must switch it, got %v", m.viewMonth.Month())
	}
	if len(m.detailItems) != 0 {
		t.Errorf("expected an empty day, got %d items", len(m.detailItems))
	}
}

func TestMonth_FilterCycles(t *testing.T) {
	m, _ := newTestMonth(t)

	m, _ = m.Update(key("s"))
	if len(m.detailItems) != 1 || m.detailItems[0].Event == nil {
		t.Fatalf("journey space must keep only the push, got %+v", m.detailItems)
	}
	m, _ = m.Update(key("s"))
	if len(m.detailItems) != 1 || m.detailItems[0].Offer == nil {
		t.Fatalf("offers space must keep only the banner, got %+v", m.detailItems)
	}
	m, _ = m.Update(key("s"))
	if len(m.detailItems) != 2 {
		t.Errorf("cycle must return to all spaces, got %d", len(m.detailItems))
	}

	if got := nextChannel(""); got != channelCycle[1] {
		t.Errorf("expected first channel after none, got %q", got)
	}
	if got := nextChannel(channelCycle[len(channelCycle)-1]); got != "" {
		t.Errorf("expected the cycle to wrap, got %q", got)
	}
}

func TestMonth_EditAlias(t *testing.T) {
	m, svc := newTestMonth(t)

	m, _ = m.Update(key("s")) // journey only
	m, _ = m.Update(key("enter"))
	if !m.inDetail {
		t.Fatal("enter must open the detail panel")
	}
	m, _ = m.Update(key("e"))
	if !m.IsInModalState() {
		t.Fatal("alias editor must capture keys")
	}

	m, cmd := m.Update(shared.TextInputResultMsg{Value: "Primeiro toque"})
	if cmd == nil {
		t.Error("expected refresh command after saving the alias")
	}
	if m.IsInModalState() {
		t.Error("alias editor must close")
	}

	cards, _ := svc.List()
	if got := cards[0].Events[0].Alias; got != "Primeiro toque" {
		t.Errorf("expected alias saved, got %q", got)
	}
}

func TestMonth_DeleteNeedsConfirmation(t *testing.T) {
	m, svc := newTestMonth(t)

	m, _ = m.Update(key("enter"))
	m, _ = m.Update(key("x"))
	if m.confirm == nil {
		t.Fatal("x must ask for confirmation")
	}

	m, _ = m.Update(shared.ConfirmationResultMsg{Confirmed: false})
	if cards, _ := svc.List(); len(cards) != 1 {
		t.Fatal("cancel must keep the card")
	}

	m, _ = m.Update(key("x"))
	m, _ = m.Update(shared.ConfirmationResultMsg{Confirmed: true})
	if cards, _ := svc.List(); len(cards) != 0 {
		t.Errorf("confirm must delete the card, %d left", len(cards))
	}
}

func TestMonth_View(t *testing.T) {
	m, _ := newTestMonth(t)
	out := m.View()
	for _, want := range []string{"March 2026", "Tue, Mar 10", "PUSH", "P1", "Banner Home", "(2 items)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
