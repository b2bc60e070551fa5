package importer

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/service"
)

const cardText = `Campanha Cashback - Março - Squad Growth

---- COMUNICAÇÃO 1 - P1 (Push) ----
dataInicio: 2026-03-10 09:00
Nome Comunicação: Boas-vindas
`

func newTestImport(t *testing.T) (ImportModel, service.CardService) {
	t.Helper()
	store, err := fs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings := service.DefaultSettings()
	settings.Parser.Location = time.Local
	svc := service.NewCardService(store, settings)

	m := NewImportModel(svc)
	m.SetSize(100, 30)
	return m, svc
}

var ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}

func TestImport_Submit(t *testing.T) {
	m, svc := newTestImport(t)
	m.area.SetValue(cardText)

	m, cmd := m.Update(ctrlS)
	if cmd == nil {
		t.Error("expected refresh and focus commands")
	}
	if m.failed || !strings.Contains(m.result, "Added Campanha Cashback") {
		t.Errorf("unexpected result %q", m.result)
	}
	if m.area.Value() != "" {
		t.Error("paste area must be cleared after import")
	}
	if cards, _ := svc.List(); len(cards) != 1 {
		t.Errorf("expected one stored card, got %d", len(cards))
	}

	m.area.SetValue(cardText)
	m, _ = m.Update(ctrlS)
	if !strings.Contains(m.result, "Updated") {
		t.Errorf("same card must merge, got %q", m.result)
	}
}

func TestImport_Rejections(t *testing.T) {
	m, _ := newTestImport(t)

	m, _ = m.Update(ctrlS)
	if !m.failed || !strings.Contains(m.result, "empty") {
		t.Errorf("expected empty input rejection, got %q", m.result)
	}

	m.area.SetValue("Só um título\nsem nada datado")
	m, _ = m.Update(ctrlS)
	if !m.failed || !strings.Contains(m.result, "No dated communication") {
		t.Errorf("expected nothing-extracted rejection, got %q", m.result)
	}
}

func TestImport_FocusAndModal(t *testing.T) {
	m, _ := newTestImport(t)
	if m.IsInModalState() {
		t.Fatal("area starts blurred")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsInModalState() {
		t.Fatal("enter must focus the paste area")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsInModalState() {
		t.Error("esc must blur the paste area")
	}
}
