package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"ativas/internal/cards/fs"
	"ativas/internal/parser"
)

const pontualCard = `Campanha Cashback - Março - Squad Growth
https://tracker.example.com/card/123

---- COMUNICAÇÃO 1 - P1 (Push) ----
dataInicio: 2024-03-10 09:00
Nome Comunicação: Boas-vindas

---- COMUNICAÇÃO 2 - P2 (Push) ----
dataInicio: 2024-03-12 09:00
Nome Comunicação: Lembrete

---- COMUNICAÇÃO 3 (Banner) ----
dataInicio: 2024-03-10
dataFim: 2024-03-20
Nome Experiência: Banner Home
`

const alwaysOnCard = `Oferta Permanente - Conta
---- COMUNICAÇÃO 1 (In-App) ----
dataInicio: 2024-01-01
Nome Experiência: Sem fim
`

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, mutate func(*Settings)) (*cardServiceImpl, *fs.FileStore) {
	t.Helper()
	store, err := fs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings := DefaultSettings()
	settings.Parser.Location = time.UTC
	if mutate != nil {
		mutate(&settings)
	}
	svc := NewCardService(store, settings).(*cardServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("card-%d", n)
	}
	return svc, store
}

func TestImport_CreatesCard(t *testing.T) {
	svc, _ := newTestService(t, nil)

	card, created, err := svc.Import(pontualCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected a new card")
	}
	if card.ID != "card-1" {
		t.Errorf("expected id card-1, got %q", card.ID)
	}
	if card.Name != "Campanha Cashback - Março" {
		t.Errorf("unexpected name %q", card.Name)
	}
	if card.FullTitle != "Campanha Cashback - Março - Squad Growth" {
		t.Errorf("unexpected full title %q", card.FullTitle)
	}
	if card.CardURL != "https://tracker.example.com/card/123" {
		t.Errorf("unexpected url %q", card.CardURL)
	}
	if len(card.Events) != 2 || len(card.Offers) != 1 {
		t.Fatalf("expected 2 events and 1 offer, got %d and %d", len(card.Events), len(card.Offers))
	}
	for _, ev := range card.Events {
		if ev.Alias != card.FullTitle {
			t.Errorf("expected default alias to be the full title, got %q", ev.Alias)
		}
	}
	if !card.IsPontual {
		t.Error("expected pontual card")
	}
	if card.EffectiveStart == nil || card.EffectiveStart.Format("2006-01-02") != "2024-03-10" {
		t.Errorf("unexpected effective start %v", card.EffectiveStart)
	}
	if card.EffectiveEnd == nil || card.EffectiveEnd.Format("2006-01-02") != "2024-03-20" {
		t.Errorf("unexpected effective end %v", card.EffectiveEnd)
	}
	if card.BufferEnd == nil || card.BufferEnd.Format("2006-01-02") != "2024-03-27" {
		t.Errorf("unexpected buffer end %v", card.BufferEnd)
	}
	if !card.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected created at %v", card.CreatedAt)
	}

	stored, err := svc.Get("card-1")
	if err != nil {
		t.Fatalf("card was not stored: %v", err)
	}
	if stored.RawText != pontualCard {
		t.Error("raw text must be kept for reparse")
	}
}

func TestImport_Rejections(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, _, err := svc.Import("   \n\t"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, _, err := svc.Import("Titulo\nsem nenhuma seção"); !errors.Is(err, ErrNothingExtracted) {
		t.Errorf("expected ErrNothingExtracted, got %v", err)
	}

	cards, _ := svc.List()
	if len(cards) != 0 {
		t.Errorf("rejected imports must not store anything, got %d", len(cards))
	}
}

func TestImport_AlwaysOnPolicy(t *testing.T) {
	svc, _ := newTestService(t, nil)
	card, _, err := svc.Import(alwaysOnCard)
	if err != nil {
		t.Fatalf("always-on cards are accepted by default: %v", err)
	}
	if !card.AlwaysOn() {
		t.Error("expected card flagged always-on")
	}

	strict, _ := newTestService(t, func(s *Settings) { s.RejectAlwaysOn = true })
	_, _, err = strict.Import(alwaysOnCard)
	var aoErr *AlwaysOnError
	if !errors.As(err, &aoErr) {
		t.Fatalf("expected AlwaysOnError, got %v", err)
	}
	if aoErr.Card != "Oferta Permanente - Conta" || len(aoErr.Offers) != 1 || aoErr.Offers[0] != "Sem fim" {
		t.Errorf("unexpected error detail %+v", aoErr)
	}
	if !strings.Contains(aoErr.Error(), "always-on") {
		t.Errorf("unexpected message %q", aoErr.Error())
	}
}

func TestImport_SameTextIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, nil)

	first, _, err := svc.Import(pontualCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetAlias(first.ID, first.Events[0].ID, "Meu apelido"); err != nil {
		t.Fatalf("alias error: %v", err)
	}

	second, created, err := svc.Import(pontualCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("re-import must merge, not create")
	}
	if second.ID != first.ID {
		t.Errorf("expected same card id, got %s and %s", first.ID, second.ID)
	}
	if second.Events[0].Alias != "Meu apelido" {
		t.Errorf("alias must survive re-import, got %q", second.Events[0].Alias)
	}

	cards, _ := svc.List()
	if len(cards) != 1 {
		t.Errorf("expected 1 card, got %d", len(cards))
	}
}

func TestImport_MergeDropsVanishedEvents(t *testing.T) {
	svc, _ := newTestService(t, nil)
	first, _, _ := svc.Import(pontualCard)

	edited := strings.Replace(pontualCard, "dataInicio: 2024-03-12 09:00", "dataInicio: 2024-03-13 09:00", 1)
	second, _, err := svc.Import(edited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(second.Events))
	}
	if second.Events[0].ID != first.Events[0].ID {
		t.Error("untouched event must keep its id")
	}
	if second.Events[1].ID == first.Events[1].ID {
		t.Error("rescheduled event must get a new id")
	}
}

func TestReparse_UsesCurrentSettings(t *testing.T) {
	svc, _ := newTestService(t, nil)
	card, _, _ := svc.Import(pontualCard)
	svc.SetNotes(card.ID, "anotação")

	svc.settings.Parser.IncludeOffers = false
	got, err := svc.Reparse(card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Offers) != 0 {
		t.Errorf("expected offers dropped after reparse, got %d", len(got.Offers))
	}
	if got.Notes != "anotação" {
		t.Errorf("user notes must survive reparse, got %q", got.Notes)
	}
	if got.ID != card.ID {
		t.Error("reparse must keep the card id")
	}
}

func TestSetAlias(t *testing.T) {
	svc, _ := newTestService(t, nil)
	card, _, _ := svc.Import(pontualCard)
	evID := card.Events[1].ID

	if err := svc.SetAlias(card.ID, evID, "  Lembrete D+2  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(card.ID)
	if got.Events[1].Alias != "Lembrete D+2" {
		t.Errorf("expected trimmed alias, got %q", got.Events[1].Alias)
	}

	svc.SetAlias(card.ID, evID, "   ")
	got, _ = svc.Get(card.ID)
	if got.Events[1].Alias != got.Events[1].Label {
		t.Errorf("blank alias must fall back to the label, got %q", got.Events[1].Alias)
	}

	if err := svc.SetAlias(card.ID, "j_missing", "x"); err == nil {
		t.Error("expected error for unknown event")
	}
	if err := svc.SetAlias("nope", evID, "x"); !errors.Is(err, fs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFlagsAndListActive(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a, _, _ := svc.Import(pontualCard)
	b, _, _ := svc.Import(alwaysOnCard)

	if err := svc.SetArchived(a.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.SetJourneyDisabled(b.ID, true)
	svc.SetIncidentPaused(b.ID, true)

	active, err := svc.ListActive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("expected only %s active, got %+v", b.ID, active)
	}
	if !active[0].JourneyDisabled || !active[0].IncidentPaused {
		t.Error("flags were not persisted")
	}
}

func TestDeleteAndWipe(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a, _, _ := svc.Import(pontualCard)
	svc.Import(alwaysOnCard)

	if err := svc.Delete(a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(a.ID); !errors.Is(err, fs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	cards, _ := svc.List()
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}

	if err := svc.Wipe(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cards, _ = svc.List()
	if len(cards) != 0 {
		t.Errorf("expected no cards after wipe, got %d", len(cards))
	}
}

func TestJourneyAllowSetFromSettings(t *testing.T) {
	svc, _ := newTestService(t, func(s *Settings) {
		s.Parser.JourneyChannels = []parser.Channel{parser.ChannelEmail}
		s.Parser.IncludeOffers = false
	})
	if _, _, err := svc.Import(pontualCard); !errors.Is(err, ErrNothingExtracted) {
		t.Errorf("expected ErrNothingExtracted when push is filtered out, got %v", err)
	}
}
