package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/models"
	"ativas/internal/parser"
)

func newStore(t *testing.T) *fs.FileStore {
	t.Helper()
	s, err := fs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func storedCard(id string) models.Card {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := models.Card{
		ID:        id,
		Name:      "Campanha - Março",
		FullTitle: "Campanha - Março - Squad",
		Notes:     "revisar copy",
		RawText:   "Campanha - Março - Squad\n",
		Events: []parser.JourneyEvent{{
			ID:      "j_0001",
			Space:   parser.SpaceJourney,
			Channel: parser.ChannelPush,
			Kind:    parser.KindTouch,
			At:      "2024-03-10T12:00:00.000Z",
			Label:   "PUSH P1",
			Alias:   "Apelido",
		}},
		IsPontual: true,
		Archived:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	c.ComputeWindow(models.DefaultBufferDays)
	return c
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newStore(t)
	src.Put(storedCard("a"))
	src.Put(storedCard("b"))

	now := time.Date(2024, 4, 2, 15, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	exportedAt, err := Export(src, &buf, now)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if exportedAt != "2024-04-02T15:30:00.000Z" {
		t.Errorf("unexpected exportedAt %q", exportedAt)
	}
	if last, _ := LastExport(src); last != exportedAt {
		t.Errorf("export must record lastExportAt, got %q", last)
	}

	var payload Payload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if payload.App != "AtivasExtract" || payload.Version != 2 || len(payload.Items) != 2 {
		t.Errorf("unexpected payload header %+v", payload)
	}

	dst := newStore(t)
	later := now.Add(time.Hour)
	n, err := Import(dst, bytes.NewReader(buf.Bytes()), later)
	if err != nil {
		t.Fatalf("import error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 items, got %d", n)
	}

	got, err := dst.Get("a")
	if err != nil {
		t.Fatalf("imported card missing: %v", err)
	}
	if got.Notes != "revisar copy" || !got.Archived || got.RawText != "Campanha - Março - Squad\n" {
		t.Errorf("card fields lost: %+v", got)
	}
	if len(got.Events) != 1 || got.Events[0].Alias != "Apelido" {
		t.Errorf("events lost: %+v", got.Events)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("updatedAt must be the import time, got %v", got.UpdatedAt)
	}
	if got.CreatedAt.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("createdAt must be kept, got %v", got.CreatedAt)
	}
	if last, _ := LastExport(dst); last != exportedAt {
		t.Errorf("import must record the payload exportedAt, got %q", last)
	}
}

func TestImport_FillsDefaults(t *testing.T) {
	store := newStore(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := `{"app":"AtivasExtract","items":[{"events":[{"id":"j_1","at":"2024-05-03T10:00:00.000Z","label":"PUSH P1"}]}]}`

	n, err := Import(store, strings.NewReader(doc), now)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 item, got %d, %v", n, err)
	}

	cards, _ := store.GetAll()
	if len(cards) != 1 {
		t.Fatalf("expected 1 stored card, got %d", len(cards))
	}
	c := cards[0]
	if c.ID == "" || c.Name != "Item" {
		t.Errorf("expected generated id and default name, got %q/%q", c.ID, c.Name)
	}
	if !c.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt to default to now, got %v", c.CreatedAt)
	}
	if c.EffectiveStart == nil || c.EffectiveStart.Format("2006-01-02") != "2024-05-03" {
		t.Errorf("expected window computed from events, got %v", c.EffectiveStart)
	}
	if last, _ := LastExport(store); last != "" {
		t.Errorf("no exportedAt in payload, meta must stay empty, got %q", last)
	}
}

func TestImport_Invalid(t *testing.T) {
	store := newStore(t)
	docs := []string{
		`not json`,
		`{"app":"Outro","items":[]}`,
		`{"app":"AtivasExtract"}`,
	}
	for _, doc := range docs {
		if _, err := Import(store, strings.NewReader(doc), time.Now()); !errors.Is(err, ErrInvalidBackup) {
			t.Errorf("Import(%q): expected ErrInvalidBackup, got %v", doc, err)
		}
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	if got := FileName(now); got != "ativas_extract_backup_2024-12-31.json" {
		t.Errorf("unexpected file name %q", got)
	}
}
