// Package backup moves the whole card store in and out of a single JSON
// document.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/models"
	"ativas/internal/logs"
	"ativas/internal/parser"

	"github.com/google/uuid"
)

const (
	// AppName tags every backup document.
	AppName = "AtivasExtract"
	// Version is the payload format written by Export.
	Version = 2
	// MetaLastExport is the store meta key holding the last export instant.
	MetaLastExport = "lastExportAt"
)

// ErrInvalidBackup is returned when the document is not an ativas backup.
var ErrInvalidBackup = errors.New("invalid backup file")

// Payload is the backup document.
type Payload struct {
	App        string        `json:"app"`
	Version    int           `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	Items      []models.Card `json:"items"`
}

// Export writes every stored card to w and records the export instant.
func Export(store fs.Store, w io.Writer, now time.Time) (string, error) {
	cards, err := store.GetAll()
	if err != nil {
		return "", err
	}

	payload := Payload{
		App:        AppName,
		Version:    Version,
		ExportedAt: parser.FormatInstant(now),
		Items:      cards,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("error writing backup: %w", err)
	}

	if err := store.SetMeta(MetaLastExport, payload.ExportedAt); err != nil {
		return "", err
	}
	logs.Logger.Printf("Backup: exported %d cards at %s", len(cards), payload.ExportedAt)
	return payload.ExportedAt, nil
}

// Import reads a backup document and puts every item into the store,
// replacing cards with the same id. It returns the number of items read.
func Import(store fs.Store, r io.Reader, now time.Time) (int, error) {
	var payload struct {
		App        string         `json:"app"`
		ExportedAt string         `json:"exportedAt"`
		Items      *[]models.Card `json:"items"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if payload.App != AppName || payload.Items == nil {
		return 0, ErrInvalidBackup
	}

	items := *payload.Items
	for _, item := range items {
		item = withDefaults(item, now)
		if err := store.Put(item); err != nil {
			return 0, err
		}
	}

	if payload.ExportedAt != "" {
		if err := store.SetMeta(MetaLastExport, payload.ExportedAt); err != nil {
			return 0, err
		}
	}
	logs.Logger.Printf("Backup: imported %d cards", len(items))
	return len(items), nil
}

func withDefaults(c models.Card, now time.Time) models.Card {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Name == "" {
		c.Name = "Item"
	}
	if c.FullTitle == "" {
		c.FullTitle = c.Name
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Events == nil {
		c.Events = []parser.JourneyEvent{}
	}
	if c.Offers == nil {
		c.Offers = []parser.OfferPlacement{}
	}
	if c.EffectiveStart == nil {
		c.ComputeWindow(models.DefaultBufferDays)
	}
	return c
}

// LastExport returns the instant of the last export or import, "" if none.
func LastExport(store fs.Store) (string, error) {
	return store.GetMeta(MetaLastExport)
}

// FileName is the suggested name for a backup written at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("ativas_extract_backup_%s.json", now.UTC().Format("2006-01-02"))
}
