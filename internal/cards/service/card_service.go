package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/models"
	"ativas/internal/logs"
	"ativas/internal/parser"

	"github.com/google/uuid"
)

var (
	// ErrEmptyInput is returned when the pasted text is blank.
	ErrEmptyInput = errors.New("card text is empty")
	// ErrNothingExtracted is returned when no journey touch and no offer was found.
	ErrNothingExtracted = errors.New("no dated communication or offer found in card text")
)

// AlwaysOnError rejects a card that is not pontual while the always-on
// policy is active.
type AlwaysOnError struct {
	Card   string
	Offers []string
}

func (e *AlwaysOnError) Error() string {
	return fmt.Sprintf("card %q is always-on (%s)", e.Card, strings.Join(e.Offers, ", "))
}

// Settings controls how cards are built from text.
type Settings struct {
	Parser         parser.Options
	BufferDays     int
	RejectAlwaysOn bool
}

// DefaultSettings mirrors parser.DefaultOptions.
func DefaultSettings() Settings {
	return Settings{
		Parser:     parser.DefaultOptions(),
		BufferDays: models.DefaultBufferDays,
	}
}

// CardService defines the operations the CLI and TUI perform on cards.
type CardService interface {
	List() ([]models.Card, error)
	ListActive() ([]models.Card, error)
	Get(id string) (*models.Card, error)
	Import(rawText string) (*models.Card, bool, error)
	Reparse(id string) (*models.Card, error)
	SetAlias(cardID, eventID, alias string) error
	SetArchived(id string, archived bool) error
	SetJourneyDisabled(id string, disabled bool) error
	SetIncidentPaused(id string, paused bool) error
	SetNotes(id, notes string) error
	Delete(id string) error
	Wipe() error
}

type cardServiceImpl struct {
	store    fs.Store
	settings Settings
	now      func() time.Time
	newID    func() string
}

// NewCardService creates a CardService over a store.
func NewCardService(store fs.Store, settings Settings) CardService {
	return &cardServiceImpl{
		store:    store,
		settings: settings,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *cardServiceImpl) List() ([]models.Card, error) {
	return s.store.GetAll()
}

func (s *cardServiceImpl) ListActive() ([]models.Card, error) {
	cards, err := s.store.GetAll()
	if err != nil {
		return nil, err
	}
	var active []models.Card
	for _, c := range cards {
		if !c.Archived {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *cardServiceImpl) Get(id string) (*models.Card, error) {
	return s.store.Get(id)
}

// Import parses raw card text and stores it. A card whose full title matches
// a stored card is merged into it instead of duplicated; the bool reports
// whether a new card was created.
func (s *cardServiceImpl) Import(rawText string) (*models.Card, bool, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, false, ErrEmptyInput
	}

	built, err := s.build(rawText)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.findByTitle(built.FullTitle)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		logs.Logger.Printf("Service: Import merges into card %s (%s)", existing.ID, existing.FullTitle)
		merged := mergeCard(*existing, built, s.now())
		if err := s.store.Put(merged); err != nil {
			return nil, false, err
		}
		return &merged, false, nil
	}

	now := s.now()
	built.ID = s.newID()
	built.CreatedAt = now
	built.UpdatedAt = now
	logs.Logger.Printf("Service: Import creates card %s (%s) with %d events, %d offers",
		built.ID, built.FullTitle, len(built.Events), len(built.Offers))
	if err := s.store.Put(built); err != nil {
		return nil, false, err
	}
	return &built, true, nil
}

// Reparse rebuilds a stored card from its raw text with the current settings.
func (s *cardServiceImpl) Reparse(id string) (*models.Card, error) {
	card, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	built, err := s.build(card.RawText)
	if err != nil {
		return nil, err
	}

	logs.Logger.Printf("Service: Reparse card %s", id)
	merged := mergeCard(*card, built, s.now())
	if err := s.store.Put(merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// SetAlias renames one event; a blank alias falls back to the label.
func (s *cardServiceImpl) SetAlias(cardID, eventID, alias string) error {
	return s.update(cardID, func(c *models.Card) error {
		idx := c.FindEvent(eventID)
		if idx == -1 {
			return fmt.Errorf("event not found in card: %s", eventID)
		}
		alias = strings.TrimSpace(alias)
		if alias == "" {
			alias = c.Events[idx].Label
		}
		c.Events[idx].Alias = alias
		return nil
	})
}

func (s *cardServiceImpl) SetArchived(id string, archived bool) error {
	return s.update(id, func(c *models.Card) error {
		c.Archived = archived
		return nil
	})
}

func (s *cardServiceImpl) SetJourneyDisabled(id string, disabled bool) error {
	return s.update(id, func(c *models.Card) error {
		c.JourneyDisabled = disabled
		return nil
	})
}

func (s *cardServiceImpl) SetIncidentPaused(id string, paused bool) error {
	return s.update(id, func(c *models.Card) error {
		c.IncidentPaused = paused
		return nil
	})
}

func (s *cardServiceImpl) SetNotes(id, notes string) error {
	return s.update(id, func(c *models.Card) error {
		c.Notes = notes
		return nil
	})
}

func (s *cardServiceImpl) Delete(id string) error {
	if _, err := s.store.Get(id); err != nil {
		return err
	}
	logs.Logger.Printf("Service: Delete card %s", id)
	return s.store.Delete(id)
}

func (s *cardServiceImpl) Wipe() error {
	logs.Logger.Println("Service: Wipe all cards")
	return s.store.Clear()
}

// update is the read-modify-write cycle every mutation goes through.
func (s *cardServiceImpl) update(id string, mutate func(c *models.Card) error) error {
	card, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if err := mutate(card); err != nil {
		return err
	}
	card.UpdatedAt = s.now()
	logs.Logger.Printf("Service: Update card %s", id)
	return s.store.Put(*card)
}

// build parses text into an unsaved card and applies the business rules.
func (s *cardServiceImpl) build(rawText string) (models.Card, error) {
	if strings.TrimSpace(rawText) == "" {
		return models.Card{}, ErrEmptyInput
	}

	res := parser.Parse(rawText, s.settings.Parser)
	if res.Empty() {
		return models.Card{}, ErrNothingExtracted
	}

	name := res.Header.DisplayName
	if s.settings.RejectAlwaysOn && !res.Offers.IsPontual {
		return models.Card{}, &AlwaysOnError{Card: name, Offers: res.Offers.AlwaysOnNames()}
	}

	fullTitle := strings.TrimSpace(res.Header.HeaderLine)
	if fullTitle == "" {
		fullTitle = "Card"
	}

	events := res.Journey.Events
	for i := range events {
		if strings.TrimSpace(events[i].Alias) == "" {
			events[i].Alias = fullTitle
		}
	}

	card := models.Card{
		Name:          name,
		FullTitle:     fullTitle,
		CardURL:       res.Header.CardURL,
		RawText:       rawText,
		Events:        events,
		Offers:        res.Offers.Offers,
		ChannelCounts: res.Journey.ChannelCounts,
		IsPontual:     res.Offers.IsPontual,
	}
	card.ComputeWindow(s.settings.BufferDays)
	return card, nil
}

func (s *cardServiceImpl) findByTitle(fullTitle string) (*models.Card, error) {
	cards, err := s.store.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].FullTitle == fullTitle {
			return &cards[i], nil
		}
	}
	return nil, nil
}

// mergeCard replaces the extracted content of stored with fresh, keeping
// identity, user edits and aliases of events whose id survived.
func mergeCard(stored, fresh models.Card, now time.Time) models.Card {
	aliases := make(map[string]string, len(stored.Events))
	for _, ev := range stored.Events {
		aliases[ev.ID] = ev.Alias
	}
	for i := range fresh.Events {
		if a, ok := aliases[fresh.Events[i].ID]; ok && a != "" {
			fresh.Events[i].Alias = a
		}
	}

	fresh.ID = stored.ID
	fresh.Notes = stored.Notes
	fresh.JourneyDisabled = stored.JourneyDisabled
	fresh.Archived = stored.Archived
	fresh.IncidentPaused = stored.IncidentPaused
	fresh.CreatedAt = stored.CreatedAt
	fresh.UpdatedAt = now
	return fresh
}
