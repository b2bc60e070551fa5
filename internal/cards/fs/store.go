package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ativas/internal/cards/models"
	"ativas/internal/logs"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no card has the requested id.
var ErrNotFound = errors.New("card not found")

// Store is the key-value contract the application keeps cards in.
type Store interface {
	GetAll() ([]models.Card, error)
	Get(id string) (*models.Card, error)
	Put(card models.Card) error
	Delete(id string) error
	Clear() error
	GetMeta(key string) (string, error)
	SetMeta(key, value string) error
}

// FileStore keeps one markdown file per card under <dir>/cards and a single
// meta.yaml slot next to it.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates the directory layout if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "cards"), 0755); err != nil {
		return nil, fmt.Errorf("error creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) cardsDir() string {
	return filepath.Join(s.dir, "cards")
}

func (s *FileStore) metaPath() string {
	return filepath.Join(s.dir, "meta.yaml")
}

// CardPath returns the file a card id is stored in.
func (s *FileStore) CardPath(id string) string {
	return filepath.Join(s.cardsDir(), CardFilename(id))
}

// CardFilename maps an id to a safe filename.
func CardFilename(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return safe + ".md"
}

// GetAll loads every card, oldest first. Unreadable files are logged and
// skipped so one damaged card does not hide the rest.
func (s *FileStore) GetAll() ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.cardsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Card{}, nil
		}
		return nil, err
	}

	cards := make([]models.Card, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		card, err := ReadCard(filepath.Join(s.cardsDir(), entry.Name()))
		if err != nil {
			logs.Logger.Printf("Warning: skipping card file %s: %v", entry.Name(), err)
			continue
		}
		cards = append(cards, card)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID < cards[j].ID
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})

	return cards, nil
}

// Get loads one card.
func (s *FileStore) Get(id string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, err := ReadCard(s.CardPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &card, nil
}

// Put inserts or replaces a card in one atomic write.
func (s *FileStore) Put(card models.Card) error {
	if card.ID == "" {
		return fmt.Errorf("card without id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := WriteCard(card, s.CardPath(card.ID)); err != nil {
		return fmt.Errorf("error writing card %s: %w", card.ID, err)
	}
	return nil
}

// Delete removes a card. Deleting a missing card is not an error.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.CardPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every card. The meta slot is kept.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.cardsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.cardsDir(), entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// GetMeta returns the stored value or "" when unset.
func (s *FileStore) GetMeta(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.readMeta()
	if err != nil {
		return "", err
	}
	return meta[key], nil
}

// SetMeta writes one key of the meta slot.
func (s *FileStore) SetMeta(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readMeta()
	if err != nil {
		return err
	}
	meta[key] = value

	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	tmp := s.metaPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.metaPath())
}

func (s *FileStore) readMeta() (map[string]string, error) {
	meta := make(map[string]string)
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return meta, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("error reading meta: %w", err)
	}
	if meta == nil {
		meta = make(map[string]string)
	}
	return meta, nil
}
