package fs

import (
	"bytes"
	"os"
	"path/filepath"

	"ativas/internal/cards/models"

	"gopkg.in/yaml.v3"
)

// WriteCard writes a Card to a markdown file: the record as frontmatter and
// the raw card text as body. The file is replaced atomically.
func WriteCard(card models.Card, path string) error {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	yamlBytes, err := yaml.Marshal(card)
	if err != nil {
		return err
	}
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(card.RawText)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".card-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
