package fs

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"ativas/internal/cards/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// ReadCard reads a card file and parses its frontmatter and body
func ReadCard(cardPath string) (models.Card, error) {
	content, err := os.ReadFile(cardPath)
	if err != nil {
		return models.Card{}, err
	}

	card, body, err := ParseFrontmatter(content)
	if err != nil {
		return models.Card{}, fmt.Errorf("parse %s: %w", cardPath, err)
	}

	card.RawText = body
	card.BodyTitle = extractTitle(body)
	card.Preview = extractPreview(body)

	return card, nil
}

// ParseFrontmatter splits a stored card into its YAML record and raw body.
// Unlike free-form notes, a card file without frontmatter is an error: the
// record is the source of truth.
func ParseFrontmatter(content []byte) (models.Card, string, error) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) == 0 || !isFence(lines[0]) {
		return models.Card{}, "", fmt.Errorf("missing frontmatter")
	}

	// Find the closing ---
	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == 0 {
		return models.Card{}, "", fmt.Errorf("unterminated frontmatter")
	}

	frontmatterBytes := bytes.Join(lines[1:frontmatterEnd], []byte("\n"))
	var card models.Card
	if err := yaml.Unmarshal(frontmatterBytes, &card); err != nil {
		return models.Card{}, "", err
	}

	body := string(bytes.Join(lines[frontmatterEnd+1:], []byte("\n")))
	// WriteCard separates frontmatter and body with one blank line
	body = strings.TrimPrefix(body, "\n")

	return card, body, nil
}

// isFence matches an unindented "---"; indented ones belong to YAML block
// scalars such as multi-line notes.
func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \r"), []byte("---"))
}

// extractTitle returns the first H1 of the body when the card text was
// written as markdown, "" otherwise.
func extractTitle(markdown string) string {
	reader := text.NewReader([]byte(markdown))
	parser := goldmark.DefaultParser()
	doc := parser.Parse(reader)

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			heading := n.(*ast.Heading)
			if heading.Level == 1 {
				title = string(n.Text([]byte(markdown)))
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	return title
}

// extractPreview collects the first paragraphs of the body, skipping headings,
// the paragraph holding the header line and communication section markers.
func extractPreview(markdown string) string {
	reader := text.NewReader([]byte(markdown))
	parser := goldmark.DefaultParser()
	doc := parser.Parse(reader)

	headerLine := firstLine(markdown)

	var preview strings.Builder
	lineCount := 0
	maxLines := 2

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading, ast.KindThematicBreak:
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph:
			if lineCount >= maxLines {
				return ast.WalkStop, nil
			}

			text := strings.TrimSpace(string(n.Text([]byte(markdown))))
			skip := text == "" || strings.HasPrefix(text, "--") ||
				(headerLine != "" && strings.HasPrefix(text, headerLine))
			if !skip {
				if preview.Len() > 0 {
					preview.WriteString(" ")
				}
				preview.WriteString(text)
				lineCount++
			}

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	previewText := preview.String()
	if r := []rune(previewText); len(r) > 60 {
		previewText = string(r[:57]) + "..."
	}

	return previewText
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			return t
		}
	}
	return ""
}
