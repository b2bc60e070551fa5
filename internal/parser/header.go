package parser

import (
	"regexp"
	"strings"
)

var urlLine = regexp.MustCompile(`(?i)^https?://`)

// Header is the identity of a card: its first line and its link.
type Header struct {
	HeaderLine  string `json:"headerLine" yaml:"header_line"`
	CardURL     string `json:"cardUrl" yaml:"card_url"`
	DisplayName string `json:"displayName" yaml:"display_name"`
}

// ParseHeader takes the first non-blank line as the full title and the first
// http(s) line, wherever it appears, as the card URL.
func ParseHeader(text string) Header {
	var first, url string
	for _, l := range splitLines(text) {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if first == "" {
			first = t
		}
		if url == "" && urlLine.MatchString(t) {
			url = t
		}
		if first != "" && url != "" {
			break
		}
	}

	return Header{
		HeaderLine:  first,
		CardURL:     url,
		DisplayName: displayName(first),
	}
}

// displayName keeps the first two " - " segments of the title.
func displayName(headerLine string) string {
	if headerLine == "" {
		return "Item"
	}
	parts := strings.Split(headerLine, " - ")
	if len(parts) >= 2 {
		return strings.TrimSpace(strings.Join(parts[:2], " - "))
	}
	return headerLine
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
