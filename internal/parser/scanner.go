package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sectionHeader matches "---- COMUNICAÇÃO 3 - P2 (Push) ----".
var sectionHeader = regexp.MustCompile(`(?i)^-{2,}\s*(?:COMUNICA[ÇC][ÃA]O|COMMUNICATION)\s*(\d+)\s*(?:-\s*(P\d+|NA)\b)?[^(]*\(([^)]+)\)`)

var leadingDigits = regexp.MustCompile(`^\d+`)

type field int

const (
	fieldPosition field = iota
	fieldStart
	fieldEnd
	fieldName
	fieldBlocks
	fieldDeeplink
)

// fieldRule binds a set of label spellings to a record attribute. Labels are
// compared after foldLabel, so "Data Início", "data inicio" and "dataInicio"
// are the same key.
type fieldRule struct {
	labels   []string
	field    field
	channels []Channel // nil: every channel in the allow-set
}

func (r fieldRule) accepts(label string, ch Channel) bool {
	if len(r.channels) > 0 {
		ok := false
		for _, c := range r.channels {
			if c == ch {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, l := range r.labels {
		if l == label {
			return true
		}
	}
	return false
}

var (
	positionLabels = []string{"posicaojornada", "posicaonajornada"}
	startLabels    = []string{"datainicio", "datadeinicio"}
	endLabels      = []string{"datafim", "datadefim", "datatermino", "datadetermino", "datafinal"}
	blocksLabels   = []string{"quantidadedeblocos", "qtdblocos", "blocos"}
	deeplinkLabels = []string{"deeplink", "url", "urlderedirecionamento"}
)

var journeyRules = []fieldRule{
	{labels: positionLabels, field: fieldPosition},
	{labels: startLabels, field: fieldStart},
	{labels: []string{"nomecomunicacao"}, field: fieldName},
}

var offerRules = []fieldRule{
	{labels: positionLabels, field: fieldPosition},
	{labels: startLabels, field: fieldStart, channels: []Channel{ChannelInApp, ChannelBanner}},
	{labels: endLabels, field: fieldEnd, channels: []Channel{ChannelInApp, ChannelBanner}},
	{labels: []string{"nomecomunicacao"}, field: fieldName},
	{labels: []string{"nomeexperiencia"}, field: fieldName},
	{labels: []string{"nomecampanha"}, field: fieldName},
	{labels: blocksLabels, field: fieldBlocks, channels: []Channel{ChannelMktScreen}},
	{labels: deeplinkLabels, field: fieldDeeplink, channels: []Channel{ChannelMktScreen}},
}

// record is one communication section being accumulated.
type record struct {
	channel    Channel
	rawChannel string
	number     int
	headerPos  string
	bodyPos    string
	start      time.Time
	end        time.Time
	name       string
	blocks     int
	deeplink   string
}

// position prefers the tag from the section header unless it was "NA".
func (r *record) position() string {
	if r.headerPos != "" {
		return r.headerPos
	}
	return r.bodyPos
}

func (r *record) hasStart() bool { return !r.start.IsZero() }
func (r *record) hasEnd() bool   { return !r.end.IsZero() }

type scanState int

const (
	stateNoSection scanState = iota
	stateInSection
)

// sectionScanner walks card text one line at a time, holding at most one open
// record. A record is committed when the next section starts or input ends.
type sectionScanner struct {
	allowed map[Channel]bool
	rules   []fieldRule
	opts    Options

	state   scanState
	current *record
	out     []record
}

func newSectionScanner(allowed map[Channel]bool, rules []fieldRule, opts Options) *sectionScanner {
	return &sectionScanner{
		allowed: allowed,
		rules:   rules,
		opts:    opts,
		state:   stateNoSection,
	}
}

func (s *sectionScanner) scan(text string) []record {
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(strings.ReplaceAll(raw, "\t", " "))
		if line == "" {
			continue
		}
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			s.open(m)
			continue
		}
		if s.state == stateInSection {
			s.applyField(line)
		}
	}
	s.commit()
	return s.out
}

func (s *sectionScanner) open(m []string) {
	s.commit()

	raw := strings.TrimSpace(m[3])
	ch := NormalizeChannel(raw)
	if !s.allowed[ch] {
		s.state = stateNoSection
		return
	}

	n, _ := strconv.Atoi(m[1])
	pos := strings.ToUpper(strings.TrimSpace(m[2]))
	if pos == "NA" {
		pos = ""
	}

	s.current = &record{
		channel:    ch,
		rawChannel: raw,
		number:     n,
		headerPos:  pos,
	}
	s.state = stateInSection
}

func (s *sectionScanner) commit() {
	switch s.state {
	case stateInSection:
		if s.current != nil && s.allowed[s.current.channel] {
			s.out = append(s.out, *s.current)
		}
	case stateNoSection:
		// nothing open
	}
	s.current = nil
	s.state = stateNoSection
}

func (s *sectionScanner) applyField(line string) {
	label, value, ok := splitField(line)
	if !ok {
		return
	}
	r := s.current
	for _, rule := range s.rules {
		if !rule.accepts(label, r.channel) {
			continue
		}
		switch rule.field {
		case fieldPosition:
			if r.bodyPos == "" && !strings.EqualFold(value, "NA") {
				r.bodyPos = value
			}
		case fieldStart:
			if !r.hasStart() {
				if t, ok := ParseFlexibleInstant(value, s.opts.Location); ok {
					r.start = t
				}
			}
		case fieldEnd:
			if !r.hasEnd() {
				if t, ok := ParseFlexibleInstant(value, s.opts.Location); ok {
					r.end = t
				}
			}
		case fieldName:
			if r.name == "" {
				r.name = value
			}
		case fieldBlocks:
			if r.blocks == 0 {
				if d := leadingDigits.FindString(value); d != "" {
					r.blocks, _ = strconv.Atoi(d)
				}
			}
		case fieldDeeplink:
			if r.deeplink == "" && strings.HasPrefix(strings.ToLower(value), strings.ToLower(s.opts.DeeplinkPrefix)) {
				r.deeplink = value
			}
		}
		return
	}
}

// splitField cuts "<Label>: <value>" at the first colon. Both sides must be
// non-empty.
func splitField(line string) (label, value string, ok bool) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", false
	}
	value = strings.TrimSpace(line[i+1:])
	if value == "" {
		return "", "", false
	}
	label = foldLabel(line[:i])
	if label == "" {
		return "", "", false
	}
	return label, value, true
}

// foldLabel lowercases, strips accents and drops separators so label spelling
// variants collapse to one key.
func foldLabel(s string) string {
	// Chain transformers carry state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
