package parser

import (
	"sort"
	"strings"
	"time"
)

// KindTouch is a single point-in-time send.
const KindTouch = "touch"

// JourneyMeta keeps the raw values the label was built from.
type JourneyMeta struct {
	PosicaoJornada  string `json:"posicaoJornada" yaml:"posicao_jornada"`
	NomeComunicacao string `json:"nomeComunicacao" yaml:"nome_comunicacao"`
}

// JourneyEvent is one scheduled touch in a journey channel.
type JourneyEvent struct {
	ID      string      `json:"id" yaml:"id"`
	Space   Space       `json:"space" yaml:"space"`
	Channel Channel     `json:"channel" yaml:"channel"`
	Kind    string      `json:"kind" yaml:"kind"`
	At      string      `json:"at" yaml:"at"`
	Label   string      `json:"label" yaml:"label"`
	Meta    JourneyMeta `json:"meta" yaml:"meta"`
	Alias   string      `json:"alias" yaml:"alias"`
}

// Instant returns the parsed At value; false when the touch is undated.
func (e JourneyEvent) Instant() (time.Time, bool) {
	return ParseInstant(e.At)
}

// ChannelCounts counts committed sections per journey channel, dated or not.
type ChannelCounts map[Channel]int

// Total sums every channel.
func (c ChannelCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// JourneyResult is the output of ParseJourney.
type JourneyResult struct {
	Events        []JourneyEvent `json:"events"`
	ChannelCounts ChannelCounts  `json:"channelCounts"`
}

// ParseJourney extracts dated touches for the journey channels allowed by
// opts. labelContext is the card name and only seeds identifiers.
func ParseJourney(text, labelContext string, opts Options) JourneyResult {
	opts = opts.withDefaults()

	counts := make(ChannelCounts, len(JourneyChannels))
	for _, c := range JourneyChannels {
		counts[c] = 0
	}

	records := newSectionScanner(opts.journeyAllowSet(), journeyRules, opts).scan(text)

	events := make([]JourneyEvent, 0, len(records))
	for i := range records {
		r := &records[i]
		counts[r.channel]++
		if !r.hasStart() {
			continue
		}
		events = append(events, newJourneyEvent(r, labelContext))
	}

	SortEvents(events)

	return JourneyResult{Events: events, ChannelCounts: counts}
}

func newJourneyEvent(r *record, cardName string) JourneyEvent {
	pos := r.position()
	label := journeyLabel(r.channel, pos, r.name)
	at := FormatInstant(r.start)

	return JourneyEvent{
		ID:      stableID("j_", strings.TrimSpace(cardName), string(SpaceJourney), string(r.channel), KindTouch, at, label, r.name),
		Space:   SpaceJourney,
		Channel: r.channel,
		Kind:    KindTouch,
		At:      at,
		Label:   label,
		Meta: JourneyMeta{
			PosicaoJornada:  pos,
			NomeComunicacao: r.name,
		},
	}
}

// journeyLabel builds "PUSH P1 — Welcome", or "PUSH P1" without a name.
func journeyLabel(ch Channel, pos, name string) string {
	core := strings.TrimSpace(ch.Upper() + " " + pos)
	if name == "" {
		return core
	}
	return core + " — " + name
}

// SortEvents orders events by instant; undated events go last.
func SortEvents(events []JourneyEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return instantLess(events[i].At, events[j].At)
	})
}

func instantLess(a, b string) bool {
	ta, okA := ParseInstant(a)
	tb, okB := ParseInstant(b)
	switch {
	case okA && okB:
		return ta.Before(tb)
	case okA:
		return true
	default:
		return false
	}
}
