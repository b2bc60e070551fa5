package parser

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// OfferMeta carries the placement details and the always-on verdict.
type OfferMeta struct {
	PosicaoJornada string `json:"posicaoJornada" yaml:"posicao_jornada"`
	RawChannel     string `json:"rawChannel" yaml:"raw_channel"`
	BlocksCount    int    `json:"blocksCount" yaml:"blocks_count"`
	Deeplink       string `json:"deeplink" yaml:"deeplink"`
	AlwaysOn       bool   `json:"alwaysOn" yaml:"always_on"`
	// RunningDays is nil unless both dates parsed and end >= start.
	RunningDays *int `json:"runningDays" yaml:"running_days"`
}

// OfferPlacement is one in-app, banner or marketing-screen window.
type OfferPlacement struct {
	ID      string    `json:"id" yaml:"id"`
	Space   Space     `json:"space" yaml:"space"`
	Channel Channel   `json:"channel" yaml:"channel"`
	StartAt string    `json:"startAt" yaml:"start_at"`
	EndAt   string    `json:"endAt" yaml:"end_at"`
	Name    string    `json:"name" yaml:"name"`
	Label   string    `json:"label" yaml:"label"`
	Meta    OfferMeta `json:"meta" yaml:"meta"`
}

// Window returns the parsed start and end; either may be zero.
func (o OfferPlacement) Window() (start, end time.Time) {
	start, _ = ParseInstant(o.StartAt)
	end, _ = ParseInstant(o.EndAt)
	return start, end
}

// OfferResult is the output of ParseOffers.
type OfferResult struct {
	Offers    []OfferPlacement `json:"offers"`
	IsPontual bool             `json:"isPontual"`
}

// AlwaysOnNames lists the labels of the offers that keep the card from being
// pontual.
func (r OfferResult) AlwaysOnNames() []string {
	var names []string
	for _, o := range r.Offers {
		if o.Meta.AlwaysOn {
			names = append(names, o.Label)
		}
	}
	return names
}

// ParseOffers extracts offer placements and classifies the card. A single
// always-on offer makes the whole card non-pontual.
func ParseOffers(text, labelContext string, opts Options) OfferResult {
	opts = opts.withDefaults()

	records := newSectionScanner(offerAllowSet(), offerRules, opts).scan(text)

	offers := make([]OfferPlacement, 0, len(records))
	pontual := true
	for i := range records {
		o := newOfferPlacement(&records[i], labelContext, opts)
		if o.Meta.AlwaysOn {
			pontual = false
		}
		offers = append(offers, o)
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return instantLess(offers[i].StartAt, offers[j].StartAt)
	})

	return OfferResult{Offers: offers, IsPontual: pontual}
}

func newOfferPlacement(r *record, cardName string, opts Options) OfferPlacement {
	name := r.name
	if name == "" {
		name = r.channel.Upper()
	}
	pos := r.position()
	start := FormatInstant(r.start)
	end := FormatInstant(r.end)

	running := runningDays(r)
	alwaysOn := (r.channel != ChannelMktScreen && !r.hasEnd()) ||
		(running != nil && *running >= opts.LongRunningDays)

	return OfferPlacement{
		ID: stableID("o_", strings.TrimSpace(cardName), string(SpaceOffers), string(r.channel),
			pos, start, end, name, r.deeplink, strconv.Itoa(r.blocks)),
		Space:   SpaceOffers,
		Channel: r.channel,
		StartAt: start,
		EndAt:   end,
		Name:    name,
		Label:   name,
		Meta: OfferMeta{
			PosicaoJornada: pos,
			RawChannel:     r.rawChannel,
			BlocksCount:    r.blocks,
			Deeplink:       r.deeplink,
			AlwaysOn:       alwaysOn,
			RunningDays:    running,
		},
	}
}

// runningDays is floor((end-start)/1 day); negative spans count as unknown.
func runningDays(r *record) *int {
	if !r.hasStart() || !r.hasEnd() || r.end.Before(r.start) {
		return nil
	}
	n := int(r.end.Sub(r.start) / day)
	return &n
}
