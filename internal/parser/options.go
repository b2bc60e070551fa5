package parser

import "time"

const (
	// DefaultLongRunningDays is the validity span from which an offer with a
	// fixed end still counts as always-on.
	DefaultLongRunningDays = 183
	// DefaultDeeplinkPrefix is the URL scheme a mktscreen deeplink must use.
	DefaultDeeplinkPrefix = "app://"
)

// Options selects which parts of a card are extracted and tunes the
// heuristics. The zero value behaves like DefaultOptions except that offers
// are skipped by Parse.
type Options struct {
	// JourneyChannels is the allow-set for journey extraction. Nil means all
	// journey channels; an empty non-nil slice disables journey extraction.
	JourneyChannels []Channel
	IncludeOffers   bool
	LongRunningDays int
	DeeplinkPrefix  string
	// Location is used for dates written without an offset.
	Location *time.Location
}

// DefaultOptions returns the configuration of the most complete parser.
func DefaultOptions() Options {
	return Options{
		JourneyChannels: append([]Channel(nil), JourneyChannels...),
		IncludeOffers:   true,
		LongRunningDays: DefaultLongRunningDays,
		DeeplinkPrefix:  DefaultDeeplinkPrefix,
		Location:        time.Local,
	}
}

func (o Options) withDefaults() Options {
	if o.JourneyChannels == nil {
		o.JourneyChannels = append([]Channel(nil), JourneyChannels...)
	}
	if o.LongRunningDays <= 0 {
		o.LongRunningDays = DefaultLongRunningDays
	}
	if o.DeeplinkPrefix == "" {
		o.DeeplinkPrefix = DefaultDeeplinkPrefix
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// journeyAllowSet keeps only journey channels from the configured list.
func (o Options) journeyAllowSet() map[Channel]bool {
	set := make(map[Channel]bool)
	for _, c := range o.JourneyChannels {
		if c.IsJourney() {
			set[c] = true
		}
	}
	return set
}

func offerAllowSet() map[Channel]bool {
	set := make(map[Channel]bool)
	for _, c := range OfferChannels {
		set[c] = true
	}
	return set
}
