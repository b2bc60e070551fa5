package agenda

import (
	"time"

	"ativas/internal/cards/models"
	"ativas/internal/parser"
)

// ItemSource identifies whether an agenda item is a journey touch or an offer
type ItemSource int

const (
	SourceTouch ItemSource = iota
	SourceOffer
)

func (s ItemSource) String() string {
	switch s {
	case SourceTouch:
		return "touch"
	case SourceOffer:
		return "offer"
	default:
		return ""
	}
}

// AgendaItem wraps either a journey event or an offer placement with its date context
type AgendaItem struct {
	Source ItemSource
	Date   time.Time // Day the item is shown on
	At     time.Time // Touch instant, or offer window start
	Card   *models.Card
	Event  *parser.JourneyEvent
	Offer  *parser.OfferPlacement
}

// Channel returns the channel of the wrapped event or offer
func (i AgendaItem) Channel() parser.Channel {
	if i.Event != nil {
		return i.Event.Channel
	}
	if i.Offer != nil {
		return i.Offer.Channel
	}
	return parser.ChannelOther
}

// Title is what the calendar shows for the item
func (i AgendaItem) Title() string {
	if i.Event != nil {
		return DisplayName(*i.Event)
	}
	if i.Offer != nil {
		return i.Offer.Name
	}
	return ""
}

// DateBucket groups agenda items by date
type DateBucket struct {
	Date    time.Time
	Touches []AgendaItem
	Offers  []AgendaItem
}

// AllItems returns all items in the bucket (touches first, then offers)
func (b DateBucket) AllItems() []AgendaItem {
	items := make([]AgendaItem, 0, len(b.Touches)+len(b.Offers))
	items = append(items, b.Touches...)
	items = append(items, b.Offers...)
	return items
}

// TotalCount returns the total number of items in the bucket
func (b DateBucket) TotalCount() int {
	return len(b.Touches) + len(b.Offers)
}

// DateRange represents a range of dates for querying
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter narrows what QueryAgenda returns. Zero values match everything
// except archived cards.
type Filter struct {
	Space           parser.Space
	Channel         parser.Channel
	Search          string
	IncludeArchived bool
}
