package agenda

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"ativas/internal/cards/models"
	"ativas/internal/parser"

	"github.com/sahilm/fuzzy"
)

// DayRange returns a DateRange for a single day
func DayRange(date time.Time) DateRange {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// WeekRange returns a DateRange for the week containing the given date (Sun-Sat)
func WeekRange(date time.Time) DateRange {
	sunday := date.AddDate(0, 0, -int(date.Weekday()))
	start := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// MonthRange returns a DateRange for the entire month containing the given date
func MonthRange(date time.Time) DateRange {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// MonthGrid returns the days of the calendar grid for month: whole weeks,
// Sunday first, from the week holding the 1st to the week holding the last day.
func MonthGrid(month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, 6-int(last.Weekday()))

	var days []time.Time
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// QueryAgenda places the journey touches and offer windows of cards on the
// days of dateRange. Days are taken in the location of dateRange.Start.
func QueryAgenda(cards []models.Card, dateRange DateRange, filter Filter) []DateBucket {
	loc := dateRange.Start.Location()
	var candidates []AgendaItem

	for ci := range cards {
		card := &cards[ci]
		if card.Archived && !filter.IncludeArchived {
			continue
		}

		if filter.Space == "" || filter.Space == parser.SpaceJourney {
			if !card.JourneyDisabled {
				for ei := range card.Events {
					ev := &card.Events[ei]
					if !matchesChannel(ev.Channel, filter) {
						continue
					}
					at, ok := ev.Instant()
					if !ok {
						continue
					}
					day := dayOf(at, loc)
					if !inRange(day, dateRange) {
						continue
					}
					candidates = append(candidates, AgendaItem{
						Source: SourceTouch,
						Date:   day,
						At:     at,
						Card:   card,
						Event:  ev,
					})
				}
			}
		}

		if filter.Space == "" || filter.Space == parser.SpaceOffers {
			for oi := range card.Offers {
				offer := &card.Offers[oi]
				if !matchesChannel(offer.Channel, filter) {
					continue
				}
				candidates = append(candidates, offerItems(card, offer, dateRange, loc)...)
			}
		}
	}

	candidates = applySearch(candidates, filter.Search)

	bucketMap := make(map[string]*DateBucket)
	for _, item := range candidates {
		bucket := getOrCreateBucket(bucketMap, item.Date)
		if item.Source == SourceTouch {
			bucket.Touches = append(bucket.Touches, item)
		} else {
			bucket.Offers = append(bucket.Offers, item)
		}
	}

	// Convert map to sorted slice
	buckets := make([]DateBucket, 0, len(bucketMap))
	for _, bucket := range bucketMap {
		sortItems(bucket.Touches)
		sortItems(bucket.Offers)
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return buckets
}

// QueryExpired returns the active cards whose buffer ended strictly before
// cutoff, oldest first. They are the ones ready to be archived.
func QueryExpired(cards []models.Card, cutoff time.Time) []models.Card {
	var expired []models.Card
	for _, c := range cards {
		if c.Archived || c.BufferEnd == nil {
			continue
		}
		if c.BufferEnd.Before(cutoff) {
			expired = append(expired, c)
		}
	}
	sort.SliceStable(expired, func(i, j int) bool {
		return expired[i].BufferEnd.Before(*expired[j].BufferEnd)
	})
	return expired
}

// offerItems repeats an offer on every day of its window inside dateRange.
// An offer without end runs to the end of the range; one without start is
// not placed.
func offerItems(card *models.Card, offer *parser.OfferPlacement, dateRange DateRange, loc *time.Location) []AgendaItem {
	start, end := offer.Window()
	if start.IsZero() {
		return nil
	}

	first := dayOf(start, loc)
	rangeStart := dayOf(dateRange.Start, loc)
	rangeEnd := dayOf(dateRange.End, loc)
	if first.Before(rangeStart) {
		first = rangeStart
	}
	last := rangeEnd
	if !end.IsZero() {
		if e := dayOf(end, loc); e.Before(last) {
			last = e
		}
	}

	var items []AgendaItem
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		items = append(items, AgendaItem{
			Source: SourceOffer,
			Date:   d,
			At:     start,
			Card:   card,
			Offer:  offer,
		})
	}
	return items
}

func matchesChannel(ch parser.Channel, filter Filter) bool {
	return filter.Channel == "" || filter.Channel == ch
}

// applySearch keeps the items whose "<card> <label> <alias>" text fuzzy
// matches query, preserving their order.
func applySearch(items []AgendaItem, query string) []AgendaItem {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return items
	}

	haystack := make([]string, len(items))
	for i, item := range items {
		haystack[i] = searchText(item)
	}

	matches := fuzzy.Find(query, haystack)
	keep := make([]bool, len(items))
	for _, m := range matches {
		keep[m.Index] = true
	}

	var out []AgendaItem
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out
}

func searchText(item AgendaItem) string {
	parts := []string{}
	if item.Card != nil {
		parts = append(parts, item.Card.Name)
	}
	if item.Event != nil {
		parts = append(parts, item.Event.Label, item.Event.Alias)
	}
	if item.Offer != nil {
		parts = append(parts, item.Offer.Label, item.Offer.Name)
	}
	return strings.Join(parts, " ")
}

func sortItems(items []AgendaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].At.Equal(items[j].At) {
			return items[i].Title() < items[j].Title()
		}
		return items[i].At.Before(items[j].At)
	})
}

var positionToken = regexp.MustCompile(`(?i)\bP\d+\b`)

// DisplayName is the alias when set, otherwise the label.
func DisplayName(ev parser.JourneyEvent) string {
	if a := strings.TrimSpace(ev.Alias); a != "" {
		return a
	}
	if l := strings.TrimSpace(ev.Label); l != "" {
		return l
	}
	return ev.Channel.Upper()
}

// PositionOf returns the journey position of ev, falling back to the first
// P<n> token of its label and then to "P?".
func PositionOf(ev parser.JourneyEvent) string {
	if pos := strings.TrimSpace(ev.Meta.PosicaoJornada); pos != "" {
		return pos
	}
	if m := positionToken.FindString(ev.Label); m != "" {
		return strings.ToUpper(m)
	}
	return "P?"
}

// CommunicationName returns the communication name of ev, taken from its
// meta or from the part of the label after the dash.
func CommunicationName(ev parser.JourneyEvent) string {
	if n := strings.TrimSpace(ev.Meta.NomeComunicacao); n != "" {
		return n
	}
	if parts := strings.SplitN(ev.Label, "—", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	if l := strings.TrimSpace(ev.Label); l != "" {
		return l
	}
	return "—"
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func inRange(day time.Time, dateRange DateRange) bool {
	loc := day.Location()
	s := dayOf(dateRange.Start, loc)
	e := dayOf(dateRange.End, loc)
	return !day.Before(s) && !day.After(e)
}

func getOrCreateBucket(bucketMap map[string]*DateBucket, date time.Time) *DateBucket {
	key := date.Format("2006-01-02")
	if bucket, ok := bucketMap[key]; ok {
		return bucket
	}
	bucket := &DateBucket{Date: date}
	bucketMap[key] = bucket
	return bucket
}
