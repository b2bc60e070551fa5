// Package parser turns card text pasted from the project-management tool into
// journey touches and offer placements.
//
// A card is a header line, an optional link, and any number of sections:
//
//	Campanha Cashback - Março - Squad Growth
//	https://tracker.example.com/card/123
//	---- COMUNICAÇÃO 1 - P1 (Push) ----
//	dataInicio: 2024-03-10 09:00
//	Nome Comunicação: Boas-vindas
//	---- COMUNICAÇÃO 2 (Banner) ----
//	dataInicio: 2024-03-10
//	dataFim: 2024-03-20
//	Nome Experiência: Banner Home
//
// Every function is pure: the same text and options always produce the same
// output, identifiers included.
package parser

// Result bundles the three extractions of one card.
type Result struct {
	Header  Header
	Journey JourneyResult
	Offers  OfferResult
}

// Parse runs the header, journey and (when enabled) offer extractors. The
// display name seeds identifiers.
func Parse(text string, opts Options) Result {
	h := ParseHeader(text)
	res := Result{
		Header:  h,
		Journey: ParseJourney(text, h.DisplayName, opts),
		Offers:  OfferResult{Offers: []OfferPlacement{}, IsPontual: true},
	}
	if opts.IncludeOffers {
		res.Offers = ParseOffers(text, h.DisplayName, opts)
	}
	return res
}

// Empty reports whether nothing schedulable was found.
func (r Result) Empty() bool {
	return len(r.Journey.Events) == 0 && len(r.Offers.Offers) == 0
}
