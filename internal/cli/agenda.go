package cli

import (
	"flag"
	"fmt"
	"time"

	"ativas/internal/agenda"
	"ativas/internal/cards/service"
	"ativas/internal/parser"
)

func runAgenda(args []string, svc service.CardService) int {
	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	month := fs.String("month", "", "Month to show as YYYY-MM (default: current)")
	space := fs.String("space", "", "Only journey or offers")
	channel := fs.String("channel", "", "Only one channel (push, email, banner...)")
	query := fs.String("q", "", "Fuzzy search over card, label and alias")
	showArchived := fs.Bool("all", false, "Include archived cards")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	ref := now()
	if *month != "" {
		t, err := time.ParseInLocation("2006-01", *month, time.Local)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid month %q (want YYYY-MM)\n", *month)
			return 1
		}
		ref = t
	}

	filter := agenda.Filter{Search: *query, IncludeArchived: *showArchived}
	switch *space {
	case "":
	case string(parser.SpaceJourney), string(parser.SpaceOffers):
		filter.Space = parser.Space(*space)
	default:
		fmt.Fprintf(stderr, "Error: invalid space %q (want journey or offers)\n", *space)
		return 1
	}
	if *channel != "" {
		ch := parser.NormalizeChannel(*channel)
		if ch == parser.ChannelOther {
			fmt.Fprintf(stderr, "Error: unknown channel %q\n", *channel)
			return 1
		}
		filter.Channel = ch
	}

	cards, err := svc.List()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading cards: %v\n", err)
		return 1
	}

	dateRange := agenda.MonthRange(ref)
	buckets := agenda.QueryAgenda(cards, dateRange, filter)

	fmt.Fprintf(stdout, "%s\n", dateRange.Start.Format("January 2006"))
	if len(buckets) == 0 {
		fmt.Fprintln(stdout, "Nothing scheduled.")
		return 0
	}

	total := 0
	for _, b := range buckets {
		fmt.Fprintf(stdout, "\n%s\n", b.Date.Format("Mon 02/01"))
		for _, item := range b.Touches {
			fmt.Fprintf(stdout, "  %s  %-9s %-3s %s  (%s)\n",
				item.At.In(b.Date.Location()).Format("15:04"),
				item.Channel().Upper(),
				agenda.PositionOf(*item.Event),
				item.Title(),
				item.Card.Name)
		}
		for _, item := range b.Offers {
			fmt.Fprintf(stdout, "  ~~~~~  %-9s     %s  (%s)\n", item.Channel().Upper(), item.Title(), item.Card.Name)
		}
		total += b.TotalCount()
	}

	fmt.Fprintf(stdout, "\n%d item(s) on %d day(s)\n", total, len(buckets))
	return 0
}
