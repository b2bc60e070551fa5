package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ativas/internal/agenda"
	"ativas/internal/cards/models"
	"ativas/internal/cards/service"
	"ativas/internal/parser"
)

// now is replaced in tests.
var now = time.Now

func runAdd(args []string, svc service.CardService) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "Read card text from file instead of stdin")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	var raw []byte
	var err error
	if *file != "" {
		raw, err = os.ReadFile(*file)
	} else {
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error reading card text: %v\n", err)
		return 1
	}

	card, created, err := svc.Import(string(raw))
	if err != nil {
		var aoErr *service.AlwaysOnError
		switch {
		case errors.Is(err, service.ErrEmptyInput):
			fmt.Fprintln(stderr, "Error: card text is empty")
			fmt.Fprintln(stderr, "Usage: ativas card add [-f file] < card.txt")
		case errors.As(err, &aoErr):
			fmt.Fprintf(stderr, "Rejected: %s is always-on\n", aoErr.Card)
			for _, name := range aoErr.Offers {
				fmt.Fprintf(stderr, "  - %s\n", name)
			}
		default:
			fmt.Fprintf(stderr, "Error importing card: %v\n", err)
		}
		return 1
	}

	verb := "Updated"
	if created {
		verb = "Added"
	}
	fmt.Fprintf(stdout, "%s: %s\n", verb, card.Name)
	fmt.Fprintf(stdout, "ID: %s\n", card.ID)
	fmt.Fprintf(stdout, "%d touch(es), %d offer(s), %s\n", len(card.DatedEvents()), len(card.Offers), classification(*card))
	return 0
}

func runList(args []string, svc service.CardService) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showAll := fs.Bool("all", false, "Include archived cards")
	showExpired := fs.Bool("expired", false, "Only active cards past their buffer")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	var cards []models.Card
	var err error
	if *showAll {
		cards, err = svc.List()
	} else {
		cards, err = svc.ListActive()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading cards: %v\n", err)
		return 1
	}

	if *showExpired {
		cards = agenda.QueryExpired(cards, now())
	}

	if len(cards) == 0 {
		fmt.Fprintln(stdout, "No cards found.")
		return 0
	}

	for _, c := range cards {
		printCard(c)
	}

	fmt.Fprintf(stdout, "\n%d card(s)\n", len(cards))
	return 0
}

func runShow(args []string, svc service.CardService) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: card ID required")
		fmt.Fprintln(stderr, "Usage: ativas card show <card-id>")
		return 1
	}

	card, err := findCardByPartialID(svc, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	printCardDetail(*card)
	return 0
}

func runAlias(args []string, svc service.CardService) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "Error: card ID and event ID required")
		fmt.Fprintln(stderr, "Usage: ativas card alias <card-id> <event-id> \"New name\"")
		return 1
	}

	card, err := findCardByPartialID(svc, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ev, err := findEventByPartialID(*card, args[1])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	alias := strings.Join(args[2:], " ")
	if err := svc.SetAlias(card.ID, ev.ID, alias); err != nil {
		fmt.Fprintf(stderr, "Error renaming event: %v\n", err)
		return 1
	}

	if strings.TrimSpace(alias) == "" {
		fmt.Fprintf(stdout, "Reset: %s\n", ev.Label)
	} else {
		fmt.Fprintf(stdout, "Renamed: %s -> %s\n", agenda.DisplayName(*ev), strings.TrimSpace(alias))
	}
	return 0
}

func runReparse(args []string, svc service.CardService) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: card ID required")
		fmt.Fprintln(stderr, "Usage: ativas card reparse <card-id>")
		return 1
	}

	card, err := findCardByPartialID(svc, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	updated, err := svc.Reparse(card.ID)
	if err != nil {
		fmt.Fprintf(stderr, "Error reparsing card: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Reparsed: %s (%d touch(es), %d offer(s))\n",
		updated.Name, len(updated.DatedEvents()), len(updated.Offers))
	return 0
}

func runArchive(args []string, svc service.CardService) int {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.SetOutput(stderr)
	undo := fs.Bool("undo", false, "Restore an archived card")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: card ID required")
		fmt.Fprintln(stderr, "Usage: ativas card archive [--undo] <card-id>")
		return 1
	}

	card, err := findCardByPartialID(svc, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := svc.SetArchived(card.ID, !*undo); err != nil {
		fmt.Fprintf(stderr, "Error archiving card: %v\n", err)
		return 1
	}

	if *undo {
		fmt.Fprintf(stdout, "Restored: %s\n", card.Name)
	} else {
		fmt.Fprintf(stdout, "Archived: %s\n", card.Name)
	}
	return 0
}

func runDelete(args []string, svc service.CardService) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: card ID required")
		fmt.Fprintln(stderr, "Usage: ativas card delete <card-id>")
		return 1
	}

	card, err := findCardByPartialID(svc, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := svc.Delete(card.ID); err != nil {
		fmt.Fprintf(stderr, "Error deleting card: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Deleted: %s\n", card.Name)
	return 0
}

func runWipe(args []string, svc service.CardService) int {
	fs := flag.NewFlagSet("wipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "Confirm deleting every card")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if !*yes {
		fmt.Fprintln(stderr, "Refusing to wipe without --yes")
		return 1
	}

	if err := svc.Wipe(); err != nil {
		fmt.Fprintf(stderr, "Error wiping cards: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "All cards deleted.")
	return 0
}

func classification(c models.Card) string {
	if c.IsPontual {
		return "pontual"
	}
	return "always-on"
}

func printCard(c models.Card) {
	var flags []string
	flags = append(flags, classification(c))
	if c.Archived {
		flags = append(flags, "archived")
	}
	if c.JourneyDisabled {
		flags = append(flags, "journey off")
	}
	if c.IncidentPaused {
		flags = append(flags, "paused")
	}

	fmt.Fprintf(stdout, "[%s] %s (%s)\n", shortID(c.ID), c.Name, strings.Join(flags, ", "))

	var meta []string
	if c.EffectiveStart != nil {
		meta = append(meta, fmt.Sprintf("%s..%s", c.EffectiveStart.Local().Format("2006-01-02"), c.EffectiveEnd.Local().Format("2006-01-02")))
	}
	meta = append(meta, fmt.Sprintf("%d touch(es)", len(c.DatedEvents())))
	meta = append(meta, fmt.Sprintf("%d offer(s)", len(c.Offers)))
	fmt.Fprintf(stdout, "           %s\n", strings.Join(meta, "  "))
}

func printCardDetail(c models.Card) {
	fmt.Fprintf(stdout, "%s\n", c.FullTitle)
	fmt.Fprintf(stdout, "ID:      %s\n", c.ID)
	if c.CardURL != "" {
		fmt.Fprintf(stdout, "URL:     %s\n", c.CardURL)
	}
	fmt.Fprintf(stdout, "Status:  %s\n", classification(c))
	if c.EffectiveStart != nil {
		fmt.Fprintf(stdout, "Window:  %s .. %s (buffer until %s)\n",
			c.EffectiveStart.Local().Format("2006-01-02"),
			c.EffectiveEnd.Local().Format("2006-01-02"),
			c.BufferEnd.Local().Format("2006-01-02"))
	}

	var counts []string
	for _, ch := range parser.JourneyChannels {
		counts = append(counts, fmt.Sprintf("%s %d", ch.Upper(), c.ChannelCounts[ch]))
	}
	fmt.Fprintf(stdout, "Counts:  %s\n", strings.Join(counts, "  "))
	if c.Preview != "" {
		fmt.Fprintf(stdout, "Preview: %s\n", c.Preview)
	}

	if len(c.Events) > 0 {
		fmt.Fprintln(stdout, "\nTouches:")
		for _, ev := range c.Events {
			when := "undated"
			if t, ok := ev.Instant(); ok {
				when = t.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(stdout, "  [%s] %-16s %-9s %-3s %s\n",
				shortID(ev.ID), when, ev.Channel.Upper(), agenda.PositionOf(ev), agenda.DisplayName(ev))
		}
	}

	if len(c.Offers) > 0 {
		fmt.Fprintln(stdout, "\nOffers:")
		for _, o := range c.Offers {
			start, end := o.Window()
			window := formatDay(start) + " .. " + formatDay(end)
			extra := ""
			if o.Meta.AlwaysOn {
				extra = " always-on"
			}
			if o.Meta.RunningDays != nil {
				extra += fmt.Sprintf(" %dd", *o.Meta.RunningDays)
			}
			fmt.Fprintf(stdout, "  [%s] %-9s %s %s%s\n", shortID(o.ID), o.Channel.Upper(), window, o.Name, extra)
		}
	}

	if c.Notes != "" {
		fmt.Fprintf(stdout, "\nNotes:\n%s\n", c.Notes)
	}
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "?"
	}
	return t.Local().Format("2006-01-02")
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

func findCardByPartialID(svc service.CardService, partialID string) (*models.Card, error) {
	cards, err := svc.List()
	if err != nil {
		return nil, err
	}

	var matches []models.Card
	for _, c := range cards {
		if matchesID(c.ID, partialID) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no card found with ID: %s", partialID)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous ID %s matches %d cards", partialID, len(matches))
	}
	return &matches[0], nil
}

func findEventByPartialID(card models.Card, partialID string) (*parser.JourneyEvent, error) {
	var matches []int
	for i, ev := range card.Events {
		if matchesID(ev.ID, partialID) {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no event found with ID: %s", partialID)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous ID %s matches %d events", partialID, len(matches))
	}
	return &card.Events[matches[0]], nil
}

func matchesID(id, partialID string) bool {
	return id == partialID || (len(partialID) >= 4 && strings.HasPrefix(id, partialID))
}
