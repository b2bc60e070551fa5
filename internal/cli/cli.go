package cli

import (
	"fmt"
	"io"
	"os"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/service"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// Run executes the CLI with the given arguments.
// The first argument should be the namespace ("card", "agenda", "backup" or "wipe").
func Run(args []string, svc service.CardService, store fs.Store) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	namespace := args[0]
	subArgs := args[1:]

	switch namespace {
	case "card", "c":
		return runCardCommand(subArgs, svc)
	case "agenda", "ag":
		return runAgenda(subArgs, svc)
	case "backup":
		return runBackupCommand(subArgs, store)
	case "wipe":
		return runWipe(subArgs, svc)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", namespace)
		printUsage()
		return 1
	}
}

func runCardCommand(args []string, svc service.CardService) int {
	if len(args) == 0 {
		printCardUsage()
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "add", "a":
		return runAdd(cmdArgs, svc)
	case "list", "ls", "l":
		return runList(cmdArgs, svc)
	case "show", "s":
		return runShow(cmdArgs, svc)
	case "alias":
		return runAlias(cmdArgs, svc)
	case "reparse":
		return runReparse(cmdArgs, svc)
	case "archive":
		return runArchive(cmdArgs, svc)
	case "delete", "rm", "del":
		return runDelete(cmdArgs, svc)
	case "help", "-h", "--help":
		printCardUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown card command: %s\n", command)
		printCardUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(stdout, `ativas - Campaign card extractor and calendar

Usage: ativas [flags] [command] [arguments]

Views (launch TUI into a specific view):
  month       Calendar of journey touches and offers
  cards       Stored cards
  import      Paste a new card

Commands:
  card        Card management commands
  agenda      Print the touches and offers of a month
  backup      Export or import every card as JSON
  wipe        Delete every stored card (requires --yes)

Flags:
  -d, --dir <path>       Store directory
      --view <name>      Initial view: month, cards, import

Running ativas without arguments launches the interactive TUI.
Use "ativas card help" for card subcommands.`)
}

func printCardUsage() {
	fmt.Fprintln(stdout, `ativas card - Card management commands

Usage: ativas card <command> [arguments]

Commands:
  add, a      Import card text (stdin, or a file)
              ativas card add < card.txt
              ativas card add -f card.txt

  list, ls, l List cards
              ativas card list            # Active cards
              ativas card list --all      # Including archived
              ativas card list --expired  # Active cards past their buffer

  show, s     Show a card with its touches and offers
              ativas card show <card-id>

  alias       Rename a journey touch (empty text resets it)
              ativas card alias <card-id> <event-id> "New name"

  reparse     Rebuild a card from its stored text
              ativas card reparse <card-id>

  archive     Archive a card
              ativas card archive <card-id>
              ativas card archive --undo <card-id>

  delete, rm  Delete a card
              ativas card delete <card-id>

  help        Show this help message`)
}
