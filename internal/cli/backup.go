package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ativas/internal/backup"
	"ativas/internal/cards/fs"
)

func runBackupCommand(args []string, store fs.Store) int {
	if len(args) == 0 {
		printBackupUsage()
		return 1
	}

	switch args[0] {
	case "export":
		return runExport(args[1:], store)
	case "import":
		return runImport(args[1:], store)
	case "status":
		return runBackupStatus(store)
	case "help", "-h", "--help":
		printBackupUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown backup command: %s\n", args[0])
		printBackupUsage()
		return 1
	}
}

func runExport(args []string, store fs.Store) int {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(stderr)
	out := flags.String("o", "", "Output file, or - for stdout (default: dated file in the current directory)")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	at := now()
	path := *out
	if path == "" {
		path = backup.FileName(at)
	}

	var w io.Writer = stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating backup file: %v\n", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	exportedAt, err := backup.Export(store, w, at)
	if err != nil {
		fmt.Fprintf(stderr, "Error exporting: %v\n", err)
		return 1
	}

	if path != "-" {
		abs, _ := filepath.Abs(path)
		fmt.Fprintf(stdout, "Exported to %s at %s\n", abs, exportedAt)
	}
	return 0
}

func runImport(args []string, store fs.Store) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: backup file required")
		fmt.Fprintln(stderr, "Usage: ativas backup import <file>")
		return 1
	}

	var r io.Reader = stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "Error opening backup: %v\n", err)
			return 1
		}
		defer f.Close()
		r = f
	}

	n, err := backup.Import(store, r, now())
	if err != nil {
		fmt.Fprintf(stderr, "Error importing: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Imported %d card(s)\n", n)
	return 0
}

func runBackupStatus(store fs.Store) int {
	last, err := backup.LastExport(store)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading backup status: %v\n", err)
		return 1
	}
	if last == "" {
		fmt.Fprintln(stdout, "Never exported.")
		return 0
	}
	fmt.Fprintf(stdout, "Last export: %s\n", last)
	return 0
}

func printBackupUsage() {
	fmt.Fprintln(stdout, `ativas backup - Backup commands

Usage: ativas backup <command> [arguments]

Commands:
  export      Write every card to a JSON file
              ativas backup export               # ativas_extract_backup_<date>.json
              ativas backup export -o cards.json
              ativas backup export -o -          # stdout

  import      Load cards from a backup file
              ativas backup import cards.json

  status      Show when the last export happened

  help        Show this help message`)
}
