package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ativas/internal/cards/fs"
	"ativas/internal/cards/service"
	"ativas/internal/cli"
	"ativas/internal/config"
	"ativas/internal/logs"
	"ativas/internal/tui"
)

func main() {
	// Parse CLI flags
	dirFlag := flag.String("dir", "", "Card store directory")
	flag.StringVar(dirFlag, "d", "", "Card store directory (shorthand)")
	viewFlag := flag.String("view", "", "Initial view: month, cards, import")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(config.CLIFlags{StoreDir: *dirFlag})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	// Ensure the store directory exists
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.StoreDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	store, err := fs.NewFileStore(cfg.StoreDir)
	if err != nil {
		log.Fatalf("Failed to open card store: %v", err)
	}
	svc := service.NewCardService(store, cfg.ServiceSettings())

	// Check for CLI subcommands
	if args := flag.Args(); len(args) > 0 {
		code := cli.Run(args, svc, store)
		logs.Close()
		os.Exit(code)
	}

	// Apply --view flag override
	if *viewFlag != "" {
		cfg.DefaultView = *viewFlag
	}

	// TUI mode
	logs.Logger.Println("Starting app in TUI mode")
	p := tea.NewProgram(tui.NewAppModel(cfg, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
