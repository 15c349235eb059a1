package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jetnotes/internal/cli"
	"jetnotes/internal/config"
	"jetnotes/internal/database"
	"jetnotes/internal/dispatch"
	"jetnotes/internal/logs"
	"jetnotes/internal/repository"
	"jetnotes/internal/routing"
	"jetnotes/internal/tui"
	"jetnotes/internal/viewmodel"
)

func main() {
	// Parse CLI flags
	dataDirFlag := flag.String("data-dir", "", "Data directory for the database and debug.log")
	flag.StringVar(dataDirFlag, "d", "", "Data directory (shorthand)")
	dbFlag := flag.String("db", "", "Database file, relative to the data directory")
	viewFlag := flag.String("view", "", "Initial view: notes, trash")
	envFlag := flag.String("env", "", "Load environment variables from file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(config.CLIFlags{
		DataDir:     *dataDirFlag,
		DBFile:      *dbFlag,
		DefaultView: *viewFlag,
		EnvFile:     *envFlag,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}

	code := run(cfg, flag.Args())
	logs.Close()
	os.Exit(code)
}

func run(cfg *config.Config, args []string) int {
	db, err := database.Open(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return 1
	}
	defer db.Close()

	repo := repository.NewSQLite(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Check for CLI subcommands
	if len(args) > 0 {
		return cli.Run(ctx, args, repo)
	}

	// Pick up writes from other processes, e.g. the CLI in another terminal
	if cfg.WatchDB {
		watcher, err := repository.Watch(ctx, cfg.DBPath(), repo.Hub(), repository.DefaultWatchDebounce)
		if err != nil {
			logs.Logger.Printf("Warning: could not watch database: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	initial, ok := routing.ParseScreen(cfg.DefaultView)
	if !ok {
		initial = routing.ScreenNotes
	}

	// TUI mode
	logs.Logger.Println("Starting app in TUI mode")
	queue := dispatch.NewQueue(64)
	vm := viewmodel.New(repo, routing.NewRouter(initial), queue)

	p := tea.NewProgram(tui.NewAppModel(vm, queue), tea.WithAltScreen())
	_, runErr := p.Run()

	// Close the queue first so that abandoned tasks never block on Post
	queue.Close()
	vm.Close()

	if runErr != nil {
		fmt.Println("Error running program:", runErr)
		return 1
	}
	return 0
}
