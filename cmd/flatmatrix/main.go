package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dori/flatmatrix/internal/app"
	"github.com/dori/flatmatrix/internal/config"
	"github.com/dori/flatmatrix/internal/model"
	"github.com/dori/flatmatrix/internal/storage"
	"github.com/dori/flatmatrix/internal/taskstore"
	"github.com/dori/flatmatrix/internal/ui"
)

var (
	version = "0.1.0"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "list":
			handleList(os.Args[2:])
			return
		case "migrate":
			handleMigrate(os.Args[2:])
			return
		case "version":
			fmt.Printf("flatmatrix v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Run TUI
	if err := runTUI(); err != nil {
		logger.Fatal("flatmatrix exited", "err", err)
	}
}

func printHelp() {
	help := `flatmatrix - a daily Eisenhower-matrix planner

Usage:
  flatmatrix                       Start the TUI
  flatmatrix add <title> [flags]   Quick add a task for a date
  flatmatrix list [flags]          Print a date's tasks
  flatmatrix migrate [flags]       Move a date's unfinished tasks forward
  flatmatrix version               Show version
  flatmatrix help                  Show this help

Flags:
  add:      -d <YYYY-MM-DD>   target date (default today)
            -c <note>         optional context note
  list:     -d <YYYY-MM-DD>   date to print (default today)
  migrate:  -from <date>      source date (default today)
            -to <date>        target date (default the day after -from)

Data lives in a single SQLite database (default ~/.local/share/flatmatrix).
An optional config file at ~/.config/flatmatrix/config.toml can relocate it
and tune the undo window.`

	fmt.Println(help)
}

// openStore opens the database and task store without the single-instance
// lock; quick commands only touch buckets and can run next to the TUI.
func openStore(date string) (*storage.DB, *taskstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := taskstore.New(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if date != "" {
		if err := store.LoadTasksByDate(date); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return db, store, nil
}

func handleAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("d", "", "target date (YYYY-MM-DD, default today)")
	context := fs.String("c", "", "context note")
	fs.Parse(args)

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		fmt.Fprintln(os.Stderr, "Usage: flatmatrix add <title> [-d date] [-c note]")
		os.Exit(1)
	}

	db, store, err := openStore(*date)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer db.Close()

	if err := store.AddTask(title, *context); err != nil {
		logger.Fatal("failed to add task", "err", err)
	}
	fmt.Printf("Added %q to %s\n", title, store.CurrentDate())
}

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	date := fs.String("d", "", "date to print (YYYY-MM-DD, default today)")
	fs.Parse(args)

	db, store, err := openStore(*date)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer db.Close()

	tasks := store.Tasks()
	fmt.Printf("%s — %d task(s)\n", store.CurrentDate(), len(tasks))

	sections := append([]model.Quadrant{model.QuadrantNone}, model.Quadrants...)
	for _, q := range sections {
		inQuadrant := store.TasksInQuadrant(q)
		if len(inQuadrant) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", q.Label())
		for _, t := range inQuadrant {
			check := " "
			if t.IsCompleted {
				check = "x"
			}
			line := fmt.Sprintf("  [%s] %s", check, t.Title)
			if t.Context != "" {
				line += " · " + t.Context
			}
			fmt.Println(line)
		}
	}
}

func handleMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	from := fs.String("from", "", "source date (default today)")
	to := fs.String("to", "", "target date (default the day after -from)")
	fs.Parse(args)

	fromDate := taskstore.ResolveDate(*from)
	toDate := *to
	if toDate == "" {
		toDate = taskstore.NextDay(fromDate)
	}

	db, store, err := openStore("")
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer db.Close()

	moved, err := store.MigrateIncompleteTasks(fromDate, toDate)
	if err != nil {
		logger.Fatal("failed to migrate tasks", "err", err)
	}
	if moved == 0 {
		fmt.Printf("Nothing unfinished on %s\n", fromDate)
		return
	}
	fmt.Printf("Moved %d task(s) from %s to %s\n", moved, fromDate, toDate)
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(ui.NewRootModel(application), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
