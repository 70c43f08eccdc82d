package main

import (
	"fmt"
	"os"

	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/repository/sqlstore"
	"github.com/pratik-mahalle/bizlytic/migrations"
)

// Usage: migrate [up|status]
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sqlstore.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", cfg.Database.Driver)

	switch command {
	case "up":
		pending, err := sqlstore.PendingMigrations(db, migrations.GetFS())
		if err != nil {
			// first run: the tracking table does not exist yet
			pending = nil
		}
		for _, name := range pending {
			fmt.Printf("Running migration: %s\n", name)
		}

		applied, err := sqlstore.RunMigrations(db, migrations.GetFS())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Migration failed after %d applied: %v\n", applied, err)
			os.Exit(1)
		}
		if applied == 0 {
			fmt.Println("No pending migrations")
			return
		}
		fmt.Printf("\nAll migrations completed successfully! (%d applied)\n", applied)

	case "status":
		pending, err := sqlstore.PendingMigrations(db, migrations.GetFS())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration status: %v\n", err)
			os.Exit(1)
		}
		if len(pending) == 0 {
			fmt.Println("Database is up to date")
			return
		}
		fmt.Printf("%d pending migration(s):\n", len(pending))
		for _, name := range pending {
			fmt.Printf("  %s\n", name)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q (want up or status)\n", command)
		os.Exit(2)
	}
}
