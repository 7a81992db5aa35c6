// Package cli implements the maintenance subcommands of the server
// binary.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/andresilva/courseapi/internal/config"
	"github.com/andresilva/courseapi/internal/database"
)

// SeedCommand inserts the default categories and tags.
type SeedCommand struct {
	Driver string
	DSN    string
}

// NewSeedCommand creates a new SeedCommand
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.Driver, "driver", "sqlite", "Database driver (sqlite or postgres)")
	fs.StringVar(&cmd.DSN, "dsn", config.DefaultDatabasePath, "Database DSN (file path for sqlite, connection string for postgres)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert the default categories and tags. Safe to run repeatedly;\n")
		fmt.Fprintf(os.Stderr, "existing rows are left alone.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.Driver, cmd.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Seed(); err != nil {
		return err
	}
	fmt.Println("Seed complete")
	return nil
}
