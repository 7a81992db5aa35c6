package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/config"
	"github.com/andresilva/courseapi/internal/database"
	"github.com/andresilva/courseapi/internal/database/users"
	"github.com/andresilva/courseapi/internal/entities"
)

// CreateUserCommand provisions a user account from the command line,
// useful for seeding a manager account without going through the API.
type CreateUserCommand struct {
	Driver   string
	DSN      string
	Name     string
	Email    string
	Password string
	Role     string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Driver, "driver", "sqlite", "Database driver (sqlite or postgres)")
	fs.StringVar(&cmd.DSN, "dsn", config.DefaultDatabasePath, "Database DSN (file path for sqlite, connection string for postgres)")
	fs.StringVar(&cmd.Name, "name", "", "Display name")
	fs.StringVar(&cmd.Email, "email", "", "Email address (used to log in)")
	fs.StringVar(&cmd.Password, "password", "", fmt.Sprintf("Password (min %d characters)", auth.MinPasswordLength))
	fs.StringVar(&cmd.Role, "role", "student", "Role: student or manager")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -name Ada -email ada@example.com -password secret123 -role manager\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("name, email and password are required")
	}
	return nil
}

// Run executes the create-user command
func (cmd *CreateUserCommand) Run() error {
	role := entities.UserRole(cmd.Role)

	db, err := database.NewDatabase(cmd.Driver, cmd.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(users.NewRepository(db.DB), nil, cfg.Auth.BcryptCost)

	user, err := service.Register(cmd.Name, cmd.Email, cmd.Password, role)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s %s (%s)\n", user.Role, user.Name, user.Email)
	return nil
}
