package config

const (
	// DefaultDatabasePath is the default sqlite path for the main
	// application database
	DefaultDatabasePath = "./courseapi.db"

	// DefaultMaxUploadBytes caps course image uploads at 5 MiB
	DefaultMaxUploadBytes = 5 << 20
)
