package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Uploads
	}

	HTTP struct {
		Port        int32
		Host        string
		CORSOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		DSN    string // file path for sqlite, connection string for postgres
	}
	Auth struct {
		JWTSecret  string
		BcryptCost int
	}
	Uploads struct {
		Dir           string
		BaseURL       string // public prefix uploaded files are served from
		SweepEnabled  bool
		SweepSchedule string // cron format: "0 3 * * *" = daily at 03:00
		MaxSizeBytes  int64
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3333)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", DefaultDatabasePath)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("uploads_dir", "./uploads")
	v.SetDefault("uploads_base_url", "/uploads")
	v.SetDefault("uploads_sweep_enabled", true)
	v.SetDefault("uploads_sweep_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("uploads_max_size_bytes", DefaultMaxUploadBytes)

	return &Config{
		HTTP: HTTP{
			Port:        v.GetInt32("PORT"),
			Host:        v.GetString("HOST"),
			CORSOrigins: v.GetStringSlice("CORS_ORIGINS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: Auth{
			JWTSecret:  v.GetString("JWT_SECRET"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Uploads: Uploads{
			Dir:           v.GetString("UPLOADS_DIR"),
			BaseURL:       v.GetString("UPLOADS_BASE_URL"),
			SweepEnabled:  v.GetBool("UPLOADS_SWEEP_ENABLED"),
			SweepSchedule: v.GetString("UPLOADS_SWEEP_SCHEDULE"),
			MaxSizeBytes:  v.GetInt64("UPLOADS_MAX_SIZE_BYTES"),
		},
	}
}
